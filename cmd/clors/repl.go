package main

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	clors "github.com/keean/Clors"
	"github.com/keean/Clors/engine"
)

type readWriter struct {
	io.Reader
	io.Writer
}

// toplevel reads clauses and queries line by line on a raw terminal.
// Clauses are asserted into the session database; queries run immediately.
// EOF (ctrl-D) leaves the session.
func toplevel(depth int, verbose bool) error {
	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		return err
	}
	defer func() {
		_ = terminal.Restore(0, oldState)
	}()

	t := terminal.NewTerminal(readWriter{os.Stdin, os.Stdout}, "?- ")
	log.SetOutput(t)

	i := clors.New(t)
	i.MaxDepth = depth
	if verbose {
		i.OnDepth = func(d int) {
			log.Printf("depth %d", d)
		}
	}

	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			t.SetPrompt("?- ")
		} else {
			t.SetPrompt("|  ")
		}

		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		buf.WriteString(line)

		if !strings.HasSuffix(strings.TrimSpace(buf.String()), ".") {
			buf.WriteString("\n")
			continue
		}

		if err := i.Exec(buf.String()); err != nil {
			var parseErr *engine.ParseError
			if errors.As(err, &parseErr) {
				log.Printf("%v", parseErr)
			} else {
				log.Printf("%v", err)
			}
		}
		buf.Reset()
	}
}
