package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	clors "github.com/keean/Clors"
	"github.com/keean/Clors/engine"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		depth   int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "clors [file ...]",
		Short:         "Definite-clause solver with rational trees and dif/2",
		Long:          "Executes each program file in order, printing a proof trace or NP per query. With no files, enters an interactive toplevel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return toplevel(depth, verbose)
			}
			for _, name := range args {
				if err := execFile(name, depth, verbose); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", clors.DefaultMaxDepth, "maximum search depth per query")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log the parsed program and depth progress")

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	var parseErr *engine.ParseError
	if errors.As(err, &parseErr) {
		return 2
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return 1
	}
	return 1
}

// execFile consults one program file with a fresh interpreter, so files do
// not share clause databases.
func execFile(name string, depth int, verbose bool) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	i := clors.New(os.Stdout)
	i.MaxDepth = depth
	if verbose {
		i.OnProgram = func(*engine.Database) {
			i.Listing(os.Stderr)
		}
		i.OnDepth = func(d int) {
			log.Printf("depth %d", d)
		}
	}
	if err := i.ExecReader(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
