package engine

import "io"

// Parser builds clauses over an arena and interner. Clause forms:
//
//	fact:  head .
//	rule:  head :- goal , … , goal .
//	query: :- goal , … , goal .
//
// Within a clause, occurrences of the same variable name denote the same
// variable. A clause's cyck set holds the head variables that need a cycle
// check when the clause is used: those occurring twice in the head or
// recurring in the body.
type Parser struct {
	lexer    *Lexer
	arena    *Arena
	interner *Interner

	tok      Token
	err      error
	vars     map[string]*Variable
	varOrder []*Variable
	inHead   bool
	headVars map[*Variable]bool
	cyck     map[*Variable]bool
	clauseID int
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader, a *Arena, in *Interner) *Parser {
	p := &Parser{lexer: NewLexer(r), arena: a, interner: in}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.tok, p.err = p.lexer.Next()
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	if p.err != nil {
		return Token{}, p.err
	}
	if p.tok.Kind != k {
		return Token{}, p.errorf(k.String())
	}
	t := p.tok
	p.advance()
	return t, p.err
}

func (p *Parser) accept(k TokenKind) bool {
	if p.err != nil || p.tok.Kind != k {
		return false
	}
	p.advance()
	return p.err == nil
}

func (p *Parser) errorf(expected string) error {
	found := p.tok.Val
	if p.tok.Kind == TokenEOF {
		found = "end of input"
	}
	return &ParseError{Row: p.tok.Row, Col: p.tok.Col, Expected: expected, Found: found}
}

// Next returns the next clause, or io.EOF after the last one. A clause with
// a nil head is a top-level query.
func (p *Parser) Next() (*Clause, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.Kind == TokenEOF {
		return nil, io.EOF
	}

	p.vars = map[string]*Variable{}
	p.varOrder = nil
	p.headVars = map[*Variable]bool{}
	p.cyck = map[*Variable]bool{}

	var head *Struct
	if p.tok.Kind != TokenNeck {
		p.inHead = true
		var err error
		head, err = p.parseStruct()
		p.inHead = false
		if err != nil {
			return nil, err
		}
		for _, v := range p.varOrder {
			p.headVars[v] = true
		}
	}

	var body []*Struct
	if p.accept(TokenNeck) {
		var err error
		body, err = p.parseStructs()
		if err != nil {
			return nil, err
		}
	} else if head == nil {
		if p.err != nil {
			return nil, p.err
		}
		return nil, p.errorf("head or ':-'")
	}
	if _, err := p.expect(TokenDot); err != nil {
		return nil, err
	}

	cyck := make([]*Variable, 0, len(p.cyck))
	for _, v := range p.varOrder {
		if p.cyck[v] {
			cyck = append(cyck, v)
		}
	}
	p.clauseID++
	return p.arena.NewClause(head, cyck, body, p.clauseID), nil
}

func (p *Parser) parseVariable() (*Variable, error) {
	t, err := p.expect(TokenVariable)
	if err != nil {
		return nil, err
	}
	if v, ok := p.vars[t.Val]; ok {
		// A repeat in the head, or a head variable recurring in the
		// body, marks the variable for the post-unification cycle
		// check.
		if p.inHead || p.headVars[v] {
			p.cyck[v] = true
		}
		return v, nil
	}
	v := p.arena.NewVariable(t.Val)
	p.vars[t.Val] = v
	p.varOrder = append(p.varOrder, v)
	return v, nil
}

func (p *Parser) parseTerm() (Term, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.tok.Kind {
	case TokenVariable:
		return p.parseVariable()
	case TokenAtom:
		a := p.interner.Intern(p.tok.Val)
		p.advance()
		if p.accept(TokenOpen) {
			args, err := p.parseTerms()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenClose); err != nil {
				return nil, err
			}
			return p.arena.NewStruct(a, args, false), nil
		}
		return a, nil
	default:
		return nil, p.errorf("variable or term")
	}
}

func (p *Parser) parseTerms() ([]Term, error) {
	var args []Term
	for {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if !p.accept(TokenComma) {
			return args, p.err
		}
	}
}

func (p *Parser) parseStruct() (*Struct, error) {
	negated := p.accept(TokenMinus)
	t, err := p.expect(TokenAtom)
	if err != nil {
		return nil, err
	}
	functor := p.interner.Intern(t.Val)
	var args []Term
	if p.accept(TokenOpen) {
		args, err = p.parseTerms()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenClose); err != nil {
			return nil, err
		}
	}
	return p.arena.NewStruct(functor, args, negated), nil
}

func (p *Parser) parseStructs() ([]*Struct, error) {
	var ss []*Struct
	for {
		s, err := p.parseStruct()
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
		if !p.accept(TokenComma) {
			return ss, p.err
		}
	}
}
