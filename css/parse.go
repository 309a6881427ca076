package css

import (
	"strings"

	"golang.org/x/exp/slices"
)

type parser struct {
	tokens []token
	index  int
}

var unsupportedPseudoFunctions = []string{
	"is", "where", "has", "matches", "any", "-webkit-any", "-moz-any",
	"nth-col", "nth-last-col", "dir", "host", "host-context", "current", "state",
}

var unsupportedPseudoClasses = []string{
	"before", "after", "first-line", "first-letter", "selection",
	"scope", "focus-within", "focus-visible", "target-within", "local-link",
	"default", "indeterminate", "valid", "invalid", "in-range", "out-of-range",
	"placeholder-shown", "defined", "blank", "user-invalid", "any-link", "host",
}

func (p *parser) next() token {
	if p.index >= len(p.tokens) {
		return token{kind: tokenEOF, pos: p.end()}
	}
	t := p.tokens[p.index]
	p.index++
	return t
}

func (p *parser) peek() token {
	if p.index >= len(p.tokens) {
		return token{kind: tokenEOF, pos: p.end()}
	}
	return p.tokens[p.index]
}

func (p *parser) end() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].pos
}

func (p *parser) acceptRun(c tokenKind) {
	for p.peek().kind == c {
		p.next()
	}
}

func (p *parser) errorf(t token, reason string) error {
	return &ParseError{Pos: t.pos, Fragment: t.text, Reason: reason}
}

func parse(tokens []token) (Selector, error) {
	p := &parser{tokens: tokens}
	s := Selector{}
	for {
		c, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		s = append(s, c)
		p.acceptRun(tokenSpace)
		switch t := p.next(); {
		case t.kind == tokenEOF:
			return s, nil
		case t.kind == tokenCombinator && t.text == ",":
			p.acceptRun(tokenSpace)
		default:
			return nil, p.errorf(t, "unexpected token")
		}
	}
}

// parseCompound parses a standalone compound selector, e.g. the argument of :not().
func parseCompound(selector string) (*CompoundSelector, error) {
	tokens, err := lex(selector)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	s, err := p.parseCompoundSelector()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, p.errorf(t, "expected a single compound selector")
	}
	return s, nil
}

func (p *parser) parseComplexSelector() (*ComplexSelector, error) {
	s, err := p.parseCompoundSelector()
	if err != nil {
		return nil, err
	}
	c := &ComplexSelector{Compounds: []*CompoundSelector{s}}
	for {
		combinator, ok := p.parseCombinator()
		if !ok {
			return c, nil
		}
		s, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		c.Combinators = append(c.Combinators, combinator)
		c.Compounds = append(c.Compounds, s)
	}
}

func (p *parser) parseCompoundSelector() (*CompoundSelector, error) {
	s, start, n := &CompoundSelector{Type: "*"}, p.peek(), 0
	switch start.kind {
	case tokenIdent:
		s.Type, n = strings.ToLower(p.next().text), n+1
	case tokenUniversal:
		p.next()
		n++
	}
loop:
	for ; ; n++ {
		switch t := p.peek(); t.kind {
		case tokenClass:
			s.Attributes = append(s.Attributes, &AttributeSelector{"class", "~=", p.next().text})
		case tokenID:
			if id := p.next().text; s.ID == "" {
				s.ID = id
			} else {
				s.Attributes = append(s.Attributes, &AttributeSelector{"id", "=", id})
			}
		case tokenBracketOpen:
			a, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			s.Attributes = append(s.Attributes, a)
		case tokenPseudoClass:
			ps, err := p.parsePseudoSelector()
			if err != nil {
				return nil, err
			}
			s.Pseudos = append(s.Pseudos, ps)
		case tokenPseudoFunction:
			ps, err := p.parsePseudoFunctionSelector()
			if err != nil {
				return nil, err
			}
			s.Pseudos = append(s.Pseudos, ps)
		default:
			break loop
		}
	}
	if n == 0 {
		return nil, p.errorf(start, "empty compound selector")
	}
	return s, nil
}

func (p *parser) parseCombinator() (Combinator, bool) {
	space := p.peek().kind == tokenSpace
	p.acceptRun(tokenSpace)
	switch t := p.peek(); {
	case t.kind == tokenCombinator && t.text != ",":
		p.next()
		p.acceptRun(tokenSpace)
		return Combinator(t.text), true
	case space && t.kind != tokenEOF && t.kind != tokenCombinator:
		return Descendant, true
	default:
		return "", false
	}
}

func (p *parser) parseAttributeSelector() (*AttributeSelector, error) {
	open := p.next()
	p.acceptRun(tokenSpace)
	t := p.next()
	if t.kind != tokenIdent {
		return nil, p.errorf(open, "invalid attribute selector: expected attribute name")
	}
	key, matcher := strings.ToLower(t.text), p.parseMatcher()
	switch t := p.next(); {
	case matcher == "" && t.kind == tokenBracketClose:
		return &AttributeSelector{Key: key}, nil
	case matcher != "" && (t.kind == tokenString || t.kind == tokenIdent):
		p.acceptRun(tokenSpace)
		if t := p.next(); t.kind != tokenBracketClose {
			return nil, p.errorf(t, "invalid attribute selector: expected ]")
		}
		return &AttributeSelector{key, matcher, t.text}, nil
	default:
		return nil, p.errorf(open, "invalid attribute selector: expected ] or operator and value")
	}
}

func (p *parser) parseMatcher() string {
	matcher := ""
	p.acceptRun(tokenSpace)
	if p.peek().kind == tokenMatcher {
		matcher = p.next().text
	}
	p.acceptRun(tokenSpace)
	return matcher
}

func (p *parser) parsePseudoSelector() (*PseudoSelector, error) {
	t := p.next()
	name := strings.ToLower(t.text)
	if slices.Contains(unsupportedPseudoClasses, name) {
		return nil, &UnsupportedFeatureError{":" + name}
	}
	f := PseudoClasses[name]
	if f == nil {
		return nil, p.errorf(t, "unknown pseudo class")
	}
	return &PseudoSelector{Name: name, match: f}, nil
}

func (p *parser) parsePseudoFunctionSelector() (*PseudoSelector, error) {
	t := p.next()
	name := strings.ToLower(t.text)
	if slices.Contains(unsupportedPseudoFunctions, name) {
		return nil, &UnsupportedFeatureError{":" + name + "()"}
	}
	argsToken := p.next()
	if argsToken.kind != tokenFunctionArguments {
		return nil, p.errorf(t, "expected pseudo function arguments")
	}
	args := strings.TrimSpace(argsToken.text[1 : len(argsToken.text)-1])
	if name == "not" {
		s, err := parseCompound(args)
		if err != nil {
			return nil, err
		}
		return &PseudoSelector{Name: name, Args: s.String(), Not: s, match: func(n Node) bool { return !s.Match(n) }}, nil
	}
	f := PseudoFunctions[name]
	if f == nil {
		return nil, p.errorf(t, "unknown pseudo function")
	}
	match, err := f(args)
	if err != nil {
		return nil, &ParseError{Pos: argsToken.pos, Fragment: argsToken.text, Reason: err.Error()}
	}
	return &PseudoSelector{Name: name, Args: args, match: match}, nil
}
