package css

import (
	"fmt"
	"strings"
)

// Selector is a parsed selector group. A node matches if any of its complex selectors matches.
type Selector []*ComplexSelector

// ComplexSelector is a chain of compound selectors. Combinators[i] joins Compounds[i] and Compounds[i+1].
// The last compound is the subject, i.e. it matches the node itself.
type ComplexSelector struct {
	Combinators []Combinator
	Compounds   []*CompoundSelector
}

type Combinator string

const (
	Descendant        Combinator = " "
	Child             Combinator = ">"
	NextSibling       Combinator = "+"
	SubsequentSibling Combinator = "~"
)

// CompoundSelector is a sequence of simple selectors that all have to match the same node.
type CompoundSelector struct {
	Type       string
	ID         string
	Attributes []*AttributeSelector
	Pseudos    []*PseudoSelector
}

// AttributeSelector tests the value of an attribute with one of the Matchers.
// Class selectors are attribute selectors on "class" with the "~=" operator.
type AttributeSelector struct {
	Key      string
	Operator string
	Value    string
}

type PseudoSelector struct {
	Name  string
	Args  string            `json:",omitempty"`
	Not   *CompoundSelector `json:",omitempty"`
	match func(Node) bool
}

func (s Selector) String() string {
	ss := make([]string, len(s))
	for i, c := range s {
		ss[i] = c.String()
	}
	return strings.Join(ss, ", ")
}

func (s *ComplexSelector) String() string {
	w := &strings.Builder{}
	for i, c := range s.Compounds {
		if i > 0 {
			if s.Combinators[i-1] == Descendant {
				w.WriteString(" ")
			} else {
				fmt.Fprintf(w, " %s ", s.Combinators[i-1])
			}
		}
		w.WriteString(c.String())
	}
	return w.String()
}

func (s *CompoundSelector) String() string {
	w := &strings.Builder{}
	if s.Type != "*" || (s.ID == "" && len(s.Attributes) == 0 && len(s.Pseudos) == 0) {
		w.WriteString(escapeType(s.Type))
	}
	if s.ID != "" {
		w.WriteString("#" + EscapeIdentifier(s.ID))
	}
	for _, a := range s.Attributes {
		w.WriteString(a.String())
	}
	for _, p := range s.Pseudos {
		w.WriteString(p.String())
	}
	return w.String()
}

func (s *AttributeSelector) String() string {
	switch {
	case s.Key == "class" && s.Operator == "~=" && s.Value != "":
		return "." + EscapeIdentifier(s.Value)
	case s.Operator == "":
		return "[" + EscapeIdentifier(s.Key) + "]"
	default:
		return "[" + EscapeIdentifier(s.Key) + s.Operator + `"` + EscapeString(s.Value) + `"]`
	}
}

func (s *PseudoSelector) String() string {
	switch {
	case s.Not != nil:
		return ":not(" + s.Not.String() + ")"
	case PseudoClasses[s.Name] != nil:
		return ":" + EscapeIdentifier(s.Name)
	default:
		return fmt.Sprintf(":%s(%s)", EscapeIdentifier(s.Name), s.Args)
	}
}

func escapeType(s string) string {
	if s == "*" {
		return s
	}
	return EscapeIdentifier(s)
}
