package css

import "strings"

func (s Selector) Match(n Node) bool {
	for _, c := range s {
		if c.Match(n) {
			return true
		}
	}
	return false
}

// Match checks whether n is the subject of s. The chain is evaluated right to left,
// starting with the subject and walking the tree in the direction of each combinator.
func (s *ComplexSelector) Match(n Node) bool {
	i := len(s.Compounds) - 1
	return s.Compounds[i].Match(n) && s.matchLeft(n, i)
}

// matchLeft checks whether the compounds left of i match, given that n matched compound i.
// Descendant and subsequent sibling combinators backtrack: if the nearest matching node does not
// lead to a match of the remaining chain, farther nodes are tried.
func (s *ComplexSelector) matchLeft(n Node, i int) bool {
	if i == 0 {
		return true
	}
	c := s.Compounds[i-1]
	switch s.Combinators[i-1] {
	case Descendant:
		for p := parentElement(n); p != nil; p = parentElement(p) {
			if c.Match(p) && s.matchLeft(p, i-1) {
				return true
			}
		}
	case Child:
		p := parentElement(n)
		return p != nil && c.Match(p) && s.matchLeft(p, i-1)
	case NextSibling:
		p := prevElement(n)
		return p != nil && c.Match(p) && s.matchLeft(p, i-1)
	case SubsequentSibling:
		for p := prevElement(n); p != nil; p = prevElement(p) {
			if c.Match(p) && s.matchLeft(p, i-1) {
				return true
			}
		}
	}
	return false
}

func (s *CompoundSelector) Match(n Node) bool {
	if !isElement(n) ||
		s.ID != "" && n.ID() != s.ID ||
		s.Type != "*" && !strings.EqualFold(n.TagName(), s.Type) {
		return false
	}
	for _, a := range s.Attributes {
		if !a.Match(n) {
			return false
		}
	}
	for _, p := range s.Pseudos {
		if !p.match(n) {
			return false
		}
	}
	return true
}

func (s *AttributeSelector) Match(n Node) bool {
	v, ok := n.Attribute(s.Key)
	if !ok {
		return false
	}
	match := Matchers[s.Operator]
	return match != nil && match(v, s.Value)
}

func (s *PseudoSelector) Match(n Node) bool {
	return isElement(n) && s.match != nil && s.match(n)
}
