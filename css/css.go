// Package css implements a css selector (level 3) engine for arbitrary trees.
// Trees are accessed through the Node interface; HTML adapts golang.org/x/net/html.
package css

// Compile parses a comma separated selector group. Any invalid member invalidates the whole group.
func Compile(selector string) (Selector, error) {
	tokens, err := lex(selector)
	if err != nil {
		return nil, err
	}
	return parse(tokens)
}

func MustCompile(selector string) Selector {
	s, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return s
}

// First returns the first node in n and its descendants (in document order) that matches s.
func First(s Selector, n Node) Node {
	if s.Match(n) {
		return n
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if n := First(s, c); n != nil {
			return n
		}
	}
	return nil
}

// All returns all nodes in n and its descendants (in document order) that match s.
func All(s Selector, n Node) []Node {
	return all(s, n, nil)
}

func all(s Selector, n Node, ns []Node) []Node {
	if s.Match(n) {
		ns = append(ns, n)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		ns = all(s, c, ns)
	}
	return ns
}
