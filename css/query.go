package css

import "strings"

// Engine evaluates selectors against the tree rooted at Document.
// Every call compiles its selector anew; use Compile and Selector.Match for repeated queries.
type Engine struct {
	Document Node
}

// Find returns the elements inside the given contexts (the document if none are given)
// that match selector. Results are in candidate order, i.e. document order per context and
// complex selector, without duplicates. Contexts themselves are never part of the result.
func (e *Engine) Find(selector string, contexts ...Node) ([]Node, error) {
	s, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return find(s, e.contexts(contexts)), nil
}

// FindWithin is Find with the contexts being the result of finding contextSelector in the document.
func (e *Engine) FindWithin(selector, contextSelector string) ([]Node, error) {
	s, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	contexts, err := e.Find(contextSelector)
	if err != nil {
		return nil, err
	}
	return find(s, contexts), nil
}

// Match checks whether n is an element inside one of the contexts (the document if none are given)
// that matches selector. Without a document and contexts only the selector is checked.
// A nil n never matches.
func (e *Engine) Match(n Node, selector string, contexts ...Node) (bool, error) {
	s, err := Compile(selector)
	if err != nil {
		return false, err
	}
	return match(s, n, e.contexts(contexts)), nil
}

// MatchWithin is Match with the contexts being the result of finding contextSelector in the document.
func (e *Engine) MatchWithin(n Node, selector, contextSelector string) (bool, error) {
	s, err := Compile(selector)
	if err != nil {
		return false, err
	}
	contexts, err := e.Find(contextSelector)
	if err != nil {
		return false, err
	}
	return len(contexts) != 0 && match(s, n, contexts), nil
}

func match(s Selector, n Node, contexts []Node) bool {
	if n == nil {
		return false
	}
	if len(contexts) == 0 {
		return s.Match(n)
	}
	for _, c := range contexts {
		if isDescendant(c, n) {
			return s.Match(n)
		}
	}
	return false
}

func (e *Engine) contexts(contexts []Node) []Node {
	if len(contexts) == 0 && e.Document != nil {
		return []Node{e.Document}
	}
	return contexts
}

func find(s Selector, contexts []Node) []Node {
	seen, ns := map[Node]bool{}, []Node{}
	for _, context := range contexts {
		for _, c := range s {
			for _, n := range candidates(c.Compounds[len(c.Compounds)-1], context) {
				if !seen[n] && c.Match(n) {
					seen[n] = true
					ns = append(ns, n)
				}
			}
		}
	}
	return ns
}

// candidates returns the descendants of context that might match s, using the
// id or the type of s and the indexes of context where available.
func candidates(s *CompoundSelector, context Node) []Node {
	if s.ID != "" {
		if idx, ok := context.(IDIndexer); ok {
			if n := idx.ElementByID(s.ID); n != nil && isDescendant(context, n) {
				return []Node{n}
			}
			return nil
		}
		return collect(context, func(n Node) bool { return n.ID() == s.ID })
	}
	if idx, ok := context.(TagIndexer); ok {
		return idx.ElementsByTagName(s.Type)
	}
	if s.Type == "*" {
		return collect(context, func(Node) bool { return true })
	}
	return collect(context, func(n Node) bool { return strings.EqualFold(n.TagName(), s.Type) })
}

func collect(context Node, f func(Node) bool) (ns []Node) {
	walk(context, func(n Node) {
		if f(n) {
			ns = append(ns, n)
		}
	})
	return ns
}
