// Package soup wraps golang.org/x/net/html documents for scraping with css selectors.
package soup

import (
	"fmt"
	"io"
	"strings"

	"github.com/niklasfasching/sel/css"
	"golang.org/x/net/html"
)

func Parse(r io.Reader) (*Node, error) {
	htmlNode, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return AsNode(htmlNode), nil
}

func MustParse(r io.Reader) *Node {
	n, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return n
}

// Root returns the topmost ancestor of n, usually the document node.
func (n *Node) Root() *Node {
	for n != nil && n.Parent != nil {
		n = AsNode(n.Parent)
	}
	return n
}

// Find returns the descendants of n matching selector, without n itself.
func (n *Node) Find(selector string) (Nodes, error) {
	if n == nil {
		return nil, nil
	}
	e := &css.Engine{Document: AsCSSNode(n.Root())}
	ns, err := e.Find(selector, AsCSSNode(n))
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	return fromCSSNodes(ns), nil
}

// Match checks whether n matches selector. Ancestors and siblings of n are taken into account.
func (n *Node) Match(selector string) (bool, error) {
	if n == nil {
		return false, nil
	}
	e := &css.Engine{Document: AsCSSNode(n.Root())}
	ok, err := e.Match(AsCSSNode(n), selector)
	if err != nil {
		return false, fmt.Errorf("match %q: %w", selector, err)
	}
	return ok, nil
}

func (n *Node) First(s string) *Node { return n.FirstSel(css.MustCompile(s)) }
func (n *Node) FirstSel(s css.Selector) *Node {
	if n == nil {
		return nil
	}
	if f := css.First(s, AsCSSNode(n)); f != nil {
		return AsNode(css.AsHTML(f))
	}
	return nil
}

func (n *Node) All(s string) Nodes { return n.AllSel(css.MustCompile(s)) }
func (n *Node) AllSel(s css.Selector) Nodes {
	if n == nil {
		return nil
	}
	return fromCSSNodes(css.All(s, AsCSSNode(n)))
}

func (n *Node) Text() string {
	var out strings.Builder
	appendText(&out, AsHTMLNode(n))
	return out.String()
}

func (n *Node) TrimmedText() string {
	return trimmed(n.Text())
}

func (n *Node) OuterHTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	if err := html.Render(&out, AsHTMLNode(n)); err != nil {
		panic(fmt.Sprintf("Could not render html: %s", err))
	}
	return out.String()
}

func (n *Node) HTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	for n := n.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&out, n); err != nil {
			panic(fmt.Sprintf("Could not render html: %s", err))
		}
	}
	return out.String()
}

func (n *Node) Attribute(key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (ns Nodes) Eq(i int) *Node {
	if i < 0 || i >= len(ns) {
		return nil
	}
	return ns[i]
}

func (ns Nodes) Len() int {
	return len(ns)
}

func (ns Nodes) Text(sep string) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.Text()
	}
	return strings.Join(ss, sep)
}

func (ns Nodes) Attribute(key string) []string {
	as := make([]string, len(ns))
	for i, n := range ns {
		as[i] = n.Attribute(key)
	}
	return as
}

// Find returns the descendants of all ns matching selector, without duplicates.
func (ns Nodes) Find(selector string) (Nodes, error) {
	if len(ns) == 0 {
		return nil, nil
	}
	contexts := make([]css.Node, len(ns))
	for i, n := range ns {
		contexts[i] = AsCSSNode(n)
	}
	e := &css.Engine{Document: AsCSSNode(ns[0].Root())}
	found, err := e.Find(selector, contexts...)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", selector, err)
	}
	return fromCSSNodes(found), nil
}

func (ns Nodes) First(s string) *Node { return ns.FirstSel(css.MustCompile(s)) }
func (ns Nodes) FirstSel(s css.Selector) *Node {
	for _, n := range ns {
		if f := n.FirstSel(s); f != nil {
			return f
		}
	}
	return nil
}

func (ns Nodes) All(s string) Nodes { return ns.AllSel(css.MustCompile(s)) }
func (ns Nodes) AllSel(s css.Selector) Nodes {
	all := Nodes{}
	for _, n := range ns {
		all = append(all, n.AllSel(s)...)
	}
	return all
}

func (ns Nodes) HTML() string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.OuterHTML()
	}
	return strings.Join(ss, "\n")
}
