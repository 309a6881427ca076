package css

import (
	"strings"

	"golang.org/x/net/html"
)

type htmlNode struct{ n *html.Node }

// HTML adapts a golang.org/x/net/html node to the Node interface.
func HTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n}
}

// HTMLNodes adapts a slice of golang.org/x/net/html nodes to the Node interface.
func HTMLNodes(ns []*html.Node) []Node {
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = HTML(n)
	}
	return out
}

// AsHTML returns the golang.org/x/net/html node backing n or nil if n was not created by HTML.
func AsHTML(n Node) *html.Node {
	if h, ok := n.(htmlNode); ok {
		return h.n
	}
	return nil
}

func (h htmlNode) Type() NodeType {
	switch h.n.Type {
	case html.DocumentNode:
		return DocumentNode
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	case html.CommentNode:
		return CommentNode
	default:
		return OtherNode
	}
}

func (h htmlNode) TagName() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) ID() string {
	id, _ := h.Attribute("id")
	return id
}

func (h htmlNode) Attribute(key string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Parent() Node      { return HTML(h.n.Parent) }
func (h htmlNode) FirstChild() Node  { return HTML(h.n.FirstChild) }
func (h htmlNode) PrevSibling() Node { return HTML(h.n.PrevSibling) }
func (h htmlNode) NextSibling() Node { return HTML(h.n.NextSibling) }

func (h htmlNode) TextContent() string {
	var w strings.Builder
	appendText(&w, h.n)
	return w.String()
}

func appendText(w *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.WriteString(n.Data)
	case html.CommentNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendText(w, c)
		}
	}
}
