package css

// NodeType classifies the nodes of a host tree. Only elements are ever matched.
type NodeType int

const (
	OtherNode NodeType = iota
	DocumentNode
	ElementNode
	TextNode
	CommentNode
)

// Node is the capability contract a host tree has to provide.
// Parent returns nil above the root of the tree.
// Implementations must be comparable, e.g. pointers or wrappers around pointers,
// as nodes are compared for context containment and result deduplication.
type Node interface {
	Type() NodeType
	TagName() string
	ID() string
	Attribute(name string) (string, bool)
	Parent() Node
	FirstChild() Node
	PrevSibling() Node
	NextSibling() Node
}

// IDIndexer allows looking up an element by id without walking the tree.
// It may return elements outside of the receiver's subtree.
type IDIndexer interface {
	ElementByID(id string) Node
}

// TagIndexer allows looking up the element descendants with a given (lower case) tag name.
// "*" means all element descendants. Results must be in document order.
type TagIndexer interface {
	ElementsByTagName(tag string) []Node
}

// StateNode exposes user interface state. Without it the state is derived from attributes
// where possible (disabled, checked) and assumed to be unset otherwise.
type StateNode interface {
	Disabled() bool
	Checked() bool
	Focused() bool
	Hovered() bool
	Active() bool
	Visited() bool
	Target() bool
}

// LangNode exposes the language of a node. ok is false if the node itself does not declare one.
type LangNode interface {
	Lang() (lang string, ok bool)
}

// TextContentNode exposes the concatenated text of a node and its descendants.
type TextContentNode interface {
	TextContent() string
}

func isElement(n Node) bool { return n != nil && n.Type() == ElementNode }

func prevElement(n Node) Node {
	for n = n.PrevSibling(); n != nil; n = n.PrevSibling() {
		if n.Type() == ElementNode {
			return n
		}
	}
	return nil
}

func nextElement(n Node) Node {
	for n = n.NextSibling(); n != nil; n = n.NextSibling() {
		if n.Type() == ElementNode {
			return n
		}
	}
	return nil
}

func parentElement(n Node) Node {
	if p := n.Parent(); isElement(p) {
		return p
	}
	return nil
}

func hasAttribute(n Node, key string) bool {
	_, ok := n.Attribute(key)
	return ok
}

// isDescendant reports whether n is a strict descendant of ancestor.
func isDescendant(ancestor, n Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

func walk(n Node, f func(Node)) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ElementNode {
			f(c)
		}
		walk(c, f)
	}
}
