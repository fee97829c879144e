package cst

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// Element is anything that can appear among a Node's children: either
// another Node or a leaf Token.
type Element interface {
	Kind() syntax.Kind
	TextRange() (start, end int)
}

// Node is the positioned ("red") view of a GreenNode: it layers a byte
// offset and a parent link on top of an immutable, shared GreenNode so
// the tree can be walked and queried for spans. Many Nodes may point at
// the same GreenNode (e.g. after an edit that reuses unaffected
// subtrees); Node itself is cheap and not shared.
type Node struct {
	green    *GreenNode
	offset   int
	parent   *Node
	indexInParent int
}

// NewRoot returns the positioned root view of a completed green tree.
func NewRoot(green *GreenNode) *Node {
	return &Node{green: green}
}

func (n *Node) Kind() syntax.Kind { return n.green.Kind }

// TextRange returns the node's byte span within the original input.
func (n *Node) TextRange() (start, end int) {
	return n.offset, n.offset + n.green.width
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Text reconstructs the node's source text by concatenating its leaf
// tokens in order.
func (n *Node) Text() string {
	var buf []byte
	for _, tok := range n.Tokens() {
		buf = append(buf, tok.Text()...)
	}
	return string(buf)
}

// ChildrenWithTokens returns every direct child, nodes and leaf tokens
// interleaved in source order.
func (n *Node) ChildrenWithTokens() []Element {
	elems := make([]Element, 0, len(n.green.children))
	offset := n.offset
	for i, c := range n.green.children {
		if c.isToken {
			elems = append(elems, &Token{kind: c.leafKind, text: c.leafText, offset: offset, parent: n, indexInParent: i})
			offset += len(c.leafText)
		} else {
			child := &Node{green: c.node, offset: offset, parent: n, indexInParent: i}
			elems = append(elems, child)
			offset += c.node.width
		}
	}
	return elems
}

// Children returns the direct inner-node children only, skipping leaf
// tokens.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, e := range n.ChildrenWithTokens() {
		if c, ok := e.(*Node); ok {
			out = append(out, c)
		}
	}
	return out
}

// Tokens returns every leaf token under this node, in source order.
func (n *Node) Tokens() []*Token {
	var out []*Token
	for _, e := range n.ChildrenWithTokens() {
		switch v := e.(type) {
		case *Token:
			out = append(out, v)
		case *Node:
			out = append(out, v.Tokens()...)
		}
	}
	return out
}

// Descendants returns every inner node under this node (not including
// itself), in pre-order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, c := range n.Children() {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// Ancestors returns this node and every enclosing node, innermost first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// Direction selects which matching child GetChildOfKind returns.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// GetChildOfKind returns the first (Forward) or last (Backward) direct
// child of node with the given kind, or nil if none matches. This is the
// one ordering-sensitive lookup external consumers rely on.
func GetChildOfKind(node *Node, kind syntax.Kind, dir Direction) *Node {
	children := node.Children()
	if dir == Backward {
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].Kind() == kind {
				return children[i]
			}
		}
		return nil
	}
	for _, c := range children {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// TokenAtOffsetKind distinguishes the three cases TokenAtOffset can
// return: nothing at that offset, a single enclosing token, or the
// boundary between two adjacent tokens.
type TokenAtOffsetKind int

const (
	NoToken TokenAtOffsetKind = iota
	SingleToken
	BetweenTokens
)

// TokenAtOffsetResult is the result of Node.TokenAtOffset.
type TokenAtOffsetResult struct {
	Kind  TokenAtOffsetKind
	Left  *Token // set for SingleToken (as the match) and BetweenTokens
	Right *Token // set only for BetweenTokens
}

// TokenAtOffset finds the leaf token(s) at a byte offset within this
// node's span. When offset falls exactly on the boundary between two
// tokens, both are returned as Between; otherwise the single enclosing
// token is returned.
func (n *Node) TokenAtOffset(offset int) TokenAtOffsetResult {
	tokens := n.Tokens()
	for i, tok := range tokens {
		start, end := tok.TextRange()
		if offset == start && i > 0 {
			prevEnd := tokens[i-1]
			if _, pe := prevEnd.TextRange(); pe == start {
				return TokenAtOffsetResult{Kind: BetweenTokens, Left: tokens[i-1], Right: tok}
			}
		}
		if offset >= start && offset < end {
			return TokenAtOffsetResult{Kind: SingleToken, Left: tok}
		}
		if offset == end && i == len(tokens)-1 {
			return TokenAtOffsetResult{Kind: SingleToken, Left: tok}
		}
	}
	return TokenAtOffsetResult{Kind: NoToken}
}

// Token is the positioned view of a leaf token leaf: a kind, its source
// text, and its byte span.
type Token struct {
	kind          syntax.Kind
	text          string
	offset        int
	parent        *Node
	indexInParent int
}

func (t *Token) Kind() syntax.Kind { return t.kind }
func (t *Token) Text() string      { return t.text }
func (t *Token) TextRange() (start, end int) {
	return t.offset, t.offset + len(t.text)
}
func (t *Token) Parent() *Node { return t.parent }
