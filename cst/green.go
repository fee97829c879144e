// Package cst implements the lossless concrete syntax tree: an immutable,
// structurally-shared green tree plus a positioned red view for
// traversal, and the Builder used to assemble one during parsing.
package cst

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// greenChild is one entry in a GreenNode's child list: either an inner
// node or a leaf token, never both.
type greenChild struct {
	node     *GreenNode
	isToken  bool
	leafKind syntax.Kind
	leafText string
}

func (c greenChild) width() int {
	if c.isToken {
		return len(c.leafText)
	}
	return c.node.width
}

// GreenNode is an immutable inner tree node: a kind and an ordered list
// of children (inner nodes or leaf tokens). Green nodes are referentially
// shared and own no positional information; a Node (see node.go) layers
// byte offsets and parent links on top of a GreenNode for traversal.
type GreenNode struct {
	Kind     syntax.Kind
	children []greenChild
	width    int
}

func newGreenNode(kind syntax.Kind, children []greenChild) *GreenNode {
	w := 0
	for _, c := range children {
		w += c.width()
	}
	return &GreenNode{Kind: kind, children: children, width: w}
}

// Width is the node's span in bytes: the sum of its children's widths.
func (n *GreenNode) Width() int { return n.width }

// NumChildren returns the number of direct children (nodes and tokens).
func (n *GreenNode) NumChildren() int { return len(n.children) }
