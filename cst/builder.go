package cst

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// frame is one level of a Builder's open-node stack: the kind the level
// was opened with and the children accumulated for it so far.
type frame struct {
	kind     syntax.Kind
	children []greenChild
}

// Checkpoint is an opaque bookmark into the current frame's child list,
// returned by Builder.Checkpoint and consumed by Builder.OpenAt to
// retroactively wrap everything emitted since the checkpoint in a new
// inner node. This is how the parser commits to ExprCall, ExprFilter and
// similar postfix constructs only after seeing the token that disambiguates
// them, without backtracking.
type Checkpoint struct {
	pos int
}

// Builder assembles a GreenNode tree from a stream of Open/Close/Token
// calls. It is the Go analogue of rowan's GreenNodeBuilder: Open/Close
// correspond to start_node/finish_node, and OpenAt corresponds to the
// retroactive start_node_at rowan exposes for checkpointed nodes.
type Builder struct {
	stack    []frame
	finished *GreenNode
}

// NewBuilder returns an empty Builder. The caller must Open a root node
// before calling Token or Checkpoint.
func NewBuilder() *Builder {
	return &Builder{}
}

// Open starts a new inner node of the given kind, nested inside the
// currently open node (if any).
func (b *Builder) Open(kind syntax.Kind) {
	b.stack = append(b.stack, frame{kind: kind})
}

// OpenAt retroactively opens a new inner node of the given kind starting
// at cp: every child emitted into the current frame since cp was taken
// becomes a child of the new node instead, and the new node takes their
// place. The new node is left open; a matching Close is still required.
func (b *Builder) OpenAt(cp Checkpoint, kind syntax.Kind) {
	top := &b.stack[len(b.stack)-1]
	tail := append([]greenChild(nil), top.children[cp.pos:]...)
	top.children = top.children[:cp.pos]
	b.stack = append(b.stack, frame{kind: kind, children: tail})
}

// Checkpoint records the current position in the innermost open node's
// child list, for later use with OpenAt.
func (b *Builder) Checkpoint() Checkpoint {
	top := &b.stack[len(b.stack)-1]
	return Checkpoint{pos: len(top.children)}
}

// Token appends a leaf token to the innermost open node.
func (b *Builder) Token(kind syntax.Kind, text string) {
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, greenChild{isToken: true, leafKind: kind, leafText: text})
}

// Close finishes the innermost open node and appends it as a child of its
// parent, or, if it was the outermost node, records it as the finished
// tree.
func (b *Builder) Close() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	node := newGreenNode(top.kind, top.children)
	if len(b.stack) == 0 {
		b.finished = node
		return
	}
	parent := &b.stack[len(b.stack)-1]
	parent.children = append(parent.children, greenChild{node: node})
}

// Finish returns the completed tree. It must be called only after every
// Open has a matching Close.
func (b *Builder) Finish() *GreenNode {
	return b.finished
}
