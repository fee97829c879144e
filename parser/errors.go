package parser

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// emptyTagStackUntil walks the tag stack top-down looking for an entry
// in set. If found, every tag above it is popped, each time closing one
// pending inner node and recording a diagnostic, and the matching entry
// itself is left on the stack (the caller pops it once it finishes
// building the end-marker node). If no entry matches, the tag stack is
// left untouched and found is false: the caller demotes the current
// statement to StmtUnknown instead.
func (p *parser) emptyTagStackUntil(set map[tag]bool) (found bool) {
	idx := -1
	for i := len(p.tagStack) - 1; i >= 0; i-- {
		if set[p.tagStack[i]] {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	for len(p.tagStack)-1 > idx {
		top := p.tagStack[len(p.tagStack)-1]
		p.tagStack = p.tagStack[:len(p.tagStack)-1]
		p.errorf("expected tag " + tagEndName(top) + " to be closed")
		p.b.Close()
	}
	return true
}

// errorUntil consumes tokens as Error leaves (wrapped individually, so
// the tree stays well-formed) until the current token's kind is in sync
// (the caller-supplied synchronization set) or is a context-end token
// (BlockEnd/VariableEnd), which is left unconsumed so the caller can
// still close its bracket context normally. It returns the kind it
// stopped on, and whether that kind was one of the requested sync kinds
// (as opposed to a context-end token or EOF).
func (p *parser) errorUntil(sync map[syntax.Kind]bool) (stopKind syntax.Kind, stoppedAtSync bool) {
	for {
		tok, ok := p.current()
		if !ok {
			return syntax.Error, false
		}
		if sync[tok.Kind] {
			return tok.Kind, true
		}
		if tok.Kind == syntax.BlockEnd || tok.Kind == syntax.VariableEnd {
			return tok.Kind, false
		}
		p.b.Open(syntax.Error)
		p.bump()
		p.b.Close()
	}
}
