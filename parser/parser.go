// Package parser implements the recursive-descent parser: it consumes a
// lexer.Token sequence and builds a lossless cst.Parse, accumulating an
// ordered diagnostic list instead of stopping at the first problem.
package parser

import (
	"github.com/dbt-labs/dbt-jinja-cst/cst"
	"github.com/dbt-labs/dbt-jinja-cst/lexer"
	"github.com/dbt-labs/dbt-jinja-cst/syntax"
)

// tag is the grammatical counterpart of the tokenizer's context stack:
// it tracks which block-opening statement is waiting for its end* match.
type tag int

const (
	tagRoot tag = iota
	tagFor
	tagForElse
	tagIf
	tagElif
	tagIfElse
	tagSet
	tagCall
	tagFilter
	tagMacro
	tagMaterialization
	tagTest
	tagDocs
	tagSnapshot
)

// parser holds all state for a single parse. A parse owns its token
// slice, its builder and its tag stack exclusively: nothing here is
// shared across invocations, so concurrent parses of different documents
// never interact.
type parser struct {
	tokens []lexer.Token
	pos    int

	b        *cst.Builder
	tagStack []tag
	errors   []cst.Diagnostic
}

// Parse tokenizes and parses text, returning the root Template node and
// every diagnostic raised along the way. Parse never panics on
// malformed input: every error path records a diagnostic and keeps
// going, except for a last-resort top-level recover that turns a true
// programmer-error panic (an invariant violated by a bug, not by bad
// input) into a single diagnostic rather than crashing the caller.
func Parse(text string) (result cst.Parse) {
	tokens := lexer.Tokenize(text)
	return ParseTokens(tokens)
}

// ParseTokens parses an already-tokenized input. Exposed separately so
// callers (and tests) that already have a token sequence, e.g. from the
// idempotent-reparse property, don't need to re-tokenize through text.
func ParseTokens(tokens []lexer.Token) (result cst.Parse) {
	p := &parser{tokens: tokens, tagStack: []tag{tagRoot}, b: cst.NewBuilder()}

	defer func() {
		if r := recover(); r != nil {
			p.errors = append(p.errors, cst.Diagnostic{Message: "internal error: parser panicked"})
			// The tree may be left with unbalanced Open calls; there is
			// nothing useful left to return beyond the diagnostics.
			result = cst.Parse{Errors: p.errors}
		}
	}()

	p.b.Open(syntax.Template)
	p.parseBody()
	p.unwindTagStackAtEOF()
	p.b.Close()

	return cst.Parse{Root: cst.NewRoot(p.b.Finish()), Errors: p.errors}
}

// ---- token cursor -------------------------------------------------

func (p *parser) current() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekN(n int) (lexer.Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos+n], true
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) currentKind() syntax.Kind {
	tok, ok := p.current()
	if !ok {
		return syntax.Error // sentinel: never matches a real dispatch kind the caller checks for content
	}
	return tok.Kind
}

// bump consumes the current token, emitting it as a leaf of whichever
// node is currently open, and advances the cursor.
func (p *parser) bump() lexer.Token {
	tok, ok := p.current()
	if !ok {
		return lexer.Token{}
	}
	p.b.Token(tok.Kind, tok.Text)
	p.pos++
	return tok
}

// skipWS consumes and emits every Whitespace token at the cursor.
func (p *parser) skipWS() {
	for {
		tok, ok := p.current()
		if !ok || tok.Kind != syntax.Whitespace {
			return
		}
		p.bump()
	}
}

// skipWSPeek returns the first non-whitespace token kind at or after the
// cursor, without consuming anything.
func (p *parser) skipWSPeek() (syntax.Kind, bool) {
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].Kind != syntax.Whitespace {
			return p.tokens[i].Kind, true
		}
	}
	return 0, false
}

func (p *parser) errorf(format string) {
	p.errors = append(p.errors, cst.Diagnostic{Message: format})
}

func (p *parser) errorfText(msg, text string) {
	p.errors = append(p.errors, cst.Diagnostic{Message: msg + ": " + text})
}

// expect bumps the current token if it has kind k, emitting it; otherwise
// records a diagnostic and leaves the cursor where it is (the caller's
// error-recovery scan decides what happens next).
func (p *parser) expect(k syntax.Kind, what string) bool {
	if p.currentKind() == k {
		p.bump()
		return true
	}
	p.errorf("expected " + what)
	return false
}

// ---- top level ------------------------------------------------------

// parseBody is the single flat driving loop for the whole document: it
// consumes Data/RawBegin/CommentBegin/VariableBegin/BlockBegin tokens
// until EOF. It is called exactly once, from the root; nesting is not
// modeled by recursing into parseBody again but by the tag stack
// (§4.3 "Tag stack as linearized parse state"): a statement that opens
// a block (parseStatement dispatching "for", "if", ...) leaves its
// Stmt* node open on the builder and pushes a tag onto p.tagStack, so
// every token this same loop emits next naturally becomes a child of
// that still-open node, until the matching end/else/elif tag closes it
// (or the tag stack is forcibly unwound by an out-of-order closer, or
// by EOF).
func (p *parser) parseBody() {
	for {
		tok, ok := p.current()
		if !ok {
			return
		}
		switch tok.Kind {
		case syntax.Data:
			p.b.Open(syntax.ExprData)
			p.bump()
			p.b.Close()
		case syntax.RawBegin:
			p.parseRaw()
		case syntax.CommentBegin:
			p.parseComment()
		case syntax.VariableBegin:
			p.parseVariable()
		case syntax.BlockBegin:
			p.parseStatement()
		default:
			// Shouldn't happen once the tokenizer has produced a
			// well-formed sequence; treat it as stray input rather
			// than looping forever.
			p.b.Open(syntax.Error)
			p.bump()
			p.b.Close()
		}
	}
}

func (p *parser) parseRaw() {
	p.b.Open(syntax.StmtRaw)
	p.bump() // RawBegin
	if tok, ok := p.current(); ok && tok.Kind == syntax.Data {
		p.b.Open(syntax.ExprData)
		p.bump()
		p.b.Close()
	}
	if tok, ok := p.current(); ok && tok.Kind == syntax.RawEnd {
		p.bump()
	} else {
		p.errorf("unterminated raw block, expected \"{% endraw %}\"")
	}
	p.b.Close()
}

func (p *parser) parseComment() {
	p.b.Open(syntax.Comment)
	p.bump() // CommentBegin
	if tok, ok := p.current(); ok && tok.Kind == syntax.CommentData {
		p.bump()
	}
	if tok, ok := p.current(); ok && tok.Kind == syntax.CommentEnd {
		p.bump()
	} else {
		p.errorf("unterminated comment, expected \"#}\"")
	}
	p.b.Close()
}

func (p *parser) parseVariable() {
	p.b.Open(syntax.Variable)
	p.bump() // VariableBegin
	p.skipWS()
	if p.currentKind() != syntax.VariableEnd {
		p.parseTuple(tupleWithTernary, nil)
	}
	p.skipWS()
	if tok, ok := p.current(); ok && tok.Kind == syntax.VariableEnd {
		p.bump()
	} else {
		p.errorf("incomplete variable, expected \"}}\"")
	}
	p.b.Close()
}

// unwindTagStackAtEOF closes every node left open by an unmatched
// opening tag, innermost first, recording one diagnostic per level. The
// tag stack always ends with tagRoot, which needs no closing node.
func (p *parser) unwindTagStackAtEOF() {
	for len(p.tagStack) > 1 {
		top := p.tagStack[len(p.tagStack)-1]
		p.tagStack = p.tagStack[:len(p.tagStack)-1]
		p.errorf("expected tag " + tagEndName(top) + " to be closed")
		p.b.Close()
	}
}

func tagEndName(t tag) string {
	switch t {
	case tagFor, tagForElse:
		return "endfor"
	case tagIf, tagElif, tagIfElse:
		return "endif"
	case tagSet:
		return "endset"
	case tagCall:
		return "endcall"
	case tagFilter:
		return "endfilter"
	case tagMacro:
		return "endmacro"
	case tagMaterialization:
		return "endmaterialization"
	case tagTest:
		return "endtest"
	case tagDocs:
		return "enddocs"
	case tagSnapshot:
		return "endsnapshot"
	}
	return "end"
}
