package parser

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// parseStatement is called with the cursor on a BlockBegin token; it
// peeks the tag name and dispatches per the §4.3 table. Every branch
// consumes at least the BlockBegin; none of them leave the cursor where
// they found it, so parseBody always makes progress.
func (p *parser) parseStatement() {
	name, ok := p.peekTagName()
	if !ok {
		p.parseUnknownStmt("expected tag name")
		return
	}
	switch name {
	case "for":
		p.parseForStart()
	case "endfor":
		p.parseForEnd()
	case "if":
		p.parseIfStart()
	case "elif":
		p.parseElif()
	case "else":
		p.parseElse()
	case "endif":
		p.parseIfEnd()
	case "set":
		p.parseSet()
	case "endset":
		p.parseEndset()
	case "call":
		p.parseCallBlockStart()
	case "endcall":
		p.parseEndcall()
	case "filter":
		p.parseFilterBlockStart()
	case "endfilter":
		p.parseEndfilter()
	case "do":
		p.parseDo()
	case "macro":
		p.parseMacroStart()
	case "endmacro":
		p.parseEndmacro()
	case "materialization":
		p.parseMaterializationStart()
	case "endmaterialization":
		p.parseEndmaterialization()
	case "test":
		p.parseTestStart()
	case "endtest":
		p.parseEndtest()
	case "docs":
		p.parseDocsStart()
	case "enddocs":
		p.parseEnddocs()
	case "snapshot":
		p.parseSnapshotStart()
	case "endsnapshot":
		p.parseEndsnapshot()
	case "raw", "endraw":
		p.parseUnknownStmt("\"" + name + "\" belongs to a {% raw %} block, not a statement")
	case "block", "endblock", "extends", "include", "import", "from", "with", "endwith", "autoescape", "endautoescape":
		p.parseUnknownStmt("tag \"" + name + "\" is currently unsupported")
	default:
		p.parseUnknownStmt("unknown tag \"" + name + "\"")
	}
}

// peekTagName returns the text of the Name token that follows the
// BlockBegin token at the cursor (skipping whitespace), without
// consuming anything.
func (p *parser) peekTagName() (string, bool) {
	idx := p.indexNonWS(p.pos + 1)
	if idx < 0 || p.tokens[idx].Kind != syntax.Name {
		return "", false
	}
	return p.tokens[idx].Text, true
}

// consumeTagFooter consumes the optional ":" (kept for compatibility)
// and the terminating "%}" of a tag, into whichever node is currently
// open. A missing "%}" is a diagnostic; the colon is silently optional.
func (p *parser) consumeTagFooter() {
	p.skipWS()
	if p.currentKind() == syntax.Colon {
		p.bump()
		p.skipWS()
	}
	if p.currentKind() == syntax.BlockEnd {
		p.bump()
	} else {
		p.errorf("expected \"%}\"")
	}
}

// parseUnknownStmt records message and wraps the rest of the current
// "{% ... %}" occurrence (or whatever is left of it) in a StmtUnknown
// leaf-only node: every token is preserved, just not interpreted.
func (p *parser) parseUnknownStmt(message string) {
	p.errorf(message)
	p.b.Open(syntax.StmtUnknown)
	for {
		tok, ok := p.current()
		if !ok {
			break
		}
		p.bump()
		if tok.Kind == syntax.BlockEnd {
			break
		}
	}
	p.b.Close()
}

// bumpTagHeader consumes "{%" and the tag-name Name token that follows
// it (with any whitespace between), the common prefix of every
// statement's Start/End marker.
func (p *parser) bumpTagHeader() {
	p.bump() // BlockBegin
	p.skipWS()
	p.bump() // tag name
}

// ---- for / endfor ----------------------------------------------------

func (p *parser) parseForStart() {
	p.b.Open(syntax.StmtFor)
	p.b.Open(syntax.ForStart)
	p.bumpTagHeader()
	p.skipWS()
	p.parseTuple(tupleSimplified, map[string]bool{"in": true})
	p.skipWS()
	if tok, ok := p.current(); ok && tok.Kind == syntax.Name && tok.Text == "in" {
		p.bump()
	} else {
		p.errorf("expected \"in\"")
	}
	p.skipWS()
	p.parseTuple(tupleNoTernary, map[string]bool{"if": true, "recursive": true})
	p.skipWS()
	if p.isKeyword("if") {
		p.bump()
		p.skipWS()
		p.parseOr()
		p.skipWS()
	}
	if p.isKeyword("recursive") {
		p.bump()
		p.skipWS()
	}
	p.consumeTagFooter()
	p.b.Close() // ForStart
	p.tagStack = append(p.tagStack, tagFor)
}

func (p *parser) parseForEnd() {
	if !p.emptyTagStackUntil(map[tag]bool{tagFor: true, tagForElse: true}) {
		p.parseUnknownStmt("found unmatched \"endfor\" statement")
		return
	}
	p.b.Open(syntax.ForEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // ForEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtFor
}

// ---- if / elif / else / endif -----------------------------------------

func (p *parser) parseIfStart() {
	p.b.Open(syntax.StmtIf)
	p.b.Open(syntax.IfStart)
	p.bumpTagHeader()
	p.skipWS()
	p.parseTuple(tupleNoTernary, nil)
	p.consumeTagFooter()
	p.b.Close() // IfStart
	p.tagStack = append(p.tagStack, tagIf)
}

func (p *parser) parseElif() {
	if !p.emptyTagStackUntil(map[tag]bool{tagIf: true, tagElif: true}) {
		p.parseUnknownStmt("found unmatched \"elif\" statement")
		return
	}
	p.b.Open(syntax.IfElif)
	p.bumpTagHeader()
	p.skipWS()
	p.parseTuple(tupleNoTernary, nil)
	p.consumeTagFooter()
	p.b.Close() // IfElif
	p.tagStack[len(p.tagStack)-1] = tagElif
}

func (p *parser) parseElse() {
	if !p.emptyTagStackUntil(map[tag]bool{tagFor: true, tagIf: true, tagElif: true}) {
		p.parseUnknownStmt("found unmatched \"else\" statement")
		return
	}
	top := p.tagStack[len(p.tagStack)-1]
	if top == tagFor {
		p.b.Open(syntax.ForElse)
		p.bumpTagHeader()
		p.consumeTagFooter()
		p.b.Close()
		p.tagStack[len(p.tagStack)-1] = tagForElse
		return
	}
	p.b.Open(syntax.IfElse)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close()
	p.tagStack[len(p.tagStack)-1] = tagIfElse
}

func (p *parser) parseIfEnd() {
	if !p.emptyTagStackUntil(map[tag]bool{tagIf: true, tagElif: true, tagIfElse: true}) {
		p.parseUnknownStmt("found unmatched \"endif\" statement")
		return
	}
	p.b.Open(syntax.IfEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // IfEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtIf
}

// ---- set / endset ------------------------------------------------------

// parseSet can't commit to StmtAssign vs. StmtAssignBlock until after
// the assignment target is parsed and the parser sees (or doesn't see)
// a following "=", so it records a checkpoint up front and retroactively
// labels the result, the same trick postfix expressions use for
// ExprCall.
func (p *parser) parseSet() {
	cp := p.b.Checkpoint()
	p.bumpTagHeader()
	p.skipWS()
	p.parseAssignTarget()
	p.skipWS()
	if p.currentKind() == syntax.Assign {
		p.bump()
		p.skipWS()
		p.parseTuple(tupleWithTernary, nil)
		p.consumeTagFooter()
		p.b.OpenAt(cp, syntax.StmtAssign)
		p.b.Close()
		return
	}

	for p.currentKind() == syntax.Pipe {
		p.bump()
		p.skipWS()
		p.parseFilterName()
		p.skipWS()
	}
	p.consumeTagFooter()
	p.b.OpenAt(cp, syntax.AssignBlockStart)
	p.b.Close()
	// Re-take the same checkpoint: after the OpenAt/Close above, the
	// finished AssignBlockStart node is the sole child sitting at cp's
	// position in the enclosing frame, so OpenAt(cp, ...) again wraps
	// exactly that one node in the outer StmtAssignBlock and leaves it
	// open for the block body.
	p.b.OpenAt(cp, syntax.StmtAssignBlock)
	p.tagStack = append(p.tagStack, tagSet)
}

func (p *parser) parseEndset() {
	if !p.emptyTagStackUntil(map[tag]bool{tagSet: true}) {
		p.parseUnknownStmt("found unmatched \"endset\" statement")
		return
	}
	p.b.Open(syntax.AssignBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // AssignBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtAssignBlock
}

// ---- call / endcall -----------------------------------------------------

func (p *parser) parseCallBlockStart() {
	p.b.Open(syntax.StmtCallBlock)
	p.b.Open(syntax.CallBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.LParen {
		p.parseSignature()
		p.skipWS()
	}
	p.parsePostfix()
	p.consumeTagFooter()
	p.b.Close() // CallBlockStart
	p.tagStack = append(p.tagStack, tagCall)
}

func (p *parser) parseEndcall() {
	if !p.emptyTagStackUntil(map[tag]bool{tagCall: true}) {
		p.parseUnknownStmt("found unmatched \"endcall\" statement")
		return
	}
	p.b.Open(syntax.CallBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // CallBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtCallBlock
}

// ---- filter / endfilter --------------------------------------------------

func (p *parser) parseFilterBlockStart() {
	p.b.Open(syntax.StmtFilterBlock)
	p.b.Open(syntax.FilterBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	p.parseFilterName()
	p.skipWS()
	for p.currentKind() == syntax.Pipe {
		p.bump()
		p.skipWS()
		p.parseFilterName()
		p.skipWS()
	}
	p.consumeTagFooter()
	p.b.Close() // FilterBlockStart
	p.tagStack = append(p.tagStack, tagFilter)
}

func (p *parser) parseEndfilter() {
	if !p.emptyTagStackUntil(map[tag]bool{tagFilter: true}) {
		p.parseUnknownStmt("found unmatched \"endfilter\" statement")
		return
	}
	p.b.Open(syntax.FilterBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // FilterBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtFilterBlock
}

// ---- do ------------------------------------------------------------------

func (p *parser) parseDo() {
	p.b.Open(syntax.StmtDo)
	p.bumpTagHeader()
	p.skipWS()
	p.parseTuple(tupleWithTernary, nil)
	p.consumeTagFooter()
	p.b.Close()
}

// ---- macro / endmacro -----------------------------------------------------

func (p *parser) parseMacroStart() {
	p.emptyTagStackUntil(map[tag]bool{tagRoot: true})
	p.b.Open(syntax.StmtMacro)
	p.b.Open(syntax.MacroBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.Name {
		p.bump()
	} else {
		p.errorf("expected macro name")
	}
	p.skipWS()
	if p.currentKind() == syntax.LParen {
		p.parseSignature()
	} else {
		p.errorf("expected \"(\"")
	}
	p.consumeTagFooter()
	p.b.Close() // MacroBlockStart
	p.tagStack = append(p.tagStack, tagMacro)
}

func (p *parser) parseEndmacro() {
	if !p.emptyTagStackUntil(map[tag]bool{tagMacro: true}) {
		p.parseUnknownStmt("found unmatched \"endmacro\" statement")
		return
	}
	p.b.Open(syntax.MacroBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // MacroBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtMacro
}

// ---- materialization / endmaterialization --------------------------------

func (p *parser) parseMaterializationStart() {
	p.emptyTagStackUntil(map[tag]bool{tagRoot: true})
	p.b.Open(syntax.StmtMaterialization)
	p.b.Open(syntax.MaterializationBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.Name {
		p.bump()
	} else {
		p.errorf("expected materialization name")
	}
	p.skipWS()
	for p.currentKind() == syntax.Comma {
		p.bump()
		p.skipWS()
		p.parseMaterializationModifier()
		p.skipWS()
	}
	p.consumeTagFooter()
	p.b.Close() // MaterializationBlockStart
	p.tagStack = append(p.tagStack, tagMaterialization)
}

func (p *parser) parseMaterializationModifier() {
	if p.isKeyword("default") {
		p.b.Open(syntax.MaterializationDefault)
		p.bump()
		p.b.Close()
		return
	}
	if tok, ok := p.current(); ok && tok.Kind == syntax.Name && tok.Text == "adapter" {
		p.b.Open(syntax.MaterializationAdapter)
		p.bump() // "adapter"
		p.skipWS()
		if p.currentKind() == syntax.Assign {
			p.bump()
		} else {
			p.errorf("expected \"=\"")
		}
		p.skipWS()
		if p.currentKind() == syntax.StringLiteral {
			p.b.Open(syntax.ExprConstantString)
			p.bump()
			p.b.Close()
		} else {
			p.errorf("expected string literal after \"adapter =\"")
		}
		p.b.Close()
		return
	}
	p.errorf("expected \"default\" or \"adapter\"")
	if !p.atEnd() {
		p.b.Open(syntax.Error)
		p.bump()
		p.b.Close()
	}
}

func (p *parser) parseEndmaterialization() {
	if !p.emptyTagStackUntil(map[tag]bool{tagMaterialization: true}) {
		p.parseUnknownStmt("found unmatched \"endmaterialization\" statement")
		return
	}
	p.b.Open(syntax.MaterializationBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // MaterializationBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtMaterialization
}

// ---- test / endtest -------------------------------------------------------

func (p *parser) parseTestStart() {
	p.emptyTagStackUntil(map[tag]bool{tagRoot: true})
	p.b.Open(syntax.StmtTest)
	p.b.Open(syntax.TestBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.Name {
		p.bump()
	} else {
		p.errorf("expected test name")
	}
	p.skipWS()
	if p.currentKind() == syntax.LParen {
		p.parseSignature()
	} else {
		p.errorf("expected \"(\"")
	}
	p.consumeTagFooter()
	p.b.Close() // TestBlockStart
	p.tagStack = append(p.tagStack, tagTest)
}

func (p *parser) parseEndtest() {
	if !p.emptyTagStackUntil(map[tag]bool{tagTest: true}) {
		p.parseUnknownStmt("found unmatched \"endtest\" statement")
		return
	}
	p.b.Open(syntax.TestBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // TestBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtTest
}

// ---- docs / enddocs -------------------------------------------------------

func (p *parser) parseDocsStart() {
	p.emptyTagStackUntil(map[tag]bool{tagRoot: true})
	p.b.Open(syntax.StmtDocs)
	p.b.Open(syntax.DocsBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.Name {
		p.bump()
	} else {
		p.errorf("expected docs name")
	}
	p.consumeTagFooter()
	p.b.Close() // DocsBlockStart
	p.tagStack = append(p.tagStack, tagDocs)
}

func (p *parser) parseEnddocs() {
	if !p.emptyTagStackUntil(map[tag]bool{tagDocs: true}) {
		p.parseUnknownStmt("found unmatched \"enddocs\" statement")
		return
	}
	p.b.Open(syntax.DocsBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // DocsBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtDocs
}

// ---- snapshot / endsnapshot -----------------------------------------------

func (p *parser) parseSnapshotStart() {
	p.emptyTagStackUntil(map[tag]bool{tagRoot: true})
	p.b.Open(syntax.StmtSnapshot)
	p.b.Open(syntax.SnapshotBlockStart)
	p.bumpTagHeader()
	p.skipWS()
	if p.currentKind() == syntax.Name {
		p.bump()
	} else {
		p.errorf("expected snapshot name")
	}
	p.consumeTagFooter()
	p.b.Close() // SnapshotBlockStart
	p.tagStack = append(p.tagStack, tagSnapshot)
}

func (p *parser) parseEndsnapshot() {
	if !p.emptyTagStackUntil(map[tag]bool{tagSnapshot: true}) {
		p.parseUnknownStmt("found unmatched \"endsnapshot\" statement")
		return
	}
	p.b.Open(syntax.SnapshotBlockEnd)
	p.bumpTagHeader()
	p.consumeTagFooter()
	p.b.Close() // SnapshotBlockEnd
	p.tagStack = p.tagStack[:len(p.tagStack)-1]
	p.b.Close() // StmtSnapshot
}

// ---- shared: parameter signatures -----------------------------------------

// parseSignature parses "(name, name=default, ...)" into a Signature
// node, used by macro/test/call-block headers. A non-default argument
// after a default argument is a diagnostic, but parsing continues.
func (p *parser) parseSignature() {
	p.b.Open(syntax.Signature)
	p.bump() // (
	p.skipWS()
	sawDefault := false
	for {
		if p.currentKind() == syntax.RParen || p.atEnd() {
			break
		}
		if p.currentKind() != syntax.Name {
			p.errorf("expected parameter name")
			p.b.Open(syntax.Error)
			p.bump()
			p.b.Close()
		} else {
			cp := p.b.Checkpoint()
			p.bump() // name
			p.skipWS()
			if p.currentKind() == syntax.Assign {
				p.bump()
				p.skipWS()
				p.parseTernary()
				p.b.OpenAt(cp, syntax.SignatureDefaultArg)
				p.b.Close()
				sawDefault = true
			} else {
				p.b.OpenAt(cp, syntax.SignatureArg)
				p.b.Close()
				if sawDefault {
					p.errorf("non-default argument follows default argument")
				}
			}
		}
		p.skipWS()
		if p.currentKind() == syntax.Comma {
			p.bump()
			p.skipWS()
			continue
		}
		break
	}
	if p.currentKind() == syntax.RParen {
		p.bump()
	} else {
		p.errorf("expected \")\"")
	}
	p.b.Close() // Signature
}
