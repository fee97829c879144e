package parser

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// tupleMode selects which element grammar parseTupleElements uses, per
// the spec's three tuple-parsing modes.
type tupleMode int

const (
	tupleWithTernary tupleMode = iota // default: full expressions, including ternary
	tupleNoTernary                    // iterators and tests in statements
	tupleSimplified                   // assignment targets
)

// ---- lookahead helpers ----------------------------------------------

func (p *parser) indexNonWS(from int) int {
	for i := from; i < len(p.tokens); i++ {
		if p.tokens[i].Kind != syntax.Whitespace {
			return i
		}
	}
	return -1
}

func (p *parser) peekNonWS() (tok lexTokenView, ok bool) {
	idx := p.indexNonWS(p.pos)
	if idx < 0 {
		return lexTokenView{}, false
	}
	return lexTokenView{kind: p.tokens[idx].Kind, text: p.tokens[idx].Text}, true
}

// lexTokenView avoids importing lexer.Token into every helper signature.
type lexTokenView struct {
	kind syntax.Kind
	text string
}

func (p *parser) isKeyword(word string) bool {
	tok, ok := p.peekNonWS()
	return ok && tok.kind == syntax.Name && tok.text == word
}

func (p *parser) isNotIn() bool {
	idx := p.indexNonWS(p.pos)
	if idx < 0 || p.tokens[idx].Kind != syntax.Name || p.tokens[idx].Text != "not" {
		return false
	}
	idx2 := p.indexNonWS(idx + 1)
	return idx2 >= 0 && p.tokens[idx2].Kind == syntax.Name && p.tokens[idx2].Text == "in"
}

func (p *parser) isNameEqAhead(idx int) bool {
	idx2 := p.indexNonWS(idx + 1)
	return idx2 >= 0 && p.tokens[idx2].Kind == syntax.Assign
}

var reservedAfterTest = map[string]bool{"else": true, "or": true, "and": true, "is": true}

func isPrimaryStart(k syntax.Kind) bool {
	switch k {
	case syntax.Name, syntax.StringLiteral, syntax.IntegerLiteral, syntax.FloatLiteral,
		syntax.LParen, syntax.LBracket, syntax.LBrace:
		return true
	}
	return false
}

// ---- generic binary-operator levels ----------------------------------

// parseBinaryLeftAssoc implements a left-associative punctuation-operator
// precedence level: it reuses one checkpoint across the whole chain, so
// "a + b + c" groups as ((a + b) + c) without any lookahead past one
// operator at a time.
func (p *parser) parseBinaryLeftAssoc(next func(), ops map[syntax.Kind]syntax.Kind) {
	cp := p.b.Checkpoint()
	next()
	for {
		tok, ok := p.peekNonWS()
		if !ok {
			return
		}
		kind, matched := ops[tok.kind]
		if !matched {
			return
		}
		p.b.OpenAt(cp, kind)
		p.skipWS()
		p.bump()
		p.skipWS()
		next()
		p.b.Close()
	}
}

// parseKeywordLeftAssoc is parseBinaryLeftAssoc's counterpart for
// textual-keyword operators ("or", "and"): the keyword itself is wrapped
// in its NameOperator* node so its grammatical role is recoverable
// without re-inspecting text.
func (p *parser) parseKeywordLeftAssoc(next func(), keyword string, exprKind, nameOpKind syntax.Kind) {
	cp := p.b.Checkpoint()
	next()
	for p.isKeyword(keyword) {
		p.b.OpenAt(cp, exprKind)
		p.skipWS()
		p.b.Open(nameOpKind)
		p.bump()
		p.b.Close()
		p.skipWS()
		next()
		p.b.Close()
	}
}

// ---- precedence chain, lowest to highest ------------------------------

func (p *parser) parseTernary() {
	cp := p.b.Checkpoint()
	p.parseOr()
	if !p.isKeyword("if") {
		return
	}
	p.b.OpenAt(cp, syntax.ExprTernary)
	p.skipWS()
	p.b.Open(syntax.NameOperatorIf)
	p.bump()
	p.b.Close()
	p.skipWS()
	p.parseOr()
	if p.isKeyword("else") {
		p.skipWS()
		p.b.Open(syntax.NameOperatorElse)
		p.bump()
		p.b.Close()
		p.skipWS()
		p.parseTernary() // right-associative
	}
	p.b.Close()
}

func (p *parser) parseOr() {
	p.parseKeywordLeftAssoc(p.parseAnd, "or", syntax.ExprOr, syntax.NameOperatorOr)
}

func (p *parser) parseAnd() {
	p.parseKeywordLeftAssoc(p.parseNot, "and", syntax.ExprAnd, syntax.NameOperatorAnd)
}

// parseNot is the prefix "not" (precedence level 4); it only fires when
// "not" is itself the next primary-position token ("not x", "a and not
// b"), not the "not in"/"is not" keyword pairs compare/test handle at
// their own levels.
func (p *parser) parseNot() {
	if !p.isKeyword("not") {
		p.parseCompare()
		return
	}
	p.b.Open(syntax.ExprNot)
	p.b.Open(syntax.NameOperatorNot)
	p.bump()
	p.b.Close()
	p.skipWS()
	p.parseNot()
	p.b.Close()
}

// parseCompare implements the compare chain: a single ExprCompare node
// wrapping the first operand and one Operand child per right-hand side,
// rather than a nested binary tree, per spec.
func (p *parser) parseCompare() {
	cp := p.b.Checkpoint()
	p.parseAdditive()
	opened := false
	for {
		tok, ok := p.peekNonWS()
		if !ok {
			break
		}
		if syntax.CompareOperators[tok.kind] {
			if !opened {
				p.b.OpenAt(cp, syntax.ExprCompare)
				opened = true
			}
			p.skipWS()
			p.bump()
			p.skipWS()
			p.b.Open(syntax.Operand)
			p.parseAdditive()
			p.b.Close()
			continue
		}
		if p.isKeyword("in") || p.isNotIn() {
			if !opened {
				p.b.OpenAt(cp, syntax.ExprCompare)
				opened = true
			}
			p.skipWS()
			if p.isKeyword("not") {
				p.b.Open(syntax.NameOperatorNotIn)
				p.bump()
				p.skipWS()
				p.bump()
				p.b.Close()
			} else {
				p.b.Open(syntax.NameOperatorIn)
				p.bump()
				p.b.Close()
			}
			p.skipWS()
			p.b.Open(syntax.Operand)
			p.parseAdditive()
			p.b.Close()
			continue
		}
		break
	}
	if opened {
		p.b.Close()
	}
}

func (p *parser) parseAdditive() {
	p.parseBinaryLeftAssoc(p.parseConcat, map[syntax.Kind]syntax.Kind{
		syntax.Plus: syntax.ExprAdd, syntax.Minus: syntax.ExprSubtract,
	})
}

func (p *parser) parseConcat() {
	p.parseBinaryLeftAssoc(p.parseMultiplicative, map[syntax.Kind]syntax.Kind{
		syntax.Tilde: syntax.ExprConcat,
	})
}

func (p *parser) parseMultiplicative() {
	p.parseBinaryLeftAssoc(p.parsePower, map[syntax.Kind]syntax.Kind{
		syntax.Star: syntax.ExprMultiply, syntax.Slash: syntax.ExprDivide,
		syntax.DoubleSlash: syntax.ExprFloorDivide, syntax.Percent: syntax.ExprModulo,
	})
}

// parsePower is right-associative, unlike every other binary level: "a
// ** b ** c" groups as a ** (b ** c).
func (p *parser) parsePower() {
	cp := p.b.Checkpoint()
	p.parseUnary()
	tok, ok := p.peekNonWS()
	if !ok || tok.kind != syntax.DoubleStar {
		return
	}
	p.b.OpenAt(cp, syntax.ExprPower)
	p.skipWS()
	p.bump()
	p.skipWS()
	p.parsePower()
	p.b.Close()
}

func (p *parser) parseUnary() {
	tok, ok := p.peekNonWS()
	if !ok || (tok.kind != syntax.Plus && tok.kind != syntax.Minus) {
		p.parsePostfix()
		return
	}
	kind := syntax.ExprPositive
	if tok.kind == syntax.Minus {
		kind = syntax.ExprNegative
	}
	p.b.Open(kind)
	p.skipWS()
	p.bump()
	p.skipWS()
	p.parseUnary()
	p.b.Close()
}

// parsePostfix chains .name/.int, [subscript], (call), |filter and is
// test left to right onto a primary, committing to each construct's
// kind only once the disambiguating token is seen.
func (p *parser) parsePostfix() {
	cp := p.b.Checkpoint()
	p.parsePrimary()
	for {
		tok, ok := p.peekNonWS()
		if !ok {
			return
		}
		switch {
		case tok.kind == syntax.Dot:
			kind := syntax.ExprGetAttr
			if idx := p.indexNonWS(p.indexNonWS(p.pos) + 1); idx >= 0 && p.tokens[idx].Kind == syntax.IntegerLiteral {
				kind = syntax.ExprGetItem // ".0" indexes the way "[0]" does
			}
			p.b.OpenAt(cp, kind)
			p.skipWS()
			p.bump()
			p.skipWS()
			if p.currentKind() == syntax.Name || p.currentKind() == syntax.IntegerLiteral {
				p.bump()
			} else {
				p.errorf("expected attribute name after \".\"")
			}
			p.b.Close()
		case tok.kind == syntax.LBracket:
			p.b.OpenAt(cp, syntax.ExprGetItem)
			p.skipWS()
			p.parseSubscript()
			p.b.Close()
		case tok.kind == syntax.LParen:
			p.b.OpenAt(cp, syntax.ExprCall)
			p.skipWS()
			p.parseCallArguments()
			p.b.Close()
		case tok.kind == syntax.Pipe:
			p.b.OpenAt(cp, syntax.ExprFilter)
			p.skipWS()
			p.bump()
			p.skipWS()
			p.parseFilterName()
			p.b.Close()
		case tok.kind == syntax.Name && tok.text == "is":
			p.skipWS()
			p.bump()
			p.skipWS()
			negated := p.parseTestTail()
			p.b.OpenAt(cp, syntax.ExprTest)
			p.b.Close()
			if negated {
				p.b.OpenAt(cp, syntax.ExprNot)
				p.b.Close()
			}
		default:
			return
		}
	}
}

func (p *parser) parseSubscript() {
	p.bump() // [
	p.skipWS()
	cp := p.b.Checkpoint()
	p.parseSliceOrExpr()
	commaSeen := false
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind != syntax.Comma {
			break
		}
		p.skipWS()
		p.bump()
		commaSeen = true
		p.skipWS()
		idx2 := p.indexNonWS(p.pos)
		if idx2 >= 0 && p.tokens[idx2].Kind == syntax.RBracket {
			break
		}
		p.parseSliceOrExpr()
	}
	if commaSeen {
		p.b.OpenAt(cp, syntax.ExprTuple)
		p.b.Close()
	}
	p.skipWS()
	if p.currentKind() == syntax.RBracket {
		p.bump()
	} else {
		p.errorf("expected \"]\"")
	}
}

// parseSliceOrExpr parses one subscript component: up to three
// colon-separated expressions. Becomes an ExprSlice only if a colon was
// actually seen; otherwise it's a bare index expression.
func (p *parser) parseSliceOrExpr() {
	cp := p.b.Checkpoint()
	sawColon := false
	for i := 0; i < 3; i++ {
		idx := p.indexNonWS(p.pos)
		atColon := idx >= 0 && p.tokens[idx].Kind == syntax.Colon
		atStop := idx < 0 || p.tokens[idx].Kind == syntax.RBracket || p.tokens[idx].Kind == syntax.Comma
		if !atColon && !atStop {
			p.parseTernary()
		}
		idx = p.indexNonWS(p.pos)
		if idx >= 0 && p.tokens[idx].Kind == syntax.Colon {
			sawColon = true
			p.skipWS()
			p.bump()
			continue
		}
		break
	}
	if sawColon {
		p.b.OpenAt(cp, syntax.ExprSlice)
		p.b.Close()
	}
}

// parseCallArguments parses "( args )" into a CallArguments node
// sandwiched between the paren tokens, validating argument ordering
// (no positional after keyword, dynamic args/kwargs shapes, ** last) as
// it goes. Shared by ExprCall and the optional call-args after a filter
// or test name.
func (p *parser) parseCallArguments() {
	p.bump() // (
	p.b.Open(syntax.CallArguments)
	p.skipWS()

	var sawKwarg, sawDynArgs, sawDynKwargs bool
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind == syntax.RParen {
			break
		}
		tok := p.tokens[idx]
		switch {
		case tok.Kind == syntax.Star:
			p.skipWS()
			cpArg := p.b.Checkpoint()
			p.bump()
			p.skipWS()
			p.parseTernary()
			p.b.OpenAt(cpArg, syntax.CallDynamicArgs)
			p.b.Close()
			if sawDynArgs {
				p.errorf("duplicate dynamic args")
			}
			if sawDynKwargs {
				p.errorf("dynamic args found after dynamic kwargs")
			}
			sawDynArgs = true
		case tok.Kind == syntax.DoubleStar:
			p.skipWS()
			cpArg := p.b.Checkpoint()
			p.bump()
			p.skipWS()
			p.parseTernary()
			p.b.OpenAt(cpArg, syntax.CallDynamicKwargs)
			p.b.Close()
			if sawDynKwargs {
				p.errorf("duplicate dynamic kwargs")
			}
			sawDynKwargs = true
		case tok.Kind == syntax.Name && p.isNameEqAhead(idx):
			p.skipWS()
			cpArg := p.b.Checkpoint()
			p.b.Open(syntax.ExprName)
			p.bump()
			p.b.Close()
			p.skipWS()
			p.bump() // =
			p.skipWS()
			p.parseTernary()
			p.b.OpenAt(cpArg, syntax.CallStaticKwarg)
			p.b.Close()
			if sawDynKwargs {
				p.errorf("kwarg found after dynamic kwargs")
			}
			sawKwarg = true
		default:
			p.skipWS()
			cpArg := p.b.Checkpoint()
			p.parseTernary()
			p.b.OpenAt(cpArg, syntax.CallStaticArg)
			p.b.Close()
			switch {
			case sawKwarg:
				p.errorf("arg found after kwarg")
			case sawDynArgs:
				p.errorf("arg found after dynamic args")
			case sawDynKwargs:
				p.errorf("arg found after dynamic kwargs")
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
	p.b.Close() // CallArguments
	if p.currentKind() == syntax.RParen {
		p.bump()
	} else {
		p.errorf("expected \")\"")
	}
}

func (p *parser) parseFilterName() {
	p.b.Open(syntax.ExprFilterName)
	p.parseNestedName()
	p.skipWS()
	if p.currentKind() == syntax.LParen {
		p.parseCallArguments()
	}
	p.b.Close()
}

// parseTestTail parses the "[not] nested-name [args-or-primary]" tail of
// an "is" test, leaving the accumulated children in the currently open
// frame for the caller to retroactively wrap in ExprTest (and ExprNot,
// if negated was returned true).
func (p *parser) parseTestTail() (negated bool) {
	if p.isKeyword("not") {
		p.b.Open(syntax.NameOperatorNot)
		p.bump()
		p.b.Close()
		p.skipWS()
		negated = true
	}
	p.parseNestedName()
	p.skipWS()
	if p.currentKind() == syntax.LParen {
		p.parseCallArguments()
		return negated
	}
	if idx := p.indexNonWS(p.pos); idx >= 0 {
		tok := p.tokens[idx]
		if !(tok.Kind == syntax.Name && reservedAfterTest[tok.Text]) && isPrimaryStart(tok.Kind) {
			p.skipWS()
			p.b.Open(syntax.TestArguments)
			p.parseTernary()
			p.b.Close()
		}
	}
	if p.isKeyword("is") {
		p.errorf("chained \"is\" tests must be parenthesized")
	}
	return negated
}

// parseNestedName parses a possibly dotted identifier used as a filter
// or test name, e.g. "my_module.my_filter".
func (p *parser) parseNestedName() {
	if p.currentKind() != syntax.Name {
		p.errorf("expected name")
		return
	}
	cp := p.b.Checkpoint()
	p.bump()
	dotted := false
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind != syntax.Dot {
			break
		}
		idx2 := p.indexNonWS(idx + 1)
		if idx2 < 0 || p.tokens[idx2].Kind != syntax.Name {
			break
		}
		dotted = true
		p.skipWS()
		p.bump() // dot
		p.skipWS()
		p.bump() // name
	}
	if dotted {
		p.b.OpenAt(cp, syntax.ExprNestedName)
		p.b.Close()
	}
}

// ---- primary ----------------------------------------------------------

func (p *parser) parsePrimary() {
	p.skipWS()
	tok, ok := p.current()
	if !ok {
		p.errorf("expected expression")
		return
	}
	switch tok.Kind {
	case syntax.Name:
		p.parseNamePrimary(tok.Text)
	case syntax.StringLiteral:
		p.parseStringPrimary()
	case syntax.IntegerLiteral, syntax.FloatLiteral:
		p.bump()
	case syntax.LParen:
		p.parseParenOrTuple()
	case syntax.LBracket:
		p.parseList()
	case syntax.LBrace:
		p.parseDict()
	default:
		p.errorf("expected expression")
		p.b.Open(syntax.Error)
		p.bump()
		p.b.Close()
	}
}

func (p *parser) parseNamePrimary(text string) {
	switch text {
	case "true", "True", "false", "False":
		p.b.Open(syntax.ExprConstantBool)
		p.bump()
		p.b.Close()
	case "none", "None":
		p.b.Open(syntax.ExprConstantNone)
		p.bump()
		p.b.Close()
	default:
		p.b.Open(syntax.ExprName)
		p.bump()
		p.b.Close()
	}
}

// parseStringPrimary fuses adjacent string literals (with optional
// whitespace between them) into one ExprConstantString.
func (p *parser) parseStringPrimary() {
	p.b.Open(syntax.ExprConstantString)
	p.bump()
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind != syntax.StringLiteral {
			break
		}
		p.skipWS()
		p.bump()
	}
	p.b.Close()
}

func (p *parser) parseParenOrTuple() {
	cp := p.b.Checkpoint()
	p.bump() // (
	p.skipWS()
	if p.currentKind() == syntax.RParen {
		p.bump()
		p.b.OpenAt(cp, syntax.ExprTuple)
		p.b.Close()
		return
	}
	commaSeen := p.parseTupleElements(tupleWithTernary, map[syntax.Kind]bool{syntax.RParen: true}, nil)
	p.skipWS()
	if p.currentKind() == syntax.RParen {
		p.bump()
	} else {
		p.errorf("expected \")\"")
	}
	if commaSeen {
		p.b.OpenAt(cp, syntax.ExprTuple)
	} else {
		p.b.OpenAt(cp, syntax.ExprWrapped)
	}
	p.b.Close()
}

// parseList parses "[ elements ]". A token found after an element where
// "," or "]" should follow (e.g. the "2" in "[1 2, 3]") starts a
// resynchronization via errorUntil, per the
// spec's "continuing to seek , or ]" recovery for list literals: the
// offending tokens are bumped into the tree as individual Error leaves
// rather than dropped or left for an outer parser to trip over.
func (p *parser) parseList() {
	p.b.Open(syntax.ExprList)
	p.bump() // [
	p.skipWS()
	for {
		p.parseTupleElements(tupleWithTernary, map[syntax.Kind]bool{syntax.RBracket: true}, nil)
		p.skipWS()
		if p.currentKind() == syntax.RBracket || p.atEnd() {
			break
		}
		p.errorf("expected \",\" or \"]\"")
		stop, atSync := p.errorUntil(map[syntax.Kind]bool{syntax.Comma: true, syntax.RBracket: true})
		if !atSync || stop == syntax.RBracket {
			break
		}
		p.bump() // the "," errorUntil resynced to
		p.skipWS()
	}
	if p.currentKind() == syntax.RBracket {
		p.bump()
	} else {
		p.errorf("expected \"]\"")
	}
	p.b.Close()
}

func (p *parser) parseDict() {
	p.b.Open(syntax.ExprDict)
	p.bump() // {
	p.skipWS()
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind == syntax.RBrace {
			break
		}
		p.b.Open(syntax.Pair)
		p.parseTernary()
		p.skipWS()
		if p.currentKind() == syntax.Colon {
			p.bump()
		} else {
			p.errorf("expected \":\" in dict entry")
		}
		p.skipWS()
		p.parseTernary()
		p.b.Close()
		p.skipWS()
		if p.currentKind() == syntax.Comma {
			p.bump()
			p.skipWS()
			continue
		}
		break
	}
	if p.currentKind() == syntax.RBrace {
		p.bump()
	} else {
		p.errorf("expected \"}\"")
	}
	p.b.Close()
}

// ---- tuples -------------------------------------------------------------

// parseTupleElements parses comma-separated elements using the grammar
// tupleMode selects, stopping (without consuming) at a token whose kind
// is in termKinds or whose text is a name in termNames. A trailing comma
// immediately before a terminator is tolerated.
func (p *parser) parseTupleElements(mode tupleMode, termKinds map[syntax.Kind]bool, termNames map[string]bool) (commaSeen bool) {
	isTerminator := func() bool {
		idx := p.indexNonWS(p.pos)
		if idx < 0 {
			return true
		}
		tok := p.tokens[idx]
		if termKinds[tok.Kind] {
			return true
		}
		return tok.Kind == syntax.Name && termNames[tok.Text]
	}
	parseElem := func() {
		switch mode {
		case tupleSimplified:
			p.parseAssignTarget()
		case tupleNoTernary:
			p.parseOr()
		default:
			p.parseTernary()
		}
	}

	if isTerminator() {
		return false
	}
	parseElem()
	for {
		idx := p.indexNonWS(p.pos)
		if idx < 0 || p.tokens[idx].Kind != syntax.Comma {
			return commaSeen
		}
		p.skipWS()
		p.bump()
		commaSeen = true
		p.skipWS()
		if isTerminator() {
			return commaSeen
		}
		parseElem()
	}
}

// parseTuple wraps parseTupleElements with the ExprTuple retroactive
// labeling: a tuple node only appears once a comma is actually seen.
func (p *parser) parseTuple(mode tupleMode, termNames map[string]bool) {
	cp := p.b.Checkpoint()
	contextEnd := map[syntax.Kind]bool{
		syntax.VariableEnd: true, syntax.BlockEnd: true,
		syntax.RParen: true, syntax.RBracket: true, syntax.RBrace: true, syntax.Colon: true,
	}
	commaSeen := p.parseTupleElements(mode, contextEnd, termNames)
	if commaSeen {
		p.b.OpenAt(cp, syntax.ExprTuple)
		p.b.Close()
	}
}

// parseAssignTarget parses a simplified-primary assignment target: a
// name, optionally a namespace reference ("ns.name").
func (p *parser) parseAssignTarget() {
	p.skipWS()
	if p.currentKind() != syntax.Name {
		p.errorf("expected name")
		if !p.atEnd() {
			p.b.Open(syntax.Error)
			p.bump()
			p.b.Close()
		}
		return
	}
	cp := p.b.Checkpoint()
	p.bump()
	idx := p.indexNonWS(p.pos)
	if idx >= 0 && p.tokens[idx].Kind == syntax.Dot {
		p.skipWS()
		p.bump() // dot
		p.skipWS()
		if p.currentKind() == syntax.Name {
			p.bump()
		} else {
			p.errorf("expected name after \".\"")
		}
		p.b.OpenAt(cp, syntax.ExprNamespaceRef)
	} else {
		p.b.OpenAt(cp, syntax.ExprName)
	}
	p.b.Close()
}
