package lexer

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// lexer carries the state a Tokenize call needs: the input, a cursor,
// the context stack, and the tokens emitted so far.
type lexer struct {
	input  string
	pos    int
	stack  []ctxKind
	tokens []Token
}

func (l *lexer) top() ctxKind { return l.stack[len(l.stack)-1] }
func (l *lexer) push(c ctxKind) { l.stack = append(l.stack, c) }
func (l *lexer) pop() { l.stack = l.stack[:len(l.stack)-1] }

func (l *lexer) emit(kind syntax.Kind, text string) {
	if text == "" {
		return
	}
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text})
	l.pos += len(text)
}

// Tokenize turns text into a total token sequence: the concatenation of
// every returned Token's Text equals text exactly, and Tokenize always
// terminates. The context stack starts with a single Root entry, as
// required, and never underflows: every pop follows a push.
func Tokenize(text string) []Token {
	l := &lexer{input: text, stack: []ctxKind{ctxRoot}}
	for l.pos < len(l.input) {
		switch l.top() {
		case ctxRoot:
			l.lexRoot()
		case ctxRaw:
			l.lexSearchDefault(matchRawEnd, syntax.RawEnd, syntax.Data)
		case ctxComment:
			l.lexSearchDefault(matchCommentEnd, syntax.CommentEnd, syntax.CommentData)
		case ctxBlock:
			l.lexExprContext(matchBlockEnd, syntax.BlockEnd)
		case ctxVariable:
			l.lexExprContext(matchVariableEnd, syntax.VariableEnd)
		}
	}
	rewriteOperators(l.tokens)
	return l.tokens
}

// rootRule is one of Root's push rules, tried in the table order the
// spec lays out: raw-begin, comment-begin, block-begin, variable-begin.
type rootRule struct {
	match func(s string) (int, bool)
	kind  syntax.Kind
	push  ctxKind
}

var rootRules = []rootRule{
	{matchRawBegin, syntax.RawBegin, ctxRaw},
	{matchCommentBegin, syntax.CommentBegin, ctxComment},
	{matchBlockBegin, syntax.BlockBegin, ctxBlock},
	{matchVariableBegin, syntax.VariableBegin, ctxVariable},
}

// lexRoot implements the Root context's Search policy: scan ahead for
// the earliest match among rootRules (ties broken by rule order), emit
// everything before it as Data, then the matched delimiter, pushing its
// context.
func (l *lexer) lexRoot() {
	s := l.input[l.pos:]
	for i := 0; i <= len(s); i++ {
		for _, rule := range rootRules {
			width, ok := rule.match(s[i:])
			if !ok {
				continue
			}
			if i > 0 {
				l.emit(syntax.Data, s[:i])
			}
			l.emit(rule.kind, s[i:i+width])
			l.push(rule.push)
			return
		}
	}
	l.emit(syntax.Data, s)
}

// lexSearchDefault implements the Search policy used by Raw and Comment:
// a single closing-pattern rule, with everything before the earliest
// match emitted as defaultKind, or the whole remainder as defaultKind if
// the closing pattern never appears.
func (l *lexer) lexSearchDefault(matchEnd func(string) (int, bool), endKind, defaultKind syntax.Kind) {
	s := l.input[l.pos:]
	for i := 0; i <= len(s); i++ {
		width, ok := matchEnd(s[i:])
		if !ok {
			continue
		}
		if i > 0 {
			l.emit(defaultKind, s[:i])
		}
		l.emit(endKind, s[i:i+width])
		l.pop()
		return
	}
	l.emit(defaultKind, s)
}

// exprRule is one candidate in the Block/Variable Longest-from-start
// policy, in the table order the spec lays out.
type exprRule struct {
	match func(s string) (int, syntax.Kind, bool)
}

func simpleRule(match func(string) (int, bool), kind syntax.Kind) exprRule {
	return exprRule{match: func(s string) (int, syntax.Kind, bool) {
		w, ok := match(s)
		return w, kind, ok
	}}
}

var exprRules = []exprRule{
	simpleRule(matchWhitespace, syntax.Whitespace),
	{match: matchNumber}, // resolves to IntegerLiteral or FloatLiteral itself
	simpleRule(matchName, syntax.Name),
	simpleRule(matchString, syntax.StringLiteral),
	{match: func(s string) (int, syntax.Kind, bool) {
		_, w, ok := syntax.MatchOperator(s)
		return w, syntax.Operator, ok
	}},
}

// lexExprContext implements the Block/Variable Longest-from-start
// policy: every rule in the table -- the context's own end delimiter
// first, then Whitespace/number/Name/String/Operator -- is tried at the
// cursor, the longest match wins, and ties are broken by earlier rule
// (the end delimiter listed first). If nothing matches, a single byte is
// emitted as Error so progress is always made.
func (l *lexer) lexExprContext(matchEnd func(string) (int, bool), endKind syntax.Kind) {
	s := l.input[l.pos:]

	bestWidth := 0
	bestKind := syntax.Error
	bestIsEnd := false

	if width, ok := matchEnd(s); ok {
		bestWidth, bestKind, bestIsEnd = width, endKind, true
	}
	for _, rule := range exprRules {
		width, kind, ok := rule.match(s)
		if ok && kind == syntax.FloatLiteral && l.pos > 0 && l.input[l.pos-1] == '.' {
			// Digits right after a "." index an attribute ("foo.0.0");
			// they never start a float there, only an integer.
			width = 0
			for width < len(s) && isDigitByte(s[width]) {
				width++
			}
			kind = syntax.IntegerLiteral
		}
		if ok && width > bestWidth {
			bestWidth, bestKind, bestIsEnd = width, kind, false
		}
	}
	if bestWidth > 0 {
		l.emit(bestKind, s[:bestWidth])
		if bestIsEnd {
			l.pop()
		}
		return
	}
	// Catch-all: emit a single byte as Error, guaranteeing progress.
	l.emit(syntax.Error, s[:1])
}

// rewriteOperators resolves every transient Operator token to its
// specific operator kind by looking its exact text up in the operator
// table, the way the spec's "Operator emission" section describes: the
// maximal-munch run is classified once, generically, then rewritten.
func rewriteOperators(tokens []Token) {
	for i, tok := range tokens {
		if tok.Kind != syntax.Operator {
			continue
		}
		if kind, width, ok := syntax.MatchOperator(tok.Text); ok && width == len(tok.Text) {
			tokens[i].Kind = kind
		}
	}
}
