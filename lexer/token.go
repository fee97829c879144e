// Package lexer implements the context-stack tokenizer: it turns input
// text into a total sequence of tokens whose concatenated text equals
// the input exactly. The context stack and per-context dispatch mirror
// the state-function idiom of a channel-driven scanner, adapted to
// return a plain slice since a parser consuming the whole sequence (and
// needing to look arbitrarily far ahead) has no use for streaming.
package lexer

import "github.com/dbt-labs/dbt-jinja-cst/syntax"

// Token is one lexeme: a kind and its exact source text. Concatenating
// the Text of every Token returned by Tokenize reproduces the input.
type Token struct {
	Kind syntax.Kind
	Text string
}

// ctxKind is a tokenizer context: a lexical mode that determines which
// rules apply next.
type ctxKind int

const (
	ctxRoot ctxKind = iota
	ctxBlock
	ctxVariable
	ctxComment
	ctxRaw
)
