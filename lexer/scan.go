package lexer

import (
	"unicode/utf8"

	"github.com/dbt-labs/dbt-jinja-cst/syntax"
)

// matchWhitespace consumes a maximal run of whitespace runes at the
// start of s.
func matchWhitespace(s string) (width int, ok bool) {
	for width < len(s) {
		r, size := utf8.DecodeRuneInString(s[width:])
		if !isWhitespaceRune(r) {
			break
		}
		width += size
	}
	return width, width > 0
}

func isWhitespaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// matchName consumes a Name lexeme: a name-start rune followed by a
// maximal run of name-continue runes.
func matchName(s string) (width int, ok bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !syntax.IsNameStart(r) {
		return 0, false
	}
	width = size
	for width < len(s) {
		r, size := utf8.DecodeRuneInString(s[width:])
		if !syntax.IsNameContinue(r) {
			break
		}
		width += size
	}
	return width, true
}

// matchNumber consumes an Integer or Float literal: digits, optionally
// followed by a '.' and more digits and/or an exponent. Longest-from-start
// naturally falls out of scanning as far as the grammar allows in one pass.
func matchNumber(s string) (width int, kind syntax.Kind, ok bool) {
	start := width
	for width < len(s) && isDigitByte(s[width]) {
		width++
	}
	if width == start {
		return 0, 0, false
	}
	kind = syntax.IntegerLiteral
	if width < len(s) && s[width] == '.' && width+1 < len(s) && isDigitByte(s[width+1]) {
		kind = syntax.FloatLiteral
		width++
		for width < len(s) && isDigitByte(s[width]) {
			width++
		}
	}
	if width < len(s) && (s[width] == 'e' || s[width] == 'E') {
		save := width
		i := width + 1
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		digitsStart := i
		for i < len(s) && isDigitByte(s[i]) {
			i++
		}
		if i > digitsStart {
			width = i
			kind = syntax.FloatLiteral
		} else {
			width = save
		}
	}
	return width, kind, true
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// matchString consumes a quoted string literal starting at s[0], which
// must be ' or ". Backslash-escapes the following character. If the
// input ends before a closing quote is found, the literal simply extends
// to end of input: tokenization never fails, so an unterminated string
// is still emitted whole, and the parser is the one that flags it.
func matchString(s string) (width int, ok bool) {
	if len(s) == 0 || (s[0] != '\'' && s[0] != '"') {
		return 0, false
	}
	quote := s[0]
	width = 1
	for width < len(s) {
		switch s[width] {
		case '\\':
			width++
			if width < len(s) {
				width++
			}
		case quote:
			return width + 1, true
		default:
			width++
		}
	}
	return width, true
}
