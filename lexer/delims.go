package lexer

import "strings"

// This file implements the delimiter and raw-word matchers: the literal
// patterns that open and close the Block, Variable, Comment and Raw
// contexts. Every opening/closing delimiter accepts an optional '-' or
// '+' whitespace-control marker immediately adjacent to it, and
// RawBegin/RawEnd are tokenized atomically so the literal body between
// them is never reinterpreted.

// matchTwoCharOpen matches lead (e.g. "{%") optionally followed
// immediately by a control marker ('-' or '+').
func matchTwoCharOpen(s, lead string) (width int, ok bool) {
	if !strings.HasPrefix(s, lead) {
		return 0, false
	}
	width = len(lead)
	if width < len(s) && isControlMarker(s[width]) {
		width++
	}
	return width, true
}

// matchTwoCharClose matches an optional leading control marker followed
// immediately by trail (e.g. "%}").
func matchTwoCharClose(s, trail string) (width int, ok bool) {
	start := 0
	if len(s) > 0 && isControlMarker(s[0]) {
		start = 1
	}
	if !strings.HasPrefix(s[start:], trail) {
		return 0, false
	}
	return start + len(trail), true
}

func isControlMarker(b byte) bool { return b == '-' || b == '+' }

func matchBlockBegin(s string) (int, bool)    { return matchTwoCharOpen(s, "{%") }
func matchBlockEnd(s string) (int, bool)      { return matchTwoCharClose(s, "%}") }
func matchVariableBegin(s string) (int, bool) { return matchTwoCharOpen(s, "{{") }
func matchVariableEnd(s string) (int, bool)   { return matchTwoCharClose(s, "}}") }
func matchCommentBegin(s string) (int, bool)  { return matchTwoCharOpen(s, "{#") }
func matchCommentEnd(s string) (int, bool)    { return matchTwoCharClose(s, "#}") }

// matchRawWord matches "{%" [control] WS* word WS* [control] "%}" as a
// single atomic span, where word is "raw" or "endraw" and is required to
// end at a word boundary (not be a prefix of a longer identifier).
func matchRawWord(s, word string) (width int, ok bool) {
	open, ok := matchTwoCharOpen(s, "{%")
	if !ok {
		return 0, false
	}
	i := open
	i += countSpaceEOL(s[i:])
	if !strings.HasPrefix(s[i:], word) {
		return 0, false
	}
	i += len(word)
	if i < len(s) && isNameContinueByte(s[i]) {
		return 0, false // "raw" is a prefix of a longer name; not a match
	}
	i += countSpaceEOL(s[i:])
	closeWidth, ok := matchTwoCharClose(s[i:], "%}")
	if !ok {
		return 0, false
	}
	return i + closeWidth, true
}

func matchRawBegin(s string) (int, bool) { return matchRawWord(s, "raw") }
func matchRawEnd(s string) (int, bool)   { return matchRawWord(s, "endraw") }

func countSpaceEOL(s string) int {
	n := 0
	for n < len(s) && isSpaceByte(s[n]) {
		n++
	}
	return n
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// isNameContinueByte is a cheap ASCII check used only to detect the word
// boundary after "raw"/"endraw"; non-ASCII bytes never directly follow
// the plain ASCII word here since any combining character starts a new
// multi-byte rune, so treating non-ASCII leading bytes as "continues the
// name" is the safe, conservative choice.
func isNameContinueByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 0x80
}
