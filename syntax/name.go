package syntax

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// nameStartTable and nameContinueTable approximate the identifier
// character classes original_source's NAME_RE encodes (Jinja's own
// _identifier.py continuation set): letters and letter numbers may start
// a name; names continue with those plus combining marks, decimal digits
// and connector punctuation. They are built from whole Unicode category
// tables, not copied out of the regex literal, so they are not an exact
// match for it (other numbers such as '²' are not accepted, for one).
var (
	nameStartTable    = rangetable.Merge(unicode.L, unicode.Nl)
	nameContinueTable = rangetable.Merge(unicode.L, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
)

// IsNameStart reports whether r may begin a Name lexeme.
func IsNameStart(r rune) bool {
	return r == '_' || unicode.Is(nameStartTable, r)
}

// IsNameContinue reports whether r may continue a Name lexeme begun by
// IsNameStart.
func IsNameContinue(r rune) bool {
	return r == '_' || unicode.Is(nameContinueTable, r)
}
