package syntax

import "testing"

func TestMatchOperatorMaximalMunch(t *testing.T) {
	var tests = []struct {
		input string
		kind  Kind
		width int
	}{
		{"**x", DoubleStar, 2},
		{"*x", Star, 1},
		{"//x", DoubleSlash, 2},
		{"/x", Slash, 1},
		{"==x", Eq2, 2},
		{"=x", Assign, 1},
		{"!=x", NotEq, 2},
		{"<=x", LtEq, 2},
		{"<x", Lt, 1},
		{">=x", GtEq, 2},
		{">x", Gt, 1},
		{".", Dot, 1},
	}
	for _, test := range tests {
		kind, width, ok := MatchOperator(test.input)
		if !ok {
			t.Errorf("MatchOperator(%q): no match", test.input)
			continue
		}
		if kind != test.kind || width != test.width {
			t.Errorf("MatchOperator(%q) = (%v, %d), want (%v, %d)", test.input, kind, width, test.kind, test.width)
		}
	}
}

func TestMatchOperatorNoMatch(t *testing.T) {
	if _, _, ok := MatchOperator("abc"); ok {
		t.Errorf("MatchOperator(%q): expected no match", "abc")
	}
	if _, _, ok := MatchOperator(""); ok {
		t.Errorf("MatchOperator(\"\"): expected no match")
	}
}

func TestOperatorSpellingRoundTrip(t *testing.T) {
	for spelling, kind := range operatorSpellings {
		got, ok := OperatorSpelling(kind)
		if !ok || got != spelling {
			t.Errorf("OperatorSpelling(%v) = (%q, %v), want (%q, true)", kind, got, ok, spelling)
		}
	}
}

func TestCompareOperatorsSubset(t *testing.T) {
	for k := range CompareOperators {
		if _, ok := OperatorSpelling(k); !ok {
			t.Errorf("compare operator %v has no spelling", k)
		}
	}
}
