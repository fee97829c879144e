package cst

import (
	"testing"

	"github.com/dbt-labs/dbt-jinja-cst/syntax"
)

func buildSimpleVariable() *Node {
	b := NewBuilder()
	b.Open(syntax.Template)
	b.Token(syntax.Data, "a")
	b.Open(syntax.Variable)
	b.Token(syntax.VariableBegin, "{{")
	b.Token(syntax.Whitespace, " ")
	b.Token(syntax.Name, "x")
	b.Token(syntax.Whitespace, " ")
	b.Token(syntax.VariableEnd, "}}")
	b.Close()
	b.Token(syntax.Data, "b")
	b.Close()
	return NewRoot(b.Finish())
}

func TestNodeTextRangeIsSumOfChildren(t *testing.T) {
	root := buildSimpleVariable()
	start, end := root.TextRange()
	if start != 0 || end != len("a{{ x }}b") {
		t.Errorf("TextRange() = (%d, %d), want (0, %d)", start, end, len("a{{ x }}b"))
	}
	variable := GetChildOfKind(root, syntax.Variable, Forward)
	if variable == nil {
		t.Fatal("expected a Variable child")
	}
	vs, ve := variable.TextRange()
	if got, want := ve-vs, len("{{ x }}"); got != want {
		t.Errorf("Variable width = %d, want %d", got, want)
	}
}

func TestGetChildOfKindForwardBackward(t *testing.T) {
	b := NewBuilder()
	b.Open(syntax.Template)
	b.Token(syntax.Data, "x")
	b.Open(syntax.Variable)
	b.Token(syntax.VariableBegin, "{{")
	b.Token(syntax.VariableEnd, "}}")
	b.Close()
	b.Token(syntax.Data, "y")
	b.Open(syntax.Variable)
	b.Token(syntax.VariableBegin, "{{")
	b.Token(syntax.VariableEnd, "}}")
	b.Close()
	b.Close()
	root := NewRoot(b.Finish())

	first := GetChildOfKind(root, syntax.Variable, Forward)
	last := GetChildOfKind(root, syntax.Variable, Backward)
	if first == last {
		t.Fatal("expected distinct first/last Variable children")
	}
	fs, _ := first.TextRange()
	ls, _ := last.TextRange()
	if fs >= ls {
		t.Errorf("first Variable (at %d) should precede last (at %d)", fs, ls)
	}
}

func TestTokenAtOffsetBetweenAndSingle(t *testing.T) {
	root := buildSimpleVariable()
	// offset 0 is inside the "a" Data token.
	res := root.TokenAtOffset(0)
	if res.Kind != SingleToken || res.Left.Text() != "a" {
		t.Errorf("TokenAtOffset(0) = %+v, want single 'a'", res)
	}
	// offset 1 is the boundary between "a" and "{{".
	res = root.TokenAtOffset(1)
	if res.Kind != BetweenTokens {
		t.Errorf("TokenAtOffset(1).Kind = %v, want BetweenTokens", res.Kind)
	}
}

func TestDescendantsAndAncestors(t *testing.T) {
	root := buildSimpleVariable()
	descendants := root.Descendants()
	if len(descendants) != 1 || descendants[0].Kind() != syntax.Variable {
		t.Fatalf("Descendants() = %v, want single Variable", descendants)
	}
	ancestors := descendants[0].Ancestors()
	if len(ancestors) != 2 || ancestors[0].Kind() != syntax.Variable || ancestors[1].Kind() != syntax.Template {
		t.Fatalf("Ancestors() = %v, want [Variable Template]", ancestors)
	}
}
