package cst

import (
	"testing"

	"github.com/dbt-labs/dbt-jinja-cst/syntax"
)

func TestBuilderRoundTrip(t *testing.T) {
	var tests = []string{
		"",
		"hello",
		"{{ x }}",
		"{% for i in xs %}body{% endfor %}",
	}
	for _, input := range tests {
		b := NewBuilder()
		b.Open(syntax.Template)
		if input != "" {
			b.Token(syntax.Data, input)
		}
		b.Close()
		root := NewRoot(b.Finish())
		if got := root.Text(); got != input {
			t.Errorf("Text() = %q, want %q", got, input)
		}
	}
}

func TestBuilderCheckpointOpenAt(t *testing.T) {
	b := NewBuilder()
	b.Open(syntax.Template)
	cp := b.Checkpoint()
	b.Token(syntax.Name, "foo")
	b.OpenAt(cp, syntax.ExprCall)
	b.Token(syntax.LParen, "(")
	b.Token(syntax.RParen, ")")
	b.Close() // ExprCall
	b.Close() // Template

	root := NewRoot(b.Finish())
	if got, want := root.Text(), "foo()"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	children := root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.ExprCall {
		t.Fatalf("expected a single ExprCall child, got %v", children)
	}
	call := children[0]
	if got, want := len(call.Tokens()), 3; got != want {
		t.Errorf("ExprCall has %d tokens, want %d", got, want)
	}
}

func TestBuilderNestedCheckpointsChain(t *testing.T) {
	// foo | bar | baz : two postfix filters chained left to right, each
	// committed retroactively once the '|' is seen, mirroring how the
	// parser builds ExprFilter.
	b := NewBuilder()
	b.Open(syntax.Template)
	cp1 := b.Checkpoint()
	b.Token(syntax.Name, "foo")
	b.OpenAt(cp1, syntax.ExprFilter)
	b.Token(syntax.Pipe, "|")
	b.Token(syntax.Name, "bar")
	b.Close() // first ExprFilter

	// Reuse cp1, exactly as parsePostfix's postfix loop reuses a single
	// checkpoint taken before the primary across every chained filter:
	// the whole first ExprFilter is still sitting at cp1's position, so
	// OpenAt(cp1, ...) again wraps it as the new primary.
	b.OpenAt(cp1, syntax.ExprFilter)
	b.Token(syntax.Pipe, "|")
	b.Token(syntax.Name, "baz")
	b.Close() // second ExprFilter
	b.Close() // Template

	root := NewRoot(b.Finish())
	if got, want := root.Text(), "foo|bar|baz"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	outer := root.Children()[0]
	if outer.Kind() != syntax.ExprFilter {
		t.Fatalf("outer kind = %v, want ExprFilter", outer.Kind())
	}
	inner := outer.Children()[0]
	if inner.Kind() != syntax.ExprFilter {
		t.Fatalf("inner kind = %v, want ExprFilter", inner.Kind())
	}
}
