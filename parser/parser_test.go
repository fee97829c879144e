package parser

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/google/go-cmp/cmp"

	"github.com/dbt-labs/dbt-jinja-cst/cst"
	"github.com/dbt-labs/dbt-jinja-cst/lexer"
	"github.com/dbt-labs/dbt-jinja-cst/syntax"
)

var roundTripInputs = []string{
	"",
	"   ",
	"plain text",
	"{{ x }}",
	"{% raw %}raw data{% endraw %}",
	"{% raw %}tail never closes",
	"{{ 1,2, 3}} test",
	"{{ foo.0.0 ",
	"{% for i in 1, 2 %} {{ i }} {% endfor %}",
	"{% for assign in expr %} blah {% endfor %} {% else %}",
	"{{ call(arg1, **kwargs, *args, kwarg=kw, arg2, arg3) ",
	"{% set x = 1 + 2 %}",
	"{% set x %}body{% endset %}",
	"{% set x | upper %}body{% endset %}",
	"{% if a %}{% elif b %}{% else %}{% endif %}",
	"{% macro m(a, b=1) %}{{ a }}{% endmacro %}",
	"{% call foo(1) %}body{% endcall %}",
	"{% filter upper %}text{% endfilter %}",
	"{% do x.append(1) %}",
	"{# a comment with {{ braces }} inside #}",
	"{% for i in xs %}{% endfor %}{% endfor %}",
	"{{ [1 2, 3] }}",
}

func leavesText(n *cst.Node) string {
	var b strings.Builder
	for _, tok := range n.Tokens() {
		b.WriteString(tok.Text())
	}
	return b.String()
}

func TestParseRoundTrip(t *testing.T) {
	for _, input := range roundTripInputs {
		result := Parse(input)
		if result.Root == nil {
			t.Errorf("Parse(%q): nil root", input)
			continue
		}
		if got := leavesText(result.Root); got != input {
			t.Errorf("Parse(%q): leaf concatenation =\n%s", input, diff.LineDiff(got, input))
		}
	}
}

func TestParseIdempotentReparse(t *testing.T) {
	for _, input := range roundTripInputs {
		first := Parse(input)
		second := Parse(leavesText(first.Root))

		firstMsgs := diagnosticMessages(first.Errors)
		secondMsgs := diagnosticMessages(second.Errors)
		if !cmp.Equal(firstMsgs, secondMsgs) {
			t.Errorf("Parse(%q) reparse diagnostics differ:\n%s", input, cmp.Diff(firstMsgs, secondMsgs))
		}

		firstShape := shape(first.Root)
		secondShape := shape(second.Root)
		if !cmp.Equal(firstShape, secondShape) {
			t.Errorf("Parse(%q) reparse shape differs:\n%s", input, cmp.Diff(firstShape, secondShape))
		}
	}
}

func diagnosticMessages(ds []cst.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}

// shape collapses a tree to its kind skeleton, ignoring byte offsets
// (which legitimately move between the first parse and the reparse of
// its own leaf concatenation only when leading data shifts; for these
// fixed inputs they don't, but comparing kinds keeps the property
// focused on structure rather than incidental span arithmetic).
func shape(n *cst.Node) []syntax.Kind {
	var out []syntax.Kind
	var walk func(*cst.Node)
	walk = func(n *cst.Node) {
		out = append(out, n.Kind())
		for _, e := range n.ChildrenWithTokens() {
			switch v := e.(type) {
			case *cst.Node:
				walk(v)
			case *cst.Token:
				out = append(out, v.Kind())
			}
		}
	}
	walk(n)
	return out
}

func TestParseEmptyInput(t *testing.T) {
	result := Parse("")
	if len(result.Root.ChildrenWithTokens()) != 0 {
		t.Errorf("Parse(\"\"): root has children, want none")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Parse(\"\"): errors = %v, want none", result.Errors)
	}
}

func TestParseRawBlock(t *testing.T) {
	result := Parse("{% raw %}raw data{% endraw %}")
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.StmtRaw {
		t.Fatalf("root children = %v, want single StmtRaw", kindsOf(children))
	}
}

func TestParseTupleLiteral(t *testing.T) {
	result := Parse("{{ 1,2, 3}} test")
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 2 || children[0].Kind() != syntax.Variable {
		t.Fatalf("root children = %v, want [Variable, Data]", kindsOf(children))
	}
	tuple := cst.GetChildOfKind(children[0], syntax.ExprTuple, cst.Forward)
	if tuple == nil {
		t.Fatal("Variable has no ExprTuple child")
	}
	// Integer literals are bare IntegerLiteral leaves, not inner nodes.
	ints := 0
	for _, e := range tuple.ChildrenWithTokens() {
		if e.Kind() == syntax.IntegerLiteral {
			ints++
		}
	}
	if ints != 3 {
		t.Errorf("ExprTuple has %d integer literal elements, want 3", ints)
	}
}

func TestParseUnterminatedGetItemChain(t *testing.T) {
	result := Parse("{{ foo.0.0 ")
	if !hasMessageContaining(result.Errors, "expected \"}}\"") {
		t.Errorf("errors = %v, want one mentioning expected \"}}\"", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.Variable {
		t.Fatalf("root children = %v, want single Variable", kindsOf(children))
	}
}

func TestParseForLoop(t *testing.T) {
	result := Parse("{% for i in 1, 2 %} {{ i }} {% endfor %}")
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.StmtFor {
		t.Fatalf("root children = %v, want single StmtFor", kindsOf(children))
	}
	inner := children[0].Children()
	if len(inner) == 0 || inner[0].Kind() != syntax.ForStart {
		t.Fatalf("StmtFor children = %v, want ForStart first", kindsOf(inner))
	}
	last := inner[len(inner)-1]
	if last.Kind() != syntax.ForEnd {
		t.Errorf("StmtFor last child = %v, want ForEnd", last.Kind())
	}
}

func TestParseStrayElseAfterClosedFor(t *testing.T) {
	result := Parse("{% for assign in expr %} blah {% endfor %} {% else %}")
	if !hasMessageContaining(result.Errors, "found unmatched \"else\" statement") {
		t.Errorf("errors = %v, want one mentioning unmatched \"else\"", result.Errors)
	}
	children := result.Root.Children()
	// The " " between "{% endfor %}" and "{% else %}" is an ExprData child.
	if len(children) != 3 {
		t.Fatalf("root children = %v, want [StmtFor, ExprData, StmtUnknown]", kindsOf(children))
	}
	if children[0].Kind() != syntax.StmtFor {
		t.Errorf("first child = %v, want StmtFor", children[0].Kind())
	}
	if children[2].Kind() != syntax.StmtUnknown {
		t.Errorf("third child = %v, want StmtUnknown", children[2].Kind())
	}
}

func TestParseCallArgumentOrdering(t *testing.T) {
	result := Parse("{{ call(arg1, **kwargs, *args, kwarg=kw, arg2, arg3) ")
	want := []string{
		"dynamic args found after dynamic kwargs",
		"kwarg found after dynamic kwargs",
		"arg found after kwarg",
		"arg found after dynamic kwargs",
	}
	for _, w := range want {
		if !hasMessageContaining(result.Errors, w) {
			t.Errorf("errors = %v, want one containing %q", result.Errors, w)
		}
	}
	if !hasMessageContaining(result.Errors, "expected \"}}\"") {
		t.Errorf("errors = %v, want unterminated-variable diagnostic", result.Errors)
	}

	call := cst.GetChildOfKind(result.Root.Children()[0], syntax.ExprCall, cst.Forward)
	if call == nil {
		t.Fatal("Variable has no ExprCall child")
	}
	args := cst.GetChildOfKind(call, syntax.CallArguments, cst.Forward)
	if args == nil {
		t.Fatal("ExprCall has no CallArguments child")
	}
	if got := len(args.Children()); got != 6 {
		t.Errorf("CallArguments has %d argument nodes, want 6: %v", got, kindsOf(args.Children()))
	}
}

func TestParseCallDuplicateDynamicArgs(t *testing.T) {
	result := Parse("{{ call(*a, *b) }}")
	if !hasMessageContaining(result.Errors, "duplicate dynamic args") {
		t.Errorf("errors = %v, want one containing \"duplicate dynamic args\"", result.Errors)
	}

	call := cst.GetChildOfKind(result.Root.Children()[0], syntax.ExprCall, cst.Forward)
	if call == nil {
		t.Fatal("Variable has no ExprCall child")
	}
	args := cst.GetChildOfKind(call, syntax.CallArguments, cst.Forward)
	if args == nil {
		t.Fatal("ExprCall has no CallArguments child")
	}
	if got := kindsOf(args.Children()); len(got) != 2 || got[0] != syntax.CallDynamicArgs || got[1] != syntax.CallDynamicArgs {
		t.Errorf("CallArguments children = %v, want [CallDynamicArgs, CallDynamicArgs]", got)
	}
}

func TestParseSetAssignVsAssignBlock(t *testing.T) {
	result := Parse("{% set x = 1 + 2 %}")
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.StmtAssign {
		t.Fatalf("root children = %v, want single StmtAssign", kindsOf(children))
	}

	result = Parse("{% set x %}body{% endset %}")
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	children = result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.StmtAssignBlock {
		t.Fatalf("root children = %v, want single StmtAssignBlock", kindsOf(children))
	}
	inner := children[0].Children()
	if len(inner) == 0 || inner[0].Kind() != syntax.AssignBlockStart {
		t.Fatalf("StmtAssignBlock children = %v, want AssignBlockStart first", kindsOf(inner))
	}
}

func TestParseUnwindAtEOF(t *testing.T) {
	result := Parse("{% for i in xs %}body")
	if !hasMessageContaining(result.Errors, "expected tag endfor to be closed") {
		t.Errorf("errors = %v, want unwind diagnostic", result.Errors)
	}
	children := result.Root.Children()
	if len(children) != 1 || children[0].Kind() != syntax.StmtFor {
		t.Fatalf("root children = %v, want single StmtFor", kindsOf(children))
	}
}

func TestParseListRecoversStrayToken(t *testing.T) {
	result := Parse("{{ [1 2, 3] }}")
	if !hasMessageContaining(result.Errors, "expected \",\" or \"]\"") {
		t.Errorf("errors = %v, want one mentioning expected \",\" or \"]\"", result.Errors)
	}
	if len(result.Root.Children()) != 1 || result.Root.Children()[0].Kind() != syntax.Variable {
		t.Fatalf("root children = %v, want single Variable", kindsOf(result.Root.Children()))
	}
	list := cst.GetChildOfKind(result.Root.Children()[0], syntax.ExprList, cst.Forward)
	if list == nil {
		t.Fatal("Variable has no ExprList child")
	}
	// The stray "2" is resynchronized into the tree as an Error leaf
	// rather than being dropped or escaping the list to confuse an outer
	// parser; "1" and "3" remain bare IntegerLiteral element tokens, and
	// the "2" keeps its IntegerLiteral kind inside the Error node, so all
	// three appear among the list's tokens.
	errNode := cst.GetChildOfKind(list, syntax.Error, cst.Forward)
	if errNode == nil {
		t.Fatalf("ExprList has no Error child for the stray token: %v", kindsOf(list.Children()))
	}
	if got := errNode.Text(); got != "2" {
		t.Errorf("recovered Error leaf text = %q, want \"2\"", got)
	}
	var ints []string
	for _, tok := range list.Tokens() {
		if tok.Kind() == syntax.IntegerLiteral {
			ints = append(ints, tok.Text())
		}
	}
	if want := []string{"1", "2", "3"}; !equalStrings(ints, want) {
		t.Errorf("ExprList integer tokens = %v, want %v", ints, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseOperatorPrecedence(t *testing.T) {
	result := Parse("{{ a + b * c }}")
	variable := result.Root.Children()[0]
	add := cst.GetChildOfKind(variable, syntax.ExprAdd, cst.Forward)
	if add == nil {
		t.Fatal("no ExprAdd child under Variable")
	}
	mul := cst.GetChildOfKind(add, syntax.ExprMultiply, cst.Forward)
	if mul == nil {
		t.Fatalf("a + b * c did not nest ExprMultiply under ExprAdd: %v", kindsOf(add.Children()))
	}
}

func kindsOf(nodes []*cst.Node) []syntax.Kind {
	out := make([]syntax.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func hasMessageContaining(ds []cst.Diagnostic, substr string) bool {
	for _, d := range ds {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

// ensure ParseTokens is exercised directly too, not only through Parse.
func TestParseTokensMatchesParse(t *testing.T) {
	for _, input := range roundTripInputs {
		viaParse := Parse(input)
		viaTokens := ParseTokens(lexer.Tokenize(input))
		if !cmp.Equal(shape(viaParse.Root), shape(viaTokens.Root)) {
			t.Errorf("Parse(%q) and ParseTokens(Tokenize(%q)) produced different shapes", input, input)
		}
	}
}
