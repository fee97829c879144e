// Command dumptree parses a template file and prints its CST, one line
// per node or token with its kind and byte span, for manual inspection.
// The teacher carries no cmd/ directory of its own; this is new wiring
// over the stdlib flag package, in the plain single-binary-over-a-
// library's-public-API shape soymsg/pomsg/xgettext-soy/main.go uses for
// its own unrelated PO-extraction CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dbt-labs/dbt-jinja-cst/cst"
	"github.com/dbt-labs/dbt-jinja-cst/parser"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: dumptree <file>")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result := parser.Parse(string(text))
	if result.Root != nil {
		dump(result.Root, 0)
	}
	for _, d := range result.Errors {
		fmt.Printf("error: %s\n", d.Message)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func dump(n *cst.Node, depth int) {
	start, end := n.TextRange()
	fmt.Printf("%s%v@%d..%d\n", indent(depth), n.Kind(), start, end)
	for _, e := range n.ChildrenWithTokens() {
		switch v := e.(type) {
		case *cst.Node:
			dump(v, depth+1)
		case *cst.Token:
			s, e := v.TextRange()
			fmt.Printf("%s%v@%d..%d %q\n", indent(depth+1), v.Kind(), s, e, v.Text())
		}
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
