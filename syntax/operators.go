package syntax

import "sort"

// operatorSpellings mirrors original_source's dbt_jinja2::lexer OPERATORS
// map: every recognized operator spelling and the specific kind it
// resolves to once the lexer has found the maximal-munch match.
var operatorSpellings = map[string]Kind{
	"**": DoubleStar,
	"//": DoubleSlash,
	"==": Eq2,
	"!=": NotEq,
	"<=": LtEq,
	">=": GtEq,
	"+":  Plus,
	"-":  Minus,
	"*":  Star,
	"/":  Slash,
	"%":  Percent,
	"~":  Tilde,
	"<":  Lt,
	">":  Gt,
	"=":  Assign,
	".":  Dot,
	":":  Colon,
	"|":  Pipe,
	",":  Comma,
	";":  Semicolon,
	"(":  LParen,
	")":  RParen,
	"[":  LBracket,
	"]":  RBracket,
	"{":  LBrace,
	"}":  RBrace,
}

// Operators is operatorSpellings sorted longest-spelling-first, the order
// maximal-munch matching requires: a rule list where "**" is tried before
// "*", "//" before "/", and so on.
var Operators = sortOperators()

type operatorRule struct {
	spelling string
	kind     Kind
}

func sortOperators() []operatorRule {
	rules := make([]operatorRule, 0, len(operatorSpellings))
	for spelling, kind := range operatorSpellings {
		rules = append(rules, operatorRule{spelling, kind})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].spelling) != len(rules[j].spelling) {
			return len(rules[i].spelling) > len(rules[j].spelling)
		}
		return rules[i].spelling < rules[j].spelling
	})
	return rules
}

// CompareOperators is the subset of operator kinds used in compare chains
// (spec §4.3 step 5).
var CompareOperators = map[Kind]bool{
	Eq2: true, NotEq: true, Lt: true, LtEq: true, Gt: true, GtEq: true,
}

// MatchOperator finds the longest operator spelling that is a prefix of
// s, per the maximal-munch rule. It returns the resolved kind and the
// number of bytes consumed, or ok=false if no operator spelling matches.
func MatchOperator(s string) (kind Kind, width int, ok bool) {
	for _, rule := range Operators {
		if len(rule.spelling) <= len(s) && s[:len(rule.spelling)] == rule.spelling {
			return rule.kind, len(rule.spelling), true
		}
	}
	return 0, 0, false
}

// OperatorSpelling returns the canonical spelling for an operator kind,
// the reverse of the spelling-to-kind lookup MatchOperator performs.
func OperatorSpelling(k Kind) (string, bool) {
	for _, rule := range Operators {
		if rule.kind == k {
			return rule.spelling, true
		}
	}
	return "", false
}
