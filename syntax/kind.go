// Package syntax holds the closed kind catalogs shared by the tokenizer,
// the parser and the CST: TokenKind, SyntaxKind, the operator spelling
// table and the Name identifier class.
package syntax

// Kind is a compact numeric tag. TokenKind is the subset of Kind values
// below tokenKindBoundary; SyntaxKind is the whole range, so the
// TokenKind -> SyntaxKind conversion is the identity.
type Kind uint16

// TokenKind is the set of kinds a token leaf may carry.
type TokenKind = Kind

const (
	// Operator tokens. operators.go maps each spelling to one of these.
	Plus Kind = iota
	Minus
	Star        // *
	DoubleStar  // **
	Slash       // /
	DoubleSlash // //
	Percent     // %
	Tilde       // ~
	Eq2         // ==
	NotEq       // !=
	Lt
	LtEq
	Gt
	GtEq
	Assign // =
	Dot
	Colon
	Pipe
	Comma
	Semicolon
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	// Terminal lexemes.
	Whitespace
	Name
	IntegerLiteral
	FloatLiteral
	StringLiteral
	Operator // transient kind, rewritten at emission time

	// Context delimiters and bulk kinds.
	BlockBegin
	BlockEnd
	VariableBegin
	VariableEnd
	CommentBegin
	CommentEnd
	RawBegin
	RawEnd
	Data
	CommentData
	Error

	// tokenKindBoundary marks the end of TokenKind's range; everything
	// from here on is a SyntaxKind-only inner node kind.
	tokenKindBoundary

	Template

	StmtFor
	StmtIf
	StmtAssign
	StmtAssignBlock
	StmtCallBlock
	StmtFilterBlock
	StmtDo
	StmtMacro
	StmtMaterialization
	StmtTest
	StmtDocs
	StmtSnapshot
	StmtRaw
	StmtUnknown

	ForStart
	ForElse
	ForEnd
	IfStart
	IfElif
	IfElse
	IfEnd
	AssignBlockStart
	AssignBlockEnd
	CallBlockStart
	CallBlockEnd
	FilterBlockStart
	FilterBlockEnd
	MacroBlockStart
	MacroBlockEnd
	MaterializationBlockStart
	MaterializationBlockEnd
	MaterializationDefault
	MaterializationAdapter
	TestBlockStart
	TestBlockEnd
	DocsBlockStart
	DocsBlockEnd
	SnapshotBlockStart
	SnapshotBlockEnd

	ExprData
	ExprName
	ExprConstantBool
	ExprConstantNone
	ExprConstantString
	ExprList
	ExprDict
	ExprTuple
	ExprWrapped
	ExprGetAttr
	ExprGetItem
	ExprSlice
	ExprCall
	ExprFilter
	ExprFilterName
	ExprTest
	ExprNegative
	ExprPositive
	ExprPower
	ExprMultiply
	ExprDivide
	ExprFloorDivide
	ExprModulo
	ExprAdd
	ExprSubtract
	ExprConcat
	ExprCompare
	ExprAnd
	ExprOr
	ExprNot
	ExprTernary
	ExprNamespaceRef
	ExprNestedName

	Variable
	Comment
	Pair
	Subscript
	Signature
	SignatureArg
	SignatureDefaultArg
	CallArguments
	CallStaticArg
	CallStaticKwarg
	CallDynamicArgs
	CallDynamicKwargs
	TestArguments
	Operand

	NameOperatorIn
	NameOperatorNotIn
	NameOperatorNot
	NameOperatorAnd
	NameOperatorOr
	NameOperatorIf
	NameOperatorElse
)

// IsToken reports whether k is one a tokenizer may produce as a leaf,
// as opposed to an inner-node-only SyntaxKind.
func (k Kind) IsToken() bool { return k < tokenKindBoundary }

var kindNames = map[Kind]string{
	Plus: "Plus", Minus: "Minus", Star: "Star", DoubleStar: "DoubleStar",
	Slash: "Slash", DoubleSlash: "DoubleSlash", Percent: "Percent", Tilde: "Tilde",
	Eq2: "Eq2", NotEq: "NotEq", Lt: "Lt", LtEq: "LtEq", Gt: "Gt", GtEq: "GtEq",
	Assign: "Assign", Dot: "Dot", Colon: "Colon", Pipe: "Pipe", Comma: "Comma",
	Semicolon: "Semicolon", LParen: "LParen", RParen: "RParen", LBracket: "LBracket",
	RBracket: "RBracket", LBrace: "LBrace", RBrace: "RBrace",
	Whitespace: "Whitespace", Name: "Name", IntegerLiteral: "IntegerLiteral",
	FloatLiteral: "FloatLiteral", StringLiteral: "StringLiteral", Operator: "Operator",
	BlockBegin: "BlockBegin", BlockEnd: "BlockEnd", VariableBegin: "VariableBegin",
	VariableEnd: "VariableEnd", CommentBegin: "CommentBegin", CommentEnd: "CommentEnd",
	RawBegin: "RawBegin", RawEnd: "RawEnd", Data: "Data", CommentData: "CommentData",
	Error: "Error",
	Template: "Template",
	StmtFor: "StmtFor", StmtIf: "StmtIf", StmtAssign: "StmtAssign",
	StmtAssignBlock: "StmtAssignBlock", StmtCallBlock: "StmtCallBlock",
	StmtFilterBlock: "StmtFilterBlock", StmtDo: "StmtDo", StmtMacro: "StmtMacro",
	StmtMaterialization: "StmtMaterialization", StmtTest: "StmtTest",
	StmtDocs: "StmtDocs", StmtSnapshot: "StmtSnapshot", StmtRaw: "StmtRaw",
	StmtUnknown: "StmtUnknown",
	ForStart: "ForStart", ForElse: "ForElse", ForEnd: "ForEnd",
	IfStart: "IfStart", IfElif: "IfElif", IfElse: "IfElse", IfEnd: "IfEnd",
	AssignBlockStart: "AssignBlockStart", AssignBlockEnd: "AssignBlockEnd",
	CallBlockStart: "CallBlockStart", CallBlockEnd: "CallBlockEnd",
	FilterBlockStart: "FilterBlockStart", FilterBlockEnd: "FilterBlockEnd",
	MacroBlockStart: "MacroBlockStart", MacroBlockEnd: "MacroBlockEnd",
	MaterializationBlockStart: "MaterializationBlockStart",
	MaterializationBlockEnd:   "MaterializationBlockEnd",
	MaterializationDefault:    "MaterializationDefault",
	MaterializationAdapter:    "MaterializationAdapter",
	TestBlockStart: "TestBlockStart", TestBlockEnd: "TestBlockEnd",
	DocsBlockStart: "DocsBlockStart", DocsBlockEnd: "DocsBlockEnd",
	SnapshotBlockStart: "SnapshotBlockStart", SnapshotBlockEnd: "SnapshotBlockEnd",
	ExprData: "ExprData", ExprName: "ExprName", ExprConstantBool: "ExprConstantBool",
	ExprConstantNone: "ExprConstantNone", ExprConstantString: "ExprConstantString",
	ExprList: "ExprList", ExprDict: "ExprDict", ExprTuple: "ExprTuple",
	ExprWrapped: "ExprWrapped", ExprGetAttr: "ExprGetAttr", ExprGetItem: "ExprGetItem",
	ExprSlice: "ExprSlice", ExprCall: "ExprCall", ExprFilter: "ExprFilter",
	ExprFilterName: "ExprFilterName", ExprTest: "ExprTest", ExprNegative: "ExprNegative",
	ExprPositive: "ExprPositive", ExprPower: "ExprPower", ExprMultiply: "ExprMultiply",
	ExprDivide: "ExprDivide", ExprFloorDivide: "ExprFloorDivide", ExprModulo: "ExprModulo",
	ExprAdd: "ExprAdd", ExprSubtract: "ExprSubtract", ExprConcat: "ExprConcat",
	ExprCompare: "ExprCompare", ExprAnd: "ExprAnd", ExprOr: "ExprOr", ExprNot: "ExprNot",
	ExprTernary: "ExprTernary", ExprNamespaceRef: "ExprNamespaceRef",
	ExprNestedName: "ExprNestedName",
	Variable: "Variable", Comment: "Comment", Pair: "Pair", Subscript: "Subscript",
	Signature: "Signature", SignatureArg: "SignatureArg",
	SignatureDefaultArg: "SignatureDefaultArg", CallArguments: "CallArguments",
	CallStaticArg: "CallStaticArg", CallStaticKwarg: "CallStaticKwarg",
	CallDynamicArgs: "CallDynamicArgs", CallDynamicKwargs: "CallDynamicKwargs",
	TestArguments: "TestArguments", Operand: "Operand",
	NameOperatorIn: "NameOperatorIn", NameOperatorNotIn: "NameOperatorNotIn",
	NameOperatorNot: "NameOperatorNot", NameOperatorAnd: "NameOperatorAnd",
	NameOperatorOr: "NameOperatorOr", NameOperatorIf: "NameOperatorIf",
	NameOperatorElse: "NameOperatorElse",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Invalid"
}
