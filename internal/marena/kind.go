// Package marena is the dual-tree node arena (components E and F): every
// node the parser produces — whether a context node still being built or a
// finished AST node — is addressed by a monotonically increasing NodeId,
// never by pointer, so that the parser's backup/restore step (§4.3) can
// roll the tree back to an earlier id with O(delta) work: everything with
// an id greater than the restore point is simply dropped from the maps.
//
// The design is grounded on the teacher's untyped/typed split in
// syntax/node.go (SyntaxNode as a closed nodeData union) and its id-free
// tree-of-pointers shape; marena keeps the same tagged-union idea but
// threads everything through an id-indexed arena instead of pointers, to
// match spec.md §4's "XOR node" backup/restore requirement.
package marena

// AstNodeKind is the closed set of finished AST productions for the M
// grammar (§3 "AST node", §9 grammar). The token-backed kinds are listed
// first: Constant and Identifier are leaves (see IsLeaf), and
// LiteralExpression wraps a single Constant leaf; the rest are inner
// productions.
type AstNodeKind uint8

const (
	// Token-backed: Constant and Identifier leaves, and LiteralExpression.
	Constant AstNodeKind = iota
	LiteralExpression
	Identifier

	// Identifiers and names.
	IdentifierExpression
	GeneralizedIdentifier
	GeneralizedIdentifierPairedExpression
	IdentifierPairedExpression
	ParameterList
	Parameter

	// Primary expressions.
	RecursivePrimaryExpression
	InvokeExpression
	ItemAccessExpression
	FieldSelector
	FieldProjection
	FieldSelectorContents

	// List / record / Csv.
	ListExpression
	RecordExpression
	Csv
	ArrayWrapper

	// Section document.
	Section
	SectionMember

	// Let / each / function / if / try / error.
	LetExpression
	EachExpression
	FunctionExpression
	IfExpression
	TryExpression
	OtherwiseExpression
	ErrorRaisingExpression
	ErrorHandlingExpression
	NotImplementedExpression

	// Binary / unary operators.
	ArithmeticExpression
	EqualityExpression
	LogicalExpression
	RelationalExpression
	AsExpression
	IsExpression
	MetadataExpression
	NullableType
	UnaryExpression

	// Type expressions.
	TypePrimaryType
	PrimitiveType
	RecordType
	TableType
	FunctionType
	ListType
	NullablePrimitiveType

	// Misc wrappers.
	ParenthesizedExpression
	RangeExpression

	// Parse error placeholder node.
	ErrorNode
)

// astNodeNames mirrors the teacher's SyntaxKind.Name() table (syntax/kind.go),
// used for diagnostics and test output.
var astNodeNames = map[AstNodeKind]string{
	Constant:                              "Constant",
	LiteralExpression:                     "LiteralExpression",
	Identifier:                            "Identifier",
	IdentifierExpression:                  "IdentifierExpression",
	GeneralizedIdentifier:                 "GeneralizedIdentifier",
	GeneralizedIdentifierPairedExpression: "GeneralizedIdentifierPairedExpression",
	IdentifierPairedExpression:            "IdentifierPairedExpression",
	ParameterList:                         "ParameterList",
	Parameter:                             "Parameter",
	RecursivePrimaryExpression:            "RecursivePrimaryExpression",
	InvokeExpression:                      "InvokeExpression",
	ItemAccessExpression:                  "ItemAccessExpression",
	FieldSelector:                         "FieldSelector",
	FieldProjection:                       "FieldProjection",
	FieldSelectorContents:                 "FieldSelectorContents",
	ListExpression:                        "ListExpression",
	RecordExpression:                      "RecordExpression",
	Csv:                                   "Csv",
	ArrayWrapper:                          "ArrayWrapper",
	Section:                               "Section",
	SectionMember:                         "SectionMember",
	LetExpression:                         "LetExpression",
	EachExpression:                        "EachExpression",
	FunctionExpression:                    "FunctionExpression",
	IfExpression:                          "IfExpression",
	TryExpression:                         "TryExpression",
	OtherwiseExpression:                   "OtherwiseExpression",
	ErrorRaisingExpression:                "ErrorRaisingExpression",
	ErrorHandlingExpression:               "ErrorHandlingExpression",
	NotImplementedExpression:              "NotImplementedExpression",
	ArithmeticExpression:                  "ArithmeticExpression",
	EqualityExpression:                    "EqualityExpression",
	LogicalExpression:                     "LogicalExpression",
	RelationalExpression:                  "RelationalExpression",
	AsExpression:                          "AsExpression",
	IsExpression:                          "IsExpression",
	MetadataExpression:                    "MetadataExpression",
	NullableType:                          "NullableType",
	UnaryExpression:                       "UnaryExpression",
	TypePrimaryType:                       "TypePrimaryType",
	PrimitiveType:                         "PrimitiveType",
	RecordType:                            "RecordType",
	TableType:                             "TableType",
	FunctionType:                          "FunctionType",
	ListType:                              "ListType",
	NullablePrimitiveType:                 "NullablePrimitiveType",
	ParenthesizedExpression:               "ParenthesizedExpression",
	RangeExpression:                       "RangeExpression",
	ErrorNode:                             "ErrorNode",
}

// Name returns a human-readable name for the kind.
func (k AstNodeKind) Name() string {
	if name, ok := astNodeNames[k]; ok {
		return name
	}
	return "UnknownAstNodeKind"
}

// IsLeaf reports whether k is backed directly by a single token rather than
// a list of children attributes.
func (k AstNodeKind) IsLeaf() bool {
	switch k {
	case Constant, Identifier:
		return true
	}
	return false
}
