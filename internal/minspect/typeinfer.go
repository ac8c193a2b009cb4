package minspect

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// TypeKind is the closed structural-type family (§4.6).
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeAnyNonNull
	TypeBinary
	TypeDate
	TypeDateTime
	TypeDateTimeZone
	TypeDuration
	TypeFunction
	TypeList
	TypeLogical
	TypeNull
	TypeNumber
	TypeRecord
	TypeTable
	TypeText
	TypeTime
	TypeType
	TypeAction
	TypeNone
	TypeUnknown
)

var primitiveTypeKindByName = map[string]TypeKind{
	"any": TypeAny, "anynonnull": TypeAnyNonNull, "binary": TypeBinary,
	"date": TypeDate, "datetime": TypeDateTime, "datetimezone": TypeDateTimeZone,
	"duration": TypeDuration, "function": TypeFunction, "list": TypeList,
	"logical": TypeLogical, "null": TypeNull, "number": TypeNumber,
	"record": TypeRecord, "table": TypeTable, "text": TypeText,
	"time": TypeTime, "type": TypeType, "action": TypeAction, "none": TypeNone,
}

// RecordShape describes a record or table type's known fields (§4.6).
type RecordShape struct {
	Fields map[string]InferredType
	IsOpen bool
}

// FunctionShape describes a function type's parameters and return type.
type FunctionShape struct {
	Parameters []InferredType
	Return     InferredType
}

// ListShape describes a list type's element type.
type ListShape struct {
	Element InferredType
}

// InferredType is the result the type inspector attaches to a XOR node
// (§4.6): a TypeKind, nullability, and an optional richer shape.
type InferredType struct {
	Kind       TypeKind
	IsNullable bool
	Record     *RecordShape
	Function   *FunctionShape
	List       *ListShape
}

func unknown() InferredType { return InferredType{Kind: TypeUnknown} }

// TypeCache is the memoization state the type inspector threads across
// calls: GivenTypeById persists across separate inspection requests (a
// caller may pre-seed known types), deltaTypeById is populated within one
// top-level InferType call and discarded after (§4.6 "bottom-up with
// memoization"); the types it collected are merged into GivenTypeById
// before it is discarded.
//
// Both maps belong to this cache alone: GivenTypeById is read first-hand
// as the seed map, and deltaTypeById is each top-level call's own scratch
// map.
type TypeCache struct {
	GivenTypeById map[marena.NodeId]InferredType
	deltaTypeById map[marena.NodeId]InferredType
}

// NewTypeCache returns a TypeCache with no pre-seeded types.
func NewTypeCache() *TypeCache {
	return &TypeCache{GivenTypeById: make(map[marena.NodeId]InferredType)}
}

// InferType derives the structural type of the XOR node at id, memoizing
// into cache. Never fails: unresolvable subtrees yield TypeUnknown (§4.6).
func InferType(arena *marena.Arena, snap *mlex.Snapshot, id marena.NodeId, cache *TypeCache) InferredType {
	cache.deltaTypeById = make(map[marena.NodeId]InferredType)
	t := inferTypeMemo(arena, snap, id, cache)
	if cache.GivenTypeById == nil {
		cache.GivenTypeById = make(map[marena.NodeId]InferredType)
	}
	for k, v := range cache.deltaTypeById {
		cache.GivenTypeById[k] = v
	}
	cache.deltaTypeById = nil
	return t
}

func inferTypeMemo(arena *marena.Arena, snap *mlex.Snapshot, id marena.NodeId, cache *TypeCache) InferredType {
	if t, ok := cache.deltaTypeById[id]; ok {
		return t
	}
	if t, ok := cache.GivenTypeById[id]; ok {
		return t
	}

	x, ok := arena.MaybeXor(id)
	if !ok {
		return unknown()
	}
	t := inferByKind(arena, snap, x, cache)
	cache.deltaTypeById[id] = t
	return t
}

func inferXor(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	return inferTypeMemo(arena, snap, x.Id, cache)
}

func child(arena *marena.Arena, x marena.XorNode, idx int) (marena.XorNode, bool) {
	return arena.MaybeChildXorByAttributeIndex(x, idx)
}

func inferByKind(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	switch x.Kind {
	case marena.LiteralExpression:
		return literalType(arena, x)

	case marena.IdentifierExpression, marena.Identifier, marena.GeneralizedIdentifier:
		return unknown()

	case marena.NotImplementedExpression:
		return InferredType{Kind: TypeNone}

	case marena.MetadataExpression:
		// readMetadataExpression's wrapper shape: [left(0), 'meta' Constant(1), right(2)].
		if c, ok := child(arena, x, 0); ok {
			return inferXor(arena, snap, c, cache)
		}
		return unknown()

	case marena.ParenthesizedExpression, marena.UnaryExpression:
		// Both wrap a single leading Constant ('(' or the prefix operator)
		// before the expression they pass through.
		if c, ok := child(arena, x, 1); ok {
			return inferXor(arena, snap, c, cache)
		}
		return unknown()

	case marena.RecursivePrimaryExpression:
		return inferRecursivePrimary(arena, snap, x, cache)

	case marena.ListExpression:
		return inferListExpression(arena, snap, x, cache)

	case marena.RecordExpression:
		return inferRecordExpression(arena, snap, x, cache)

	case marena.FunctionExpression:
		return inferFunctionExpression(arena, snap, x, cache)

	case marena.EachExpression:
		// readEachExpression: ['each' Constant(0), body(1)].
		if body, ok := child(arena, x, 1); ok {
			return InferredType{Kind: TypeFunction, Function: &FunctionShape{
				Parameters: []InferredType{unknown()},
				Return:     inferXor(arena, snap, body, cache),
			}}
		}
		return InferredType{Kind: TypeFunction}

	case marena.IfExpression:
		return inferIfExpression(arena, snap, x, cache)

	case marena.TryExpression:
		return inferTryExpression(arena, snap, x, cache)

	case marena.OtherwiseExpression:
		// readOtherwiseExpression: ['otherwise' Constant(0), body(1)].
		if c, ok := child(arena, x, 1); ok {
			return inferXor(arena, snap, c, cache)
		}
		return unknown()

	case marena.ErrorRaisingExpression:
		return unknown()

	case marena.LogicalExpression, marena.EqualityExpression, marena.RelationalExpression, marena.IsExpression:
		return InferredType{Kind: TypeLogical}

	case marena.ArithmeticExpression:
		return inferArithmetic(arena, snap, x, cache)

	case marena.AsExpression:
		if rhs, ok := child(arena, x, 2); ok {
			return inferXor(arena, snap, rhs, cache)
		}
		return unknown()

	case marena.LetExpression:
		if idx := len(childIdsOfXor(arena, x)); idx > 0 {
			if body, ok := child(arena, x, idx-1); ok {
				return inferXor(arena, snap, body, cache)
			}
		}
		return unknown()

	case marena.TypePrimaryType:
		// readTypeExpression: `type` primitive-type|record-type|... — the
		// expression's own value is a type value, regardless of which type
		// it names (§4.6: `type number` has M-type `type`, not `number`).
		return InferredType{Kind: TypeType}

	case marena.PrimitiveType, marena.NullablePrimitiveType,
		marena.RecordType, marena.TableType, marena.FunctionType, marena.ListType:
		// Reached as a parameter/return-type annotation or an `is`/`as`
		// right-hand side, where the node describes the type being
		// declared or asserted, not a `type ...` value expression.
		return declaredTypeOf(arena, x)
	}
	return unknown()
}

// declaredTypeOf resolves a type-annotation node (as opposed to a `type
// ...` value expression, see TypePrimaryType above) to the TypeKind it
// names, per §4.6's primitive-name table.
func declaredTypeOf(arena *marena.Arena, x marena.XorNode) InferredType {
	switch x.Kind {
	case marena.NullablePrimitiveType:
		nullable := false
		var primitive marena.XorNode
		hasPrimitive := false
		for _, id := range childIdsOfXor(arena, x) {
			c, ok := arena.MaybeXor(id)
			if !ok {
				continue
			}
			if c.Kind == marena.Constant {
				nullable = true
				continue
			}
			primitive, hasPrimitive = c, true
		}
		if !hasPrimitive {
			return unknown()
		}
		t := declaredTypeOf(arena, primitive)
		t.IsNullable = t.IsNullable || nullable
		return t

	case marena.PrimitiveType:
		leaf, ok := arena.MaybeChildXorByAttributeIndex(x, 0)
		if !ok {
			return unknown()
		}
		ast, ok := leaf.AsAst()
		if !ok || ast.Token == nil {
			return unknown()
		}
		if kind, ok := primitiveTypeKindByName[ast.Token.Data]; ok {
			return InferredType{Kind: kind}
		}
		return unknown()

	case marena.RecordType:
		return InferredType{Kind: TypeRecord}
	case marena.TableType:
		return InferredType{Kind: TypeTable}
	case marena.FunctionType:
		return InferredType{Kind: TypeFunction}
	case marena.ListType:
		return InferredType{Kind: TypeList}
	}
	return unknown()
}

// literalType reads the Constant leaf readLiteralExpression wraps to
// determine which literal kind it covers.
func literalType(arena *marena.Arena, x marena.XorNode) InferredType {
	leaf, ok := arena.MaybeChildXorByAttributeIndex(x, 0)
	if !ok {
		return unknown()
	}
	ast, ok := leaf.AsAst()
	if !ok || ast.Token == nil {
		return unknown()
	}
	switch ast.Token.Kind {
	case mlex.Numeric:
		return InferredType{Kind: TypeNumber}
	case mlex.TextLiteral:
		return InferredType{Kind: TypeText}
	case mlex.KeywordTrue, mlex.KeywordFalse:
		return InferredType{Kind: TypeLogical}
	case mlex.KeywordHashInfinity, mlex.KeywordHashNan:
		return InferredType{Kind: TypeNumber}
	}
	return unknown()
}

func inferRecursivePrimary(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	ids := childIdsOfXor(arena, x)
	if len(ids) == 0 {
		return unknown()
	}
	head, ok := child(arena, x, 0)
	if !ok {
		return unknown()
	}
	t := inferXor(arena, snap, head, cache)
	for i := 1; i < len(ids); i++ {
		suffix, ok := arena.MaybeXor(ids[i])
		if !ok {
			t = unknown()
			continue
		}
		switch suffix.Kind {
		case marena.InvokeExpression:
			if t.Kind == TypeFunction && t.Function != nil {
				t = t.Function.Return
			} else {
				t = unknown()
			}
		case marena.ItemAccessExpression:
			if t.Kind == TypeList && t.List != nil {
				t = t.List.Element
			} else {
				t = unknown()
			}
		case marena.FieldSelector:
			t = inferFieldSelector(arena, snap, t, suffix)
		case marena.FieldProjection:
			t = unknown()
		}
	}
	return t
}

func inferFieldSelector(arena *marena.Arena, snap *mlex.Snapshot, recordType InferredType, selector marena.XorNode) InferredType {
	if recordType.Kind != TypeRecord || recordType.Record == nil {
		return unknown()
	}
	// readFieldSelector: ['[' Constant(0), key(1), ']' Constant(2), optional '?'(3)].
	key, ok := child(arena, selector, 1)
	if !ok {
		return unknown()
	}
	name, ok := generalizedIdentifierText(snap, key)
	if !ok {
		return unknown()
	}
	if t, ok := recordType.Record.Fields[name]; ok {
		return t
	}
	return unknown()
}

func inferListExpression(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	element := unknown()
	if wrapper, ok := firstChildOfKind(arena, x, marena.ArrayWrapper); ok {
		content, ok := arena.MaybeArrayWrapperContent(wrapper)
		if !ok {
			content = wrapper
		}
		items := childIdsOfXor(arena, content)
		if len(items) > 0 {
			if first, ok := arena.MaybeXor(items[0]); ok {
				if item, ok := child(arena, first, 0); ok {
					element = inferXor(arena, snap, item, cache)
				}
			}
		}
	}
	return InferredType{Kind: TypeList, List: &ListShape{Element: element}}
}

func inferRecordExpression(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	fields := make(map[string]InferredType)
	if wrapper, ok := firstChildOfKind(arena, x, marena.ArrayWrapper); ok {
		content, ok := arena.MaybeArrayWrapperContent(wrapper)
		if !ok {
			content = wrapper
		}
		for _, csvId := range childIdsOfXor(arena, content) {
			csv, ok := arena.MaybeXor(csvId)
			if !ok {
				continue
			}
			pair, ok := child(arena, csv, 0)
			if !ok {
				continue
			}
			key, ok := child(arena, pair, 0)
			if !ok {
				continue
			}
			name, ok := generalizedIdentifierText(snap, key)
			if !ok {
				continue
			}
			value, ok := child(arena, pair, 2)
			if !ok {
				fields[name] = unknown()
				continue
			}
			fields[name] = inferXor(arena, snap, value, cache)
		}
	}
	return InferredType{Kind: TypeRecord, Record: &RecordShape{Fields: fields}}
}

func inferFunctionExpression(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	var params []InferredType
	if paramList, ok := child(arena, x, 0); ok {
		if wrapper, ok := firstChildOfKind(arena, paramList, marena.ArrayWrapper); ok {
			content, ok := arena.MaybeArrayWrapperContent(wrapper)
			if !ok {
				content = wrapper
			}
			for _, csvId := range childIdsOfXor(arena, content) {
				csv, ok := arena.MaybeXor(csvId)
				if !ok {
					continue
				}
				param, ok := child(arena, csv, 0)
				if !ok {
					continue
				}
				params = append(params, inferParameter(arena, snap, param, cache))
			}
		}
	}

	ids := childIdsOfXor(arena, x)
	ret := unknown()
	if len(ids) > 0 {
		if last, ok := arena.MaybeXor(ids[len(ids)-1]); ok {
			ret = inferXor(arena, snap, last, cache)
		}
	}
	return InferredType{Kind: TypeFunction, Function: &FunctionShape{Parameters: params, Return: ret}}
}

// inferParameter computes a Parameter node's declared type: nullable if
// either the syntactic `optional` marker or the declared type itself is
// nullable (§4.6 "Parameter nullability").
func inferParameter(arena *marena.Arena, snap *mlex.Snapshot, param marena.XorNode, cache *TypeCache) InferredType {
	isOptional := false
	var declared InferredType
	hasDeclared := false

	for _, childId := range childIdsOfXor(arena, param) {
		c, ok := arena.MaybeXor(childId)
		if !ok {
			continue
		}
		switch c.Kind {
		case marena.Constant:
			if ast, ok := c.AsAst(); ok && ast.Token != nil && ast.Token.Data == "optional" {
				isOptional = true
			}
		case marena.NullablePrimitiveType:
			declared, hasDeclared = inferXor(arena, snap, c, cache), true
		}
	}

	if !hasDeclared {
		return InferredType{Kind: TypeAny, IsNullable: isOptional}
	}
	declared.IsNullable = declared.IsNullable || isOptional
	return declared
}

// inferIfExpression reads readIfExpression's shape: ['if'(0), condition(1),
// 'then'(2), thenBranch(3), 'else'(4), elseBranch(5)].
func inferIfExpression(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	thenBranch, hasThen := child(arena, x, 3)
	elseBranch, hasElse := child(arena, x, 5)
	if !hasThen || !hasElse {
		return unknown()
	}
	a := inferXor(arena, snap, thenBranch, cache)
	b := inferXor(arena, snap, elseBranch, cache)
	if a.Kind == b.Kind {
		a.IsNullable = a.IsNullable || b.IsNullable
		return a
	}
	return InferredType{Kind: TypeAny, IsNullable: true}
}

// inferTryExpression reads readTryExpression's shape: ['try'(0), body(1),
// optional OtherwiseExpression(2)]. The result unions the body's type with
// the otherwise-branch's type when present, and is always nullable (a try
// can itself produce an error record in place of body's value).
func inferTryExpression(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	body, ok := child(arena, x, 1)
	if !ok {
		return unknown()
	}
	t := inferXor(arena, snap, body, cache)
	t.IsNullable = true
	if otherwise, ok := firstChildOfKind(arena, x, marena.OtherwiseExpression); ok {
		alt := inferXor(arena, snap, otherwise, cache)
		if alt.Kind != t.Kind {
			t = InferredType{Kind: TypeAny, IsNullable: true}
		}
	}
	return t
}

func inferArithmetic(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, cache *TypeCache) InferredType {
	ast, ok := x.AsAst()
	if ok && len(ast.ChildIds) == 3 {
		if op, ok := arena.MaybeXor(ast.ChildIds[1]); ok {
			if opAst, ok := op.AsAst(); ok && opAst.Token != nil && opAst.Token.Kind == mlex.Ampersand {
				return InferredType{Kind: TypeText}
			}
		}
	}
	return InferredType{Kind: TypeNumber}
}
