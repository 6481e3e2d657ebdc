package lang

// Builder constructs AST nodes without parsing source text. It is used by
// tooling that generates formulas and by tests that compare parse trees.
//
// Example:
//
//	var b lang.Builder
//	v := b.Binary("+", b.Number(1), b.Access(b.Name("m"), b.Name("x").Literal))
//	fmt.Println(v) // 1+m.x
type Builder struct{}

// Nothing creates a nothing literal [Value].
func (Builder) Nothing() *Value {
	return literalValue(Literal{Kind: LiteralNothing})
}

// Bool creates a boolean literal [Value].
func (Builder) Bool(v bool) *Value {
	return literalValue(Literal{Kind: LiteralBool, Bool: v})
}

// Number creates a number literal [Value].
func (Builder) Number(n float64) *Value {
	return literalValue(Literal{Kind: LiteralNumber, Number: n})
}

// String creates a string literal [Value].
func (Builder) String(s string) *Value {
	return literalValue(Literal{Kind: LiteralString, Text: s})
}

// Name creates a name literal [Value].
func (Builder) Name(name string) *Value {
	return literalValue(Literal{Kind: LiteralName, Text: name})
}

// Address creates an address literal [Value] with the given query.
func (Builder) Address(query string) *Value {
	return literalValue(Literal{Kind: LiteralAddress, Text: query})
}

// Binary creates an [Expression] [Value] applying op to left and right.
func (Builder) Binary(op string, left, right *Value) *Value {
	return expressionValue(op, left, right)
}

// Unary creates an [Expression] [Value] applying op to operand.
func (Builder) Unary(op string, operand *Value) *Value {
	return expressionValue(op, operand)
}

// Call creates a [Call] [Value].
func (Builder) Call(callee *Value, args ...*Value) *Value {
	return &Value{
		Kind: KindCall,
		Call: &Call{Callee: callee, Arguments: args},
	}
}

// Access creates an [Access] [Value].
func (Builder) Access(base *Value, member *Literal) *Value {
	return accessValue(base, *member)
}

// List creates a list literal [Value].
func (Builder) List(items ...*Value) *Value {
	return &Value{Kind: KindList, List: &ListExpr{Items: items}}
}

// Array creates an associative array literal [Value].
func (Builder) Array(items ...Pair) *Value {
	return &Value{Kind: KindArray, Array: &ArrayExpr{Items: items}}
}

// Entry creates a [Pair] with a name key.
func (Builder) Entry(key string, value *Value) Pair {
	return Pair{Key: Key{Kind: KeyName, Text: key}, Value: value}
}

// QuotedEntry creates a [Pair] with a string key.
func (Builder) QuotedEntry(key string, value *Value) Pair {
	return Pair{Key: Key{Kind: KeyString, Text: key}, Value: value}
}

func literalValue(l Literal) *Value {
	return &Value{Kind: KindLiteral, Literal: &l}
}

func expressionValue(op string, operands ...*Value) *Value {
	return &Value{
		Kind:       KindExpression,
		Expression: &Expression{Operator: op, Operands: operands},
	}
}

func accessValue(base *Value, member Literal) *Value {
	return &Value{
		Kind:   KindAccess,
		Access: &Access{Base: base, Member: member},
	}
}
