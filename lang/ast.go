package lang

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

// AST node kinds.
const (
	KindLiteral Kind = iota
	KindExpression
	KindCall
	KindAccess
	KindList
	KindArray
)

// String returns the name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindExpression:
		return "Expression"
	case KindCall:
		return "Call"
	case KindAccess:
		return "Access"
	case KindList:
		return "List"
	case KindArray:
		return "AssociativeArray"
	default:
		return "Unknown"
	}
}

// Value is a node of the abstract syntax tree produced by the parser.
type Value struct {
	// Exactly one of these will be set based on Kind.
	Literal    *Literal
	Expression *Expression
	Call       *Call
	Access     *Access
	List       *ListExpr
	Array      *ArrayExpr

	Kind Kind
}

// Expression applies an operator to its operands. The number of operands is
// the operator's arity.
type Expression struct {
	Operator string
	Operands []*Value
}

// Call invokes Callee with Arguments.
type Call struct {
	Callee    *Value
	Arguments []*Value
}

// Access selects Member from the value of Base: a key of an associative
// array or an index of a list.
type Access struct {
	Base   *Value
	Member Literal
}

// ListExpr is a list literal.
type ListExpr struct {
	Items []*Value
}

// ArrayExpr is an associative array literal. Items keep source order.
type ArrayExpr struct {
	Items []Pair
}

// Pair is one key = value entry of an [ArrayExpr].
type Pair struct {
	Value *Value
	Key   Key
}

// LiteralKind identifies the variant held by a [Literal].
type LiteralKind uint8

// Literal kinds.
const (
	LiteralNothing LiteralKind = iota
	LiteralBool
	LiteralNumber
	LiteralString
	LiteralName
	LiteralAddress
)

// String returns the name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNothing:
		return "Nothing"
	case LiteralBool:
		return "Bool"
	case LiteralNumber:
		return "Number"
	case LiteralString:
		return "String"
	case LiteralName:
		return "Name"
	case LiteralAddress:
		return "Address"
	default:
		return "Unknown"
	}
}

// Literal is a self-contained token of source: a constant, a name to be
// resolved against the globals, or an address to be resolved by the data
// source. Text holds the string contents, the name, or the address query.
type Literal struct {
	Text   string
	Number float64
	Kind   LiteralKind
	Bool   bool
}

// Address returns the address form of l, if l is an address literal.
func (l Literal) Address() (Address, bool) {
	if l.Kind != LiteralAddress {
		return Address{}, false
	}

	return Address{Query: l.Text}, true
}

// String renders l as source text.
func (l Literal) String() string { return l.text('"') }

// text renders l with strings delimited by q.
func (l Literal) text(q rune) string {
	switch l.Kind {
	case LiteralNothing:
		return "nothing"
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	case LiteralNumber:
		return sourceNumber(l.Number)
	case LiteralString:
		return quote(l.Text, q)
	case LiteralName:
		return l.Text
	case LiteralAddress:
		return "{" + l.Text + "}"
	default:
		return ""
	}
}

// KeyKind identifies how an associative array key was written.
type KeyKind uint8

// Key kinds.
const (
	KeyName KeyKind = iota
	KeyString
)

// Key is an associative array literal key. Both kinds evaluate to Text.
type Key struct {
	Text string
	Kind KeyKind
}

// String renders k as source text.
func (k Key) String() string { return k.text('"') }

func (k Key) text(q rune) string {
	if k.Kind == KeyString {
		return quote(k.Text, q)
	}

	return k.Text
}

// Address is an external lookup key written {query}. The query is handed
// to the [DataSource] verbatim.
type Address struct {
	Query string
}

// String renders a as source text.
func (a Address) String() string { return "{" + a.Query + "}" }

// String renders v as source text with strings delimited by '"'. Nested
// expressions are parenthesized so the result parses back to the same tree
// under any precedence table and any quote set containing '"'.
func (v *Value) String() string { return v.Quoted('"') }

// Quoted renders v as source text with strings delimited by quote, for
// contexts whose quote set excludes '"'.
func (v *Value) Quoted(quote rune) string {
	var sb strings.Builder

	v.write(&sb, quote)

	return sb.String()
}

// sourceNumber renders f as a number literal. Infinities are written as an
// exponent that overflows back to the same value.
func sourceNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "1e999"
	case math.IsInf(f, -1):
		return "-1e999"
	default:
		return formatNumber(f)
	}
}

func (v *Value) write(sb *strings.Builder, q rune) {
	if v == nil {
		return
	}

	switch v.Kind {
	case KindLiteral:
		sb.WriteString(v.Literal.text(q))

	case KindExpression:
		e := v.Expression
		if len(e.Operands) == 1 {
			sb.WriteString(e.Operator)
			e.Operands[0].writeOperand(sb, q)

			return
		}

		for i, operand := range e.Operands {
			if i > 0 {
				sb.WriteString(e.Operator)
			}

			operand.writeOperand(sb, q)
		}

	case KindCall:
		v.Call.Callee.writeOperand(sb, q)
		sb.WriteByte('(')

		for i, arg := range v.Call.Arguments {
			if i > 0 {
				sb.WriteByte(',')
			}

			arg.write(sb, q)
		}

		sb.WriteByte(')')

	case KindAccess:
		if b := v.Access.Base; b != nil && b.Kind == KindLiteral &&
			b.Literal.Kind == LiteralNumber {
			sb.WriteByte('(')
			b.write(sb, q)
			sb.WriteByte(')')
		} else {
			b.writeOperand(sb, q)
		}

		sb.WriteByte('.')
		writeMember(sb, v.Access.Member, q)

	case KindList:
		sb.WriteByte('[')

		for i, item := range v.List.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			item.write(sb, q)
		}

		sb.WriteByte(']')

	case KindArray:
		sb.WriteByte('[')

		for i, pair := range v.Array.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(pair.Key.text(q))
			sb.WriteByte('=')
			pair.Value.write(sb, q)
		}

		sb.WriteByte(']')
	}
}

func (v *Value) writeOperand(sb *strings.Builder, q rune) {
	if v != nil && v.Kind == KindExpression {
		sb.WriteByte('(')
		v.write(sb, q)
		sb.WriteByte(')')

		return
	}

	v.write(sb, q)
}

func writeMember(sb *strings.Builder, m Literal, q rune) {
	if m.Kind == LiteralNumber {
		if math.IsInf(m.Number, 1) {
			// Shortest digit run that overflows float64.
			sb.WriteString("1" + strings.Repeat("0", 309))
		} else {
			sb.WriteString(strconv.FormatFloat(m.Number, 'f', -1, 64))
		}

		return
	}

	sb.WriteString(m.text(q))
}
