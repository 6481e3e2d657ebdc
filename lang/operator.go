package lang

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Handler is the capability shared by operators and functions: invoke with
// an argument slice and return a value.
type Handler interface {
	Invoke(args []Object) (Object, error)
}

// HandlerFunc adapts an ordinary function to a [Handler].
type HandlerFunc func(args []Object) (Object, error)

// Invoke calls f(args).
func (f HandlerFunc) Invoke(args []Object) (Object, error) { return f(args) }

// Operator is an immutable, registered operator. Construct one with
// [NewOperator].
type Operator struct {
	handler    Handler
	symbol     string
	precedence int64
	arity      int
}

// Symbol returns the source text of the operator.
func (o Operator) Symbol() string { return o.symbol }

// Precedence returns the binding strength. Lower values bind looser.
func (o Operator) Precedence() int64 { return o.precedence }

// Arity returns the number of operands: 1 for prefix, 2 for infix.
func (o Operator) Arity() int { return o.arity }

// Handler returns the operator's handler.
func (o Operator) Handler() Handler { return o.handler }

// Invoke applies the operator to args.
func (o Operator) Invoke(args []Object) (Object, error) {
	return o.handler.Invoke(args)
}

// String returns a description of o.
func (o Operator) String() string {
	return o.symbol + " (precedence " + strconv.FormatInt(o.precedence, 10) +
		", arity " + strconv.Itoa(o.arity) + ")"
}

// OperatorBuilder configures an [Operator].
type OperatorBuilder struct {
	handler    Handler
	symbol     string
	precedence int64
	arity      int
}

// DefaultPrecedence is the precedence of an operator built without one.
// It binds tighter than every default operator.
const DefaultPrecedence int64 = math.MaxInt64

// DefaultArity is the arity of an operator built without one.
const DefaultArity = 2

// NewOperator returns a builder with [DefaultPrecedence] and
// [DefaultArity].
func NewOperator() *OperatorBuilder {
	return &OperatorBuilder{
		precedence: DefaultPrecedence,
		arity:      DefaultArity,
	}
}

// Symbol sets the operator's source text.
func (b *OperatorBuilder) Symbol(symbol string) *OperatorBuilder {
	b.symbol = symbol

	return b
}

// Precedence sets the operator's binding strength.
func (b *OperatorBuilder) Precedence(precedence int64) *OperatorBuilder {
	b.precedence = precedence

	return b
}

// Arity sets the operand count. The grammar applies arity 1 as prefix and
// arity 2 as infix; an operator of any other arity can be registered but
// never appears in a parsed formula.
func (b *OperatorBuilder) Arity(arity int) *OperatorBuilder {
	b.arity = arity

	return b
}

// Handler sets the operator's handler.
func (b *OperatorBuilder) Handler(h Handler) *OperatorBuilder {
	b.handler = h

	return b
}

// HandlerFunc sets the operator's handler to f.
func (b *OperatorBuilder) HandlerFunc(
	f func(args []Object) (Object, error),
) *OperatorBuilder {
	return b.Handler(HandlerFunc(f))
}

// Build returns the configured operator.
//
// Build panics if the symbol or handler was not set. This is a
// programming error in the embedding application.
func (b *OperatorBuilder) Build() Operator {
	if b.symbol == "" || b.handler == nil {
		panic("lang: operator builder requires both symbol and handler")
	}

	return Operator{
		handler:    b.handler,
		symbol:     b.symbol,
		precedence: b.precedence,
		arity:      b.arity,
	}
}

// Rank is one level of the precedence table the parser climbs. Operators
// sharing a precedence value share a rank.
type Rank struct {
	Prefix     []string // arity 1, longest first
	Infix      []string // arity 2, longest first
	Precedence int64
}

// rankTable collects operators into ranks of ascending precedence.
// Operators with no prefix or infix form are left out.
func rankTable(ops map[string]Operator) []Rank {
	byPrec := make(map[int64]*Rank)

	for _, op := range ops {
		if op.arity != 1 && op.arity != 2 {
			continue
		}

		r, ok := byPrec[op.precedence]
		if !ok {
			r = &Rank{Precedence: op.precedence}
			byPrec[op.precedence] = r
		}

		if op.arity == 1 {
			r.Prefix = append(r.Prefix, op.symbol)
		} else {
			r.Infix = append(r.Infix, op.symbol)
		}
	}

	ranks := make([]Rank, 0, len(byPrec))

	for _, p := range slices.Sorted(maps.Keys(byPrec)) {
		r := byPrec[p]
		slices.SortFunc(r.Prefix, longestFirst)
		slices.SortFunc(r.Infix, longestFirst)
		ranks = append(ranks, *r)
	}

	return ranks
}

func longestFirst(a, b string) int {
	if c := cmp.Compare(len(b), len(a)); c != 0 {
		return c
	}

	return strings.Compare(a, b)
}

// fingerprint encodes a rank table as text, so that two tables producing
// the same parse trees have equal fingerprints.
func fingerprint(ranks []Rank) string {
	var sb strings.Builder

	for _, r := range ranks {
		sb.WriteString(strings.Join(r.Prefix, "\x00"))
		sb.WriteByte('\x01')
		sb.WriteString(strings.Join(r.Infix, "\x00"))
		sb.WriteByte('\x02')
	}

	return sb.String()
}
