package lang

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"
)

// Default operator precedences. Lower values bind looser.
const (
	PrecedenceEquality       int64 = 1
	PrecedenceLogical        int64 = 3
	PrecedenceComparison     int64 = 5
	PrecedenceAdditive       int64 = 10
	PrecedenceMultiplicative int64 = 15
	PrecedencePower          int64 = 20
)

// DefaultOperators returns a fresh copy of the default operator set.
func DefaultOperators() []Operator {
	binary := func(sym string, prec int64, f func(args []Object) (Object, error)) Operator {
		return NewOperator().Symbol(sym).Precedence(prec).HandlerFunc(f).Build()
	}

	return []Operator{
		binary("==", PrecedenceEquality, Eq),
		binary("!=", PrecedenceEquality, Ne),
		binary("&&", PrecedenceLogical, And),
		binary("||", PrecedenceLogical, Or),
		NewOperator().Symbol("!").Precedence(PrecedenceLogical).Arity(1).
			HandlerFunc(Not).Build(),
		binary(">", PrecedenceComparison, Gt),
		binary("<", PrecedenceComparison, Lt),
		binary("+", PrecedenceAdditive, Add),
		binary("-", PrecedenceAdditive, Sub),
		binary("*", PrecedenceMultiplicative, Mul),
		binary("/", PrecedenceMultiplicative, Div),
		binary("%", PrecedenceMultiplicative, Mod),
		binary("^", PrecedencePower, Pow),
	}
}

// fold reduces args pairwise from the left with f.
func fold(sym string, args []Object, f func(a, b Object) (Object, error)) (Object, error) {
	if len(args) == 0 {
		return nil, InsufficientOperands(sym)
	}

	acc := orNothing(args[0])

	for _, arg := range args[1:] {
		var err error

		acc, err = f(acc, orNothing(arg))
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func invalidOperands(sym string, a, b Object) *Error {
	return OperationNotValidForType(
		"'" + sym + "' on " + typeOf(a).String() + " and " + typeOf(b).String(),
	).With(
		slog.String("symbol", sym),
		slog.String("left", typeOf(a).String()),
		slog.String("right", typeOf(b).String()),
	)
}

func numeric(sym string, args []Object, f func(x, y float64) float64) (Object, error) {
	return fold(sym, args, func(a, b Object) (Object, error) {
		x, ok := a.(Number)
		y, ok2 := b.(Number)

		if !ok || !ok2 {
			return nil, invalidOperands(sym, a, b)
		}

		return Number(f(float64(x), float64(y))), nil
	})
}

// Add implements '+': numeric sum, string concatenation, list
// concatenation, element append or prepend to a list, and right-biased
// union of associative arrays.
func Add(args []Object) (Object, error) {
	return fold("+", args, func(a, b Object) (Object, error) {
		switch x := a.(type) {
		case Number:
			if y, ok := b.(Number); ok {
				return x + y, nil
			}

		case String:
			if y, ok := b.(String); ok {
				return x + y, nil
			}

		case List:
			if y, ok := b.(List); ok {
				return slices.Concat(x, y), nil
			}

			return append(slices.Clip(x), b), nil

		case AssociativeArray:
			if y, ok := b.(AssociativeArray); ok {
				u := maps.Clone(x)
				if u == nil {
					u = AssociativeArray{}
				}

				maps.Copy(u, y)

				return u, nil
			}
		}

		if y, ok := b.(List); ok {
			return append(List{a}, y...), nil
		}

		return nil, invalidOperands("+", a, b)
	})
}

// Sub implements '-' on numbers.
func Sub(args []Object) (Object, error) {
	return numeric("-", args, func(x, y float64) float64 { return x - y })
}

// Mul implements '*' on numbers.
func Mul(args []Object) (Object, error) {
	return numeric("*", args, func(x, y float64) float64 { return x * y })
}

// Div implements '/' on numbers.
func Div(args []Object) (Object, error) {
	return numeric("/", args, func(x, y float64) float64 { return x / y })
}

// Mod implements '%' on numbers.
func Mod(args []Object) (Object, error) {
	return numeric("%", args, math.Mod)
}

// Pow implements '^' on numbers.
func Pow(args []Object) (Object, error) {
	return numeric("^", args, math.Pow)
}

// Eq implements '==' as structural equality.
func Eq(args []Object) (Object, error) {
	return fold("==", args, func(a, b Object) (Object, error) {
		return Boolean(Equal(a, b)), nil
	})
}

// Ne implements '!=' as the negation of [Eq].
func Ne(args []Object) (Object, error) {
	return fold("!=", args, func(a, b Object) (Object, error) {
		return Boolean(!Equal(a, b)), nil
	})
}

func ordered(sym string, args []Object, less func(c int) bool) (Object, error) {
	return fold(sym, args, func(a, b Object) (Object, error) {
		switch x := a.(type) {
		case Number:
			if y, ok := b.(Number); ok {
				return Boolean(less(cmpFloat(float64(x), float64(y)))), nil
			}

		case String:
			if y, ok := b.(String); ok {
				return Boolean(less(strings.Compare(string(x), string(y)))), nil
			}
		}

		return nil, invalidOperands(sym, a, b)
	})
}

// Gt implements '>' on numbers or strings.
func Gt(args []Object) (Object, error) {
	return ordered(">", args, func(c int) bool { return c > 0 })
}

// Lt implements '<' on numbers or strings.
func Lt(args []Object) (Object, error) {
	return ordered("<", args, func(c int) bool { return c < 0 })
}

func logical(sym string, args []Object, f func(x, y bool) bool) (Object, error) {
	return fold(sym, args, func(a, b Object) (Object, error) {
		x, ok := a.(Boolean)
		y, ok2 := b.(Boolean)

		if !ok || !ok2 {
			return nil, invalidOperands(sym, a, b)
		}

		return Boolean(f(bool(x), bool(y))), nil
	})
}

// And implements '&&' on booleans. Both operands are always evaluated.
func And(args []Object) (Object, error) {
	return logical("&&", args, func(x, y bool) bool { return x && y })
}

// Or implements '||' on booleans. Both operands are always evaluated.
func Or(args []Object) (Object, error) {
	return logical("||", args, func(x, y bool) bool { return x || y })
}

// Not implements prefix '!' on a boolean.
func Not(args []Object) (Object, error) {
	if len(args) == 0 {
		return nil, InsufficientOperands("!")
	}

	b, ok := args[0].(Boolean)
	if !ok {
		return nil, OperationNotValidForType(
			"'!' on " + typeOf(args[0]).String(),
		).With(slog.String("symbol", "!"))
	}

	return !b, nil
}

// cmpFloat compares like cmp.Compare except that NaN is unordered.
func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
