package lang

import (
	"log/slog"
	"math"
)

// fn1 wraps a one-argument numeric function as a named [Function].
func fn1(name string, f func(float64) float64) *Function {
	return NamedFunction(name, HandlerFunc(func(args []Object) (Object, error) {
		if len(args) == 0 {
			return nil, InsufficientOperands(name)
		}

		x, ok := args[0].(Number)
		if !ok {
			return nil, ExpectedType("Number")
		}

		return Number(f(float64(x))), nil
	}))
}

// fn2 wraps a two-argument numeric function as a named [Function].
func fn2(name string, f func(x, y float64) float64) *Function {
	return NamedFunction(name, HandlerFunc(func(args []Object) (Object, error) {
		if len(args) < 2 {
			return nil, InsufficientOperands(name)
		}

		x, ok := args[0].(Number)
		y, ok2 := args[1].(Number)

		if !ok || !ok2 {
			return nil, ExpectedType("Number, Number")
		}

		return Number(f(float64(x), float64(y))), nil
	}))
}

// fnN wraps a numeric reduction over one or more arguments.
func fnN(name string, f func(x, y float64) float64) *Function {
	return NamedFunction(name, HandlerFunc(func(args []Object) (Object, error) {
		if len(args) == 0 {
			return nil, InsufficientOperands(name)
		}

		var acc float64

		for i, arg := range args {
			x, ok := arg.(Number)
			if !ok {
				return nil, ExpectedType("Number").
					With(slog.Int("argument", i))
			}

			if i == 0 {
				acc = float64(x)
			} else {
				acc = f(acc, float64(x))
			}
		}

		return Number(acc), nil
	}))
}

// DefaultGlobals returns a fresh copy of the default global bindings: the
// conversion and identity functions, the math library, and math constants.
func DefaultGlobals() map[string]Object {
	return map[string]Object{
		"toString": NamedFunction("toString", HandlerFunc(toStringFunc)),
		"identity": NamedFunction("identity", HandlerFunc(identityFunc)),
		"len":      NamedFunction("len", HandlerFunc(lenFunc)),
		"keys":     NamedFunction("keys", HandlerFunc(keysFunc)),

		"sin":   fn1("sin", math.Sin),
		"cos":   fn1("cos", math.Cos),
		"tan":   fn1("tan", math.Tan),
		"sinh":  fn1("sinh", math.Sinh),
		"cosh":  fn1("cosh", math.Cosh),
		"tanh":  fn1("tanh", math.Tanh),
		"asin":  fn1("asin", math.Asin),
		"acos":  fn1("acos", math.Acos),
		"atan":  fn1("atan", math.Atan),
		"asinh": fn1("asinh", math.Asinh),
		"acosh": fn1("acosh", math.Acosh),
		"atanh": fn1("atanh", math.Atanh),
		"atan2": fn2("atan2", math.Atan2),
		"sqrt":  fn1("sqrt", math.Sqrt),
		"abs":   fn1("abs", math.Abs),
		"floor": fn1("floor", math.Floor),
		"ceil":  fn1("ceil", math.Ceil),
		"round": fn1("round", math.Round),
		"exp":   fn1("exp", math.Exp),
		"ln":    fn1("ln", math.Log),
		"log10": fn1("log10", math.Log10),
		"min":   fnN("min", math.Min),
		"max":   fnN("max", math.Max),

		"PI":      Number(math.Pi),
		"π":       Number(math.Pi),
		"e":       Number(math.E),
		"E":       Number(math.E),
		"LOG2_e":  Number(math.Log2E),
		"LOG2_10": Number(math.Log2(10)),
		"LOG10_2": Number(math.Log10(2)),
	}
}

func toStringFunc(args []Object) (Object, error) {
	if len(args) != 1 {
		return nil, InsufficientOperands("toString")
	}

	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}

	return String(s), nil
}

func identityFunc(args []Object) (Object, error) {
	if len(args) == 0 {
		return nil, InsufficientOperands("identity")
	}

	return orNothing(args[0]), nil
}

func lenFunc(args []Object) (Object, error) {
	if len(args) == 0 {
		return nil, InsufficientOperands("len")
	}

	switch v := args[0].(type) {
	case String:
		return Number(len([]rune(v))), nil
	case List:
		return Number(len(v)), nil
	case AssociativeArray:
		return Number(len(v)), nil
	default:
		return nil, ExpectedType("String, List, AssociativeArray")
	}
}

func keysFunc(args []Object) (Object, error) {
	if len(args) == 0 {
		return nil, InsufficientOperands("keys")
	}

	a, ok := args[0].(AssociativeArray)
	if !ok {
		return nil, ExpectedType("AssociativeArray")
	}

	keys := a.Keys()
	out := make(List, len(keys))

	for i, k := range keys {
		out[i] = String(k)
	}

	return out, nil
}
