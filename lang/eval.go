package lang

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the names offered with a NoSuchValue error.
const maxSuggestions = 3

// EvaluateValue evaluates a syntax tree.
//
// Operands, arguments, and items are evaluated left to right and the first
// error is returned.
func (c *Context) EvaluateValue(v *Value) (Object, error) {
	if v == nil {
		return Nothing{}, nil
	}

	switch v.Kind {
	case KindLiteral:
		return c.evaluateLiteral(*v.Literal)

	case KindExpression:
		op, ok := c.operators[v.Expression.Operator]
		if !ok {
			return nil, NoSuchOperator(v.Expression.Operator)
		}

		args, err := c.evaluateAll(v.Expression.Operands)
		if err != nil {
			return nil, err
		}

		return op.Invoke(args)

	case KindCall:
		callee, err := c.EvaluateValue(v.Call.Callee)
		if err != nil {
			return nil, err
		}

		f, ok := callee.(*Function)
		if !ok {
			return nil, ErrCannotCallNonFunctionObject.
				With(slog.String("type", typeOf(callee).String()))
		}

		args, err := c.evaluateAll(v.Call.Arguments)
		if err != nil {
			return nil, err
		}

		return f.Call(args)

	case KindAccess:
		base, err := c.EvaluateValue(v.Access.Base)
		if err != nil {
			return nil, err
		}

		return access(base, v.Access.Member)

	case KindList:
		return c.evaluateAll(v.List.Items)

	case KindArray:
		out := make(AssociativeArray, len(v.Array.Items))

		for _, item := range v.Array.Items {
			obj, err := c.EvaluateValue(item.Value)
			if err != nil {
				return nil, err
			}

			out[item.Key.Text] = obj
		}

		return out, nil

	default:
		return nil, OperationNotValidForType("node " + v.Kind.String())
	}
}

func (c *Context) evaluateAll(values []*Value) (List, error) {
	out := make(List, 0, len(values))

	for _, v := range values {
		obj, err := c.EvaluateValue(v)
		if err != nil {
			return nil, err
		}

		out = append(out, obj)
	}

	return out, nil
}

func (c *Context) evaluateLiteral(l Literal) (Object, error) {
	switch l.Kind {
	case LiteralNothing:
		return Nothing{}, nil

	case LiteralBool:
		return Boolean(l.Bool), nil

	case LiteralNumber:
		return Number(l.Number), nil

	case LiteralString:
		return String(l.Text), nil

	case LiteralName:
		obj, ok := c.globals[l.Text]
		if !ok {
			return nil, c.unbound(l.Text)
		}

		return obj, nil

	case LiteralAddress:
		obj, err := c.provider.Query(l.Text)
		if err != nil {
			return nil, err
		}

		return orNothing(obj), nil

	default:
		return nil, OperationNotValidForType("literal " + l.Kind.String())
	}
}

// unbound returns a NoSuchValue error for name carrying the closest bound
// names as suggestions.
func (c *Context) unbound(name string) *Error {
	err := NoSuchValue(name)

	if hint := suggest(name, slices.Collect(maps.Keys(c.globals))); len(hint) > 0 {
		err = err.With(slog.Any("suggest", hint))
	}

	return err
}

func suggest(pattern string, candidates []string) []string {
	slices.Sort(candidates)

	matches := fuzzy.Find(pattern, candidates)

	hint := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(hint) == maxSuggestions {
			break
		}

		hint = append(hint, m.Str)
	}

	return hint
}

// access selects member from base.
func access(base Object, member Literal) (Object, error) {
	switch b := base.(type) {
	case AssociativeArray:
		if member.Kind != LiteralName && member.Kind != LiteralString {
			break
		}

		obj, ok := b[member.Text]
		if !ok {
			err := NoSuchValue(member.Text)
			if hint := suggest(member.Text, b.Keys()); len(hint) > 0 {
				err = err.With(slog.Any("suggest", hint))
			}

			return nil, err
		}

		return obj, nil

	case List:
		index, ok := listIndex(member)
		if !ok {
			break
		}

		if index < 0 || index >= len(b) {
			return nil, NoSuchValue(member.String()).
				With(slog.Int("length", len(b)))
		}

		return b[index], nil
	}

	return nil, OperationNotValidForType(
		"object of type '" + typeOf(base).String() +
			"' has no accessible members",
	).With(slog.String("type", typeOf(base).String()))
}

// listIndex converts an access member to a list index. Numbers are
// truncated; names and strings must spell a non-negative integer.
func listIndex(member Literal) (int, bool) {
	switch member.Kind {
	case LiteralNumber:
		if math.IsNaN(member.Number) || math.IsInf(member.Number, 0) {
			return -1, true
		}

		return int(member.Number), true

	case LiteralName, LiteralString:
		n, err := strconv.ParseUint(member.Text, 10, 31)
		if err != nil {
			return 0, false
		}

		return int(n), true

	default:
		return 0, false
	}
}
