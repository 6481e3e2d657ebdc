package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Value.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToMap())
}

// ToMap converts the syntax tree to native Go maps and slices. Every node
// carries a "kind" key naming its [Kind].
func (v *Value) ToMap() map[string]any {
	if v == nil {
		return nil
	}

	m := map[string]any{"kind": v.Kind.String()}

	switch v.Kind {
	case KindLiteral:
		literalMap(m, *v.Literal)

	case KindExpression:
		m["operator"] = v.Expression.Operator
		m["operands"] = nodes(v.Expression.Operands)

	case KindCall:
		m["callee"] = v.Call.Callee.ToMap()
		m["arguments"] = nodes(v.Call.Arguments)

	case KindAccess:
		m["base"] = v.Access.Base.ToMap()
		m["member"] = literalMap(map[string]any{}, v.Access.Member)

	case KindList:
		m["items"] = nodes(v.List.Items)

	case KindArray:
		items := make([]any, len(v.Array.Items))
		for i, p := range v.Array.Items {
			items[i] = map[string]any{
				"key":   p.Key.Text,
				"value": p.Value.ToMap(),
			}
		}

		m["items"] = items
	}

	return m
}

func nodes(values []*Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.ToMap()
	}

	return out
}

func literalMap(m map[string]any, l Literal) map[string]any {
	m["type"] = l.Kind.String()

	switch l.Kind {
	case LiteralNothing:
		m["value"] = nil
	case LiteralBool:
		m["value"] = l.Bool
	case LiteralNumber:
		m["value"] = Native(Number(l.Number))
	case LiteralString, LiteralName, LiteralAddress:
		m["value"] = l.Text
	}

	return m
}

// Native converts an Object for serialization. Unlike [ToGo], functions
// become their display string, integral numbers become int64, and
// non-finite numbers become their display string, so the result is always
// representable in JSON and YAML.
func Native(o Object) any {
	switch x := o.(type) {
	case nil, Nothing:
		return nil

	case Boolean:
		return bool(x)

	case Number:
		f := float64(x)

		switch {
		case math.IsNaN(f) || math.IsInf(f, 0):
			return x.String()
		case f == math.Trunc(f) && math.Abs(f) < 1<<53:
			return int64(f)
		default:
			return f
		}

	case String:
		return string(x)

	case List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Native(item)
		}

		return out

	case AssociativeArray:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Native(item)
		}

		return out

	default:
		return o.String()
	}
}
