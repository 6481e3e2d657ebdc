package lang

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type identifies the runtime type of an [Object].
type Type uint8

// Runtime types, one per [Object] implementation.
const (
	TypeNothing Type = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeList
	TypeAssociativeArray
	TypeFunction
)

// String returns the type name used in error messages.
func (t Type) String() string {
	switch t {
	case TypeNothing:
		return "Nothing"
	case TypeBoolean:
		return "Boolean"
	case TypeNumber:
		return "Number"
	case TypeString:
		return "String"
	case TypeList:
		return "List"
	case TypeAssociativeArray:
		return "AssociativeArray"
	case TypeFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// Object is a runtime value produced by evaluation.
//
// The set of implementations is closed: [Nothing], [Boolean], [Number],
// [String], [List], [AssociativeArray], and *[Function].
type Object interface {
	Type() Type
	String() string

	object()
}

type (
	// Nothing is the absence of a value.
	Nothing struct{}
	// Boolean is a truth value.
	Boolean bool
	// Number is a double-precision floating point value.
	Number float64
	// String is a text value.
	String string
	// List is an ordered sequence of values.
	List []Object
	// AssociativeArray maps string keys to values. Key order is not
	// significant.
	AssociativeArray map[string]Object
)

// Function is a callable value. Functions are shared by reference: copies of
// a *Function refer to the same handler, and two functions are equal only if
// they are the same *Function.
type Function struct {
	handler Handler
	name    string
}

// NewFunction returns a Function invoking h.
func NewFunction(h Handler) *Function {
	return &Function{handler: h}
}

// NamedFunction returns a Function invoking h whose name is used when
// reporting argument errors.
func NamedFunction(name string, h Handler) *Function {
	return &Function{handler: h, name: name}
}

// Call invokes the function with args.
func (f *Function) Call(args []Object) (Object, error) {
	if f == nil || f.handler == nil {
		return nil, ErrCannotCallNonFunctionObject
	}

	return f.handler.Invoke(args)
}

// Name returns the name given to [NamedFunction], if any.
func (f *Function) Name() string { return f.name }

func (Nothing) Type() Type          { return TypeNothing }
func (Boolean) Type() Type          { return TypeBoolean }
func (Number) Type() Type           { return TypeNumber }
func (String) Type() Type           { return TypeString }
func (List) Type() Type             { return TypeList }
func (AssociativeArray) Type() Type { return TypeAssociativeArray }
func (*Function) Type() Type        { return TypeFunction }

func (Nothing) object()          {}
func (Boolean) object()          {}
func (Number) object()           {}
func (String) object()           {}
func (List) object()             {}
func (AssociativeArray) object() {}
func (*Function) object()        {}

func (Nothing) String() string { return "nothing" }

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

func (n Number) String() string { return formatNumber(float64(n)) }

func (s String) String() string { return string(s) }

func (l List) String() string {
	var sb strings.Builder

	writeObject(&sb, l)

	return sb.String()
}

func (a AssociativeArray) String() string {
	var sb strings.Builder

	writeObject(&sb, a)

	return sb.String()
}

func (f *Function) String() string {
	if f != nil && f.name != "" {
		return "<function " + f.name + ">"
	}

	return "<function>"
}

// Keys returns the keys of a in sorted order.
func (a AssociativeArray) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// writeObject writes the display form of o. Strings nested in containers
// are quoted so that the output reads back as a literal.
func writeObject(sb *strings.Builder, o Object) {
	switch v := o.(type) {
	case String:
		sb.WriteString(quote(string(v), '"'))

	case List:
		sb.WriteByte('[')

		for i, item := range v {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeObject(sb, item)
		}

		sb.WriteByte(']')

	case AssociativeArray:
		sb.WriteByte('[')

		for i, key := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(formatKey(key))
			sb.WriteString(" = ")
			writeObject(sb, v[key])
		}

		sb.WriteByte(']')

	case nil:
		sb.WriteString(Nothing{}.String())

	default:
		sb.WriteString(o.String())
	}
}

// formatKey renders key bare when it is a valid name and quoted otherwise.
func formatKey(key string) string {
	if isName(key) && !isKeyword(key) {
		return key
	}

	return quote(key, '"')
}

// Equal reports whether a and b are structurally equal. Functions are equal
// only to themselves.
func Equal(a, b Object) bool {
	a, b = orNothing(a), orNothing(b)

	switch x := a.(type) {
	case Nothing:
		_, ok := b.(Nothing)

		return ok

	case Boolean:
		y, ok := b.(Boolean)

		return ok && x == y

	case Number:
		y, ok := b.(Number)

		return ok && x == y

	case String:
		y, ok := b.(String)

		return ok && x == y

	case List:
		y, ok := b.(List)

		return ok && slices.EqualFunc(x, y, Equal)

	case AssociativeArray:
		y, ok := b.(AssociativeArray)

		return ok && maps.EqualFunc(x, y, Equal)

	case *Function:
		y, ok := b.(*Function)

		return ok && x == y

	default:
		return false
	}
}

// Clone returns a deep copy of o. Functions are shared, not copied.
func Clone(o Object) Object {
	switch v := o.(type) {
	case List:
		if v == nil {
			return List(nil)
		}

		c := make(List, len(v))
		for i, item := range v {
			c[i] = Clone(item)
		}

		return c

	case AssociativeArray:
		if v == nil {
			return AssociativeArray(nil)
		}

		c := make(AssociativeArray, len(v))
		for k, item := range v {
			c[k] = Clone(item)
		}

		return c

	default:
		return orNothing(o)
	}
}

// ToString converts o to text. Strings convert verbatim; other values use
// their display form. A Function anywhere within o cannot be converted.
func ToString(o Object) (string, error) {
	if s, ok := o.(String); ok {
		return string(s), nil
	}

	if containsFunction(o) {
		return "", ErrCannotCastToString.With(slog.String("type", TypeFunction.String()))
	}

	return orNothing(o).String(), nil
}

func containsFunction(o Object) bool {
	switch v := o.(type) {
	case *Function:
		return true
	case List:
		return slices.ContainsFunc(v, containsFunction)
	case AssociativeArray:
		for _, item := range v {
			if containsFunction(item) {
				return true
			}
		}
	}

	return false
}

// typeOf returns the runtime type of o, treating nil as Nothing.
func typeOf(o Object) Type {
	return orNothing(o).Type()
}

func orNothing(o Object) Object {
	if o == nil {
		return Nothing{}
	}

	return o
}
