package lang

import (
	"log/slog"
	"reflect"
)

var (
	objectType = reflect.TypeFor[Object]()
	errorType  = reflect.TypeFor[error]()
)

// FromGo converts a Go value to an Object. It reports false when v has no
// Object form.
//
// Nil converts to Nothing, booleans to Boolean, every integer and float
// kind to Number, strings to String, slices and arrays to List, and maps
// with string keys to AssociativeArray. Elements, keys, and values that do
// not convert are dropped. Functions convert to *Function; arguments and
// results of an arbitrary func cross the boundary through [ToGo] and
// FromGo, and a call fails with [ErrConversionFailed] when one does not.
func FromGo(v any) (Object, bool) {
	switch x := v.(type) {
	case nil:
		return Nothing{}, true
	case Object:
		if f, ok := x.(*Function); ok && f == nil {
			return Nothing{}, true
		}

		return x, true
	case Handler:
		return NewFunction(x), true
	case func([]Object) (Object, error):
		return NewFunction(HandlerFunc(x)), true
	}

	return fromValue(reflect.ValueOf(v))
}

func fromValue(rv reflect.Value) (Object, bool) {
	if !rv.IsValid() {
		return Nothing{}, true
	}

	if rv.Type().Implements(objectType) && rv.CanInterface() {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Nothing{}, true
		}

		o, ok := rv.Interface().(Object)

		return o, ok
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Boolean(rv.Bool()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), true

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), true

	case reflect.String:
		return String(rv.String()), true

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}, true
		}

		out := make(List, 0, rv.Len())

		for i := range rv.Len() {
			if o, ok := fromValue(rv.Index(i)); ok {
				out = append(out, o)
			}
		}

		return out, true

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		out := make(AssociativeArray, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			if o, ok := fromValue(it.Value()); ok {
				out[it.Key().String()] = o
			}
		}

		return out, true

	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return Nothing{}, true
		}

		return fromValue(rv.Elem())

	case reflect.Func:
		if rv.IsNil() {
			return Nothing{}, true
		}

		return NewFunction(reflectHandler{fn: rv}), true

	default:
		return nil, false
	}
}

// reflectHandler calls an arbitrary Go func with converted arguments.
type reflectHandler struct {
	fn reflect.Value
}

func (h reflectHandler) Invoke(args []Object) (Object, error) {
	t := h.fn.Type()

	in, err := h.arguments(t, args)
	if err != nil {
		return nil, err
	}

	out := h.fn.Call(in)

	// A trailing error result is returned as the call's error.
	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return nil, e
		}

		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return Nothing{}, nil
	case 1:
		return h.result(out[0])
	default:
		list := make(List, len(out))

		for i, rv := range out {
			o, err := h.result(rv)
			if err != nil {
				return nil, err
			}

			list[i] = o
		}

		return list, nil
	}
}

func (h reflectHandler) arguments(t reflect.Type, args []Object) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	if len(args) < fixed {
		return nil, InsufficientOperands(t.String()).
			With(slog.Int("want", fixed), slog.Int("got", len(args)))
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		var pt reflect.Type

		switch {
		case i < fixed:
			pt = t.In(i)
		case t.IsVariadic():
			pt = t.In(fixed).Elem()
		default:
			// Surplus arguments are ignored.
			return in[:i], nil
		}

		rv, ok := toValue(arg, pt)
		if !ok {
			return nil, ErrConversionFailed.With(
				slog.Int("argument", i),
				slog.String("from", typeOf(arg).String()),
				slog.String("to", pt.String()),
			)
		}

		in[i] = rv
	}

	return in, nil
}

func (h reflectHandler) result(rv reflect.Value) (Object, error) {
	o, ok := fromValue(rv)
	if !ok {
		return nil, ErrConversionFailed.With(
			slog.String("from", rv.Type().String()),
		)
	}

	return o, nil
}

// ToGo converts an Object to its natural Go value: nil, bool, float64,
// string, []any, map[string]any, or, for a function, func(...any) (any,
// error). It reports false for an unknown Object implementation.
func ToGo(o Object) (any, bool) {
	switch x := o.(type) {
	case nil, Nothing:
		return nil, true
	case Boolean:
		return bool(x), true
	case Number:
		return float64(x), true
	case String:
		return string(x), true
	case List:
		out := make([]any, 0, len(x))

		for _, item := range x {
			if v, ok := ToGo(item); ok {
				out = append(out, v)
			}
		}

		return out, true
	case AssociativeArray:
		out := make(map[string]any, len(x))

		for k, item := range x {
			if v, ok := ToGo(item); ok {
				out[k] = v
			}
		}

		return out, true
	case *Function:
		return func(args ...any) (any, error) {
			in := make([]Object, len(args))

			for i, arg := range args {
				a, ok := FromGo(arg)
				if !ok {
					return nil, ErrConversionFailed.With(slog.Int("argument", i))
				}

				in[i] = a
			}

			res, err := x.Call(in)
			if err != nil {
				return nil, err
			}

			v, _ := ToGo(res)

			return v, nil
		}, true
	default:
		return nil, false
	}
}

// toValue converts o to a Go value assignable to t.
func toValue(o Object, t reflect.Type) (reflect.Value, bool) {
	switch {
	case t == objectType:
		return reflect.ValueOf(&o).Elem(), true
	case t.Kind() != reflect.Interface && reflect.TypeOf(o) != nil &&
		reflect.TypeOf(o).AssignableTo(t):
		return reflect.ValueOf(o), true
	}

	v, ok := ToGo(o)
	if !ok {
		return reflect.Value{}, false
	}

	return convertValue(reflect.ValueOf(v), t)
}

func convertValue(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !rv.IsValid() {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map,
			reflect.Func:
			return reflect.Zero(t), true
		default:
			return reflect.Value{}, false
		}
	}

	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)

		return out, true
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String:
		if rv.Kind() != t.Kind() {
			return reflect.Value{}, false
		}

		return rv.Convert(t), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr, reflect.Float32, reflect.Float64:
		if rv.Kind() != reflect.Float64 {
			return reflect.Value{}, false
		}

		return rv.Convert(t), true

	case reflect.Slice:
		if rv.Kind() != reflect.Slice {
			return reflect.Value{}, false
		}

		out := reflect.MakeSlice(t, rv.Len(), rv.Len())

		for i := range rv.Len() {
			ev, ok := convertValue(rv.Index(i).Elem(), t.Elem())
			if !ok {
				return reflect.Value{}, false
			}

			out.Index(i).Set(ev)
		}

		return out, true

	case reflect.Map:
		if rv.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}

		out := reflect.MakeMapWithSize(t, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			ev, ok := convertValue(it.Value().Elem(), t.Elem())
			if !ok {
				return reflect.Value{}, false
			}

			out.SetMapIndex(it.Key().Convert(t.Key()), ev)
		}

		return out, true

	default:
		return reflect.Value{}, false
	}
}
