package lang

import (
	"errors"
	"math"
	"testing"
)

func TestObject_String(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Nothing{}, "nothing"},
		{Boolean(true), "true"},
		{Number(42), "42"},
		{Number(-0.5), "-0.5"},
		{Number(1e21), "1e+21"},
		{Number(1e-7), "1e-07"},
		{Number(123456789), "123456789"},
		{Number(math.Inf(-1)), "-Inf"},
		{String("raw \"text\""), `raw "text"`},
		{List{}, "[]"},
		{List{Number(1), String("a"), List{Nothing{}}}, `[1, "a", [nothing]]`},
		{List{String("bell\a\x00\u200b")}, `["bell\u{7}\u{0}\u{200B}"]`},
		{AssociativeArray{"\v": String("'")}, `["\u{B}" = "'"]`},
		{AssociativeArray{}, "[]"},
		{AssociativeArray{"b": Number(2), "a": String("x")}, `[a = "x", b = 2]`},
		{AssociativeArray{"two words": Boolean(false)}, `["two words" = false]`},
		{AssociativeArray{"true": Number(1)}, `["true" = 1]`},
		{NewFunction(HandlerFunc(Add)), "<function>"},
		{NamedFunction("sum", HandlerFunc(Add)), "<function sum>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.obj.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObject_Type(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Nothing{}, "Nothing"},
		{Boolean(false), "Boolean"},
		{Number(0), "Number"},
		{String(""), "String"},
		{List(nil), "List"},
		{AssociativeArray(nil), "AssociativeArray"},
		{NewFunction(HandlerFunc(Add)), "Function"},
	}

	for _, tt := range tests {
		if got := tt.obj.Type().String(); got != tt.want {
			t.Errorf("%v.Type() = %s, want %s", tt.obj, got, tt.want)
		}
	}

	if got := typeOf(nil); got != TypeNothing {
		t.Errorf("typeOf(nil) = %v, want Nothing", got)
	}
}

func TestEqual(t *testing.T) {
	f := NewFunction(HandlerFunc(Add))
	g := NewFunction(HandlerFunc(Add))

	tests := []struct {
		name string
		a, b Object
		want bool
	}{
		{"nil and nothing", nil, Nothing{}, true},
		{"numbers", Number(1), Number(1), true},
		{"NaN", Number(math.NaN()), Number(math.NaN()), false},
		{"number and string", Number(1), String("1"), false},
		{"nil and empty list", List(nil), List{}, true},
		{"lists differ in order", List{Number(1), Number(2)}, List{Number(2), Number(1)}, false},
		{"lists differ in length", List{Number(1)}, List{Number(1), Number(1)}, false},
		{"nested arrays", AssociativeArray{"a": List{Number(1)}}, AssociativeArray{"a": List{Number(1)}}, true},
		{"arrays differ", AssociativeArray{"a": Number(1)}, AssociativeArray{"b": Number(1)}, false},
		{"list and array", List{}, AssociativeArray{}, false},
		{"same function", f, f, true},
		{"distinct functions", f, g, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}

			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	f := NewFunction(HandlerFunc(Add))
	orig := AssociativeArray{
		"list": List{Number(1), AssociativeArray{"x": String("y")}},
		"fn":   f,
	}

	c, ok := Clone(orig).(AssociativeArray)
	if !ok {
		t.Fatalf("Clone returned %T", Clone(orig))
	}

	if !Equal(c, orig) {
		t.Fatalf("Clone = %v, want %v", c, orig)
	}

	inner, _ := c["list"].(List)
	inner[0] = Number(9)
	inner[1].(AssociativeArray)["x"] = String("z")

	if !Equal(orig["list"], List{Number(1), AssociativeArray{"x": String("y")}}) {
		t.Errorf("mutating the clone changed the original: %v", orig)
	}

	if c["fn"] != Object(f) {
		t.Error("functions were copied, want shared")
	}

	if !Equal(Clone(nil), Nothing{}) {
		t.Errorf("Clone(nil) = %v, want nothing", Clone(nil))
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		obj     Object
		want    string
		wantErr bool
	}{
		{String("plain"), "plain", false},
		{nil, "nothing", false},
		{Number(2.5), "2.5", false},
		{List{String("a")}, `["a"]`, false},
		{NewFunction(HandlerFunc(Add)), "", true},
		{AssociativeArray{"f": List{NewFunction(HandlerFunc(Add))}}, "", true},
	}

	for _, tt := range tests {
		got, err := ToString(tt.obj)
		if tt.wantErr {
			if !errors.Is(err, ErrCannotCastToString) {
				t.Errorf("ToString(%v) error = %v, want ErrCannotCastToString", tt.obj, err)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("ToString(%v) = %q, %v; want %q", tt.obj, got, err, tt.want)
		}
	}
}

func TestFunction_Call(t *testing.T) {
	var f *Function

	if _, err := f.Call(nil); !errors.Is(err, ErrCannotCallNonFunctionObject) {
		t.Errorf("nil function Call error = %v", err)
	}

	got, err := NamedFunction("sum", HandlerFunc(Add)).Call([]Object{Number(1), Number(2)})
	if err != nil || !Equal(got, Number(3)) {
		t.Errorf("Call = %v, %v; want 3", got, err)
	}

	if name := NamedFunction("sum", HandlerFunc(Add)).Name(); name != "sum" {
		t.Errorf("Name() = %q, want sum", name)
	}
}

func TestAssociativeArray_Keys(t *testing.T) {
	a := AssociativeArray{"c": nil, "a": nil, "b": nil}

	keys := a.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys() = %q, want sorted", keys)
	}
}
