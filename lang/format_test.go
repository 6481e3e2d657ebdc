package lang

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestValue_Format(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{"compact", "[ a = 1 , b = f( x ) ]", 0, "[a=1,b=f(x)]\n"},
		{"scalar indented", "1 + 2", 2, "1+2\n"},
		{"empty list indented", "[ ]", 2, "[]\n"},
		{
			"nested indented",
			"[a = 1, b = [1, 2]]",
			2,
			"[\n  a = 1,\n  b = [\n    1,\n    2\n  ]\n]\n",
		},
		{
			"list of arrays",
			"[[k = 'v'], 3 * 4]",
			4,
			"[\n    [\n        k = \"v\"\n    ],\n    (3*4)\n]\n",
		},
	}

	c := NewContext(nil, WithWhitespace(true))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := c.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			var buf bytes.Buffer
			if err := v.Format(t.Context(), &buf, tt.indent); err != nil {
				t.Fatalf("Format error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("Format =\n%s\nwant\n%s", buf.String(), tt.want)
			}

			// Formatted output parses back to the same tree.
			again, err := c.Parse(buf.String())
			if err != nil {
				t.Fatalf("reparse error: %v", err)
			}

			if !reflect.DeepEqual(again, v) {
				t.Errorf("reparse = %s, want %s", again, v)
			}
		})
	}
}

func TestValue_ToMap(t *testing.T) {
	c := NewContext(nil)

	tests := []struct {
		input string
		want  map[string]any
	}{
		{
			"nothing",
			map[string]any{"kind": "Literal", "type": "Nothing", "value": nil},
		},
		{
			"{q}",
			map[string]any{"kind": "Literal", "type": "Address", "value": "q"},
		},
		{
			"1+x",
			map[string]any{
				"kind":     "Expression",
				"operator": "+",
				"operands": []any{
					map[string]any{"kind": "Literal", "type": "Number", "value": int64(1)},
					map[string]any{"kind": "Literal", "type": "Name", "value": "x"},
				},
			},
		},
		{
			"f(true)",
			map[string]any{
				"kind":   "Call",
				"callee": map[string]any{"kind": "Literal", "type": "Name", "value": "f"},
				"arguments": []any{
					map[string]any{"kind": "Literal", "type": "Bool", "value": true},
				},
			},
		},
		{
			"m.0",
			map[string]any{
				"kind":   "Access",
				"base":   map[string]any{"kind": "Literal", "type": "Name", "value": "m"},
				"member": map[string]any{"type": "Number", "value": int64(0)},
			},
		},
		{
			"[1.5]",
			map[string]any{
				"kind": "List",
				"items": []any{
					map[string]any{"kind": "Literal", "type": "Number", "value": 1.5},
				},
			},
		},
		{
			"['k'='v']",
			map[string]any{
				"kind": "AssociativeArray",
				"items": []any{
					map[string]any{
						"key":   "k",
						"value": map[string]any{"kind": "Literal", "type": "String", "value": "v"},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := c.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			if got := v.ToMap(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToMap() =\n%#v\nwant\n%#v", got, tt.want)
			}
		})
	}

	var nilValue *Value
	if nilValue.ToMap() != nil {
		t.Error("nil Value ToMap() != nil")
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	v, err := NewContext(nil).Parse("1+x")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	want := `{"kind":"Expression","operands":[{"kind":"Literal","type":"Number","value":1},` +
		`{"kind":"Literal","type":"Name","value":"x"}],"operator":"+"}`
	if string(data) != want {
		t.Errorf("MarshalJSON =\n%s\nwant\n%s", data, want)
	}

	var buf bytes.Buffer
	if err := v.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	if buf.String() != want+"\n" {
		t.Errorf("FormatJSON = %s, want %s", buf.String(), want)
	}

	buf.Reset()

	if err := v.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "{\n  \"kind\": \"Expression\",\n") {
		t.Errorf("indented FormatJSON =\n%s", buf.String())
	}
}

func TestValue_FormatYAML(t *testing.T) {
	v, err := NewContext(nil).Parse("f(1)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := v.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"kind: Call", "callee:", "type: Name", "value: f", "arguments:"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatYAML output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatObject(t *testing.T) {
	tests := []struct {
		obj  Object
		text string
		json string
	}{
		{nil, "nothing\n", "null\n"},
		{String("hi"), "hi\n", "\"hi\"\n"},
		{Number(3), "3\n", "3\n"},
		{
			List{Number(1), String("a"), Nothing{}, Number(1.5), Number(math.NaN())},
			"[1, \"a\", nothing, 1.5, NaN]\n",
			"[1,\"a\",null,1.5,\"NaN\"]\n",
		},
		{
			AssociativeArray{"b": Boolean(true), "a": List{}},
			"[a = [], b = true]\n",
			"{\"a\":[],\"b\":true}\n",
		},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.text), func(t *testing.T) {
			var buf bytes.Buffer

			if err := FormatObject(t.Context(), &buf, tt.obj); err != nil {
				t.Fatalf("FormatObject error: %v", err)
			}

			if buf.String() != tt.text {
				t.Errorf("FormatObject = %q, want %q", buf.String(), tt.text)
			}

			buf.Reset()

			if err := FormatObjectJSON(t.Context(), &buf, tt.obj, 0); err != nil {
				t.Fatalf("FormatObjectJSON error: %v", err)
			}

			if buf.String() != tt.json {
				t.Errorf("FormatObjectJSON = %q, want %q", buf.String(), tt.json)
			}
		})
	}
}

func TestFormatObjectYAML(t *testing.T) {
	obj := AssociativeArray{
		"name":  String("formula"),
		"count": Number(2),
		"tags":  List{String("x"), String("y")},
	}

	var buf bytes.Buffer
	if err := FormatObjectYAML(t.Context(), &buf, obj, 2); err != nil {
		t.Fatalf("FormatObjectYAML error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"count: 2", "name: formula", "tags:", "- x", "- y"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatObjectYAML output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()

	if err := FormatObjectYAML(t.Context(), &buf, obj, 0); err != nil {
		t.Fatalf("FormatObjectYAML error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("flow FormatObjectYAML = %q, want a flow mapping", buf.String())
	}
}

func TestNative(t *testing.T) {
	f := NamedFunction("f", HandlerFunc(Add))

	tests := []struct {
		name string
		in   Object
		want any
	}{
		{"nil", nil, nil},
		{"integral", Number(3), int64(3)},
		{"negative integral", Number(-3), int64(-3)},
		{"fraction", Number(0.25), 0.25},
		{"large", Number(1 << 60), float64(1 << 60)},
		{"infinity", Number(math.Inf(1)), "+Inf"},
		{"function", f, "<function f>"},
		{"nested", List{AssociativeArray{"f": f}}, []any{map[string]any{"f": "<function f>"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Native(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Native(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
