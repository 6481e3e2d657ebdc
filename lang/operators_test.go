package lang

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
)

func TestOperatorHandlers(t *testing.T) {
	tests := []struct {
		name string
		op   func([]Object) (Object, error)
		args []Object
		want Object
	}{
		{"add fold", Add, []Object{Number(1), Number(2), Number(3)}, Number(6)},
		{"add single", Add, []Object{Number(1)}, Number(1)},
		{"add nil as nothing list", Add, []Object{List{}, nil}, List{Nothing{}}},
		{"sub", Sub, []Object{Number(5), Number(3)}, Number(2)},
		{"mul", Mul, []Object{Number(4), Number(2.5)}, Number(10)},
		{"div", Div, []Object{Number(1), Number(4)}, Number(0.25)},
		{"mod negative", Mod, []Object{Number(-7), Number(3)}, Number(-1)},
		{"pow", Pow, []Object{Number(2), Number(0.5)}, Number(math.Sqrt2)},
		{"eq", Eq, []Object{String("a"), String("a")}, Boolean(true)},
		{"ne", Ne, []Object{Number(1), Nothing{}}, Boolean(true)},
		{"gt", Gt, []Object{Number(2), Number(1)}, Boolean(true)},
		{"lt strings", Lt, []Object{String("a"), String("b")}, Boolean(true)},
		{"lt NaN", Lt, []Object{Number(math.NaN()), Number(1)}, Boolean(false)},
		{"gt NaN", Gt, []Object{Number(math.NaN()), Number(1)}, Boolean(false)},
		{"and", And, []Object{Boolean(true), Boolean(true)}, Boolean(true)},
		{"or", Or, []Object{Boolean(false), Boolean(false)}, Boolean(false)},
		{"not", Not, []Object{Boolean(true)}, Boolean(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.args)
			if err != nil {
				t.Fatalf("error: %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperatorHandlers_InsufficientOperands(t *testing.T) {
	ops := map[string]func([]Object) (Object, error){
		"+": Add, "-": Sub, "==": Eq, "<": Lt, "&&": And, "!": Not,
	}

	for sym, op := range ops {
		t.Run(sym, func(t *testing.T) {
			if _, err := op(nil); !errors.Is(err, ErrInsufficientOperands) {
				t.Errorf("error = %v, want ErrInsufficientOperands", err)
			}
		})
	}
}

func TestAdd_DoesNotAlias(t *testing.T) {
	base := make(List, 1, 4)
	base[0] = Number(1)

	a, err := Add([]Object{base, Number(2)})
	if err != nil {
		t.Fatal(err)
	}

	b, err := Add([]Object{base, Number(3)})
	if err != nil {
		t.Fatal(err)
	}

	if !Equal(a, List{Number(1), Number(2)}) || !Equal(b, List{Number(1), Number(3)}) {
		t.Errorf("appends share storage: %v, %v", a, b)
	}

	left := AssociativeArray{"a": Number(1)}

	if _, err := Add([]Object{left, AssociativeArray{"a": Number(2)}}); err != nil {
		t.Fatal(err)
	}

	if !Equal(left["a"], Number(1)) {
		t.Errorf("union modified its left operand: %v", left)
	}
}

func TestOperatorBuilder(t *testing.T) {
	op := NewOperator().Symbol("+").HandlerFunc(Add).Build()

	if op.Symbol() != "+" || op.Arity() != DefaultArity || op.Precedence() != DefaultPrecedence {
		t.Errorf("unexpected defaults: %v", op)
	}

	if op.Handler() == nil {
		t.Error("Handler() = nil")
	}

	op = NewOperator().Symbol("!").Precedence(3).Arity(1).HandlerFunc(Not).Build()
	if got := op.String(); got != "! (precedence 3, arity 1)" {
		t.Errorf("String() = %q", got)
	}

	got, err := op.Invoke([]Object{Boolean(false)})
	if err != nil || !Equal(got, Boolean(true)) {
		t.Errorf("Invoke = %v, %v; want true", got, err)
	}
}

func TestOperatorBuilder_Panics(t *testing.T) {
	tests := map[string]*OperatorBuilder{
		"no symbol":  NewOperator().HandlerFunc(Add),
		"no handler": NewOperator().Symbol("+"),
	}

	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Build did not panic")
				}
			}()

			b.Build()
		})
	}
}

func TestContext_Operators(t *testing.T) {
	c := NewContext(nil)

	var symbols []string
	for op := range c.Operators() {
		symbols = append(symbols, op.Symbol())
	}

	want := []string{
		"!=", "==",
		"!", "&&", "||",
		"<", ">",
		"+", "-",
		"%", "*", "/",
		"^",
	}
	if !slices.Equal(symbols, want) {
		t.Errorf("Operators() = %q, want %q", symbols, want)
	}

	if _, ok := c.Operator("^"); !ok {
		t.Error(`Operator("^") not found`)
	}

	if _, ok := c.Operator("**"); ok {
		t.Error(`Operator("**") found`)
	}
}

func TestPrecedenceTable(t *testing.T) {
	c := NewContext(nil)

	want := []Rank{
		{Precedence: PrecedenceEquality, Infix: []string{"!=", "=="}},
		{Precedence: PrecedenceLogical, Prefix: []string{"!"}, Infix: []string{"&&", "||"}},
		{Precedence: PrecedenceComparison, Infix: []string{"<", ">"}},
		{Precedence: PrecedenceAdditive, Infix: []string{"+", "-"}},
		{Precedence: PrecedenceMultiplicative, Infix: []string{"%", "*", "/"}},
		{Precedence: PrecedencePower, Infix: []string{"^"}},
	}

	if got := c.PrecedenceTable(); !reflect.DeepEqual(got, want) {
		t.Errorf("PrecedenceTable() = %+v, want %+v", got, want)
	}

	// Registering an operator rebuilds the table.
	c.PushOperator(NewOperator().Symbol("<<").Precedence(PrecedenceComparison).
		HandlerFunc(Add).Build())

	if got := c.PrecedenceTable()[2].Infix; !slices.Equal(got, []string{"<<", "<", ">"}) {
		t.Errorf("comparison rank = %q, want longest symbol first", got)
	}

	if fingerprint(c.PrecedenceTable()) == fingerprint(NewContext(nil).PrecedenceTable()) {
		t.Error("fingerprint did not change with the table")
	}
}

func TestPrecedenceTable_OtherArity(t *testing.T) {
	c := NewContext(nil)
	want := c.PrecedenceTable()

	for _, arity := range []int{0, 3} {
		op := NewOperator().Symbol("~").Precedence(1).Arity(arity).HandlerFunc(Add).Build()
		c.PushOperator(op)

		if got, ok := c.Operator("~"); !ok || got.Arity() != arity {
			t.Errorf("Operator(~) = %v, %v; want arity %d", got, ok, arity)
		}

		if got := c.PrecedenceTable(); !reflect.DeepEqual(got, want) {
			t.Errorf("arity %d: PrecedenceTable() = %+v, want %+v", arity, got, want)
		}

		if _, err := c.Parse("2~10"); !errors.Is(err, ErrParse) {
			t.Errorf("arity %d: Parse(2~10) error = %v, want ErrParse", arity, err)
		}
	}
}

func TestWithoutDefaults(t *testing.T) {
	c := NewContext(nil, WithoutDefaults())

	if len(c.PrecedenceTable()) != 0 {
		t.Errorf("PrecedenceTable() = %v, want empty", c.PrecedenceTable())
	}

	if _, err := c.Parse("1+2"); !errors.Is(err, ErrParse) {
		t.Errorf("Parse(1+2) error = %v, want ErrParse", err)
	}

	if got, err := c.Evaluate("[1,f(2)]"); !errors.Is(err, ErrNoSuchValue) {
		t.Errorf("Evaluate = %v, %v; want ErrNoSuchValue", got, err)
	}

	c = NewContext(nil,
		WithoutDefaults(),
		WithOperators(NewOperator().Symbol("+").Precedence(1).HandlerFunc(Add).Build()),
		WithGlobals(map[string]Object{"two": Number(2)}),
	)

	got, err := c.Evaluate("two+two")
	if err != nil || !Equal(got, Number(4)) {
		t.Errorf("two+two = %v, %v; want 4", got, err)
	}

	if _, err := c.Evaluate("PI"); !errors.Is(err, ErrNoSuchValue) {
		t.Errorf("PI error = %v, want ErrNoSuchValue", err)
	}
}
