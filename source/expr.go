package source

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/formula/lang"
)

// Expr resolves queries as expr-lang expressions evaluated against an
// environment map, such as {price * qty} or {user.name ?? "anonymous"}.
//
// Each distinct query is compiled once. A nil result is a miss.
type Expr struct {
	env      map[string]any
	programs sync.Map // query → *vm.Program
}

// NewExpr returns a source evaluating queries against a copy of env.
func NewExpr(env map[string]any) *Expr {
	e := maps.Clone(env)
	if e == nil {
		e = map[string]any{}
	}

	return &Expr{env: e}
}

// Query compiles query on first use and runs it.
func (e *Expr) Query(query string) (lang.Object, error) {
	program, err := e.compile(query)
	if err != nil {
		return nil, err
	}

	out, err := expr.Run(program, e.env)
	if err != nil {
		return nil, ErrInvalidQuery.Wrap(err).With(slog.String("query", query))
	}

	if out == nil {
		return nil, nil
	}

	o, ok := lang.FromGo(out)
	if !ok {
		return nil, lang.ErrConversionFailed.Describe(query).
			With(slog.String("query", query))
	}

	return o, nil
}

func (e *Expr) compile(query string) (*vm.Program, error) {
	if p, ok := e.programs.Load(query); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(query,
		expr.Env(e.env),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, ErrInvalidQuery.Wrap(err).With(slog.String("query", query))
	}

	actual, _ := e.programs.LoadOrStore(query, program)

	return actual.(*vm.Program), nil
}
