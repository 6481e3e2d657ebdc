package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/source"
)

// Eval evaluates formulas and prints each result.
type Eval struct {
	Formulas []string `arg:"" help:"Formulas to evaluate (default: lines of --source)" name:"formula" optional:"" sep:"none"`

	Data   []string `help:"YAML file resolving {address} queries; repeat to chain"                  placeholder:"FILE"             sep:"none" short:"d" type:"existingfile"`
	Env    bool     `help:"Resolve remaining {address} queries as expr-lang over the environment, e.g. {env.HOME}"`
	Strict bool     `help:"Fail when an {address} query has no value"`
	Var    []string `help:"Bind NAME to the value of FORMULA before evaluating"                     placeholder:"NAME=FORMULA"     sep:"none" short:"v"`
	Define []string `help:"Define a function, e.g. 'hyp(a,b)=sqrt(a^2+b^2)'"                         placeholder:"NAME(PARAMS)=BODY" sep:"none" short:"D"`
	Output string   `default:"text" enum:"text,json,yaml" help:"Result format"                       short:"o"`
	Indent int      `default:"2"                          help:"Indent width for json and yaml output" short:"i"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	provider, err := e.provider()
	if err != nil {
		return err
	}

	c := newContext(ctx, provider)

	if err := e.bind(ctx, c); err != nil {
		return err
	}

	w := outputFrom(ctx)

	for src, err := range formulas(ctx, e.Formulas) {
		if err != nil {
			return err
		}

		obj, err := c.EvaluateContext(ctx, src)
		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("formula", src))
		}

		if err := e.write(ctx, w, obj); err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("output", e.Output))
		}
	}

	return nil
}

// provider chains the configured data sources. An empty chain resolves
// nothing.
func (e *Eval) provider() (lang.DataSource, error) {
	var chain source.Chain

	for _, path := range e.Data {
		y, err := source.LoadYAML(path)
		if err != nil {
			return nil, ErrDataSource.Wrap(err).With(slog.String("path", path))
		}

		chain = append(chain, y)
	}

	if e.Env {
		chain = append(chain, source.NewExpr(map[string]any{"env": environ()}))
	}

	var provider lang.DataSource = chain
	if e.Strict {
		provider = source.Strict(provider)
	}

	return provider, nil
}

// bind applies --define and --var in that order. Each variable may refer
// to the functions and to the variables bound before it.
func (e *Eval) bind(ctx context.Context, c *lang.Context) error {
	for _, def := range e.Define {
		name, params, body, ok := parseDefinition(def)
		if !ok {
			return ErrDefine.With(slog.String("define", def))
		}

		if err := c.Define(name, params, body); err != nil {
			return ErrDefine.Wrap(err).With(slog.String("define", def))
		}

		log.DebugContext(ctx, "defined function",
			slog.String("name", name),
			slog.Any("params", params),
		)
	}

	for _, v := range e.Var {
		name, src, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return ErrBind.With(slog.String("var", v))
		}

		obj, err := c.EvaluateContext(ctx, src)
		if err != nil {
			return ErrBind.Wrap(err).With(slog.String("var", v))
		}

		c.PushGlobal(name, obj)
	}

	return nil
}

func (e *Eval) write(ctx context.Context, w io.Writer, obj lang.Object) error {
	switch e.Output {
	case "json":
		return lang.FormatObjectJSON(ctx, w, obj, e.Indent)
	case "yaml":
		return lang.FormatObjectYAML(ctx, w, obj, e.Indent)
	default:
		return lang.FormatObject(ctx, w, obj)
	}
}

// parseDefinition splits "name(a,b)=body" or "name=body" into its parts.
func parseDefinition(def string) (name string, params []string, body string, ok bool) {
	head, body, ok := strings.Cut(def, "=")
	if !ok {
		return "", nil, "", false
	}

	name, args, hasArgs := strings.Cut(head, "(")
	name = strings.TrimSpace(name)

	if name == "" {
		return "", nil, "", false
	}

	if hasArgs {
		args, ok = strings.CutSuffix(strings.TrimSpace(args), ")")
		if !ok {
			return "", nil, "", false
		}

		for p := range strings.SplitSeq(args, ",") {
			if p = strings.TrimSpace(p); p != "" {
				params = append(params, p)
			}
		}
	}

	return name, params, body, true
}

// environ returns the process environment as a map.
func environ() map[string]any {
	env := make(map[string]any)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}
