package lang

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/ardnew/formula/log"
)

// Context is an evaluation environment: global bindings, the operator
// registry, and the data source that resolves addresses.
//
// A Context is not safe for concurrent mutation. Use [Context.Clone] to
// fork independent sessions.
type Context struct {
	provider  DataSource
	globals   map[string]Object
	operators map[string]Operator
	ranks     []Rank // derived from operators, rebuilt on every change
	logger    log.Logger
	quotes    string
	space     bool
	cache     bool
}

// Option configures a [Context].
type Option func(*Context)

// WithLogger sets the logger used for trace records of parse and evaluate
// calls.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithWhitespace controls whether insignificant whitespace is accepted
// between tokens. It is rejected by default.
func WithWhitespace(enable bool) Option {
	return func(c *Context) { c.space = enable }
}

// WithParseCache controls whether parse trees are cached process-wide by
// source text and grammar. See [ClearCache].
func WithParseCache(enable bool) Option {
	return func(c *Context) { c.cache = enable }
}

// WithQuotes sets the characters accepted as string delimiters. The
// default is [DefaultQuotes].
func WithQuotes(quotes string) Option {
	return func(c *Context) {
		if quotes != "" {
			c.quotes = quotes
		}
	}
}

// WithoutDefaults removes the default globals and operators. Options after
// it may add their own.
func WithoutDefaults() Option {
	return func(c *Context) {
		clear(c.globals)
		clear(c.operators)
		c.ranks = rankTable(c.operators)
	}
}

// WithGlobals binds every entry of globals.
func WithGlobals(globals map[string]Object) Option {
	return func(c *Context) { maps.Copy(c.globals, globals) }
}

// WithOperators registers every operator in ops.
func WithOperators(ops ...Operator) Option {
	return func(c *Context) {
		for _, op := range ops {
			c.PushOperator(op)
		}
	}
}

// NewContext returns a Context with the default operators and globals
// that resolves addresses with provider. A nil provider has no values.
func NewContext(provider DataSource, opts ...Option) *Context {
	if provider == nil {
		provider = EmptySource{}
	}

	c := &Context{
		provider:  provider,
		globals:   DefaultGlobals(),
		operators: make(map[string]Operator),
		quotes:    DefaultQuotes,
	}

	for _, op := range DefaultOperators() {
		c.operators[op.symbol] = op
	}

	c.ranks = rankTable(c.operators)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Clone returns an independent copy of c. Bindings and operators are
// copied; the data source is shared.
func (c *Context) Clone() *Context {
	cc := *c
	cc.globals = maps.Clone(c.globals)
	cc.operators = maps.Clone(c.operators)

	return &cc
}

// Provider returns the data source.
func (c *Context) Provider() DataSource { return c.provider }

// SetProvider replaces the data source.
func (c *Context) SetProvider(provider DataSource) {
	if provider == nil {
		provider = EmptySource{}
	}

	c.provider = provider
}

// Logger returns the logger set with [WithLogger].
func (c *Context) Logger() log.Logger { return c.logger }

// PushGlobal binds name to value, replacing any previous binding.
func (c *Context) PushGlobal(name string, value Object) {
	c.globals[name] = orNothing(value)
}

// WithGlobal returns a clone of c with name bound to value.
func (c *Context) WithGlobal(name string, value Object) *Context {
	cc := c.Clone()
	cc.PushGlobal(name, value)

	return cc
}

// Global returns the value bound to name.
func (c *Context) Global(name string) (Object, bool) {
	v, ok := c.globals[name]

	return v, ok
}

// Globals returns the bindings in name order.
func (c *Context) Globals() iter.Seq2[string, Object] {
	return func(yield func(string, Object) bool) {
		for _, name := range slices.Sorted(maps.Keys(c.globals)) {
			if !yield(name, c.globals[name]) {
				return
			}
		}
	}
}

// PushOperator registers op, replacing any operator with the same symbol.
func (c *Context) PushOperator(op Operator) {
	c.operators[op.symbol] = op
	c.ranks = rankTable(c.operators)
}

// WithOperator returns a clone of c with op registered.
func (c *Context) WithOperator(op Operator) *Context {
	cc := c.Clone()
	cc.PushOperator(op)

	return cc
}

// Operator returns the operator registered for symbol.
func (c *Context) Operator(symbol string) (Operator, bool) {
	op, ok := c.operators[symbol]

	return op, ok
}

// Operators returns the registered operators ordered by precedence and
// then by symbol.
func (c *Context) Operators() iter.Seq[Operator] {
	ops := slices.SortedFunc(maps.Values(c.operators), func(a, b Operator) int {
		return cmp.Or(
			cmp.Compare(a.precedence, b.precedence),
			cmp.Compare(a.symbol, b.symbol),
		)
	})

	return slices.Values(ops)
}

// PrecedenceTable returns the ranks the parser climbs, loosest first.
// It does not modify c, so concurrent parses of an unchanged Context are
// safe.
func (c *Context) PrecedenceTable() []Rank { return c.ranks }

// Quote returns the first character of the quote set, the delimiter to
// render strings with for this Context.
func (c *Context) Quote() rune {
	q, _ := utf8.DecodeRuneInString(c.quotes)

	return q
}

// PushFunc binds name to a function that calls f with a clone of c taken
// now. Later changes to c are not seen by the function.
func (c *Context) PushFunc(
	name string,
	f func(cx *Context, args []Object) (Object, error),
) {
	captured := c.Clone()

	c.PushGlobal(name, NamedFunction(name, HandlerFunc(
		func(args []Object) (Object, error) {
			return f(captured.Clone(), args)
		},
	)))
}

// WithFunc returns a clone of c with name bound as by [Context.PushFunc].
func (c *Context) WithFunc(
	name string,
	f func(cx *Context, args []Object) (Object, error),
) *Context {
	cc := c.Clone()
	cc.PushFunc(name, f)

	return cc
}

// Define binds name to a function whose body is a formula. Each call binds
// params to the call's arguments (Nothing for missing arguments) in a clone
// of c taken now and evaluates body there.
func (c *Context) Define(name string, params []string, body string) error {
	ast, err := c.Parse(body)
	if err != nil {
		return err
	}

	params = slices.Clone(params)

	c.PushFunc(name, func(cx *Context, args []Object) (Object, error) {
		for i, p := range params {
			var arg Object = Nothing{}
			if i < len(args) {
				arg = args[i]
			}

			cx.PushGlobal(p, arg)
		}

		return cx.EvaluateValue(ast)
	})

	c.logger.Trace("define",
		slog.String("name", name),
		slog.Any("params", params),
		slog.String("body", body),
	)

	return nil
}

// EvalFunc returns a function that evaluates its string argument in a
// clone of c taken now. It is not bound by default.
func EvalFunc(c *Context) *Function {
	captured := c.Clone()

	return NamedFunction("eval", HandlerFunc(func(args []Object) (Object, error) {
		if len(args) == 0 {
			return nil, InsufficientOperands("eval")
		}

		src, ok := args[0].(String)
		if !ok {
			return nil, ExpectedType("String")
		}

		return captured.Clone().Evaluate(string(src))
	}))
}

// Call invokes fn with args.
func (c *Context) Call(fn Object, args []Object) (Object, error) {
	f, ok := fn.(*Function)
	if !ok || f == nil {
		return nil, ErrCannotCallNonFunctionObject.
			With(slog.String("type", typeOf(fn).String()))
	}

	return f.Call(args)
}

// Parse parses src into a syntax tree using the current operators.
func (c *Context) Parse(src string) (*Value, error) {
	return c.ParseContext(context.Background(), src)
}

// ParseContext is like [Context.Parse]. The ctx is passed to the logger.
func (c *Context) ParseContext(ctx context.Context, src string) (*Value, error) {
	ranks := c.PrecedenceTable()

	if c.cache {
		return cachedParse(ctx, c, ranks, src)
	}

	c.logger.TraceContext(ctx, "parse", slog.Int("source_bytes", len(src)))

	return newEngine(ranks, c.quotes, c.space).parse(src)
}

// ParsePrefix parses one expression from the start of src and returns the
// unconsumed remainder of src.
func (c *Context) ParsePrefix(src string) (*Value, string, error) {
	e := newEngine(c.PrecedenceTable(), c.quotes, c.space)

	rest, v, err := e.prefix(src)
	if err != nil {
		f := further(asFailure(err, src), e.far)

		return nil, src, NewParseError(src, f.rest, f.expected...)
	}

	return v, rest, nil
}

// Evaluate parses and evaluates src.
func (c *Context) Evaluate(src string) (Object, error) {
	return c.EvaluateContext(context.Background(), src)
}

// EvaluateContext is like [Context.Evaluate]. The ctx is passed to the
// logger; evaluation is not cancellable.
func (c *Context) EvaluateContext(ctx context.Context, src string) (Object, error) {
	v, err := c.ParseContext(ctx, src)
	if err != nil {
		return nil, err
	}

	obj, err := c.EvaluateValue(v)
	if err != nil {
		c.logger.TraceContext(ctx, "evaluate failed",
			slog.String("source", src),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.logger.TraceContext(ctx, "evaluate",
		slog.String("source", src),
		slog.String("type", obj.Type().String()),
	)

	return obj, nil
}
