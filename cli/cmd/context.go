package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Grammar holds the global parser settings shared by all commands.
type Grammar struct {
	Quotes     string
	Whitespace bool
	Cache      bool
}

type grammarKey struct{}

// WithGrammar returns a new context.Context carrying g.
func WithGrammar(ctx context.Context, g Grammar) context.Context {
	return context.WithValue(ctx, grammarKey{}, g)
}

func grammarFrom(ctx context.Context) Grammar {
	g, _ := ctx.Value(grammarKey{}).(Grammar)

	return g
}

// newContext creates an evaluation context configured by the grammar
// stored in ctx and logging to the default logger.
func newContext(ctx context.Context, provider lang.DataSource) *lang.Context {
	g := grammarFrom(ctx)

	return lang.NewContext(provider,
		lang.WithLogger(log.Default()),
		lang.WithWhitespace(g.Whitespace),
		lang.WithParseCache(g.Cache),
		lang.WithQuotes(g.Quotes),
	)
}

type outputKey struct{}

// WithOutput returns a new context.Context directing command output to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}
