package cmd

import (
	"context"
	"log/slog"
)

// Parse prints the syntax tree of each formula without evaluating it.
type Parse struct {
	Formulas []string `arg:"" help:"Formulas to parse (default: lines of --source)" name:"formula" optional:"" sep:"none"`

	Output string `default:"json" enum:"json,yaml,text" help:"Tree format; text reprints the formula with explicit grouping" short:"o"`
	Indent int    `default:"2"                          help:"Indent width"                                                 short:"i"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c := newContext(ctx, nil)
	w := outputFrom(ctx)

	for src, err := range formulas(ctx, p.Formulas) {
		if err != nil {
			return err
		}

		v, err := c.ParseContext(ctx, src)
		if err != nil {
			return ErrParse.Wrap(err).With(slog.String("formula", src))
		}

		switch p.Output {
		case "yaml":
			err = v.FormatYAML(ctx, w, p.Indent)
		case "text":
			err = v.FormatQuoted(ctx, w, p.Indent, c.Quote())
		default:
			err = v.FormatJSON(ctx, w, p.Indent)
		}

		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("output", p.Output))
		}
	}

	return nil
}
