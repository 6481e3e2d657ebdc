package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes the current global flag values to the configuration file as
// a formula associative array.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = i.config(ctx).Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// config builds the associative array literal of the global flags.
// Flag names use '_' in place of '-' so that every key is a plain name.
func (i *Init) config(ctx context.Context) *lang.Value {
	var b lang.Builder

	ktx := kongContextFrom(ctx)

	ignore := []string{"help", "version", "source", profile.Tag}

	var entries []lang.Pair

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagValue(ktx.FlagValue(flag))
		if val != nil {
			entries = append(entries,
				b.Entry(strings.ReplaceAll(flag.Name, "-", "_"), val))
		}
	}

	return b.Array(entries...)
}

// flagValue returns the literal for a flag value, or nil if it is unset or
// has no literal form.
func flagValue(val any) *lang.Value {
	var b lang.Builder

	switch v := val.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return b.String(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		items := make([]*lang.Value, len(v))
		for i, s := range v {
			items[i] = b.String(s)
		}

		return b.List(items...)

	default:
		o, ok := lang.FromGo(v)
		if !ok {
			return nil
		}

		switch o := o.(type) {
		case lang.Boolean:
			return b.Bool(bool(o))
		case lang.Number:
			return b.Number(float64(o))
		case lang.String:
			return b.String(string(o))
		}

		return nil
	}
}
