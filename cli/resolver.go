package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a config file
// written as a formula associative array:
//
//	[
//	  log_level = "debug",
//	  log_format = "json",
//	  log_pretty = false,
//	  whitespace = true
//	]
//
// The file is evaluated by a context without globals or operators, so it
// may only contain literals, lists, and associative arrays. Keys name
// global flags, with '_' accepted in place of '-'. Command-line flags
// override config file values.
//
// A file that does not evaluate to an associative array is logged and
// ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ra := readahead.NewReader(r)
		defer ra.Close()

		src, err := io.ReadAll(ra)
		if err != nil {
			return nil, err
		}

		obj, err := lang.NewContext(nil,
			lang.WithoutDefaults(),
			lang.WithWhitespace(true),
		).EvaluateContext(ctx, string(src))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		switch obj := obj.(type) {
		case lang.AssociativeArray:
			return makeConfig(obj), nil

		case lang.List:
			if len(obj) == 0 {
				return config{}, nil
			}
		}

		attrs := []slog.Attr{slog.String("error", "not an associative array")}
		if obj != nil {
			attrs = append(attrs, slog.String("type", obj.Type().String()))
		}

		log.WarnContext(ctx, "ignoring configuration", attrs...)

		return config{}, nil
	}
}

// config implements [kong.Resolver] for formula configuration files.
type config map[string]any

// makeConfig converts the evaluated file to flag values. Kong parses
// numbers from their text, so numbers are formatted as strings.
func makeConfig(arr lang.AssociativeArray) config {
	c := make(config, len(arr))

	for k, v := range arr {
		switch n := lang.Native(v).(type) {
		case int64:
			c[k] = strconv.FormatInt(n, 10)
		case float64:
			c[k] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			c[k] = n
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}
