package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the syntax tree as formula source to w, with strings
// delimited by '"'.
//
// With indent 0 the output is compact and parses back under any options
// whose quote set contains '"'. With a positive indent, list and
// associative array items are written one per line; parsing that form
// requires [WithWhitespace].
func (v *Value) Format(ctx context.Context, w io.Writer, indent int) error {
	return v.FormatQuoted(ctx, w, indent, '"')
}

// FormatQuoted is [Value.Format] with strings delimited by quote.
func (v *Value) FormatQuoted(_ context.Context, w io.Writer, indent int, quote rune) error {
	var sb strings.Builder

	if indent > 0 {
		formatValue(&sb, v, indent, 0, quote)
	} else {
		v.write(&sb, quote)
	}

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the syntax tree as JSON to w.
func (v *Value) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, v.ToMap(), indent)
}

// FormatYAML writes the syntax tree as YAML to w.
func (v *Value) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, v.ToMap(), indent)
}

// FormatObject writes the display string of o to w.
func FormatObject(_ context.Context, w io.Writer, o Object) error {
	_, err := fmt.Fprintln(w, orNothing(o).String())

	return err
}

// FormatObjectJSON writes the [Native] form of o as JSON to w.
func FormatObjectJSON(_ context.Context, w io.Writer, o Object, indent int) error {
	return writeJSON(w, Native(o), indent)
}

// FormatObjectYAML writes the [Native] form of o as YAML to w.
func FormatObjectYAML(ctx context.Context, w io.Writer, o Object, indent int) error {
	return writeYAML(ctx, w, Native(o), indent)
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// formatValue writes v with list and associative array items broken across
// lines. Everything else is written compactly.
func formatValue(sb *strings.Builder, v *Value, indent, depth int, q rune) {
	if v == nil {
		return
	}

	var n int

	switch v.Kind {
	case KindList:
		n = len(v.List.Items)
	case KindArray:
		n = len(v.Array.Items)
	default:
		v.write(sb, q)

		return
	}

	if n == 0 {
		v.write(sb, q)

		return
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	sb.WriteString("[\n")

	for i := range n {
		sb.WriteString(pad)

		if v.Kind == KindList {
			formatValue(sb, v.List.Items[i], indent, depth+1, q)
		} else {
			p := v.Array.Items[i]
			sb.WriteString(p.Key.text(q))
			sb.WriteString(" = ")
			formatValue(sb, p.Value, indent, depth+1, q)
		}

		if i < n-1 {
			sb.WriteByte(',')
		}

		sb.WriteByte('\n')
	}

	sb.WriteString(strings.Repeat(" ", depth*indent))
	sb.WriteByte(']')
}
