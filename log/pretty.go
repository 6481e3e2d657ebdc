package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to a
// renderer for the handler's output, so they render as plain text when the
// output is not a color terminal.
type palette struct {
	key     lipgloss.Style
	str     lipgloss.Style
	num     lipgloss.Style
	boolean lipgloss.Style
	falsy   lipgloss.Style
	null    lipgloss.Style
	time    lipgloss.Style
	level   map[Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	return palette{
		key:     r.NewStyle().Foreground(lipgloss.Color("8")),
		str:     r.NewStyle().Foreground(lipgloss.Color("6")),
		num:     r.NewStyle().Foreground(lipgloss.Color("3")),
		boolean: r.NewStyle().Foreground(lipgloss.Color("2")),
		falsy:   r.NewStyle().Foreground(lipgloss.Color("1")),
		null:    r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		time:    r.NewStyle().Foreground(lipgloss.Color("4")),
		level: map[Level]lipgloss.Style{
			LevelTrace: r.NewStyle().Foreground(lipgloss.Color("5")),
			LevelDebug: r.NewStyle().Foreground(lipgloss.Color("4")),
			LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest defined level at or below l.
func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	style := p.level[LevelTrace]

	for _, lv := range levels {
		if slog.Level(lv) <= l {
			style = p.level[lv]
		}
	}

	return style
}

// common holds the state shared by both pretty handlers.
type common struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	attrs  []slog.Attr
	groups []string
}

func newCommon(w io.Writer, opts *slog.HandlerOptions) common {
	return common{opts: *opts, mu: &sync.Mutex{}, w: w, pal: newPalette(w)}
}

func (h common) enabled(level slog.Level) bool {
	lowest := slog.LevelInfo
	if h.opts.Level != nil {
		lowest = h.opts.Level.Level()
	}

	return level >= lowest
}

// withAttrs returns a copy of h with attrs qualified by the open groups.
func (h common) withAttrs(attrs []slog.Attr) common {
	h.attrs = slices.Concat(h.attrs, qualify(h.groups, attrs))

	return h
}

func (h common) withGroup(name string) common {
	if name != "" {
		h.groups = append(slices.Clip(h.groups), name)
	}

	return h
}

// header returns the built-in attributes of r after ReplaceAttr.
func (h common) header(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		out = append(out, slog.Time(slog.TimeKey, r.Time))
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))

	if h.opts.ReplaceAttr == nil {
		return out
	}

	kept := out[:0]

	for _, a := range out {
		rep := h.opts.ReplaceAttr(nil, a)
		if rep.Equal(slog.Attr{}) {
			continue
		}

		// The level keeps its value for styling but takes the replaced text.
		if a.Key == slog.LevelKey {
			rep.Value = slog.AnyValue(levelText{level: r.Level, text: rep.Value.String()})
		}

		kept = append(kept, rep)
	}

	return kept
}

// body returns the handler and record attributes, resolved and qualified.
func (h common) body(r slog.Record) []slog.Attr {
	out := slices.Clone(h.attrs)

	rec := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		rec = append(rec, a)

		return true
	})

	return append(out, qualify(h.groups, rec)...)
}

func (h common) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// levelText pairs a record level with its display text.
type levelText struct {
	level slog.Level
	text  string
}

// qualify prefixes the keys of attrs with the open groups.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: joinKey(groups, a.Key), Value: a.Value}
	}

	return out
}

func joinKey(groups []string, key string) string {
	var sb bytes.Buffer

	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}

	sb.WriteString(key)

	return sb.String()
}

// prettyTextHandler writes styled key=value records on one line.
type prettyTextHandler struct {
	common
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{common: newCommon(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		h.writeAttr(buf, "", a)
	}

	for _, a := range h.body(r) {
		h.writeAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{common: h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{common: h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.pal.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Value))
}

func (h *prettyTextHandler) value(v slog.Value) string {
	p := h.pal

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.boolean.Render("true")
		}

		return p.falsy.Render("false")

	case slog.KindDuration:
		return p.num.Render(v.Duration().String())

	case slog.KindTime:
		return p.time.Render(v.Time().Format(time.RFC3339))

	default:
		switch x := v.Any().(type) {
		case levelText:
			return p.levelStyle(x.level).Render(x.text)
		case slog.Level:
			return p.levelStyle(x).Render(x.String())
		case nil:
			return p.null.Render("<nil>")
		case error:
			return p.falsy.Render(x.Error())
		default:
			return p.str.Render(fmt.Sprint(x))
		}
	}
}

// prettyJSONHandler writes styled, indented JSON objects.
type prettyJSONHandler struct {
	common
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{common: newCommon(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true

	for _, a := range slices.Concat(h.header(r), h.body(r)) {
		h.writeAttr(buf, a, 1, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{common: h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{common: h.withGroup(name)}
}

func (h *prettyJSONHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, depth int, first *bool) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')
	indent(buf, depth)
	buf.WriteString(h.pal.key.Render(strconv.Quote(a.Key)))
	buf.WriteString(": ")

	if a.Value.Kind() == slog.KindGroup {
		buf.WriteByte('{')

		inner := true
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, ga, depth+1, &inner)
		}

		buf.WriteByte('\n')
		indent(buf, depth)
		buf.WriteByte('}')

		return
	}

	buf.WriteString(h.value(a.Value))
}

func (h *prettyJSONHandler) value(v slog.Value) string {
	p := h.pal

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.boolean.Render("true")
		}

		return p.falsy.Render("false")

	case slog.KindDuration:
		return p.num.Render(strconv.FormatInt(int64(v.Duration()), 10))

	case slog.KindTime:
		return p.time.Render(strconv.Quote(v.Time().Format(time.RFC3339Nano)))

	default:
		switch x := v.Any().(type) {
		case levelText:
			return p.levelStyle(x.level).Render(strconv.Quote(x.text))
		case slog.Level:
			return p.levelStyle(x).Render(strconv.Quote(x.String()))
		case nil:
			return p.null.Render("null")
		case error:
			return p.falsy.Render(strconv.Quote(x.Error()))
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return p.str.Render(strconv.Quote(fmt.Sprint(v.Any())))
		}

		return p.str.Render(string(data))
	}
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}
