package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// A bytes.Buffer is not a terminal, so pretty output carries no escape
// sequences and can be compared as plain text.

func TestPrettyText_Record(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"), WithLevel(LevelTrace))
	logger.Trace("cache lookup",
		slog.Bool("cache_hit", true),
		slog.Int("bytes", 12),
		slog.Any("error", errors.New("boom")),
	)

	want := "level=TRACE msg=cache lookup cache_hit=true bytes=12 error=boom\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected no escape sequences for non-terminal output")
	}
}

func TestPrettyText_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))
	logger = logger.With(slog.String("component", "cli"))

	logger.Info("ran",
		slog.Group("request", slog.String("command", "eval"), slog.Int("args", 2)))

	want := "level=INFO msg=ran component=cli request.command=eval request.args=2\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestPrettyText_WithGroupHandler(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyTextHandler(&buf, &slog.HandlerOptions{})
	slog.New(h.WithGroup("lang")).Info("parsed", slog.Int("n", 1))

	if !strings.HasSuffix(buf.String(), "lang.n=1\n") {
		t.Errorf("expected grouped key, got %q", buf.String())
	}
}

func TestPrettyJSON_Record(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithFormat(FormatJSON),
		WithTimeLayout("none"),
	)

	logger.Warn("slow", slog.String("source", "1+2"), slog.Bool("cached", false))

	want := strings.Join([]string{
		"{",
		`  "level": "WARN",`,
		`  "msg": "slow",`,
		`  "source": "1+2",`,
		`  "cached": false`,
		"}",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestPrettyJSON_Group(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Info("g", slog.Group("req", slog.Int("id", 7)))

	want := "{\n  \"level\": \"INFO\",\n  \"msg\": \"g\",\n  \"req\": {\n    \"id\": 7\n  }\n}\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestPalette_levelStyle_Nearest(t *testing.T) {
	p := newPalette(&bytes.Buffer{})

	// Between defined levels the lower neighbor's style applies.
	got := p.levelStyle(slog.LevelInfo + 2).Render("x")
	want := p.level[LevelInfo].Render("x")

	if got != want {
		t.Errorf("expected info style, got %q", got)
	}
}
