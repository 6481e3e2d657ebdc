package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// useDefault swaps the package-level logger for the duration of a test.
func useDefault(t *testing.T, l Logger) {
	t.Helper()

	original := Default()
	SetDefault(l)

	t.Cleanup(func() { SetDefault(original) })
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", func(m string, a ...slog.Attr) { TraceContext(t.Context(), m, a...) }, "TRACE"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(t.Context(), m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(t.Context(), m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(t.Context(), m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(t.Context(), m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"msg":"package message"`) {
				t.Errorf("expected message, got: %s", out)
			}

			if !strings.Contains(out, `"level":"`+tt.level+`"`) {
				t.Errorf("expected level %q, got: %s", tt.level, out)
			}

			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("expected attribute, got: %s", out)
			}
		})
	}
}

func TestPackage_Config_WrapsDefault(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithLevel(LevelError)))

	Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below error level, got %q", buf.String())
	}

	Config(WithLevel(LevelInfo))
	Info("shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected output after Config, got %q", buf.String())
	}
}

func TestPackage_With(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf))

	With(slog.String("component", "lang")).Info("hello")

	if !strings.Contains(buf.String(), "component=lang") {
		t.Errorf("expected attribute from With, got %q", buf.String())
	}
}
