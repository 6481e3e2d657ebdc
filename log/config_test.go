package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestConfig_WithLevel_SetsLevel(t *testing.T) {
	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			c := WithLevel(level)(config{})

			if c.level != level {
				t.Errorf("expected level %v, got %v", level, c.level)
			}
		})
	}
}

func TestConfig_WithCaller_SetsCaller(t *testing.T) {
	for _, enable := range []bool{true, false} {
		c := WithCaller(enable)(config{})

		if c.caller != enable {
			t.Errorf("expected caller %v, got %v", enable, c.caller)
		}
	}
}

func TestConfig_WithFormat_SetsFormat(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		c := WithFormat(format)(config{})

		if c.format != format {
			t.Errorf("expected format %v, got %v", format, c.format)
		}
	}
}

func TestConfig_WithOutput_NilDiscards(t *testing.T) {
	c := WithOutput(nil)(config{})

	if c.output == nil {
		t.Fatal("expected non-nil output")
	}

	if _, err := c.output.Write([]byte("x")); err != nil {
		t.Errorf("unexpected write error: %v", err)
	}
}

func TestConfig_clone_IndependentMutex(t *testing.T) {
	a := makeConfig(nil)
	b := a.clone(WithLevel(LevelError))

	if a.mutex == b.mutex {
		t.Error("expected clone to have its own mutex")
	}

	if a.level != DefaultLevel {
		t.Errorf("expected original level %v, got %v", DefaultLevel, a.level)
	}

	if b.level != LevelError {
		t.Errorf("expected cloned level %v, got %v", LevelError, b.level)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"INFO+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" JSON ", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevels_And_Formats_Names(t *testing.T) {
	gotLevels := slices.Collect(Levels())
	wantLevels := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(gotLevels, wantLevels) {
		t.Errorf("Levels() = %v, want %v", gotLevels, wantLevels)
	}

	gotFormats := slices.Collect(Formats())
	wantFormats := []string{"text", "json"}

	if !slices.Equal(gotFormats, wantFormats) {
		t.Errorf("Formats() = %v, want %v", gotFormats, wantFormats)
	}

	for _, name := range gotLevels {
		if ParseLevel(name).String() != name {
			t.Errorf("level %q does not round trip", name)
		}
	}
}

func TestConfig_formatTime_FormatsTimestamp(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name        string
		layout      string
		contains    []string
		notContains []string
	}{
		{
			name:        "rfc3339 named layout",
			layout:      "RFC3339",
			contains:    []string{"2023-10-15T14:30:45Z"},
			notContains: []string{".123"},
		},
		{
			name:     "rfc3339 nano named layout",
			layout:   "rfc3339-nano",
			contains: []string{"2023-10-15T14:30:45.123456789Z"},
		},
		{
			name:     "kitchen",
			layout:   "Kitchen",
			contains: []string{"2:30PM"},
		},
		{
			name:     "millisecond abbreviation",
			layout:   "ms",
			contains: []string{"14:30:45.123"},
		},
		{
			name:     "custom layout used verbatim",
			layout:   "   2006-01-02 15:04:05.000",
			contains: []string{"   2023-10-15 14:30:45.123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			result := c.formatTime(now)

			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("expected %q to contain %q", result, s)
				}
			}

			for _, s := range tt.notContains {
				if strings.Contains(result, s) {
					t.Errorf("expected %q not to contain %q", result, s)
				}
			}
		})
	}
}

func TestConfig_formatTime_EmptyDisablesTimestamp(t *testing.T) {
	now := time.Now()

	for _, layout := range []string{"", "   \t  ", "none", "NONE"} {
		c := WithTimeLayout(layout)(config{})

		if got := c.formatTime(now); got != "" {
			t.Errorf("expected empty timestamp for layout %q, got %q", layout, got)
		}
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
