package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	sentinels := []*Error{
		ErrParse,
		ErrNoSuchOperator,
		ErrNoSuchValue,
		ErrOperationNotValidForType,
		ErrCannotCallNonFunctionObject,
		ErrInsufficientOperands,
		ErrCannotCastToString,
		ErrConversionFailed,
		ErrExpectedType,
		ErrEmptyResultSet,
	}

	for i, a := range sentinels {
		enriched := a.Describe("detail").With(slog.Int("n", i)).Wrap(io.EOF)

		for j, b := range sentinels {
			if got := errors.Is(enriched, b); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", enriched, b, got)
			}
		}

		if !errors.Is(enriched, io.EOF) {
			t.Errorf("%v does not unwrap to io.EOF", enriched)
		}
	}
}

func TestError_Identity(t *testing.T) {
	a := NewError("custom")
	b := NewError("custom")

	if errors.Is(a, b) {
		t.Error("distinct NewError values match")
	}

	if !errors.Is(a, a) {
		t.Error("NewError does not match itself")
	}

	if !errors.Is(a.Describe("x").Wrap(io.EOF), a) {
		t.Error("copy of a NewError value does not match it")
	}

	if errors.Is(a.With(slog.Int("n", 1)), b) {
		t.Error("copy matches a distinct NewError value")
	}

	if errors.Is(a, ErrParse) || errors.Is(ErrParse, a) {
		t.Error("NewError matches a sentinel")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNoSuchValue, "no such value"},
		{NoSuchValue("x"), "no such value: x"},
		{NoSuchOperator("<<"), "no such operator: <<"},
		{ErrConversionFailed.Wrap(io.EOF), "conversion failed: EOF"},
		{ExpectedType("(String)").Wrap(io.EOF), "expected type: (String): EOF"},
		{WrapError(io.EOF), "EOF"},
		{NewError(""), ""},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_CopiesOnWrite(t *testing.T) {
	base := ErrNoSuchValue.With(slog.String("a", "1"))
	left := base.With(slog.String("b", "2"))
	right := base.Describe("r")

	if len(base.attrs) != 1 {
		t.Errorf("With modified the receiver: %v", base.attrs)
	}

	if len(left.attrs) != 2 || left.Detail() != "" {
		t.Errorf("left = %v %v", left.attrs, left.Detail())
	}

	if right.Detail() != "r" || ErrNoSuchValue.Detail() != "" {
		t.Error("Describe modified the sentinel")
	}
}

func TestWrapError(t *testing.T) {
	e := NoSuchValue("x")

	if got := WrapError(fmt.Errorf("context: %w", e)); got != e {
		t.Errorf("WrapError did not return the wrapped *Error: %v", got)
	}

	plain := WrapError(io.EOF)
	if !errors.Is(plain, io.EOF) {
		t.Errorf("WrapError(io.EOF) = %v, want to unwrap to io.EOF", plain)
	}
}

func TestError_LogValue(t *testing.T) {
	err := NoSuchValue("x").Wrap(io.EOF)

	var sb strings.Builder

	slog.New(slog.NewTextHandler(&sb, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	})).Error("failed", slog.Any("err", err))

	want := "level=ERROR msg=failed err.error=\"no such value\" err.detail=x err.cause=EOF err.name=x\n"
	if sb.String() != want {
		t.Errorf("log output =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestNewParseError(t *testing.T) {
	src := "[1,\n  2 3]"
	pe := NewParseError(src, "3]", "\",\"", "\"]\"", "\",\"")

	if pe.Line != 2 || pe.Column != 5 || pe.Offset != 8 {
		t.Errorf("position = %d:%d (offset %d), want 2:5 (offset 8)", pe.Line, pe.Column, pe.Offset)
	}

	if strings.Join(pe.Expected, " ") != `"," "]"` {
		t.Errorf("Expected = %v, want sorted and deduplicated", pe.Expected)
	}

	wantSnippet := "  2 |   2 3]\n          ^\n"
	if pe.Snippet != wantSnippet {
		t.Errorf("Snippet =\n%q\nwant\n%q", pe.Snippet, wantSnippet)
	}

	if !errors.Is(pe, ErrParse) {
		t.Error("ParseError does not match ErrParse")
	}

	if errors.Is(pe, ErrNoSuchValue) {
		t.Error("ParseError matches ErrNoSuchValue")
	}
}

func TestParseError_MessageTruncates(t *testing.T) {
	pe := NewParseError("x"+strings.Repeat("y", 20), strings.Repeat("y", 20))

	want := `parse error at line 1, column 2: unexpected "` + strings.Repeat("y", 16) + `…"`
	if pe.Error() != want {
		t.Errorf("Error() = %s, want %s", pe.Error(), want)
	}

	end := NewParseError("1+", "", "value")
	if end.Error() != "parse error at line 1, column 3: unexpected end of input (expected value)" {
		t.Errorf("Error() = %s", end.Error())
	}
}

func TestParseError_LogValue(t *testing.T) {
	pe := NewParseError("1+", "", "value")

	attrs := pe.LogValue().Group()

	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":     "parse error",
		"line":      "1",
		"column":    "3",
		"remainder": "",
		"expected":  "[value]",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogValue %s = %q, want %q", k, got[k], v)
		}
	}
}
