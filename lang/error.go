package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// kind identifies the class of an [Error] independent of its detail text
// and attributes, so that enriched copies still match their sentinel.
type kind uint8

const (
	kindNone kind = iota
	kindParse
	kindNoSuchOperator
	kindNoSuchValue
	kindOperationNotValidForType
	kindCannotCallNonFunctionObject
	kindInsufficientOperands
	kindCannotCastToString
	kindConversionFailed
	kindExpectedType
	kindEmptyResultSet
)

// Predefined errors (sentinel values).
//
// Every evaluation failure returned by this package matches exactly one of
// these with [errors.Is].
var (
	ErrParse                       = newKindError(kindParse, "parse error")
	ErrNoSuchOperator              = newKindError(kindNoSuchOperator, "no such operator")
	ErrNoSuchValue                 = newKindError(kindNoSuchValue, "no such value")
	ErrOperationNotValidForType    = newKindError(kindOperationNotValidForType, "operation not valid for type")
	ErrCannotCallNonFunctionObject = newKindError(kindCannotCallNonFunctionObject, "cannot call non-function object")
	ErrInsufficientOperands        = newKindError(kindInsufficientOperands, "insufficient operands")
	ErrCannotCastToString          = newKindError(kindCannotCastToString, "cannot cast to string")
	ErrConversionFailed            = newKindError(kindConversionFailed, "conversion failed")
	ErrExpectedType                = newKindError(kindExpectedType, "expected type")
	ErrEmptyResultSet              = newKindError(kindEmptyResultSet, "empty result set")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	detail string
	err    error       // Wrapped error (for errors.Unwrap)
	origin *Error      // Value created by NewError; shared by its copies
	attrs  []slog.Attr // Attributes for structured logging
	kind   kind
}

// NewError creates a new Error with a message.
//
// Copies made with Wrap, With, or Describe still match the returned value
// with [errors.Is]; two separate calls never match each other.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.origin = e

	return e
}

func newKindError(k kind, msg string) *Error {
	return &Error{msg: msg, kind: k}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	ee = &Error{err: err}
	ee.origin = ee

	return ee
}

// Error implements the error interface.
//
// The message is formed from whichever of "<msg>", "<detail>", and "<err>"
// are set, joined by ": ".
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Detail returns the variable part of the message, such as the name that
// could not be resolved.
func (e *Error) Detail() string { return e.detail }

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same class as e.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}

	if e.kind == kindNone {
		return t.kind == kindNone && e.root() == t.root()
	}

	return e.kind == t.kind
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = slices.Concat(e.attrs, attrs)

	return &c
}

// Describe returns a copy of e carrying the given detail text.
func (e *Error) Describe(detail string) *Error {
	c := *e
	c.detail = detail

	return &c
}

// NoSuchOperator reports that no operator is registered for symbol.
func NoSuchOperator(symbol string) *Error {
	return ErrNoSuchOperator.Describe(symbol).
		With(slog.String("symbol", symbol))
}

// NoSuchValue reports that name is neither bound nor a member of the
// accessed value.
func NoSuchValue(name string) *Error {
	return ErrNoSuchValue.Describe(name).With(slog.String("name", name))
}

// OperationNotValidForType reports an operation applied to operands of the
// wrong runtime type.
func OperationNotValidForType(desc string) *Error {
	return ErrOperationNotValidForType.Describe(desc)
}

// InsufficientOperands reports a handler invoked with too few operands.
// The context names the operator or function.
func InsufficientOperands(context string) *Error {
	return ErrInsufficientOperands.Describe(context)
}

// ExpectedType reports a function argument of the wrong type.
// The description lists the expected argument types.
func ExpectedType(desc string) *Error {
	return ErrExpectedType.Describe(desc)
}

// EmptyResultSet reports a query that was required to produce a value but
// did not.
func EmptyResultSet(query string) *Error {
	return ErrEmptyResultSet.Describe(query).With(slog.String("query", query))
}

// ParseError describes source text that could not be parsed.
type ParseError struct {
	Source    string   // The original source input
	Remainder string   // Unconsumed input at the point of failure
	Snippet   string   // Offending line with a column marker
	Expected  []string // What the parser would have accepted instead
	Offset    int      // Byte offset of Remainder within Source
	Line      int
	Column    int
}

// NewParseError creates a ParseError for source that failed with the given
// unconsumed remainder.
func NewParseError(source, remainder string, expected ...string) *ParseError {
	offset := max(len(source)-len(remainder), 0)

	line := 1 + strings.Count(source[:offset], "\n")
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	column := 1 + utf8.RuneCountInString(source[start:offset])

	exp := slices.Clone(expected)
	slices.Sort(exp)

	pe := &ParseError{
		Source:    source,
		Remainder: remainder,
		Expected:  slices.Compact(exp),
		Offset:    offset,
		Line:      line,
		Column:    column,
	}
	pe.Snippet = pe.snippet()

	return pe
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))

	if e.Remainder == "" {
		buf.WriteString(": unexpected end of input")
	} else {
		buf.WriteString(": unexpected ")
		buf.WriteString(strconv.Quote(truncate(e.Remainder, 16)))
	}

	if len(e.Expected) > 0 {
		buf.WriteString(" (expected ")
		buf.WriteString(strings.Join(e.Expected, ", "))
		buf.WriteString(")")
	}

	return buf.String()
}

// Is reports true for [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.String("remainder", truncate(e.Remainder, 32)),
		slog.Any("expected", e.Expected),
	)
}

// snippet renders the offending line with a marker under the failing column.
func (e *ParseError) snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(e.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[e.Line-1])
	src.WriteRune('\n')
	// 2 leading spaces + " | "
	src.WriteString(strings.Repeat(" ", len(num)+5+e.Column-1))
	src.WriteString("^\n")

	return src.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + "…"
}
