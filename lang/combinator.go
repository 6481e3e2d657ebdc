package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// parser consumes a prefix of its input and returns the unconsumed rest
// along with the value it recognized. On failure the rest is the input the
// parser was given and the error is a *failure.
type parser[T any] func(in string) (rest string, out T, err error)

// failure records where a parser stopped and what it would have accepted.
type failure struct {
	rest     string
	expected []string
}

func (f *failure) Error() string {
	return "expected " + strings.Join(f.expected, " or ")
}

func fail(rest string, expected ...string) *failure {
	return &failure{rest: rest, expected: expected}
}

// further returns whichever of a and b stopped further into the input,
// merging expectations when both stopped at the same place.
func further(a, b *failure) *failure {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case len(b.rest) < len(a.rest):
		return b
	case len(a.rest) < len(b.rest):
		return a
	default:
		return &failure{
			rest:     a.rest,
			expected: append(append([]string(nil), a.expected...), b.expected...),
		}
	}
}

func asFailure(err error, in string) *failure {
	if f, ok := err.(*failure); ok {
		return f
	}

	return fail(in, err.Error())
}

// tag matches s exactly.
func tag(s string) parser[string] {
	return func(in string) (string, string, error) {
		if strings.HasPrefix(in, s) {
			return in[len(s):], s, nil
		}

		return in, "", fail(in, "'"+s+"'")
	}
}

// keyword matches s when it is not immediately followed by a name rune.
func keyword(s string) parser[string] {
	return func(in string) (string, string, error) {
		if strings.HasPrefix(in, s) && !startsWithNameRune(in[len(s):]) {
			return in[len(s):], s, nil
		}

		return in, "", fail(in, s)
	}
}

// takeWhile1 matches the longest non-empty run of runes satisfying pred.
func takeWhile1(what string, pred func(rune) bool) parser[string] {
	return func(in string) (string, string, error) {
		n := 0

		for n < len(in) {
			r, size := utf8.DecodeRuneInString(in[n:])
			if !pred(r) {
				break
			}

			n += size
		}

		if n == 0 {
			return in, "", fail(in, what)
		}

		return in[n:], in[:n], nil
	}
}

// alt tries each parser in order and returns the first success. If all
// fail, the failure that got furthest is returned.
func alt[T any](ps ...parser[T]) parser[T] {
	return func(in string) (string, T, error) {
		var far *failure

		for _, p := range ps {
			rest, out, err := p(in)
			if err == nil {
				return rest, out, nil
			}

			far = further(far, asFailure(err, in))
		}

		var zero T

		return in, zero, far
	}
}

// mapTo transforms the output of p with f. An error from f fails the parse
// at the start of p's input.
func mapTo[T, U any](p parser[T], f func(T) (U, error)) parser[U] {
	return func(in string) (string, U, error) {
		var zero U

		rest, out, err := p(in)
		if err != nil {
			return in, zero, err
		}

		u, err := f(out)
		if err != nil {
			return in, zero, asFailure(err, in)
		}

		return rest, u, nil
	}
}

// as replaces the output of p with v.
func as[T, U any](v U, p parser[T]) parser[U] {
	return func(in string) (string, U, error) {
		rest, _, err := p(in)
		if err != nil {
			var zero U

			return in, zero, err
		}

		return rest, v, nil
	}
}

// opt makes p optional, yielding the zero value when it does not match.
func opt[T any](p parser[T]) parser[T] {
	return func(in string) (string, T, error) {
		rest, out, err := p(in)
		if err != nil {
			var zero T

			return in, zero, nil
		}

		return rest, out, nil
	}
}

// preceded matches a then b, yielding b.
func preceded[A, B any](a parser[A], b parser[B]) parser[B] {
	return func(in string) (string, B, error) {
		var zero B

		rest, _, err := a(in)
		if err != nil {
			return in, zero, err
		}

		rest, out, err := b(rest)
		if err != nil {
			return in, zero, err
		}

		return rest, out, nil
	}
}

// terminated matches a then b, yielding a.
func terminated[A, B any](a parser[A], b parser[B]) parser[A] {
	return func(in string) (string, A, error) {
		var zero A

		rest, out, err := a(in)
		if err != nil {
			return in, zero, err
		}

		rest, _, err = b(rest)
		if err != nil {
			return in, zero, err
		}

		return rest, out, nil
	}
}

// delimited matches open, p, and close, yielding p.
func delimited[A, B, C any](open parser[A], p parser[B], closer parser[C]) parser[B] {
	return preceded(open, terminated(p, closer))
}

// recognize yields the input consumed by p instead of p's output.
func recognize[T any](p parser[T]) parser[string] {
	return func(in string) (string, string, error) {
		rest, _, err := p(in)
		if err != nil {
			return in, "", err
		}

		return rest, in[:len(in)-len(rest)], nil
	}
}

// separated0 matches zero or more items separated by sep. A separator not
// followed by an item fails the whole list.
func separated0[T, S any](item parser[T], sep parser[S]) parser[[]T] {
	return func(in string) (string, []T, error) {
		rest, first, err := item(in)
		if err != nil {
			if f := asFailure(err, in); len(f.rest) < len(in) {
				return in, nil, f
			}

			return in, nil, nil
		}

		items := []T{first}

		for {
			after, _, err := sep(rest)
			if err != nil {
				return rest, items, nil
			}

			after, next, err := item(after)
			if err != nil {
				return in, nil, err
			}

			items = append(items, next)
			rest = after
		}
	}
}

func isNameStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

func startsWithNameRune(s string) bool {
	r, size := utf8.DecodeRuneInString(s)

	return size > 0 && isNameRune(r)
}

// isName reports whether s is a valid name.
func isName(s string) bool {
	for i, r := range s {
		if (i == 0 && !isNameStart(r)) || !isNameRune(r) {
			return false
		}
	}

	return s != ""
}

func skipSpace(in string) string {
	return strings.TrimLeftFunc(in, unicode.IsSpace)
}
