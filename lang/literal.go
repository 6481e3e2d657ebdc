package lang

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultQuotes are the characters accepted as string delimiters.
const DefaultQuotes = `"'`

var keywords = []string{"nothing", "true", "false"}

func isKeyword(s string) bool {
	for _, k := range keywords {
		if s == k {
			return true
		}
	}

	return false
}

// literal parses any literal form. Keywords are tried before names.
func literal(quotes string) parser[Literal] {
	return alt(
		as(Literal{Kind: LiteralNothing}, keyword("nothing")),
		as(Literal{Kind: LiteralBool, Bool: true}, keyword("true")),
		as(Literal{Kind: LiteralBool}, keyword("false")),
		mapTo(address, func(q string) (Literal, error) {
			return Literal{Kind: LiteralAddress, Text: q}, nil
		}),
		mapTo(number, func(n float64) (Literal, error) {
			return Literal{Kind: LiteralNumber, Number: n}, nil
		}),
		mapTo(quoted(quotes), func(s string) (Literal, error) {
			return Literal{Kind: LiteralString, Text: s}, nil
		}),
		mapTo(name, func(s string) (Literal, error) {
			return Literal{Kind: LiteralName, Text: s}, nil
		}),
	)
}

// member parses the right side of an access: a name, a string, or a
// non-negative integer index.
func member(quotes string) parser[Literal] {
	return alt(
		mapTo(name, func(s string) (Literal, error) {
			return Literal{Kind: LiteralName, Text: s}, nil
		}),
		mapTo(quoted(quotes), func(s string) (Literal, error) {
			return Literal{Kind: LiteralString, Text: s}, nil
		}),
		mapTo(integer, func(n float64) (Literal, error) {
			return Literal{Kind: LiteralNumber, Number: n}, nil
		}),
	)
}

// key parses an associative array key.
func key(quotes string) parser[Key] {
	return alt(
		mapTo(quoted(quotes), func(s string) (Key, error) {
			return Key{Kind: KeyString, Text: s}, nil
		}),
		mapTo(name, func(s string) (Key, error) {
			return Key{Kind: KeyName, Text: s}, nil
		}),
	)
}

// name parses an identifier.
func name(in string) (string, string, error) {
	r, size := utf8.DecodeRuneInString(in)
	if size == 0 || !isNameStart(r) {
		return in, "", fail(in, "name")
	}

	rest, _, _ := opt(takeWhile1("name", isNameRune))(in[size:])

	return rest, in[:len(in)-len(rest)], nil
}

// address parses {query}. The closing brace is the one that balances the
// opening brace, so the query may itself contain balanced braces.
func address(in string) (string, string, error) {
	if !strings.HasPrefix(in, "{") {
		return in, "", fail(in, "address")
	}

	depth := 0

	for i := range len(in) {
		switch in[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return in[i+1:], in[1:i], nil
			}
		}
	}

	return in, "", fail(in[len(in):], "'}'")
}

// ParseAddress parses s as a standalone address literal.
func ParseAddress(s string) (Address, error) {
	rest, q, err := address(s)
	if err == nil && rest != "" {
		err = fail(rest, "end of input")
	}

	if err != nil {
		f := asFailure(err, s)

		return Address{}, NewParseError(s, f.rest, f.expected...)
	}

	return Address{Query: q}, nil
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }
func isOctal(r rune) bool   { return '0' <= r && r <= '7' }
func isBinary(r rune) bool  { return r == '0' || r == '1' }
func isHex(r rune) bool {
	return isDecimal(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// digits parses a run of digits that starts with a digit and may contain
// '_' separators, which are removed from the output.
func digits(what string, isDigit func(rune) bool) parser[string] {
	run := takeWhile1(what, func(r rune) bool { return r == '_' || isDigit(r) })

	return func(in string) (string, string, error) {
		r, _ := utf8.DecodeRuneInString(in)
		if !isDigit(r) {
			return in, "", fail(in, what)
		}

		rest, text, err := run(in)
		if err != nil {
			return in, "", err
		}

		return rest, strings.ReplaceAll(text, "_", ""), nil
	}
}

func radix(prefix string, base int, isDigit func(rune) bool) parser[float64] {
	return mapTo(
		preceded(tag(prefix), digits("digit", isDigit)),
		func(s string) (float64, error) {
			i, ok := new(big.Int).SetString(s, base)
			if !ok {
				return 0, fail(s, "number")
			}

			f, _ := new(big.Float).SetInt(i).Float64()

			return f, nil
		},
	)
}

var (
	integerText = digits("digit", isDecimal)
	decimalText = recognize(preceded(integerText, preceded(tag("."), integerText)))
	mantissa    = alt(decimalText, integerText)

	integer = mapTo(integerText, parseFloat)
	decimal = mapTo(decimalText, parseFloat)

	scientific parser[float64] = func(in string) (string, float64, error) {
		rest, m, err := mantissa(in)
		if err != nil {
			return in, 0, err
		}

		rest, _, err = alt(tag("e"), tag("E"))(rest)
		if err != nil {
			return in, 0, err
		}

		rest, sign, _ := opt(alt(tag("-"), tag("+")))(rest)

		rest, x, err := mantissa(rest)
		if err != nil {
			return in, 0, err
		}

		m = strings.ReplaceAll(m, "_", "")
		x = strings.ReplaceAll(x, "_", "")

		if !strings.Contains(x, ".") {
			f, err := parseFloat(m + "e" + sign + x)

			return rest, f, err
		}

		mf, _ := parseFloat(m)
		xf, _ := parseFloat(sign + x)

		if mf == 0 {
			return rest, 0, nil
		}

		return rest, mf * math.Pow(10, xf), nil
	}

	unsigned = alt(
		radix("0x", 16, isHex),
		radix("0o", 8, isOctal),
		radix("0b", 2, isBinary),
		scientific,
		decimal,
		integer,
	)
)

// number parses an optionally negative number in any supported form.
func number(in string) (string, float64, error) {
	rest, neg, _ := opt(tag("-"))(in)

	rest, n, err := unsigned(rest)
	if err != nil {
		return in, 0, fail(in, "number")
	}

	if neg != "" {
		n = -n
	}

	return rest, n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)

	var ne *strconv.NumError
	if err != nil && (!errors.As(err, &ne) || ne.Err != strconv.ErrRange) {
		return 0, fail(s, "number")
	}

	return f, nil
}

// quoted parses a string delimited by any one of the runes in quotes.
func quoted(quotes string) parser[string] {
	return func(in string) (string, string, error) {
		q, size := utf8.DecodeRuneInString(in)
		if size == 0 || !strings.ContainsRune(quotes, q) {
			return in, "", fail(in, "string")
		}

		var sb strings.Builder

		s := in[size:]

		for {
			r, n := utf8.DecodeRuneInString(s)

			switch {
			case n == 0:
				return in, "", fail(s, "closing quote")

			case r == q:
				return s[n:], sb.String(), nil

			case r == '\\':
				rest, err := unescape(s[n:], &sb)
				if err != nil {
					return in, "", err
				}

				s = rest

			default:
				sb.WriteRune(r)

				s = s[n:]
			}
		}
	}
}

var escapes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'\\': '\\',
	'/':  '/',
	'"':  '"',
	'\'': '\'',
}

// quote renders s as a string literal delimited by q. It emits only the
// escapes [unescape] decodes: non-printable runes, and a delimiter with no
// named escape, are written \u{HEX}.
func quote(s string, q rune) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteRune(q)

	for _, r := range s {
		switch {
		case r == q && (r == '"' || r == '\''):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == q:
			fmt.Fprintf(&sb, `\u{%X}`, r)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\b':
			sb.WriteString(`\b`)
		case r == '\f':
			sb.WriteString(`\f`)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\u{%X}`, r)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteRune(q)

	return sb.String()
}

// unescape decodes the escape sequence following a backslash into sb.
// A backslash followed by whitespace elides all of that whitespace.
func unescape(in string, sb *strings.Builder) (string, error) {
	r, n := utf8.DecodeRuneInString(in)

	if c, ok := escapes[r]; ok {
		sb.WriteRune(c)

		return in[n:], nil
	}

	if unicode.IsSpace(r) {
		return skipSpace(in), nil
	}

	if r != 'u' {
		return in, fail(in, "escape sequence")
	}

	rest, hex, err := delimited(tag("{"), takeWhile1("hex digit", isHex), tag("}"))(in[n:])
	if err != nil || len(hex) > 6 {
		return in, fail(in[n:], "unicode escape")
	}

	code, _ := strconv.ParseUint(hex, 16, 32)
	if !utf8.ValidRune(rune(code)) {
		return in, fail(in[n:], "unicode code point")
	}

	sb.WriteRune(rune(code))

	return rest, nil
}
