package lang

import "strings"

// engine parses one source string against a fixed rank table.
//
// Parsing at rank r tries "operand(r+1) infix(r) expression(r)" and falls
// back to "operand(r+1)" alone, so chains of operators sharing a rank
// associate to the right. Past the last rank an atom is parsed: a primary
// (parenthesized expression, list, associative array, or literal) followed
// by any number of calls and member accesses.
type engine struct {
	far   *failure
	ranks []Rank
	space bool

	literal parser[Literal]
	member  parser[Literal]
	key     parser[Key]
}

func newEngine(ranks []Rank, quotes string, space bool) *engine {
	return &engine{
		ranks:   ranks,
		space:   space,
		literal: literal(quotes),
		member:  member(quotes),
		key:     key(quotes),
	}
}

// parse parses all of src as a single expression.
func (e *engine) parse(src string) (*Value, error) {
	rest, v, err := e.prefix(src)
	if err == nil && e.skip(rest) != "" {
		err = fail(e.skip(rest), "operator or end of input")
	}

	if err != nil {
		f := further(asFailure(err, src), e.far)

		return nil, NewParseError(src, f.rest, f.expected...)
	}

	return v, nil
}

// prefix parses one expression from the start of src and returns the
// unconsumed remainder.
func (e *engine) prefix(src string) (string, *Value, error) {
	e.far = nil

	return e.expression(src, 0)
}

// note records a failure that was recovered from, so that a later error
// can report the furthest point the parser reached.
func (e *engine) note(err error, in string) {
	e.far = further(e.far, asFailure(err, in))
}

func (e *engine) skip(in string) string {
	if e.space {
		return skipSpace(in)
	}

	return in
}

// punct matches a punctuation token.
func (e *engine) punct(in, s string) (string, bool) {
	in = e.skip(in)
	if strings.HasPrefix(in, s) {
		return in[len(s):], true
	}

	return in, false
}

// symbol matches an operator symbol. A symbol ending in a name rune does not
// match when the input continues with a name rune.
func (e *engine) symbol(in, sym string) (string, bool) {
	in = e.skip(in)
	if !strings.HasPrefix(in, sym) {
		return in, false
	}

	rest := in[len(sym):]
	if startsWithNameRune(sym[len(sym)-1:]) && startsWithNameRune(rest) {
		return in, false
	}

	return rest, true
}

func (e *engine) expression(in string, r int) (string, *Value, error) {
	if r >= len(e.ranks) {
		return e.atom(in)
	}

	rest, left, err := e.unary(in, r)
	if err != nil {
		return in, nil, err
	}

	for _, sym := range e.ranks[r].Infix {
		after, ok := e.symbol(rest, sym)
		if !ok {
			continue
		}

		tail, right, err := e.expression(after, r)
		if err != nil {
			e.note(err, after)

			continue
		}

		return tail, expressionValue(sym, left, right), nil
	}

	return rest, left, nil
}

// unary parses prefix operators of rank r, each applying to the rest of
// the operand at the same rank.
func (e *engine) unary(in string, r int) (string, *Value, error) {
	for _, sym := range e.ranks[r].Prefix {
		after, ok := e.symbol(in, sym)
		if !ok {
			continue
		}

		tail, operand, err := e.unary(after, r)
		if err != nil {
			e.note(err, after)

			continue
		}

		return tail, expressionValue(sym, operand), nil
	}

	return e.expression(in, r+1)
}

func (e *engine) atom(in string) (string, *Value, error) {
	rest, v, err := e.primary(e.skip(in))
	if err != nil {
		return in, nil, err
	}

	for {
		if after, ok := e.punct(rest, "."); ok {
			tail, m, err := e.member(e.skip(after))
			if err != nil {
				e.note(err, after)

				return rest, v, nil
			}

			rest, v = tail, accessValue(v, m)

			continue
		}

		if after, ok := e.punct(rest, "("); ok {
			tail, args, err := commaList(e, after, ")", e.operand)
			if err != nil {
				e.note(err, after)

				return rest, v, nil
			}

			rest = tail
			v = &Value{Kind: KindCall, Call: &Call{Callee: v, Arguments: args}}

			continue
		}

		return rest, v, nil
	}
}

func (e *engine) primary(in string) (string, *Value, error) {
	var far *failure

	if after, ok := e.punct(in, "("); ok {
		rest, v, err := e.expression(after, 0)
		if err == nil {
			if tail, ok := e.punct(rest, ")"); ok {
				return tail, v, nil
			}

			err = fail(e.skip(rest), "')'")
		}

		far = further(far, asFailure(err, after))
	}

	if after, ok := e.punct(in, "["); ok {
		rest, items, err := commaList(e, after, "]", e.operand)
		if err == nil {
			return rest, &Value{Kind: KindList, List: &ListExpr{Items: items}}, nil
		}

		far = further(far, asFailure(err, after))

		rest, pairs, err := commaList(e, after, "]", e.pair)
		if err == nil {
			return rest, &Value{Kind: KindArray, Array: &ArrayExpr{Items: pairs}}, nil
		}

		far = further(far, asFailure(err, after))
	}

	rest, l, err := e.literal(in)
	if err == nil {
		return rest, literalValue(l), nil
	}

	far = further(far, asFailure(err, in))
	far = further(far, fail(in, "expression"))

	return in, nil, far
}

// operand parses a full expression in a delimited list.
func (e *engine) operand(in string) (string, *Value, error) {
	return e.expression(in, 0)
}

func (e *engine) pair(in string) (string, Pair, error) {
	rest, k, err := e.key(e.skip(in))
	if err != nil {
		return in, Pair{}, err
	}

	after, ok := e.punct(rest, "=")
	if !ok {
		return in, Pair{}, fail(e.skip(rest), "'='")
	}

	tail, v, err := e.expression(after, 0)
	if err != nil {
		return in, Pair{}, err
	}

	return tail, Pair{Key: k, Value: v}, nil
}

// commaList parses comma separated items up to the closing delimiter.
func commaList[T any](
	e *engine,
	in, closer string,
	item parser[T],
) (string, []T, error) {
	if tail, ok := e.punct(in, closer); ok {
		return tail, nil, nil
	}

	comma := func(in string) (string, string, error) {
		if rest, ok := e.punct(in, ","); ok {
			return rest, ",", nil
		}

		return in, "", fail(e.skip(in), "','")
	}

	rest, items, err := separated0(item, comma)(in)
	if err != nil {
		return in, nil, err
	}

	tail, ok := e.punct(rest, closer)
	if !ok {
		return in, nil, fail(e.skip(rest), "','", "'"+closer+"'")
	}

	return tail, items, nil
}
