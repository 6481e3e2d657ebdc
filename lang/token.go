package lang

import (
	"strconv"
)

// TokenKind classifies a [Token].
type TokenKind uint8

// Token kinds.
const (
	TokenName TokenKind = iota
	TokenOperator
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenDot
	TokenComma
	TokenEquals
	TokenNothing
	TokenNumber
	TokenString
	TokenBool
	TokenAddress
)

var tokenKindNames = [...]string{
	TokenName:     "Name",
	TokenOperator: "Operator",
	TokenLParen:   "LParen",
	TokenRParen:   "RParen",
	TokenLBracket: "LBracket",
	TokenRBracket: "RBracket",
	TokenLBrace:   "LBrace",
	TokenRBrace:   "RBrace",
	TokenDot:      "Dot",
	TokenComma:    "Comma",
	TokenEquals:   "Equals",
	TokenNothing:  "Nothing",
	TokenNumber:   "Number",
	TokenString:   "String",
	TokenBool:     "Bool",
	TokenAddress:  "Address",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical element of a formula. Text is the source rendering
// of the element; for an address it is the query between the braces.
type Token struct {
	Text string
	Kind TokenKind
}

// Tokens parses src and returns its tokens in source order.
//
// The stream is rebuilt from the syntax tree, so insignificant whitespace is
// dropped and nested expressions carry explicit parentheses.
func (c *Context) Tokens(src string) ([]Token, error) {
	v, err := c.Parse(src)
	if err != nil {
		return nil, err
	}

	return AppendTokens(nil, v), nil
}

// AppendTokens appends the tokens of v to dst.
func AppendTokens(dst []Token, v *Value) []Token {
	if v == nil {
		return dst
	}

	switch v.Kind {
	case KindLiteral:
		return appendLiteral(dst, *v.Literal)

	case KindExpression:
		e := v.Expression
		if len(e.Operands) == 1 {
			dst = append(dst, Token{Kind: TokenOperator, Text: e.Operator})

			return appendOperand(dst, e.Operands[0])
		}

		for i, operand := range e.Operands {
			if i > 0 {
				dst = append(dst, Token{Kind: TokenOperator, Text: e.Operator})
			}

			dst = appendOperand(dst, operand)
		}

		return dst

	case KindCall:
		dst = appendOperand(dst, v.Call.Callee)
		dst = append(dst, Token{Kind: TokenLParen, Text: "("})
		dst = appendSeparated(dst, v.Call.Arguments)

		return append(dst, Token{Kind: TokenRParen, Text: ")"})

	case KindAccess:
		if b := v.Access.Base; b != nil && b.Kind == KindLiteral &&
			b.Literal.Kind == LiteralNumber {
			dst = append(dst, Token{Kind: TokenLParen, Text: "("})
			dst = AppendTokens(dst, b)
			dst = append(dst, Token{Kind: TokenRParen, Text: ")"})
		} else {
			dst = appendOperand(dst, b)
		}

		dst = append(dst, Token{Kind: TokenDot, Text: "."})

		m := v.Access.Member
		if m.Kind == LiteralNumber {
			return append(dst, Token{
				Kind: TokenNumber,
				Text: strconv.FormatInt(int64(m.Number), 10),
			})
		}

		return appendLiteral(dst, m)

	case KindList:
		dst = append(dst, Token{Kind: TokenLBracket, Text: "["})
		dst = appendSeparated(dst, v.List.Items)

		return append(dst, Token{Kind: TokenRBracket, Text: "]"})

	case KindArray:
		dst = append(dst, Token{Kind: TokenLBracket, Text: "["})

		for i, pair := range v.Array.Items {
			if i > 0 {
				dst = append(dst, Token{Kind: TokenComma, Text: ","})
			}

			if pair.Key.Kind == KeyString {
				dst = append(dst, Token{Kind: TokenString, Text: pair.Key.String()})
			} else {
				dst = append(dst, Token{Kind: TokenName, Text: pair.Key.Text})
			}

			dst = append(dst, Token{Kind: TokenEquals, Text: "="})
			dst = AppendTokens(dst, pair.Value)
		}

		return append(dst, Token{Kind: TokenRBracket, Text: "]"})
	}

	return dst
}

func appendOperand(dst []Token, v *Value) []Token {
	if v != nil && v.Kind == KindExpression {
		dst = append(dst, Token{Kind: TokenLParen, Text: "("})
		dst = AppendTokens(dst, v)

		return append(dst, Token{Kind: TokenRParen, Text: ")"})
	}

	return AppendTokens(dst, v)
}

func appendSeparated(dst []Token, values []*Value) []Token {
	for i, v := range values {
		if i > 0 {
			dst = append(dst, Token{Kind: TokenComma, Text: ","})
		}

		dst = AppendTokens(dst, v)
	}

	return dst
}

func appendLiteral(dst []Token, l Literal) []Token {
	switch l.Kind {
	case LiteralNothing:
		return append(dst, Token{Kind: TokenNothing, Text: l.String()})
	case LiteralBool:
		return append(dst, Token{Kind: TokenBool, Text: l.String()})
	case LiteralNumber:
		return append(dst, Token{Kind: TokenNumber, Text: l.String()})
	case LiteralString:
		return append(dst, Token{Kind: TokenString, Text: l.String()})
	case LiteralName:
		return append(dst, Token{Kind: TokenName, Text: l.Text})
	case LiteralAddress:
		return append(dst,
			Token{Kind: TokenLBrace, Text: "{"},
			Token{Kind: TokenAddress, Text: l.Text},
			Token{Kind: TokenRBrace, Text: "}"},
		)
	default:
		return dst
	}
}
