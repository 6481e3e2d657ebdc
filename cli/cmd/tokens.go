package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/formula/lang"
)

// Tokens prints the token stream of each formula, highlighted by kind.
type Tokens struct {
	Formulas []string `arg:"" help:"Formulas to tokenize (default: lines of --source)" name:"formula" optional:"" sep:"none"`

	List bool `help:"Print one token per line with its kind" short:"l"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c := newContext(ctx, nil)
	w := outputFrom(ctx)
	hl := newHighlighter(w)

	for src, err := range formulas(ctx, t.Formulas) {
		if err != nil {
			return err
		}

		toks, err := c.Tokens(src)
		if err != nil {
			return ErrParse.Wrap(err).With(slog.String("formula", src))
		}

		if t.List {
			err = hl.list(w, toks)
		} else {
			err = hl.line(w, toks)
		}

		if err != nil {
			return ErrMarshal.Wrap(err)
		}
	}

	return nil
}

// highlighter styles tokens for one output. Styles render as plain text
// when the output is not a color terminal.
type highlighter struct {
	kind  lipgloss.Style
	style map[lang.TokenKind]lipgloss.Style
	plain lipgloss.Style
}

func newHighlighter(w io.Writer) highlighter {
	r := lipgloss.NewRenderer(w)

	punct := r.NewStyle().Foreground(lipgloss.Color("8"))
	literal := r.NewStyle().Foreground(lipgloss.Color("3"))

	return highlighter{
		kind:  r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		plain: r.NewStyle(),
		style: map[lang.TokenKind]lipgloss.Style{
			lang.TokenName:     r.NewStyle().Foreground(lipgloss.Color("4")),
			lang.TokenOperator: r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
			lang.TokenLParen:   punct,
			lang.TokenRParen:   punct,
			lang.TokenLBracket: punct,
			lang.TokenRBracket: punct,
			lang.TokenLBrace:   punct,
			lang.TokenRBrace:   punct,
			lang.TokenDot:      punct,
			lang.TokenComma:    punct,
			lang.TokenEquals:   punct,
			lang.TokenNothing:  r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
			lang.TokenNumber:   literal,
			lang.TokenBool:     literal,
			lang.TokenString:   r.NewStyle().Foreground(lipgloss.Color("2")),
			lang.TokenAddress:  r.NewStyle().Foreground(lipgloss.Color("6")).Underline(true),
		},
	}
}

func (h highlighter) render(tok lang.Token) string {
	s, ok := h.style[tok.Kind]
	if !ok {
		s = h.plain
	}

	return s.Render(tok.Text)
}

// line writes the tokens back to back, reproducing the canonical formula.
func (h highlighter) line(w io.Writer, toks []lang.Token) error {
	var sb strings.Builder

	for _, tok := range toks {
		sb.WriteString(h.render(tok))
	}

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// list writes one "kind text" row per token.
func (h highlighter) list(w io.Writer, toks []lang.Token) error {
	width := 0
	for _, tok := range toks {
		width = max(width, len(tok.Kind.String()))
	}

	for _, tok := range toks {
		name := tok.Kind.String()
		pad := strings.Repeat(" ", width-len(name)+1)

		if _, err := fmt.Fprintf(w, "%s%s%s\n", h.kind.Render(name), pad, h.render(tok)); err != nil {
			return err
		}
	}

	return nil
}
