package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Ops prints the operator table, loosest rank first.
type Ops struct{}

// Run executes the ops command.
func (*Ops) Run(ctx context.Context) error {
	w := outputFrom(ctx)
	r := lipgloss.NewRenderer(w)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("RANK", "PRECEDENCE", "FIXITY", "SYMBOL").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.NewStyle().Bold(true).Padding(0, 1)
			}

			return r.NewStyle().Padding(0, 1)
		})

	for i, rank := range newContext(ctx, nil).PrecedenceTable() {
		prec := strconv.FormatInt(rank.Precedence, 10)

		for _, sym := range rank.Prefix {
			tbl.Row(strconv.Itoa(i), prec, "prefix", sym)
		}

		for _, sym := range rank.Infix {
			tbl.Row(strconv.Itoa(i), prec, "infix", sym)
		}
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return ErrMarshal.Wrap(err)
	}

	return nil
}
