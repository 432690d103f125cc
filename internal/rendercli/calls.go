package rendercli

import (
	"fmt"
	"strconv"

	"github.com/okian/skillwheel/internal/adapters/render"
	"github.com/okian/skillwheel/internal/domain/types"
	"github.com/spf13/cobra"
)

func callsCmd(g *globals) *cobra.Command {
	var sel selectFlags
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List the drawing calls of a diagram in the order a renderer receives them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := g.load()
			if err != nil {
				return err
			}
			b, err := g.builder()
			if err != nil {
				return err
			}
			s, err := sel.resolve(idx)
			if err != nil {
				return err
			}

			rec := render.NewRecorder()
			b.BuildIndexed(idx, s).Paint(rec)

			w := cmd.OutOrStdout()
			banner(w, s.String())
			calls := rec.Calls()
			rows := make([][]string, 0, len(calls))
			for i, c := range calls {
				rows = append(rows, callRow(i, c))
			}
			table(w, []string{"#", "Op", "Ring", "Subject", "Detail"}, rows, func(r, col int, cell string) string {
				if col == 4 && calls[r].Node != nil && calls[r].Node.Emphasis == types.EmphasisSelected {
					return Good.Sprint(cell)
				}
				return cell
			})

			count := map[types.Op]int{}
			for _, op := range rec.Ops() {
				count[op]++
			}
			fmt.Fprintf(w, "\n  %d calls: %d clear, %d nodes, %d curves\n",
				len(calls), count[types.OpClear], count[types.OpNode], count[types.OpCurve])
			return nil
		},
	}
	sel.bind(cmd)
	return cmd
}

func callRow(i int, c types.Instruction) []string {
	row := []string{strconv.Itoa(i), string(c.Op), "", "", ""}
	switch {
	case c.Node != nil:
		row[2] = string(c.Node.Ring)
		row[3] = fmt.Sprintf("%d %s", c.Node.Index, c.Node.Label)
		row[4] = string(c.Node.Emphasis)
	case c.Curve != nil:
		row[2] = string(c.Curve.Ring)
		row[3] = string(c.Curve.Kind)
		if c.Curve.Kind == types.CurveHighlight {
			row[3] = c.Curve.Skill + " - " + c.Curve.Competence
		}
		row[4] = c.Curve.Path()
	}
	return row
}
