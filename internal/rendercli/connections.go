package rendercli

import (
	"fmt"
	"strconv"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/spf13/cobra"
)

func connectionsCmd(g *globals) *cobra.Command {
	var sel selectFlags
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "List the counterparts of a selected skill or competence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sel.skill == "" && sel.competence == "" {
				return ErrSelectionRequired
			}
			idx, err := g.load()
			if err != nil {
				return err
			}
			s, err := sel.resolve(idx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			banner(w, s.String())
			conns := idx.Connections(s)
			rows := make([][]string, 0, len(conns))
			for _, c := range conns {
				rows = append(rows, []string{
					c.Skill, strconv.Itoa(c.SkillIndex),
					c.Competence, strconv.Itoa(c.CompetenceIndex),
					string(c.Relation),
				})
			}
			table(w, []string{"Skill", "#", "Competence", "#", "Relation"}, rows, func(r, col int, cell string) string {
				if col != 4 {
					return cell
				}
				if conns[r].Relation == model.RelationMain {
					return Main.Sprint(cell)
				}
				return Other.Sprint(cell)
			})
			fmt.Fprintf(w, "\n  %d connections\n", len(conns))
			return nil
		},
	}
	sel.bind(cmd)
	return cmd
}
