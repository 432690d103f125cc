package rendercli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/spf13/cobra"
)

func skillsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "List the skill ring in first-seen order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := g.load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			banner(w, "skill ring")

			ds := idx.Dataset()
			rows := make([][]string, 0, len(idx.Skills()))
			for i, sk := range idx.Skills() {
				var main, other []string
				for _, c := range ds {
					switch rel, _ := c.RelationTo(sk.Name); rel {
					case model.RelationMain:
						main = append(main, c.Name)
					case model.RelationOther:
						other = append(other, c.Name)
					}
				}
				rows = append(rows, []string{strconv.Itoa(i), sk.Name, strings.Join(main, ", "), strings.Join(other, ", ")})
			}
			table(w, []string{"#", "Skill", "Main in", "Other in"}, rows, func(_, col int, cell string) string {
				switch col {
				case 2:
					return Main.Sprint(cell)
				case 3:
					return Other.Sprint(cell)
				}
				return cell
			})
			fmt.Fprintf(w, "\n  %d skills across %d competences\n", len(idx.Skills()), len(ds))
			return nil
		},
	}
}
