package rendercli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func svgCmd(g *globals) *cobra.Command {
	var (
		sel selectFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render one diagram as SVG",
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

			doc := g.svg()
			b.BuildIndexed(idx, s).Paint(doc)

			if out == "" || out == "-" {
				_, err = doc.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(out, doc.Bytes(), 0o644); err != nil { //nolint:gosec // rendered diagrams are public
				return fmt.Errorf("write %s: %w", out, err)
			}
			Good.Fprintf(cmd.ErrOrStderr(), "  wrote %s (%s)\n", out, s)
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; empty or - writes to stdout")
	return cmd
}
