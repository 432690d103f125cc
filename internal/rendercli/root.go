// Package rendercli implements the offline render command line: it draws the
// same diagrams as the server straight from a dataset file.
package rendercli

import (
	"errors"
	"fmt"

	"github.com/okian/skillwheel/internal/adapters/render"
	"github.com/okian/skillwheel/internal/adapters/repository"
	"github.com/okian/skillwheel/internal/domain/curve"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
	"github.com/spf13/cobra"
)

// Sentinel errors.
var (
	// ErrSelectionRequired is returned when a command needs a skill or competence.
	ErrSelectionRequired = errors.New("--skill or --competence is required")
	// ErrConcurrency is returned for an export concurrency below one.
	ErrConcurrency = errors.New("--concurrency must be at least 1")
)

// globals holds the persistent flags shared by every command.
type globals struct {
	dataset string
	style   string
	centerX float64
	centerY float64
	radius  float64
	noDim   bool
	width   int
	height  int
}

// NewRootCommand builds the render command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "render",
		Short:         "Render skill wheel diagrams offline",
		Long:          Brand.Sprint("render") + " draws the skill wheel from a dataset file (.json, .yaml or .toml)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&g.dataset, "dataset", "", "dataset file; empty uses the embedded sample")
	f.StringVar(&g.style, "style", string(curve.StyleSBend), "highlight style: sbend or quadratic")
	f.Float64Var(&g.centerX, "center-x", 960, "ring center x")
	f.Float64Var(&g.centerY, "center-y", 450, "ring center y")
	f.Float64Var(&g.radius, "radius", 350, "skill ring radius")
	f.BoolVar(&g.noDim, "no-dim", false, "do not dim unrelated nodes")
	f.IntVar(&g.width, "width", render.DefaultCanvasWidth, "canvas width")
	f.IntVar(&g.height, "height", render.DefaultCanvasHeight, "canvas height")

	root.AddCommand(
		svgCmd(g),
		skillsCmd(g),
		connectionsCmd(g),
		exportCmd(g),
		callsCmd(g),
	)
	return root
}

// Execute runs the command tree with os.Args.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errLine(err))
		return err
	}
	return nil
}

func errLine(err error) string {
	return Other.Sprint("error: ") + err.Error()
}

// load reads the dataset named by --dataset.
func (g *globals) load() (*selection.Index, error) {
	if g.dataset == "" {
		return selection.NewIndex(repository.Sample()), nil
	}
	ds, err := repository.LoadFile(g.dataset)
	if err != nil {
		return nil, err
	}
	return selection.NewIndex(ds), nil
}

func (g *globals) builder() (*plan.Builder, error) {
	style, err := curve.ParseStyle(g.style)
	if err != nil {
		return nil, err
	}
	return plan.NewBuilder(
		plan.WithGeometry(types.Point{X: g.centerX, Y: g.centerY}, g.radius),
		plan.WithStyle(style),
		plan.WithDimUnselected(!g.noDim),
	), nil
}

func (g *globals) svg() *render.SVG {
	return render.NewSVG(render.WithCanvas(g.width, g.height))
}

// selectFlags is the --skill / --competence pair, plus --index for
// competences sharing a name.
type selectFlags struct {
	skill      string
	competence string
	index      int
}

func (s *selectFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.skill, "skill", "", "select a skill")
	cmd.Flags().StringVar(&s.competence, "competence", "", "select a competence")
	cmd.Flags().IntVar(&s.index, "index", -1, "ring position of --competence")
	cmd.MarkFlagsMutuallyExclusive("skill", "competence")
	cmd.MarkFlagsMutuallyExclusive("skill", "index")
}

func (s *selectFlags) resolve(idx *selection.Index) (selection.Selection, error) {
	switch {
	case s.skill != "":
		return selection.Idle().Click(idx, model.RingSkill, s.skill)
	case s.competence != "":
		t := selection.Target{Ring: model.RingCompetence, Name: s.competence}
		if s.index >= 0 {
			t = t.At(s.index)
		}
		return selection.Idle().Select(idx, t)
	default:
		return selection.Idle(), nil
	}
}
