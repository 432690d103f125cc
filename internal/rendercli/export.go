package rendercli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

// exportJob is one diagram to write.
type exportJob struct {
	file string
	sel  selection.Selection
}

func exportCmd(g *globals) *cobra.Command {
	var (
		dir         string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the idle diagram and one diagram per node into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if concurrency < 1 {
				return fmt.Errorf("%w: got %d", ErrConcurrency, concurrency)
			}
			idx, err := g.load()
			if err != nil {
				return err
			}
			b, err := g.builder()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			jobs := exportJobs(idx)
			var written atomic.Int64
			p := pool.New().WithErrors().WithMaxGoroutines(concurrency)
			for _, job := range jobs {
				p.Go(func() error {
					doc := g.svg()
					b.BuildIndexed(idx, job.sel).Paint(doc)
					path := filepath.Join(dir, job.file)
					if err := os.WriteFile(path, doc.Bytes(), 0o644); err != nil { //nolint:gosec // rendered diagrams are public
						return fmt.Errorf("write %s: %w", path, err)
					}
					written.Add(1)
					return nil
				})
			}
			err = p.Wait()

			w := cmd.OutOrStdout()
			Good.Fprintf(w, "  wrote %d of %d diagrams to %s\n", written.Load(), len(jobs), dir)
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "diagrams", "output directory")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", runtime.NumCPU(), "parallel renders")
	return cmd
}

// exportJobs lists the idle diagram and every possible single selection.
func exportJobs(idx *selection.Index) []exportJob {
	skills := idx.Skills()
	ds := idx.Dataset()
	jobs := make([]exportJob, 0, 1+len(skills)+len(ds))
	jobs = append(jobs, exportJob{file: "idle.svg", sel: selection.Idle()})
	for i, sk := range skills {
		jobs = append(jobs, exportJob{
			file: fmt.Sprintf("skill-%02d-%s.svg", i, slug(sk.Name)),
			sel:  selection.OfSkill(sk),
		})
	}
	for i, c := range ds {
		jobs = append(jobs, exportJob{
			file: fmt.Sprintf("%s-%02d-%s.svg", model.RingCompetence, i, slug(c.Name)),
			sel:  selection.OfCompetenceAt(c, i),
		})
	}
	return jobs
}

// slug lowercases name and replaces anything but letters and digits with '-'.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "unnamed"
	}
	return s
}
