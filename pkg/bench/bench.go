// Package bench compares the splay tree against plain slice splicing on a
// random workload.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/pliu/splayedit/pkg/config"
	"github.com/pliu/splayedit/pkg/edit"
	"github.com/pliu/splayedit/pkg/metrics"
	"github.com/pliu/splayedit/pkg/splay"
	"github.com/pliu/splayedit/pkg/utils"
	"gonum.org/v1/gonum/stat"
)

const (
	ImplTree  = "splay"
	ImplNaive = "naive"

	cancelCheckInterval = 256
)

type Runner struct {
	cfg   *config.BenchConfig
	clock clock.Clock
}

func NewRunner(cfg *config.BenchConfig) *Runner {
	return NewRunnerWithClock(cfg, clock.New())
}

func NewRunnerWithClock(cfg *config.BenchConfig, clk clock.Clock) *Runner {
	return &Runner{cfg: cfg, clock: clk}
}

// Summary describes one implementation's run.
type Summary struct {
	Impl  string
	Total time.Duration
	// Mean and StdDev are per-edit latencies in nanoseconds.
	Mean        float64
	StdDev      float64
	Percentiles map[float64]time.Duration
}

type Report struct {
	RunID  uuid.UUID
	Length int
	Edits  int
	Tree   *Summary
	// Naive is nil when the naive run was skipped.
	Naive *Summary
	Match bool
}

// Speedup returns how many times faster the tree run was, or 0 if either
// total is unknown.
func (r *Report) Speedup() float64 {
	if r == nil || r.Tree == nil || r.Naive == nil || r.Tree.Total <= 0 {
		return 0
	}
	return float64(r.Naive.Total) / float64(r.Tree.Total)
}

func (r *Report) String() string {
	s := fmt.Sprintf("run %s: %d edits on %d elements, %s %v (mean %.0fns, sd %.0fns)",
		r.RunID, r.Edits, r.Length, r.Tree.Impl, r.Tree.Total, r.Tree.Mean, r.Tree.StdDev)
	if r.Naive != nil {
		s += fmt.Sprintf(", %s %v (mean %.0fns, sd %.0fns), speedup %.1fx, match=%t",
			r.Naive.Impl, r.Naive.Total, r.Naive.Mean, r.Naive.StdDev, r.Speedup(), r.Match)
	}
	return s
}

// Run generates the workload and times both implementations over it.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	seed := r.cfg.Seed
	if seed == 0 {
		seed = r.clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	n := r.cfg.GetLength()
	seq := randomSequence(rng, []rune(r.cfg.GetAlphabet()), n)
	edits := make([]edit.Edit, r.cfg.GetRepeat())
	for idx := range edits {
		edits[idx] = edit.Random(rng, n)
	}

	report := &Report{RunID: uuid.New(), Length: n, Edits: len(edits)}
	metrics.SequenceLength.Set(float64(n))
	log.Info().Msgf("Bench %s: %d edits on %d elements (seed %d)", report.RunID, len(edits), n, seed)

	treeResult, treeSummary, err := r.runTree(ctx, seq, edits)
	if err != nil {
		return nil, err
	}
	report.Tree = treeSummary
	report.Match = true

	if !r.cfg.SkipNaive {
		naiveResult, naiveSummary, err := r.runNaive(ctx, seq, edits)
		if err != nil {
			return nil, err
		}
		report.Naive = naiveSummary
		report.Match = slices.Equal(treeResult, naiveResult)
		if !report.Match {
			metrics.BenchMismatchCount.Inc()
			log.Error().Msgf("Bench %s: tree and naive results differ", report.RunID)
		}
	}

	log.Info().Msg(report.String())
	return report, nil
}

func (r *Runner) runTree(ctx context.Context, seq []rune, edits []edit.Edit) ([]rune, *Summary, error) {
	window := r.newWindow()
	samples := make([]float64, 0, len(edits))

	start := r.clock.Now()
	tree := splay.New(seq)
	for idx, e := range edits {
		if idx%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		before := r.clock.Now()
		tree.Process(e.I, e.J, e.K)
		samples = r.record(ImplTree, window, samples, r.clock.Since(before))
	}
	result := tree.Result()
	total := r.clock.Since(start)

	if r.cfg.Verify {
		if err := tree.Check(); err != nil {
			return nil, nil, fmt.Errorf("tree check after %d edits: %w", len(edits), err)
		}
	}
	return result, r.summarize(ImplTree, total, window, samples), nil
}

func (r *Runner) runNaive(ctx context.Context, seq []rune, edits []edit.Edit) ([]rune, *Summary, error) {
	window := r.newWindow()
	samples := make([]float64, 0, len(edits))

	start := r.clock.Now()
	cur := slices.Clone(seq)
	for idx, e := range edits {
		if idx%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		before := r.clock.Now()
		cur = edit.Splice(cur, e)
		samples = r.record(ImplNaive, window, samples, r.clock.Since(before))
	}
	total := r.clock.Since(start)
	return cur, r.summarize(ImplNaive, total, window, samples), nil
}

func (r *Runner) newWindow() *utils.LatencyWindow {
	return utils.NewLatencyWindowWithClock(time.Duration(r.cfg.GetStatsWindowSeconds())*time.Second, r.clock)
}

func (r *Runner) record(impl string, window *utils.LatencyWindow, samples []float64, d time.Duration) []float64 {
	window.Add(d)
	metrics.EditLatencyHistogram.WithLabelValues(impl).Observe(float64(d.Nanoseconds()))
	return append(samples, float64(d.Nanoseconds()))
}

func (r *Runner) summarize(impl string, total time.Duration, window *utils.LatencyWindow, samples []float64) *Summary {
	s := &Summary{Impl: impl, Total: total, Percentiles: map[float64]time.Duration{}}
	switch len(samples) {
	case 0:
	case 1:
		s.Mean = samples[0]
	default:
		s.Mean, s.StdDev = stat.MeanStdDev(samples, nil)
	}

	percentiles := r.cfg.GetPercentiles()
	if values, ok := window.Percentile(percentiles); ok {
		for idx, p := range percentiles {
			s.Percentiles[p] = values[idx]
			metrics.EditLatencyQuantile.WithLabelValues(impl, strconv.FormatFloat(p, 'f', -1, 64)).Set(float64(values[idx].Nanoseconds()))
		}
	}
	metrics.BenchRunSeconds.WithLabelValues(impl).Set(total.Seconds())
	log.Debug().Msgf("%s: total %v, mean %.0fns, sd %.0fns, percentiles %v", impl, total, s.Mean, s.StdDev, s.Percentiles)
	return s
}

func randomSequence(rng *rand.Rand, alphabet []rune, n int) []rune {
	seq := make([]rune, n)
	for idx := range seq {
		seq[idx] = alphabet[rng.Intn(len(alphabet))]
	}
	return seq
}
