package bench

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pliu/splayedit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	cfg := &config.BenchConfig{
		Length:      500,
		Repeat:      2000,
		Seed:        42,
		Alphabet:    "ab",
		Verify:      true,
		Percentiles: []float64{50, 99},
	}
	report, err := NewRunnerWithClock(cfg, clock.NewMock()).Run(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, report.RunID)
	require.Equal(t, 500, report.Length)
	require.Equal(t, 2000, report.Edits)
	require.True(t, report.Match)
	require.NotNil(t, report.Tree)
	require.NotNil(t, report.Naive)
	assert.Equal(t, ImplTree, report.Tree.Impl)
	assert.Equal(t, ImplNaive, report.Naive.Impl)
	assert.Len(t, report.Tree.Percentiles, 2)
	assert.Contains(t, report.Tree.Percentiles, 99.0)

	// The mock clock never moves, so every latency is zero.
	assert.Zero(t, report.Tree.Total)
	assert.Zero(t, report.Tree.Mean)
	assert.Zero(t, report.Speedup())
}

func TestRunner_SkipNaive(t *testing.T) {
	cfg := &config.BenchConfig{Length: 100, Repeat: 10, Seed: 1, SkipNaive: true}
	report, err := NewRunnerWithClock(cfg, clock.NewMock()).Run(context.Background())
	require.NoError(t, err)
	require.Nil(t, report.Naive)
	require.True(t, report.Match)
	require.Zero(t, report.Speedup())
	require.NotContains(t, report.String(), "speedup")
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &config.BenchConfig{Length: 100, Repeat: 10, Seed: 1}
	_, err := NewRunnerWithClock(cfg, clock.NewMock()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_SingleEdit(t *testing.T) {
	cfg := &config.BenchConfig{Length: 10, Repeat: 1, Seed: 7}
	report, err := NewRunnerWithClock(cfg, clock.NewMock()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Match)
	require.Zero(t, report.Tree.StdDev)
}

func TestReport_Speedup(t *testing.T) {
	r := &Report{
		Tree:  &Summary{Impl: ImplTree, Total: 2 * time.Second},
		Naive: &Summary{Impl: ImplNaive, Total: 30 * time.Second},
	}
	require.InDelta(t, 15.0, r.Speedup(), 1e-9)

	r.Tree.Total = 0
	require.Zero(t, r.Speedup())

	var nilReport *Report
	require.Zero(t, nilReport.Speedup())
}

func TestRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seq := randomSequence(rng, []rune("xyz"), 1000)
	require.Len(t, seq, 1000)
	for _, r := range seq {
		require.Contains(t, []rune("xyz"), r)
	}
}
