package utils

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestLatencyWindow_BasicPercentiles(t *testing.T) {
	w := NewLatencyWindowWithClock(1*time.Second, clock.NewMock())

	// Add 100 values from 1ms to 100ms
	for i := 1; i <= 100; i++ {
		w.Add(time.Duration(i) * time.Millisecond)
	}

	values, ok := w.Percentile([]float64{50, 90, 99, 100})
	require.True(t, ok)
	require.Equal(t, []time.Duration{50 * time.Millisecond, 90 * time.Millisecond, 99 * time.Millisecond, 100 * time.Millisecond}, values)

	avg, ok := w.Average()
	require.True(t, ok)
	require.Equal(t, 50500*time.Microsecond, avg)
}

func TestLatencyWindow_Empty(t *testing.T) {
	w := NewLatencyWindowWithClock(1*time.Second, clock.NewMock())
	_, ok := w.Average()
	require.False(t, ok)
	_, ok = w.Percentile([]float64{50})
	require.False(t, ok)

	w.Add(time.Millisecond)
	_, ok = w.Percentile(nil)
	require.False(t, ok)
	_, ok = w.Percentile([]float64{101})
	require.False(t, ok)
}

func TestLatencyWindow_SlidingWindow(t *testing.T) {
	windowSize := 1 * time.Second
	mockClock := clock.NewMock()
	w := NewLatencyWindowWithClock(windowSize, mockClock)

	for i := 1; i <= 100; i++ {
		w.Add(time.Duration(i))
	}
	require.Equal(t, 100, w.Len())

	// Advance clock by half the window size
	mockClock.Add(windowSize / 2)

	for i := 101; i <= 200; i++ {
		w.Add(time.Duration(i))
	}
	require.Equal(t, 200, w.Len())

	vals, ok := w.Percentile([]float64{50, 95, 99})
	require.True(t, ok)
	require.Equal(t, []time.Duration{100, 190, 198}, vals)

	// Advance clock so the first set expires
	mockClock.Add(windowSize/2 + 1*time.Millisecond)

	for i := 201; i <= 300; i++ {
		w.Add(time.Duration(i))
	}
	require.Equal(t, 200, w.Len())

	vals, ok = w.Percentile([]float64{50, 95, 99})
	require.True(t, ok)
	require.Equal(t, []time.Duration{200, 290, 298}, vals)
	avg, ok := w.Average()
	require.True(t, ok)
	require.Equal(t, time.Duration(200), avg)
}

func TestRankTree_RandomizedAgainstSlice(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	rt := &rankTree{}
	var ref []time.Duration

	for range 2000 {
		if len(ref) > 0 && r.Intn(3) == 0 {
			idx := r.Intn(len(ref))
			rt.Delete(ref[idx])
			ref = append(ref[:idx], ref[idx+1:]...)
			continue
		}
		v := time.Duration(r.Intn(200))
		rt.Insert(v)
		ref = append(ref, v)
	}

	require.Equal(t, len(ref), rt.Len())
	sorted := append([]time.Duration(nil), ref...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for i, want := range sorted {
		got, ok := rt.Select(i)
		require.True(t, ok)
		require.Equal(t, want, got, "rank %d", i)
	}
	_, ok := rt.Select(len(sorted))
	require.False(t, ok)
	requireRedBlack(t, rt.root)
}

func TestRankTree_DeleteMissing(t *testing.T) {
	rt := &rankTree{}
	rt.Delete(5)
	require.Equal(t, 0, rt.Len())
	rt.Insert(5)
	rt.Insert(5)
	rt.Delete(7)
	require.Equal(t, 2, rt.Len())
	rt.Delete(5)
	rt.Delete(5)
	require.Equal(t, 0, rt.Len())
	require.Nil(t, rt.root)
}

// requireRedBlack checks sizes, parent links, no red-red edges and equal
// black height on every path, returning the black height.
func requireRedBlack(t *testing.T, n *rankNode) int {
	t.Helper()
	if n == nil {
		return 1
	}
	if n.color == colorRed {
		require.Equal(t, colorBlack, colorOf(n.left))
		require.Equal(t, colorBlack, colorOf(n.right))
	}
	for _, c := range []*rankNode{n.left, n.right} {
		if c != nil {
			require.Same(t, n, c.parent)
		}
	}
	require.Equal(t, n.count+sizeOf(n.left)+sizeOf(n.right), n.size)
	lh := requireRedBlack(t, n.left)
	rh := requireRedBlack(t, n.right)
	require.Equal(t, lh, rh)
	if n.color == colorBlack {
		return lh + 1
	}
	return lh
}
