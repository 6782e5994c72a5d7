package utils

import (
	"container/list"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// LatencyWindow tracks duration samples in a sliding time window and answers
// average and percentile queries over the samples still inside it.
type LatencyWindow struct {
	mu         sync.Mutex
	samples    *rankTree
	window     *list.List
	windowSize time.Duration
	clock      clock.Clock
	sum        time.Duration
}

func NewLatencyWindow(windowSize time.Duration) *LatencyWindow {
	return NewLatencyWindowWithClock(windowSize, clock.New())
}

func NewLatencyWindowWithClock(windowSize time.Duration, clk clock.Clock) *LatencyWindow {
	return &LatencyWindow{
		samples:    &rankTree{},
		window:     list.New(),
		windowSize: windowSize,
		clock:      clk,
	}
}

type sample struct {
	timestamp time.Time
	latency   time.Duration
}

// Add records one sample taken now.
func (w *LatencyWindow) Add(latency time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	w.samples.Insert(latency)
	w.window.PushBack(&sample{timestamp: now, latency: latency})
	w.sum += latency
	w.cleanup(now)
}

func (w *LatencyWindow) Average() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	count := w.samples.Len()
	if count == 0 {
		return 0, false
	}
	return w.sum / time.Duration(count), true
}

// Percentile returns the sample at each requested percentile in [0, 100].
func (w *LatencyWindow) Percentile(percentiles []float64) ([]time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(percentiles) == 0 {
		return nil, false
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return nil, false
		}
	}

	count := w.samples.Len()
	if count == 0 {
		return nil, false
	}

	results := make([]time.Duration, 0, len(percentiles))
	for _, p := range percentiles {
		index := int(float64(count-1) * (p / 100.0))
		v, ok := w.samples.Select(index)
		if !ok {
			return nil, false
		}
		results = append(results, v)
	}
	return results, true
}

func (w *LatencyWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samples.Len()
}

// cleanup drops samples older than the window size. The list is in
// timestamp order so it stops at the first sample still inside.
func (w *LatencyWindow) cleanup(now time.Time) {
	for e := w.window.Front(); e != nil; e = w.window.Front() {
		s := e.Value.(*sample)
		if now.Sub(s.timestamp) <= w.windowSize {
			return
		}
		w.samples.Delete(s.latency)
		w.sum -= s.latency
		w.window.Remove(e)
	}
}
