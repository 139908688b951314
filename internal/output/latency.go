package output

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// histogram range in microseconds: 1µs to 1 hour
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// LatencyRecorder collects call latencies for repeated runs. It is safe for
// concurrent use.
type LatencyRecorder struct {
	mu     sync.Mutex
	hist   *hdrhistogram.Histogram
	errors int64
}

// LatencySummary is a snapshot of a LatencyRecorder.
type LatencySummary struct {
	Count  int64         `json:"count" yaml:"count"`
	Errors int64         `json:"errors" yaml:"errors"`
	Min    time.Duration `json:"minNs" yaml:"minNs"`
	Mean   time.Duration `json:"meanNs" yaml:"meanNs"`
	Max    time.Duration `json:"maxNs" yaml:"maxNs"`
	P50    time.Duration `json:"p50Ns" yaml:"p50Ns"`
	P90    time.Duration `json:"p90Ns" yaml:"p90Ns"`
	P99    time.Duration `json:"p99Ns" yaml:"p99Ns"`
}

// NewLatencyRecorder creates an empty recorder.
func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record records one call. Failed calls are counted and their latency is
// recorded too.
func (r *LatencyRecorder) Record(d time.Duration, failed bool) {
	micros := d.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// RecordValue only fails out of range, which the clamp rules out
	_ = r.hist.RecordValue(micros)
	if failed {
		r.errors++
	}
}

// Summary returns the current percentiles.
func (r *LatencyRecorder) Summary() *LatencySummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	s := &LatencySummary{
		Count:  r.hist.TotalCount(),
		Errors: r.errors,
	}
	if s.Count == 0 {
		return s
	}
	s.Min = us(r.hist.Min())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.Max = us(r.hist.Max())
	s.P50 = us(r.hist.ValueAtQuantile(50))
	s.P90 = us(r.hist.ValueAtQuantile(90))
	s.P99 = us(r.hist.ValueAtQuantile(99))
	return s
}
