package metrics

import (
	"math"
	"sync/atomic"

	"github.com/omkit/omkit/pkg/expfmt"
)

// Gauge is an instantaneous value that can go up and down. The float64
// is stored as its bit pattern in a uint64 so loads and stores are
// atomic; Add runs a CAS loop.
//
// The zero value is a gauge at zero, ready to use. All methods are
// safe for concurrent use.
type Gauge struct {
	bits atomic.Uint64
}

// NewGauge returns a gauge starting at zero.
func NewGauge() *Gauge {
	return &Gauge{}
}

// Set sets the gauge to v.
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Inc adds one to the gauge.
func (g *Gauge) Inc() {
	g.Add(1)
}

// Dec subtracts one from the gauge.
func (g *Gauge) Dec() {
	g.Add(-1)
}

// Add adds delta to the gauge.
func (g *Gauge) Add(delta float64) {
	for {
		old := g.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if g.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Get returns the current reading.
func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Encode writes the gauge's single sample line: no suffix, no bucket
// label, the current reading.
func (g *Gauge) Encode(enc expfmt.Encoder) error {
	b, err := enc.NoSuffix()
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeFloat64(g.Get())
}

// Type reports the gauge type tag.
func (g *Gauge) Type() expfmt.MetricType {
	return expfmt.MetricTypeGauge
}

var _ expfmt.Metric = (*Gauge)(nil)

// GaugeFunc exposes a value read from a callback as a gauge. The
// callback runs on every encode and must be cheap and
// concurrency-safe; typical use is surfacing an instantaneous reading
// the runtime already tracks, such as runtime.NumGoroutine.
type GaugeFunc struct {
	fn func() float64
}

// NewGaugeFunc returns a gauge backed by fn.
func NewGaugeFunc(fn func() float64) *GaugeFunc {
	return &GaugeFunc{fn: fn}
}

// Get returns the callback's current value.
func (g *GaugeFunc) Get() float64 {
	return g.fn()
}

// Encode writes the gauge's single sample line.
func (g *GaugeFunc) Encode(enc expfmt.Encoder) error {
	b, err := enc.NoSuffix()
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeFloat64(g.Get())
}

// Type reports the gauge type tag.
func (g *GaugeFunc) Type() expfmt.MetricType {
	return expfmt.MetricTypeGauge
}

var _ expfmt.Metric = (*GaugeFunc)(nil)
