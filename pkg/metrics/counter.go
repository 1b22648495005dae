package metrics

import (
	"sync/atomic"

	"github.com/omkit/omkit/pkg/expfmt"
)

// Counter is a monotonically increasing value. The unsigned delta
// makes a decrease unrepresentable, so updates cannot fail.
//
// The zero value is a counter at zero, ready to use. All methods are
// safe for concurrent use.
type Counter struct {
	v atomic.Uint64
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Inc adds one to the counter.
func (c *Counter) Inc() {
	c.v.Add(1)
}

// Add adds delta to the counter.
func (c *Counter) Add(delta uint64) {
	c.v.Add(delta)
}

// Get returns the current count.
func (c *Counter) Get() uint64 {
	return c.v.Load()
}

// Encode writes the counter's single sample line: the _total suffix,
// no bucket label, the current count.
func (c *Counter) Encode(enc expfmt.Encoder) error {
	b, err := enc.EncodeSuffix("total")
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeUint64(c.Get())
}

// Type reports the counter type tag.
func (c *Counter) Type() expfmt.MetricType {
	return expfmt.MetricTypeCounter
}

var _ expfmt.Metric = (*Counter)(nil)

// CounterFunc exposes a value read from a callback as a counter. The
// callback runs on every encode and must be cheap, concurrency-safe,
// and monotonically non-decreasing; typical use is surfacing a total
// the runtime already tracks, such as runtime.NumCgoCall.
type CounterFunc struct {
	fn func() uint64
}

// NewCounterFunc returns a counter backed by fn.
func NewCounterFunc(fn func() uint64) *CounterFunc {
	return &CounterFunc{fn: fn}
}

// Get returns the callback's current value.
func (c *CounterFunc) Get() uint64 {
	return c.fn()
}

// Encode writes the counter's single sample line.
func (c *CounterFunc) Encode(enc expfmt.Encoder) error {
	b, err := enc.EncodeSuffix("total")
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeUint64(c.Get())
}

// Type reports the counter type tag.
func (c *CounterFunc) Type() expfmt.MetricType {
	return expfmt.MetricTypeCounter
}

var _ expfmt.Metric = (*CounterFunc)(nil)
