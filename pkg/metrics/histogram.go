package metrics

import (
	"math"
	"sort"
	"sync"

	"github.com/omkit/omkit/pkg/expfmt"
)

// Bucket is one (upper bound, cumulative count) pair of a histogram
// snapshot. CumulativeCount is the number of observations less than or
// equal to UpperBound, including all lower buckets.
type Bucket struct {
	UpperBound      float64
	CumulativeCount uint64
}

// Histogram tracks the distribution of observed values across a fixed
// set of buckets, together with the running sum and count of all
// observations.
//
// A single mutex guards sum, count, and the per-bucket counts, so a
// snapshot is one consistent read: its sum, count, and buckets always
// describe the same set of observations. All methods are safe for
// concurrent use.
type Histogram struct {
	mu           sync.Mutex
	upperBounds  []float64
	bucketCounts []uint64
	sum          float64
	count        uint64
}

// NewHistogram returns a histogram with the given bucket upper bounds.
// The bounds are copied, sorted ascending, and extended with a +Inf
// bucket when the largest bound is finite, so every observation lands
// somewhere.
func NewHistogram(upperBounds []float64) *Histogram {
	bounds := make([]float64, len(upperBounds))
	copy(bounds, upperBounds)
	sort.Float64s(bounds)

	if len(bounds) == 0 || !math.IsInf(bounds[len(bounds)-1], +1) {
		bounds = append(bounds, math.Inf(+1))
	}

	return &Histogram{
		upperBounds:  bounds,
		bucketCounts: make([]uint64, len(bounds)),
	}
}

// Observe records v in the first bucket whose upper bound is >= v and
// updates the running sum and count.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, bound := range h.upperBounds {
		if v <= bound {
			h.bucketCounts[i]++
			break
		}
	}
	h.sum += v
	h.count++
}

// Snapshot returns the current sum, count, and buckets as one
// consistent read. Buckets are in ascending upper-bound order with
// cumulative counts; the last bucket's bound is +Inf and its count
// equals the total count.
func (h *Histogram) Snapshot() (sum float64, count uint64, buckets []Bucket) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buckets = make([]Bucket, len(h.upperBounds))
	var cumulative uint64
	for i, bound := range h.upperBounds {
		cumulative += h.bucketCounts[i]
		buckets[i] = Bucket{UpperBound: bound, CumulativeCount: cumulative}
	}
	return h.sum, h.count, buckets
}

// Encode writes one _sum line, one _count line, and one _bucket line
// per bucket in ascending-bound order, each carrying the le label. A
// histogram that has never been observed still writes _sum 0, _count
// 0, and every configured bucket at 0.
func (h *Histogram) Encode(enc expfmt.Encoder) error {
	sum, count, buckets := h.Snapshot()

	b, err := enc.EncodeSuffix("sum")
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	if err := v.EncodeFloat64(sum); err != nil {
		return err
	}

	b, err = enc.EncodeSuffix("count")
	if err != nil {
		return err
	}
	v, err = b.NoBucket()
	if err != nil {
		return err
	}
	if err := v.EncodeUint64(count); err != nil {
		return err
	}

	for _, bucket := range buckets {
		b, err = enc.EncodeSuffix("bucket")
		if err != nil {
			return err
		}
		v, err = b.EncodeBucket(bucket.UpperBound)
		if err != nil {
			return err
		}
		if err := v.EncodeUint64(bucket.CumulativeCount); err != nil {
			return err
		}
	}
	return nil
}

// Type reports the histogram type tag.
func (h *Histogram) Type() expfmt.MetricType {
	return expfmt.MetricTypeHistogram
}

var _ expfmt.Metric = (*Histogram)(nil)
