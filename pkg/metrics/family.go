package metrics

import (
	"strings"
	"sync"

	"github.com/omkit/omkit/pkg/expfmt"
)

// Family groups children of one metric under distinct label sets:
// request counters split by method and status, latency histograms
// split by route. Children are created on first use and live for the
// family's lifetime.
//
// S is the label-set type shared by all children; M is the child
// metric type. Children are keyed by the label set's canonical
// rendering, so two label sets that encode to the same bytes address
// the same child.
//
// All methods are safe for concurrent use. Encoding a family holds its
// read lock for the whole enumeration: creating a brand-new label
// combination blocks until the pass over this family finishes, while
// updates to existing children go through their own atomics and are
// never blocked.
type Family[S expfmt.LabelSet, M expfmt.Metric] struct {
	newMetric func() M
	typ       expfmt.MetricType

	mu      sync.RWMutex
	index   map[string]int // canonical label rendering -> entries position
	entries []familyEntry[S, M]
}

type familyEntry[S expfmt.LabelSet, M expfmt.Metric] struct {
	labels S
	metric M
}

// NewFamily returns a family whose children are built by newMetric.
// For kinds with parameterless constructors the constructor itself is
// the argument (NewCounter, NewGauge); histograms close over their
// bucket bounds:
//
//	latency := metrics.NewFamily[expfmt.Labels, *metrics.Histogram](func() *metrics.Histogram {
//		return metrics.NewHistogram(metrics.DefaultBuckets)
//	})
//
// The family's type tag is probed from one throwaway child here, so
// newMetric must not have observable side effects.
func NewFamily[S expfmt.LabelSet, M expfmt.Metric](newMetric func() M) *Family[S, M] {
	return &Family[S, M]{
		newMetric: newMetric,
		typ:       newMetric().Type(),
		index:     make(map[string]int),
	}
}

// GetOrCreate returns the child for the given label set, creating it
// on first use. The fast path is a read-locked lookup; a miss upgrades
// to the write lock and re-checks before inserting, so two racing
// callers agree on one child.
func (f *Family[S, M]) GetOrCreate(labels S) M {
	key := labelKey(labels)

	f.mu.RLock()
	if i, ok := f.index[key]; ok {
		m := f.entries[i].metric
		f.mu.RUnlock()
		return m
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.index[key]; ok {
		return f.entries[i].metric
	}

	m := f.newMetric()
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, familyEntry[S, M]{labels: labels, metric: m})
	return m
}

// Len returns the number of children.
func (f *Family[S, M]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// Encode writes every child's sample lines under its label set, in
// child creation order. Creation order, not map order, keeps repeated
// encodes of an unmutated family byte-identical.
func (f *Family[S, M]) Encode(enc expfmt.Encoder) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, entry := range f.entries {
		if err := entry.metric.Encode(enc.WithLabelSet(entry.labels)); err != nil {
			return err
		}
	}
	return nil
}

// Type reports the child type tag.
func (f *Family[S, M]) Type() expfmt.MetricType {
	return f.typ
}

var _ expfmt.Metric = (*Family[expfmt.Labels, *Counter])(nil)

// labelKey renders a label set to its canonical string form.
func labelKey(labels expfmt.LabelSet) string {
	var sb strings.Builder
	// strings.Builder writes cannot fail.
	_ = labels.EncodeLabels(&sb)
	return sb.String()
}
