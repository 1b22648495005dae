package expfmt

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkit/omkit/pkg/registry"
)

// Fixed-value metric stubs. Real metric kinds live elsewhere; these
// pin down the encoder's output byte for byte without any state.

type stubCounter struct {
	val    uint64
	labels LabelSet
}

func (c stubCounter) Encode(enc Encoder) error {
	if c.labels != nil {
		enc = enc.WithLabelSet(c.labels)
	}
	b, err := enc.EncodeSuffix("total")
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeUint64(c.val)
}

func (stubCounter) Type() MetricType { return MetricTypeCounter }

type stubGauge struct {
	val    float64
	labels LabelSet
}

func (g stubGauge) Encode(enc Encoder) error {
	if g.labels != nil {
		enc = enc.WithLabelSet(g.labels)
	}
	b, err := enc.NoSuffix()
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	return v.EncodeFloat64(g.val)
}

func (stubGauge) Type() MetricType { return MetricTypeGauge }

type stubBucket struct {
	upper float64
	count uint64
}

type stubHistogram struct {
	sum     float64
	count   uint64
	buckets []stubBucket
	labels  LabelSet
}

func (h stubHistogram) Encode(enc Encoder) error {
	if h.labels != nil {
		enc = enc.WithLabelSet(h.labels)
	}

	b, err := enc.EncodeSuffix("sum")
	if err != nil {
		return err
	}
	v, err := b.NoBucket()
	if err != nil {
		return err
	}
	if err := v.EncodeFloat64(h.sum); err != nil {
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
	if err := v.EncodeUint64(h.count); err != nil {
		return err
	}

	for _, bucket := range h.buckets {
		b, err = enc.EncodeSuffix("bucket")
		if err != nil {
			return err
		}
		v, err = b.EncodeBucket(bucket.upper)
		if err != nil {
			return err
		}
		if err := v.EncodeUint64(bucket.count); err != nil {
			return err
		}
	}
	return nil
}

func (stubHistogram) Type() MetricType { return MetricTypeHistogram }

type failingMetric struct {
	err error
}

func (f failingMetric) Encode(Encoder) error { return f.err }
func (failingMetric) Type() MetricType       { return MetricTypeUnknown }

// errWriter fails every write with a fixed error.
type errWriter struct {
	err error
}

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEncodeEmptyRegistry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, registry.New[Metric]()))
	assert.Equal(t, "# EOF\n", buf.String())
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		register func(reg *registry.Registry[Metric])
		want     string
	}{
		{
			name: "counter",
			register: func(reg *registry.Registry[Metric]) {
				reg.Register("my_counter", "This is my counter", stubCounter{val: 1})
			},
			want: "# HELP my_counter This is my counter.\n" +
				"# TYPE my_counter counter\n" +
				"my_counter_total 1\n" +
				"# EOF\n",
		},
		{
			name: "counter with unit",
			register: func(reg *registry.Registry[Metric]) {
				reg.RegisterWithUnit("my_counter", "My counter", registry.UnitSeconds, stubCounter{val: 0})
			},
			want: "# HELP my_counter_seconds My counter.\n" +
				"# TYPE my_counter_seconds counter\n" +
				"# UNIT my_counter_seconds seconds\n" +
				"my_counter_seconds_total 0\n" +
				"# EOF\n",
		},
		{
			name: "gauge",
			register: func(reg *registry.Registry[Metric]) {
				reg.Register("my_gauge", "My gauge", stubGauge{val: 2.5})
			},
			want: "# HELP my_gauge My gauge.\n" +
				"# TYPE my_gauge gauge\n" +
				"my_gauge 2.5\n" +
				"# EOF\n",
		},
		{
			name: "labeled counter",
			register: func(reg *registry.Registry[Metric]) {
				reg.Register("my_counter", "My counter", stubCounter{
					val:    7,
					labels: Labels{{"method", "GET"}, {"status", "200"}},
				})
			},
			want: "# HELP my_counter My counter.\n" +
				"# TYPE my_counter counter\n" +
				"my_counter_total{method=\"GET\",status=\"200\"} 7\n" +
				"# EOF\n",
		},
		{
			name: "registration order preserved",
			register: func(reg *registry.Registry[Metric]) {
				reg.Register("zz_last_alphabetically", "First registered", stubCounter{val: 1})
				reg.Register("aa_first_alphabetically", "Second registered", stubCounter{val: 2})
			},
			want: "# HELP zz_last_alphabetically First registered.\n" +
				"# TYPE zz_last_alphabetically counter\n" +
				"zz_last_alphabetically_total 1\n" +
				"# HELP aa_first_alphabetically Second registered.\n" +
				"# TYPE aa_first_alphabetically counter\n" +
				"aa_first_alphabetically_total 2\n" +
				"# EOF\n",
		},
		{
			name: "help text escaped",
			register: func(reg *registry.Registry[Metric]) {
				reg.Register("my_counter", "Line one\nline two \\ done", stubCounter{val: 3})
			},
			want: "# HELP my_counter Line one\\nline two \\\\ done.\n" +
				"# TYPE my_counter counter\n" +
				"my_counter_total 3\n" +
				"# EOF\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := registry.New[Metric]()
			tt.register(reg)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, reg))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestEncodeHistogram(t *testing.T) {
	t.Parallel()

	hist := stubHistogram{
		sum:   1.5,
		count: 1,
		buckets: []stubBucket{
			{upper: 0.5, count: 0},
			{upper: 1, count: 0},
			{upper: math.Inf(+1), count: 1},
		},
	}

	reg := registry.New[Metric]()
	reg.Register("my_histogram", "My histogram", hist)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, reg))

	want := "# HELP my_histogram My histogram.\n" +
		"# TYPE my_histogram histogram\n" +
		"my_histogram_sum 1.5\n" +
		"my_histogram_count 1\n" +
		"my_histogram_bucket{le=\"0.5\"} 0\n" +
		"my_histogram_bucket{le=\"1\"} 0\n" +
		"my_histogram_bucket{le=\"+Inf\"} 1\n" +
		"# EOF\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeHistogramWithLabels(t *testing.T) {
	t.Parallel()

	// The bucket label joins an existing label block with ", ", so
	// labeled bucket lines read {method="GET", le="0.5"}.
	hist := stubHistogram{
		sum:   0.25,
		count: 1,
		buckets: []stubBucket{
			{upper: 0.5, count: 1},
			{upper: math.Inf(+1), count: 1},
		},
		labels: Labels{{"method", "GET"}},
	}

	reg := registry.New[Metric]()
	reg.Register("my_histogram", "My histogram", hist)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, reg))

	want := "# HELP my_histogram My histogram.\n" +
		"# TYPE my_histogram histogram\n" +
		"my_histogram_sum{method=\"GET\"} 0.25\n" +
		"my_histogram_count{method=\"GET\"} 1\n" +
		"my_histogram_bucket{method=\"GET\", le=\"0.5\"} 1\n" +
		"my_histogram_bucket{method=\"GET\", le=\"+Inf\"} 1\n" +
		"# EOF\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	reg := registry.New[Metric]()
	reg.Register("a_counter", "A counter", stubCounter{val: 1})
	reg.RegisterWithUnit("b_gauge", "B gauge", registry.UnitBytes, stubGauge{val: 9.5})

	var first bytes.Buffer
	require.NoError(t, Encode(&first, reg))

	var second bytes.Buffer
	require.NoError(t, Encode(&second, reg))

	assert.Equal(t, first.String(), second.String())
}

func TestWithLabelSetTwicePanics(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(&bytes.Buffer{}, "my_metric", "")
	scoped := enc.WithLabelSet(Labels{{"a", "1"}})

	assert.Panics(t, func() {
		scoped.WithLabelSet(Labels{{"b", "2"}})
	})
}

func TestEncodeWriterError(t *testing.T) {
	t.Parallel()

	errSink := errors.New("sink closed")

	reg := registry.New[Metric]()
	reg.Register("my_counter", "My counter", stubCounter{val: 1})

	err := Encode(errWriter{err: errSink}, reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSink)
}

func TestEncodeMetricError(t *testing.T) {
	t.Parallel()

	errMetric := errors.New("metric gone")

	reg := registry.New[Metric]()
	reg.Register("my_metric", "My metric", failingMetric{err: errMetric})

	var buf bytes.Buffer
	err := Encode(&buf, reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMetric)
}

func TestStagedEncoderDirect(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := NewEncoder(&buf, "requests", registry.UnitSeconds)

	b, err := enc.EncodeSuffix("total")
	require.NoError(t, err)
	v, err := b.NoBucket()
	require.NoError(t, err)
	require.NoError(t, v.EncodeUint64(10))

	assert.Equal(t, "requests_seconds_total 10\n", buf.String())
}

func TestBucketEncoderOpensOwnBlock(t *testing.T) {
	t.Parallel()

	// Without a label set the bucket label opens and closes its own
	// block.
	var buf bytes.Buffer
	enc := NewEncoder(&buf, "latency", "")

	b, err := enc.EncodeSuffix("bucket")
	require.NoError(t, err)
	v, err := b.EncodeBucket(0.005)
	require.NoError(t, err)
	require.NoError(t, v.EncodeUint64(0))

	assert.Equal(t, "latency_bucket{le=\"0.005\"} 0\n", buf.String())
}
