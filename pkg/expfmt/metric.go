package expfmt

// MetricType identifies the exposition type of a metric. It is written
// verbatim as the token on # TYPE lines.
type MetricType string

// Metric types known to the OpenMetrics text format.
const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
	MetricTypeUnknown   MetricType = "unknown"
)

// Metric is the capability a metric kind needs to appear in an
// exposition: rendering its own sample lines and reporting its type.
//
// Encode writes every sample line of the metric through the staged
// encoder it receives. Implementations must be safe to call while the
// metric is concurrently updated, and must propagate writer errors
// unchanged.
//
// Storing Metric values in a registry gives dynamic dispatch across
// heterogeneous kinds; the interface value forwards both calls to the
// underlying kind untouched.
type Metric interface {
	Encode(enc Encoder) error
	Type() MetricType
}
