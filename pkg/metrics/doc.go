// Package metrics provides the metric kinds that render through the
// expfmt encoder: counters, gauges, histograms, and label-partitioned
// families of any of them.
//
// Supported kinds:
//   - Counter: monotonically increasing value (e.g., request counts)
//   - Gauge: value that can go up or down (e.g., active connections)
//   - Histogram: distribution of values across configurable buckets
//     (e.g., latencies)
//   - Family: one named metric split into children by label set
//
// CounterFunc and GaugeFunc variants read their value from a callback
// at encode time, for values something else already tracks.
//
// All kinds are safe for concurrent use and encode consistently while
// being updated from other goroutines.
//
// # Usage
//
//	reg := registry.New[expfmt.Metric]()
//
//	requests := metrics.NewFamily[expfmt.Labels, *metrics.Counter](metrics.NewCounter)
//	reg.Register("http_requests", "Number of HTTP requests handled", requests)
//
//	latency := metrics.NewHistogram(metrics.DefaultBuckets)
//	reg.RegisterWithUnit("http_request_duration", "Time spent handling a request",
//		registry.UnitSeconds, latency)
//
//	// On each request:
//	requests.GetOrCreate(expfmt.Labels{{Name: "method", Value: "GET"}, {Name: "status", Value: "200"}}).Inc()
//	latency.Observe(0.123)
//
//	// On each scrape:
//	expfmt.Encode(w, reg)
//
// # Runtime metrics
//
// RuntimeCollector registers goroutine, heap, stack, and GC metrics
// for the running process:
//
//	rc := metrics.NewRuntimeCollector(reg)
//	stop := rc.Start(10 * time.Second)
//	defer stop()
package metrics
