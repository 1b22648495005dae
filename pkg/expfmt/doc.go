// Package expfmt renders metrics in the OpenMetrics text exposition
// format, the plain-text document a pull-based metrics collector
// scrapes.
//
// The entry point is Encode, which walks a registry and writes one
// block per entry — # HELP, # TYPE, an optional # UNIT, then the
// metric's sample lines — followed by the terminal # EOF marker:
//
//	reg := registry.New[expfmt.Metric]()
//	counter := metrics.NewCounter()
//	reg.Register("my_counter", "This is my counter", counter)
//	counter.Inc()
//
//	var buf bytes.Buffer
//	err := expfmt.Encode(&buf, reg)
//
//	// # HELP my_counter This is my counter.
//	// # TYPE my_counter counter
//	// my_counter_total 1
//	// # EOF
//
// # Staged encoding
//
// Sample lines are produced through a staged protocol rather than ad
// hoc string building. An Encoder is bound to the metric's name,
// optional unit, and optional label set; choosing a name suffix yields
// a BucketEncoder, deciding the bucket-label question yields a
// ValueEncoder, and writing the value terminates the line. Each stage
// only offers the operations that are legal next, so a value cannot be
// written before the label block closes, a sample cannot carry two
// label sets, and the bucket decision cannot be skipped.
//
// # Concurrency
//
// Encoding is a synchronous traversal that is safe to run while
// metrics are being updated from other goroutines. Values are read
// through the individual metrics' own synchronization, so two metrics
// read in one pass may reflect different instants; there is no global
// snapshot across a registry.
//
// # Errors
//
// The only runtime error is a sink write failure. It propagates
// unchanged through every stage and aborts the pass, leaving the
// output truncated mid-document; callers that need all-or-nothing
// output must encode into a buffer first (omhttp does). Misuse of the
// staged protocol is a programming error and panics.
package expfmt
