package metrics

import "fmt"

// DefaultBuckets covers typical request latencies in seconds, from 1ms
// to 10s.
var DefaultBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1,     // 1s
	2.5,   // 2.5s
	5,     // 5s
	10,    // 10s
}

// ExponentialBuckets returns count upper bounds where the first is
// start and each subsequent bound is the previous multiplied by
// factor. It panics when count is not positive, start is not positive,
// or factor is not greater than one, since such a series cannot be
// strictly increasing.
func ExponentialBuckets(start, factor float64, count int) []float64 {
	if count < 1 {
		panic(fmt.Sprintf("metrics: ExponentialBuckets needs a positive count, got %d", count))
	}
	if start <= 0 {
		panic(fmt.Sprintf("metrics: ExponentialBuckets needs a positive start, got %v", start))
	}
	if factor <= 1 {
		panic(fmt.Sprintf("metrics: ExponentialBuckets needs a factor greater than 1, got %v", factor))
	}

	bounds := make([]float64, count)
	for i := range bounds {
		bounds[i] = start
		start *= factor
	}
	return bounds
}

// LinearBuckets returns count upper bounds where the first is start
// and each subsequent bound is the previous plus width. It panics when
// count is not positive or width is not positive.
func LinearBuckets(start, width float64, count int) []float64 {
	if count < 1 {
		panic(fmt.Sprintf("metrics: LinearBuckets needs a positive count, got %d", count))
	}
	if width <= 0 {
		panic(fmt.Sprintf("metrics: LinearBuckets needs a positive width, got %v", width))
	}

	bounds := make([]float64, count)
	for i := range bounds {
		bounds[i] = start
		start += width
	}
	return bounds
}
