package metrics

import (
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/omkit/omkit/pkg/expfmt"
	"github.com/omkit/omkit/pkg/registry"
)

// RuntimeCollector registers Go runtime metrics on a registry.
//
// Cheap readings (goroutine count, thread count, uptime, cgo calls)
// are read live at encode time through callback metrics. Readings that
// come out of runtime.MemStats are sampled into gauges by Collect
// instead, since runtime.ReadMemStats stops the world and must not run
// on every scrape.
type RuntimeCollector struct {
	startTime time.Time

	heapAlloc   *Gauge
	heapSys     *Gauge
	heapIdle    *Gauge
	heapInuse   *Gauge
	heapObjects *Gauge
	stackInuse  *Gauge
	gcPause     *Gauge
	gcLastPause *Gauge

	// NumGC sampled by Collect, exposed through a CounterFunc.
	gcCycles atomic.Uint64
}

// NewRuntimeCollector creates the collector and registers its metrics.
// Call Collect (or Start) afterwards to populate the sampled values.
func NewRuntimeCollector(reg *registry.Registry[expfmt.Metric]) *RuntimeCollector {
	rc := &RuntimeCollector{
		startTime:   time.Now(),
		heapAlloc:   NewGauge(),
		heapSys:     NewGauge(),
		heapIdle:    NewGauge(),
		heapInuse:   NewGauge(),
		heapObjects: NewGauge(),
		stackInuse:  NewGauge(),
		gcPause:     NewGauge(),
		gcLastPause: NewGauge(),
	}

	reg.Register("go_goroutines",
		"Number of goroutines that currently exist",
		NewGaugeFunc(func() float64 { return float64(runtime.NumGoroutine()) }))
	reg.Register("go_threads",
		"Number of OS threads created",
		NewGaugeFunc(func() float64 {
			n, ok := numThreads()
			if !ok {
				return 0
			}
			return float64(n)
		}))
	reg.RegisterWithUnit("go_process_uptime",
		"Time since the collector was created",
		registry.UnitSeconds,
		NewGaugeFunc(func() float64 { return time.Since(rc.startTime).Seconds() }))
	reg.Register("go_cgo_calls",
		"Number of cgo calls made by the current process",
		NewCounterFunc(func() uint64 { return uint64(runtime.NumCgoCall()) }))

	reg.RegisterWithUnit("go_memstats_heap_alloc",
		"Heap bytes allocated and still in use",
		registry.UnitBytes, rc.heapAlloc)
	reg.RegisterWithUnit("go_memstats_heap_sys",
		"Heap bytes obtained from the system",
		registry.UnitBytes, rc.heapSys)
	reg.RegisterWithUnit("go_memstats_heap_idle",
		"Heap bytes waiting to be used",
		registry.UnitBytes, rc.heapIdle)
	reg.RegisterWithUnit("go_memstats_heap_inuse",
		"Heap bytes that are in use",
		registry.UnitBytes, rc.heapInuse)
	reg.Register("go_memstats_heap_objects",
		"Number of allocated heap objects",
		rc.heapObjects)
	reg.RegisterWithUnit("go_memstats_stack_inuse",
		"Bytes in use by the stack allocator",
		registry.UnitBytes, rc.stackInuse)

	reg.RegisterWithUnit("go_gc_pause",
		"Total GC pause time",
		registry.UnitSeconds, rc.gcPause)
	reg.RegisterWithUnit("go_gc_last_pause",
		"Duration of the most recent GC pause",
		registry.UnitSeconds, rc.gcLastPause)
	reg.Register("go_gc_cycles",
		"Number of completed GC cycles",
		NewCounterFunc(rc.gcCycles.Load))

	goInfo := NewFamily[expfmt.Labels, *Gauge](NewGauge)
	goInfo.GetOrCreate(expfmt.Labels{{Name: "version", Value: runtime.Version()}}).Set(1)
	reg.Register("go_info",
		"Information about the Go environment",
		goInfo)

	return rc
}

// Collect refreshes every sampled value from the current
// runtime.MemStats. Call it periodically, or let Start do so.
func (rc *RuntimeCollector) Collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	rc.heapAlloc.Set(float64(mem.HeapAlloc))
	rc.heapSys.Set(float64(mem.HeapSys))
	rc.heapIdle.Set(float64(mem.HeapIdle))
	rc.heapInuse.Set(float64(mem.HeapInuse))
	rc.heapObjects.Set(float64(mem.HeapObjects))
	rc.stackInuse.Set(float64(mem.StackInuse))

	// PauseTotalNs is the authoritative cumulative total; the PauseNs
	// circular buffer wraps after 256 entries and cannot be summed.
	rc.gcPause.Set(float64(mem.PauseTotalNs) / 1e9)
	if mem.NumGC > 0 {
		rc.gcLastPause.Set(float64(mem.PauseNs[(mem.NumGC-1)%256]) / 1e9)
	}
	rc.gcCycles.Store(uint64(mem.NumGC))
}

// Start collects once immediately, then keeps collecting every
// interval in a background goroutine until the returned stop function
// is called.
func (rc *RuntimeCollector) Start(interval time.Duration) func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		rc.Collect()

		for {
			select {
			case <-ticker.C:
				rc.Collect()
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// numThreads reports the OS thread count via the pprof threadcreate
// profile, which tracks threads created by the runtime.
func numThreads() (int, bool) {
	p := pprof.Lookup("threadcreate")
	if p == nil {
		return 0, false
	}
	return p.Count(), true
}
