// Package registry keeps named metrics together with the metadata the
// exposition format needs: help text and an optional unit.
//
// A Registry is generic over the metric handle it stores. A registry
// holding mixed metric kinds stores a dynamic interface (typically
// expfmt.Metric); a registry dedicated to one concrete kind may store
// that kind directly. Keeping the handle opaque here also keeps this
// package free of any dependency on the encoder.
package registry

import "sync"

// Descriptor carries the exposition metadata of one registered metric.
// Descriptors are immutable after registration.
type Descriptor struct {
	name string
	help string
	unit Unit
}

// newDescriptor builds a descriptor. A trailing period is appended to
// the help text unconditionally, so registering "My counter" renders
// as "My counter." on the # HELP line.
func newDescriptor(name, help string, unit Unit) Descriptor {
	return Descriptor{
		name: name,
		help: help + ".",
		unit: unit,
	}
}

// Name returns the metric name as registered, without any unit suffix.
func (d Descriptor) Name() string { return d.name }

// Help returns the help text, including the appended trailing period.
func (d Descriptor) Help() string { return d.help }

// Unit returns the metric's unit, or the empty Unit when none was
// registered.
func (d Descriptor) Unit() Unit { return d.unit }

// Entry pairs a descriptor with the registered metric handle.
type Entry[M any] struct {
	Desc   Descriptor
	Metric M
}

// Registry is an ordered collection of metrics. Entries are exposed in
// registration order and live for the lifetime of the registry; there
// is no removal.
//
// Names must be unique within a registry. Uniqueness and name legality
// are the caller's responsibility and are not checked here: a
// duplicate or malformed name produces a malformed document, not an
// error.
//
// The zero value is ready to use. All methods are safe for concurrent
// use.
type Registry[M any] struct {
	mu      sync.RWMutex
	entries []Entry[M]
}

// New returns an empty registry.
func New[M any]() *Registry[M] {
	return &Registry[M]{}
}

// Register adds metric under the given name and help text.
func (r *Registry[M]) Register(name, help string, metric M) {
	r.RegisterWithUnit(name, help, "", metric)
}

// RegisterWithUnit adds metric under the given name, help text, and
// unit. The unit becomes a _<unit> suffix on the metric name wherever
// the name appears, and an additional # UNIT line in the exposition.
func (r *Registry[M]) RegisterWithUnit(name, help string, unit Unit, metric M) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry[M]{
		Desc:   newDescriptor(name, help, unit),
		Metric: metric,
	})
}

// Entries returns a snapshot of all entries in registration order. The
// returned slice is a copy: registrations that happen after the call
// are not reflected in it, and callers may not mutate registry state
// through it.
func (r *Registry[M]) Entries() []Entry[M] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry[M], len(r.entries))
	copy(entries, r.entries)
	return entries
}
