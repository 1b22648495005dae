package expfmt

import (
	"io"
	"math"

	"github.com/omkit/omkit/pkg/registry"
)

// Encode writes every metric in reg to w as one OpenMetrics text
// document, terminated by the # EOF marker.
//
// Entries are written in registration order. Each entry produces a
// # HELP line, a # TYPE line, a # UNIT line when the metric has a
// unit, and then the metric's own sample lines, rendered through a
// fresh Encoder bound to the entry's name and unit.
//
// The first write error aborts the pass and is returned unchanged,
// leaving the document truncated at the point of failure. There is no
// retry and no recovery; callers that need all-or-nothing output must
// buffer and discard on failure themselves.
func Encode[M Metric](w io.Writer, reg *registry.Registry[M]) error {
	for _, entry := range reg.Entries() {
		desc := entry.Desc

		if err := writeString(w, "# HELP "); err != nil {
			return err
		}
		if err := writeNameAndUnit(w, desc.Name(), desc.Unit()); err != nil {
			return err
		}
		if err := writeString(w, " "); err != nil {
			return err
		}
		if err := writeEscapedHelp(w, desc.Help()); err != nil {
			return err
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}

		if err := writeString(w, "# TYPE "); err != nil {
			return err
		}
		if err := writeNameAndUnit(w, desc.Name(), desc.Unit()); err != nil {
			return err
		}
		if err := writeString(w, " "); err != nil {
			return err
		}
		if err := writeString(w, string(entry.Metric.Type())); err != nil {
			return err
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}

		if unit := desc.Unit(); unit != "" {
			if err := writeString(w, "# UNIT "); err != nil {
				return err
			}
			if err := writeNameAndUnit(w, desc.Name(), unit); err != nil {
				return err
			}
			if err := writeString(w, " "); err != nil {
				return err
			}
			if err := writeString(w, string(unit)); err != nil {
				return err
			}
			if err := writeString(w, "\n"); err != nil {
				return err
			}
		}

		if err := entry.Metric.Encode(NewEncoder(w, desc.Name(), desc.Unit())); err != nil {
			return err
		}
	}

	return writeString(w, "# EOF\n")
}

// writeNameAndUnit writes the metric name, extended with _<unit> when
// a unit is present.
func writeNameAndUnit(w io.Writer, name string, unit registry.Unit) error {
	if err := writeString(w, name); err != nil {
		return err
	}
	if unit != "" {
		if err := writeString(w, "_"); err != nil {
			return err
		}
		if err := writeString(w, string(unit)); err != nil {
			return err
		}
	}
	return nil
}

// Encoder is the first stage of writing sample lines for one metric.
// It is bound to the metric's name, optional unit, and optionally one
// label set. A line is produced by choosing a name suffix (moving to
// the BucketEncoder stage), deciding the bucket-label question (moving
// to the ValueEncoder stage), and writing the value; the staging makes
// out-of-order output unrepresentable.
//
// Encoders are small values. The driver hands each metric a fresh one,
// and a single Encoder seeds as many lines as the metric needs — a
// histogram reuses its encoder for the _sum, _count, and every _bucket
// line.
type Encoder struct {
	w      io.Writer
	name   string
	unit   registry.Unit
	labels LabelSet
}

// NewEncoder returns an encoder bound to a metric name and optional
// unit, with no label set attached. Encode constructs one per registry
// entry; the constructor is exported for custom drivers and for
// exercising a single metric in tests.
func NewEncoder(w io.Writer, name string, unit registry.Unit) Encoder {
	return Encoder{w: w, name: name, unit: unit}
}

// WithLabelSet returns a copy of e scoped to the given label set;
// lines written through the copy carry those labels. A label set may
// be attached at most once per encoder: families derive exactly one
// scoped encoder per child, and attaching a second set panics.
func (e Encoder) WithLabelSet(labels LabelSet) Encoder {
	if e.labels != nil {
		panic("expfmt: encoder already scoped to a label set")
	}
	e.labels = labels
	return e
}

// EncodeSuffix writes the metric name, the unit when present, and an
// underscore-joined suffix (total, sum, count, bucket), then opens the
// label block if a label set is attached.
func (e Encoder) EncodeSuffix(suffix string) (BucketEncoder, error) {
	if err := writeNameAndUnit(e.w, e.name, e.unit); err != nil {
		return BucketEncoder{}, err
	}
	if err := writeString(e.w, "_"); err != nil {
		return BucketEncoder{}, err
	}
	if err := writeString(e.w, suffix); err != nil {
		return BucketEncoder{}, err
	}
	return e.encodeLabels()
}

// NoSuffix writes the bare metric name (plus unit when present), then
// opens the label block if a label set is attached.
func (e Encoder) NoSuffix() (BucketEncoder, error) {
	if err := writeNameAndUnit(e.w, e.name, e.unit); err != nil {
		return BucketEncoder{}, err
	}
	return e.encodeLabels()
}

func (e Encoder) encodeLabels() (BucketEncoder, error) {
	if e.labels == nil {
		return BucketEncoder{w: e.w}, nil
	}
	if err := writeString(e.w, "{"); err != nil {
		return BucketEncoder{}, err
	}
	if err := e.labels.EncodeLabels(e.w); err != nil {
		return BucketEncoder{}, err
	}
	return BucketEncoder{w: e.w, open: true}, nil
}

// BucketEncoder is the stage that settles whether the sample carries a
// histogram bucket label before the label block closes.
type BucketEncoder struct {
	w    io.Writer
	open bool // label block opened by the previous stage
}

// EncodeBucket appends the le label for a bucket's upper bound and
// closes the label block, opening one if no labels preceded it. The
// math.Inf(1) sentinel renders as the literal +Inf, never as a
// numeric.
func (b BucketEncoder) EncodeBucket(upperBound float64) (ValueEncoder, error) {
	if b.open {
		if err := writeString(b.w, ", "); err != nil {
			return ValueEncoder{}, err
		}
	} else {
		if err := writeString(b.w, "{"); err != nil {
			return ValueEncoder{}, err
		}
	}
	if err := writeString(b.w, `le="`); err != nil {
		return ValueEncoder{}, err
	}
	if math.IsInf(upperBound, +1) {
		if err := writeString(b.w, "+Inf"); err != nil {
			return ValueEncoder{}, err
		}
	} else if err := writeFloat64(b.w, upperBound); err != nil {
		return ValueEncoder{}, err
	}
	if err := writeString(b.w, `"}`); err != nil {
		return ValueEncoder{}, err
	}
	return ValueEncoder{w: b.w}, nil
}

// NoBucket closes the label block, if one was opened, without adding a
// bucket label.
func (b BucketEncoder) NoBucket() (ValueEncoder, error) {
	if b.open {
		if err := writeString(b.w, "}"); err != nil {
			return ValueEncoder{}, err
		}
	}
	return ValueEncoder{w: b.w}, nil
}

// ValueEncoder is the terminal stage: it writes the sample value and
// ends the line.
type ValueEncoder struct {
	w io.Writer
}

// EncodeUint64 writes v preceded by a space and followed by a newline.
func (v ValueEncoder) EncodeUint64(u uint64) error {
	if err := writeString(v.w, " "); err != nil {
		return err
	}
	if err := writeUint64(v.w, u); err != nil {
		return err
	}
	return writeString(v.w, "\n")
}

// EncodeFloat64 writes f preceded by a space and followed by a
// newline.
func (v ValueEncoder) EncodeFloat64(f float64) error {
	if err := writeString(v.w, " "); err != nil {
		return err
	}
	if err := writeFloat64(v.w, f); err != nil {
		return err
	}
	return writeString(v.w, "\n")
}
