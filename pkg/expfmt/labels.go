package expfmt

import "io"

// LabelSet renders an ordered set of label pairs into a sample line.
//
// EncodeLabels writes the pairs as name="value" joined by commas, with
// no trailing comma and no surrounding braces — the encoder owns
// delimiter placement. An empty set writes nothing.
//
// A label set's rendering is also its identity: families key their
// children by it, and repeated expositions compare byte-for-byte.
// Implementations must therefore be deterministic, and must not fail
// when the writer does not.
type LabelSet interface {
	EncodeLabels(w io.Writer) error
}

// Label is one name/value pair.
type Label struct {
	Name  string
	Value string
}

// Labels is an ordered label set. Values are escaped on write (see
// EncodeLabels); names are written verbatim, as name legality is the
// caller's concern.
type Labels []Label

var _ LabelSet = Labels(nil)

// EncodeLabels writes the pairs in slice order. Backslash, double
// quote, and newline characters in values are escaped so the output
// stays within the text format's quoting rules.
func (ls Labels) EncodeLabels(w io.Writer) error {
	for i, l := range ls {
		if i > 0 {
			if err := writeString(w, ","); err != nil {
				return err
			}
		}
		if err := writeString(w, l.Name); err != nil {
			return err
		}
		if err := writeString(w, `="`); err != nil {
			return err
		}
		if err := writeEscapedLabelValue(w, l.Value); err != nil {
			return err
		}
		if err := writeString(w, `"`); err != nil {
			return err
		}
	}
	return nil
}
