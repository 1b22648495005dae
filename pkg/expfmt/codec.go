package expfmt

import (
	"io"
	"strconv"
	"strings"
)

// Low-level value serialization. Everything here writes straight to
// the sink; buffering, if any, is the caller's.

// writeString is io.WriteString with the byte count dropped.
func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// writeUint64 writes v in decimal without allocating.
func writeUint64(w io.Writer, v uint64) error {
	var buf [20]byte
	_, err := w.Write(strconv.AppendUint(buf[:0], v, 10))
	return err
}

// writeFloat64 writes v in the shortest decimal form that parses back
// to the same float64. Non-finite values render as +Inf, -Inf, and
// NaN.
func writeFloat64(w io.Writer, v float64) error {
	var buf [32]byte
	_, err := w.Write(strconv.AppendFloat(buf[:0], v, 'g', -1, 64))
	return err
}

var (
	labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	helpEscaper       = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
)

// writeEscapedLabelValue writes s with backslash, double quote, and
// newline escaped so the value stays inside its quotes.
func writeEscapedLabelValue(w io.Writer, s string) error {
	if !strings.ContainsAny(s, "\\\"\n") {
		return writeString(w, s)
	}
	_, err := labelValueEscaper.WriteString(w, s)
	return err
}

// writeEscapedHelp writes s with backslash and newline escaped so the
// help text cannot break out of its # HELP line.
func writeEscapedHelp(w io.Writer, s string) error {
	if !strings.ContainsAny(s, "\\\n") {
		return writeString(w, s)
	}
	_, err := helpEscaper.WriteString(w, s)
	return err
}
