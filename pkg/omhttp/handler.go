// Package omhttp serves a metric registry over HTTP in the
// OpenMetrics text exposition format.
//
// The handler is the buffering caller the encoder's error contract
// asks for: each scrape encodes the full document into memory first,
// so a metric or sink failure turns into a clean 500 instead of a
// truncated exposition reaching the collector.
//
//	reg := registry.New[expfmt.Metric]()
//	// ... register metrics ...
//	http.Handle("/metrics", omhttp.Handler(reg))
package omhttp

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/omkit/omkit/pkg/expfmt"
	"github.com/omkit/omkit/pkg/registry"
)

// ContentType is the OpenMetrics media type sent on every successful
// response.
const ContentType = "application/openmetrics-text; version=1.0.0; charset=utf-8"

// Opts configures a handler.
type Opts struct {
	// Logger receives encode failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Handler serves reg with default options.
func Handler[M expfmt.Metric](reg *registry.Registry[M]) http.Handler {
	return HandlerWithOpts(reg, Opts{})
}

// HandlerWithOpts serves reg. Every request encodes a fresh document,
// so the response always reflects the metrics at scrape time.
func HandlerWithOpts[M expfmt.Metric](reg *registry.Registry[M], opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := expfmt.Encode(&buf, reg); err != nil {
			logger.Error("metrics encode failed", "error", err)
			http.Error(w, "metrics encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	})
}
