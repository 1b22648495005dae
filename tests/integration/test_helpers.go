// Package integration exercises the full exposition pipeline: metric
// kinds feeding the encoder, served over HTTP, and parsed back out of
// the document a scraper would see.
package integration

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// expositionFamily is one metric family recovered from a parsed
// document.
type expositionFamily struct {
	Name    string
	Help    string
	Type    string
	Unit    string
	Samples map[string]float64 // full sample key including labels -> value
}

// scrape fetches url and returns the body and content type, requiring
// a 200.
func scrape(t *testing.T, url string) (body, contentType string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(raw), resp.Header.Get("Content-Type")
}

// parseExposition parses an OpenMetrics text document into its
// families. It fails the test when a line violates the grammar or the
// document does not terminate with the EOF marker.
func parseExposition(t *testing.T, body string) map[string]*expositionFamily {
	t.Helper()

	require.True(t, strings.HasSuffix(body, "# EOF\n"),
		"document must end with the EOF marker, got tail %q", tail(body))

	families := make(map[string]*expositionFamily)

	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		switch {
		case line == "# EOF":
			// Terminal marker, nothing follows.

		case strings.HasPrefix(line, "# HELP "):
			name, help, ok := strings.Cut(strings.TrimPrefix(line, "# HELP "), " ")
			require.True(t, ok, "malformed HELP line %q", line)
			ensureFamily(families, name).Help = help

		case strings.HasPrefix(line, "# TYPE "):
			name, typ, ok := strings.Cut(strings.TrimPrefix(line, "# TYPE "), " ")
			require.True(t, ok, "malformed TYPE line %q", line)
			ensureFamily(families, name).Type = typ

		case strings.HasPrefix(line, "# UNIT "):
			name, unit, ok := strings.Cut(strings.TrimPrefix(line, "# UNIT "), " ")
			require.True(t, ok, "malformed UNIT line %q", line)
			ensureFamily(families, name).Unit = unit

		default:
			// Sample line: everything up to the last space is the
			// name plus labels, the rest is the value.
			lastSpace := strings.LastIndex(line, " ")
			require.NotEqual(t, -1, lastSpace, "malformed sample line %q", line)

			key := line[:lastSpace]
			value, err := strconv.ParseFloat(line[lastSpace+1:], 64)
			require.NoError(t, err, "unparseable value in %q", line)

			fam := familyForSample(families, key)
			require.NotNil(t, fam, "sample %q has no preceding HELP/TYPE header", key)
			fam.Samples[key] = value
		}
	}

	return families
}

func ensureFamily(families map[string]*expositionFamily, name string) *expositionFamily {
	if fam, ok := families[name]; ok {
		return fam
	}
	fam := &expositionFamily{Name: name, Samples: make(map[string]float64)}
	families[name] = fam
	return fam
}

// familyForSample resolves a sample key to its family by longest name
// prefix, so jobs_total{...} lands on "jobs" even when a "job" family
// also exists.
func familyForSample(families map[string]*expositionFamily, key string) *expositionFamily {
	var best *expositionFamily
	for name, fam := range families {
		if strings.HasPrefix(key, name) && (best == nil || len(name) > len(best.Name)) {
			best = fam
		}
	}
	return best
}

// sampleValue returns the value for an exact sample key in a named
// family.
func sampleValue(t *testing.T, families map[string]*expositionFamily, family, key string) float64 {
	t.Helper()

	fam, ok := families[family]
	require.True(t, ok, "family %q not found", family)

	v, ok := fam.Samples[key]
	require.True(t, ok, "sample %q not found in %q; have %v", key, family, sampleKeys(fam))
	return v
}

func sampleKeys(fam *expositionFamily) []string {
	keys := make([]string, 0, len(fam.Samples))
	for k := range fam.Samples {
		keys = append(keys, k)
	}
	return keys
}

func tail(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[len(s)-40:]
}
