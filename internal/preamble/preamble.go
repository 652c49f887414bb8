// Package preamble parses the ASCII session-start line that precedes the
// framed packet stream in a GDAT byte stream (spec.md §6).
package preamble

import (
	"regexp"
	"time"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
)

var (
	plmPattern      = regexp.MustCompile(`^/PLM_(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})\.gdat:`)
	fallbackPattern = regexp.MustCompile(`^/(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})\.gdat:`)
)

// GetT0 parses "/PLM_YYYY-MM-DD-HH-MM-SS.gdat:" or its fallback
// "/YYYY-MM-DD-HH-MM-SS.gdat:" form and returns the recorded RTC as UTC. On
// parse failure it logs a warning and returns the Unix epoch, per spec.md
// §6.
func GetT0(line string) time.Time {
	m := plmPattern.FindStringSubmatch(line)
	if m == nil {
		m = fallbackPattern.FindStringSubmatch(line)
	}
	if m == nil {
		logging.L().Warn("preamble_parse_failed", "line", line)
		return time.Unix(0, 0).UTC()
	}
	t, err := time.Parse("2006 01 02 15 04 05",
		m[1]+" "+m[2]+" "+m[3]+" "+m[4]+" "+m[5]+" "+m[6])
	if err != nil {
		logging.L().Warn("preamble_parse_failed", "line", line, "error", err)
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}
