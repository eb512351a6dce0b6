package isodur

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// durationRe matches the ISO-8601 duration subset used by flight APIs,
// e.g. "PT5H30M", "PT45M", "PT11H".
var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// Parse converts an ISO-8601 duration string into a time.Duration.
func Parse(s string) (time.Duration, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	var hours, minutes int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// Minutes returns the total minutes of an ISO-8601 duration string.
// Unparseable input yields 0, so callers sorting or filtering by duration
// push malformed entries to the front rather than failing.
func Minutes(s string) int {
	d, err := Parse(s)
	if err != nil {
		return 0
	}
	return int(d.Minutes())
}

