package leagueservice

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var compactClock = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

// TimeParser turns admin supplied round times into instants. Input is either
// RFC 3339 or natural language ("next saturday 3pm") read in the league's
// time zone.
type TimeParser struct {
	w *when.Parser
}

// NewTimeParser creates a TimeParser with the English rule set.
func NewTimeParser() *TimeParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &TimeParser{w: w}
}

// Parse resolves input relative to now in loc and returns it in UTC.
func (p *TimeParser) Parse(input string, loc *time.Location, now time.Time) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), true
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, now.In(loc))
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time.In(loc).Truncate(time.Minute).UTC(), true
}
