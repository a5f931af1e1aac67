// Package icon resolves marker images for (event type, day) keys against a
// static resource host, probing an ordered candidate list and memoizing the
// outcome per key for the lifetime of one ingestion.
package icon

import (
	"strings"
	"time"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
)

// typeBase maps an event type to the resource base name used by the host's
// naming convention.
func typeBase(t domain.EventType) string {
	switch t {
	case domain.TypePhone:
		return "PhoneQuiz"
	case domain.TypePen:
		return "PenQuiz"
	default:
		return "Quiz"
	}
}

// canonicalWeekday matches a day label against the seven weekday names,
// case-insensitively, and returns the capitalized spelling.
func canonicalWeekday(day domain.DayLabel) (string, bool) {
	for w := time.Sunday; w <= time.Saturday; w++ {
		name := string(domain.WeekdayName(w))
		if strings.EqualFold(string(day), name) {
			return name, true
		}
	}
	return "", false
}

// Candidates returns the ordered locator list probed for a (type, day) key.
// Day-specific candidates are generated only for the seven canonical weekday
// names; any other label ("Unknown", free-text schedules) goes straight to
// the type-only file and the global fallback.
func Candidates(t domain.EventType, day domain.DayLabel) []string {
	base := typeBase(t)

	var out []string
	if w, ok := canonicalWeekday(day); ok {
		abbr := w[:3]
		out = append(out,
			base+w+".png",
			base+abbr+".png",
			base+strings.ToLower(w)+".png",
			base+strings.ToLower(abbr)+".png",
			base+"-"+w+".png",
			base+"_"+w+".png",
			base+strings.ReplaceAll(w, " ", "")+".png",
		)
	}
	return append(out, base+".png", "fallback.png")
}
