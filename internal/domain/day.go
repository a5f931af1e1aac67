package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekdayNames maps time.Weekday (0=Sunday..6=Saturday) to fixed English
// labels. Indexing this table, rather than locale-formatting the date, keeps
// classification deterministic across environments.
var weekdayNames = [7]DayLabel{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekdayName returns the fixed English label for a weekday index.
func WeekdayName(w time.Weekday) DayLabel { return weekdayNames[w] }

var (
	// dashDateRe matches "05-Jan-24" / "5 Jan 2024" style dates in free text.
	dashDateRe = regexp.MustCompile(`\b(\d{1,2})[- ]([A-Za-z]{3,9})[- ](\d{2,4})\b`)

	// monthFirstRe matches "Jan 5", "January 5th, 2024"; the year is optional.
	monthFirstRe = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{2,4}))?`)

	// isoDateRe matches "2024-01-05".
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)

	// numericDateRe matches day-first "05/01/2024" or "05.01.24".
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{2,4})\b`)
)

// generalLayouts are tried against a date column that is not in the export's
// dash-separated form.
var generalLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ClassifyDay assigns a day label to a record. Resolution order: the
// verbatim repeat_day label, then the structured date column, then a date
// mined from the free-text columns. Total: anything unparseable yields
// DayUnknown, never an error.
func ClassifyDay(rec RawRecord) DayLabel {
	if repeat := strings.TrimSpace(rec.RepeatDay); repeat != "" {
		return DayLabel(repeat)
	}
	if dateStr := strings.TrimSpace(rec.Date); dateStr != "" {
		if t, ok := parseDateColumn(dateStr); ok {
			return weekdayNames[t.Weekday()]
		}
	}
	if t, ok := mineDate(freeText(rec)); ok {
		return weekdayNames[t.Weekday()]
	}
	return DayUnknown
}

// freeText concatenates the columns scanned for dates when the date column
// is missing or unparseable.
func freeText(rec RawRecord) string {
	return strings.Join([]string{
		rec.Address, rec.VenueName, rec.Notes, rec.SourcePreview, rec.EventTitle,
	}, " ")
}

// parseDateColumn handles the export's "DD-MMM-YY(YY)" form first, expanding
// two-digit years by prefixing "20", then falls back to general layouts.
func parseDateColumn(s string) (time.Time, bool) {
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		day := strings.TrimSpace(parts[0])
		month := strings.TrimSpace(parts[1])
		year := strings.TrimSpace(parts[2])
		if len(year) == 2 {
			year = "20" + year
		}
		composed := day + " " + month + " " + year
		for _, layout := range []string{"2 Jan 2006", "2 January 2006"} {
			if t, err := time.Parse(layout, composed); err == nil {
				return t, true
			}
		}
	}
	for _, layout := range generalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mineDate applies the four free-text patterns in order and returns the
// first that composes into a calendar date. A pattern that matches but does
// not compose (unknown month name, out-of-range day) falls through to the
// next. Dates are built with time.Date, so in-range rollovers ("30 Feb")
// are accepted as-is.
func mineDate(text string) (time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, false
	}

	if m := dashDateRe.FindStringSubmatch(text); m != nil {
		if t, ok := composeDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}
	if m := monthFirstRe.FindStringSubmatch(text); m != nil {
		if t, ok := composeDate(m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := composeNumericDate(year, month, day); ok {
			return t, true
		}
	}
	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if t, ok := composeNumericDate(expandYear(m[3]), month, day); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// composeDate builds a date from a month name and numeric day/year strings.
// An empty year defaults to the current year (year-less "Jan 5th" mentions).
func composeDate(yearStr, monthName, dayStr string) (time.Time, bool) {
	month, ok := parseMonthName(monthName)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := clock.Now().Year()
	if yearStr != "" {
		year = expandYear(yearStr)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func composeNumericDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// expandYear widens a two-digit year by prefixing "20".
func expandYear(s string) int {
	if len(s) == 2 {
		s = "20" + s
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return clock.Now().Year()
	}
	return y
}

// parseMonthName accepts full and abbreviated English month names.
func parseMonthName(s string) (time.Month, bool) {
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}
