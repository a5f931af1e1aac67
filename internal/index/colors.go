package index

import "github.com/punsnhoses-dot/my-event-map/internal/domain"

// dayColors is the fixed legend palette for the default circle markers.
var dayColors = map[domain.DayLabel]string{
	"Monday":    "#1f77b4",
	"Tuesday":   "#ff7f0e",
	"Wednesday": "#2ca02c",
	"Thursday":  "#d62728",
	"Friday":    "#9467bd",
	"Saturday":  "#8c564b",
	"Sunday":    "#e377c2",
	"Unknown":   "#777",
}

// DayColor returns the legend colour for a day label. Labels outside the
// weekday palette share a neutral grey.
func DayColor(day domain.DayLabel) string {
	if c, ok := dayColors[day]; ok {
		return c
	}
	return "#888"
}
