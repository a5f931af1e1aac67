package domain

// RawRecord is one header-mapped row of the CSV export. Every field is
// optional text exactly as it appeared in the file; trimming and
// interpretation happen during normalization.
type RawRecord struct {
	Latitude      string
	Longitude     string
	Date          string
	Time          string
	RepeatDay     string
	VenueName     string
	EventTitle    string
	EventID       string
	Address       string
	HostName      string
	Price         string
	AgeLimit      string
	TeamsMax      string // "teams_max" column, with "teams" as a legacy alias
	Teams         string
	EventURL      string // "event_url" column, with "source_page" as fallback
	SourcePage    string
	SourcePreview string
	Notes         string
}

// DayLabel is the canonical day assigned to an event: one of the seven
// English weekday names, DayUnknown, or a verbatim repeating-schedule label
// such as "First Tuesday of the month". Never empty.
type DayLabel string

// DayUnknown is assigned when no date or schedule label can be interpreted.
const DayUnknown DayLabel = "Unknown"

// EventType classifies the quiz format.
type EventType string

const (
	TypePhone EventType = "phone" // smartphone-based quiz (domain default)
	TypePen   EventType = "pen"   // pen-and-paper quiz
	TypeOther EventType = "other"
)

// IconHandle references the resolved marker image for a (type, day) key.
// The zero value is the "no icon" sentinel: presentation falls back to the
// day-coloured circle marker.
type IconHandle struct {
	URL string `json:"url,omitempty"`
}

// None reports whether the handle is the "no icon" sentinel.
func (h IconHandle) None() bool { return h.URL == "" }

// NormalizedEvent is the derived entity built from one valid RawRecord.
// Optional display fields are trimmed; blank ones are omitted from JSON.
type NormalizedEvent struct {
	Title string    `json:"title"`
	Day   DayLabel  `json:"day"`
	Type  EventType `json:"type"`
	Lat   float64   `json:"lat"`
	Lng   float64   `json:"lng"`

	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Address  string `json:"address,omitempty"`
	Host     string `json:"host,omitempty"`
	Price    string `json:"price,omitempty"`
	AgeLimit string `json:"age_limit,omitempty"`
	TeamsMax string `json:"teams_max,omitempty"`
	URL      string `json:"url,omitempty"`

	Icon IconHandle `json:"icon,omitzero"`
}
