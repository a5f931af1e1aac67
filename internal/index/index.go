// Package index builds the grouped-by-day presentation model from raw CSV
// records and maintains the per-day visibility filter over it.
package index

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/icon"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

// IconResolver resolves the marker for a (type, day) key.
type IconResolver interface {
	Resolve(ctx context.Context, t domain.EventType, day domain.DayLabel) domain.IconHandle
}

// TypeCounts aggregates events of one day by quiz format.
type TypeCounts struct {
	Phone int `json:"phone"`
	Pen   int `json:"pen"`
	Other int `json:"other"`
}

// Total sums all type buckets.
func (c TypeCounts) Total() int { return c.Phone + c.Pen + c.Other }

// NoIconEntity records an entity whose icon resolution exhausted every
// candidate, with the list attempted. Diagnostics only.
type NoIconEntity struct {
	Title     string           `json:"title"`
	Day       domain.DayLabel  `json:"day"`
	Type      domain.EventType `json:"type"`
	Attempted []string         `json:"attempted"`
}

// Index is the grouped, counted view of one ingestion's normalized events.
// It is built once per ingestion and never mutated afterwards.
type Index struct {
	EntitiesByDay map[domain.DayLabel][]domain.NormalizedEvent
	CountsByDay   map[domain.DayLabel]TypeCounts

	// Days holds the observed labels in presentation order: Monday through
	// Sunday, then Unknown, then other labels lexicographically.
	Days []domain.DayLabel

	// Dropped counts rows excluded for non-finite coordinates.
	Dropped int

	// NoIcon lists entities that fell back to the default marker.
	NoIcon []NoIconEntity
}

// Builder assembles an Index from raw records.
type Builder struct {
	icons   IconResolver
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a Builder resolving icons through the given resolver.
func NewBuilder(icons IconResolver, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{icons: icons, logger: logger, metrics: metrics}
}

// Build classifies, resolves, and groups the given records. Rows with
// non-finite coordinates are skipped and counted, never errored.
func (b *Builder) Build(ctx context.Context, records []domain.RawRecord) *Index {
	idx := &Index{
		EntitiesByDay: make(map[domain.DayLabel][]domain.NormalizedEvent),
		CountsByDay:   make(map[domain.DayLabel]TypeCounts),
	}

	for _, rec := range records {
		lat, okLat := parseFinite(rec.Latitude)
		lng, okLng := parseFinite(rec.Longitude)
		if !okLat || !okLng {
			idx.Dropped++
			b.metrics.RecordsDropped.Inc()
			continue
		}

		day := domain.ClassifyDay(rec)
		typ := domain.ClassifyType(rec)
		handle := b.icons.Resolve(ctx, typ, day)

		ev := normalize(rec, day, typ, lat, lng, handle)
		idx.EntitiesByDay[day] = append(idx.EntitiesByDay[day], ev)

		counts := idx.CountsByDay[day]
		switch typ {
		case domain.TypePhone:
			counts.Phone++
		case domain.TypePen:
			counts.Pen++
		default:
			counts.Other++
		}
		idx.CountsByDay[day] = counts

		if handle.None() {
			idx.NoIcon = append(idx.NoIcon, NoIconEntity{
				Title:     ev.Title,
				Day:       day,
				Type:      typ,
				Attempted: icon.Candidates(typ, day),
			})
		}
		b.metrics.RecordsIngested.Inc()
	}

	days := make([]domain.DayLabel, 0, len(idx.EntitiesByDay))
	for day := range idx.EntitiesByDay {
		days = append(days, day)
	}
	idx.Days = OrderDays(days)

	if idx.Dropped > 0 {
		b.logger.Info("records dropped for invalid coordinates", "dropped", idx.Dropped)
	}
	return idx
}

// normalize assembles the entity for one retained record. The title falls
// back venue name → event title → event ID → "Event"; optional display
// fields are trimmed and left blank when absent.
func normalize(rec domain.RawRecord, day domain.DayLabel, typ domain.EventType, lat, lng float64, handle domain.IconHandle) domain.NormalizedEvent {
	title := firstNonBlank(rec.VenueName, rec.EventTitle, rec.EventID, "Event")
	return domain.NormalizedEvent{
		Title:    title,
		Day:      day,
		Type:     typ,
		Lat:      lat,
		Lng:      lng,
		Date:     strings.TrimSpace(rec.Date),
		Time:     strings.TrimSpace(rec.Time),
		Address:  strings.TrimSpace(rec.Address),
		Host:     strings.TrimSpace(rec.HostName),
		Price:    strings.TrimSpace(rec.Price),
		AgeLimit: strings.TrimSpace(rec.AgeLimit),
		TeamsMax: firstNonBlank(rec.TeamsMax, rec.Teams, ""),
		URL:      firstNonBlank(rec.EventURL, rec.SourcePage, ""),
		Icon:     handle,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// parseFinite parses a coordinate field, rejecting NaN and infinities.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// weekdayRank orders the seven canonical weekdays Monday-first, then
// Unknown. Labels outside the table sort after it, lexicographically.
var weekdayRank = map[domain.DayLabel]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6, domain.DayUnknown: 7,
}

// OrderDays sorts day labels into presentation order.
func OrderDays(days []domain.DayLabel) []domain.DayLabel {
	out := make([]domain.DayLabel, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool {
		ri, iOK := weekdayRank[out[i]]
		rj, jOK := weekdayRank[out[j]]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}
