package index

import "github.com/punsnhoses-dot/my-event-map/internal/domain"

// State maps each observed day label to its visibility. Every operation is a
// pure transform: the receiver is never mutated, a fresh mapping is returned.
type State map[domain.DayLabel]bool

// Initial returns a state with every given day visible.
func Initial(days []domain.DayLabel) State {
	s := make(State, len(days))
	for _, day := range days {
		s[day] = true
	}
	return s
}

// Toggle flips one day's visibility. Toggling a day outside the state is a
// no-op, not an error.
func (s State) Toggle(day domain.DayLabel) State {
	out := s.clone()
	if _, ok := out[day]; ok {
		out[day] = !out[day]
	}
	return out
}

// SelectAll marks every day visible.
func (s State) SelectAll() State { return s.fill(true) }

// ClearAll marks every day hidden.
func (s State) ClearAll() State { return s.fill(false) }

func (s State) fill(visible bool) State {
	out := make(State, len(s))
	for day := range s {
		out[day] = visible
	}
	return out
}

func (s State) clone() State {
	out := make(State, len(s))
	for day, visible := range s {
		out[day] = visible
	}
	return out
}

// VisibleEntities flattens the visible day groups in presentation order.
func VisibleEntities(s State, idx *Index) []domain.NormalizedEvent {
	var out []domain.NormalizedEvent
	for _, day := range idx.Days {
		if s[day] {
			out = append(out, idx.EntitiesByDay[day]...)
		}
	}
	return out
}
