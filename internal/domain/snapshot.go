package domain

import (
	"slices"
	"strings"
	"time"
)

// Snapshot is the complete persisted state of the quote keeper.
type Snapshot struct {
	Quotes    []Quote
	Filter    string
	Search    string
	LastSync  time.Time
	Conflicts []Conflict
}

// View is the filtered and searched projection presented to users.
type View struct {
	Quotes []Quote
	Shown  int
	Total  int
	Filter string
	Search string
}

// Clone returns a deep copy so callers can mutate it freely.
func (s Snapshot) Clone() Snapshot {
	s.Quotes = slices.Clone(s.Quotes)
	s.Conflicts = slices.Clone(s.Conflicts)

	return s
}

// View projects the snapshot through its filter and search settings.
func (s Snapshot) View() View {
	filter := s.Filter
	if filter == "" {
		filter = FilterAll
	}

	needle := NormalizeText(s.Search)
	shown := make([]Quote, 0, len(s.Quotes))

	for _, q := range s.Quotes {
		if filter != FilterAll && q.Category != filter {
			continue
		}

		if needle != "" && !strings.Contains(NormalizeText(q.Text), needle) {
			continue
		}

		shown = append(shown, q)
	}

	return View{
		Quotes: shown,
		Shown:  len(shown),
		Total:  len(s.Quotes),
		Filter: filter,
		Search: s.Search,
	}
}

// Categories returns the sorted distinct categories of the collection.
func (s Snapshot) Categories() []string {
	seen := make(map[string]struct{}, len(s.Quotes))
	out := make([]string, 0, len(s.Quotes))

	for _, q := range s.Quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	slices.Sort(out)

	return out
}

// PendingPush returns local records changed after the last successful sync.
func (s Snapshot) PendingPush() []Quote {
	var out []Quote

	for _, q := range s.Quotes {
		if q.Source == SourceLocal && q.UpdatedAt.After(s.LastSync) {
			out = append(out, q)
		}
	}

	return out
}

// HasID reports whether a quote with the given id exists.
func (s Snapshot) HasID(id string) bool {
	return slices.ContainsFunc(s.Quotes, func(q Quote) bool { return q.ID == id })
}

// Resolve applies a manual resolution of the pending conflict with the given id.
func (s Snapshot) Resolve(conflictID string, keep KeepSide, now time.Time) (Snapshot, error) {
	idx := slices.IndexFunc(s.Conflicts, func(c Conflict) bool { return c.ID == conflictID })
	if idx < 0 {
		return s, NewNotFoundError("conflict", conflictID)
	}

	c := s.Conflicts[idx]
	out := s.Clone()

	switch keep {
	case KeepLocal:
		chosen := c.Local
		chosen.Source = SourceLocal
		chosen.UpdatedAt = now

		localKey := c.Local.TextKey()
		slot := slices.IndexFunc(out.Quotes, func(q Quote) bool {
			return q.ID == c.Server.ID || q.TextKey() == localKey
		})
		out.Quotes = replaceOrAppend(out.Quotes, slot, chosen)

	case KeepServer:
		chosen := c.Server
		chosen.Source = SourceServer

		slot := slices.IndexFunc(out.Quotes, func(q Quote) bool { return q.ID == c.Server.ID })
		out.Quotes = replaceOrAppend(out.Quotes, slot, chosen)

	default:
		return s, NewValidationErrorWithValue("keep", "must be local or server", string(keep))
	}

	out.Conflicts, _ = RemoveConflict(out.Conflicts, conflictID)

	return out, nil
}

func replaceOrAppend(quotes []Quote, idx int, q Quote) []Quote {
	if idx < 0 {
		return append(quotes, q)
	}

	quotes[idx] = q

	return quotes
}
