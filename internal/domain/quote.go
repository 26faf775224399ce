// Package domain contains core business entities and rules.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory is assigned to quotes added or imported without a category.
const DefaultCategory = "General"

// ServerCategory is the category given to quotes fetched from the remote source.
const ServerCategory = "Server"

// FilterAll disables category filtering in a view.
const FilterAll = "all"

// localIDPrefix marks identifiers generated by this process.
const localIDPrefix = "local-"

// Source records where a quote's current content came from.
type Source string

const (
	// SourceLocal marks quotes created or last resolved locally.
	SourceLocal Source = "local"

	// SourceServer marks quotes whose content was taken from the remote source.
	SourceServer Source = "server"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceServer
}

// Quote represents a quotation with identity and freshness metadata.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is unique within the local collection.
	ID string

	// Text is the quotation itself.
	Text string

	// Category groups quotes for filtering.
	Category string

	// Source tells whether the content is local or server-provided.
	Source Source

	// UpdatedAt is the freshness timestamp used during reconciliation.
	UpdatedAt time.Time
}

// NewLocalQuote creates a quote authored locally.
// Category falls back to DefaultCategory when blank.
func NewLocalQuote(text, category string, now time.Time) Quote {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	return Quote{
		ID:        NewLocalID(),
		Text:      strings.TrimSpace(text),
		Category:  category,
		Source:    SourceLocal,
		UpdatedAt: now,
	}
}

// NewLocalID returns a fresh collision-resistant identifier for a local quote.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// TextKey returns the normalized text used as the fallback identity key.
func (q Quote) TextKey() string {
	return NormalizeText(q.Text)
}

// SameContent reports whether q and other carry the same category and
// the same text once normalized. A case or padding change alone is not a
// content change, so a record converted by text match stays quiet on the
// next id match.
func (q Quote) SameContent(other Quote) bool {
	return q.Category == other.Category && q.TextKey() == other.TextKey()
}

// NormalizeText trims surrounding whitespace and lower-cases text.
// A Caser is stateful, so one is built per call.
func NormalizeText(text string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(text))
}

// quoteJSON is the persisted and exported wire form.
// UpdatedAt travels as epoch milliseconds.
type quoteJSON struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Source    Source `json:"source"`
	UpdatedAt int64  `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		Source:    q.Source,
		UpdatedAt: ToMillis(q.UpdatedAt),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Missing fields are left at their zero values; callers decide defaults.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var raw quoteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.ID = raw.ID
	q.Text = raw.Text
	q.Category = raw.Category
	q.Source = raw.Source
	q.UpdatedAt = FromMillis(raw.UpdatedAt)

	return nil
}

// ToMillis converts t to epoch milliseconds. The zero time maps to 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a UTC time. Zero maps to the zero time.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms).UTC()
}

// TruncateMillis drops sub-millisecond precision and the location so that
// in-memory timestamps compare equal to their persisted form.
func TruncateMillis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// SeedQuotes returns the collection written on first start.
func SeedQuotes(now time.Time) []Quote {
	return []Quote{
		{
			ID:        NewLocalID(),
			Text:      "The best way to get started is to quit talking and begin doing.",
			Category:  "Motivation",
			Source:    SourceLocal,
			UpdatedAt: now.Add(-100 * time.Second),
		},
		{
			ID:        NewLocalID(),
			Text:      "Don’t let yesterday take up too much of today.",
			Category:  "Wisdom",
			Source:    SourceLocal,
			UpdatedAt: now.Add(-90 * time.Second),
		},
		{
			ID:        NewLocalID(),
			Text:      "It’s not whether you get knocked down, it’s whether you get up.",
			Category:  "Perseverance",
			Source:    SourceLocal,
			UpdatedAt: now.Add(-80 * time.Second),
		},
	}
}
