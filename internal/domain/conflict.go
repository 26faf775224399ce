package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConflictKind classifies how a local and a remote record disagreed.
type ConflictKind string

const (
	// ConflictSameIDDifferentContent means both sides share an id but text or category differ.
	ConflictSameIDDifferentContent ConflictKind = "same-id-different-content"

	// ConflictSameTextDifferentMeta means the texts match but category or timestamp differ.
	ConflictSameTextDifferentMeta ConflictKind = "same-text-different-meta"
)

// KeepSide selects which version wins a manual conflict resolution.
type KeepSide string

const (
	KeepLocal  KeepSide = "local"
	KeepServer KeepSide = "server"
)

// ParseKeepSide validates a user-supplied resolution choice.
func ParseKeepSide(s string) (KeepSide, error) {
	switch KeepSide(s) {
	case KeepLocal, KeepServer:
		return KeepSide(s), nil
	default:
		return "", NewValidationErrorWithValue("keep", "must be local or server", s)
	}
}

// Conflict records a disagreement detected during reconciliation.
// Local is the local record as it was before the merge overwrote it.
type Conflict struct {
	ID         string
	Kind       ConflictKind
	Local      Quote
	Server     Quote
	DetectedAt time.Time
}

// NewConflict creates a conflict with a fresh id.
func NewConflict(kind ConflictKind, local, server Quote, now time.Time) Conflict {
	return Conflict{
		ID:         uuid.NewString(),
		Kind:       kind,
		Local:      local,
		Server:     server,
		DetectedAt: now,
	}
}

// sameSlot reports whether c and other describe the same disagreement,
// in which case the newer one supersedes the older.
func (c Conflict) sameSlot(other Conflict) bool {
	if c.Server.ID != "" && c.Server.ID == other.Server.ID {
		return true
	}

	return c.Kind == other.Kind && c.Local.TextKey() == other.Local.TextKey()
}

type conflictJSON struct {
	ID         string       `json:"id"`
	Kind       ConflictKind `json:"type"`
	Local      Quote        `json:"local"`
	Server     Quote        `json:"server"`
	DetectedAt int64        `json:"detectedAt"`
}

// MarshalJSON implements json.Marshaler.
func (c Conflict) MarshalJSON() ([]byte, error) {
	return json.Marshal(conflictJSON{
		ID:         c.ID,
		Kind:       c.Kind,
		Local:      c.Local,
		Server:     c.Server,
		DetectedAt: ToMillis(c.DetectedAt),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Conflict) UnmarshalJSON(data []byte) error {
	var raw conflictJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = raw.ID
	c.Kind = raw.Kind
	c.Local = raw.Local
	c.Server = raw.Server
	c.DetectedAt = FromMillis(raw.DetectedAt)

	return nil
}

// MergePending folds detected conflicts into the pending list.
// A detected conflict replaces any pending entry for the same slot;
// unrelated pending entries are kept in their original order.
func MergePending(pending, detected []Conflict) []Conflict {
	out := make([]Conflict, 0, len(pending)+len(detected))

	for _, p := range pending {
		superseded := false

		for _, d := range detected {
			if p.sameSlot(d) {
				superseded = true
				break
			}
		}

		if !superseded {
			out = append(out, p)
		}
	}

	return append(out, detected...)
}

// RemoveConflict returns pending without the conflict with the given id.
func RemoveConflict(pending []Conflict, id string) ([]Conflict, bool) {
	for i, c := range pending {
		if c.ID == id {
			out := make([]Conflict, 0, len(pending)-1)
			out = append(out, pending[:i]...)

			return append(out, pending[i+1:]...), true
		}
	}

	return pending, false
}
