package domain

import (
	"fmt"
	"time"
)

// OfflineWarning is reported when the remote fetch fails and the cycle is skipped.
const OfflineWarning = "server fetch failed, working offline"

// SyncReport summarizes one reconciliation cycle.
type SyncReport struct {
	// Pushed is the number of local changes submitted to the remote.
	Pushed int `json:"pushed"`

	// Added is the number of remote records inserted locally.
	Added int `json:"added"`

	// Conflicts is the number of conflicts detected in this cycle.
	Conflicts int `json:"conflicts"`

	// Pending is the number of conflicts awaiting manual review after the cycle.
	Pending int `json:"pending"`

	// Offline is set when the remote fetch failed and nothing was merged.
	Offline bool `json:"offline"`

	// Warning carries a user-facing message when Offline is set.
	Warning string `json:"warning,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Summary renders the report the way a status line would show it.
func (r SyncReport) Summary() string {
	if r.Offline {
		return r.Warning
	}

	msg := fmt.Sprintf("Synced. Added %d from server.", r.Added)
	if r.Pushed > 0 {
		msg += fmt.Sprintf(" Pushed %d local change(s).", r.Pushed)
	}

	if r.Conflicts > 0 {
		msg += fmt.Sprintf(" Resolved %d conflict(s) (server won).", r.Conflicts)
	}

	return msg
}
