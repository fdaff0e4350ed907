// Package merge implements the reconciliation rules that decide how an
// incoming bar is combined with an already stored bar for the same business
// key. The rules are pure; persistence is the store's concern.
package merge

import (
	"github.com/quantdata/marketsync/models"
)

// Action is the write decision produced by Merge.
type Action int

const (
	ActionSkip Action = iota
	ActionInsert
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	default:
		return "skip"
	}
}

// Decision pairs the action with the bar to write. Result is nil for Skip.
type Decision struct {
	Action Action
	Result *models.HistoricalBar
}

// Merge decides whether the incoming bar replaces, refreshes or yields to the
// existing bar for the same business key.
//
// Ordering: lower SourcePriority wins; on a priority tie, the later
// CollectedAt wins (a refresh of the same-quality source). A same-priority
// incoming bar with an older CollectedAt is skipped, no write occurs.
//
// A winning incoming bar produces a field-level merge: each price field is
// taken from the incoming bar only where it is non-nil, otherwise the stored
// value is retained, so partial provider payloads never clobber known values.
// DataSource and SourcePriority move to the incoming bar only on a strict
// priority win, never on a collectedAt-only refresh.
func Merge(existing *models.HistoricalBar, incoming models.HistoricalBar) Decision {
	if existing == nil {
		inserted := incoming
		return Decision{Action: ActionInsert, Result: &inserted}
	}

	strictPriorityWin := incoming.SourcePriority < existing.SourcePriority
	refreshWin := incoming.SourcePriority == existing.SourcePriority &&
		incoming.CollectedAt.After(existing.CollectedAt)
	if !strictPriorityWin && !refreshWin {
		return Decision{Action: ActionSkip}
	}

	merged := *existing
	overlayFloat(&merged.Open, incoming.Open)
	overlayFloat(&merged.High, incoming.High)
	overlayFloat(&merged.Low, incoming.Low)
	overlayFloat(&merged.Close, incoming.Close)
	overlayFloat(&merged.Volume, incoming.Volume)
	overlayFloat(&merged.VWAP, incoming.VWAP)
	overlayFloat(&merged.PreviousClose, incoming.PreviousClose)
	overlayFloat(&merged.ChangeAmount, incoming.ChangeAmount)
	overlayFloat(&merged.ChangePercent, incoming.ChangePercent)
	if incoming.TransactionCount != nil {
		v := *incoming.TransactionCount
		merged.TransactionCount = &v
	}

	merged.CollectedAt = incoming.CollectedAt
	if incoming.DataQualityScore > 0 {
		merged.DataQualityScore = incoming.DataQualityScore
	}
	if incoming.SourceMetadata != "" {
		merged.SourceMetadata = incoming.SourceMetadata
	}
	if strictPriorityWin {
		merged.DataSource = incoming.DataSource
		merged.SourcePriority = incoming.SourcePriority
	}
	return Decision{Action: ActionUpdate, Result: &merged}
}

func overlayFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Survivor picks the row to keep out of a group of stored bars that share one
// business key: lowest SourcePriority first, ties broken by earliest
// CreatedAt. It returns the surviving bar and the IDs of the rest. This is
// the convergence rule the dedup pass uses to restore key uniqueness.
func Survivor(group []models.HistoricalBar) (models.HistoricalBar, []string) {
	best := 0
	for i := 1; i < len(group); i++ {
		if better(group[i], group[best]) {
			best = i
		}
	}
	drop := make([]string, 0, len(group)-1)
	for i, bar := range group {
		if i != best {
			drop = append(drop, bar.ID)
		}
	}
	return group[best], drop
}

func better(a, b models.HistoricalBar) bool {
	if a.SourcePriority != b.SourcePriority {
		return a.SourcePriority < b.SourcePriority
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
