package domain

import (
	"slices"
	"time"
)

// MergeResult is the outcome of reconciling a remote batch into the local collection.
type MergeResult struct {
	// Quotes is the reconciled collection.
	Quotes []Quote

	// Added counts remote records appended because nothing local matched.
	Added int

	// Conflicts holds disagreements detected in this merge only.
	Conflicts []Conflict
}

// Merge reconciles incoming remote records into local with server precedence.
//
// Each incoming record is matched by id first, then by normalized text.
// An id match overwrites the local record. A text match converts the local
// record into the server's identity while keeping its text. Anything else is
// appended. Merge never mutates its arguments.
func Merge(local, incoming []Quote, now time.Time) MergeResult {
	quotes := slices.Clone(local)
	byID := make(map[string]int, len(quotes))
	byText := make(textIndex, len(quotes))

	for i, q := range quotes {
		byID[q.ID] = i
		byText.add(q.TextKey(), i)
	}

	result := MergeResult{}

	for _, remote := range incoming {
		if i, ok := byID[remote.ID]; ok {
			before := quotes[i]
			if !before.SameContent(remote) {
				result.Conflicts = append(result.Conflicts,
					NewConflict(ConflictSameIDDifferentContent, before, remote, now))
			}

			updated := remote
			updated.Source = SourceServer
			quotes[i] = updated

			byText.remove(before.TextKey(), i)
			byText.add(updated.TextKey(), i)

			continue
		}

		if i, ok := byText.first(remote.TextKey()); ok {
			before := quotes[i]
			if before.Category != remote.Category || !before.UpdatedAt.Equal(remote.UpdatedAt) {
				result.Conflicts = append(result.Conflicts,
					NewConflict(ConflictSameTextDifferentMeta, before, remote, now))
			}

			converted := before
			converted.ID = remote.ID
			converted.Category = remote.Category
			converted.Source = SourceServer

			if remote.UpdatedAt.After(before.UpdatedAt) {
				converted.UpdatedAt = remote.UpdatedAt
			}

			quotes[i] = converted

			delete(byID, before.ID)
			byID[converted.ID] = i

			continue
		}

		added := remote
		added.Source = SourceServer
		quotes = append(quotes, added)

		byID[added.ID] = len(quotes) - 1
		byText.add(added.TextKey(), len(quotes)-1)
		result.Added++
	}

	result.Quotes = quotes

	return result
}

// textIndex maps a normalized text to every position holding it, in collection order.
// Add and Import do not deduplicate, so one key can own several records.
type textIndex map[string][]int

func (x textIndex) add(key string, i int) {
	if slices.Contains(x[key], i) {
		return
	}

	x[key] = append(x[key], i)
	slices.Sort(x[key])
}

func (x textIndex) remove(key string, i int) {
	rest := slices.DeleteFunc(x[key], func(j int) bool { return j == i })
	if len(rest) == 0 {
		delete(x, key)
		return
	}

	x[key] = rest
}

func (x textIndex) first(key string) (int, bool) {
	if len(x[key]) == 0 {
		return 0, false
	}

	return x[key][0], true
}
