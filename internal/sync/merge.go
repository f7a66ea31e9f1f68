// Package sync implements the offline-first synchronization cycle:
// draining the pending-action queue against the remote store, fetching
// the remote collections and merging them with the local working set.
package sync

import "time"

// MergeByID merges a remote collection into a local one. For every
// remote item with a local counterpart the local item wins (it may hold
// unsynced edits); remote-only items are taken as-is and local-only
// items (new, not yet pushed) are appended. The result is stable under
// repeated application with unchanged inputs.
func MergeByID[T any](local, remote []T, id func(T) string) []T {
	localByID := make(map[string]T, len(local))
	for _, item := range local {
		localByID[id(item)] = item
	}

	merged := make([]T, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))
	for _, item := range remote {
		key := id(item)
		seen[key] = true
		if localItem, ok := localByID[key]; ok {
			merged = append(merged, localItem)
		} else {
			merged = append(merged, item)
		}
	}
	for _, item := range local {
		if !seen[id(item)] {
			merged = append(merged, item)
		}
	}
	return merged
}

// Conflict records an id present on both sides whose timestamps diverge
// beyond the allowed skew
type Conflict[T any] struct {
	ID         string
	Local      T
	Remote     T
	LocalNewer bool
}

// DetectConflicts compares local and remote items sharing an id and
// reports those whose updatedAt timestamps differ by more than skew.
// Only vehicles and staff are conflict-checked; targets and bonuses are
// period-replaced wholesale and never diverge per row.
func DetectConflicts[T any](local, remote []T, id func(T) string, updatedAt func(T) time.Time, skew time.Duration) []Conflict[T] {
	remoteByID := make(map[string]T, len(remote))
	for _, item := range remote {
		remoteByID[id(item)] = item
	}

	var conflicts []Conflict[T]
	for _, localItem := range local {
		remoteItem, ok := remoteByID[id(localItem)]
		if !ok {
			continue
		}
		localTime := updatedAt(localItem)
		remoteTime := updatedAt(remoteItem)
		delta := localTime.Sub(remoteTime)
		if delta < 0 {
			delta = -delta
		}
		if delta > skew {
			conflicts = append(conflicts, Conflict[T]{
				ID:         id(localItem),
				Local:      localItem,
				Remote:     remoteItem,
				LocalNewer: localTime.After(remoteTime),
			})
		}
	}
	return conflicts
}

// Resolver decides which side of a conflict survives. The default is
// last-write-wins; stricter policies can be substituted without touching
// the merge driver.
type Resolver[T any] interface {
	Resolve(c Conflict[T]) T
}

// LastWriteWins keeps whichever side carries the newer updatedAt
type LastWriteWins[T any] struct{}

// Resolve implements Resolver
func (LastWriteWins[T]) Resolve(c Conflict[T]) T {
	if c.LocalNewer {
		return c.Local
	}
	return c.Remote
}

// ApplyResolutions overwrites merged entries with the resolved side of
// each conflict
func ApplyResolutions[T any](merged []T, conflicts []Conflict[T], id func(T) string, resolver Resolver[T]) []T {
	if len(conflicts) == 0 {
		return merged
	}
	resolved := make(map[string]T, len(conflicts))
	for _, c := range conflicts {
		resolved[c.ID] = resolver.Resolve(c)
	}
	out := make([]T, len(merged))
	for i, item := range merged {
		if winner, ok := resolved[id(item)]; ok {
			out[i] = winner
		} else {
			out[i] = item
		}
	}
	return out
}
