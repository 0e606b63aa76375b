package leave

import "go-careops/internal/booking"

// ResolutionTracker records which conflicting bookings have been dealt with
// during one edit session. It only ever grows; changing the candidate dates
// swaps the affected set out from under it, so the unresolved count is always
// recomputed against the current set rather than cached.
type ResolutionTracker struct {
	resolved map[string]struct{}
}

func NewResolutionTracker() *ResolutionTracker {
	t := &ResolutionTracker{}
	t.Reset()
	return t
}

// Reset clears the set. A session entering editing always starts from an empty
// tracker; resolutions never carry over from an earlier session on the same
// leave.
func (t *ResolutionTracker) Reset() {
	t.resolved = make(map[string]struct{})
}

// MarkResolved is idempotent; resolving the same booking twice is a no-op.
func (t *ResolutionTracker) MarkResolved(bookingID string) {
	t.resolved[bookingID] = struct{}{}
}

func (t *ResolutionTracker) IsResolved(bookingID string) bool {
	_, ok := t.resolved[bookingID]
	return ok
}

// UnresolvedCount counts the bookings in the given affected set that have not
// been resolved. Resolved ids absent from the set do not count toward it.
func (t *ResolutionTracker) UnresolvedCount(affected []booking.AffectedBooking) int {
	count := 0
	for _, b := range affected {
		if !t.IsResolved(b.ID) {
			count++
		}
	}
	return count
}

// ResolvedIDs returns the resolved ids restricted to the given affected set,
// preserving the set's order.
func (t *ResolutionTracker) ResolvedIDs(affected []booking.AffectedBooking) []string {
	ids := make([]string, 0, len(t.resolved))
	for _, b := range affected {
		if t.IsResolved(b.ID) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
