package leave_test

import (
	"testing"

	"go-careops/internal/booking"
	"go-careops/internal/leave"

	"github.com/stretchr/testify/assert"
)

func affectedSet(ids ...string) []booking.AffectedBooking {
	out := make([]booking.AffectedBooking, len(ids))
	for i, id := range ids {
		out[i] = booking.AffectedBooking{ID: id}
	}
	return out
}

func TestResolutionTracker_MarkResolved(t *testing.T) {
	tracker := leave.NewResolutionTracker()
	affected := affectedSet("b1", "b2", "b3")

	assert.Equal(t, 3, tracker.UnresolvedCount(affected))

	tracker.MarkResolved("b2")
	assert.True(t, tracker.IsResolved("b2"))
	assert.Equal(t, 2, tracker.UnresolvedCount(affected))

	t.Run("idempotent", func(t *testing.T) {
		tracker.MarkResolved("b2")
		assert.Equal(t, 2, tracker.UnresolvedCount(affected))
		assert.Equal(t, []string{"b2"}, tracker.ResolvedIDs(affected))
	})
}

func TestResolutionTracker_Reset(t *testing.T) {
	tracker := leave.NewResolutionTracker()
	affected := affectedSet("b1", "b2")

	tracker.MarkResolved("b1")
	tracker.MarkResolved("b2")
	assert.Equal(t, 0, tracker.UnresolvedCount(affected))

	tracker.Reset()

	assert.False(t, tracker.IsResolved("b1"))
	assert.Equal(t, 2, tracker.UnresolvedCount(affected))
	assert.Empty(t, tracker.ResolvedIDs(affected))

	// Usable again after a reset.
	tracker.MarkResolved("b1")
	assert.Equal(t, 1, tracker.UnresolvedCount(affected))
}

func TestResolutionTracker_RecomputesAgainstCurrentSet(t *testing.T) {
	tracker := leave.NewResolutionTracker()

	tracker.MarkResolved("b1")
	tracker.MarkResolved("b2")
	assert.Equal(t, 0, tracker.UnresolvedCount(affectedSet("b1", "b2")))

	// The affected set changed; earlier resolutions outside it no longer count.
	newSet := affectedSet("b2", "b4")
	assert.Equal(t, 1, tracker.UnresolvedCount(newSet))
	assert.Equal(t, []string{"b2"}, tracker.ResolvedIDs(newSet))

	t.Run("empty set has nothing unresolved", func(t *testing.T) {
		assert.Equal(t, 0, tracker.UnresolvedCount(nil))
		assert.Empty(t, tracker.ResolvedIDs(nil))
	})
}

func TestResolutionTracker_ResolvedIDsPreserveSetOrder(t *testing.T) {
	tracker := leave.NewResolutionTracker()
	affected := affectedSet("b3", "b1", "b2")

	tracker.MarkResolved("b2")
	tracker.MarkResolved("b3")

	assert.Equal(t, []string{"b3", "b2"}, tracker.ResolvedIDs(affected))
}
