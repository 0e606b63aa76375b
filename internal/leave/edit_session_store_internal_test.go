package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEditSessionStore_JanitorEvictsExpired(t *testing.T) {
	st := NewEditSessionStore(10 * time.Millisecond)

	sess := &EditSession{
		LeaveID:  "leave-1",
		BranchID: "branch-1",
		State:    SessionStateEditing,
		Tracker:  NewResolutionTracker(),
	}
	assert.NoError(t, st.Put(sess))

	st.mu.Lock()
	sess.LastTouched = time.Now().Add(-time.Minute)
	st.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st.StartJanitor(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		st.mu.Lock()
		defer st.mu.Unlock()
		_, ok := st.sessions["leave-1"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}
