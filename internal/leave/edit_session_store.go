package leave

import (
	"context"
	"sync"
	"time"

	"go-careops/internal/booking"
	leaveerrors "go-careops/internal/leave/errors"

	"go.uber.org/zap"
)

const (
	SessionStateEditing = "editing"
	SessionStateSaving  = "saving"
)

// EditSession holds the transient state of one open leave editor. It lives in
// memory only; closing the dialog or letting it expire discards everything
// except the booking mutations that already committed.
type EditSession struct {
	LeaveID  string
	BranchID string
	CarerID  string

	State     string
	StartDate time.Time
	EndDate   time.Time

	// ConflictsKnown is false until a conflict query has completed
	// successfully for the current dates. A failed query resets it, and an
	// unknown conflict state blocks save; it must never be read as zero
	// conflicts.
	ConflictsKnown   bool
	AffectedBookings []booking.AffectedBooking

	Tracker *ResolutionTracker

	LastTouched time.Time
}

func (s *EditSession) datesSelected() bool {
	return !s.StartDate.IsZero() && !s.EndDate.IsZero()
}

// CanSave is the save gate: dates selected, conflicts known for those dates,
// every affected booking resolved, and no save already in flight.
func (s *EditSession) CanSave() bool {
	return s.State == SessionStateEditing &&
		s.datesSelected() &&
		s.ConflictsKnown &&
		s.Tracker.UnresolvedCount(s.AffectedBookings) == 0
}

// EditSessionStore keeps open sessions keyed by leave id. One session per
// leave request; a second coordinator opening the same leave gets a conflict
// rather than a silently shared tracker.
type EditSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*EditSession
	ttl      time.Duration
	logger   *zap.Logger
}

func NewEditSessionStore(ttl time.Duration, logger ...*zap.Logger) *EditSessionStore {
	l := zap.L().Named("leave.sessions")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.sessions")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &EditSessionStore{
		sessions: make(map[string]*EditSession),
		ttl:      ttl,
		logger:   l,
	}
}

// WithSession runs fn while holding the store lock, so all reads and writes
// of one session are serialized. fn must not block on I/O for long; network
// calls happen outside and their results are re-applied under the lock.
func (st *EditSessionStore) WithSession(leaveID string, fn func(*EditSession) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[leaveID]
	if !ok || st.expired(sess) {
		delete(st.sessions, leaveID)
		return leaveerrors.ErrEditSessionNotFound
	}
	sess.LastTouched = time.Now()
	return fn(sess)
}

func (st *EditSessionStore) Put(sess *EditSession) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if existing, ok := st.sessions[sess.LeaveID]; ok && !st.expired(existing) {
		return leaveerrors.ErrEditSessionExists
	}
	sess.LastTouched = time.Now()
	st.sessions[sess.LeaveID] = sess
	return nil
}

func (st *EditSessionStore) Delete(leaveID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, leaveID)
}

func (st *EditSessionStore) expired(sess *EditSession) bool {
	return time.Since(sess.LastTouched) > st.ttl
}

// StartJanitor evicts expired sessions until ctx is done.
func (st *EditSessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.evictExpired()
			}
		}
	}()
}

func (st *EditSessionStore) evictExpired() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			st.logger.Info("expired edit session evicted", zap.String("leave_id", id))
		}
	}
}
