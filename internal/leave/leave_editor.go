package leave

import (
	"context"
	"fmt"
	"time"

	"go-careops/internal/booking"
	leaveerrors "go-careops/internal/leave/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_editor.go -destination=mock/leave_editor_mock.go -package=mock

// EditorService drives the leave-edit workflow: open a session, adjust the
// candidate dates, resolve each conflicting booking by reassigning or
// cancelling it, and only then save the new dates back onto the leave.
type EditorService interface {
	Open(ctx context.Context, branchID, leaveID string) (EditSessionResponse, error)
	Get(ctx context.Context, branchID, leaveID string) (EditSessionResponse, error)
	SetDates(ctx context.Context, branchID, leaveID string, req SetDatesRequest) (EditSessionResponse, error)
	Reassign(ctx context.Context, branchID, leaveID, bookingID string, req ReassignConflictRequest) (EditSessionResponse, error)
	Cancel(ctx context.Context, branchID, leaveID, bookingID string, req CancelConflictRequest) (EditSessionResponse, error)
	Save(ctx context.Context, branchID, leaveID string, req SaveEditRequest) (LeaveResponse, error)
	Close(ctx context.Context, branchID, leaveID string) error
}

type editor struct {
	store    *EditSessionStore
	leaves   Service
	bookings booking.Service
	logger   *zap.Logger
}

func NewEditor(store *EditSessionStore, leaves Service, bookings booking.Service, logger ...*zap.Logger) EditorService {
	l := zap.L().Named("leave.editor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.editor")
	}
	return &editor{
		store:    store,
		leaves:   leaves,
		bookings: bookings,
		logger:   l,
	}
}

// Open creates a session seeded with the leave's stored dates and runs the
// initial conflict check. The tracker always starts empty: resolutions from a
// previous session do not carry over.
func (e *editor) Open(ctx context.Context, branchID, leaveID string) (EditSessionResponse, error) {
	l, err := e.leaves.GetByID(ctx, branchID, leaveID)
	if err != nil {
		return EditSessionResponse{}, err
	}

	// Stored dates come from our own writes, but a corrupt row must not seed a
	// zero-date session that the save gate would then reason about.
	startDate, err := time.Parse("2006-01-02", l.StartDate)
	if err != nil {
		return EditSessionResponse{}, fmt.Errorf("leave %s: bad stored start date %q: %w", leaveID, l.StartDate, err)
	}
	endDate, err := time.Parse("2006-01-02", l.EndDate)
	if err != nil {
		return EditSessionResponse{}, fmt.Errorf("leave %s: bad stored end date %q: %w", leaveID, l.EndDate, err)
	}

	sess := &EditSession{
		LeaveID:   leaveID,
		BranchID:  branchID,
		CarerID:   l.CarerID,
		State:     SessionStateEditing,
		StartDate: startDate,
		EndDate:   endDate,
		Tracker:   NewResolutionTracker(),
	}
	if err := e.store.Put(sess); err != nil {
		return EditSessionResponse{}, err
	}

	e.logger.Info("edit session opened",
		zap.String("leave_id", leaveID),
		zap.String("carer_id", l.CarerID),
	)

	return e.refreshConflicts(ctx, branchID, leaveID, startDate, endDate)
}

func (e *editor) Get(ctx context.Context, branchID, leaveID string) (EditSessionResponse, error) {
	var resp EditSessionResponse
	err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		if sess.BranchID != branchID {
			return leaveerrors.ErrEditSessionNotFound
		}
		resp = snapshot(sess)
		return nil
	})
	return resp, err
}

// SetDates changes the candidate window and re-runs the conflict check. The
// previous conflict list is discarded immediately; until the new check
// completes the session reports conflicts as unknown, which blocks save.
func (e *editor) SetDates(ctx context.Context, branchID, leaveID string, req SetDatesRequest) (EditSessionResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return EditSessionResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return EditSessionResponse{}, err
	}
	if startDate.After(endDate) {
		return EditSessionResponse{}, leaveerrors.ErrInvalidDateRange
	}

	err = e.store.WithSession(leaveID, func(sess *EditSession) error {
		if sess.BranchID != branchID {
			return leaveerrors.ErrEditSessionNotFound
		}
		if sess.State == SessionStateSaving {
			return leaveerrors.ErrEditSessionSaving
		}
		sess.StartDate = startDate
		sess.EndDate = endDate
		sess.ConflictsKnown = false
		sess.AffectedBookings = nil
		return nil
	})
	if err != nil {
		return EditSessionResponse{}, err
	}

	return e.refreshConflicts(ctx, branchID, leaveID, startDate, endDate)
}

// refreshConflicts queries outside the store lock and re-applies the result
// under it. A result for dates the session has since moved past is dropped,
// as is a result for a session that was closed while the query ran.
func (e *editor) refreshConflicts(ctx context.Context, branchID, leaveID string, startDate, endDate time.Time) (EditSessionResponse, error) {
	var carerID string
	err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		carerID = sess.CarerID
		return nil
	})
	if err != nil {
		return EditSessionResponse{}, err
	}

	result, queryErr := e.bookings.FindConflicts(ctx, branchID, carerID,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var resp EditSessionResponse
	err = e.store.WithSession(leaveID, func(sess *EditSession) error {
		if !sess.StartDate.Equal(startDate) || !sess.EndDate.Equal(endDate) {
			// Dates moved on while this query ran; a newer query owns the
			// session now.
			resp = snapshot(sess)
			return nil
		}
		if queryErr != nil {
			sess.ConflictsKnown = false
			sess.AffectedBookings = nil
		} else {
			sess.ConflictsKnown = true
			sess.AffectedBookings = result.AffectedBookings
		}
		resp = snapshot(sess)
		return nil
	})
	if err != nil {
		return EditSessionResponse{}, err
	}

	if queryErr != nil {
		e.logger.Error("conflict check failed; save stays blocked",
			zap.String("leave_id", leaveID),
			zap.Error(queryErr),
		)
		return resp, queryErr
	}
	return resp, nil
}

func (e *editor) Reassign(ctx context.Context, branchID, leaveID, bookingID string, req ReassignConflictRequest) (EditSessionResponse, error) {
	if err := e.checkResolvable(branchID, leaveID, bookingID); err != nil {
		return EditSessionResponse{}, err
	}

	var leaveCarerID string
	if err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		leaveCarerID = sess.CarerID
		return nil
	}); err != nil {
		return EditSessionResponse{}, err
	}
	if req.ToCarerID == leaveCarerID {
		return EditSessionResponse{}, leaveerrors.ErrReassignToLeaveCarer
	}

	if _, err := e.bookings.Reassign(ctx, branchID, bookingID, booking.ReassignBookingRequest{
		ToCarerID: req.ToCarerID,
		Note:      req.Note,
	}); err != nil {
		return EditSessionResponse{}, err
	}

	return e.markResolved(leaveID, bookingID)
}

func (e *editor) Cancel(ctx context.Context, branchID, leaveID, bookingID string, req CancelConflictRequest) (EditSessionResponse, error) {
	if err := e.checkResolvable(branchID, leaveID, bookingID); err != nil {
		return EditSessionResponse{}, err
	}

	if _, err := e.bookings.Cancel(ctx, branchID, bookingID, booking.CancelBookingRequest{
		Reason: req.Reason,
	}); err != nil {
		return EditSessionResponse{}, err
	}

	return e.markResolved(leaveID, bookingID)
}

func (e *editor) checkResolvable(branchID, leaveID, bookingID string) error {
	return e.store.WithSession(leaveID, func(sess *EditSession) error {
		if sess.BranchID != branchID {
			return leaveerrors.ErrEditSessionNotFound
		}
		if sess.State == SessionStateSaving {
			return leaveerrors.ErrEditSessionSaving
		}
		for _, b := range sess.AffectedBookings {
			if b.ID == bookingID {
				return nil
			}
		}
		return leaveerrors.ErrBookingNotInConflictSet
	})
}

// markResolved records a successful resolution. The booking mutation has
// already committed, so a session that expired mid-request just loses the
// tracker entry; the next conflict query will no longer report the booking.
func (e *editor) markResolved(leaveID, bookingID string) (EditSessionResponse, error) {
	var resp EditSessionResponse
	err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		sess.Tracker.MarkResolved(bookingID)
		resp = snapshot(sess)
		return nil
	})
	if err != nil {
		return EditSessionResponse{}, err
	}

	e.logger.Info("conflict resolved",
		zap.String("leave_id", leaveID),
		zap.String("booking_id", bookingID),
		zap.Int("unresolved", resp.UnresolvedCount),
	)
	return resp, nil
}

// Save applies the edited dates if and only if the gate holds. The session
// flips to saving for the duration so concurrent saves and date changes are
// rejected; on failure it flips back and the session stays open for retry.
func (e *editor) Save(ctx context.Context, branchID, leaveID string, req SaveEditRequest) (LeaveResponse, error) {
	var startDate, endDate time.Time
	err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		if sess.BranchID != branchID {
			return leaveerrors.ErrEditSessionNotFound
		}
		if sess.State == SessionStateSaving {
			return leaveerrors.ErrEditSessionSaving
		}
		if !sess.datesSelected() {
			return leaveerrors.ErrInvalidDateRange
		}
		if !sess.ConflictsKnown {
			return leaveerrors.ErrConflictsUnknown
		}
		if sess.Tracker.UnresolvedCount(sess.AffectedBookings) > 0 {
			return leaveerrors.ErrConflictsUnresolved
		}
		sess.State = SessionStateSaving
		startDate = sess.StartDate
		endDate = sess.EndDate
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	resp, err := e.leaves.ApplyEdit(ctx, branchID, leaveID, startDate, endDate, req.LeaveType, req.Reason)
	if err != nil {
		// Back to editing; the operator can fix up and retry.
		_ = e.store.WithSession(leaveID, func(sess *EditSession) error {
			sess.State = SessionStateEditing
			return nil
		})
		return LeaveResponse{}, err
	}

	e.store.Delete(leaveID)
	e.logger.Info("edit session saved",
		zap.String("leave_id", leaveID),
		zap.String("start_date", startDate.Format("2006-01-02")),
		zap.String("end_date", endDate.Format("2006-01-02")),
	)
	return resp, nil
}

// Close discards the session. Booking mutations performed during the session
// have already committed and are not rolled back.
func (e *editor) Close(ctx context.Context, branchID, leaveID string) error {
	err := e.store.WithSession(leaveID, func(sess *EditSession) error {
		if sess.BranchID != branchID {
			return leaveerrors.ErrEditSessionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.store.Delete(leaveID)
	e.logger.Info("edit session closed", zap.String("leave_id", leaveID))
	return nil
}

func snapshot(sess *EditSession) EditSessionResponse {
	affected := make([]booking.AffectedBooking, len(sess.AffectedBookings))
	copy(affected, sess.AffectedBookings)

	return EditSessionResponse{
		LeaveID:          sess.LeaveID,
		CarerID:          sess.CarerID,
		State:            sess.State,
		StartDate:        sess.StartDate.Format("2006-01-02"),
		EndDate:          sess.EndDate.Format("2006-01-02"),
		ConflictsKnown:   sess.ConflictsKnown,
		AffectedBookings: affected,
		ResolvedIDs:      sess.Tracker.ResolvedIDs(sess.AffectedBookings),
		UnresolvedCount:  sess.Tracker.UnresolvedCount(sess.AffectedBookings),
		CanSave:          sess.CanSave(),
	}
}
