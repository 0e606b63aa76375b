package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-careops/internal/leave"
	leaveerrors "go-careops/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEditorService struct {
	openFn     func(ctx context.Context, branchID, leaveID string) (leave.EditSessionResponse, error)
	getFn      func(ctx context.Context, branchID, leaveID string) (leave.EditSessionResponse, error)
	setDatesFn func(ctx context.Context, branchID, leaveID string, req leave.SetDatesRequest) (leave.EditSessionResponse, error)
	reassignFn func(ctx context.Context, branchID, leaveID, bookingID string, req leave.ReassignConflictRequest) (leave.EditSessionResponse, error)
	cancelFn   func(ctx context.Context, branchID, leaveID, bookingID string, req leave.CancelConflictRequest) (leave.EditSessionResponse, error)
	saveFn     func(ctx context.Context, branchID, leaveID string, req leave.SaveEditRequest) (leave.LeaveResponse, error)
	closeFn    func(ctx context.Context, branchID, leaveID string) error
}

func (f *fakeEditorService) Open(ctx context.Context, branchID, leaveID string) (leave.EditSessionResponse, error) {
	return f.openFn(ctx, branchID, leaveID)
}

func (f *fakeEditorService) Get(ctx context.Context, branchID, leaveID string) (leave.EditSessionResponse, error) {
	return f.getFn(ctx, branchID, leaveID)
}

func (f *fakeEditorService) SetDates(ctx context.Context, branchID, leaveID string, req leave.SetDatesRequest) (leave.EditSessionResponse, error) {
	return f.setDatesFn(ctx, branchID, leaveID, req)
}

func (f *fakeEditorService) Reassign(ctx context.Context, branchID, leaveID, bookingID string, req leave.ReassignConflictRequest) (leave.EditSessionResponse, error) {
	return f.reassignFn(ctx, branchID, leaveID, bookingID, req)
}

func (f *fakeEditorService) Cancel(ctx context.Context, branchID, leaveID, bookingID string, req leave.CancelConflictRequest) (leave.EditSessionResponse, error) {
	return f.cancelFn(ctx, branchID, leaveID, bookingID, req)
}

func (f *fakeEditorService) Save(ctx context.Context, branchID, leaveID string, req leave.SaveEditRequest) (leave.LeaveResponse, error) {
	return f.saveFn(ctx, branchID, leaveID, req)
}

func (f *fakeEditorService) Close(ctx context.Context, branchID, leaveID string) error {
	return f.closeFn(ctx, branchID, leaveID)
}

func newEditorTestContext(t *testing.T, method, path, body, branchID, leaveID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("branch_id", branchID)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: leaveID}}

	return c, w
}

func TestLeaveHandler_OpenEditSession(t *testing.T) {
	branchID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		editor := &fakeEditorService{
			openFn: func(ctx context.Context, bid, lid string) (leave.EditSessionResponse, error) {
				assert.Equal(t, branchID, bid)
				assert.Equal(t, leaveID, lid)
				return leave.EditSessionResponse{
					LeaveID:        lid,
					State:          leave.SessionStateEditing,
					ConflictsKnown: true,
				}, nil
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session", "", branchID, leaveID)
		h.OpenEditSession(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), leaveID)
	})

	t.Run("session already open", func(t *testing.T) {
		editor := &fakeEditorService{
			openFn: func(ctx context.Context, bid, lid string) (leave.EditSessionResponse, error) {
				return leave.EditSessionResponse{}, leaveerrors.ErrEditSessionExists
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session", "", branchID, leaveID)
		h.OpenEditSession(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_SetEditDates(t *testing.T) {
	branchID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		editor := &fakeEditorService{
			setDatesFn: func(ctx context.Context, bid, lid string, req leave.SetDatesRequest) (leave.EditSessionResponse, error) {
				assert.Equal(t, "2026-04-06", req.StartDate)
				assert.Equal(t, "2026-04-10", req.EndDate)
				return leave.EditSessionResponse{LeaveID: lid, ConflictsKnown: true}, nil
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"start_date":"2026-04-06","end_date":"2026-04-10"}`
		c, w := newEditorTestContext(t, http.MethodPut, "/leaves/"+leaveID+"/edit-session/dates", body, branchID, leaveID)
		h.SetEditDates(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing dates", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, &fakeEditorService{})

		c, w := newEditorTestContext(t, http.MethodPut, "/leaves/"+leaveID+"/edit-session/dates", `{}`, branchID, leaveID)
		h.SetEditDates(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_ReassignConflict(t *testing.T) {
	branchID := uuid.New().String()
	leaveID := uuid.New().String()
	bookingID := uuid.New().String()
	toCarer := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		editor := &fakeEditorService{
			reassignFn: func(ctx context.Context, bid, lid, bkid string, req leave.ReassignConflictRequest) (leave.EditSessionResponse, error) {
				assert.Equal(t, bookingID, bkid)
				assert.Equal(t, toCarer, req.ToCarerID)
				return leave.EditSessionResponse{LeaveID: lid, ResolvedIDs: []string{bkid}}, nil
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"to_carer_id":"` + toCarer + `"}`
		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/bookings/"+bookingID+"/reassign", body, branchID, leaveID)
		c.Params = append(c.Params, gin.Param{Key: "bookingId", Value: bookingID})
		h.ReassignConflict(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), bookingID)
	})

	t.Run("booking outside conflict set", func(t *testing.T) {
		editor := &fakeEditorService{
			reassignFn: func(ctx context.Context, bid, lid, bkid string, req leave.ReassignConflictRequest) (leave.EditSessionResponse, error) {
				return leave.EditSessionResponse{}, leaveerrors.ErrBookingNotInConflictSet
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"to_carer_id":"` + toCarer + `"}`
		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/bookings/"+bookingID+"/reassign", body, branchID, leaveID)
		c.Params = append(c.Params, gin.Param{Key: "bookingId", Value: bookingID})
		h.ReassignConflict(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing target carer", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, &fakeEditorService{})

		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/bookings/"+bookingID+"/reassign", `{}`, branchID, leaveID)
		c.Params = append(c.Params, gin.Param{Key: "bookingId", Value: bookingID})
		h.ReassignConflict(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_SaveEdit(t *testing.T) {
	branchID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		editor := &fakeEditorService{
			saveFn: func(ctx context.Context, bid, lid string, req leave.SaveEditRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "SICK", req.LeaveType)
				return leave.LeaveResponse{ID: lid, StartDate: "2026-04-06", EndDate: "2026-04-10"}, nil
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"leave_type":"SICK","reason":"updated"}`
		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/save", body, branchID, leaveID)
		h.SaveEdit(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2026-04-06")
	})

	t.Run("unresolved conflicts block save", func(t *testing.T) {
		editor := &fakeEditorService{
			saveFn: func(ctx context.Context, bid, lid string, req leave.SaveEditRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrConflictsUnresolved
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"leave_type":"ANNUAL"}`
		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/save", body, branchID, leaveID)
		h.SaveEdit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("conflicts unknown block save", func(t *testing.T) {
		editor := &fakeEditorService{
			saveFn: func(ctx context.Context, bid, lid string, req leave.SaveEditRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrConflictsUnknown
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		body := `{"leave_type":"ANNUAL"}`
		c, w := newEditorTestContext(t, http.MethodPost, "/leaves/"+leaveID+"/edit-session/save", body, branchID, leaveID)
		h.SaveEdit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestLeaveHandler_CloseEditSession(t *testing.T) {
	branchID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		editor := &fakeEditorService{
			closeFn: func(ctx context.Context, bid, lid string) error {
				return nil
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		c, w := newEditorTestContext(t, http.MethodDelete, "/leaves/"+leaveID+"/edit-session", "", branchID, leaveID)
		h.CloseEditSession(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		editor := &fakeEditorService{
			closeFn: func(ctx context.Context, bid, lid string) error {
				return leaveerrors.ErrEditSessionNotFound
			},
		}
		h := leave.NewHandler(&fakeLeaveService{}, editor)

		c, w := newEditorTestContext(t, http.MethodDelete, "/leaves/"+leaveID+"/edit-session", "", branchID, leaveID)
		h.CloseEditSession(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
