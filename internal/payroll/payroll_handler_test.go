package payroll_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-careops/internal/payroll"
	payrollerrors "go-careops/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayrollService struct {
	createFn          func(ctx context.Context, branchID, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error)
	getAllFn          func(ctx context.Context, branchID string) ([]payroll.PayrollResponse, error)
	getByIDFn         func(ctx context.Context, branchID, id string) (payroll.PayrollResponse, error)
	updateFn          func(ctx context.Context, branchID, actorID, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error)
	deleteFn          func(ctx context.Context, branchID, id string) error
	requestPayslipFn  func(ctx context.Context, branchID, actorID, id string) (payroll.PayrollResponse, error)
	generatePayslipFn func(ctx context.Context, branchID, id string) (payroll.PayrollResponse, error)
}

func (f *fakePayrollService) Create(ctx context.Context, branchID, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.createFn(ctx, branchID, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, branchID string) ([]payroll.PayrollResponse, error) {
	return f.getAllFn(ctx, branchID)
}

func (f *fakePayrollService) GetByID(ctx context.Context, branchID, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, branchID, id)
}

func (f *fakePayrollService) Update(ctx context.Context, branchID, actorID, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.updateFn(ctx, branchID, actorID, id, req)
}

func (f *fakePayrollService) Delete(ctx context.Context, branchID, id string) error {
	return f.deleteFn(ctx, branchID, id)
}

func (f *fakePayrollService) RequestPayslip(ctx context.Context, branchID, actorID, id string) (payroll.PayrollResponse, error) {
	return f.requestPayslipFn(ctx, branchID, actorID, id)
}

func (f *fakePayrollService) GeneratePayslip(ctx context.Context, branchID, id string) (payroll.PayrollResponse, error) {
	return f.generatePayslipFn(ctx, branchID, id)
}

func newPayrollTestContext(t *testing.T, method, path, body, branchID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("branch_id", branchID)
	c.Set("user_id", uuid.New().String())

	return c, w
}

func TestPayrollHandler_Create(t *testing.T) {
	branchID := uuid.New().String()
	carerID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakePayrollService{
			createFn: func(ctx context.Context, bid, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
				assert.Equal(t, branchID, bid)
				assert.Equal(t, carerID, req.CarerID)
				assert.Equal(t, int64(2400), req.MinutesWorked)
				return payroll.PayrollResponse{
					ID:         uuid.New().String(),
					CarerID:    req.CarerID,
					GrossPence: 72000,
					NetPence:   64000,
					Status:     payroll.StatusDraft,
				}, nil
			},
		}
		h := payroll.NewHandler(svc)

		body := `{"carer_id":"` + carerID + `","period_start":"2026-03-01","period_end":"2026-03-31","minutes_worked":2400,"hourly_rate_pence":1800,"deduction_pence":8000}`
		c, w := newPayrollTestContext(t, http.MethodPost, "/payrolls", body, branchID)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), carerID)
	})

	t.Run("missing carer id", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})

		body := `{"period_start":"2026-03-01","period_end":"2026-03-31","minutes_worked":2400}`
		c, w := newPayrollTestContext(t, http.MethodPost, "/payrolls", body, branchID)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("overlapping period", func(t *testing.T) {
		svc := &fakePayrollService{
			createFn: func(ctx context.Context, bid, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{}, payrollerrors.ErrPayrollOverlap
			},
		}
		h := payroll.NewHandler(svc)

		body := `{"carer_id":"` + carerID + `","period_start":"2026-03-01","period_end":"2026-03-31","minutes_worked":2400}`
		c, w := newPayrollTestContext(t, http.MethodPost, "/payrolls", body, branchID)
		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPayrollHandler_Update(t *testing.T) {
	branchID := uuid.New().String()
	carerID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("paid without paid_at", func(t *testing.T) {
		svc := &fakePayrollService{
			updateFn: func(ctx context.Context, bid, actorID, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{}, payrollerrors.ErrPaidAtRequired
			},
		}
		h := payroll.NewHandler(svc)

		body := `{"carer_id":"` + carerID + `","period_start":"2026-03-01","period_end":"2026-03-31","minutes_worked":2400,"status":"PAID"}`
		c, w := newPayrollTestContext(t, http.MethodPut, "/payrolls/"+payrollID, body, branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid status rejected by binding", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})

		body := `{"carer_id":"` + carerID + `","period_start":"2026-03-01","period_end":"2026-03-31","minutes_worked":2400,"status":"FINALISED"}`
		c, w := newPayrollTestContext(t, http.MethodPut, "/payrolls/"+payrollID, body, branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_RequestPayslip(t *testing.T) {
	branchID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("accepted", func(t *testing.T) {
		svc := &fakePayrollService{
			requestPayslipFn: func(ctx context.Context, bid, actorID, id string) (payroll.PayrollResponse, error) {
				assert.Equal(t, branchID, bid)
				assert.Equal(t, payrollID, id)
				return payroll.PayrollResponse{ID: id, Status: payroll.StatusProcessed}, nil
			},
		}
		h := payroll.NewHandler(svc)

		c, w := newPayrollTestContext(t, http.MethodPost, "/payrolls/"+payrollID+"/payslip", "", branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.RequestPayslip(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), payrollID)
	})

	t.Run("payroll not found", func(t *testing.T) {
		svc := &fakePayrollService{
			requestPayslipFn: func(ctx context.Context, bid, actorID, id string) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{}, payrollerrors.ErrPayrollNotFound
			},
		}
		h := payroll.NewHandler(svc)

		c, w := newPayrollTestContext(t, http.MethodPost, "/payrolls/"+payrollID+"/payslip", "", branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.RequestPayslip(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPayrollHandler_DownloadPayslip(t *testing.T) {
	branchID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("serves generated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "payslip-"+payrollID+".pdf")
		err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644)
		assert.NoError(t, err)

		svc := &fakePayrollService{
			getByIDFn: func(ctx context.Context, bid, id string) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{ID: id, PayslipURL: &path}, nil
			},
		}
		h := payroll.NewHandler(svc)

		c, w := newPayrollTestContext(t, http.MethodGet, "/payrolls/"+payrollID+"/payslip/download", "", branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip-"+payrollID+".pdf")
	})

	t.Run("payslip not generated yet", func(t *testing.T) {
		svc := &fakePayrollService{
			getByIDFn: func(ctx context.Context, bid, id string) (payroll.PayrollResponse, error) {
				return payroll.PayrollResponse{ID: id}, nil
			},
		}
		h := payroll.NewHandler(svc)

		c, w := newPayrollTestContext(t, http.MethodGet, "/payrolls/"+payrollID+"/payslip/download", "", branchID)
		c.Params = gin.Params{{Key: "id", Value: payrollID}}
		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPayrollHandler_GetAll(t *testing.T) {
	branchID := uuid.New().String()

	t.Run("paginates results", func(t *testing.T) {
		all := make([]payroll.PayrollResponse, 0, 15)
		for i := 0; i < 15; i++ {
			all = append(all, payroll.PayrollResponse{ID: uuid.New().String(), Status: payroll.StatusDraft})
		}
		svc := &fakePayrollService{
			getAllFn: func(ctx context.Context, bid string) ([]payroll.PayrollResponse, error) {
				return all, nil
			},
		}
		h := payroll.NewHandler(svc)

		c, w := newPayrollTestContext(t, http.MethodGet, "/payrolls?page=2&page_size=10", "", branchID)
		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), all[14].ID)
		assert.NotContains(t, w.Body.String(), all[0].ID)
		assert.Contains(t, w.Body.String(), `"total":15`)
	})
}
