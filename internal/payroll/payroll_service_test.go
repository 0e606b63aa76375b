package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-careops/internal/payroll"
	payrollerrors "go-careops/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn               func(tx *sql.Tx) payroll.Repository
	createFn               func(ctx context.Context, p *payroll.Payroll) error
	findAllByBranchFn      func(ctx context.Context, branchID string) ([]payroll.Payroll, error)
	findByIDAndBranchFn    func(ctx context.Context, branchID, id string) (*payroll.Payroll, error)
	updateFn               func(ctx context.Context, p *payroll.Payroll) error
	deleteFn               func(ctx context.Context, branchID, id string) error
	carerBelongsToBranchFn func(ctx context.Context, branchID, carerID string) (bool, error)
	carerHourlyRateFn      func(ctx context.Context, branchID, carerID string) (int64, error)
	hasOverlappingPeriodFn func(ctx context.Context, branchID, carerID string, periodStart, periodEnd time.Time, excludeID *string) (bool, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindAllByBranch(ctx context.Context, branchID string) ([]payroll.Payroll, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*payroll.Payroll, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) Delete(ctx context.Context, branchID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, branchID, id)
	}
	return nil
}

func (f *fakePayrollRepository) CarerBelongsToBranch(ctx context.Context, branchID, carerID string) (bool, error) {
	if f.carerBelongsToBranchFn != nil {
		return f.carerBelongsToBranchFn(ctx, branchID, carerID)
	}
	return true, nil
}

func (f *fakePayrollRepository) CarerHourlyRate(ctx context.Context, branchID, carerID string) (int64, error) {
	if f.carerHourlyRateFn != nil {
		return f.carerHourlyRateFn(ctx, branchID, carerID)
	}
	return 0, nil
}

func (f *fakePayrollRepository) HasOverlappingPeriod(ctx context.Context, branchID, carerID string, periodStart, periodEnd time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, branchID, carerID, periodStart, periodEnd, excludeID)
	}
	return false, nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.Service
	repo    *fakePayrollRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	svc := payroll.NewService(db, repo, nil)

	return &payrollServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectPayrollTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	actorID := uuid.New().String()
	carerID := uuid.New().String()

	t.Run("computes gross and net in pence", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			// 90 hours at 18.50/h = 1665.00 gross
			assert.Equal(t, int64(166500), p.GrossPence)
			assert.Equal(t, int64(166500+2500-12000), p.NetPence)
			assert.Equal(t, payroll.StatusDraft, p.Status)
			return nil
		}

		resp, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:         carerID,
			PeriodStart:     "2026-03-01",
			PeriodEnd:       "2026-03-31",
			MinutesWorked:   5400,
			HourlyRatePence: 1850,
			ExpensesPence:   2500,
			DeductionPence:  12000,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(166500), resp.GrossPence)
		assert.Equal(t, int64(157000), resp.NetPence)
	})

	t.Run("partial hours round down to the penny", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:         carerID,
			PeriodStart:     "2026-03-01",
			PeriodEnd:       "2026-03-31",
			MinutesWorked:   95,
			HourlyRatePence: 1850,
		})

		assert.NoError(t, err)
		// 95 minutes at 18.50/h = 29.29166..., floored.
		assert.Equal(t, int64(2929), resp.GrossPence)
	})

	t.Run("defaults rate from the carer record", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, true)

		deps.repo.carerHourlyRateFn = func(ctx context.Context, bid, cid string) (int64, error) {
			return 1600, nil
		}

		resp, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:       carerID,
			PeriodStart:   "2026-03-01",
			PeriodEnd:     "2026-03-31",
			MinutesWorked: 600,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1600), resp.HourlyRatePence)
		assert.Equal(t, int64(16000), resp.GrossPence)
	})

	t.Run("no rate anywhere", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:       carerID,
			PeriodStart:   "2026-03-01",
			PeriodEnd:     "2026-03-31",
			MinutesWorked: 600,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrNoRateAvailable)
	})

	t.Run("overlapping period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, false)

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, bid, cid string, periodStart, periodEnd time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:         carerID,
			PeriodStart:     "2026-03-01",
			PeriodEnd:       "2026-03-31",
			MinutesWorked:   600,
			HourlyRatePence: 1850,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollOverlap)
	})

	t.Run("carer outside branch", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, false)

		deps.repo.carerBelongsToBranchFn = func(ctx context.Context, bid, cid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:         carerID,
			PeriodStart:     "2026-03-01",
			PeriodEnd:       "2026-03-31",
			MinutesWorked:   600,
			HourlyRatePence: 1850,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrCarerNotInBranch)
	})

	t.Run("inverted period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, branchID, actorID, payroll.CreatePayrollRequest{
			CarerID:         carerID,
			PeriodStart:     "2026-03-31",
			PeriodEnd:       "2026-03-01",
			MinutesWorked:   600,
			HourlyRatePence: 1850,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_RequestPayslip(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	actorID := uuid.New().String()
	payrollID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, false)

		_, err := deps.service.RequestPayslip(ctx, branchID, actorID, payrollID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})

	t.Run("queues without error when payroll exists", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectPayrollTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{
				ID:       payrollID,
				BranchID: uuid.MustParse(branchID),
				CarerID:  uuid.New(),
				Status:   payroll.StatusDraft,
			}, nil
		}

		resp, err := deps.service.RequestPayslip(ctx, branchID, actorID, payrollID.String())
		assert.NoError(t, err)
		assert.Equal(t, payrollID.String(), resp.ID)
	})
}

func TestPayrollService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	payrollID := uuid.New()

	t.Run("writes the PDF and records its location", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		t.Setenv("PAYSLIP_DIR", t.TempDir())

		stored := &payroll.Payroll{
			ID:              payrollID,
			BranchID:        uuid.MustParse(branchID),
			CarerID:         uuid.New(),
			PeriodStart:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:       time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			MinutesWorked:   5400,
			HourlyRatePence: 1850,
			GrossPence:      166500,
			NetPence:        166500,
			Status:          payroll.StatusProcessed,
			CreatedBy:       uuid.New(),
		}
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*payroll.Payroll, error) {
			return stored, nil
		}

		var saved *payroll.Payroll
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			saved = p
			return nil
		}

		resp, err := deps.service.GeneratePayslip(ctx, branchID, payrollID.String())

		assert.NoError(t, err)
		assert.NotNil(t, resp.PayslipURL)
		assert.NotNil(t, saved.PayslipGeneratedAt)
		assert.FileExists(t, *resp.PayslipURL)
	})

	t.Run("already generated is a no-op", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		existing := "payslips/payslip-old.pdf"
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{
				ID:         payrollID,
				BranchID:   uuid.MustParse(branchID),
				CarerID:    uuid.New(),
				Status:     payroll.StatusProcessed,
				PayslipURL: &existing,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			t.Fatal("update must not run for an already generated payslip")
			return nil
		}

		resp, err := deps.service.GeneratePayslip(ctx, branchID, payrollID.String())
		assert.NoError(t, err)
		assert.Equal(t, existing, *resp.PayslipURL)
	})
}
