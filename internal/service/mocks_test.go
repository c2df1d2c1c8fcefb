package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/ai"
	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
	"github.com/healthmate-pk/healthmate-api/internal/storage"
	"github.com/healthmate-pk/healthmate-api/pkg/metrics"
)

// Collectors register against the global prometheus registry, so the
// whole package shares one.
var testMetrics = metrics.NewCollector("servicetest")

// Func-field mocks: tests set only the calls they expect; unset calls
// return zero values.

type mockVitalsRepo struct {
	CreateFn     func(ctx context.Context, e *vitals.Entry) error
	GetByIDFn    func(ctx context.Context, id, userID uuid.UUID) (*vitals.Entry, error)
	UpdateFn     func(ctx context.Context, id, userID uuid.UUID, cmd *vitals.UpdateEntryCommand) (*vitals.Entry, error)
	DeleteFn     func(ctx context.Context, id, userID uuid.UUID) error
	ListFn       func(ctx context.Context, q *vitals.ListEntriesQuery) (*vitals.PagedEntries, error)
	FindRangeFn  func(ctx context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error)
	CountFn      func(ctx context.Context, q *vitals.RangeQuery) (int64, error)
	LatestFn     func(ctx context.Context, userID uuid.UUID) (*vitals.Entry, error)
	LatestDateFn func(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error)
}

var _ vitals.Repository = (*mockVitalsRepo)(nil)

func (m *mockVitalsRepo) Create(ctx context.Context, e *vitals.Entry) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, e)
}

func (m *mockVitalsRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*vitals.Entry, error) {
	if m.GetByIDFn == nil {
		return nil, vitals.ErrEntryNotFound
	}
	return m.GetByIDFn(ctx, id, userID)
}

func (m *mockVitalsRepo) Update(ctx context.Context, id, userID uuid.UUID, cmd *vitals.UpdateEntryCommand) (*vitals.Entry, error) {
	if m.UpdateFn == nil {
		return nil, vitals.ErrEntryNotFound
	}
	return m.UpdateFn(ctx, id, userID, cmd)
}

func (m *mockVitalsRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id, userID)
}

func (m *mockVitalsRepo) List(ctx context.Context, q *vitals.ListEntriesQuery) (*vitals.PagedEntries, error) {
	if m.ListFn == nil {
		return &vitals.PagedEntries{}, nil
	}
	return m.ListFn(ctx, q)
}

func (m *mockVitalsRepo) FindRange(ctx context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
	if m.FindRangeFn == nil {
		return nil, nil
	}
	return m.FindRangeFn(ctx, q)
}

func (m *mockVitalsRepo) Count(ctx context.Context, q *vitals.RangeQuery) (int64, error) {
	if m.CountFn == nil {
		return 0, nil
	}
	return m.CountFn(ctx, q)
}

func (m *mockVitalsRepo) Latest(ctx context.Context, userID uuid.UUID) (*vitals.Entry, error) {
	if m.LatestFn == nil {
		return nil, nil
	}
	return m.LatestFn(ctx, userID)
}

func (m *mockVitalsRepo) LatestDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error) {
	if m.LatestDateFn == nil {
		return nil, nil
	}
	return m.LatestDateFn(ctx, userID, familyMemberID)
}

type mockReportRepo struct {
	CreateFn           func(ctx context.Context, r *report.Report) error
	GetByIDFn          func(ctx context.Context, id, userID uuid.UUID) (*report.Report, error)
	DeleteFn           func(ctx context.Context, id, userID uuid.UUID) error
	ListFn             func(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error)
	FindRangeFn        func(ctx context.Context, q *report.RangeQuery) ([]*report.Report, error)
	CountFn            func(ctx context.Context, q *report.RangeQuery) (int64, error)
	LatestUploadDateFn func(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error)
	CountByTypeFn      func(ctx context.Context, userID uuid.UUID) ([]report.TypeCount, error)
	CreateInsightFn    func(ctx context.Context, ins *report.AIInsight) error
	DeleteInsightFn    func(ctx context.Context, id uuid.UUID) error
}

var _ report.Repository = (*mockReportRepo)(nil)

func (m *mockReportRepo) Create(ctx context.Context, r *report.Report) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, r)
}

func (m *mockReportRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*report.Report, error) {
	if m.GetByIDFn == nil {
		return nil, report.ErrReportNotFound
	}
	return m.GetByIDFn(ctx, id, userID)
}

func (m *mockReportRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id, userID)
}

func (m *mockReportRepo) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	if m.ListFn == nil {
		return &report.PagedReports{}, nil
	}
	return m.ListFn(ctx, q)
}

func (m *mockReportRepo) FindRange(ctx context.Context, q *report.RangeQuery) ([]*report.Report, error) {
	if m.FindRangeFn == nil {
		return nil, nil
	}
	return m.FindRangeFn(ctx, q)
}

func (m *mockReportRepo) Count(ctx context.Context, q *report.RangeQuery) (int64, error) {
	if m.CountFn == nil {
		return 0, nil
	}
	return m.CountFn(ctx, q)
}

func (m *mockReportRepo) LatestUploadDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error) {
	if m.LatestUploadDateFn == nil {
		return nil, nil
	}
	return m.LatestUploadDateFn(ctx, userID, familyMemberID)
}

func (m *mockReportRepo) CountByType(ctx context.Context, userID uuid.UUID) ([]report.TypeCount, error) {
	if m.CountByTypeFn == nil {
		return nil, nil
	}
	return m.CountByTypeFn(ctx, userID)
}

func (m *mockReportRepo) CreateInsight(ctx context.Context, ins *report.AIInsight) error {
	if m.CreateInsightFn == nil {
		return nil
	}
	return m.CreateInsightFn(ctx, ins)
}

func (m *mockReportRepo) DeleteInsight(ctx context.Context, id uuid.UUID) error {
	if m.DeleteInsightFn == nil {
		return nil
	}
	return m.DeleteInsightFn(ctx, id)
}

type mockFamilyRepo struct {
	CreateFn        func(ctx context.Context, m *family.Member) error
	GetByIDFn       func(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error)
	GetActiveByIDFn func(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error)
	UpdateFn        func(ctx context.Context, id, managedBy uuid.UUID, cmd *family.UpdateMemberCommand) (*family.Member, error)
	SoftDeleteFn    func(ctx context.Context, id, managedBy uuid.UUID) error
	ListActiveFn    func(ctx context.Context, managedBy uuid.UUID) ([]*family.Member, error)
	CountByUserFn   func(ctx context.Context, managedBy uuid.UUID) (int64, error)
}

var _ family.Repository = (*mockFamilyRepo)(nil)

func (m *mockFamilyRepo) Create(ctx context.Context, member *family.Member) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, member)
}

func (m *mockFamilyRepo) GetByID(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error) {
	if m.GetByIDFn == nil {
		return nil, family.ErrMemberNotFound
	}
	return m.GetByIDFn(ctx, id, managedBy)
}

func (m *mockFamilyRepo) GetActiveByID(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error) {
	if m.GetActiveByIDFn == nil {
		return nil, family.ErrMemberNotFound
	}
	return m.GetActiveByIDFn(ctx, id, managedBy)
}

func (m *mockFamilyRepo) Update(ctx context.Context, id, managedBy uuid.UUID, cmd *family.UpdateMemberCommand) (*family.Member, error) {
	if m.UpdateFn == nil {
		return nil, family.ErrMemberNotFound
	}
	return m.UpdateFn(ctx, id, managedBy, cmd)
}

func (m *mockFamilyRepo) SoftDelete(ctx context.Context, id, managedBy uuid.UUID) error {
	if m.SoftDeleteFn == nil {
		return nil
	}
	return m.SoftDeleteFn(ctx, id, managedBy)
}

func (m *mockFamilyRepo) ListActive(ctx context.Context, managedBy uuid.UUID) ([]*family.Member, error) {
	if m.ListActiveFn == nil {
		return nil, nil
	}
	return m.ListActiveFn(ctx, managedBy)
}

func (m *mockFamilyRepo) CountByUser(ctx context.Context, managedBy uuid.UUID) (int64, error) {
	if m.CountByUserFn == nil {
		return 0, nil
	}
	return m.CountByUserFn(ctx, managedBy)
}

type mockUserRepo struct {
	CreateFn        func(ctx context.Context, u *domain.User) error
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfileFn func(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error)
	TouchLoginFn    func(ctx context.Context, id uuid.UUID) error
}

var _ UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, u)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn == nil {
		return nil, ErrUserNotFound
	}
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn == nil {
		return nil, ErrUserNotFound
	}
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error) {
	if m.UpdateProfileFn == nil {
		return nil, ErrUserNotFound
	}
	return m.UpdateProfileFn(ctx, id, name, email)
}

func (m *mockUserRepo) TouchLogin(ctx context.Context, id uuid.UUID) error {
	if m.TouchLoginFn == nil {
		return nil
	}
	return m.TouchLoginFn(ctx, id)
}

type mockObjectStore struct {
	UploadFn   func(ctx context.Context, key, contentType string, body []byte) (string, error)
	DownloadFn func(ctx context.Context, key string) ([]byte, string, error)
	DeleteFn   func(ctx context.Context, key string) error
}

var _ storage.ObjectStore = (*mockObjectStore)(nil)

func (m *mockObjectStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if m.UploadFn == nil {
		return "https://cdn.example.com/" + key, nil
	}
	return m.UploadFn(ctx, key, contentType, body)
}

func (m *mockObjectStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	if m.DownloadFn == nil {
		return nil, "", nil
	}
	return m.DownloadFn(ctx, key)
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, key)
}

type mockAnalyzer struct {
	AnalyzeFn func(ctx context.Context, file []byte, fileName, mimeType string) (*ai.Analysis, error)
}

var _ ai.ReportAnalyzer = (*mockAnalyzer)(nil)

func (m *mockAnalyzer) Analyze(ctx context.Context, file []byte, fileName, mimeType string) (*ai.Analysis, error) {
	if m.AnalyzeFn == nil {
		return &ai.Analysis{Disclaimer: ai.DefaultDisclaimer}, nil
	}
	return m.AnalyzeFn(ctx, file, fileName, mimeType)
}
