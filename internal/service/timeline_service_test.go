package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/timeline"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

func newTimelineService(reports *mockReportRepo, entries *mockVitalsRepo, members *mockFamilyRepo) *TimelineService {
	return NewTimelineService(reports, entries, members, zap.NewNop())
}

func tlDay(d int) time.Time {
	return time.Date(2026, 5, d, 9, 0, 0, 0, time.UTC)
}

func TestGetTimelineMergesAndSortsDescending(t *testing.T) {
	userID := uuid.New()

	reports := &mockReportRepo{
		FindRangeFn: func(_ context.Context, q *report.RangeQuery) ([]*report.Report, error) {
			assert.Equal(t, userID, q.UserID)
			assert.True(t, q.WithInsight)
			return []*report.Report{
				{ID: uuid.New(), FileName: "cbc.pdf", Type: report.TypeBloodTest, UploadDate: tlDay(2)},
				{ID: uuid.New(), FileName: "chest.png", Type: report.TypeXRay, UploadDate: tlDay(4)},
			}, nil
		},
	}
	entries := &mockVitalsRepo{
		FindRangeFn: func(_ context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
			assert.Equal(t, userID, q.UserID)
			return []*vitals.Entry{
				{ID: uuid.New(), Weight: &vitals.Weight{Value: 70}, MeasurementDate: tlDay(3)},
				{ID: uuid.New(), Weight: &vitals.Weight{Value: 71}, MeasurementDate: tlDay(1)},
			}, nil
		},
	}

	svc := newTimelineService(reports, entries, &mockFamilyRepo{})

	page, err := svc.GetTimeline(context.Background(), &TimelineQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)

	assert.Equal(t, tlDay(4), page.Items[0].Date)
	assert.Equal(t, timeline.KindReport, page.Items[0].Kind)
	assert.Equal(t, tlDay(3), page.Items[1].Date)
	assert.Equal(t, timeline.KindVitals, page.Items[1].Kind)
	assert.Equal(t, tlDay(2), page.Items[2].Date)
	assert.Equal(t, tlDay(1), page.Items[3].Date)

	assert.Equal(t, int64(4), page.Pagination.TotalItems)
	assert.False(t, page.Pagination.HasNext)
}

func TestGetTimelineCombinedPagination(t *testing.T) {
	userID := uuid.New()

	reports := &mockReportRepo{
		FindRangeFn: func(_ context.Context, q *report.RangeQuery) ([]*report.Report, error) {
			// Combined fetches must not push page offsets to the database.
			assert.Zero(t, q.Skip)
			out := make([]*report.Report, 6)
			for i := range out {
				out[i] = &report.Report{ID: uuid.New(), UploadDate: tlDay(2*i + 1)}
			}
			return out, nil
		},
	}
	entries := &mockVitalsRepo{
		FindRangeFn: func(_ context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
			assert.Zero(t, q.Skip)
			out := make([]*vitals.Entry, 6)
			for i := range out {
				out[i] = &vitals.Entry{ID: uuid.New(), MeasurementDate: tlDay(2*i + 2)}
			}
			return out, nil
		},
	}

	svc := newTimelineService(reports, entries, &mockFamilyRepo{})

	page2, err := svc.GetTimeline(context.Background(), &TimelineQuery{UserID: userID, Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, page2.Items, 5)
	assert.Equal(t, int64(12), page2.Pagination.TotalItems)
	assert.Equal(t, 3, page2.Pagination.TotalPages)
	assert.True(t, page2.Pagination.HasNext)
	assert.True(t, page2.Pagination.HasPrev)

	page3, err := svc.GetTimeline(context.Background(), &TimelineQuery{UserID: userID, Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 2)
	assert.False(t, page3.Pagination.HasNext)
}

func TestGetTimelineSingleTypePushesPaginationDown(t *testing.T) {
	userID := uuid.New()
	var gotSkip, gotLimit int

	reports := &mockReportRepo{
		FindRangeFn: func(_ context.Context, q *report.RangeQuery) ([]*report.Report, error) {
			gotSkip, gotLimit = q.Skip, q.Limit
			return []*report.Report{{ID: uuid.New(), UploadDate: tlDay(1)}}, nil
		},
		CountFn: func(_ context.Context, q *report.RangeQuery) (int64, error) {
			return 41, nil
		},
	}

	svc := newTimelineService(reports, &mockVitalsRepo{}, &mockFamilyRepo{})

	page, err := svc.GetTimeline(context.Background(), &TimelineQuery{
		UserID: userID,
		Filter: timeline.FilterReports,
		Page:   3,
		Limit:  20,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, gotSkip)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, int64(41), page.Pagination.TotalItems)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestGetTimelineRejectsUnknownFilter(t *testing.T) {
	svc := newTimelineService(&mockReportRepo{}, &mockVitalsRepo{}, &mockFamilyRepo{})

	_, err := svc.GetTimeline(context.Background(), &TimelineQuery{
		UserID: uuid.New(),
		Filter: "everything",
	})
	assert.ErrorIs(t, err, ErrInvalidRecordFilter)
}

func TestGetTimelineRejectsInvertedDateRange(t *testing.T) {
	svc := newTimelineService(&mockReportRepo{}, &mockVitalsRepo{}, &mockFamilyRepo{})

	from := tlDay(10)
	to := tlDay(1)
	_, err := svc.GetTimeline(context.Background(), &TimelineQuery{
		UserID: uuid.New(),
		From:   &from,
		To:     &to,
	})
	assert.ErrorIs(t, err, vitals.ErrInvalidDateRange)
}

func TestGetDashboard(t *testing.T) {
	userID := uuid.New()
	lastReport := tlDay(20)
	lastVitals := tlDay(25)

	reports := &mockReportRepo{
		FindRangeFn: func(_ context.Context, q *report.RangeQuery) ([]*report.Report, error) {
			require.NotNil(t, q.From)
			return []*report.Report{
				{
					ID:          uuid.New(),
					FileName:    "cbc.pdf",
					Type:        report.TypeBloodTest,
					UploadDate:  tlDay(20),
					IsProcessed: true,
					AIInsight: &report.AIInsight{
						AbnormalValues: []report.AbnormalValue{{Parameter: "HbA1c"}},
					},
				},
				{ID: uuid.New(), FileName: "scan.pdf", Type: report.TypeMRI, UploadDate: tlDay(18)},
			}, nil
		},
		CountFn: func(_ context.Context, q *report.RangeQuery) (int64, error) {
			// Lifetime total, no window applied.
			assert.Nil(t, q.From)
			return 9, nil
		},
		CountByTypeFn: func(_ context.Context, _ uuid.UUID) ([]report.TypeCount, error) {
			return []report.TypeCount{{Type: report.TypeBloodTest, Count: 6}, {Type: report.TypeMRI, Count: 3}}, nil
		},
		LatestUploadDateFn: func(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*time.Time, error) {
			return &lastReport, nil
		},
	}
	entries := &mockVitalsRepo{
		FindRangeFn: func(_ context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
			require.NotNil(t, q.From)
			return []*vitals.Entry{{ID: uuid.New(), MeasurementDate: tlDay(25), Weight: &vitals.Weight{Value: 70}}}, nil
		},
		CountFn: func(_ context.Context, q *vitals.RangeQuery) (int64, error) {
			assert.Nil(t, q.From)
			return 14, nil
		},
		LatestFn: func(_ context.Context, _ uuid.UUID) (*vitals.Entry, error) {
			return &vitals.Entry{MeasurementDate: tlDay(25), Weight: &vitals.Weight{Value: 70}}, nil
		},
		LatestDateFn: func(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*time.Time, error) {
			return &lastVitals, nil
		},
	}
	members := &mockFamilyRepo{
		CountByUserFn: func(_ context.Context, _ uuid.UUID) (int64, error) { return 3, nil },
	}

	svc := newTimelineService(reports, entries, members)

	dash, err := svc.GetDashboard(context.Background(), userID, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(9), dash.Summary.TotalReports)
	assert.Equal(t, int64(14), dash.Summary.TotalVitals)
	assert.Equal(t, int64(3), dash.Summary.TotalFamilyMembers)
	assert.Equal(t, 2, dash.Summary.RecentReportsCount)
	assert.Equal(t, 1, dash.Summary.RecentVitalsCount)
	assert.Equal(t, 1, dash.Summary.AbnormalCount)
	assert.Equal(t, "30 days", dash.Summary.Period)

	require.NotNil(t, dash.Summary.LastActivity)
	assert.Equal(t, lastVitals, *dash.Summary.LastActivity)

	require.Len(t, dash.RecentReports, 2)
	assert.True(t, dash.RecentReports[0].HasAbnormalValues)
	require.Len(t, dash.ReportsByType, 2)
	require.NotNil(t, dash.LatestVitals)
	assert.Equal(t, tlDay(25), dash.LatestVitals.MeasurementDate)
}

func TestGetDashboardEmptyAccount(t *testing.T) {
	svc := newTimelineService(&mockReportRepo{}, &mockVitalsRepo{}, &mockFamilyRepo{})

	dash, err := svc.GetDashboard(context.Background(), uuid.New(), 0)
	require.NoError(t, err)

	assert.Zero(t, dash.Summary.TotalReports)
	assert.Nil(t, dash.Summary.LastActivity)
	assert.Nil(t, dash.LatestVitals)
	assert.Empty(t, dash.RecentReports)
	assert.Equal(t, "30 days", dash.Summary.Period)
}
