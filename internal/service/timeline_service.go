package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/timeline"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

var ErrInvalidRecordFilter = errors.New("type must be one of: reports, vitals, all")

const (
	// mergeFetchLimit bounds how many records each stream contributes to a
	// combined timeline merge. Deep combined pages beyond this bound are
	// not supported.
	mergeFetchLimit = 1000

	defaultTimelinePage  = 1
	defaultTimelineLimit = 20
	defaultDashboardDays = 30
	recentSummaryLimit   = 5
)

type TimelineService struct {
	reportRepo report.Repository
	vitalsRepo vitals.Repository
	familyRepo family.Repository
	log        *zap.Logger
}

func NewTimelineService(
	reportRepo report.Repository,
	vitalsRepo vitals.Repository,
	familyRepo family.Repository,
	log *zap.Logger,
) *TimelineService {
	return &TimelineService{
		reportRepo: reportRepo,
		vitalsRepo: vitalsRepo,
		familyRepo: familyRepo,
		log:        log,
	}
}

type TimelineQuery struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	Filter         timeline.RecordFilter
	From           *time.Time
	To             *time.Time
	Page           int
	Limit          int
}

type TimelinePage struct {
	Items      []timeline.Item     `json:"timeline"`
	Pagination timeline.Pagination `json:"pagination"`
}

// GetTimeline merges the owner's reports and vitals into one
// reverse-chronological stream. Single-type requests push pagination down
// to the database; combined requests fetch both streams bounded by
// mergeFetchLimit, merge in memory, and slice.
func (s *TimelineService) GetTimeline(ctx context.Context, q *TimelineQuery) (*TimelinePage, error) {
	filter, ok := q.Filter.Normalize()
	if !ok {
		return nil, ErrInvalidRecordFilter
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, vitals.ErrInvalidDateRange
	}
	if q.Page < 1 {
		q.Page = defaultTimelinePage
	}
	if q.Limit < 1 {
		q.Limit = defaultTimelineLimit
	}
	skip := (q.Page - 1) * q.Limit

	var items []timeline.Item
	var total int64

	switch filter {
	case timeline.FilterReports:
		reports, err := s.reportRepo.FindRange(ctx, &report.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
			Skip:           skip,
			Limit:          q.Limit,
			WithInsight:    true,
		})
		if err != nil {
			return nil, err
		}
		total, err = s.reportRepo.Count(ctx, &report.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
		})
		if err != nil {
			return nil, err
		}
		items = make([]timeline.Item, 0, len(reports))
		for _, r := range reports {
			items = append(items, timeline.NewReportItem(r))
		}

	case timeline.FilterVitals:
		entries, err := s.vitalsRepo.FindRange(ctx, &vitals.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
			Skip:           skip,
			Limit:          q.Limit,
		})
		if err != nil {
			return nil, err
		}
		total, err = s.vitalsRepo.Count(ctx, &vitals.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
		})
		if err != nil {
			return nil, err
		}
		items = make([]timeline.Item, 0, len(entries))
		for _, e := range entries {
			items = append(items, timeline.NewVitalsItem(e))
		}

	default:
		merged, err := s.fetchMerged(ctx, q)
		if err != nil {
			return nil, err
		}
		total = int64(len(merged))
		items = timeline.Page(merged, skip, q.Limit)
	}

	return &TimelinePage{
		Items:      items,
		Pagination: timeline.NewPagination(q.Page, q.Limit, len(items), total),
	}, nil
}

// fetchMerged pulls both streams, converts each to timeline items, and
// sorts the union most-recent-first.
func (s *TimelineService) fetchMerged(ctx context.Context, q *TimelineQuery) ([]timeline.Item, error) {
	var reports []*report.Report
	var entries []*vitals.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = s.reportRepo.FindRange(gctx, &report.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
			Limit:          mergeFetchLimit,
			WithInsight:    true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.vitalsRepo.FindRange(gctx, &vitals.RangeQuery{
			UserID:         q.UserID,
			FamilyMemberID: q.FamilyMemberID,
			From:           q.From,
			To:             q.To,
			Limit:          mergeFetchLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]timeline.Item, 0, len(reports)+len(entries))
	for _, r := range reports {
		items = append(items, timeline.NewReportItem(r))
	}
	for _, e := range entries {
		items = append(items, timeline.NewVitalsItem(e))
	}

	timeline.SortDescending(items)
	return items, nil
}

// GetDashboard assembles the rolling-window summary. The window only
// bounds the recent lists and their counts; totals, reports-by-type, the
// latest vitals snapshot and last activity are lifetime values.
func (s *TimelineService) GetDashboard(ctx context.Context, userID uuid.UUID, days int) (*timeline.Dashboard, error) {
	if days < 1 {
		days = defaultDashboardDays
	}
	windowStart := time.Now().AddDate(0, 0, -days)

	var (
		recentReports []*report.Report
		recentVitals  []*vitals.Entry
		totalReports  int64
		totalVitals   int64
		totalMembers  int64
		byType        []report.TypeCount
		latestEntry   *vitals.Entry
		lastReportAt  *time.Time
		lastVitalsAt  *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recentReports, err = s.reportRepo.FindRange(gctx, &report.RangeQuery{
			UserID:      userID,
			From:        &windowStart,
			Limit:       recentSummaryLimit,
			WithInsight: true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		recentVitals, err = s.vitalsRepo.FindRange(gctx, &vitals.RangeQuery{
			UserID: userID,
			From:   &windowStart,
			Limit:  recentSummaryLimit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		totalReports, err = s.reportRepo.Count(gctx, &report.RangeQuery{UserID: userID})
		return err
	})
	g.Go(func() error {
		var err error
		totalVitals, err = s.vitalsRepo.Count(gctx, &vitals.RangeQuery{UserID: userID})
		return err
	})
	g.Go(func() error {
		var err error
		totalMembers, err = s.familyRepo.CountByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.reportRepo.CountByType(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		latestEntry, err = s.vitalsRepo.Latest(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		lastReportAt, err = s.reportRepo.LatestUploadDate(gctx, userID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		lastVitalsAt, err = s.vitalsRepo.LatestDate(gctx, userID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	abnormal := 0
	reportSummaries := make([]timeline.ReportSummary, 0, len(recentReports))
	for _, r := range recentReports {
		if r.HasAbnormalValues() {
			abnormal++
		}
		reportSummaries = append(reportSummaries, timeline.SummarizeReport(r))
	}

	vitalsSummaries := make([]timeline.VitalsSummary, 0, len(recentVitals))
	for _, e := range recentVitals {
		vitalsSummaries = append(vitalsSummaries, timeline.SummarizeVitals(e))
	}

	var latest *timeline.LatestVitals
	if latestEntry != nil {
		latest = &timeline.LatestVitals{
			BloodPressure:   latestEntry.BloodPressure,
			BloodSugar:      latestEntry.BloodSugar,
			Weight:          latestEntry.Weight,
			MeasurementDate: latestEntry.MeasurementDate,
		}
	}

	return &timeline.Dashboard{
		Summary: timeline.Summary{
			TotalReports:       totalReports,
			TotalVitals:        totalVitals,
			TotalFamilyMembers: totalMembers,
			RecentReportsCount: len(recentReports),
			RecentVitalsCount:  len(recentVitals),
			AbnormalCount:      abnormal,
			LastActivity:       timeline.LastActivity(lastReportAt, lastVitalsAt),
			Period:             fmt.Sprintf("%d days", days),
		},
		RecentReports: reportSummaries,
		RecentVitals:  vitalsSummaries,
		ReportsByType: byType,
		LatestVitals:  latest,
	}, nil
}
