package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/ai"
	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/storage"
	"github.com/healthmate-pk/healthmate-api/pkg/metrics"
)

type ReportService struct {
	reportRepo report.Repository
	familyRepo family.Repository
	store      storage.ObjectStore
	analyzer   ai.ReportAnalyzer
	keyPrefix  string
	maxSize    int64
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewReportService(
	reportRepo report.Repository,
	familyRepo family.Repository,
	store storage.ObjectStore,
	analyzer ai.ReportAnalyzer,
	keyPrefix string,
	maxSize int64,
	collector *metrics.Collector,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		familyRepo: familyRepo,
		store:      store,
		analyzer:   analyzer,
		keyPrefix:  keyPrefix,
		maxSize:    maxSize,
		metrics:    collector,
		log:        log,
	}
}

type UploadCommand struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	FileName       string
	MimeType       string
	Type           report.Type
	Data           []byte
}

// Upload stores the file, records the report, and attempts AI analysis.
// Analysis failure does not fail the upload: the report is kept
// unprocessed and can be retried later via RetryAnalysis.
func (s *ReportService) Upload(ctx context.Context, cmd *UploadCommand) (*report.Report, error) {
	if len(cmd.Data) == 0 {
		return nil, report.ErrNoFile
	}
	if int64(len(cmd.Data)) > s.maxSize {
		return nil, report.ErrFileTooLarge
	}
	if !cmd.Type.IsValid() {
		return nil, report.ErrInvalidReportType
	}

	if cmd.FamilyMemberID != nil {
		if _, err := s.familyRepo.GetActiveByID(ctx, *cmd.FamilyMemberID, cmd.UserID); err != nil {
			return nil, err
		}
	}

	key := storage.ObjectKey(s.keyPrefix, cmd.UserID, cmd.FileName)
	url, err := s.store.Upload(ctx, key, cmd.MimeType, cmd.Data)
	if err != nil {
		return nil, err
	}
	s.metrics.StorageBytesUploaded.Add(float64(len(cmd.Data)))

	rep := &report.Report{
		UserID:         cmd.UserID,
		FamilyMemberID: cmd.FamilyMemberID,
		BelongsTo:      domain.BelongsToFor(cmd.FamilyMemberID),
		FileName:       cmd.FileName,
		StorageURL:     url,
		StorageKey:     key,
		Type:           cmd.Type,
		FileSize:       int64(len(cmd.Data)),
		MimeType:       cmd.MimeType,
		UploadDate:     time.Now(),
	}

	if err := s.reportRepo.Create(ctx, rep); err != nil {
		// The object is already in storage; clean it up so failed uploads
		// do not leak orphaned files.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to clean up orphaned object",
				zap.String("storage_key", key),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.metrics.ReportsUploadedTotal.WithLabelValues(string(cmd.Type)).Inc()

	if err := s.analyze(ctx, rep, cmd.Data); err != nil {
		s.log.Warn("AI analysis failed, report kept unprocessed",
			zap.String("report_id", rep.ID.String()),
			zap.Error(err),
		)
	}

	return rep, nil
}

func (s *ReportService) Get(ctx context.Context, id, userID uuid.UUID) (*report.Report, error) {
	return s.reportRepo.GetByID(ctx, id, userID)
}

func (s *ReportService) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	if q.Type != nil && !q.Type.IsValid() {
		return nil, report.ErrInvalidReportType
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	return s.reportRepo.List(ctx, q)
}

// Delete removes the report record, its insight, and the stored file.
// A storage delete failure is logged but does not block the record delete;
// the database stays authoritative.
func (s *ReportService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	rep, err := s.reportRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, rep.StorageKey); err != nil {
		s.log.Error("failed to delete stored object",
			zap.String("report_id", rep.ID.String()),
			zap.String("storage_key", rep.StorageKey),
			zap.Error(err),
		)
	}

	if rep.AIInsightID != nil {
		if err := s.reportRepo.DeleteInsight(ctx, *rep.AIInsightID); err != nil {
			return err
		}
	}

	return s.reportRepo.Delete(ctx, id, userID)
}

// RetryAnalysis re-runs AI analysis on an already-uploaded report,
// replacing any previous insight wholesale.
func (s *ReportService) RetryAnalysis(ctx context.Context, id, userID uuid.UUID) (*report.Report, error) {
	rep, err := s.reportRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	data, _, err := s.store.Download(ctx, rep.StorageKey)
	if err != nil {
		return nil, err
	}

	if err := s.analyze(ctx, rep, data); err != nil {
		return nil, err
	}

	return s.reportRepo.GetByID(ctx, id, userID)
}

// analyze runs the model over the file bytes and attaches the resulting
// insight. Any previous insight is removed first so exactly one insight
// exists per processed report.
func (s *ReportService) analyze(ctx context.Context, rep *report.Report, data []byte) error {
	analysis, err := s.analyzer.Analyze(ctx, data, rep.FileName, rep.MimeType)
	if err != nil {
		s.metrics.AIAnalysesTotal.WithLabelValues("failed").Inc()
		return err
	}

	if rep.AIInsightID != nil {
		if err := s.reportRepo.DeleteInsight(ctx, *rep.AIInsightID); err != nil {
			return err
		}
	}

	insight := &report.AIInsight{
		ReportID:            rep.ID,
		UserID:              rep.UserID,
		FamilyMemberID:      rep.FamilyMemberID,
		BelongsTo:           rep.BelongsTo,
		SummaryEnglish:      analysis.SummaryEnglish,
		SummaryRomanUrdu:    analysis.SummaryRomanUrdu,
		AbnormalValues:      analysis.AbnormalValues,
		DoctorQuestions:     analysis.DoctorQuestions,
		FoodRecommendations: analysis.FoodRecommendations,
		Disclaimer:          analysis.Disclaimer,
		ProcessingDate:      time.Now(),
		Model:               analysis.Model,
		Confidence:          analysis.Confidence,
	}

	if err := s.reportRepo.CreateInsight(ctx, insight); err != nil {
		s.metrics.AIAnalysesTotal.WithLabelValues("failed").Inc()
		return err
	}

	s.metrics.AIAnalysesTotal.WithLabelValues("ok").Inc()

	rep.AIInsight = insight
	rep.AIInsightID = &insight.ID
	rep.IsProcessed = true
	return nil
}
