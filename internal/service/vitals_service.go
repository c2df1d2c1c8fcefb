package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/timeline"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
	"github.com/healthmate-pk/healthmate-api/pkg/metrics"
)

const (
	maxNotesLength   = 1000
	defaultStatsDays = 30
)

type VitalsService struct {
	vitalsRepo vitals.Repository
	familyRepo family.Repository
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewVitalsService(vitalsRepo vitals.Repository, familyRepo family.Repository, collector *metrics.Collector, log *zap.Logger) *VitalsService {
	return &VitalsService{
		vitalsRepo: vitalsRepo,
		familyRepo: familyRepo,
		metrics:    collector,
		log:        log,
	}
}

func (s *VitalsService) Create(ctx context.Context, cmd *vitals.CreateEntryCommand) (*vitals.Entry, error) {
	entry := &vitals.Entry{
		UserID:          cmd.UserID,
		FamilyMemberID:  cmd.FamilyMemberID,
		BelongsTo:       domain.BelongsToFor(cmd.FamilyMemberID),
		BloodPressure:   cmd.BloodPressure,
		BloodSugar:      cmd.BloodSugar,
		Weight:          cmd.Weight,
		Notes:           cmd.Notes,
		MeasurementDate: cmd.MeasurementDate,
	}
	if entry.MeasurementDate.IsZero() {
		entry.MeasurementDate = time.Now()
	}

	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if cmd.FamilyMemberID != nil {
		if _, err := s.familyRepo.GetActiveByID(ctx, *cmd.FamilyMemberID, cmd.UserID); err != nil {
			return nil, err
		}
	}

	if err := s.vitalsRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.VitalsRecordedTotal.Inc()
	s.log.Info("vitals entry recorded",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("entry_id", entry.ID.String()),
	)
	return entry, nil
}

func (s *VitalsService) Get(ctx context.Context, id, userID uuid.UUID) (*vitals.Entry, error) {
	return s.vitalsRepo.GetByID(ctx, id, userID)
}

func (s *VitalsService) Update(ctx context.Context, id, userID uuid.UUID, cmd *vitals.UpdateEntryCommand) (*vitals.Entry, error) {
	if cmd.BloodSugar != nil && !cmd.BloodSugar.Type.IsValid() {
		return nil, vitals.ErrInvalidSugarType
	}
	if cmd.Notes != nil && len(*cmd.Notes) > maxNotesLength {
		return nil, vitals.ErrNotesTooLong
	}
	return s.vitalsRepo.Update(ctx, id, userID, cmd)
}

func (s *VitalsService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.vitalsRepo.Delete(ctx, id, userID)
}

func (s *VitalsService) List(ctx context.Context, q *vitals.ListEntriesQuery) (*vitals.PagedEntries, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, vitals.ErrInvalidDateRange
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	return s.vitalsRepo.List(ctx, q)
}

// GetStats aggregates the trailing window of entries into per-category
// latest/average/trend statistics. Entries are fetched ascending so the
// trend series reads oldest to newest. The resolved day window is returned
// so callers can report the period actually applied.
func (s *VitalsService) GetStats(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID, days int) (*timeline.VitalsStats, int, error) {
	if days < 1 {
		days = defaultStatsDays
	}
	from := time.Now().AddDate(0, 0, -days)

	entries, err := s.vitalsRepo.FindRange(ctx, &vitals.RangeQuery{
		UserID:         userID,
		FamilyMemberID: familyMemberID,
		From:           &from,
		Ascending:      true,
	})
	if err != nil {
		return nil, 0, err
	}

	return timeline.ComputeStats(entries), days, nil
}

func validateEntry(e *vitals.Entry) error {
	if e.BloodPressure == nil && e.BloodSugar == nil && e.Weight == nil {
		return vitals.ErrNoMeasurements
	}
	if e.BloodSugar != nil && !e.BloodSugar.Type.IsValid() {
		return vitals.ErrInvalidSugarType
	}
	if len(e.Notes) > maxNotesLength {
		return vitals.ErrNotesTooLong
	}
	return nil
}
