package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

type VitalsRepository struct {
	db *gorm.DB
}

var _ vitals.Repository = (*VitalsRepository)(nil)

func NewVitalsRepository(db *gorm.DB) *VitalsRepository {
	return &VitalsRepository{db: db}
}

func (r *VitalsRepository) Create(ctx context.Context, e *vitals.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *VitalsRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*vitals.Entry, error) {
	var e vitals.Entry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vitals.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *VitalsRepository) Update(ctx context.Context, id, userID uuid.UUID, cmd *vitals.UpdateEntryCommand) (*vitals.Entry, error) {
	e, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if cmd.BloodPressure != nil {
		e.BloodPressure = cmd.BloodPressure
	}
	if cmd.BloodSugar != nil {
		e.BloodSugar = cmd.BloodSugar
	}
	if cmd.Weight != nil {
		e.Weight = cmd.Weight
	}
	if cmd.Notes != nil {
		e.Notes = *cmd.Notes
	}
	if cmd.MeasurementDate != nil {
		e.MeasurementDate = *cmd.MeasurementDate
	}

	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *VitalsRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&vitals.Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return vitals.ErrEntryNotFound
	}
	return nil
}

func (r *VitalsRepository) List(ctx context.Context, q *vitals.ListEntriesQuery) (*vitals.PagedEntries, error) {
	rq := &vitals.RangeQuery{
		UserID:         q.UserID,
		FamilyMemberID: q.FamilyMemberID,
		From:           q.From,
		To:             q.To,
	}

	total, err := r.Count(ctx, rq)
	if err != nil {
		return nil, err
	}

	rq.Skip = (q.Page - 1) * q.PageSize
	rq.Limit = q.PageSize

	entries, err := r.FindRange(ctx, rq)
	if err != nil {
		return nil, err
	}

	if err := r.resolveFamilyNames(ctx, entries); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &vitals.PagedEntries{
		Entries:    entries,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *VitalsRepository) FindRange(ctx context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
	tx := r.rangeScope(ctx, q)

	order := "measurement_date DESC"
	if q.Ascending {
		order = "measurement_date ASC"
	}
	tx = tx.Order(order)

	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var entries []*vitals.Entry
	if err := tx.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *VitalsRepository) Count(ctx context.Context, q *vitals.RangeQuery) (int64, error) {
	var count int64
	err := r.rangeScope(ctx, q).Model(&vitals.Entry{}).Count(&count).Error
	return count, err
}

func (r *VitalsRepository) Latest(ctx context.Context, userID uuid.UUID) (*vitals.Entry, error) {
	var e vitals.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("measurement_date DESC").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *VitalsRepository) LatestDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error) {
	tx := r.db.WithContext(ctx).Model(&vitals.Entry{}).Where("user_id = ?", userID)
	if familyMemberID != nil {
		tx = tx.Where("family_member_id = ?", *familyMemberID)
	}

	var e vitals.Entry
	err := tx.Order("measurement_date DESC").Select("measurement_date").First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e.MeasurementDate, nil
}

func (r *VitalsRepository) rangeScope(ctx context.Context, q *vitals.RangeQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.FamilyMemberID != nil {
		tx = tx.Where("family_member_id = ?", *q.FamilyMemberID)
	}
	if q.From != nil {
		tx = tx.Where("measurement_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("measurement_date <= ?", *q.To)
	}
	return tx
}

func (r *VitalsRepository) resolveFamilyNames(ctx context.Context, entries []*vitals.Entry) error {
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool)
	for _, e := range entries {
		if e.FamilyMemberID != nil && !seen[*e.FamilyMemberID] {
			seen[*e.FamilyMemberID] = true
			ids = append(ids, *e.FamilyMemberID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var members []family.Member
	if err := r.db.WithContext(ctx).
		Select("id", "name", "relationship").
		Where("id IN ?", ids).
		Find(&members).Error; err != nil {
		return err
	}

	byID := make(map[uuid.UUID]family.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	for _, e := range entries {
		if e.FamilyMemberID == nil {
			continue
		}
		if m, ok := byID[*e.FamilyMemberID]; ok {
			e.FamilyMemberName = m.Name
			e.FamilyMemberRelationship = string(m.Relationship)
		}
	}
	return nil
}
