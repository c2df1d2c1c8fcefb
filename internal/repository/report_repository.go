package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
)

type ReportRepository struct {
	db *gorm.DB
}

var _ report.Repository = (*ReportRepository)(nil)

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).
		Preload("AIInsight").
		Where("id = ? AND user_id = ?", id, userID).
		First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&report.Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, q *report.ListReportsQuery) (*report.PagedReports, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("user_id = ?", q.UserID)
		if q.Type != nil {
			tx = tx.Where("report_type = ?", *q.Type)
		}
		if q.FamilyMemberID != nil {
			tx = tx.Where("family_member_id = ?", *q.FamilyMemberID)
		}
		return tx
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&report.Report{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []*report.Report
	err := scope(r.db.WithContext(ctx)).
		Preload("AIInsight").
		Order("upload_date DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	if err := r.resolveFamilyNames(ctx, reports); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &report.PagedReports{
		Reports:    reports,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *ReportRepository) FindRange(ctx context.Context, q *report.RangeQuery) ([]*report.Report, error) {
	tx := r.rangeScope(ctx, q)
	if q.WithInsight {
		tx = tx.Preload("AIInsight")
	}

	order := "upload_date DESC"
	if q.Ascending {
		order = "upload_date ASC"
	}
	tx = tx.Order(order)

	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var reports []*report.Report
	if err := tx.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) Count(ctx context.Context, q *report.RangeQuery) (int64, error) {
	var count int64
	err := r.rangeScope(ctx, q).Model(&report.Report{}).Count(&count).Error
	return count, err
}

func (r *ReportRepository) LatestUploadDate(ctx context.Context, userID uuid.UUID, familyMemberID *uuid.UUID) (*time.Time, error) {
	tx := r.db.WithContext(ctx).Model(&report.Report{}).Where("user_id = ?", userID)
	if familyMemberID != nil {
		tx = tx.Where("family_member_id = ?", *familyMemberID)
	}

	var rep report.Report
	err := tx.Order("upload_date DESC").Select("upload_date").First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rep.UploadDate, nil
}

func (r *ReportRepository) CountByType(ctx context.Context, userID uuid.UUID) ([]report.TypeCount, error) {
	var counts []report.TypeCount
	err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Select("report_type AS type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("report_type").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CreateInsight writes the insight and attaches it to its report in one
// transaction, marking the report processed.
func (r *ReportRepository) CreateInsight(ctx context.Context, ins *report.AIInsight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ins).Error; err != nil {
			return err
		}
		return tx.Model(&report.Report{}).
			Where("id = ?", ins.ReportID).
			Updates(map[string]any{
				"ai_insight_id": ins.ID,
				"is_processed":  true,
			}).Error
	})
}

func (r *ReportRepository) DeleteInsight(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&report.AIInsight{}).Error
}

func (r *ReportRepository) rangeScope(ctx context.Context, q *report.RangeQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.FamilyMemberID != nil {
		tx = tx.Where("family_member_id = ?", *q.FamilyMemberID)
	}
	if q.From != nil {
		tx = tx.Where("upload_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("upload_date <= ?", *q.To)
	}
	return tx
}

func (r *ReportRepository) resolveFamilyNames(ctx context.Context, reports []*report.Report) error {
	ids := make([]uuid.UUID, 0, len(reports))
	seen := make(map[uuid.UUID]bool)
	for _, rep := range reports {
		if rep.FamilyMemberID != nil && !seen[*rep.FamilyMemberID] {
			seen[*rep.FamilyMemberID] = true
			ids = append(ids, *rep.FamilyMemberID)
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
	for _, rep := range reports {
		if rep.FamilyMemberID == nil {
			continue
		}
		if m, ok := byID[*rep.FamilyMemberID]; ok {
			rep.FamilyMemberName = m.Name
			rep.FamilyMemberRelationship = string(m.Relationship)
		}
	}
	return nil
}
