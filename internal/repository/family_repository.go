package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
)

type FamilyRepository struct {
	db *gorm.DB
}

var _ family.Repository = (*FamilyRepository)(nil)

func NewFamilyRepository(db *gorm.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

func (r *FamilyRepository) Create(ctx context.Context, m *family.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *FamilyRepository) GetByID(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error) {
	var m family.Member
	err := r.db.WithContext(ctx).
		Where("id = ? AND managed_by = ?", id, managedBy).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, family.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *FamilyRepository) GetActiveByID(ctx context.Context, id, managedBy uuid.UUID) (*family.Member, error) {
	var m family.Member
	err := r.db.WithContext(ctx).
		Where("id = ? AND managed_by = ? AND is_active = ?", id, managedBy, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, family.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *FamilyRepository) Update(ctx context.Context, id, managedBy uuid.UUID, cmd *family.UpdateMemberCommand) (*family.Member, error) {
	m, err := r.GetByID(ctx, id, managedBy)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		m.Name = *cmd.Name
	}
	if cmd.Relationship != nil {
		m.Relationship = *cmd.Relationship
	}
	if cmd.DateOfBirth != nil {
		m.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		m.Gender = *cmd.Gender
	}
	if cmd.Phone != nil {
		m.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		m.Email = *cmd.Email
	}
	if cmd.BloodGroup != nil {
		m.BloodGroup = *cmd.BloodGroup
	}
	if cmd.Allergies != nil {
		m.Allergies = *cmd.Allergies
	}
	if cmd.MedicalConditions != nil {
		m.MedicalConditions = *cmd.MedicalConditions
	}
	if cmd.Medications != nil {
		m.Medications = *cmd.Medications
	}
	if cmd.EmergencyContact != nil {
		m.EmergencyContact = cmd.EmergencyContact
	}
	if cmd.Notes != nil {
		m.Notes = *cmd.Notes
	}

	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *FamilyRepository) SoftDelete(ctx context.Context, id, managedBy uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&family.Member{}).
		Where("id = ? AND managed_by = ?", id, managedBy).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return family.ErrMemberNotFound
	}
	return nil
}

func (r *FamilyRepository) ListActive(ctx context.Context, managedBy uuid.UUID) ([]*family.Member, error) {
	var members []*family.Member
	err := r.db.WithContext(ctx).
		Where("managed_by = ? AND is_active = ?", managedBy, true).
		Order("relationship ASC, name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *FamilyRepository) CountByUser(ctx context.Context, managedBy uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&family.Member{}).
		Where("managed_by = ?", managedBy).
		Count(&count).Error
	return count, err
}
