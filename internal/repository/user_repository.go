package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type UserRepository struct {
	db *gorm.DB
}

var _ service.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	var existing int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", u.Email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return service.ErrEmailTaken
	}

	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*domain.User, error) {
	updates := map[string]any{}
	if name != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if email != "" {
		normalized := strings.ToLower(strings.TrimSpace(email))

		var taken int64
		if err := r.db.WithContext(ctx).Model(&domain.User{}).
			Where("email = ? AND id <> ?", normalized, id).
			Count(&taken).Error; err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, service.ErrEmailTaken
		}
		updates["email"] = normalized
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login_at", &now).Error
}
