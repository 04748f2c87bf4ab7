package auth

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/yoruwear-api/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already exists with this email")
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
	// ReplaceRefreshToken stores next only while current is still the stored
	// token, and reports whether it did.
	ReplaceRefreshToken(ctx context.Context, id uint, current, next string) (bool, error)
	UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (s *gormUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *gormUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *gormUserStore) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (s *gormUserStore) ReplaceRefreshToken(ctx context.Context, id uint, current, next string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormUserStore) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}
