package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("Invalid or expired refresh token")
)

type RegisterInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}

// ProfileInput is a partial update: nil fields are left alone.
type ProfileInput struct {
	FullName      *string `json:"fullName"`
	Phone         *string `json:"phone"`
	StreetAddress *string `json:"streetAddress"`
	City          *string `json:"city"`
	PostalCode    *string `json:"postalCode"`
	Country       *string `json:"country"`
}

func (p ProfileInput) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("full_name", p.FullName)
	set("phone", p.Phone)
	set("street_address", p.StreetAddress)
	set("city", p.City)
	set("postal_code", p.PostalCode)
	set("country", p.Country)
	return updates
}

// Service implements registration, login and refresh-token rotation. The
// current refresh token of every user is stored so logout can revoke it.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	log    *logrus.Logger
}

func NewService(users UserStore, tokens *TokenIssuer, log *logrus.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

func (s *Service) Tokens() *TokenIssuer { return s.tokens }

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, TokenPair, error) {
	email := NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		return nil, TokenPair{}, apperrors.Validation("Invalid email address")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, TokenPair{}, apperrors.Validation("Name is required")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, TokenPair{}, err
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		DeliveryProfile: models.DeliveryProfile{
			FullName:      in.FullName,
			Phone:         in.Phone,
			StreetAddress: in.StreetAddress,
			City:          in.City,
			PostalCode:    in.PostalCode,
			Country:       in.Country,
		},
		IsFirstPurchase: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, TokenPair{}, err
		}
		return nil, TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.rotate(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, TokenPair, error) {
	user, err := s.users.ByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == "" || !CheckPassword(user.PasswordHash, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := s.rotate(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must be
// the one most recently handed out, so each refresh token works once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	user, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return TokenPair{}, err
	}
	// a concurrent refresh with the same token loses here
	swapped, err := s.users.ReplaceRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	if !swapped {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	return tokens, nil
}

func (s *Service) rotate(ctx context.Context, user *models.User) (TokenPair, error) {
	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = &tokens.RefreshToken
	return tokens, nil
}

func (s *Service) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.ByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, in.updates()); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.users.ByID(ctx, userID)
}

func (s *Service) Logout(ctx context.Context, userID uint) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}
