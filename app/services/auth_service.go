package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/auth"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// TokenPair is the result of a successful staff login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates staff and admins.
type AuthService struct {
	staff *repositories.StaffRepository
}

func NewAuthService() *AuthService {
	return &AuthService{staff: repositories.NewStaffRepository()}
}

// StaffLogin checks credentials against the staff table and mints a token
// pair. Inactive accounts cannot log in. The error never distinguishes a
// bad username from a bad password.
func (s *AuthService) StaffLogin(username, password string) (models.Staff, TokenPair, error) {
	staff, err := s.staff.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Staff{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.Staff{}, TokenPair{}, err
	}
	if !staff.IsActive || !auth.CheckPassword(staff.PasswordHash, password) {
		return models.Staff{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.mintPair(staff)
	if err != nil {
		return models.Staff{}, TokenPair{}, err
	}

	now := time.Now()
	staff.LastLogin = &now
	if err := s.staff.Update(&staff); err != nil {
		return models.Staff{}, TokenPair{}, err
	}

	return staff, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The staff row
// is re-read so a deactivation since issue revokes access.
func (s *AuthService) Refresh(refreshToken string) (models.Staff, TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return models.Staff{}, TokenPair{}, ErrUnauthenticated
	}

	staff, err := s.staff.FindActiveByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Staff{}, TokenPair{}, ErrUnauthenticated
		}
		return models.Staff{}, TokenPair{}, err
	}

	pair, err := s.mintPair(staff)
	if err != nil {
		return models.Staff{}, TokenPair{}, err
	}
	return staff, pair, nil
}

func (s *AuthService) mintPair(staff models.Staff) (TokenPair, error) {
	access, err := auth.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(staff.ID, staff.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// AdminLogin checks credentials against the admins table. Admins use a
// server-side session rather than JWTs; the controller opens the session
// after this succeeds.
func (s *AuthService) AdminLogin(username, password string) (models.Admin, error) {
	var admin models.Admin
	err := orm.DB().Model(&models.Admin{}).Where("username = ?", username).First(&admin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Admin{}, ErrInvalidCredentials
		}
		return models.Admin{}, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return models.Admin{}, ErrInvalidCredentials
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := orm.DB().Save(&admin); err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}
