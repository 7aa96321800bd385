package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/auth"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// StaffInput is the create/update payload for a staff account.
type StaffInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,in=staff,manager"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active"`
}

// StaffService manages staff accounts. Admins manage anyone; managers may
// only create and edit role "staff" accounts.
type StaffService struct {
	staff *repositories.StaffRepository
}

func NewStaffService() *StaffService {
	return &StaffService{staff: repositories.NewStaffRepository()}
}

// List returns one page of staff visible to the actor. Managers only see
// staff-role accounts; admins see everyone.
func (s *StaffService) List(actor policy.Actor, roleFilter string, page, limit int) ([]models.Staff, orm.Pagination, error) {
	if actor.Role == policy.RoleManager {
		roleFilter = string(policy.RoleStaff)
	}
	return s.staff.List(roleFilter, page, limit)
}

// Assignable returns the active accounts the actor may assign orders to.
func (s *StaffService) Assignable(actor policy.Actor) ([]models.Staff, error) {
	roleFilter := ""
	if actor.Role == policy.RoleManager {
		roleFilter = string(policy.RoleStaff)
	}
	return s.staff.ListActive(roleFilter)
}

// Create adds a staff account.
func (s *StaffService) Create(actor policy.Actor, in StaffInput) (models.Staff, error) {
	if !policy.CanManageStaff(actor, in.Role) {
		return models.Staff{}, ErrForbidden
	}
	if in.Password == "" {
		return models.Staff{}, ErrInvalidStatusInput("password")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Staff{}, err
	}

	staff := models.Staff{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if in.IsActive != nil {
		staff.IsActive = *in.IsActive
	}
	if err := s.staff.Create(&staff); err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}

// Update edits a staff account. The actor must be allowed to manage both
// the current role and the requested one, so a manager cannot promote a
// staff account to manager.
func (s *StaffService) Update(actor policy.Actor, id uint, in StaffInput) (models.Staff, error) {
	staff, err := s.staff.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Staff{}, ErrNotFound
		}
		return models.Staff{}, err
	}
	if !policy.CanManageStaff(actor, staff.Role) || !policy.CanManageStaff(actor, in.Role) {
		return models.Staff{}, ErrForbidden
	}

	staff.Username = in.Username
	staff.Email = in.Email
	staff.FullName = in.FullName
	staff.Role = in.Role
	if in.IsActive != nil {
		staff.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return models.Staff{}, err
		}
		staff.PasswordHash = hash
	}

	if err := s.staff.Update(&staff); err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}

// Deactivate flips a staff account inactive. Deactivated accounts keep
// their existing order assignments but cannot log in or receive new ones.
func (s *StaffService) Deactivate(actor policy.Actor, id uint) (models.Staff, error) {
	staff, err := s.staff.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Staff{}, ErrNotFound
		}
		return models.Staff{}, err
	}
	if !policy.CanManageStaff(actor, staff.Role) {
		return models.Staff{}, ErrForbidden
	}

	staff.IsActive = false
	if err := s.staff.Update(&staff); err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}
