package repositories

import (
	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// StaffRepository handles database operations for Staff.
type StaffRepository struct{}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{}
}

// FindByID looks up a staff member by primary key.
func (r *StaffRepository) FindByID(id uint) (models.Staff, error) {
	var staff models.Staff
	err := orm.DB().Model(&models.Staff{}).Where("id = ?", id).First(&staff)
	return staff, err
}

// FindActiveByID looks up a staff member that is still active. Inactive
// rows come back as not found, so deactivated accounts are never
// assignable.
func (r *StaffRepository) FindActiveByID(id uint) (models.Staff, error) {
	var staff models.Staff
	err := orm.DB().Model(&models.Staff{}).
		Where("id = ? AND is_active = ?", id, true).
		First(&staff)
	return staff, err
}

// FindByUsername looks up a staff member for login.
func (r *StaffRepository) FindByUsername(username string) (models.Staff, error) {
	var staff models.Staff
	err := orm.DB().Model(&models.Staff{}).Where("username = ?", username).First(&staff)
	return staff, err
}

// ListActive returns all active staff, optionally restricted to one role.
// Used to populate the assignee picker.
func (r *StaffRepository) ListActive(roleFilter string) ([]models.Staff, error) {
	q := orm.DB().Model(&models.Staff{}).Where("is_active = ?", true)
	if roleFilter != "" {
		q = q.Where("role = ?", roleFilter)
	}

	var staff []models.Staff
	err := q.Order("full_name asc").Get(&staff)
	return staff, err
}

// List returns one page of staff rows, optionally restricted to one role.
func (r *StaffRepository) List(roleFilter string, page, limit int) ([]models.Staff, orm.Pagination, error) {
	q := orm.DB().Model(&models.Staff{})
	if roleFilter != "" {
		q = q.Where("role = ?", roleFilter)
	}

	var staff []models.Staff
	pagination, err := q.Order("full_name asc").GetWithPagination(&staff, page, limit)
	return staff, pagination, err
}

// Create persists a new staff member.
func (r *StaffRepository) Create(staff *models.Staff) error {
	return orm.DB().Create(staff)
}

// Update persists changes to an existing staff member.
func (r *StaffRepository) Update(staff *models.Staff) error {
	return orm.DB().Save(staff)
}
