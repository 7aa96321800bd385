package repositories

import (
	"time"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// OrderFilter narrows order list queries. Zero values mean "no filter".
type OrderFilter struct {
	Status  string
	StaffID *uint      // non-nil restricts to one assignee (visibility scope)
	Search  string     // matches order_number or customer_name
	From    *time.Time // created_at lower bound
	To      *time.Time // created_at upper bound
}

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// List returns one page of orders matching filter, newest first, with
// items and the assignee preloaded.
func (r *OrderRepository) List(filter OrderFilter, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StaffID != nil {
		q = q.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("order_number LIKE ? OR customer_name LIKE ?", like, like)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var orders []models.Order
	pagination, err := q.Preload("Items").Preload("Staff").
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// FindByID fetches one order with items and assignee preloaded.
// Returns gorm.ErrRecordNotFound when the id does not resolve.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Staff").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// FindByNumber fetches one order by its human-readable order number.
func (r *OrderRepository) FindByNumber(number string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Staff").
		Where("order_number = ?", number).
		First(&order)
	return order, err
}

// UpdateFields applies a partial update: only the supplied columns change,
// and updated_at is always bumped, including when the write is a
// data-level no-op, so a re-assignment to the same staff member still
// counts as a fresh write. Concurrent writers are last-write-wins; there
// is no version column.
func (r *OrderRepository) UpdateFields(id uint, fields map[string]interface{}) (models.Order, error) {
	fields["updated_at"] = time.Now()

	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if err != nil {
		return models.Order{}, err
	}

	return r.FindByID(id)
}

// Create persists a new order (used by seeders and tests; production
// orders arrive through the storefront checkout).
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.DB().Create(order)
}
