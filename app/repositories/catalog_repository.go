package repositories

import (
	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// CatalogRepository handles database operations for products and
// categories.
type CatalogRepository struct{}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// ListProducts returns one page of products, optionally filtered by
// category and name search.
func (r *CatalogRepository) ListProducts(categoryID *uint, search string, page, limit int) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var products []models.Product
	pagination, err := q.Order("name asc").GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// FindProduct fetches one product by primary key.
func (r *CatalogRepository) FindProduct(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// CreateProduct persists a new product.
func (r *CatalogRepository) CreateProduct(product *models.Product) error {
	return orm.DB().Create(product)
}

// UpdateProduct persists changes to an existing product.
func (r *CatalogRepository) UpdateProduct(product *models.Product) error {
	return orm.DB().Save(product)
}

// DeleteProduct soft-deletes a product.
func (r *CatalogRepository) DeleteProduct(id uint) error {
	return orm.DB().Where("id = ?", id).Delete(&models.Product{})
}

// ListCategories returns all categories.
func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name asc").Get(&categories)
	return categories, err
}

// CreateCategory persists a new category.
func (r *CatalogRepository) CreateCategory(category *models.Category) error {
	return orm.DB().Create(category)
}
