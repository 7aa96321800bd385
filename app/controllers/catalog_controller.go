package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/bind"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/response"
	"github.com/orderdesk/backoffice/pkg/storage"
)

const maxImageBytes = 8 << 20 // 8 MB

type CatalogController struct {
	repo *repositories.CatalogRepository
}

func NewCatalogController() *CatalogController {
	return &CatalogController{repo: repositories.NewCatalogRepository()}
}

type productInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	SKU         string  `json:"sku" validate:"required,alpha_dash,max=100"`
	CategoryID  *uint   `json:"category_id"`
}

// ListProducts serves GET /api/products.
func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var categoryID *uint
	if raw := q.Get("category_id"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(n)
			categoryID = &id
		}
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, pagination, err := c.repo.ListProducts(categoryID, q.Get("search"), page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Paginated(w, "products", products, pagination)
}

// ShowProduct serves GET /api/products/{id}.
func (c *CatalogController) ShowProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.repo.FindProduct(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product show", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{
		"product":   product,
		"image_url": imageURL(product),
	})
}

// CreateProduct serves POST /api/products.
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		CategoryID:  in.CategoryID,
	}
	if err := c.repo.CreateProduct(&product); err != nil {
		logger.WithCtx(r.Context()).Error("product create", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, map[string]interface{}{"product": product})
}

// UpdateProduct serves PUT /api/products/{id}.
func (c *CatalogController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.repo.FindProduct(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product update", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.SKU = in.SKU
	product.CategoryID = in.CategoryID

	if err := c.repo.UpdateProduct(&product); err != nil {
		logger.WithCtx(r.Context()).Error("product update", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{"product": product})
}

// DeleteProduct serves DELETE /api/products/{id} (soft delete).
func (c *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.repo.DeleteProduct(id); err != nil {
		logger.WithCtx(r.Context()).Error("product delete", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{"deleted": true})
}

// UploadImage serves POST /api/products/{id}/image as multipart form data
// with an "image" file field. The file lands on the configured storage
// disk (local in dev, S3 in production).
func (c *CatalogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.repo.FindProduct(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("image upload", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.Error(w, http.StatusUnprocessableEntity, "image must be jpg, png, or webp")
		return
	}

	path := fmt.Sprintf("products/%d%s", product.ID, ext)
	if err := storage.PutStream(path, file); err != nil {
		logger.WithCtx(r.Context()).Error("image upload", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Replace a previous image stored under a different extension.
	if product.ImagePath != "" && product.ImagePath != path {
		storage.Delete(product.ImagePath) //nolint:errcheck
	}

	product.ImagePath = path
	if err := c.repo.UpdateProduct(&product); err != nil {
		logger.WithCtx(r.Context()).Error("image upload", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{
		"product":   product,
		"image_url": imageURL(product),
	})
}

// ListCategories serves GET /api/categories.
func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.repo.ListCategories()
	if err != nil {
		logger.WithCtx(r.Context()).Error("category list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, map[string]interface{}{"categories": categories})
}

type categoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
	Slug string `json:"slug" validate:"required,alpha_dash,max=255"`
}

// CreateCategory serves POST /api/categories.
func (c *CatalogController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := models.Category{Name: in.Name, Slug: in.Slug}
	if err := c.repo.CreateCategory(&category); err != nil {
		logger.WithCtx(r.Context()).Error("category create", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, map[string]interface{}{"category": category})
}

func imageURL(p models.Product) string {
	if p.ImagePath == "" {
		return ""
	}
	return storage.URL(p.ImagePath)
}
