// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/database"
	"github.com/javajoker/product-inventory/internal/metrics"
	"github.com/javajoker/product-inventory/internal/models"
	"github.com/javajoker/product-inventory/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,notblank,max=255"`
	Description *string          `json:"description"`
	SKU         string           `json:"sku" validate:"required,notblank,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,min=0,money"`
	Quantity    *int             `json:"quantity" validate:"required,min=0"`
	Category    *string          `json:"category" validate:"omitnil,max=100"`
	ImageURL    *string          `json:"imageUrl" validate:"omitnil,max=1024"`
	Supplier    *string          `json:"supplier" validate:"omitnil,max=255"`
	Barcode     string           `json:"barcode" validate:"required,notblank,max=100"`
	IsActive    *bool            `json:"isActive"`
}

// UpdateProductRequest carries a partial update: nil fields are left as
// they are. The owner cannot be changed.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitnil,notblank,max=255"`
	Description *string          `json:"description"`
	SKU         *string          `json:"sku" validate:"omitnil,notblank,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,min=0,money"`
	Quantity    *int             `json:"quantity" validate:"omitnil,min=0"`
	Category    *string          `json:"category" validate:"omitnil,max=100"`
	ImageURL    *string          `json:"imageUrl" validate:"omitnil,max=1024"`
	Supplier    *string          `json:"supplier" validate:"omitnil,max=255"`
	Barcode     *string          `json:"barcode" validate:"omitnil,notblank,max=100"`
	IsActive    *bool            `json:"isActive"`
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest, actorUserID uint) (product *models.Product, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("create", outcome(err), start) }(time.Now())

	if err := validate(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := findDuplicate(db, &req.Name, &req.SKU, &req.Barcode, 0); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product = &models.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Supplier:    req.Supplier,
		Barcode:     req.Barcode,
		IsActive:    isActive,
		UserID:      actorUserID,
	}

	if err := db.Create(product).Error; err != nil {
		if isDuplicateKey(err) {
			logrus.WithFields(logrus.Fields{"sku": req.SKU, "user_id": actorUserID}).
				Warn("Product insert lost a uniqueness race")
			return nil, &DuplicateError{}
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// FindAll returns one page of products ordered by id. The page and the
// total are read in the same transaction.
func (s *ProductService) FindAll(ctx context.Context, page, pageSize int) (result *ProductPage, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("find_all", outcome(err), start) }(time.Now())

	return s.paginate(ctx, page, pageSize, nil)
}

// SearchProducts matches term case-insensitively as a substring of the name
// or the sku. A blank term yields an empty page without touching the store.
func (s *ProductService) SearchProducts(ctx context.Context, term string, page, pageSize int) (result *ProductPage, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("search", outcome(err), start) }(time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return &ProductPage{Products: []models.Product{}, Page: page, PageSize: pageSize}, nil
	}

	// Both sides go through the same fold so non-ASCII letters match too.
	lower := database.LowerFunc(s.db)
	condition := fmt.Sprintf(`%[1]s(name) LIKE %[1]s(?) ESCAPE '\' OR %[1]s(sku) LIKE %[1]s(?) ESCAPE '\'`, lower)
	pattern := "%" + escapeLike(term) + "%"
	return s.paginate(ctx, page, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where(condition, pattern, pattern)
	})
}

func (s *ProductService) paginate(ctx context.Context, page, pageSize int, filter func(*gorm.DB) *gorm.DB) (*ProductPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page and pageSize must be positive (got %d, %d)", ErrValidation, page, pageSize)
	}

	scopes := []func(*gorm.DB) *gorm.DB{}
	if filter != nil {
		scopes = append(scopes, filter)
	}

	products := make([]models.Product, 0, pageSize)
	var total int64

	offset, inRange := utils.Offset(page, pageSize)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if inRange {
			if err := tx.Scopes(scopes...).
				Order("id ASC").
				Offset(offset).
				Limit(pageSize).
				Find(&products).Error; err != nil {
				return fmt.Errorf("failed to fetch products: %w", err)
			}
		}

		if err := tx.Model(&models.Product{}).Scopes(scopes...).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = []models.Product{}
	}

	return &ProductPage{
		Products:   products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

func (s *ProductService) FindOne(ctx context.Context, id uint) (product *models.Product, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("find_one", outcome(err), start) }(time.Now())

	return s.getByID(s.db.WithContext(ctx), id)
}

func (s *ProductService) FindBySku(ctx context.Context, sku string) (product *models.Product, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("find_by_sku", outcome(err), start) }(time.Now())

	product = &models.Product{}
	if err := s.db.WithContext(ctx).Where("sku = ?", sku).First(product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with sku %q: %w", sku, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, req *UpdateProductRequest, actorUserID uint) (product *models.Product, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("update", outcome(err), start) }(time.Now())

	if err := validate(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	product, err = s.getOwned(db, id, actorUserID)
	if err != nil {
		return nil, err
	}

	if err := findDuplicate(db, req.Name, req.SKU, req.Barcode, product.ID); err != nil {
		return nil, err
	}

	updates := req.changes()
	if len(updates) > 0 {
		if err := db.Model(product).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				logrus.WithFields(logrus.Fields{"product_id": id, "user_id": actorUserID}).
					Warn("Product update lost a uniqueness race")
				return nil, &DuplicateError{}
			}
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.getByID(db, id)
}

// Remove deletes the product and returns it as it was before deletion.
func (s *ProductService) Remove(ctx context.Context, id uint, actorUserID uint) (product *models.Product, err error) {
	defer func(start time.Time) { metrics.RecordCatalogOperation("remove", outcome(err), start) }(time.Now())

	db := s.db.WithContext(ctx)
	product, err = s.getOwned(db, id, actorUserID)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithFields(logrus.Fields{"product_id": id, "user_id": actorUserID}).Info("Product deleted")
	return product, nil
}

func (s *ProductService) getByID(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) getOwned(db *gorm.DB, id, actorUserID uint) (*models.Product, error) {
	product, err := s.getByID(db, id)
	if err != nil {
		return nil, err
	}
	if product.UserID != actorUserID {
		return nil, fmt.Errorf("product %d is owned by another user: %w", id, ErrForbidden)
	}
	return product, nil
}

// findDuplicate looks for another product sharing any of the given values.
// Nil values are not checked; excludeID, when non-zero, is ignored.
func findDuplicate(db *gorm.DB, name, sku, barcode *string, excludeID uint) error {
	var conds []string
	var args []interface{}
	for _, c := range []struct {
		column string
		value  *string
	}{{"name", name}, {"sku", sku}, {"barcode", barcode}} {
		if c.value != nil {
			conds = append(conds, c.column+" = ?")
			args = append(args, *c.value)
		}
	}
	if len(conds) == 0 {
		return nil
	}

	query := db.Where("("+strings.Join(conds, " OR ")+")", args...)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var existing []models.Product
	if err := query.Limit(3).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	dup := &DuplicateError{}
	seen := map[string]bool{}
	for _, p := range existing {
		if name != nil && p.Name == *name {
			seen["name"] = true
		}
		if sku != nil && p.SKU == *sku {
			seen["sku"] = true
		}
		if barcode != nil && p.Barcode == *barcode {
			seen["barcode"] = true
		}
	}
	for _, field := range []string{"name", "sku", "barcode"} {
		if seen[field] {
			dup.Fields = append(dup.Fields, field)
		}
	}
	return dup
}

func (r *UpdateProductRequest) changes() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.SKU != nil {
		updates["sku"] = *r.SKU
	}
	if r.Price != nil {
		updates["price"] = *r.Price
	}
	if r.Quantity != nil {
		updates["quantity"] = *r.Quantity
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	if r.ImageURL != nil {
		updates["image_url"] = *r.ImageURL
	}
	if r.Supplier != nil {
		updates["supplier"] = *r.Supplier
	}
	if r.Barcode != nil {
		updates["barcode"] = *r.Barcode
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
