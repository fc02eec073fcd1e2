package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ProductsRepository persists products and answers the category-scoped
// visibility queries over them.
type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// Create persists a new product and returns its assigned id.
func (r *ProductsRepository) Create(ctx context.Context, product *Product) (uint, error) {
	if product == nil || product.Name == "" || product.ProductCategoryID == 0 {
		return 0, ErrMissingID
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return product.ID, nil
}

// Update overwrites name, notes, logo, photo, and category. The owner
// scoping is immutable after creation.
func (r *ProductsRepository) Update(ctx context.Context, product *Product) error {
	if product == nil || product.ID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Model(&Product{ID: product.ID}).
		Select("Name", "Notes", "Logo", "Photo", "ProductCategoryID").
		Updates(product).Error
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

// Delete removes the product together with any list associations referring
// to it. Deleting an absent product is a no-op and returns nil.
func (r *ProductsRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrMissingID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&ListProduct{}).Error; err != nil {
			return fmt.Errorf("delete product %d list links: %w", id, err)
		}
		if err := tx.Delete(&Product{}, id).Error; err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		return nil
	})
}

// GetByPrimaryKey returns the product with the given id, or nil when no such
// product exists.
func (r *ProductsRepository) GetByPrimaryKey(ctx context.Context, id uint) (*Product, error) {
	if id == 0 {
		return nil, ErrMissingID
	}

	var product Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// GetAll returns every stored product ordered by name.
func (r *ProductsRepository) GetAll(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).Order("name, id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("get all products: %w", err)
	}
	return products, nil
}

// Count returns the number of stored products.
func (r *ProductsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Product{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// GetByListCategory returns the products relevant to lists of the given
// category that the user may see: globally visible products plus the user's
// own, restricted through the category mapping.
func (r *ProductsRepository) GetByListCategory(ctx context.Context, listCategoryID, userID uint) ([]Product, error) {
	if listCategoryID == 0 || userID == 0 {
		return nil, ErrMissingID
	}
	return r.visibleByCategory(ctx, listCategoryID, userID, "")
}

// SearchByName restricts GetByListCategory to products whose name contains
// the query. Matching is a case-sensitive substring match.
func (r *ProductsRepository) SearchByName(ctx context.Context, query string, listCategoryID, userID uint) ([]Product, error) {
	if listCategoryID == 0 || userID == 0 {
		return nil, ErrMissingID
	}
	return r.visibleByCategory(ctx, listCategoryID, userID, query)
}

func (r *ProductsRepository) visibleByCategory(ctx context.Context, listCategoryID, userID uint, query string) ([]Product, error) {
	tx := r.db.WithContext(ctx).
		Joins("JOIN category_mappings ON category_mappings.product_category_id = products.product_category_id AND category_mappings.list_category_id = ?",
			listCategoryID).
		Where("products.owner_id IS NULL OR products.owner_id = ?", userID)

	if query != "" {
		tx = tx.Where(`products.name LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%")
	}

	var products []Product
	if err := tx.Order("products.name, products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("get products for list category %d: %w", listCategoryID, err)
	}
	return products, nil
}

// escapeLike neutralizes LIKE metacharacters so the query string is matched
// literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
