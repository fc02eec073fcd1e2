package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shoplist/database"
)

// CategoriesRepository reads list and product categories and maintains the
// mapping relation between them.
type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

// ListCategories returns every list category ordered by name.
func (r *CategoriesRepository) ListCategories(ctx context.Context) ([]ListCategory, error) {
	var categories []ListCategory
	err := r.db.WithContext(ctx).Order("name, id").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("get list categories: %w", err)
	}
	return categories, nil
}

// ProductCategories returns every product category ordered by name.
func (r *CategoriesRepository) ProductCategories(ctx context.Context) ([]ProductCategory, error) {
	var categories []ProductCategory
	err := r.db.WithContext(ctx).Order("name, id").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("get product categories: %w", err)
	}
	return categories, nil
}

// AddMapping declares products of a category relevant to lists of a
// category. Declaring an existing mapping fails with ErrDuplicateMapping.
func (r *CategoriesRepository) AddMapping(ctx context.Context, productCategoryID, listCategoryID uint) error {
	if productCategoryID == 0 || listCategoryID == 0 {
		return ErrMissingID
	}

	m := &CategoryMapping{ProductCategoryID: productCategoryID, ListCategoryID: listCategoryID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("map product category %d to list category %d: %w",
				productCategoryID, listCategoryID, ErrDuplicateMapping)
		}
		return fmt.Errorf("map product category %d to list category %d: %w",
			productCategoryID, listCategoryID, err)
	}
	return nil
}
