package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListProductsRepository governs the attachment of products to shopping
// lists with quantity and necessity.
type ListProductsRepository struct {
	db *gorm.DB
}

func NewListProductsRepository(db *gorm.DB) *ListProductsRepository {
	return &ListProductsRepository{db: db}
}

// Attach links the product to the list. When the pair is already linked the
// existing row's quantity and necessary flag are overwritten instead —
// attaching is merge-or-create, never a duplicate error. The whole operation
// is a single atomic upsert statement.
func (r *ListProductsRepository) Attach(ctx context.Context, listID, productID uint, quantity int, necessary bool) error {
	if listID == 0 || productID == 0 {
		return ErrMissingID
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	link := &ListProduct{
		ListID:    listID,
		ProductID: productID,
		Quantity:  quantity,
		Necessary: necessary,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "list_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "necessary"}),
		}).
		Create(link).Error
	if err != nil {
		return fmt.Errorf("attach product %d to list %d: %w", productID, listID, err)
	}
	return nil
}

// Update overwrites quantity and necessary in place. Updating a pair that is
// not linked affects no rows and returns nil.
func (r *ListProductsRepository) Update(ctx context.Context, listID, productID uint, quantity int, necessary bool) error {
	if listID == 0 || productID == 0 {
		return ErrMissingID
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	err := r.db.WithContext(ctx).
		Model(&ListProduct{}).
		Where("list_id = ? AND product_id = ?", listID, productID).
		Updates(map[string]any{"quantity": quantity, "necessary": necessary}).Error
	if err != nil {
		return fmt.Errorf("update product %d on list %d: %w", productID, listID, err)
	}
	return nil
}

// Detach removes the association. Detaching a product that is not linked is
// a no-op and returns nil.
func (r *ListProductsRepository) Detach(ctx context.Context, listID, productID uint) error {
	if listID == 0 || productID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Where("list_id = ? AND product_id = ?", listID, productID).
		Delete(&ListProduct{}).Error
	if err != nil {
		return fmt.Errorf("detach product %d from list %d: %w", productID, listID, err)
	}
	return nil
}

// Products returns the list's products enriched with quantity and necessity,
// ordered by product name.
func (r *ListProductsRepository) Products(ctx context.Context, listID uint) ([]ListedProduct, error) {
	if listID == 0 {
		return nil, ErrMissingID
	}

	var items []ListedProduct
	err := r.db.WithContext(ctx).
		Model(&Product{}).
		Select("products.*, list_products.quantity AS quantity, list_products.necessary AS necessary").
		Joins("JOIN list_products ON list_products.product_id = products.id AND list_products.list_id = ?", listID).
		Order("products.name, products.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("get products of list %d: %w", listID, err)
	}
	return items, nil
}
