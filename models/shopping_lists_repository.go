package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ShoppingListsRepository persists shopping lists and answers the
// visibility queries around them. Single-entity lookups report absence as a
// nil result, not an error.
type ShoppingListsRepository struct {
	db *gorm.DB
}

func NewShoppingListsRepository(db *gorm.DB) *ShoppingListsRepository {
	return &ShoppingListsRepository{db: db}
}

// Create persists a new list and returns its assigned id. A list anchored
// to a registered owner is created together with the owner's level-2
// membership in the same transaction, so an owned list can never exist
// without its creator enrolled.
func (r *ShoppingListsRepository) Create(ctx context.Context, list *ShoppingList) (uint, error) {
	if list == nil || !list.validAnchor() {
		return 0, ErrInvalidAnchor
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		if list.OwnerID != nil {
			creator := &Membership{
				UserID:     *list.OwnerID,
				ListID:     list.ID,
				Permission: PermissionOwner,
			}
			if err := tx.Create(creator).Error; err != nil {
				return fmt.Errorf("enroll creator: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return list.ID, nil
}

// Update overwrites name, description, logo, and category. The ownership
// anchor is immutable after creation and is never touched.
func (r *ShoppingListsRepository) Update(ctx context.Context, list *ShoppingList) error {
	if list == nil || list.ID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Model(&ShoppingList{ID: list.ID}).
		Select("Name", "Description", "Logo", "ListCategoryID").
		Updates(list).Error
	if err != nil {
		return fmt.Errorf("update list %d: %w", list.ID, err)
	}
	return nil
}

// Delete removes the list together with its memberships and product
// associations. Deleting an absent list is a no-op and returns nil.
func (r *ShoppingListsRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrMissingID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&Membership{}).Error; err != nil {
			return fmt.Errorf("delete list %d memberships: %w", id, err)
		}
		if err := tx.Where("list_id = ?", id).Delete(&ListProduct{}).Error; err != nil {
			return fmt.Errorf("delete list %d product links: %w", id, err)
		}
		if err := tx.Delete(&ShoppingList{}, id).Error; err != nil {
			return fmt.Errorf("delete list %d: %w", id, err)
		}
		return nil
	})
}

// GetByPrimaryKey returns the list with the given id, or nil when no such
// list exists.
func (r *ShoppingListsRepository) GetByPrimaryKey(ctx context.Context, id uint) (*ShoppingList, error) {
	if id == 0 {
		return nil, ErrMissingID
	}

	var list ShoppingList
	err := r.db.WithContext(ctx).First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list %d: %w", id, err)
	}
	return &list, nil
}

// GetAll returns every stored list ordered by name.
func (r *ShoppingListsRepository) GetAll(ctx context.Context) ([]ShoppingList, error) {
	var lists []ShoppingList
	err := r.db.WithContext(ctx).Order("name, id").Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("get all lists: %w", err)
	}
	return lists, nil
}

// Count returns the number of stored lists.
func (r *ShoppingListsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ShoppingList{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count lists: %w", err)
	}
	return count, nil
}

// GetByUserID returns the lists the user is a member of, each enriched with
// its category logo and the user's own unseen-change count.
func (r *ShoppingListsRepository) GetByUserID(ctx context.Context, userID uint) ([]ListOverview, error) {
	if userID == 0 {
		return nil, ErrMissingID
	}

	var overviews []ListOverview
	err := r.db.WithContext(ctx).
		Model(&ShoppingList{}).
		Select("lists.*, list_categories.logo AS category_logo, users_lists.notifications AS notifications").
		Joins("JOIN users_lists ON users_lists.list_id = lists.id AND users_lists.user_id = ?", userID).
		Joins("JOIN list_categories ON list_categories.id = lists.list_category_id").
		Order("lists.name, lists.id").
		Scan(&overviews).Error
	if err != nil {
		return nil, fmt.Errorf("get lists for user %d: %w", userID, err)
	}
	return overviews, nil
}

// GetIfVisible returns the list only when the user holds a membership row on
// it, collapsing the existence check and the visibility check into a single
// query. Absence of either the list or the membership yields nil.
func (r *ShoppingListsRepository) GetIfVisible(ctx context.Context, listID, userID uint) (*ShoppingList, error) {
	if listID == 0 || userID == 0 {
		return nil, ErrMissingID
	}

	var list ShoppingList
	err := r.db.WithContext(ctx).
		Joins("JOIN users_lists ON users_lists.list_id = lists.id AND users_lists.user_id = ?", userID).
		First(&list, "lists.id = ?", listID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get visible list %d for user %d: %w", listID, userID, err)
	}
	return &list, nil
}

// GetByCookie resolves an anonymous list by its cookie token. This is the
// only lookup that bypasses memberships entirely, because anonymous lists
// have none.
func (r *ShoppingListsRepository) GetByCookie(ctx context.Context, cookie string) (*ShoppingList, error) {
	if cookie == "" {
		return nil, ErrMissingID
	}

	var list ShoppingList
	err := r.db.WithContext(ctx).First(&list, "cookie = ?", cookie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by cookie: %w", err)
	}
	return &list, nil
}

// GetByProductCategory returns the lists the user owns (permission level 2)
// whose category is mapped to the given product category. Used to suggest
// lists while browsing products.
func (r *ShoppingListsRepository) GetByProductCategory(ctx context.Context, productCategoryID, userID uint) ([]ShoppingList, error) {
	if productCategoryID == 0 || userID == 0 {
		return nil, ErrMissingID
	}

	var lists []ShoppingList
	err := r.db.WithContext(ctx).
		Joins("JOIN users_lists ON users_lists.list_id = lists.id AND users_lists.user_id = ? AND users_lists.permission = ?",
			userID, PermissionOwner).
		Joins("JOIN category_mappings ON category_mappings.list_category_id = lists.list_category_id AND category_mappings.product_category_id = ?",
			productCategoryID).
		Order("lists.name, lists.id").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("get lists for product category %d: %w", productCategoryID, err)
	}
	return lists, nil
}
