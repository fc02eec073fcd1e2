package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shoplist/database"
)

// MembershipsRepository governs who is linked to a list and at what
// permission level. It is consulted before any other engine acts.
type MembershipsRepository struct {
	db *gorm.DB
}

func NewMembershipsRepository(db *gorm.DB) *MembershipsRepository {
	return &MembershipsRepository{db: db}
}

// GetPermission returns the permission level the user holds on the list.
// A missing membership row is a legitimate result and yields PermissionNone,
// never an error.
func (r *MembershipsRepository) GetPermission(ctx context.Context, listID, userID uint) (Permission, error) {
	if listID == 0 || userID == 0 {
		return PermissionNone, ErrMissingID
	}

	var m Membership
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PermissionNone, nil
	}
	if err != nil {
		return PermissionNone, fmt.Errorf("get permission for user %d on list %d: %w", userID, listID, err)
	}
	return m.Permission, nil
}

// AddMember links the user to the list at the given level with a zero
// notification counter. Linking an already linked user fails with
// ErrDuplicateMembership.
func (r *MembershipsRepository) AddMember(ctx context.Context, listID, userID uint, level Permission) error {
	if listID == 0 || userID == 0 {
		return ErrMissingID
	}
	if !level.Valid() {
		return ErrInvalidPermission
	}

	m := &Membership{UserID: userID, ListID: listID, Permission: level}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("add member %d to list %d: %w", userID, listID, ErrDuplicateMembership)
		}
		return fmt.Errorf("add member %d to list %d: %w", userID, listID, err)
	}
	return nil
}

// UpdateMember changes the permission level in place. The notification
// counter is left untouched. Updating a missing membership affects nothing.
func (r *MembershipsRepository) UpdateMember(ctx context.Context, listID, userID uint, level Permission) error {
	if listID == 0 || userID == 0 {
		return ErrMissingID
	}
	if !level.Valid() {
		return ErrInvalidPermission
	}

	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("list_id = ? AND user_id = ?", listID, userID).
		UpdateColumn("permission", level).Error
	if err != nil {
		return fmt.Errorf("update member %d on list %d: %w", userID, listID, err)
	}
	return nil
}

// RemoveMember deletes the membership row. Removing a user who is not a
// member is a no-op and returns nil.
func (r *MembershipsRepository) RemoveMember(ctx context.Context, listID, userID uint) error {
	if listID == 0 || userID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		Delete(&Membership{}).Error
	if err != nil {
		return fmt.Errorf("remove member %d from list %d: %w", userID, listID, err)
	}
	return nil
}

// ListMembers returns the list's members with their permission levels,
// ordered by first name for display.
func (r *MembershipsRepository) ListMembers(ctx context.Context, listID uint) ([]Member, error) {
	if listID == 0 {
		return nil, ErrMissingID
	}

	var members []Member
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("users.*, users_lists.permission AS permission").
		Joins("JOIN users_lists ON users_lists.user_id = users.id AND users_lists.list_id = ?", listID).
		Order("users.first_name, users.id").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members of list %d: %w", listID, err)
	}
	return members, nil
}
