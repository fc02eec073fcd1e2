package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// NotificationsRepository maintains the per-member unseen-change counters
// stored on the membership rows. The counters record how many changes
// happened, not what changed; any audit trail is a separate concern.
type NotificationsRepository struct {
	db *gorm.DB
}

func NewNotificationsRepository(db *gorm.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

// Add increments the counter of every member of the list except the actor
// who caused the change. The increment is a single relative update at the
// storage layer, so concurrent changes on the same list never lose counts.
func (r *NotificationsRepository) Add(ctx context.Context, listID, excludedUserID uint) error {
	if listID == 0 || excludedUserID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("list_id = ? AND user_id <> ?", listID, excludedUserID).
		UpdateColumn("notifications", gorm.Expr("notifications + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("add notifications on list %d: %w", listID, err)
	}
	return nil
}

// Clear resets a single member's counter to zero. Called when that member
// views the list.
func (r *NotificationsRepository) Clear(ctx context.Context, listID, userID uint) error {
	if listID == 0 || userID == 0 {
		return ErrMissingID
	}

	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("list_id = ? AND user_id = ?", listID, userID).
		UpdateColumn("notifications", 0).Error
	if err != nil {
		return fmt.Errorf("clear notifications for user %d on list %d: %w", userID, listID, err)
	}
	return nil
}

// TotalForUser sums the counter across all of the user's memberships.
// A user with no memberships has zero unseen changes, not an error.
func (r *NotificationsRepository) TotalForUser(ctx context.Context, userID uint) (int, error) {
	if userID == 0 {
		return 0, ErrMissingID
	}

	var total int64
	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(notifications), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("total notifications for user %d: %w", userID, err)
	}
	return int(total), nil
}
