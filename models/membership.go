package models

// Membership links a user to a shopping list. It carries the permission
// level the user holds and a counter of changes the user has not seen yet.
// The (user, list) pair is unique.
type Membership struct {
	UserID        uint       `gorm:"primaryKey;autoIncrement:false"`
	ListID        uint       `gorm:"primaryKey;autoIncrement:false"`
	Permission    Permission `gorm:"not null;default:0"`
	Notifications int        `gorm:"not null;default:0"`
}

func (Membership) TableName() string {
	return "users_lists"
}
