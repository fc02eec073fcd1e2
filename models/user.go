package models

// User is a registered account. Authentication lives upstream; the fields
// here are what member listings display.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"not null"`
	LastName  string
	Email     string `gorm:"uniqueIndex;not null"`
	Avatar    string
}

func (u *User) TableName() string {
	return "users"
}

// Member is a user together with the permission level they hold on a
// specific shopping list. Used for display only, never for authorization.
type Member struct {
	User       `gorm:"embedded"`
	Permission Permission
}
