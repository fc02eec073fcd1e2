package models

// ShoppingList represents a shared shopping list. Every list belongs to a
// list category and is anchored either to a registered owner or, for
// anonymous lists, to an opaque cookie token — never both, never neither.
type ShoppingList struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Description    string
	Logo           string
	ListCategoryID uint         `gorm:"not null"`
	ListCategory   ListCategory `gorm:"foreignKey:ListCategoryID"`
	OwnerID        *uint
	Cookie         *string `gorm:"uniqueIndex"`
}

func (l *ShoppingList) TableName() string {
	return "lists"
}

// NewUserList builds a list anchored to a registered owner.
func NewUserList(name, description string, categoryID, ownerID uint) *ShoppingList {
	return &ShoppingList{
		Name:           name,
		Description:    description,
		ListCategoryID: categoryID,
		OwnerID:        &ownerID,
	}
}

// NewAnonymousList builds a list anchored to a cookie token instead of a
// registered user. Anonymous lists have no memberships.
func NewAnonymousList(name, description string, categoryID uint, cookie string) *ShoppingList {
	return &ShoppingList{
		Name:           name,
		Description:    description,
		ListCategoryID: categoryID,
		Cookie:         &cookie,
	}
}

// Anonymous reports whether the list is anchored to a cookie token.
func (l *ShoppingList) Anonymous() bool {
	return l.OwnerID == nil
}

// validAnchor reports whether exactly one ownership anchor is set.
func (l *ShoppingList) validAnchor() bool {
	if l.OwnerID != nil {
		return l.Cookie == nil && *l.OwnerID != 0
	}
	return l.Cookie != nil && *l.Cookie != ""
}

// ListOverview is a shopping list enriched for display with its category
// logo and the requesting member's own unseen-change count.
type ListOverview struct {
	ShoppingList  `gorm:"embedded"`
	CategoryLogo  string
	Notifications int
}
