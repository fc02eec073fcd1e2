package models

// Product represents an item that can be attached to shopping lists.
// A product without an owner is part of the global catalog and visible to
// everyone; an owned product is visible only to its owner.
type Product struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	Notes             string
	Logo              string
	Photo             string
	ProductCategoryID uint            `gorm:"not null"`
	ProductCategory   ProductCategory `gorm:"foreignKey:ProductCategoryID"`
	OwnerID           *uint
}

func (p *Product) TableName() string {
	return "products"
}

// Global reports whether the product is visible to every user.
func (p *Product) Global() bool {
	return p.OwnerID == nil
}

// ListedProduct is a product enriched with the quantity and necessity it
// carries on a particular shopping list.
type ListedProduct struct {
	Product   `gorm:"embedded"`
	Quantity  int
	Necessary bool
}
