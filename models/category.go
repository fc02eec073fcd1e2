package models

// ListCategory classifies shopping lists (e.g. groceries, hardware).
type ListCategory struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Logo string
}

func (c *ListCategory) TableName() string {
	return "list_categories"
}

// ProductCategory classifies products. It is a distinct entity from
// ListCategory; the two are related only through CategoryMapping.
type ProductCategory struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Logo string
}

func (c *ProductCategory) TableName() string {
	return "product_categories"
}

// CategoryMapping declares that products of a category are relevant to
// lists of a category. Product browsing and list suggestions are filtered
// through this relation.
type CategoryMapping struct {
	ProductCategoryID uint `gorm:"primaryKey;autoIncrement:false"`
	ListCategoryID    uint `gorm:"primaryKey;autoIncrement:false"`
}

func (CategoryMapping) TableName() string {
	return "category_mappings"
}
