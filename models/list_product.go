package models

// ListProduct links a product to a shopping list with the desired quantity
// and whether the product is strictly necessary. The (list, product) pair is
// unique; attaching an already linked product merges into the existing row.
type ListProduct struct {
	ListID    uint `gorm:"primaryKey;autoIncrement:false"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int  `gorm:"not null"`
	Necessary bool `gorm:"not null"`
}

func (ListProduct) TableName() string {
	return "list_products"
}
