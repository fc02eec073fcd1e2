package models

import "gorm.io/gorm"

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ListCategory{},
		&ProductCategory{},
		&CategoryMapping{},
		&ShoppingList{},
		&Product{},
		&Membership{},
		&ListProduct{},
	)
}
