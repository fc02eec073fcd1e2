package models

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an isolated database with the full schema. case_sensitive_like
// mirrors the Postgres LIKE semantics the search queries rely on; the single
// connection keeps SQLite stable under the concurrent counter tests.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shoplist.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=case_sensitive_like(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, firstName string) *User {
	t.Helper()
	u := &User{FirstName: firstName, Email: fmt.Sprintf("%s@example.com", firstName)}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedListCategory(t *testing.T, db *gorm.DB, name string) *ListCategory {
	t.Helper()
	c := &ListCategory{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProductCategory(t *testing.T, db *gorm.DB, name string) *ProductCategory {
	t.Helper()
	c := &ProductCategory{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID uint, ownerID *uint) *Product {
	t.Helper()
	p := &Product{Name: name, ProductCategoryID: categoryID, OwnerID: ownerID}
	require.NoError(t, db.Create(p).Error)
	return p
}

// seedList creates a list through the repository so the creator is
// auto-enrolled at level 2.
func seedList(t *testing.T, db *gorm.DB, name string, categoryID uint, owner *User) *ShoppingList {
	t.Helper()
	list := NewUserList(name, "", categoryID, owner.ID)
	_, err := NewShoppingListsRepository(db).Create(context.Background(), list)
	require.NoError(t, err)
	return list
}
