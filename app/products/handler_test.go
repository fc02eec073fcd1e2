package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/app/auth"
	"shoplist/models"
)

// --- Mock Providers ---

type mockProducts struct {
	byID      *models.Product
	found     []models.Product
	createdID uint
	err       error

	created     *models.Product
	updated     *models.Product
	deleted     []uint
	searchedFor string
}

func (m *mockProducts) Create(_ context.Context, product *models.Product) (uint, error) {
	m.created = product
	return m.createdID, m.err
}

func (m *mockProducts) Update(_ context.Context, product *models.Product) error {
	m.updated = product
	return m.err
}

func (m *mockProducts) Delete(_ context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockProducts) GetByPrimaryKey(_ context.Context, _ uint) (*models.Product, error) {
	return m.byID, m.err
}

func (m *mockProducts) GetByListCategory(_ context.Context, _, _ uint) ([]models.Product, error) {
	return m.found, m.err
}

func (m *mockProducts) SearchByName(_ context.Context, query string, _, _ uint) ([]models.Product, error) {
	m.searchedFor = query
	return m.found, m.err
}

type mockSuggestions struct {
	lists []models.ShoppingList
	err   error
}

func (m *mockSuggestions) GetByProductCategory(_ context.Context, _, _ uint) ([]models.ShoppingList, error) {
	return m.lists, m.err
}

// --- Helpers ---

func newRequest(method, target, body string, id auth.Identity, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(auth.NewContext(ctx, id))
}

func ownedProduct(id, ownerID uint, name string) *models.Product {
	return &models.Product{ID: id, Name: name, ProductCategoryID: 1, OwnerID: &ownerID}
}

// --- Tests: POST /products ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		identity           auth.Identity
		requestBody        string
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *mockProducts)
	}{
		{
			name:               "Success sets the caller as owner",
			identity:           auth.Identity{UserID: 7},
			requestBody:        `{"name":"Milk","product_category_id":2}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *mockProducts) {
				require.NotNil(t, repo.created)
				require.NotNil(t, repo.created.OwnerID)
				assert.Equal(t, uint(7), *repo.created.OwnerID)
				assert.Equal(t, "Milk", repo.created.Name)
			},
		},
		{
			name:               "Anonymous callers may not create products",
			identity:           auth.Identity{Token: "tok-1"},
			requestBody:        `{"name":"Milk","product_category_id":2}`,
			expectedStatusCode: http.StatusUnauthorized,
			checkRepoCall: func(t *testing.T, repo *mockProducts) {
				assert.Nil(t, repo.created, "Create should not be called")
			},
		},
		{
			name:               "Missing name",
			identity:           auth.Identity{UserID: 7},
			requestBody:        `{"product_category_id":2}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Invalid JSON body",
			identity:           auth.Identity{UserID: 7},
			requestBody:        `{broken`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockProducts{createdID: 11}
			handler := NewProductHandler(repo, &mockSuggestions{})
			req := newRequest("POST", "/products", tc.requestBody, tc.identity, nil)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}

// --- Tests: GET /products/{productID} ---

func TestHandleGetVisibility(t *testing.T) {
	testCases := []struct {
		name               string
		product            *models.Product
		identity           auth.Identity
		expectedStatusCode int
	}{
		{
			name:               "Global product is visible to everyone",
			product:            &models.Product{ID: 4, Name: "Milk", ProductCategoryID: 1},
			identity:           auth.Identity{UserID: 7},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Owner sees their own product",
			product:            ownedProduct(4, 7, "Milka"),
			identity:           auth.Identity{UserID: 7},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Someone else's product reads as absent",
			product:            ownedProduct(4, 8, "Milka"),
			identity:           auth.Identity{UserID: 7},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Absent product",
			product:            nil,
			identity:           auth.Identity{UserID: 7},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockProducts{byID: tc.product}
			handler := NewProductHandler(repo, &mockSuggestions{})
			req := newRequest("GET", "/products/4", "", tc.identity, map[string]string{"productID": "4"})
			rec := httptest.NewRecorder()

			handler.HandleGet(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if rec.Code == http.StatusOK {
				var resp ProductResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.product.Name, resp.Name)
				assert.Equal(t, tc.product.Global(), resp.Global)
			}
		})
	}
}

// --- Tests: PUT /products/{productID} ---

func TestHandleUpdateOwnership(t *testing.T) {
	testCases := []struct {
		name               string
		product            *models.Product
		expectedStatusCode int
		expectUpdated      bool
	}{
		{
			name:               "Owner edits their product",
			product:            ownedProduct(4, 7, "Milka"),
			expectedStatusCode: http.StatusOK,
			expectUpdated:      true,
		},
		{
			name:               "Global catalog is not editable",
			product:            &models.Product{ID: 4, Name: "Milk", ProductCategoryID: 1},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:               "Someone else's product reads as absent",
			product:            ownedProduct(4, 8, "Milka"),
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockProducts{byID: tc.product}
			handler := NewProductHandler(repo, &mockSuggestions{})
			req := newRequest("PUT", "/products/4", `{"name":"Oat Milk","product_category_id":3}`,
				auth.Identity{UserID: 7}, map[string]string{"productID": "4"})
			rec := httptest.NewRecorder()

			handler.HandleUpdate(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectUpdated {
				require.NotNil(t, repo.updated)
				assert.Equal(t, "Oat Milk", repo.updated.Name)
				assert.Equal(t, uint(3), repo.updated.ProductCategoryID)
			} else {
				assert.Nil(t, repo.updated)
			}
		})
	}
}

func TestHandleDeleteOwnership(t *testing.T) {
	repo := &mockProducts{byID: ownedProduct(4, 7, "Milka")}
	handler := NewProductHandler(repo, &mockSuggestions{})
	req := newRequest("DELETE", "/products/4", "", auth.Identity{UserID: 7}, map[string]string{"productID": "4"})
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{4}, repo.deleted)
}

func TestHandleDeleteGlobalForbidden(t *testing.T) {
	repo := &mockProducts{byID: &models.Product{ID: 4, Name: "Milk", ProductCategoryID: 1}}
	handler := NewProductHandler(repo, &mockSuggestions{})
	req := newRequest("DELETE", "/products/4", "", auth.Identity{UserID: 7}, map[string]string{"productID": "4"})
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.deleted)
}

// --- Tests: GET /products ---

func TestHandleSearch(t *testing.T) {
	testCases := []struct {
		name               string
		target             string
		identity           auth.Identity
		repo               *mockProducts
		expectedStatusCode int
		expectedQuery      string
		expectedCount      int
	}{
		{
			name:     "Query filters by name",
			target:   "/products?list_category=3&q=Milk",
			identity: auth.Identity{UserID: 7},
			repo: &mockProducts{found: []models.Product{
				{ID: 1, Name: "Milk"}, {ID: 2, Name: "Milka"},
			}},
			expectedStatusCode: http.StatusOK,
			expectedQuery:      "Milk",
			expectedCount:      2,
		},
		{
			name:               "No query lists the whole mapped category",
			target:             "/products?list_category=3",
			identity:           auth.Identity{UserID: 7},
			repo:               &mockProducts{found: []models.Product{{ID: 1, Name: "Milk"}}},
			expectedStatusCode: http.StatusOK,
			expectedCount:      1,
		},
		{
			name:               "Missing list_category",
			target:             "/products?q=Milk",
			identity:           auth.Identity{UserID: 7},
			repo:               &mockProducts{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Authentication required",
			target:             "/products?list_category=3",
			identity:           auth.Identity{},
			repo:               &mockProducts{},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Repository error",
			target:             "/products?list_category=3",
			identity:           auth.Identity{UserID: 7},
			repo:               &mockProducts{err: errors.New("db down")},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewProductHandler(tc.repo, &mockSuggestions{})
			req := newRequest("GET", tc.target, "", tc.identity, nil)
			rec := httptest.NewRecorder()

			handler.HandleSearch(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedQuery, tc.repo.searchedFor)
			if rec.Code == http.StatusOK {
				var resp []ProductResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp, tc.expectedCount)
			}
		})
	}
}

// --- Tests: GET /product-categories/{categoryID}/lists ---

func TestHandleListSuggestions(t *testing.T) {
	suggestions := &mockSuggestions{lists: []models.ShoppingList{
		{ID: 1, Name: "Weekly"}, {ID: 3, Name: "Party"},
	}}
	handler := NewProductHandler(&mockProducts{}, suggestions)
	req := newRequest("GET", "/product-categories/2/lists", "",
		auth.Identity{UserID: 7}, map[string]string{"categoryID": "2"})
	rec := httptest.NewRecorder()

	handler.HandleListSuggestions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Weekly", resp[0].Name)
	assert.Equal(t, uint(3), resp[1].ID)
}

func TestHandleListSuggestionsRequiresAuth(t *testing.T) {
	handler := NewProductHandler(&mockProducts{}, &mockSuggestions{})
	req := newRequest("GET", "/product-categories/2/lists", "",
		auth.Identity{Token: "tok-1"}, map[string]string{"categoryID": "2"})
	rec := httptest.NewRecorder()

	handler.HandleListSuggestions(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
