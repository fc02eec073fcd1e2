package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"shoplist/app/api"
	"shoplist/app/auth"
	"shoplist/models"
)

type ProductProvider interface {
	Create(ctx context.Context, product *models.Product) (uint, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	GetByPrimaryKey(ctx context.Context, id uint) (*models.Product, error)
	GetByListCategory(ctx context.Context, listCategoryID, userID uint) ([]models.Product, error)
	SearchByName(ctx context.Context, query string, listCategoryID, userID uint) ([]models.Product, error)
}

type SuggestionProvider interface {
	GetByProductCategory(ctx context.Context, productCategoryID, userID uint) ([]models.ShoppingList, error)
}

// ProductHandler serves the product catalog endpoints. Products created
// through the API are owned by their creator; owned products are invisible
// to everyone else.
type ProductHandler struct {
	repo     ProductProvider
	lists    SuggestionProvider
	validate *validator.Validate
}

func NewProductHandler(repo ProductProvider, lists SuggestionProvider) *ProductHandler {
	return &ProductHandler{
		repo:     repo,
		lists:    lists,
		validate: validator.New(),
	}
}

type ProductResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Notes             string `json:"notes,omitempty"`
	Logo              string `json:"logo,omitempty"`
	Photo             string `json:"photo,omitempty"`
	ProductCategoryID uint   `json:"product_category_id"`
	Global            bool   `json:"global"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Notes:             p.Notes,
		Logo:              p.Logo,
		Photo:             p.Photo,
		ProductCategoryID: p.ProductCategoryID,
		Global:            p.Global(),
	}
}

type ProductInput struct {
	Name              string `json:"name" validate:"required"`
	Notes             string `json:"notes"`
	Logo              string `json:"logo"`
	Photo             string `json:"photo"`
	ProductCategoryID uint   `json:"product_category_id" validate:"required"`
}

// visibleTo reports whether the product may be seen by the given user.
func visibleTo(p *models.Product, userID uint) bool {
	return p.Global() || (p.OwnerID != nil && *p.OwnerID == userID)
}

// HandleCreate registers a new product owned by the caller.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if !identity.Authenticated() {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing name or product_category_id")
		return
	}

	ownerID := identity.UserID
	product := &models.Product{
		Name:              input.Name,
		Notes:             input.Notes,
		Logo:              input.Logo,
		Photo:             input.Photo,
		ProductCategoryID: input.ProductCategoryID,
		OwnerID:           &ownerID,
	}
	id, err := h.repo.Create(r.Context(), product)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// HandleGet returns a single product if the caller may see it.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	productID, ok := api.URLID(r, "productID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	identity := auth.FromContext(r.Context())

	product, err := h.repo.GetByPrimaryKey(r.Context(), productID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if product == nil || !visibleTo(product, identity.UserID) {
		api.Error(w, http.StatusNotFound, "product not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// HandleUpdate overwrites a product's fields. Only the owner may edit an
// owned product; the global catalog is maintained out of band.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	productID, ok := api.URLID(r, "productID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	identity := auth.FromContext(r.Context())

	product, err := h.repo.GetByPrimaryKey(r.Context(), productID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if product == nil || !visibleTo(product, identity.UserID) {
		api.Error(w, http.StatusNotFound, "product not found")
		return
	}
	if product.Global() || *product.OwnerID != identity.UserID {
		api.Error(w, http.StatusForbidden, "only the owner may edit a product")
		return
	}

	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing name or product_category_id")
		return
	}

	product.Name = input.Name
	product.Notes = input.Notes
	product.Logo = input.Logo
	product.Photo = input.Photo
	product.ProductCategoryID = input.ProductCategoryID
	if err := h.repo.Update(r.Context(), product); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	api.Message(w, http.StatusOK, "product updated")
}

// HandleDelete removes a product and any list associations referring to it.
// Only the owner may delete an owned product.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	productID, ok := api.URLID(r, "productID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	identity := auth.FromContext(r.Context())

	product, err := h.repo.GetByPrimaryKey(r.Context(), productID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if product == nil || !visibleTo(product, identity.UserID) {
		api.Error(w, http.StatusNotFound, "product not found")
		return
	}
	if product.Global() || *product.OwnerID != identity.UserID {
		api.Error(w, http.StatusForbidden, "only the owner may delete a product")
		return
	}

	if err := h.repo.Delete(r.Context(), productID); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	api.Message(w, http.StatusOK, "product deleted")
}

// HandleSearch returns the products relevant to a list category that the
// caller may see, optionally filtered by a case-sensitive name substring.
// Query params: list_category (required), q (optional).
func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if !identity.Authenticated() {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	listCategoryID, err := strconv.ParseUint(r.URL.Query().Get("list_category"), 10, 32)
	if err != nil || listCategoryID == 0 {
		api.Error(w, http.StatusBadRequest, "missing or invalid list_category")
		return
	}

	var products []models.Product
	if query := r.URL.Query().Get("q"); query != "" {
		products, err = h.repo.SearchByName(r.Context(), query, uint(listCategoryID), identity.UserID)
	} else {
		products, err = h.repo.GetByListCategory(r.Context(), uint(listCategoryID), identity.UserID)
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	response := make([]ProductResponse, len(products))
	for i := range products {
		response[i] = toProductResponse(&products[i])
	}
	api.WriteJSON(w, http.StatusOK, response)
}

// HandleListSuggestions returns the caller's owned lists whose category is
// mapped to the given product category, for "add to which list" prompts.
func (h *ProductHandler) HandleListSuggestions(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := api.URLID(r, "categoryID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !identity.Authenticated() {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	lists, err := h.lists.GetByProductCategory(r.Context(), categoryID, identity.UserID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch lists")
		return
	}

	type suggestion struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	response := make([]suggestion, len(lists))
	for i, l := range lists {
		response[i] = suggestion{ID: l.ID, Name: l.Name}
	}
	api.WriteJSON(w, http.StatusOK, response)
}
