package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"shoplist/app/api"
	"shoplist/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]models.ListCategory, error)
	ProductCategories(ctx context.Context) ([]models.ProductCategory, error)
	AddMapping(ctx context.Context, productCategoryID, listCategoryID uint) error
}

type CategoryHandler struct {
	repo     CategoryProvider
	validate *validator.Validate
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r, validate: validator.New()}
}

func (h *CategoryHandler) HandleGetListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{ID: c.ID, Name: c.Name, Logo: c.Logo}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGetProductCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ProductCategories(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{ID: c.ID, Name: c.Name, Logo: c.Logo}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

type MappingInput struct {
	ProductCategoryID uint `json:"product_category_id" validate:"required"`
	ListCategoryID    uint `json:"list_category_id" validate:"required"`
}

// HandleCreateMapping declares products of a category relevant to lists of
// a category.
func (h *CategoryHandler) HandleCreateMapping(w http.ResponseWriter, r *http.Request) {
	var input MappingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing product_category_id or list_category_id")
		return
	}

	err := h.repo.AddMapping(r.Context(), input.ProductCategoryID, input.ListCategoryID)
	switch {
	case errors.Is(err, models.ErrDuplicateMapping):
		api.Error(w, http.StatusConflict, "mapping already exists")
		return
	case err != nil:
		api.Error(w, http.StatusInternalServerError, "failed to create mapping")
		return
	}
	api.Message(w, http.StatusCreated, "mapping created")
}
