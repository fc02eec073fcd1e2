package lists

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"shoplist/app/api"
	"shoplist/app/auth"
	"shoplist/models"
)

type ListProvider interface {
	Create(ctx context.Context, list *models.ShoppingList) (uint, error)
	Update(ctx context.Context, list *models.ShoppingList) error
	Delete(ctx context.Context, id uint) error
	GetIfVisible(ctx context.Context, listID, userID uint) (*models.ShoppingList, error)
	GetByCookie(ctx context.Context, cookie string) (*models.ShoppingList, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.ListOverview, error)
}

type MemberProvider interface {
	GetPermission(ctx context.Context, listID, userID uint) (models.Permission, error)
	AddMember(ctx context.Context, listID, userID uint, level models.Permission) error
	UpdateMember(ctx context.Context, listID, userID uint, level models.Permission) error
	RemoveMember(ctx context.Context, listID, userID uint) error
	ListMembers(ctx context.Context, listID uint) ([]models.Member, error)
}

type AssociationProvider interface {
	Attach(ctx context.Context, listID, productID uint, quantity int, necessary bool) error
	Detach(ctx context.Context, listID, productID uint) error
	Products(ctx context.Context, listID uint) ([]models.ListedProduct, error)
}

type NotificationProvider interface {
	Add(ctx context.Context, listID, excludedUserID uint) error
	Clear(ctx context.Context, listID, userID uint) error
	TotalForUser(ctx context.Context, userID uint) (int, error)
}

// ListHandler serves the shopping-list endpoints. Every mutation consults
// the membership engine first: level 2 is required to change a list, level 1
// to read it, and the holder of an anonymous list's token acts as its owner.
type ListHandler struct {
	lists    ListProvider
	members  MemberProvider
	items    AssociationProvider
	notes    NotificationProvider
	validate *validator.Validate
	log      zerolog.Logger
}

func NewListHandler(log zerolog.Logger, lists ListProvider, members MemberProvider, items AssociationProvider, notes NotificationProvider) *ListHandler {
	return &ListHandler{
		lists:    lists,
		members:  members,
		items:    items,
		notes:    notes,
		validate: validator.New(),
		log:      log,
	}
}

type ListResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Logo           string `json:"logo,omitempty"`
	ListCategoryID uint   `json:"list_category_id"`
	Anonymous      bool   `json:"anonymous"`
}

type OverviewResponse struct {
	ListResponse
	CategoryLogo  string `json:"category_logo,omitempty"`
	Notifications int    `json:"notifications"`
}

type ProductEntry struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Notes     string `json:"notes,omitempty"`
	Logo      string `json:"logo,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Quantity  int    `json:"quantity"`
	Necessary bool   `json:"necessary"`
}

type MemberEntry struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name,omitempty"`
	Permission string `json:"permission"`
}

type DetailResponse struct {
	ListResponse
	Modifiable bool           `json:"modifiable"`
	Products   []ProductEntry `json:"products"`
	Members    []MemberEntry  `json:"members"`
}

func toListResponse(l *models.ShoppingList) ListResponse {
	return ListResponse{
		ID:             l.ID,
		Name:           l.Name,
		Description:    l.Description,
		Logo:           l.Logo,
		ListCategoryID: l.ListCategoryID,
		Anonymous:      l.Anonymous(),
	}
}

type ListInput struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Logo           string `json:"logo"`
	ListCategoryID uint   `json:"list_category_id" validate:"required"`
}

// HandleGetAll returns the caller's lists: all memberships for a registered
// user, the single cookie-anchored list for an anonymous caller.
func (h *ListHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	switch {
	case identity.Authenticated():
		overviews, err := h.lists.GetByUserID(r.Context(), identity.UserID)
		if err != nil {
			api.Error(w, http.StatusInternalServerError, "failed to fetch lists")
			return
		}
		response := make([]OverviewResponse, len(overviews))
		for i, o := range overviews {
			response[i] = OverviewResponse{
				ListResponse:  toListResponse(&o.ShoppingList),
				CategoryLogo:  o.CategoryLogo,
				Notifications: o.Notifications,
			}
		}
		api.WriteJSON(w, http.StatusOK, response)

	case identity.Anonymous():
		list, err := h.lists.GetByCookie(r.Context(), identity.Token)
		if err != nil {
			api.Error(w, http.StatusInternalServerError, "failed to fetch lists")
			return
		}
		response := []OverviewResponse{}
		if list != nil {
			response = append(response, OverviewResponse{ListResponse: toListResponse(list)})
		}
		api.WriteJSON(w, http.StatusOK, response)

	default:
		api.Error(w, http.StatusUnauthorized, "authentication required")
	}
}

// HandleCreate creates a list. A registered caller becomes its owner and is
// auto-enrolled at level 2; a caller without identity gets an anonymous list
// anchored to a freshly minted token, returned both in the body and as a
// cookie.
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ListInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing name or list_category_id")
		return
	}

	identity := auth.FromContext(r.Context())

	if identity.Authenticated() {
		list := models.NewUserList(input.Name, input.Description, input.ListCategoryID, identity.UserID)
		list.Logo = input.Logo
		id, err := h.lists.Create(r.Context(), list)
		if err != nil {
			api.Error(w, http.StatusInternalServerError, "failed to create list")
			return
		}
		api.WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
		return
	}

	token := auth.NewToken()
	list := models.NewAnonymousList(input.Name, input.Description, input.ListCategoryID, token)
	list.Logo = input.Logo
	id, err := h.lists.Create(r.Context(), list)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to create list")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	api.WriteJSON(w, http.StatusCreated, map[string]any{"id": id, "token": token})
}

// HandleGet returns the list with its products and members. Viewing the
// list marks the caller's pending changes as seen.
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())

	var (
		list *models.ShoppingList
		err  error
	)
	switch {
	case identity.Authenticated():
		list, err = h.lists.GetIfVisible(r.Context(), listID, identity.UserID)
	case identity.Anonymous():
		list, err = h.lists.GetByCookie(r.Context(), identity.Token)
		if list != nil && list.ID != listID {
			list = nil
		}
	}
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch list")
		return
	}
	if list == nil {
		api.Error(w, http.StatusForbidden, "list not visible")
		return
	}

	modifiable := true
	if identity.Authenticated() {
		perm, err := h.members.GetPermission(r.Context(), listID, identity.UserID)
		if err != nil {
			api.Error(w, http.StatusInternalServerError, "failed to fetch permission")
			return
		}
		modifiable = perm == models.PermissionOwner
	}

	products, err := h.items.Products(r.Context(), listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	members, err := h.members.ListMembers(r.Context(), listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch members")
		return
	}

	if identity.Authenticated() {
		if err := h.notes.Clear(r.Context(), listID, identity.UserID); err != nil {
			h.log.Error().Err(err).Uint("list_id", listID).Msg("failed to clear notifications")
		}
	}

	response := DetailResponse{
		ListResponse: toListResponse(list),
		Modifiable:   modifiable,
		Products:     make([]ProductEntry, len(products)),
		Members:      make([]MemberEntry, len(members)),
	}
	for i, p := range products {
		response.Products[i] = ProductEntry{
			ID:        p.ID,
			Name:      p.Name,
			Notes:     p.Notes,
			Logo:      p.Logo,
			Photo:     p.Photo,
			Quantity:  p.Quantity,
			Necessary: p.Necessary,
		}
	}
	for i, m := range members {
		response.Members[i] = MemberEntry{
			ID:         m.ID,
			FirstName:  m.FirstName,
			LastName:   m.LastName,
			Permission: m.Permission.String(),
		}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

// HandleUpdate renames or re-categorizes a list. Requires level 2.
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	var input ListInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing name or list_category_id")
		return
	}

	list := &models.ShoppingList{
		ID:             listID,
		Name:           input.Name,
		Description:    input.Description,
		Logo:           input.Logo,
		ListCategoryID: input.ListCategoryID,
	}
	if err := h.lists.Update(r.Context(), list); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to update list")
		return
	}

	h.notifyOthers(r.Context(), identity, listID)
	api.Message(w, http.StatusOK, "list updated")
}

// HandleDelete deletes the list, cascading memberships and product
// associations. Requires level 2.
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	if err := h.lists.Delete(r.Context(), listID); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	api.Message(w, http.StatusOK, "list deleted")
}

// HandleGetProducts returns the list's products with quantity and necessity.
func (h *ListHandler) HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())
	perm, err := h.permissionFor(r.Context(), identity, listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch permission")
		return
	}
	if !perm.AtLeast(models.PermissionRead) {
		api.Error(w, http.StatusForbidden, "no permission on this list")
		return
	}

	products, err := h.items.Products(r.Context(), listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	response := make([]ProductEntry, len(products))
	for i, p := range products {
		response[i] = ProductEntry{
			ID:        p.ID,
			Name:      p.Name,
			Notes:     p.Notes,
			Logo:      p.Logo,
			Photo:     p.Photo,
			Quantity:  p.Quantity,
			Necessary: p.Necessary,
		}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

type AttachInput struct {
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
	Necessary bool `json:"necessary"`
}

// HandleAttachProduct attaches a product to the list, merging quantity and
// necessity into the existing association when the product is already on it.
// Requires level 2.
func (h *ListHandler) HandleAttachProduct(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	productID, ok := api.URLID(r, "productID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	var input AttachInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	err := h.items.Attach(r.Context(), listID, productID, input.Quantity, input.Necessary)
	switch {
	case errors.Is(err, models.ErrInvalidQuantity), errors.Is(err, models.ErrMissingID):
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		api.Error(w, http.StatusInternalServerError, "failed to attach product")
		return
	}

	h.notifyOthers(r.Context(), identity, listID)
	api.Message(w, http.StatusOK, "product attached")
}

// HandleDetachProduct removes a product from the list. Requires level 2.
func (h *ListHandler) HandleDetachProduct(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	productID, ok := api.URLID(r, "productID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	if err := h.items.Detach(r.Context(), listID, productID); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to detach product")
		return
	}

	h.notifyOthers(r.Context(), identity, listID)
	api.Message(w, http.StatusOK, "product detached")
}

// HandleGetMembers returns the list's members for display.
func (h *ListHandler) HandleGetMembers(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())
	perm, err := h.permissionFor(r.Context(), identity, listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch permission")
		return
	}
	if !perm.AtLeast(models.PermissionRead) {
		api.Error(w, http.StatusForbidden, "no permission on this list")
		return
	}

	members, err := h.members.ListMembers(r.Context(), listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch members")
		return
	}
	response := make([]MemberEntry, len(members))
	for i, m := range members {
		response[i] = MemberEntry{
			ID:         m.ID,
			FirstName:  m.FirstName,
			LastName:   m.LastName,
			Permission: m.Permission.String(),
		}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

type MemberInput struct {
	UserID     uint `json:"user_id" validate:"required"`
	Permission int  `json:"permission" validate:"gte=0,lte=2"`
}

// HandleAddMember shares the list with another user. Requires level 2.
func (h *ListHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	var input MemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "missing user_id or invalid permission")
		return
	}

	err := h.members.AddMember(r.Context(), listID, input.UserID, models.Permission(input.Permission))
	switch {
	case errors.Is(err, models.ErrDuplicateMembership):
		api.Error(w, http.StatusConflict, "user is already a member")
		return
	case err != nil:
		api.Error(w, http.StatusInternalServerError, "failed to add member")
		return
	}
	api.Message(w, http.StatusCreated, "member added")
}

type MemberUpdateInput struct {
	Permission int `json:"permission" validate:"gte=0,lte=2"`
}

// HandleUpdateMember changes a member's permission level. Requires level 2.
func (h *ListHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	userID, ok := api.URLID(r, "userID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	var input MemberUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid permission")
		return
	}

	if err := h.members.UpdateMember(r.Context(), listID, userID, models.Permission(input.Permission)); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to update member")
		return
	}
	api.Message(w, http.StatusOK, "member updated")
}

// HandleRemoveMember unshares the list with a user. Requires level 2.
func (h *ListHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	listID, ok := api.URLID(r, "listID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid list id")
		return
	}
	userID, ok := api.URLID(r, "userID")
	if !ok {
		api.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	identity := auth.FromContext(r.Context())
	if !h.requireOwner(w, r, identity, listID) {
		return
	}

	if err := h.members.RemoveMember(r.Context(), listID, userID); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to remove member")
		return
	}
	api.Message(w, http.StatusOK, "member removed")
}

// HandleNotifications returns the caller's total count of unseen changes
// across all memberships.
func (h *ListHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if !identity.Authenticated() {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	total, err := h.notes.TotalForUser(r.Context(), identity.UserID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"total": total})
}

// permissionFor resolves the caller's rights on a list: the stored
// membership level for registered users, owner-equivalent rights for the
// holder of an anonymous list's cookie token.
func (h *ListHandler) permissionFor(ctx context.Context, identity auth.Identity, listID uint) (models.Permission, error) {
	if identity.Authenticated() {
		return h.members.GetPermission(ctx, listID, identity.UserID)
	}
	if identity.Token != "" {
		list, err := h.lists.GetByCookie(ctx, identity.Token)
		if err != nil {
			return models.PermissionNone, err
		}
		if list != nil && list.ID == listID {
			return models.PermissionOwner, nil
		}
	}
	return models.PermissionNone, nil
}

// requireOwner writes the error response and returns false unless the caller
// holds level 2 on the list.
func (h *ListHandler) requireOwner(w http.ResponseWriter, r *http.Request, identity auth.Identity, listID uint) bool {
	perm, err := h.permissionFor(r.Context(), identity, listID)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to fetch permission")
		return false
	}
	if perm != models.PermissionOwner {
		api.Error(w, http.StatusForbidden, "owner permission required")
		return false
	}
	return true
}

// notifyOthers bumps the unseen-change counter of every other member after
// a successful mutation. Anonymous lists have no members, so there is nobody
// to notify.
func (h *ListHandler) notifyOthers(ctx context.Context, identity auth.Identity, listID uint) {
	if !identity.Authenticated() {
		return
	}
	if err := h.notes.Add(ctx, listID, identity.UserID); err != nil {
		h.log.Error().Err(err).Uint("list_id", listID).Msg("failed to add notifications")
	}
}
