package models

import "errors"

// ErrMissingID is returned when an operation is called without a required
// identifier. It is raised before any storage access.
var ErrMissingID = errors.New("missing identifier")

// ErrInvalidAnchor is returned when a shopping list does not carry exactly
// one ownership anchor (owner id for registered lists, cookie token for
// anonymous ones).
var ErrInvalidAnchor = errors.New("list must have exactly one of owner or cookie")

// ErrInvalidPermission is returned when a permission level outside the known
// tiers is supplied.
var ErrInvalidPermission = errors.New("invalid permission level")

// ErrInvalidQuantity is returned when a product is attached with a quantity
// below one.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrDuplicateMembership is returned when a user is already linked to the
// list. Callers can react to it separately from generic storage failures.
var ErrDuplicateMembership = errors.New("user is already a member of the list")

// ErrDuplicateMapping is returned when a product-category to list-category
// mapping already exists.
var ErrDuplicateMapping = errors.New("category mapping already exists")
