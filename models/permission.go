package models

// Permission is the access tier a user holds on a shopping list.
// Tiers are totally ordered: None < Read < Owner.
type Permission int

const (
	// PermissionNone grants no access. A membership row storing None and a
	// missing membership row are equivalent for authorization.
	PermissionNone Permission = iota
	// PermissionRead grants read-only access to the list and its products.
	PermissionRead
	// PermissionOwner grants full read-write access, including renaming,
	// sharing, and deleting the list.
	PermissionOwner
)

// AtLeast reports whether p grants at least the given tier.
func (p Permission) AtLeast(min Permission) bool {
	return p >= min
}

// Valid reports whether p is one of the three known tiers.
func (p Permission) Valid() bool {
	return p >= PermissionNone && p <= PermissionOwner
}

func (p Permission) String() string {
	switch p {
	case PermissionNone:
		return "none"
	case PermissionRead:
		return "read"
	case PermissionOwner:
		return "owner"
	default:
		return "unknown"
	}
}
