package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewMembershipsRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice")
	guest := seedUser(t, db, "Bob")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, owner)

	// No membership row yet: absence is a plain zero-permission result.
	perm, err := repo.GetPermission(ctx, list.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, PermissionNone, perm)

	require.NoError(t, repo.AddMember(ctx, list.ID, guest.ID, PermissionOwner))
	perm, err = repo.GetPermission(ctx, list.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, PermissionOwner, perm)

	require.NoError(t, repo.UpdateMember(ctx, list.ID, guest.ID, PermissionRead))
	perm, err = repo.GetPermission(ctx, list.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, PermissionRead, perm)

	require.NoError(t, repo.RemoveMember(ctx, list.ID, guest.ID))
	perm, err = repo.GetPermission(ctx, list.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, PermissionNone, perm)
}

func TestGetPermissionRequiresIDs(t *testing.T) {
	repo := NewMembershipsRepository(testDB(t))

	_, err := repo.GetPermission(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = repo.GetPermission(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestAddMemberStartsWithZeroCounter(t *testing.T) {
	db := testDB(t)
	repo := NewMembershipsRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice")
	guest := seedUser(t, db, "Bob")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, owner)

	require.NoError(t, repo.AddMember(ctx, list.ID, guest.ID, PermissionRead))

	var m Membership
	require.NoError(t, db.Where("list_id = ? AND user_id = ?", list.ID, guest.ID).First(&m).Error)
	assert.Equal(t, 0, m.Notifications)
}

func TestAddMemberDuplicate(t *testing.T) {
	db := testDB(t)
	repo := NewMembershipsRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice")
	guest := seedUser(t, db, "Bob")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, owner)

	require.NoError(t, repo.AddMember(ctx, list.ID, guest.ID, PermissionRead))

	err := repo.AddMember(ctx, list.ID, guest.ID, PermissionOwner)
	assert.ErrorIs(t, err, ErrDuplicateMembership)

	// The failed insert must not have altered the stored level.
	perm, err := repo.GetPermission(ctx, list.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, PermissionRead, perm)
}

func TestAddMemberRejectsUnknownLevel(t *testing.T) {
	repo := NewMembershipsRepository(testDB(t))

	err := repo.AddMember(context.Background(), 1, 1, Permission(7))
	assert.ErrorIs(t, err, ErrInvalidPermission)
}

func TestRemoveMemberIsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewMembershipsRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, owner)

	// Bob was never a member: removal is a no-op success.
	assert.NoError(t, repo.RemoveMember(ctx, list.ID, 424242))
}

func TestUpdateMemberKeepsNotificationCounter(t *testing.T) {
	db := testDB(t)
	members := NewMembershipsRepository(db)
	notes := NewNotificationsRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice")
	guest := seedUser(t, db, "Bob")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, owner)

	require.NoError(t, members.AddMember(ctx, list.ID, guest.ID, PermissionRead))
	require.NoError(t, notes.Add(ctx, list.ID, owner.ID))

	require.NoError(t, members.UpdateMember(ctx, list.ID, guest.ID, PermissionOwner))

	var m Membership
	require.NoError(t, db.Where("list_id = ? AND user_id = ?", list.ID, guest.ID).First(&m).Error)
	assert.Equal(t, PermissionOwner, m.Permission)
	assert.Equal(t, 1, m.Notifications)
}

func TestListMembersOrderedByFirstName(t *testing.T) {
	db := testDB(t)
	repo := NewMembershipsRepository(db)
	ctx := context.Background()

	carol := seedUser(t, db, "Carol")
	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")
	category := seedListCategory(t, db, "Groceries")
	list := seedList(t, db, "Weekly", category.ID, carol)

	require.NoError(t, repo.AddMember(ctx, list.ID, bob.ID, PermissionRead))
	require.NoError(t, repo.AddMember(ctx, list.ID, alice.ID, PermissionOwner))

	members, err := repo.ListMembers(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, "Alice", members[0].FirstName)
	assert.Equal(t, PermissionOwner, members[0].Permission)
	assert.Equal(t, "Bob", members[1].FirstName)
	assert.Equal(t, PermissionRead, members[1].Permission)
	assert.Equal(t, "Carol", members[2].FirstName)
	assert.Equal(t, PermissionOwner, members[2].Permission)
}
