package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRoles(t *testing.T) {
	assert.Equal(t, []string{
		PERMISSION_CREATE_COMMUNITY.Id,
		PERMISSION_VIEW_COMMUNITY.Id,
	}, ROLE_NORMAL.Permissions)

	assert.Contains(t, ROLE_MODERATOR.Permissions, PERMISSION_EDIT_OTHER_USERS.Id)
	assert.NotContains(t, ROLE_NORMAL.Permissions, PERMISSION_EDIT_OTHER_USERS.Id)

	// admins hold every permission there is
	require.Len(t, ROLE_ADMIN.Permissions, len(ALL_PERMISSIONS))
	for _, permission := range ALL_PERMISSIONS {
		assert.Contains(t, ROLE_ADMIN.Permissions, permission.Id)
	}
}

func TestCommunityRoles(t *testing.T) {
	assert.Equal(t, []string{PERMISSION_VIEW_COMMUNITY.Id}, ROLE_COMMUNITY_MEMBER_TYPE_NORMAL.Permissions)

	// contributors write but never delete
	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR.Permissions, PERMISSION_ADD_COMMUNITY_NEWS.Id)
	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR.Permissions, PERMISSION_CHANGE_COMMUNITY_RESOURCE.Id)
	assert.NotContains(t, ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR.Permissions, PERMISSION_DELETE_COMMUNITY_NEWS.Id)
	assert.NotContains(t, ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR.Permissions, PERMISSION_DELETE_COMMUNITY_RESOURCE.Id)

	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_MANAGER.Permissions, PERMISSION_DELETE_COMMUNITY_NEWS.Id)
	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_MANAGER.Permissions, PERMISSION_DELETE_COMMUNITY_RESOURCE.Id)
	assert.NotContains(t, ROLE_COMMUNITY_MEMBER_TYPE_MANAGER.Permissions, PERMISSION_MANAGE_COMMUNITY.Id)

	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_ADMIN.Permissions, PERMISSION_MANAGE_COMMUNITY.Id)
	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_ADMIN.Permissions, PERMISSION_INVITE_USER_TO_COMMUNITY.Id)
	assert.Contains(t, ROLE_COMMUNITY_MEMBER_TYPE_ADMIN.Permissions, PERMISSION_REMOVE_USER_FROM_COMMUNITY.Id)
}
