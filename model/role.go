package model

type Role struct {
	Id          string
	Permissions []string
}

// system roles, keyed by user type
var ROLE_NORMAL *Role
var ROLE_MODERATOR *Role
var ROLE_ADMIN *Role

// community roles, keyed by community member type
var ROLE_COMMUNITY_MEMBER_TYPE_NORMAL *Role
var ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR *Role
var ROLE_COMMUNITY_MEMBER_TYPE_MANAGER *Role
var ROLE_COMMUNITY_MEMBER_TYPE_ADMIN *Role

func initializeRoles() {
	ROLE_NORMAL = &Role{
		"normal",
		[]string{
			PERMISSION_CREATE_COMMUNITY.Id,
			PERMISSION_VIEW_COMMUNITY.Id,
		},
	}

	ROLE_MODERATOR = &Role{
		"moderator",
		[]string{
			PERMISSION_CREATE_COMMUNITY.Id,
			PERMISSION_VIEW_COMMUNITY.Id,
			PERMISSION_EDIT_OTHER_USERS.Id,
		},
	}

	ROLE_ADMIN = &Role{
		"admin",
		append([]string{}, allPermissionIds()...),
	}

	ROLE_COMMUNITY_MEMBER_TYPE_NORMAL = &Role{
		"community_normal",
		[]string{
			PERMISSION_VIEW_COMMUNITY.Id,
		},
	}

	ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR = &Role{
		"community_contributor",
		[]string{
			PERMISSION_VIEW_COMMUNITY.Id,
			PERMISSION_ADD_COMMUNITY_NEWS.Id,
			PERMISSION_CHANGE_COMMUNITY_NEWS.Id,
			PERMISSION_ADD_COMMUNITY_RESOURCE.Id,
			PERMISSION_CHANGE_COMMUNITY_RESOURCE.Id,
		},
	}

	ROLE_COMMUNITY_MEMBER_TYPE_MANAGER = &Role{
		"community_manager",
		[]string{
			PERMISSION_VIEW_COMMUNITY.Id,
			PERMISSION_ADD_COMMUNITY_NEWS.Id,
			PERMISSION_CHANGE_COMMUNITY_NEWS.Id,
			PERMISSION_DELETE_COMMUNITY_NEWS.Id,
			PERMISSION_ADD_COMMUNITY_RESOURCE.Id,
			PERMISSION_CHANGE_COMMUNITY_RESOURCE.Id,
			PERMISSION_DELETE_COMMUNITY_RESOURCE.Id,
		},
	}

	ROLE_COMMUNITY_MEMBER_TYPE_ADMIN = &Role{
		"community_admin",
		[]string{
			PERMISSION_VIEW_COMMUNITY.Id,
			PERMISSION_ADD_COMMUNITY_NEWS.Id,
			PERMISSION_CHANGE_COMMUNITY_NEWS.Id,
			PERMISSION_DELETE_COMMUNITY_NEWS.Id,
			PERMISSION_ADD_COMMUNITY_RESOURCE.Id,
			PERMISSION_CHANGE_COMMUNITY_RESOURCE.Id,
			PERMISSION_DELETE_COMMUNITY_RESOURCE.Id,
			PERMISSION_MANAGE_COMMUNITY.Id,
			PERMISSION_INVITE_USER_TO_COMMUNITY.Id,
			PERMISSION_REMOVE_USER_FROM_COMMUNITY.Id,
		},
	}
}

func allPermissionIds() []string {
	ids := make([]string, 0, len(ALL_PERMISSIONS))
	for _, permission := range ALL_PERMISSIONS {
		ids = append(ids, permission.Id)
	}
	return ids
}

func init() {
	initializeRoles()
}
