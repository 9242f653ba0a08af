package model

type Permission struct {
	Id string
}

var PERMISSION_ADD_COMMUNITY_NEWS *Permission
var PERMISSION_CHANGE_COMMUNITY_NEWS *Permission
var PERMISSION_DELETE_COMMUNITY_NEWS *Permission
var PERMISSION_ADD_COMMUNITY_RESOURCE *Permission
var PERMISSION_CHANGE_COMMUNITY_RESOURCE *Permission
var PERMISSION_DELETE_COMMUNITY_RESOURCE *Permission
var PERMISSION_CREATE_COMMUNITY *Permission
var PERMISSION_MANAGE_COMMUNITY *Permission
var PERMISSION_VIEW_COMMUNITY *Permission
var PERMISSION_INVITE_USER_TO_COMMUNITY *Permission
var PERMISSION_REMOVE_USER_FROM_COMMUNITY *Permission
var PERMISSION_EDIT_OTHER_USERS *Permission

var ALL_PERMISSIONS []*Permission

func initializePermissions() {
	PERMISSION_ADD_COMMUNITY_NEWS = &Permission{
		"add_community_news",
	}

	PERMISSION_CHANGE_COMMUNITY_NEWS = &Permission{
		"change_community_news",
	}

	PERMISSION_DELETE_COMMUNITY_NEWS = &Permission{
		"delete_community_news",
	}

	PERMISSION_ADD_COMMUNITY_RESOURCE = &Permission{
		"add_community_resource",
	}

	PERMISSION_CHANGE_COMMUNITY_RESOURCE = &Permission{
		"change_community_resource",
	}

	PERMISSION_DELETE_COMMUNITY_RESOURCE = &Permission{
		"delete_community_resource",
	}

	PERMISSION_CREATE_COMMUNITY = &Permission{
		"create_community",
	}

	PERMISSION_MANAGE_COMMUNITY = &Permission{
		"manage_community",
	}

	PERMISSION_VIEW_COMMUNITY = &Permission{
		"view_community",
	}

	PERMISSION_INVITE_USER_TO_COMMUNITY = &Permission{
		"invite_user_to_community",
	}

	PERMISSION_REMOVE_USER_FROM_COMMUNITY = &Permission{
		"remove_user_from_community",
	}

	PERMISSION_EDIT_OTHER_USERS = &Permission{
		"edit_other_users",
	}

	ALL_PERMISSIONS = []*Permission{
		PERMISSION_ADD_COMMUNITY_NEWS,
		PERMISSION_CHANGE_COMMUNITY_NEWS,
		PERMISSION_DELETE_COMMUNITY_NEWS,
		PERMISSION_ADD_COMMUNITY_RESOURCE,
		PERMISSION_CHANGE_COMMUNITY_RESOURCE,
		PERMISSION_DELETE_COMMUNITY_RESOURCE,
		PERMISSION_CREATE_COMMUNITY,
		PERMISSION_MANAGE_COMMUNITY,
		PERMISSION_VIEW_COMMUNITY,
		PERMISSION_INVITE_USER_TO_COMMUNITY,
		PERMISSION_REMOVE_USER_FROM_COMMUNITY,
		PERMISSION_EDIT_OTHER_USERS,
	}
}

func init() {
	initializePermissions()
}
