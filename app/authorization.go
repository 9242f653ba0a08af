package app

import (
	"net/http"

	"github.com/commstack/portal/model"
)

func (a *App) MakePermissionError(permission *model.Permission) *model.AppError {
	return model.NewAppError("Permissions", "api.context.permissions.app_error", nil, "userId="+a.Session.UserId+", "+"permission="+permission.Id, http.StatusForbidden)
}

func (a *App) SessionHasPermissionTo(session model.Session, permission *model.Permission) bool {
	if session.UserId == "" {
		return false
	}

	user, err := a.GetUser(session.UserId)
	if err != nil || user == nil {
		return false
	}

	var permissions []string
	switch user.Type {
	case model.USER_TYPE_NORMAL:
		permissions = model.ROLE_NORMAL.Permissions
	case model.USER_TYPE_MODERATOR:
		permissions = model.ROLE_MODERATOR.Permissions
	case model.USER_TYPE_ADMIN:
		permissions = model.ROLE_ADMIN.Permissions
	default:
		return false
	}

	for _, allowedPermission := range permissions {
		if allowedPermission == permission.Id {
			return true
		}
	}

	return false
}

func (a *App) SessionHasPermissionToUser(session model.Session, userId string) bool {
	if userId == "" {
		return false
	}

	if session.UserId == userId {
		return true
	}

	if a.SessionHasPermissionTo(session, model.PERMISSION_EDIT_OTHER_USERS) {
		return true
	}

	return false
}

// Community permissions are granted through the member's type within
// that community. Admins pass every check regardless of membership.
func (a *App) SessionHasPermissionToCommunity(session model.Session, communityId string, permission *model.Permission) bool {
	if communityId == "" {
		return false
	}

	if a.SessionIsAdmin(session) {
		return true
	}

	communityMember := session.GetCommunityByCommunityId(communityId)
	if communityMember != nil {
		if a.CommunityMemberHasPermissionTo(communityMember.Type, permission) {
			return true
		}
	}

	return false
}

func (a *App) SessionIsAdmin(session model.Session) bool {
	if session.UserId == "" {
		return false
	}

	user, err := a.GetUser(session.UserId)
	if err != nil || user == nil {
		return false
	}

	return user.IsSystemAdmin()
}

func (a *App) CommunityMemberHasPermissionTo(memberType string, permission *model.Permission) bool {
	var permissions []string
	switch memberType {
	case model.COMMUNITY_MEMBER_TYPE_NORMAL:
		permissions = model.ROLE_COMMUNITY_MEMBER_TYPE_NORMAL.Permissions
	case model.COMMUNITY_MEMBER_TYPE_CONTRIBUTOR:
		permissions = model.ROLE_COMMUNITY_MEMBER_TYPE_CONTRIBUTOR.Permissions
	case model.COMMUNITY_MEMBER_TYPE_MANAGER:
		permissions = model.ROLE_COMMUNITY_MEMBER_TYPE_MANAGER.Permissions
	case model.COMMUNITY_MEMBER_TYPE_ADMIN:
		permissions = model.ROLE_COMMUNITY_MEMBER_TYPE_ADMIN.Permissions
	default:
		return false
	}

	for _, allowedPermission := range permissions {
		if allowedPermission == permission.Id {
			return true
		}
	}

	return false
}

// PostPermission maps a post type and action onto the matching community
// permission.
func PostPermission(postType string, action string) *model.Permission {
	switch postType {
	case model.POST_TYPE_NEWS:
		switch action {
		case "add":
			return model.PERMISSION_ADD_COMMUNITY_NEWS
		case "change":
			return model.PERMISSION_CHANGE_COMMUNITY_NEWS
		case "delete":
			return model.PERMISSION_DELETE_COMMUNITY_NEWS
		}
	case model.POST_TYPE_RESOURCE:
		switch action {
		case "add":
			return model.PERMISSION_ADD_COMMUNITY_RESOURCE
		case "change":
			return model.PERMISSION_CHANGE_COMMUNITY_RESOURCE
		case "delete":
			return model.PERMISSION_DELETE_COMMUNITY_RESOURCE
		}
	}

	return nil
}
