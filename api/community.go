package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/commstack/portal/model"
)

func (api *API) InitCommunity() {
	api.BaseRoutes.Communities.Handle("", api.ApiSessionRequired(createCommunity)).Methods("POST")
	api.BaseRoutes.Communities.Handle("", api.ApiHandler(getCommunities)).Methods("GET")

	api.BaseRoutes.Community.Handle("", api.ApiHandler(getCommunity)).Methods("GET")
	api.BaseRoutes.CommunityBySlug.Handle("", api.ApiHandler(getCommunityBySlug)).Methods("GET")

	api.BaseRoutes.Community.Handle("", api.ApiSessionRequired(updateCommunity)).Methods("PUT")
	api.BaseRoutes.Community.Handle("", api.ApiSessionRequired(deleteCommunity)).Methods("DELETE")

	// Regenerates the invite id used in invite links of a community
	api.BaseRoutes.Community.Handle("/regenerate_invite_id", api.ApiSessionRequired(regenerateCommunityInviteId)).Methods("POST")

	// Invite new users to an existing community by email.
	api.BaseRoutes.Community.Handle("/invite/email", api.ApiSessionRequired(inviteUsersToCommunity)).Methods("POST")
	// Using either a token from an email invite or a community invite id,
	// add an existing user to a community.
	api.BaseRoutes.Communities.Handle("/members/invite", api.ApiSessionRequired(addCommunityMemberFromInvite)).Methods("POST")

	api.BaseRoutes.CommunityMembers.Handle("", api.ApiSessionRequired(getCommunityMembers)).Methods("GET")
	api.BaseRoutes.CommunityMembers.Handle("", api.ApiSessionRequired(addCommunityMember)).Methods("POST")
	api.BaseRoutes.CommunityMembers.Handle("/ids", api.ApiSessionRequired(getCommunityMembersByIds)).Methods("POST")
	api.BaseRoutes.CommunityMember.Handle("", api.ApiSessionRequired(getCommunityMember)).Methods("GET")

	// A community admin can not be removed directly. With at least one other
	// admin present they first get demoted, then removed.
	api.BaseRoutes.CommunityMember.Handle("/type", api.ApiSessionRequired(updateCommunityMemberType)).Methods("PUT")
	api.BaseRoutes.CommunityMember.Handle("", api.ApiSessionRequired(removeCommunityMember)).Methods("DELETE")
}

func createCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	community := model.CommunityFromJson(r.Body)
	if community == nil {
		c.SetInvalidParam("community")
		return
	}

	community.SanitizeInput()

	if !c.App.SessionHasPermissionTo(c.App.Session, model.PERMISSION_CREATE_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_CREATE_COMMUNITY)
		return
	}

	rcommunity, err := c.App.CreateCommunityWithUser(community, c.App.Session.UserId)
	if err != nil {
		c.Err = err
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(rcommunity.ToJson()))
}

func getCommunities(c *Context, w http.ResponseWriter, r *http.Request) {
	communities, err := c.App.GetCommunities(c.Params.Page, c.Params.PerPage)
	if err != nil {
		c.Err = err
		return
	}

	c.App.SanitizeCommunities(c.App.Session, communities)

	w.Write([]byte(model.CommunityListToJson(communities)))
}

func getCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	community, err := c.App.GetCommunity(c.Params.CommunityId)
	if err != nil {
		c.Err = err
		return
	}

	c.App.SanitizeCommunity(c.App.Session, community)

	w.Write([]byte(community.ToJson()))
}

func getCommunityBySlug(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug()
	if c.Err != nil {
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	c.App.SanitizeCommunity(c.App.Session, community)

	w.Write([]byte(community.ToJson()))
}

func updateCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	community := model.CommunityFromJson(r.Body)
	if community == nil {
		c.SetInvalidParam("community")
		return
	}

	if community.Id != c.Params.CommunityId {
		c.SetInvalidParam("id")
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_MANAGE_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_MANAGE_COMMUNITY)
		return
	}

	updatedCommunity, err := c.App.UpdateCommunity(community)
	if err != nil {
		c.Err = err
		return
	}

	c.App.SanitizeCommunity(c.App.Session, updatedCommunity)

	w.Write([]byte(updatedCommunity.ToJson()))
}

func deleteCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_MANAGE_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_MANAGE_COMMUNITY)
		return
	}

	permanent, _ := strconv.ParseBool(r.URL.Query().Get("permanent"))

	var err *model.AppError
	if permanent {
		err = c.App.PermanentDeleteCommunityId(c.Params.CommunityId)
	} else {
		err = c.App.SoftDeleteCommunity(c.Params.CommunityId)
	}

	if err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func regenerateCommunityInviteId(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_MANAGE_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_MANAGE_COMMUNITY)
		return
	}

	patchedCommunity, err := c.App.RegenerateCommunityInviteId(c.Params.CommunityId)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(patchedCommunity.ToJson()))
}

func inviteUsersToCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_INVITE_USER_TO_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_INVITE_USER_TO_COMMUNITY)
		return
	}

	emailList := model.ArrayFromJson(r.Body)
	for i := range emailList {
		emailList[i] = strings.ToLower(emailList[i])
	}

	if len(emailList) == 0 {
		c.SetInvalidParam("user_email")
		return
	}

	err := c.App.InviteNewUsersToCommunity(emailList, c.Params.CommunityId, c.App.Session.UserId)
	if err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

// addCommunityMemberFromInvite joins the session's user to a community,
// either through a token from an email invite or through the community's
// shared invite id.
func addCommunityMemberFromInvite(c *Context, w http.ResponseWriter, r *http.Request) {
	tokenId := r.URL.Query().Get("token")
	inviteId := r.URL.Query().Get("invite_id")

	var member *model.CommunityMember
	var err *model.AppError

	if len(tokenId) > 0 {
		member, err = c.App.AddCommunityMemberByToken(c.App.Session.UserId, tokenId)
	} else if len(inviteId) > 0 {
		member, err = c.App.AddCommunityMemberByInviteId(inviteId, c.App.Session.UserId)
	} else {
		err = model.NewAppError("addCommunityMemberFromInvite", "api.community.add_user_to_community.missing_parameter.app_error", nil, "", http.StatusBadRequest)
	}

	if err != nil {
		c.Err = err
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(member.ToJson()))
}

func addCommunityMember(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	member := model.CommunityMemberFromJson(r.Body)
	if member == nil {
		c.SetInvalidParam("community_member")
		return
	}

	if member.CommunityId != c.Params.CommunityId {
		c.SetInvalidParam("community_id")
		return
	}

	if len(member.UserId) != 26 {
		c.SetInvalidParam("user_id")
		return
	}

	// adding someone else takes manage rights on the community
	if member.UserId != c.App.Session.UserId {
		if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_MANAGE_COMMUNITY) {
			c.SetPermissionError(model.PERMISSION_MANAGE_COMMUNITY)
			return
		}
	}

	community, err := c.App.GetCommunity(c.Params.CommunityId)
	if err != nil {
		c.Err = err
		return
	}

	user, err := c.App.GetUser(member.UserId)
	if err != nil {
		c.Err = err
		return
	}

	if err := c.App.JoinUserToCommunity(community, user, c.App.Session.UserId); err != nil {
		c.Err = err
		return
	}

	rmember, err := c.App.GetCommunityMember(community.Id, user.Id)
	if err != nil {
		c.Err = err
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(rmember.ToJson()))
}

func getCommunityMember(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId().RequireUserId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_VIEW_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_VIEW_COMMUNITY)
		return
	}

	member, err := c.App.GetCommunityMember(c.Params.CommunityId, c.Params.UserId)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(member.ToJson()))
}

func getCommunityMembers(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_VIEW_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_VIEW_COMMUNITY)
		return
	}

	excludeDeletedUsers := r.URL.Query().Get("exclude_deleted_users")
	excludeDeletedUsersBool, _ := strconv.ParseBool(excludeDeletedUsers)

	options := &model.CommunityMembersGetOptions{
		Sort:                r.URL.Query().Get("sort"),
		ExcludeDeletedUsers: excludeDeletedUsersBool,
		Type:                c.Params.MemberType,
	}

	members, err := c.App.GetCommunityMembers(c.Params.CommunityId, c.Params.Page*c.Params.PerPage, c.Params.PerPage, options)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(model.CommunityMembersToJson(members)))
}

func getCommunityMembersByIds(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	userIds := model.ArrayFromJson(r.Body)

	if len(userIds) == 0 {
		c.SetInvalidParam("user_ids")
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_VIEW_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_VIEW_COMMUNITY)
		return
	}

	members, err := c.App.GetCommunityMembersByIds(c.Params.CommunityId, userIds)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(model.CommunityMembersToJson(members)))
}

func updateCommunityMemberType(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId().RequireUserId()
	if c.Err != nil {
		return
	}

	props := model.MapFromJson(r.Body)

	newType := props["type"]
	if !model.IsValidCommunityMemberType(newType) {
		c.SetInvalidParam("type")
		return
	}

	if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_MANAGE_COMMUNITY) {
		c.SetPermissionError(model.PERMISSION_MANAGE_COMMUNITY)
		return
	}

	if _, err := c.App.UpdateCommunityMemberType(c.Params.CommunityId, c.Params.UserId, newType); err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func removeCommunityMember(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId().RequireUserId()
	if c.Err != nil {
		return
	}

	if c.App.Session.UserId != c.Params.UserId {
		if !c.App.SessionHasPermissionToCommunity(c.App.Session, c.Params.CommunityId, model.PERMISSION_REMOVE_USER_FROM_COMMUNITY) {
			c.SetPermissionError(model.PERMISSION_REMOVE_USER_FROM_COMMUNITY)
			return
		}
	}

	if err := c.App.RemoveUserFromCommunity(c.Params.CommunityId, c.Params.UserId, c.App.Session.UserId); err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}
