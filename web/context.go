package web

import (
	"net/http"
	"strings"

	"github.com/commstack/portal/app"
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/utils"
)

type Context struct {
	App           *app.App
	Log           *mlog.Logger
	Params        *Params
	Err           *model.AppError
	siteURLHeader string
}

func (c *Context) SetInvalidParam(parameter string) {
	c.Err = NewInvalidParamError(parameter)
}

func NewInvalidParamError(parameter string) *model.AppError {
	err := model.NewAppError("Context", "api.context.invalid_body_param.app_error", map[string]interface{}{"Name": parameter}, "", http.StatusBadRequest)
	return err
}

func (c *Context) SetInvalidUrlParam(parameter string) {
	c.Err = NewInvalidUrlParamError(parameter)
}

func NewInvalidUrlParamError(parameter string) *model.AppError {
	err := model.NewAppError("Context", "api.context.invalid_url_param.app_error", map[string]interface{}{"Name": parameter}, "", http.StatusBadRequest)
	return err
}

func (c *Context) RemoveSessionCookie(w http.ResponseWriter, r *http.Request) {
	subpath, _ := utils.GetSubpathFromConfig(c.App.Config())

	cookie := &http.Cookie{
		Name:     model.SESSION_COOKIE_TOKEN,
		Value:    "",
		Path:     subpath,
		MaxAge:   -1,
		HttpOnly: true,
	}

	http.SetCookie(w, cookie)
}

func (c *Context) SetPermissionError(permission *model.Permission) {
	c.Err = c.App.MakePermissionError(permission)
}

func (c *Context) SetSiteURLHeader(url string) {
	c.siteURLHeader = strings.TrimRight(url, "/")
}

func (c *Context) SessionRequired() {
	if len(c.App.Session.UserId) == 0 {
		c.Err = model.NewAppError("", "api.context.session_expired.app_error", nil, "UserRequired", http.StatusUnauthorized)
		return
	}
}

func (c *Context) RequireUserId() *Context {
	if c.Err != nil {
		return c
	}

	if c.Params.UserId == model.ME {
		c.Params.UserId = c.App.Session.UserId
	}

	if len(c.Params.UserId) != 26 {
		c.SetInvalidUrlParam("user_id")
	}

	return c
}

func (c *Context) RequireCommunityId() *Context {
	if c.Err != nil {
		return c
	}

	if len(c.Params.CommunityId) != 26 {
		c.SetInvalidUrlParam("community_id")
	}

	return c
}

func (c *Context) RequireCommunitySlug() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidSlug(c.Params.CommunitySlug, model.COMMUNITY_SLUG_MAX_LENGTH) {
		c.SetInvalidUrlParam("community_slug")
	}

	return c
}

func (c *Context) RequirePostType() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidPostType(c.Params.PostType) {
		c.SetInvalidUrlParam("post_type")
	}

	return c
}

func (c *Context) RequirePostSlug() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidSlug(c.Params.PostSlug, model.POST_SLUG_MAX_LENGTH) {
		c.SetInvalidUrlParam("post_slug")
	}

	return c
}

func (c *Context) RequireInviteId() *Context {
	if c.Err != nil {
		return c
	}

	if len(c.Params.InviteId) == 0 {
		c.SetInvalidUrlParam("invite_id")
	}

	return c
}

func (c *Context) RequireMemberType() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidCommunityMemberType(c.Params.MemberType) {
		c.SetInvalidUrlParam("member_type")
	}

	return c
}

func (c *Context) RequireUserType() *Context {
	if c.Err != nil {
		return c
	}

	if len(c.Params.UserType) == 0 {
		c.SetInvalidUrlParam("user_type")
	}

	return c
}
