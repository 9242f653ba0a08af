package api

import (
	"net/http"
	"strings"

	"github.com/commstack/portal/audit"
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
)

func (api *API) InitUser() {
	api.BaseRoutes.Users.Handle("", api.ApiHandler(createUser)).Methods("POST")
	api.BaseRoutes.Users.Handle("/email/verify", api.ApiHandler(verifyUserEmail)).Methods("POST")
	api.BaseRoutes.Users.Handle("/email/verify/send", api.ApiHandler(sendVerificationEmail)).Methods("POST")
	api.BaseRoutes.Users.Handle("/login", api.ApiHandler(login)).Methods("POST")
	api.BaseRoutes.Users.Handle("/logout", api.ApiHandler(logout)).Methods("POST")
	api.BaseRoutes.Users.Handle("", api.ApiHandler(getUsers)).Methods("GET")
	api.BaseRoutes.Users.Handle("/ids", api.ApiHandler(getUsersByIds)).Methods("POST")

	api.BaseRoutes.User.Handle("", api.ApiHandler(getUser)).Methods("GET")
	api.BaseRoutes.User.Handle("", api.ApiSessionRequired(updateUser)).Methods("PUT")
	api.BaseRoutes.User.Handle("", api.ApiSessionRequired(deleteUser)).Methods("DELETE")

	api.BaseRoutes.User.Handle("/audits", api.ApiSessionRequired(getAudits)).Methods("GET")
	api.BaseRoutes.User.Handle("/type", api.ApiSessionRequired(updateUserType)).Methods("PUT")
	api.BaseRoutes.User.Handle("/password", api.ApiSessionRequired(updatePassword)).Methods("PUT")

	api.BaseRoutes.Users.Handle("/password/reset", api.ApiHandler(resetPassword)).Methods("POST")
	api.BaseRoutes.Users.Handle("/password/reset/send", api.ApiHandler(sendPasswordReset)).Methods("POST")

	api.BaseRoutes.CommunitiesForUser.Handle("", api.ApiSessionRequired(getCommunitiesForUser)).Methods("GET")
	api.BaseRoutes.CommunitiesForUser.Handle("/members", api.ApiSessionRequired(getCommunityMembersForUser)).Methods("GET")
}

func createUser(c *Context, w http.ResponseWriter, r *http.Request) {
	user := model.UserFromJson(r.Body)
	if user == nil {
		c.SetInvalidParam("user")
		return
	}

	user.SanitizeInput()

	auditRec := c.App.MakeAuditRecord("createUser", audit.Fail)
	defer c.App.LogAuditRec(auditRec)

	// signing up through an email invite link
	tokenId := r.URL.Query().Get("t")
	// signing up through a shared community invite link
	inviteId := r.URL.Query().Get("iid")

	var ruser *model.User
	var err *model.AppError

	if len(tokenId) > 0 {
		var token *model.Token
		token, err = c.App.Srv.Store.Token().GetByToken(tokenId)
		if err != nil {
			c.Err = model.NewAppError("createUser", "api.user.create_user.signup_link_invalid.app_error", nil, err.Error(), http.StatusBadRequest)
			return
		}

		ruser, err = c.App.CreateUserWithToken(user, token)
	} else if len(inviteId) > 0 {
		ruser, err = c.App.CreateUserWithInviteId(user, inviteId)
	} else {
		ruser, err = c.App.CreateUserFromSignup(user)
	}

	if err != nil {
		c.Err = err
		return
	}

	auditRec.UserID = ruser.Id
	auditRec.Success()

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(ruser.ToJson()))
}

func verifyUserEmail(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	token := props["token"]
	if len(token) != model.TOKEN_SIZE {
		c.SetInvalidParam("token")
		return
	}

	if err := c.App.VerifyEmailFromToken(token); err != nil {
		c.Err = model.NewAppError("verifyUserEmail", "api.user.verify_email.bad_link.app_error", nil, err.Error(), http.StatusBadRequest)
		return
	}

	ReturnStatusOK(w)
}

func sendVerificationEmail(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	email := props["email"]
	if len(email) == 0 {
		c.SetInvalidParam("email")
		return
	}

	user, err := c.App.GetUserForLogin(email)
	if err != nil {
		// don't leak whether the address has an account
		ReturnStatusOK(w)
		return
	}

	if err = c.App.SendEmailVerification(user, user.Email); err != nil {
		mlog.Error(err.Error())
		ReturnStatusOK(w)
		return
	}

	ReturnStatusOK(w)
}

func login(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	loginId := props["login_id"]
	password := props["password"]

	auditRec := c.App.MakeAuditRecord("login", audit.Fail)
	defer c.App.LogAuditRec(auditRec)
	auditRec.AddMeta("login_id", loginId)

	user, err := c.App.AuthenticateUserForLogin(loginId, password)
	if err != nil {
		c.Err = err
		return
	}

	err = c.App.DoLogin(w, r, user)
	if err != nil {
		c.Err = err
		return
	}

	auditRec.UserID = user.Id
	auditRec.Success()

	if r.Header.Get(model.HEADER_REQUESTED_WITH) == model.HEADER_REQUESTED_WITH_XML {
		c.App.AttachSessionCookies(w, r)
	}

	user.Sanitize(map[string]bool{})

	w.Write([]byte(user.ToJson()))
}

func logout(c *Context, w http.ResponseWriter, r *http.Request) {
	auditRec := c.App.MakeAuditRecord("logout", audit.Fail)
	defer c.App.LogAuditRec(auditRec)

	c.RemoveSessionCookie(w, r)
	if c.App.Session.Id != "" {
		if err := c.App.RevokeSessionById(c.App.Session.Id); err != nil {
			c.Err = err
			return
		}
	}

	auditRec.Success()
	ReturnStatusOK(w)
}

func getUser(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	user, err := c.App.GetUser(c.Params.UserId)
	if err != nil {
		c.Err = err
		return
	}

	if user == nil {
		c.SetInvalidUrlParam("user_id")
		return
	}

	options := map[string]bool{}
	options["email"] = c.App.Session.UserId == user.Id
	user.SanitizeProfile(options)

	w.Write([]byte(user.ToJson()))
}

func getUsers(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.Params.FromDate != 0 && c.Params.ToDate != 0 && c.Params.FromDate > c.Params.ToDate {
		c.SetInvalidUrlParam("from_to_dates")
		return
	}

	options := &model.GetUsersOptions{FromDate: c.Params.FromDate, ToDate: c.Params.ToDate}
	options.Page = c.Params.Page
	options.PerPage = c.Params.PerPage
	options.Username = c.Params.UserName

	users, err := c.App.GetUsersByDates(options)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(model.UserListToJson(users)))
}

func getUsersByIds(c *Context, w http.ResponseWriter, r *http.Request) {
	userIds := model.ArrayFromJson(r.Body)

	if len(userIds) == 0 {
		c.SetInvalidParam("user_ids")
		return
	}

	users, err := c.App.GetUsers(userIds)
	if err != nil {
		c.Err = err
		return
	}

	options := map[string]bool{}
	options["email"] = false
	for _, user := range users {
		user.SanitizeProfile(options)
	}

	w.Write([]byte(model.UserListToJson(users)))
}

func updateUser(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	user := model.UserFromJson(r.Body)
	if user == nil {
		c.SetInvalidParam("user")
		return
	}

	if user.Id != c.Params.UserId {
		c.SetInvalidParam("user_id")
		return
	}

	if !c.App.SessionHasPermissionToUser(c.App.Session, user.Id) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	oldUser, err := c.App.GetUser(user.Id)
	if err != nil {
		c.Err = err
		return
	}

	// an email change by the account owner requires the current password
	if user.Email != "" && oldUser.Email != user.Email && c.App.Session.UserId == c.Params.UserId {
		err = c.App.DoubleCheckPassword(oldUser, user.Password)
		if err != nil {
			c.SetInvalidParam("password")
			return
		}
	}

	ruser, err := c.App.UpdateUser(user)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(ruser.ToJson()))
}

func getAudits(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToUser(c.App.Session, c.Params.UserId) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	audits, err := c.App.GetAuditsPage(c.Params.UserId, c.Params.Page, c.Params.PerPage)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(audits.ToJson()))
}

func updateUserType(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId().RequireUserType()
	if c.Err != nil {
		return
	}

	if !c.App.SessionIsAdmin(c.App.Session) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	if _, err := c.App.UpdateUserType(c.Params.UserId, c.Params.UserType); err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func updatePassword(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	props := model.MapFromJson(r.Body)
	newPassword := props["new_password"]

	var err *model.AppError
	if c.Params.UserId == c.App.Session.UserId {
		currentPassword := props["current_password"]
		if len(currentPassword) <= 0 {
			c.SetInvalidParam("current_password")
			return
		}

		err = c.App.UpdatePasswordAsUser(c.Params.UserId, currentPassword, newPassword)
	} else if c.App.SessionHasPermissionTo(c.App.Session, model.PERMISSION_EDIT_OTHER_USERS) {
		err = c.App.UpdatePasswordByUserIdSendEmail(c.Params.UserId, newPassword, "api.user.reset_password.method")
	} else {
		err = model.NewAppError("updatePassword", "api.user.update_password.context.app_error", nil, "", http.StatusForbidden)
	}

	if err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func resetPassword(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	token := props["token"]
	if len(token) != model.TOKEN_SIZE {
		c.SetInvalidParam("token")
		return
	}

	newPassword := props["new_password"]

	if err := c.App.ResetPasswordFromToken(token, newPassword); err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func sendPasswordReset(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	email := props["email"]
	email = strings.ToLower(email)
	if len(email) == 0 {
		c.SetInvalidParam("email")
		return
	}

	err := c.App.SendPasswordReset(email, c.App.GetSiteURL())
	if err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func deleteUser(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	user, err := c.App.GetUser(c.Params.UserId)
	if err != nil {
		c.Err = err
		return
	}

	if user == nil {
		c.SetInvalidUrlParam("user_id")
		return
	}

	if !c.App.SessionHasPermissionToUser(c.App.Session, user.Id) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	if err := c.App.DeleteUser(user.Id, c.App.Session.UserId); err != nil {
		c.Err = err
		return
	}

	ReturnStatusOK(w)
}

func getCommunitiesForUser(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToUser(c.App.Session, c.Params.UserId) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	communities, err := c.App.GetCommunitiesForUser(c.Params.UserId)
	if err != nil {
		c.Err = err
		return
	}

	c.App.SanitizeCommunities(c.App.Session, communities)

	w.Write([]byte(model.CommunityListToJson(communities)))
}

func getCommunityMembersForUser(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireUserId()
	if c.Err != nil {
		return
	}

	if !c.App.SessionHasPermissionToUser(c.App.Session, c.Params.UserId) {
		c.SetPermissionError(model.PERMISSION_EDIT_OTHER_USERS)
		return
	}

	members, err := c.App.GetCommunityMembersForUser(c.Params.UserId)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(model.CommunityMembersToJson(members)))
}
