package api

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/commstack/portal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	user := &model.User{
		Email:    th.GenerateTestEmail(),
		Username: GenerateTestUsername(),
		Password: "Password1@",
	}

	ruser, resp := Client.CreateUser(user)
	CheckNoError(t, resp)
	CheckCreatedStatus(t, resp)

	ruser, resp = Client.GetUser(ruser.Id)
	require.Equal(t, user.Username, ruser.Username, "username didn't match")

	_, _ = Client.Login(user.Email, user.Password)

	_, resp = Client.CreateUser(ruser)
	CheckBadRequestStatus(t, resp)
}

func TestVerifyUserEmail(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	email := th.GenerateTestEmail()
	user := &model.User{
		Email:    email,
		Username: GenerateTestUsername(),
		Password: "Password1@",
	}

	_, _ = Client.CreateUser(user)

	_, resp := Client.VerifyUserEmail(model.NewId())
	CheckBadRequestStatus(t, resp)

	_, resp = Client.VerifyUserEmail("")
	CheckBadRequestStatus(t, resp)
}

func TestSendVerificationEmail(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	pass, resp := Client.SendVerificationEmail(th.BasicUser.Email)
	CheckNoError(t, resp)

	require.True(t, pass, "should have passed")

	_, resp = Client.SendVerificationEmail("")
	CheckBadRequestStatus(t, resp)

	// an unknown address gets the same answer as a known one
	_, resp = Client.SendVerificationEmail(th.GenerateTestEmail())
	CheckNoError(t, resp)

	Client.Logout()
	_, resp = Client.SendVerificationEmail(th.BasicUser.Email)
	CheckNoError(t, resp)
}

func TestLogin(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	t.Run("missing password", func(t *testing.T) {
		_, resp := Client.Login(th.BasicUser.Email, "")
		CheckBadRequestStatus(t, resp)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, resp := Client.Login("unknown", th.BasicUser.Password)
		CheckBadRequestStatus(t, resp)
	})

	t.Run("valid login", func(t *testing.T) {
		user, resp := Client.Login(th.BasicUser.Email, th.BasicUser.Password)
		CheckNoError(t, resp)
		assert.Equal(t, user.Id, th.BasicUser.Id)
	})

	t.Run("should return cookies with X-Requested-With header", func(t *testing.T) {
		Client.HttpHeader[model.HEADER_REQUESTED_WITH] = model.HEADER_REQUESTED_WITH_XML

		user, resp := Client.Login(th.BasicUser.Email, th.BasicUser.Password)

		sessionCookie := ""
		userCookie := ""
		csrfCookie := ""

		for _, cookie := range resp.Header["Set-Cookie"] {
			if match := regexp.MustCompile("^" + model.SESSION_COOKIE_TOKEN + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
				sessionCookie = match[1]
			} else if match := regexp.MustCompile("^" + model.SESSION_COOKIE_USER + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
				userCookie = match[1]
			} else if match := regexp.MustCompile("^" + model.SESSION_COOKIE_CSRF + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
				csrfCookie = match[1]
			}
		}

		session, _ := th.App.GetSession(Client.AuthToken)

		assert.Equal(t, Client.AuthToken, sessionCookie)
		assert.Equal(t, user.Id, userCookie)
		assert.Equal(t, session.GetCSRF(), csrfCookie)
	})
}

func TestLogout(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	pass, resp := Client.Logout()
	CheckNoError(t, resp)
	require.True(t, pass, "should have passed")

	// the revoked session can no longer be used
	_, resp = Client.GetCommunityMember(th.BasicCommunity.Id, th.BasicUser.Id)
	CheckUnauthorizedStatus(t, resp)
}

func TestGetUser(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	user, resp := Client.GetUser(th.BasicUser2.Id)
	CheckNoError(t, resp)

	require.Equal(t, th.BasicUser2.Id, user.Id)
	require.Empty(t, user.Email, "emails of other users stay private")
	require.Empty(t, user.Password, "password leaked")

	me, resp := Client.GetMe()
	CheckNoError(t, resp)
	require.Equal(t, th.BasicUser.Id, me.Id)
	require.Equal(t, th.BasicUser.Email, me.Email)
}

func TestUpdateUser(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	user := th.BasicUser
	user.Username = GenerateTestUsername()

	ruser, resp := Client.UpdateUser(user)
	CheckNoError(t, resp)
	require.Equal(t, user.Username, ruser.Username)

	// other users can not be updated without the right permission
	user2 := th.BasicUser2
	user2.Username = GenerateTestUsername()
	_, resp = Client.UpdateUser(user2)
	CheckForbiddenStatus(t, resp)

	Client.Logout()
	_, resp = Client.UpdateUser(user)
	CheckUnauthorizedStatus(t, resp)
}

func TestUpdatePassword(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	requestBody := map[string]string{"current_password": th.BasicUser.Password, "new_password": "NewPassword1@"}
	r, err := Client.DoApiPut(Client.GetUserRoute(th.BasicUser.Id)+"/password", model.MapToJson(requestBody))
	require.Nil(t, err)
	require.Equal(t, 200, r.StatusCode)

	Client.Logout()
	_, resp := Client.Login(th.BasicUser.Email, "NewPassword1@")
	CheckNoError(t, resp)
}

func TestDeleteUser(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	// a normal user can not delete someone else
	r, _ := Client.DoApiDelete(Client.GetUserRoute(th.BasicUser2.Id))
	require.Equal(t, 403, r.StatusCode)

	// self delete works
	r, err := Client.DoApiDelete(Client.GetUserRoute(th.BasicUser.Id))
	require.Nil(t, err)
	require.Equal(t, 200, r.StatusCode)

	_, resp := Client.Login(th.BasicUser.Email, th.BasicUser.Password)
	CheckUnauthorizedStatus(t, resp)
}

func TestGetAudits(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	// the login above leaves at least one audit row behind
	audits, resp := Client.GetAuditsForUser(th.BasicUser.Id, 0, 100)
	CheckNoError(t, resp)
	require.NotEmpty(t, audits)

	// someone else's audit trail stays private
	_, resp = Client.GetAuditsForUser(th.BasicUser2.Id, 0, 100)
	CheckForbiddenStatus(t, resp)
}

func TestGetCommunitiesForUser(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	r, err := Client.DoApiGet(Client.GetUserRoute(th.BasicUser.Id) + "/communities")
	require.Nil(t, err)
	defer r.Body.Close()

	var communities []*model.Community
	json.NewDecoder(r.Body).Decode(&communities)
	require.NotEmpty(t, communities)

	// someone else's memberships stay private
	r, _ = Client.DoApiGet(Client.GetUserRoute(th.BasicUser2.Id) + "/communities")
	require.Equal(t, 403, r.StatusCode)
}
