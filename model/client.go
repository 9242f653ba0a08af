package model

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"regexp"
	"strings"
)

const (
	HEADER_REQUEST_ID         = "X-Request-ID"
	HEADER_VERSION_ID         = "X-Version-ID"
	HEADER_REQUESTED_WITH     = "X-Requested-With"
	HEADER_REQUESTED_WITH_XML = "XMLHttpRequest"
	HEADER_TOKEN              = "token"
	HEADER_CSRF_TOKEN         = "X-CSRF-Token"
	HEADER_FORWARDED          = "X-Forwarded-For"
	HEADER_REAL_IP            = "X-Real-IP"
	HEADER_FORWARDED_PROTO    = "X-Forwarded-Proto"
	HEADER_AUTH               = "Authorization"
	HEADER_BEARER             = "BEARER"
	HEADER_LOCATION           = "Location"

	STATUS      = "status"
	STATUS_OK   = "OK"
	STATUS_FAIL = "FAIL"

	API_URL_SUFFIX = "/api/v1"
)

type Response struct {
	StatusCode    int
	Error         *AppError
	RequestId     string
	ServerVersion string
	Header        http.Header
}

type Client struct {
	Url           string
	ApiUrl        string
	HttpClient    *http.Client
	AuthToken     string
	AuthType      string
	HttpHeader    map[string]string
	SessionCookie string
	UserCookie    string
	CsrfCookie    string
}

func NewAPIClient(url string) *Client {
	return &Client{url, url + API_URL_SUFFIX, &http.Client{}, "", "", map[string]string{}, "", "", ""}
}

func BuildErrorResponse(r *http.Response, err *AppError) *Response {
	var statusCode int
	var header http.Header
	if r != nil {
		statusCode = r.StatusCode
		header = r.Header
	} else {
		statusCode = 0
		header = make(http.Header)
	}

	return &Response{
		StatusCode: statusCode,
		Error:      err,
		Header:     header,
	}
}

func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.Copy(ioutil.Discard, r.Body)
		_ = r.Body.Close()
	}
}

func BuildResponse(r *http.Response) *Response {
	return &Response{
		StatusCode:    r.StatusCode,
		RequestId:     r.Header.Get(HEADER_REQUEST_ID),
		ServerVersion: r.Header.Get(HEADER_VERSION_ID),
		Header:        r.Header,
	}
}

func (c *Client) GetUsersRoute() string {
	return "/users"
}

func (c *Client) GetUserRoute(userId string) string {
	return fmt.Sprintf(c.GetUsersRoute()+"/%v", userId)
}

func (c *Client) GetCommunitiesRoute() string {
	return "/communities"
}

func (c *Client) GetCommunityRoute(communityId string) string {
	return fmt.Sprintf(c.GetCommunitiesRoute()+"/%v", communityId)
}

func (c *Client) GetCommunityBySlugRoute(communitySlug string) string {
	return fmt.Sprintf(c.GetCommunitiesRoute()+"/slug/%v", communitySlug)
}

func (c *Client) GetCommunityMemberRoute(communityId, userId string) string {
	return fmt.Sprintf(c.GetCommunityRoute(communityId)+"/members/%v", userId)
}

func (c *Client) GetPostsRoute(communitySlug, postType string) string {
	return fmt.Sprintf(c.GetCommunityBySlugRoute(communitySlug)+"/%v", postType)
}

func (c *Client) GetPostRoute(communitySlug, postType, postSlug string) string {
	return fmt.Sprintf(c.GetPostsRoute(communitySlug, postType)+"/%v", postSlug)
}

func (c *Client) DoApiGet(url string) (*http.Response, *AppError) {
	return c.DoApiRequest(http.MethodGet, c.ApiUrl+url, "")
}

func (c *Client) DoApiPost(url string, data string) (*http.Response, *AppError) {
	return c.DoApiRequest(http.MethodPost, c.ApiUrl+url, data)
}

func (c *Client) DoApiPut(url string, data string) (*http.Response, *AppError) {
	return c.DoApiRequest(http.MethodPut, c.ApiUrl+url, data)
}

func (c *Client) DoApiDelete(url string) (*http.Response, *AppError) {
	return c.DoApiRequest(http.MethodDelete, c.ApiUrl+url, "")
}

func (c *Client) DoApiRequest(method, url, data string) (*http.Response, *AppError) {
	return c.doApiRequestReader(method, url, strings.NewReader(data))
}

func (c *Client) doApiRequestReader(method, url string, data io.Reader) (*http.Response, *AppError) {
	rq, err := http.NewRequest(method, url, data)

	if err != nil {
		return nil, NewAppError(url, "model.client.connecting.app_error", nil, err.Error(), http.StatusBadRequest)
	}

	if len(c.AuthToken) > 0 {
		rq.Header.Set(HEADER_AUTH, c.AuthType+" "+c.AuthToken)
	}

	rq.Header.Set(HEADER_REQUESTED_WITH, HEADER_REQUESTED_WITH_XML)

	cookie := &http.Cookie{
		Name:  SESSION_COOKIE_USER,
		Value: c.UserCookie,
	}
	cookie2 := &http.Cookie{
		Name:  SESSION_COOKIE_TOKEN,
		Value: c.SessionCookie,
	}
	cookie3 := &http.Cookie{
		Name:  SESSION_COOKIE_CSRF,
		Value: c.CsrfCookie,
	}

	rq.AddCookie(cookie)
	rq.AddCookie(cookie2)
	rq.AddCookie(cookie3)
	rq.Header.Add(HEADER_CSRF_TOKEN, c.CsrfCookie)

	if c.HttpHeader != nil && len(c.HttpHeader) > 0 {
		for k, v := range c.HttpHeader {
			rq.Header.Set(k, v)
		}
	}

	rp, err := c.HttpClient.Do(rq)
	if err != nil || rp == nil {
		return nil, NewAppError(url, "model.client.connecting.app_error", nil, err.Error(), 0)
	}

	if rp.StatusCode == 304 {
		return rp, nil
	}

	if rp.StatusCode >= 300 {
		defer closeBody(rp)
		return rp, AppErrorFromJson(rp.Body)
	}

	return rp, nil
}

func (c *Client) login(m map[string]string) (*User, *Response) {
	r, err := c.DoApiPost("/users/login", MapToJson(m))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	c.AuthToken = r.Header.Get(HEADER_TOKEN)
	c.AuthType = HEADER_BEARER

	for _, cookie := range r.Header["Set-Cookie"] {
		if match := regexp.MustCompile("^" + SESSION_COOKIE_TOKEN + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
			c.SessionCookie = match[1]
		} else if match := regexp.MustCompile("^" + SESSION_COOKIE_USER + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
			c.UserCookie = match[1]
		} else if match := regexp.MustCompile("^" + SESSION_COOKIE_CSRF + "=([a-z0-9]+)").FindStringSubmatch(cookie); match != nil {
			c.CsrfCookie = match[1]
		}
	}

	return UserFromJson(r.Body), BuildResponse(r)
}

// Login authenticates a user by login id, which can be username or email,
// and a password.
func (c *Client) Login(loginId string, password string) (*User, *Response) {
	m := make(map[string]string)
	m["login_id"] = loginId
	m["password"] = password
	return c.login(m)
}

// Logout terminates the current user's session.
func (c *Client) Logout() (bool, *Response) {
	r, err := c.DoApiPost("/users/logout", "")
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	c.AuthToken = ""
	c.AuthType = HEADER_BEARER
	c.SessionCookie = ""
	c.UserCookie = ""
	c.CsrfCookie = ""
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) CreateUser(user *User) (*User, *Response) {
	r, err := c.DoApiPost(c.GetUsersRoute(), user.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return UserFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetMe() (*User, *Response) {
	r, err := c.DoApiGet(c.GetUserRoute(ME))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return UserFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetUser(userId string) (*User, *Response) {
	r, err := c.DoApiGet(c.GetUserRoute(userId))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return UserFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetAuditsForUser(userId string, page, perPage int) (Audits, *Response) {
	query := fmt.Sprintf("?page=%v&per_page=%v", page, perPage)
	r, err := c.DoApiGet(c.GetUserRoute(userId) + "/audits" + query)
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return AuditsFromJson(r.Body), BuildResponse(r)
}

func (c *Client) UpdateUser(user *User) (*User, *Response) {
	r, err := c.DoApiPut(c.GetUserRoute(user.Id), user.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return UserFromJson(r.Body), BuildResponse(r)
}

func (c *Client) VerifyUserEmail(token string) (bool, *Response) {
	requestBody := map[string]string{"token": token}
	r, err := c.DoApiPost(c.GetUsersRoute()+"/email/verify", MapToJson(requestBody))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) SendVerificationEmail(email string) (bool, *Response) {
	requestBody := map[string]string{"email": email}
	r, err := c.DoApiPost(c.GetUsersRoute()+"/email/verify/send", MapToJson(requestBody))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) CreateCommunity(community *Community) (*Community, *Response) {
	r, err := c.DoApiPost(c.GetCommunitiesRoute(), community.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetCommunity(communityId string) (*Community, *Response) {
	r, err := c.DoApiGet(c.GetCommunityRoute(communityId))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetCommunityBySlug(communitySlug string) (*Community, *Response) {
	r, err := c.DoApiGet(c.GetCommunityBySlugRoute(communitySlug))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityFromJson(r.Body), BuildResponse(r)
}

func (c *Client) UpdateCommunity(community *Community) (*Community, *Response) {
	r, err := c.DoApiPut(c.GetCommunityRoute(community.Id), community.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityFromJson(r.Body), BuildResponse(r)
}

func (c *Client) DeleteCommunity(communityId string) (bool, *Response) {
	r, err := c.DoApiDelete(c.GetCommunityRoute(communityId))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) AddCommunityMember(communityId, userId string) (*CommunityMember, *Response) {
	member := &CommunityMember{CommunityId: communityId, UserId: userId}
	r, err := c.DoApiPost(c.GetCommunityRoute(communityId)+"/members", member.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityMemberFromJson(r.Body), BuildResponse(r)
}

func (c *Client) AddCommunityMemberFromInvite(inviteId string) (*CommunityMember, *Response) {
	query := fmt.Sprintf("?invite_id=%v", inviteId)
	r, err := c.DoApiPost(c.GetCommunitiesRoute()+"/members/invite"+query, "")
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityMemberFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetCommunityMember(communityId, userId string) (*CommunityMember, *Response) {
	r, err := c.DoApiGet(c.GetCommunityMemberRoute(communityId, userId))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CommunityMemberFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetCommunityMembers(communityId string, page, perPage int) ([]*CommunityMember, *Response) {
	query := fmt.Sprintf("?page=%v&per_page=%v", page, perPage)
	r, err := c.DoApiGet(c.GetCommunityRoute(communityId) + "/members" + query)
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)

	var members []*CommunityMember
	json.NewDecoder(r.Body).Decode(&members)
	return members, BuildResponse(r)
}

func (c *Client) UpdateCommunityMemberType(communityId, userId, memberType string) (bool, *Response) {
	requestBody := map[string]string{"type": memberType}
	r, err := c.DoApiPut(c.GetCommunityMemberRoute(communityId, userId)+"/type", MapToJson(requestBody))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) RemoveCommunityMember(communityId, userId string) (bool, *Response) {
	r, err := c.DoApiDelete(c.GetCommunityMemberRoute(communityId, userId))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) InviteUsersToCommunity(communityId string, emails []string) (bool, *Response) {
	r, err := c.DoApiPost(c.GetCommunityRoute(communityId)+"/invite/email", ArrayToJson(emails))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) CreatePost(communitySlug, postType string, post *Post) (*Post, *Response) {
	r, err := c.DoApiPost(c.GetPostsRoute(communitySlug, postType), post.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetPost(communitySlug, postType, postSlug string) (*Post, *Response) {
	r, err := c.DoApiGet(c.GetPostRoute(communitySlug, postType, postSlug))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetPosts(communitySlug, postType string, page, perPage int) (*PostsWithCount, *Response) {
	query := fmt.Sprintf("?page=%v&per_page=%v", page, perPage)
	r, err := c.DoApiGet(c.GetPostsRoute(communitySlug, postType) + query)
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostsWithCountFromJson(r.Body), BuildResponse(r)
}

func (c *Client) UpdatePost(communitySlug, postType, postSlug string, post *Post) (*Post, *Response) {
	r, err := c.DoApiPut(c.GetPostRoute(communitySlug, postType, postSlug), post.ToJson())
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostFromJson(r.Body), BuildResponse(r)
}

func (c *Client) DeletePost(communitySlug, postType, postSlug string) (bool, *Response) {
	r, err := c.DoApiDelete(c.GetPostRoute(communitySlug, postType, postSlug))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) SearchPosts(communityId string, requestBody map[string]string) (*PostsWithCount, *Response) {
	r, err := c.DoApiPost(c.GetCommunityRoute(communityId)+"/posts/search", MapToJson(requestBody))
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostsWithCountFromJson(r.Body), BuildResponse(r)
}

// CheckStatusOK is a convenience function for checking the standard OK response
// from the web service.
func CheckStatusOK(r *http.Response) bool {
	m := MapFromJson(r.Body)
	defer closeBody(r)

	if m != nil && m[STATUS] == STATUS_OK {
		return true
	}

	return false
}
