package web

import (
	"net/http"
	"strconv"

	"github.com/commstack/portal/model"
	"github.com/gorilla/mux"
)

const (
	PAGE_DEFAULT     = 0
	PER_PAGE_DEFAULT = 5
	PER_PAGE_MAXIMUM = 100
)

type Params struct {
	UserId        string
	CommunityId   string
	CommunitySlug string
	PostType      string
	PostSlug      string
	InviteId      string
	MemberType    string
	Page          int
	PerPage       int
	FromDate      int64
	ToDate        int64
	SortType      string
	UserType      string
	UserName      string
}

func ParamsFromRequest(r *http.Request) *Params {
	params := &Params{}

	props := mux.Vars(r)

	query := r.URL.Query()

	if val, ok := props["user_id"]; ok {
		params.UserId = val
	}

	if val, ok := props["community_id"]; ok {
		params.CommunityId = val
	}

	if val, ok := props["community_slug"]; ok {
		params.CommunitySlug = val
	}

	if val, ok := props["post_type"]; ok {
		params.PostType = val
	}

	if val, ok := props["post_slug"]; ok {
		params.PostSlug = val
	}

	params.InviteId = query.Get("invite_id")

	if val, err := strconv.ParseInt(query.Get("from_date"), 10, 64); err == nil && val > 0 {
		params.FromDate = val
	}

	if val, err := strconv.ParseInt(query.Get("to_date"), 10, 64); err == nil && val > 0 {
		params.ToDate = val
	}

	if val, err := strconv.Atoi(query.Get("page")); err != nil || val < 0 {
		params.Page = PAGE_DEFAULT
	} else {
		params.Page = val
	}

	if val, err := strconv.Atoi(query.Get("per_page")); err != nil || val <= 0 {
		params.PerPage = PER_PAGE_DEFAULT
	} else if val > PER_PAGE_MAXIMUM {
		params.PerPage = PER_PAGE_MAXIMUM
	} else {
		params.PerPage = val
	}

	if val := query.Get("sort"); len(val) > 0 {
		switch val {
		case model.POST_SORT_TYPE_CREATION:
			params.SortType = model.POST_SORT_TYPE_CREATION
		case model.POST_SORT_TYPE_ACTIVE:
			params.SortType = model.POST_SORT_TYPE_ACTIVE
		}
	}

	if val := query.Get("type"); len(val) > 0 && model.IsValidCommunityMemberType(val) {
		params.MemberType = val
	}

	if val := query.Get("user_type"); len(val) > 0 {
		switch val {
		case model.USER_TYPE_NORMAL:
			params.UserType = model.USER_TYPE_NORMAL
		case model.USER_TYPE_MODERATOR:
			params.UserType = model.USER_TYPE_MODERATOR
		case model.USER_TYPE_ADMIN:
			params.UserType = model.USER_TYPE_ADMIN
		}
	}

	if val := query.Get("user_name"); len(val) > 0 {
		params.UserName = val
	}

	return params
}
