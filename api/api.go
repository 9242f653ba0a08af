package api

import (
	"net/http"

	"github.com/commstack/portal/app"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/web"
	"github.com/gorilla/mux"
)

type Routes struct {
	Root    *mux.Router // ''
	ApiRoot *mux.Router // 'api/v1'

	Users *mux.Router // 'api/v1/users'
	User  *mux.Router // 'api/v1/users/{user_id:[A-Za-z0-9]+}'

	CommunitiesForUser *mux.Router // 'api/v1/users/{user_id:[A-Za-z0-9]+}/communities'

	Communities     *mux.Router // 'api/v1/communities'
	Community       *mux.Router // 'api/v1/communities/{community_id:[A-Za-z0-9]+}'
	CommunityBySlug *mux.Router // 'api/v1/communities/slug/{community_slug:[a-z0-9-]+}'

	CommunityMembers *mux.Router // 'api/v1/communities/{community_id:[A-Za-z0-9]+}/members'
	CommunityMember  *mux.Router // 'api/v1/communities/{community_id:[A-Za-z0-9]+}/members/{user_id:[A-Za-z0-9]+}'

	PostsForCommunity *mux.Router // 'api/v1/communities/{community_id:[A-Za-z0-9]+}/posts'

	Posts *mux.Router // 'api/v1/communities/slug/{community_slug:[a-z0-9-]+}/{post_type:news|resource}'
	Post  *mux.Router // 'api/v1/communities/slug/{community_slug:[a-z0-9-]+}/{post_type:news|resource}/{post_slug:[a-z0-9-]+}'
}

type API struct {
	GetGlobalAppOptions app.AppOptionCreator
	BaseRoutes          *Routes
}

func Init(globalOptionsFunc app.AppOptionCreator, root *mux.Router) *API {
	api := &API{
		GetGlobalAppOptions: globalOptionsFunc,
		BaseRoutes:          &Routes{},
	}

	api.BaseRoutes.Root = root
	api.BaseRoutes.ApiRoot = root.PathPrefix(model.API_URL_SUFFIX).Subrouter()

	api.BaseRoutes.Users = api.BaseRoutes.ApiRoot.PathPrefix("/users").Subrouter()
	api.BaseRoutes.User = api.BaseRoutes.ApiRoot.PathPrefix("/users/{user_id:[A-Za-z0-9]+}").Subrouter()

	api.BaseRoutes.CommunitiesForUser = api.BaseRoutes.User.PathPrefix("/communities").Subrouter()

	api.BaseRoutes.Communities = api.BaseRoutes.ApiRoot.PathPrefix("/communities").Subrouter()
	api.BaseRoutes.Community = api.BaseRoutes.ApiRoot.PathPrefix("/communities/{community_id:[A-Za-z0-9]+}").Subrouter()
	api.BaseRoutes.CommunityBySlug = api.BaseRoutes.ApiRoot.PathPrefix("/communities/slug/{community_slug:[a-z0-9-]+}").Subrouter()

	api.BaseRoutes.CommunityMembers = api.BaseRoutes.Community.PathPrefix("/members").Subrouter()
	api.BaseRoutes.CommunityMember = api.BaseRoutes.CommunityMembers.PathPrefix("/{user_id:[A-Za-z0-9]+}").Subrouter()

	api.BaseRoutes.PostsForCommunity = api.BaseRoutes.Community.PathPrefix("/posts").Subrouter()

	api.BaseRoutes.Posts = api.BaseRoutes.CommunityBySlug.PathPrefix("/{post_type:news|resource}").Subrouter()
	api.BaseRoutes.Post = api.BaseRoutes.Posts.PathPrefix("/{post_slug:[a-z0-9-]+}").Subrouter()

	api.InitUser()
	api.InitCommunity()
	api.InitPost()

	root.Handle("/api/v1/{anything:.*}", http.HandlerFunc(http.NotFound))

	return api
}

var ReturnStatusOK = web.ReturnStatusOK
