package api

import (
	"net/http"

	"github.com/commstack/portal/app"
	"github.com/commstack/portal/audit"
	"github.com/commstack/portal/model"
)

func (api *API) InitPost() {
	api.BaseRoutes.Posts.Handle("", api.ApiHandler(getPostsForCommunity)).Methods("GET")
	api.BaseRoutes.Posts.Handle("", api.ApiSessionRequired(createPost)).Methods("POST")

	api.BaseRoutes.Post.Handle("", api.ApiHandler(getPost)).Methods("GET")
	api.BaseRoutes.Post.Handle("", api.ApiSessionRequired(updatePost)).Methods("PUT")
	api.BaseRoutes.Post.Handle("", api.ApiSessionRequired(deletePost)).Methods("DELETE")

	api.BaseRoutes.PostsForCommunity.Handle("/search", api.ApiHandler(searchPosts)).Methods("POST")
}

func getPostsForCommunity(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug().RequirePostType()
	if c.Err != nil {
		return
	}

	if c.Params.FromDate != 0 && c.Params.ToDate != 0 && c.Params.FromDate > c.Params.ToDate {
		c.SetInvalidUrlParam("from_to_dates")
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	options := &model.GetPostsOptions{
		CommunityId: community.Id,
		PostType:    c.Params.PostType,
		SortType:    c.Params.SortType,
		FromDate:    c.Params.FromDate,
		ToDate:      c.Params.ToDate,
		Page:        c.Params.Page,
		PerPage:     c.Params.PerPage,
	}

	posts, totalCount, err := c.App.GetPosts(options)
	if err != nil {
		c.Err = err
		return
	}

	posts.LimitContentLength()

	data := model.PostsWithCount{Posts: posts, TotalCount: totalCount}

	w.Write(data.ToJson())
}

// createPost publishes a news or resource post in the community named by
// the URL. The author and the community are taken from the request, never
// from the body.
func createPost(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug().RequirePostType()
	if c.Err != nil {
		return
	}

	post := model.PostFromJson(r.Body)
	if post == nil {
		c.SetInvalidParam("post")
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	permission := app.PostPermission(c.Params.PostType, "add")
	if !c.App.SessionHasPermissionToCommunity(c.App.Session, community.Id, permission) {
		c.SetPermissionError(permission)
		return
	}

	auditRec := c.App.MakeAuditRecord("createPost", audit.Fail)
	defer c.App.LogAuditRec(auditRec)
	auditRec.AddMeta("community_id", community.Id)

	post.Type = c.Params.PostType

	rpost, err := c.App.CreatePost(post, community.Id, c.App.Session.UserId)
	if err != nil {
		c.Err = err
		return
	}

	auditRec.AddMeta("post_id", rpost.Id)
	auditRec.Success()

	w.Header().Set(model.HEADER_LOCATION, model.GetPostLink(c.App.GetSiteURL(), community.Slug, rpost.Type, rpost.Slug))
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(rpost.ToJson()))
}

func getPost(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug().RequirePostType().RequirePostSlug()
	if c.Err != nil {
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	post, err := c.App.GetPostBySlug(community.Id, c.Params.PostType, c.Params.PostSlug)
	if err != nil {
		c.Err = err
		return
	}

	w.Write([]byte(post.ToJson()))
}

func updatePost(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug().RequirePostType().RequirePostSlug()
	if c.Err != nil {
		return
	}

	post := model.PostFromJson(r.Body)
	if post == nil {
		c.SetInvalidParam("post")
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	permission := app.PostPermission(c.Params.PostType, "change")
	if !c.App.SessionHasPermissionToCommunity(c.App.Session, community.Id, permission) {
		c.SetPermissionError(permission)
		return
	}

	originalPost, err := c.App.GetPostBySlug(community.Id, c.Params.PostType, c.Params.PostSlug)
	if err != nil {
		c.Err = err
		return
	}

	auditRec := c.App.MakeAuditRecord("updatePost", audit.Fail)
	defer c.App.LogAuditRec(auditRec)
	auditRec.AddMeta("post_id", originalPost.Id)

	post.Id = originalPost.Id
	post.Type = originalPost.Type

	rpost, err := c.App.UpdatePost(post)
	if err != nil {
		c.Err = err
		return
	}

	auditRec.Success()

	w.Write([]byte(rpost.ToJson()))
}

func deletePost(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunitySlug().RequirePostType().RequirePostSlug()
	if c.Err != nil {
		return
	}

	community, err := c.App.GetCommunityBySlug(c.Params.CommunitySlug)
	if err != nil {
		c.Err = err
		return
	}

	permission := app.PostPermission(c.Params.PostType, "delete")
	if !c.App.SessionHasPermissionToCommunity(c.App.Session, community.Id, permission) {
		c.SetPermissionError(permission)
		return
	}

	post, err := c.App.GetPostBySlug(community.Id, c.Params.PostType, c.Params.PostSlug)
	if err != nil {
		c.Err = err
		return
	}

	auditRec := c.App.MakeAuditRecord("deletePost", audit.Fail)
	defer c.App.LogAuditRec(auditRec)
	auditRec.AddMeta("post_id", post.Id)

	if _, err := c.App.DeletePost(post, c.App.Session.UserId); err != nil {
		c.Err = err
		return
	}

	auditRec.Success()
	ReturnStatusOK(w)
}

func searchPosts(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequireCommunityId()
	if c.Err != nil {
		return
	}

	props := model.MapFromJson(r.Body)

	terms := props["terms"]
	if len(terms) == 0 || len(terms) > model.POST_SEARCH_TERMS_MAX {
		c.SetInvalidParam("terms")
		return
	}

	postType := props["type"]
	if len(postType) > 0 && !model.IsValidPostType(postType) {
		c.SetInvalidParam("type")
		return
	}

	posts, totalCount, err := c.App.SearchPosts(terms, c.Params.CommunityId, postType, c.Params.SortType, c.Params.Page, c.Params.PerPage)
	if err != nil {
		c.Err = err
		return
	}

	posts.LimitContentLength()

	data := model.PostsWithCount{Posts: posts, TotalCount: totalCount}

	w.Write(data.ToJson())
}
