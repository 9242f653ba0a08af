package app

import (
	"net/http"

	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
)

func (a *App) GetPostBySlug(communityId string, postType string, slug string) (*model.Post, *model.AppError) {
	return a.Srv.Store.Post().GetBySlug(communityId, postType, slug)
}

// CreatePost stamps the author and the community onto the post before
// saving. The slug is derived from the title in the store layer.
func (a *App) CreatePost(post *model.Post, communityId string, userId string) (*model.Post, *model.AppError) {
	user, err := a.GetUser(userId)
	if err != nil || user == nil {
		return nil, model.NewAppError("CreatePost", "api.post.create_post.post_user.app_error", nil, "", http.StatusBadRequest)
	}

	post = &model.Post{
		Type:        post.Type,
		UserId:      user.Id,
		CommunityId: communityId,
		Title:       post.Title,
		Content:     post.Content,
		DeleteAt:    0,
	}

	rpost, err := a.Srv.Store.Post().Save(post)
	if err != nil {
		mlog.Error("Couldn't save the post", mlog.Err(err))
		return nil, err
	}

	return rpost, nil
}

func (a *App) GetPosts(options *model.GetPostsOptions) (model.Posts, int64, *model.AppError) {
	return a.Srv.Store.Post().GetPosts(options, true)
}

func (a *App) SearchPosts(terms string, communityId string, postType string, sortType string, page, perPage int) (model.Posts, int64, *model.AppError) {
	if terms == "" {
		return model.Posts{}, 0, nil
	}

	return a.Srv.Store.Post().SearchPosts(terms, communityId, postType, sortType, page, perPage)
}

func (a *App) UpdatePost(post *model.Post) (*model.Post, *model.AppError) {
	oldPost, err := a.Srv.Store.Post().GetSingle(post.Id)
	if err != nil {
		return nil, err
	}

	if oldPost == nil || oldPost.Type != post.Type {
		err = model.NewAppError("UpdatePost", "api.post.update_post.find.app_error", nil, "id="+post.Id, http.StatusBadRequest)
		return nil, err
	}

	if oldPost.DeleteAt != 0 {
		err = model.NewAppError("UpdatePost", "api.post.update_post.permissions_details.app_error", map[string]interface{}{"PostId": post.Id}, "", http.StatusBadRequest)
		return nil, err
	}

	newPost := &model.Post{}
	*newPost = *oldPost

	var edited = false
	if newPost.Title != post.Title {
		newPost.Title = post.Title
		// the slug follows the title
		newPost.Slug = model.Slugify(post.Title)
		edited = true
	}

	if newPost.Content != post.Content {
		newPost.Content = post.Content
		edited = true
	}

	if !edited {
		return oldPost, nil
	}

	rpost, err := a.Srv.Store.Post().Update(newPost, oldPost)
	if err != nil {
		return nil, err
	}

	return rpost, nil
}

func (a *App) DeletePost(post *model.Post, deleteByID string) (*model.Post, *model.AppError) {
	if err := a.Srv.Store.Post().Delete(post.Id, model.GetMillis(), deleteByID); err != nil {
		return nil, err
	}

	return post, nil
}
