package api

import (
	"strings"
	"testing"

	"github.com/commstack/portal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	post := &model.Post{
		Title:   "community meetup announced",
		Content: "the next meetup takes place downtown this friday",
	}

	rpost, resp := Client.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, post)
	CheckCreatedStatus(t, resp)

	require.Equal(t, model.POST_TYPE_NEWS, rpost.Type)
	require.Equal(t, post.Title, rpost.Title)
	require.Equal(t, model.Slugify(post.Title), rpost.Slug)
	// the author and the community come from the request, not the body
	require.Equal(t, th.BasicUser.Id, rpost.UserId)
	require.Equal(t, th.BasicCommunity.Id, rpost.CommunityId)

	location := resp.Header.Get(model.HEADER_LOCATION)
	require.NotEmpty(t, location, "expected a Location header on create")
	assert.True(t, strings.HasSuffix(location, "/community/"+th.BasicCommunity.Slug+"/news/"+rpost.Slug))

	t.Run("a non member can not post", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, post)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})

	t.Run("a system admin can post without membership", func(t *testing.T) {
		_, resp := th.SystemAdminClient.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_RESOURCE, post)
		CheckCreatedStatus(t, resp)
	})

	t.Run("unknown community", func(t *testing.T) {
		_, resp := Client.CreatePost("missing-"+model.NewId(), model.POST_TYPE_NEWS, post)
		CheckNotFoundStatus(t, resp)
	})

	t.Run("session required", func(t *testing.T) {
		Client.Logout()

		_, resp := Client.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, post)
		CheckUnauthorizedStatus(t, resp)

		th.LoginBasic()
	})
}

func TestGetPost(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	rpost := th.CreateNewsPost()

	post, resp := Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
	CheckNoError(t, resp)
	require.Equal(t, rpost.Id, post.Id)

	// posts are looked up by type as well as slug
	_, resp = Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_RESOURCE, rpost.Slug)
	CheckNotFoundStatus(t, resp)

	_, resp = Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, "missing-"+model.NewId())
	CheckNotFoundStatus(t, resp)
}

func TestGetPosts(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	for i := 0; i < 6; i++ {
		th.CreateNewsPost()
	}
	th.CreateResourcePost()

	data, resp := Client.GetPosts(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, 0, 5)
	CheckNoError(t, resp)

	require.Len(t, data.Posts, 5)
	require.Equal(t, int64(6), data.TotalCount)

	data, resp = Client.GetPosts(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, 1, 5)
	CheckNoError(t, resp)
	require.Len(t, data.Posts, 1)

	data, resp = Client.GetPosts(th.BasicCommunity.Slug, model.POST_TYPE_RESOURCE, 0, 5)
	CheckNoError(t, resp)
	require.Len(t, data.Posts, 1)
	require.Equal(t, int64(1), data.TotalCount)
}

func TestUpdatePost(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	rpost := th.CreateNewsPost()

	update := &model.Post{
		Title:   "retitled announcement",
		Content: rpost.Content,
	}

	upost, resp := Client.UpdatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug, update)
	CheckNoError(t, resp)

	require.Equal(t, update.Title, upost.Title)
	// the slug follows the title
	require.Equal(t, model.Slugify(update.Title), upost.Slug)

	_, resp = Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
	CheckNotFoundStatus(t, resp)

	t.Run("a non member can not edit", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.UpdatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, upost.Slug, update)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})

	t.Run("unknown post", func(t *testing.T) {
		_, resp := Client.UpdatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, "missing-"+model.NewId(), update)
		CheckNotFoundStatus(t, resp)
	})
}

func TestDeletePost(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	rpost := th.CreateNewsPost()

	t.Run("a non member can not delete", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.DeletePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})

	pass, resp := Client.DeletePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
	CheckNoError(t, resp)
	require.True(t, pass)

	_, resp = Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
	CheckNotFoundStatus(t, resp)
}

func TestPostsUnreachableAfterCommunityDelete(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	rpost := th.CreateNewsPost()

	pass, resp := Client.DeleteCommunity(th.BasicCommunity.Id)
	CheckNoError(t, resp)
	require.True(t, pass)

	// every blog route resolves the community first, so the posts of a
	// deleted community are gone with it
	_, resp = Client.GetPosts(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, 0, 5)
	CheckNotFoundStatus(t, resp)

	_, resp = Client.GetPost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, rpost.Slug)
	CheckNotFoundStatus(t, resp)

	post := &model.Post{
		Title:   "posted after the community was deleted",
		Content: "this should never make it in",
	}
	_, resp = Client.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, post)
	CheckNotFoundStatus(t, resp)
}

func TestSearchPosts(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	post := &model.Post{
		Title:   "quarterly hackathon results",
		Content: "congratulations to every team that participated",
	}
	_, resp := Client.CreatePost(th.BasicCommunity.Slug, model.POST_TYPE_NEWS, post)
	CheckCreatedStatus(t, resp)

	data, resp := Client.SearchPosts(th.BasicCommunity.Id, map[string]string{"terms": "hackathon"})
	CheckNoError(t, resp)
	require.Equal(t, int64(1), data.TotalCount)

	data, resp = Client.SearchPosts(th.BasicCommunity.Id, map[string]string{"terms": "nonexistent"})
	CheckNoError(t, resp)
	require.Equal(t, int64(0), data.TotalCount)

	_, resp = Client.SearchPosts(th.BasicCommunity.Id, map[string]string{"terms": ""})
	CheckBadRequestStatus(t, resp)
}
