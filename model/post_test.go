package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestPost() *Post {
	return &Post{
		Id:          NewId(),
		Type:        POST_TYPE_NEWS,
		UserId:      NewId(),
		CommunityId: NewId(),
		Slug:        "release-notes",
		Title:       "Release Notes",
		Content:     "The latest release notes.",
		CreateAt:    GetMillis(),
		UpdateAt:    GetMillis(),
	}
}

func TestPostIsValid(t *testing.T) {
	post := validTestPost()
	require.Nil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Id = "short"
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Type = "podcast"
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.UserId = ""
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.CommunityId = ""
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Title = strings.Repeat("a", POST_TITLE_MIN_RUNES-1)
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Title = strings.Repeat("a", POST_TITLE_MAX_RUNES+1)
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Slug = "Not A Slug"
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Slug = strings.Repeat("a", POST_SLUG_MAX_LENGTH+1)
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Content = strings.Repeat("a", POST_CONTENT_MIN_RUNES-1)
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.Content = strings.Repeat("a", POST_CONTENT_MAX_RUNES)
	require.Nil(t, post.IsValid(POST_CONTENT_MAX_RUNES))
	post.Content += "a"
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))

	post = validTestPost()
	post.AddProp("overflow", strings.Repeat("a", POST_PROPS_MAX_RUNES))
	require.NotNil(t, post.IsValid(POST_CONTENT_MAX_RUNES))
}

func TestPostPreSave(t *testing.T) {
	post := &Post{
		Type:        POST_TYPE_RESOURCE,
		UserId:      NewId(),
		CommunityId: NewId(),
		Title:       "Getting Started Guide",
		Content:     "Start here before anything else.",
	}
	post.PreSave()

	require.Len(t, post.Id, 26)
	assert.Equal(t, "getting-started-guide", post.Slug)
	assert.NotZero(t, post.CreateAt)
	assert.Equal(t, post.CreateAt, post.UpdateAt)
	assert.NotNil(t, post.Props)
	require.Nil(t, post.IsValid(POST_CONTENT_MAX_RUNES))
}

func TestIsValidPostType(t *testing.T) {
	assert.True(t, IsValidPostType(POST_TYPE_NEWS))
	assert.True(t, IsValidPostType(POST_TYPE_RESOURCE))
	assert.False(t, IsValidPostType("podcast"))
	assert.False(t, IsValidPostType(""))
}

func TestGetPostLink(t *testing.T) {
	link := GetPostLink("http://portal.test", "gophers", POST_TYPE_NEWS, "release-notes")
	assert.Equal(t, "http://portal.test/community/gophers/news/release-notes", link)
}
