package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestCommunity() *Community {
	return &Community{
		Id:       NewId(),
		Slug:     "gophers",
		Name:     "Gophers",
		Email:    "owner@example.com",
		InviteId: NewId(),
		CreateAt: GetMillis(),
		UpdateAt: GetMillis(),
	}
}

func TestCommunityIsValid(t *testing.T) {
	community := validTestCommunity()
	require.Nil(t, community.IsValid())

	community = validTestCommunity()
	community.Id = "short"
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.CreateAt = 0
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Email = "not-an-email"
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.InviteId = ""
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Name = strings.Repeat("a", COMMUNITY_NAME_MIN_LENGTH-1)
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Name = strings.Repeat("a", COMMUNITY_NAME_MAX_LENGTH+1)
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Slug = "admin"
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Slug = "Not A Slug"
	require.NotNil(t, community.IsValid())

	community = validTestCommunity()
	community.Slug = strings.Repeat("a", COMMUNITY_SLUG_MAX_LENGTH+1)
	require.NotNil(t, community.IsValid())
}

func TestCommunityPreSave(t *testing.T) {
	community := &Community{
		Name:  "Weekly Gophers",
		Email: "owner@example.com",
	}
	community.PreSave()

	require.Len(t, community.Id, 26)
	assert.Equal(t, "weekly-gophers", community.Slug)
	assert.NotEmpty(t, community.InviteId)
	assert.NotZero(t, community.CreateAt)
	assert.Equal(t, community.CreateAt, community.UpdateAt)
	require.Nil(t, community.IsValid())
}

func TestIsReservedCommunitySlug(t *testing.T) {
	assert.True(t, IsReservedCommunitySlug("admin"))
	assert.True(t, IsReservedCommunitySlug("api"))
	assert.True(t, IsReservedCommunitySlug("error"))
	assert.True(t, IsReservedCommunitySlug("login"))
	assert.True(t, IsReservedCommunitySlug("signup"))

	// reserved names also block anything they prefix
	assert.True(t, IsReservedCommunitySlug("admin-tools"))
	assert.True(t, IsReservedCommunitySlug("apiary"))
	assert.True(t, IsReservedCommunitySlug("LOGIN"))

	assert.False(t, IsReservedCommunitySlug("gophers"))
	assert.False(t, IsReservedCommunitySlug("my-admin"))
	assert.False(t, IsReservedCommunitySlug(""))
}
