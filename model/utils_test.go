package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		Input    string
		Expected string
	}{
		{"Weekly News", "weekly-news"},
		{"weekly_news", "weekly-news"},
		{"Weekly   News", "weekly-news"},
		{"Hello, World!", "hello-world"},
		{"--already--slugged--", "already-slugged"},
		{"MixedCASE", "mixedcase"},
		{"release v1.2.3", "release-v1-2-3"},
		{"", ""},
		{"!!!", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.Expected, Slugify(c.Input), "input: %q", c.Input)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("weekly-news", COMMUNITY_SLUG_MAX_LENGTH))
	assert.True(t, IsValidSlug("a", COMMUNITY_SLUG_MAX_LENGTH))
	assert.True(t, IsValidSlug(strings.Repeat("a", COMMUNITY_SLUG_MAX_LENGTH), COMMUNITY_SLUG_MAX_LENGTH))

	assert.False(t, IsValidSlug("", COMMUNITY_SLUG_MAX_LENGTH))
	assert.False(t, IsValidSlug(strings.Repeat("a", COMMUNITY_SLUG_MAX_LENGTH+1), COMMUNITY_SLUG_MAX_LENGTH))
	assert.False(t, IsValidSlug("Weekly-News", COMMUNITY_SLUG_MAX_LENGTH))
	assert.False(t, IsValidSlug("weekly news", COMMUNITY_SLUG_MAX_LENGTH))
	assert.False(t, IsValidSlug("weekly_news", COMMUNITY_SLUG_MAX_LENGTH))
	assert.False(t, IsValidSlug("-weekly-news", COMMUNITY_SLUG_MAX_LENGTH))
}

func TestNewId(t *testing.T) {
	for i := 0; i < 3; i++ {
		id := NewId()
		require.Len(t, id, 26)
	}
}
