package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmailBody(t *testing.T) {
	body := renderEmailBody("invite_body", map[string]interface{}{
		"SenderName":    "alice",
		"CommunityName": "Gophers",
		"Link":          "http://portal.test/signup_user_complete/?t=token",
	})

	assert.Contains(t, body, "alice invited you to the Gophers community")
	assert.Contains(t, body, `<a href="http://portal.test/signup_user_complete/?t=token">`)
}

func TestRenderEmailBodyEscapesUserInput(t *testing.T) {
	body := renderEmailBody("username_change_body", map[string]interface{}{
		"OldUsername": "<script>alert(1)</script>",
		"NewUsername": "bob",
	})

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "to bob")
}

func TestRenderEmailBodyDigestCounts(t *testing.T) {
	body := renderEmailBody("posts_digest_body", map[string]interface{}{
		"CommunityName": "Gophers",
		"PostCount":     "7",
		"SiteURL":       "http://portal.test",
	})

	assert.Contains(t, body, "Gophers published 7 new posts")
	assert.Contains(t, body, `<a href="http://portal.test">`)
}
