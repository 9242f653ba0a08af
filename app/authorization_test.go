package app

import (
	"testing"

	"github.com/commstack/portal/model"
	"github.com/stretchr/testify/assert"
)

func TestPostPermission(t *testing.T) {
	cases := []struct {
		PostType string
		Action   string
		Expected *model.Permission
	}{
		{model.POST_TYPE_NEWS, "add", model.PERMISSION_ADD_COMMUNITY_NEWS},
		{model.POST_TYPE_NEWS, "change", model.PERMISSION_CHANGE_COMMUNITY_NEWS},
		{model.POST_TYPE_NEWS, "delete", model.PERMISSION_DELETE_COMMUNITY_NEWS},
		{model.POST_TYPE_RESOURCE, "add", model.PERMISSION_ADD_COMMUNITY_RESOURCE},
		{model.POST_TYPE_RESOURCE, "change", model.PERMISSION_CHANGE_COMMUNITY_RESOURCE},
		{model.POST_TYPE_RESOURCE, "delete", model.PERMISSION_DELETE_COMMUNITY_RESOURCE},
		{model.POST_TYPE_NEWS, "view", nil},
		{"podcast", "add", nil},
		{"", "", nil},
	}

	for _, c := range cases {
		assert.Equal(t, c.Expected, PostPermission(c.PostType, c.Action), "type=%q action=%q", c.PostType, c.Action)
	}
}
