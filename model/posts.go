package model

import (
	"encoding/json"
	"io"
)

const (
	POST_CONTENT_LIMIT_LEN = 100
)

type Posts []*Post

func (o Posts) ToJson() string {
	b, err := json.Marshal(o)
	if err != nil {
		return ""
	}

	return string(b)
}

// LimitContentLength trims post bodies for list views, where only a
// preview of the content is rendered.
func (o Posts) LimitContentLength() {
	for _, post := range o {
		if len(post.Content) > POST_CONTENT_LIMIT_LEN {
			post.Content = post.Content[:POST_CONTENT_LIMIT_LEN]
		}
	}
}

func PostsFromJson(data io.Reader) Posts {
	var o Posts
	json.NewDecoder(data).Decode(&o)
	return o
}

type PostsWithCount struct {
	Posts      Posts `json:"posts"`
	TotalCount int64 `json:"total_count"`
}

func (o *PostsWithCount) ToJson() []byte {
	b, _ := json.Marshal(o)
	return b
}

func PostsWithCountFromJson(data io.Reader) *PostsWithCount {
	var o *PostsWithCount
	json.NewDecoder(data).Decode(&o)
	return o
}
