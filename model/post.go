package model

import (
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"
)

const (
	POST_TYPE_NEWS     = "news"
	POST_TYPE_RESOURCE = "resource"

	// take care of mysql's ft_min_word_len
	POST_TITLE_MIN_RUNES = 5
	POST_TITLE_MAX_RUNES = 255
	POST_SLUG_MAX_LENGTH = 150
	// take care of mysql's ft_min_word_len
	POST_CONTENT_MIN_RUNES = 5
	POST_CONTENT_MAX_RUNES = 4000
	POST_PROPS_MAX_RUNES   = 4000
	POST_SEARCH_TERMS_MAX  = 200
	POST_SEARCH_MAX_COUNT  = 500
	POST_PROPS_DELETE_BY   = "deleteBy"

	POST_SORT_TYPE_CREATION = "creation"
	POST_SORT_TYPE_ACTIVE   = "active"
)

type Post struct {
	Id          string          `db:"Id, primarykey" json:"id"`
	Type        string          `db:"Type" json:"type"`
	UserId      string          `db:"UserId" json:"user_id"`
	CommunityId string          `db:"CommunityId" json:"community_id"`
	Slug        string          `db:"Slug" json:"slug"`
	Title       string          `db:"Title" json:"title"`
	Content     string          `db:"Content" json:"content"`
	Props       StringInterface `db:"Props" json:"-"`
	CreateAt    int64           `db:"CreateAt" json:"create_at"`
	UpdateAt    int64           `db:"UpdateAt" json:"update_at"`
	EditAt      int64           `db:"EditAt" json:"edit_at"`
	DeleteAt    int64           `db:"DeleteAt" json:"delete_at"`
}

func (o *Post) Clone() *Post {
	copy := *o
	return &copy
}

func (o *Post) ToJson() string {
	copy := o.Clone()
	b, _ := json.Marshal(copy)
	return string(b)
}

func PostFromJson(data io.Reader) *Post {
	var o *Post
	json.NewDecoder(data).Decode(&o)
	return o
}

func IsValidPostType(postType string) bool {
	return postType == POST_TYPE_NEWS || postType == POST_TYPE_RESOURCE
}

func (o *Post) IsValid(maxPostSize int) *AppError {
	if len(o.Id) != 26 {
		return NewAppError("Post.IsValid", "model.post.is_valid.id.app_error", nil, "", http.StatusBadRequest)
	}

	if !IsValidPostType(o.Type) {
		return NewAppError("Post.IsValid", "model.post.is_valid.type.app_error", nil, "type="+o.Type, http.StatusBadRequest)
	}

	if o.CreateAt == 0 {
		return NewAppError("Post.IsValid", "model.post.is_valid.create_at.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if o.UpdateAt == 0 {
		return NewAppError("Post.IsValid", "model.post.is_valid.update_at.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if len(o.UserId) != 26 {
		return NewAppError("Post.IsValid", "model.post.is_valid.user_id.app_error", nil, "", http.StatusBadRequest)
	}

	if len(o.CommunityId) != 26 {
		return NewAppError("Post.IsValid", "model.post.is_valid.community_id.app_error", nil, "", http.StatusBadRequest)
	}

	if utf8.RuneCountInString(o.Title) > POST_TITLE_MAX_RUNES || utf8.RuneCountInString(o.Title) < POST_TITLE_MIN_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.title.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if !IsValidSlug(o.Slug, POST_SLUG_MAX_LENGTH) {
		return NewAppError("Post.IsValid", "model.post.is_valid.slug.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if utf8.RuneCountInString(o.Content) > maxPostSize || utf8.RuneCountInString(o.Content) < POST_CONTENT_MIN_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.content.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if utf8.RuneCountInString(StringInterfaceToJson(o.Props)) > POST_PROPS_MAX_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.props.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	return nil
}

func (o *Post) PreSave() {
	if o.Id == "" {
		o.Id = NewId()
	}

	if o.CreateAt == 0 {
		o.CreateAt = GetMillis()
	}

	o.UpdateAt = o.CreateAt

	o.Title = SanitizeUnicode(o.Title)
	o.Content = SanitizeUnicode(o.Content)

	if len(o.Slug) == 0 {
		o.Slug = Slugify(o.Title)
	}

	o.MakeNonNil()
}

func (o *Post) PreUpdate() {
	o.UpdateAt = GetMillis()
	o.EditAt = o.UpdateAt

	o.Title = SanitizeUnicode(o.Title)
	o.Content = SanitizeUnicode(o.Content)

	o.MakeNonNil()
}

func (o *Post) MakeNonNil() {
	if o.Props == nil {
		o.Props = make(map[string]interface{})
	}
}

func (o *Post) AddProp(key string, value interface{}) {
	o.MakeNonNil()
	o.Props[key] = value
}

// GetPostLink builds the canonical URL for a post, mirroring the site's
// /community/<community slug>/news|resource/<post slug> layout.
func GetPostLink(siteURL string, communitySlug string, postType string, postSlug string) string {
	return siteURL + "/community/" + communitySlug + "/" + postType + "/" + postSlug
}

type GetPostsOptions struct {
	FromDate    int64
	ToDate      int64
	PostType    string
	UserId      string
	SortType    string
	Page        int
	PerPage     int
	CommunityId string
}

type SearchPostsOptions struct {
	Terms       string
	PostType    string
	UserId      string
	SortType    string
	Ids         []string
	FromDate    int64
	ToDate      int64
	Page        int
	PerPage     int
	CommunityId string
}

