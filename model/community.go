package model

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	COMMUNITY_EMAIL_MAX_LENGTH       = 128
	COMMUNITY_DESCRIPTION_MAX_LENGTH = 255
	COMMUNITY_NAME_MAX_LENGTH        = 64
	COMMUNITY_NAME_MIN_LENGTH        = 3
	COMMUNITY_SLUG_MAX_LENGTH        = 64

	COMMUNITY_SEARCH_DEFAULT_LIMIT = 10
)

type Community struct {
	Id          string `db:"Id, primarykey" json:"id"`
	Slug        string `db:"Slug" json:"slug"`
	Name        string `db:"Name" json:"name"`
	Description string `db:"Description" json:"description"`
	Email       string `db:"Email" json:"email"`
	InviteId    string `db:"InviteId" json:"invite_id"`
	CreateAt    int64  `db:"CreateAt" json:"create_at"`
	UpdateAt    int64  `db:"UpdateAt" json:"update_at"`
	DeleteAt    int64  `db:"DeleteAt" json:"delete_at"`
}

func (o *Community) IsValid() *AppError {
	if len(o.Id) != 26 {
		return NewAppError("Community.IsValid", "model.community.is_valid.id.app_error", nil, "", http.StatusBadRequest)
	}

	if o.CreateAt == 0 {
		return NewAppError("Community.IsValid", "model.community.is_valid.create_at.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if o.UpdateAt == 0 {
		return NewAppError("Community.IsValid", "model.community.is_valid.update_at.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if len(o.Email) > COMMUNITY_EMAIL_MAX_LENGTH || len(o.Email) == 0 || !IsValidEmail(o.Email) {
		return NewAppError("Community.IsValid", "model.community.is_valid.email.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if len(o.Description) > COMMUNITY_DESCRIPTION_MAX_LENGTH {
		return NewAppError("Community.IsValid", "model.community.is_valid.description.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if len(o.InviteId) == 0 {
		return NewAppError("Community.IsValid", "model.community.is_valid.invite_id.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if len(o.Name) > COMMUNITY_NAME_MAX_LENGTH || len(o.Name) < COMMUNITY_NAME_MIN_LENGTH {
		return NewAppError("Community.IsValid", "model.community.is_valid.name.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if IsReservedCommunitySlug(o.Slug) {
		return NewAppError("Community.IsValid", "model.community.is_valid.reserved.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	if !IsValidSlug(o.Slug, COMMUNITY_SLUG_MAX_LENGTH) {
		return NewAppError("Community.IsValid", "model.community.is_valid.characters.app_error", nil, "id="+o.Id, http.StatusBadRequest)
	}

	return nil
}

func (o *Community) PreSave() {
	if o.Id == "" {
		o.Id = NewId()
	}

	o.CreateAt = GetMillis()
	o.UpdateAt = o.CreateAt

	o.Name = SanitizeUnicode(o.Name)
	o.Description = SanitizeUnicode(o.Description)

	if len(o.Slug) == 0 {
		o.Slug = Slugify(o.Name)
	}

	if len(o.InviteId) == 0 {
		o.InviteId = NewId()
	}
}

func (o *Community) PreUpdate() {
	o.UpdateAt = GetMillis()
	o.Name = SanitizeUnicode(o.Name)
	o.Description = SanitizeUnicode(o.Description)
}

func (o *Community) SanitizeInput() {
	o.InviteId = ""
}

func CommunityFromJson(data io.Reader) *Community {
	var o *Community
	json.NewDecoder(data).Decode(&o)
	return o
}

func (o *Community) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func CommunityListToJson(c []*Community) string {
	b, _ := json.Marshal(c)
	return string(b)
}

var reservedSlug = []string{
	"admin",
	"api",
	"error",
	"login",
	"signup",
}

func (o *Community) Sanitize() {
	o.Email = ""
	o.InviteId = ""
}

func IsReservedCommunitySlug(s string) bool {
	s = strings.ToLower(s)

	for _, value := range reservedSlug {
		if strings.Index(s, value) == 0 {
			return true
		}
	}

	return false
}
