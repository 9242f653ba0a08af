package model

import (
	"encoding/json"
	"io"
	"net/http"
)

const (
	COMMUNITY_MEMBER_TYPE_NORMAL      = "normal"
	COMMUNITY_MEMBER_TYPE_CONTRIBUTOR = "contributor"
	COMMUNITY_MEMBER_TYPE_MANAGER     = "manager"
	COMMUNITY_MEMBER_TYPE_ADMIN       = "admin"

	COMMUNITY_MEMBER_SORT_TYPE_USERNAME = "username"
)

type CommunityMember struct {
	CommunityId string `db:"CommunityId" json:"community_id"`
	UserId      string `db:"UserId" json:"user_id"`
	Type        string `db:"Type" json:"type"`
	CreateAt    int64  `db:"CreateAt" json:"create_at"`
	DeleteAt    int64  `db:"DeleteAt" json:"delete_at"`
}

func IsValidCommunityMemberType(memberType string) bool {
	switch memberType {
	case COMMUNITY_MEMBER_TYPE_NORMAL,
		COMMUNITY_MEMBER_TYPE_CONTRIBUTOR,
		COMMUNITY_MEMBER_TYPE_MANAGER,
		COMMUNITY_MEMBER_TYPE_ADMIN:
		return true
	}

	return false
}

func (o *CommunityMember) IsValid() *AppError {
	if len(o.CommunityId) != 26 {
		return NewAppError("CommunityMember.IsValid", "model.community_member.is_valid.community_id.app_error", nil, "", http.StatusBadRequest)
	}

	if len(o.UserId) != 26 {
		return NewAppError("CommunityMember.IsValid", "model.community_member.is_valid.user_id.app_error", nil, "", http.StatusBadRequest)
	}

	if !IsValidCommunityMemberType(o.Type) {
		return NewAppError("CommunityMember.IsValid", "model.community_member.is_valid.type.app_error", nil, "", http.StatusBadRequest)
	}

	return nil
}

func (o *CommunityMember) PreSave() {
	if o.Type == "" {
		o.Type = COMMUNITY_MEMBER_TYPE_NORMAL
	}

	o.CreateAt = GetMillis()
}

func (o *CommunityMember) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func CommunityMemberFromJson(data io.Reader) *CommunityMember {
	var o *CommunityMember
	json.NewDecoder(data).Decode(&o)
	return o
}

type CommunityMembersGetOptions struct {
	// Sort the community members. Accepts "Username", but defaults to "Id".
	Sort string
	// If true, exclude community members whose corresponding user is deleted.
	ExcludeDeletedUsers bool
	// member type
	Type string
}

func CommunityMembersToJson(o []*CommunityMember) string {
	if b, err := json.Marshal(o); err != nil {
		return "[]"
	} else {
		return string(b)
	}
}
