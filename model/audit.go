package model

import (
	"encoding/json"
	"io"
)

type Audit struct {
	Id        string `db:"Id, primarykey" json:"id"`
	CreateAt  int64  `db:"CreateAt" json:"create_at"`
	UserId    string `db:"UserId" json:"user_id"`
	Action    string `db:"Action" json:"action"`
	ExtraInfo string `db:"ExtraInfo" json:"extra_info"`
	IpAddress string `db:"IpAddress" json:"ip_address"`
	SessionId string `db:"SessionId" json:"session_id"`
}

func (o *Audit) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func AuditFromJson(data io.Reader) *Audit {
	var o *Audit
	json.NewDecoder(data).Decode(&o)
	return o
}

type Audits []Audit

func (o Audits) ToJson() string {
	if b, err := json.Marshal(o); err != nil {
		return "[]"
	} else {
		return string(b)
	}
}

func AuditsFromJson(data io.Reader) Audits {
	var o Audits
	json.NewDecoder(data).Decode(&o)
	return o
}
