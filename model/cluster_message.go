package model

import (
	"encoding/json"
	"io"
)

const (
	// tells the other nodes to drop a user's sessions from their L1 caches
	CLUSTER_EVENT_CLEAR_SESSION_CACHE_FOR_USER = "clear_user_session"
)

type ClusterMessage struct {
	// the publishing node's instance id, so the other nodes
	// can tell the message was not meant for the publisher
	OmitCluster string            `json:"omit_cluster"`
	Event       string            `json:"event"`
	Data        string            `json:"data,omitempty"`
	Props       map[string]string `json:"props,omitempty"`
}

func (o *ClusterMessage) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func ClusterMessageFromJson(data io.Reader) *ClusterMessage {
	var o *ClusterMessage
	json.NewDecoder(data).Decode(&o)
	return o
}
