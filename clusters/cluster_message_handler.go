package clusters

import (
	"github.com/commstack/portal/model"
)

type ClusterMessageHandler interface {
	HandleClusterMessage(cm *model.ClusterMessage)
}

func NewClusterMessageHandler(h func(*model.ClusterMessage)) clusterMessageHandler {
	return clusterMessageHandler{h}
}

type clusterMessageHandler struct {
	handlerFunc func(*model.ClusterMessage)
}

func (h clusterMessageHandler) HandleClusterMessage(cm *model.ClusterMessage) {
	h.handlerFunc(cm)
}
