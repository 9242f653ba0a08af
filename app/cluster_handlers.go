package app

import (
	"github.com/commstack/portal/clusters"
	"github.com/commstack/portal/model"
)

// register handlers for ClusterMessages arriving over redis pub/sub
func (a *App) registerAllClusterMessageHandlers() {
	a.Srv.Cluster.RegisterClusterMessageHandler(model.CLUSTER_EVENT_CLEAR_SESSION_CACHE_FOR_USER, clusters.NewClusterMessageHandler(a.clusterClearSessionCacheForUserHandler))
}

func (a *App) clusterClearSessionCacheForUserHandler(msg *model.ClusterMessage) {
	a.ClearLocalSessionCacheForUser(msg.Data)
}
