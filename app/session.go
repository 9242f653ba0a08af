package app

import (
	"net/http"

	"github.com/commstack/portal/model"
)

func (a *App) CreateSession(session *model.Session) (*model.Session, *model.AppError) {
	session.Token = ""

	session, err := a.Srv.Store.Session().Save(session)
	if err != nil {
		return nil, err
	}

	a.Srv.sessionCache.Set(session.Token, session)

	return session, nil
}

func (a *App) GetSession(token string) (*model.Session, *model.AppError) {
	var session *model.Session

	if err := a.Srv.sessionCache.Get(token, &session); err != nil {
		session = nil
	}

	if session == nil {
		var err *model.AppError
		if session, err = a.Srv.Store.Session().Get(token); err == nil {
			if session != nil {
				if session.Token != token {
					return nil, model.NewAppError("GetSession", "api.context.invalid_token.error", map[string]interface{}{"Token": token, "Error": ""}, "", http.StatusUnauthorized)
				}

				a.Srv.sessionCache.Set(session.Token, session)
			}
		} else if err.StatusCode == http.StatusInternalServerError {
			return nil, err
		}
	}

	if session == nil || session.IsExpired() {
		return nil, model.NewAppError("GetSession", "api.context.invalid_token.error", map[string]interface{}{"Token": token}, "", http.StatusUnauthorized)
	}

	return session, nil
}

func (a *App) RevokeSessionById(sessionId string) *model.AppError {
	session, err := a.Srv.Store.Session().Get(sessionId)
	if err != nil {
		err.StatusCode = http.StatusBadRequest
		return err
	}
	return a.RevokeSession(session)
}

func (a *App) RevokeSession(session *model.Session) *model.AppError {
	if err := a.Srv.Store.Session().Remove(session.Id); err != nil {
		return err
	}

	a.ClearSessionCacheForUser(session.UserId)

	return nil
}

func (a *App) RevokeAllSessions(userId string) *model.AppError {
	if err := a.Srv.Store.Session().RemoveByUserId(userId); err != nil {
		return err
	}

	a.ClearSessionCacheForUser(userId)

	return nil
}

// drop the user's sessions from this node's L1 cache
func (a *App) ClearLocalSessionCacheForUser(userId string) {
	if keys, err := a.Srv.sessionCache.Keys(); err == nil {
		var session *model.Session
		for _, key := range keys {
			if err := a.Srv.sessionCache.Get(key, &session); err == nil {
				if session.UserId == userId {
					a.Srv.sessionCache.Remove(key)
				}
			}
		}
	}
}

// drop the user's sessions from this node's L1 cache and tell the
// rest of the cluster to do the same.
func (a *App) ClearSessionCacheForUser(userId string) {
	a.ClearLocalSessionCacheForUser(userId)

	if a.Srv.Cluster != nil {
		cm := &model.ClusterMessage{
			OmitCluster: a.Srv.clusterId,
			Event:       model.CLUSTER_EVENT_CLEAR_SESSION_CACHE_FOR_USER,
			Data:        userId,
		}

		a.Srv.Cluster.SendClusterMessage(cm)
	}
}
