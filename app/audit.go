package app

import (
	"fmt"
	"strings"

	"github.com/commstack/portal/audit"
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
)

func (a *App) GetAudits(userId string, limit int) (model.Audits, *model.AppError) {
	return a.Srv.Store.Audit().Get(userId, 0, limit)
}

func (a *App) GetAuditsPage(userId string, page int, perPage int) (model.Audits, *model.AppError) {
	return a.Srv.Store.Audit().Get(userId, page*perPage, perPage)
}

// MakeAuditRecord creates an audit record pre-populated from the request
// context. The caller marks it Success before returning, otherwise the
// initial status is what gets written.
func (a *App) MakeAuditRecord(event string, initialStatus string) *audit.Record {
	rec := &audit.Record{
		APIPath:   a.Path,
		Event:     event,
		Status:    initialStatus,
		UserID:    a.Session.UserId,
		SessionID: a.Session.Id,
		Client:    a.UserAgent,
		IPAddress: a.IpAddress,
	}

	return rec
}

// LogAuditRec writes the record to the audit table. Failures are logged,
// never surfaced to the caller.
func (a *App) LogAuditRec(rec *audit.Record) {
	if rec == nil {
		return
	}

	extraInfo := "status=" + rec.Status
	for name, val := range rec.Meta {
		extraInfo += fmt.Sprintf(" %s=%v", name, val)
	}

	auditRow := &model.Audit{
		UserId:    rec.UserID,
		IpAddress: rec.IPAddress,
		Action:    strings.TrimSpace(rec.APIPath + " " + rec.Event),
		ExtraInfo: extraInfo,
		SessionId: rec.SessionID,
	}

	if err := a.Srv.Store.Audit().Save(auditRow); err != nil {
		mlog.Error("failed to save audit record", mlog.Err(err))
	}
}
