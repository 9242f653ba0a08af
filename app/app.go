package app

import (
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
)

type App struct {
	Srv *Server

	Log *mlog.Logger

	Session   model.Session
	RequestId string
	// requested client's ip address
	IpAddress string
	// requested url
	Path           string
	UserAgent      string
	AcceptLanguage string
}

func New(options ...AppOption) *App {
	app := &App{}

	for _, option := range options {
		option(app)
	}

	return app
}

func (a *App) Shutdown() {
	a.Srv.Shutdown()
	a.Srv = nil
}
