package web

import (
	"net/http"
	"path"
	"strings"

	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/configservice"
	"github.com/commstack/portal/utils"
	"github.com/gorilla/mux"
)

type Web struct {
	ConfigService configservice.ConfigService
	MainRouter    *mux.Router
}

func New(config configservice.ConfigService, root *mux.Router) *Web {
	web := &Web{
		ConfigService: config,
		MainRouter:    root,
	}

	web.InitRoot()

	return web
}

// InitRoot answers the bare site root so load balancer checks have
// something cheap to hit.
func (w *Web) InitRoot() {
	w.MainRouter.HandleFunc("/", w.root).Methods("GET")
}

func (w *Web) root(rw http.ResponseWriter, r *http.Request) {
	ReturnStatusOK(rw)
}

func ReturnStatusOK(w http.ResponseWriter) {
	m := make(map[string]string)
	m[model.STATUS] = model.STATUS_OK
	w.Write([]byte(model.MapToJson(m)))
}

func IsApiCall(config configservice.ConfigService, r *http.Request) bool {
	subpath, _ := utils.GetSubpathFromConfig(config.Config())

	return strings.HasPrefix(r.URL.Path, path.Join(subpath, "api")+"/")
}
