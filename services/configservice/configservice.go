package configservice

import (
	"github.com/commstack/portal/model"
)

// ConfigService is an interface representing something that can provide the
// server configuration.
type ConfigService interface {
	Config() *model.Config
}
