package config

import (
	"github.com/commstack/portal/model"
)

type Store interface {
	Get() *model.Config
	Close() error
}
