package config

import (
	"github.com/tauraamui/framepipe/internal/config"
	"github.com/tauraamui/framepipe/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
