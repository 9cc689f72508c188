package config

import (
	"github.com/tauraamui/framepipe/internal/config"
	"github.com/tauraamui/framepipe/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
