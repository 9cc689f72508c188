package config

import (
	"github.com/tauraamui/framepipe/internal/config"
	"github.com/tauraamui/framepipe/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
