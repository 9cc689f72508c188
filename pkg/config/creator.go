package config

import (
	"github.com/tauraamui/framepipe/internal/config"
	"github.com/tauraamui/framepipe/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
