package config

import (
	"github.com/tauraamui/framepipe/pkg/configdef"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
)

type defaultSettingKey uint

const (
	FRAMEWIDTH    defaultSettingKey = 0x0
	FRAMEHEIGHT   defaultSettingKey = 0x1
	CAPACITY      defaultSettingKey = 0x2
	GENERATOR     defaultSettingKey = 0x3
	TITLE         defaultSettingKey = 0x4
	STOPTIMEOUTMS defaultSettingKey = 0x5
	DISPLAYWIDTH  defaultSettingKey = 0x6
	DISPLAYHEIGHT defaultSettingKey = 0x7
	DISPLAYFPS    defaultSettingKey = 0x8
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FRAMEWIDTH:    200,
	FRAMEHEIGHT:   200,
	CAPACITY:      20,
	GENERATOR:     videogen.SOLID,
	TITLE:         "framepipe",
	STOPTIMEOUTMS: 5000,
	DISPLAYWIDTH:  800,
	DISPLAYHEIGHT: 600,
	DISPLAYFPS:    60,
}

func defaultValues() configdef.Values {
	return configdef.Values{
		Pipeline: configdef.Pipeline{
			Width:         defaultSettings[FRAMEWIDTH].(int),
			Height:        defaultSettings[FRAMEHEIGHT].(int),
			Capacity:      defaultSettings[CAPACITY].(int),
			Generator:     defaultSettings[GENERATOR].(string),
			Title:         defaultSettings[TITLE].(string),
			StopTimeoutMS: defaultSettings[STOPTIMEOUTMS].(int),
		},
		Display: configdef.Display{
			Width:  defaultSettings[DISPLAYWIDTH].(int),
			Height: defaultSettings[DISPLAYHEIGHT].(int),
			FPS:    defaultSettings[DISPLAYFPS].(int),
		},
	}
}
