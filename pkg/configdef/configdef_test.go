package configdef_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/framepipe/pkg/configdef"
)

const validBody = `{
	"pipeline": {
		"width": 200,
		"height": 200,
		"capacity": 20,
		"generator": "solid",
		"fps": 60
	},
	"display": {
		"width": 640,
		"height": 480,
		"fps": 60
	}
}`

func parse(is *is.I, body string) configdef.Values {
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(body), &config))
	return config
}

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	is.NoErr(parse(is, validBody).RunValidate())
}

func TestValidateEmptyConfigFailsOnPipelineWidth(t *testing.T) {
	is := is.New(t)
	config := parse(is, `{}`)
	is.Equal(config.RunValidate().Error(), `Validation error in field "Width" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForZeroCapacity(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Pipeline.Capacity = 0
	is.Equal(config.RunValidate().Error(), `Validation error in field "Capacity" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForNegativeHeight(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Pipeline.Height = -200
	is.Equal(config.RunValidate().Error(), `Validation error in field "Height" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForUnknownGenerator(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Pipeline.Generator = "plasma"
	is.Equal(config.RunValidate().Error(), `Validation error in field "Generator" of type "string" using validator "one_of=solid,label"`)
}

func TestValidateFailsForDisplayFPSMoreThan240(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Display.FPS = 500
	is.Equal(config.RunValidate().Error(), `Validation error in field "FPS" of type "int" using validator "lte=240"`)
}

func TestValidateFailsForOversizedFrameBuffer(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Pipeline.Width = 7680
	config.Pipeline.Height = 4320
	is.Equal(config.RunValidate().Error(), "validation failed: pipeline frame buffer exceeds allocation limit")
}

func TestPipelineTimeouts(t *testing.T) {
	is := is.New(t)
	p := configdef.Pipeline{PopTimeoutMS: 250, StopTimeoutMS: 5000}
	is.Equal(p.PopTimeout(), 250*time.Millisecond)
	is.Equal(p.StopTimeout(), 5*time.Second)
}

func TestExceedsFrameBufferLimit(t *testing.T) {
	is := is.New(t)
	is.True(configdef.ExceedsFrameBufferLimit(200, 200) == false)
	is.True(configdef.ExceedsFrameBufferLimit(5000, 5000))
	is.True(configdef.ExceedsFrameBufferLimit(math.MaxInt, 2))
	is.True(configdef.ExceedsFrameBufferLimit(0, 10) == false)
	is.True(configdef.ExceedsFrameBufferLimit(10, -1) == false)
}

func TestValidateFailsForZeroWidthWithFieldError(t *testing.T) {
	is := is.New(t)
	config := parse(is, validBody)
	config.Pipeline.Width = 0
	is.Equal(config.RunValidate().Error(), `Validation error in field "Width" of type "int" using validator "gte=1"`)
}
