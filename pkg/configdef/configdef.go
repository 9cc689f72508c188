package configdef

import (
	"errors"
	"fmt"
	"time"

	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
	"gopkg.in/dealancer/validate.v2"
)

type Pipeline struct {
	Width         int    `json:"width" validate:"gte=1 & lte=7680"`
	Height        int    `json:"height" validate:"gte=1 & lte=4320"`
	Capacity      int    `json:"capacity" validate:"gte=1 & lte=1024"`
	Generator     string `json:"generator" validate:"one_of=solid,label"`
	Title         string `json:"title"`
	FPS           int    `json:"fps" validate:"gte=0 & lte=240"`
	PopTimeoutMS  int    `json:"pop_timeout_ms" validate:"gte=0"`
	StopTimeoutMS int    `json:"stop_timeout_ms" validate:"gte=0"`
}

func (p Pipeline) PopTimeout() time.Duration {
	return time.Duration(p.PopTimeoutMS) * time.Millisecond
}

func (p Pipeline) StopTimeout() time.Duration {
	return time.Duration(p.StopTimeoutMS) * time.Millisecond
}

type Display struct {
	Width  int `json:"width" validate:"gte=1 & lte=7680"`
	Height int `json:"height" validate:"gte=1 & lte=4320"`
	FPS    int `json:"fps" validate:"gte=0 & lte=240"`
}

type Values struct {
	Debug    bool     `json:"debug"`
	Pipeline Pipeline `json:"pipeline"`
	Display  Display  `json:"display"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if exceedsFrameBufferLimit(v.Pipeline.Width, v.Pipeline.Height) {
		return fmt.Errorf(validationErrorHeader, errors.New("pipeline frame buffer exceeds allocation limit"))
	}
	return nil
}

// exceedsFrameBufferLimit leaves non-positive sides to the field validators.
func exceedsFrameBufferLimit(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	size, err := videoframe.Dimensions{W: width, H: height}.BufferLen()
	if err != nil {
		return true
	}
	return size > videogen.MaxBufferLen
}
