package videogen

import (
	"image/color"

	"github.com/tauraamui/framepipe/pkg/video/videoframe"
)

const (
	colorPeriod     = 60
	colorHalfPeriod = 30
)

var (
	Red    = color.RGBA{R: 0xff, A: 0xff}
	Yellow = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
)

// Solid fills each frame with red for the first half of every 60
// frame period and yellow for the second half.
func Solid() Generator {
	return solidGenerator{}
}

type solidGenerator struct{}

func (g solidGenerator) Generate(seq uint64, dims videoframe.Dimensions) ([]byte, error) {
	data, err := allocate(dims)
	if err != nil {
		return nil, err
	}
	fill(data, colorForSeq(seq))
	return data, nil
}

func colorForSeq(seq uint64) color.RGBA {
	if seq%colorPeriod < colorHalfPeriod {
		return Red
	}
	return Yellow
}

func fill(data []byte, c color.RGBA) {
	for i := 0; i+2 < len(data); i += videoframe.BytesPerPixel {
		data[i] = c.R
		data[i+1] = c.G
		data[i+2] = c.B
	}
}
