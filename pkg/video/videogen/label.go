package videogen

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const labelTimeFormat = "2006-01-02 15:04:05.000"

var TimeNow = func() time.Time {
	return time.Now()
}

var (
	parseFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

func loadFont() (*truetype.Font, error) {
	parseFontOnce.Do(func() {
		labelFont, labelFontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// Label draws the title, the frame sequence and the wall clock time
// over the solid colour pattern, so a consumer can see both the cadence
// and the latency of what it is displaying.
func Label(title string) Generator {
	return &labelGenerator{title: title}
}

type labelGenerator struct {
	title string
}

func (g *labelGenerator) Generate(seq uint64, dims videoframe.Dimensions) ([]byte, error) {
	data, err := allocate(dims)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorForSeq(seq)), image.Point{}, draw.Src)

	lines := []string{fmt.Sprintf("#%d", seq), TimeNow().Format(labelTimeFormat)}
	if len(g.title) > 0 {
		lines = append([]string{g.title}, lines...)
	}

	if err := drawLines(canvas, lines); err != nil {
		return nil, xerror.Errorf("unable to draw label onto frame %d: %w", seq, err)
	}

	toRGB(canvas, data)
	return data, nil
}

func drawLines(canvas *image.RGBA, lines []string) error {
	fontFace, err := loadFont()
	if err != nil {
		return err
	}

	height := canvas.Bounds().Dy()
	lineHeight := height / (len(lines) + 1)
	fontSize := float64(lineHeight) * 0.8
	if fontSize < 1 {
		return nil
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.Black,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}

	for i, line := range lines {
		fontDrawer.Dot = fixed.Point26_6{
			X: fixed.I(lineHeight / 4),
			Y: fixed.I(lineHeight * (i + 1)),
		}
		fontDrawer.DrawString(line)
	}
	return nil
}

func toRGB(src *image.RGBA, dst []byte) {
	b := src.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[(y-b.Min.Y)*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[i] = row[x*4]
			dst[i+1] = row[x*4+1]
			dst[i+2] = row[x*4+2]
			i += videoframe.BytesPerPixel
		}
	}
}
