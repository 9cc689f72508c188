package render

import (
	"errors"
	"image"
	"sync"

	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/draw"
)

var (
	ErrFrameClosed = errors.New("cannot upload closed frame")
	ErrInvalidSize = errors.New("texture size must be positive")
)

type Uploader interface {
	Upload(*videoframe.Frame) error
}

// Texture stands in for the GPU texture a frame ends up in. Uploads
// expand the RGB frame to RGBA and scale it when the sizes differ.
type Texture struct {
	mu      sync.Mutex
	img     *image.RGBA
	scratch *image.RGBA
	uploads uint64
	lastSeq uint64
}

func NewTexture(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, xerror.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Texture{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (t *Texture) Upload(frame *videoframe.Frame) error {
	pixels := frame.Pixels()
	if pixels == nil {
		return xerror.Errorf("%w: frame %d", ErrFrameClosed, frame.Seq())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	dims := frame.Dimensions()
	dst := t.img
	scale := dims.W != t.img.Rect.Dx() || dims.H != t.img.Rect.Dy()
	if scale {
		if t.scratch == nil || t.scratch.Rect.Dx() != dims.W || t.scratch.Rect.Dy() != dims.H {
			t.scratch = image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))
		}
		dst = t.scratch
	}

	expandRGB(pixels, dst)
	if scale {
		draw.ApproxBiLinear.Scale(t.img, t.img.Bounds(), dst, dst.Bounds(), draw.Src, nil)
	}

	t.uploads++
	t.lastSeq = frame.Seq()
	return nil
}

func expandRGB(src []byte, dst *image.RGBA) {
	j := 0
	for i := 0; i+2 < len(src); i += videoframe.BytesPerPixel {
		dst.Pix[j] = src[i]
		dst.Pix[j+1] = src[i+1]
		dst.Pix[j+2] = src[i+2]
		dst.Pix[j+3] = 0xff
		j += 4
	}
}

// Snapshot copies the current texture content.
func (t *Texture) Snapshot() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	clone := image.NewRGBA(t.img.Rect)
	copy(clone.Pix, t.img.Pix)
	return clone
}

func (t *Texture) Uploads() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uploads
}

func (t *Texture) LastSeq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeq
}
