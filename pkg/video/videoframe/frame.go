package videoframe

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/tauraamui/xerror"
)

// BytesPerPixel is fixed, pixels are packed R, G, B with no padding.
const BytesPerPixel = 3

var (
	ErrInvalidDimensions = errors.New("frame dimensions must be positive")
	ErrPixelBufferSize   = errors.New("pixel buffer size does not match frame dimensions")
)

type Dimensions struct {
	W, H int
}

// BufferLen is the exact pixel buffer length a frame of these
// dimensions must carry.
func (d Dimensions) BufferLen() (int, error) {
	if d.W <= 0 || d.H <= 0 {
		return 0, xerror.Errorf("%w: %dx%d", ErrInvalidDimensions, d.W, d.H)
	}
	if d.W > math.MaxInt/BytesPerPixel/d.H {
		return 0, xerror.Errorf("%w: %dx%d overflows buffer length", ErrInvalidDimensions, d.W, d.H)
	}
	return d.W * d.H * BytesPerPixel, nil
}

// Frame is one generated image plus its producer assigned sequence.
// The pixel content is never modified once constructed, ownership of
// the frame moves between goroutines and the last holder closes it.
type Frame struct {
	seq       uint64
	timestamp time.Time
	dims      Dimensions
	mu        sync.Mutex
	pixels    []byte
	closed    bool
}

var TimeNow = func() time.Time {
	return time.Now()
}

// New takes ownership of pixels, the caller must not retain or write to it.
func New(seq uint64, dims Dimensions, pixels []byte) (*Frame, error) {
	size, err := dims.BufferLen()
	if err != nil {
		return nil, err
	}

	if len(pixels) != size {
		return nil, xerror.Errorf(
			"%w: got %d bytes, %dx%d needs %d", ErrPixelBufferSize, len(pixels), dims.W, dims.H, size,
		)
	}

	return &Frame{
		seq:       seq,
		timestamp: TimeNow(),
		dims:      dims,
		pixels:    pixels,
	}, nil
}

func (f *Frame) Seq() uint64 {
	return f.seq
}

func (f *Frame) Timestamp() time.Time {
	return f.timestamp
}

func (f *Frame) Dimensions() Dimensions {
	return f.dims
}

// Pixels returns the row-major RGB buffer, nil once closed. The slice
// is shared with every holder of the frame and must not be written to.
func (f *Frame) Pixels() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixels
}

func (f *Frame) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close releases the pixel buffer, calling it more than once is a no-op.
func (f *Frame) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pixels = nil
	f.closed = true
}
