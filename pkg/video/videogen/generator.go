package videogen

import (
	"errors"
	"strings"

	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// MaxBufferLen caps a single frame allocation at 64MiB.
const MaxBufferLen = 1 << 26

var (
	ErrAllocation       = errors.New("unable to allocate frame pixel buffer")
	ErrUnknownGenerator = errors.New("unknown frame generator")
)

// Generator synthesises the pixel content for one frame. Returned
// buffers are row-major RGB and exactly dims.BufferLen() long.
type Generator interface {
	Generate(seq uint64, dims videoframe.Dimensions) ([]byte, error)
}

type GeneratorFunc func(seq uint64, dims videoframe.Dimensions) ([]byte, error)

func (f GeneratorFunc) Generate(seq uint64, dims videoframe.Dimensions) ([]byte, error) {
	return f(seq, dims)
}

const (
	SOLID = "solid"
	LABEL = "label"
)

func Default() Generator {
	return Solid()
}

func Resolve(name string) (Generator, error) {
	switch strings.ToLower(name) {
	case "", SOLID:
		return Solid(), nil
	case LABEL:
		return Label(""), nil
	default:
		return nil, xerror.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
}

func allocate(dims videoframe.Dimensions) ([]byte, error) {
	size, err := dims.BufferLen()
	if err != nil {
		return nil, xerror.Errorf("%w: %w", ErrAllocation, err)
	}
	if size > MaxBufferLen {
		return nil, xerror.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocation, size, MaxBufferLen)
	}
	return make([]byte, size), nil
}
