package videogen_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
)

func assertSolid(is *is.I, data []byte, r, g, b byte) {
	for i := 0; i < len(data); i += videoframe.BytesPerPixel {
		is.Equal(data[i:i+3], []byte{r, g, b})
	}
}

func TestSolidAlternatesRedAndYellowEveryThirtyFrames(t *testing.T) {
	is := is.New(t)
	gen := videogen.Solid()
	dims := videoframe.Dimensions{W: 4, H: 3}

	for _, tt := range []struct {
		seq     uint64
		r, g, b byte
	}{
		{seq: 1, r: 0xff},
		{seq: 29, r: 0xff},
		{seq: 30, r: 0xff, g: 0xff},
		{seq: 59, r: 0xff, g: 0xff},
		{seq: 60, r: 0xff},
		{seq: 95, r: 0xff, g: 0xff},
	} {
		data, err := gen.Generate(tt.seq, dims)
		is.NoErr(err)
		is.Equal(len(data), 36)
		assertSolid(is, data, tt.r, tt.g, tt.b)
	}
}

func TestSolidRejectsOversizedBuffer(t *testing.T) {
	is := is.New(t)

	data, err := videogen.Solid().Generate(1, videoframe.Dimensions{W: 8192, H: 8192})
	is.True(data == nil)
	is.True(errors.Is(err, videogen.ErrAllocation))
}

func TestSolidRejectsInvalidDimensions(t *testing.T) {
	is := is.New(t)

	_, err := videogen.Solid().Generate(1, videoframe.Dimensions{W: -2, H: 2})
	is.True(errors.Is(err, videogen.ErrAllocation))
	is.True(errors.Is(err, videoframe.ErrInvalidDimensions))
}

func TestLabelDrawsOverSolidBackground(t *testing.T) {
	is := is.New(t)
	timeNowRef := videogen.TimeNow
	videogen.TimeNow = func() time.Time { return time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC) }
	defer func() { videogen.TimeNow = timeNowRef }()

	dims := videoframe.Dimensions{W: 160, H: 120}
	labelled, err := videogen.Label("test-cam").Generate(1, dims)
	is.NoErr(err)
	is.Equal(len(labelled), 160*120*3)

	plain, err := videogen.Solid().Generate(1, dims)
	is.NoErr(err)
	is.True(!bytes.Equal(labelled, plain))

	// top left corner sits outside any glyph
	is.Equal(labelled[0:3], []byte{0xff, 0x00, 0x00})
}

func TestLabelIsDeterministicForSameSeqAndTime(t *testing.T) {
	is := is.New(t)
	timeNowRef := videogen.TimeNow
	videogen.TimeNow = func() time.Time { return time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC) }
	defer func() { videogen.TimeNow = timeNowRef }()

	dims := videoframe.Dimensions{W: 64, H: 48}
	gen := videogen.Label("")
	first, err := gen.Generate(42, dims)
	is.NoErr(err)
	second, err := gen.Generate(42, dims)
	is.NoErr(err)
	is.Equal(first, second)
}

func TestLabelHandlesTinyFrames(t *testing.T) {
	is := is.New(t)

	data, err := videogen.Label("").Generate(1, videoframe.Dimensions{W: 2, H: 2})
	is.NoErr(err)
	assertSolid(is, data, 0xff, 0x00, 0x00)
}

func TestResolve(t *testing.T) {
	is := is.New(t)

	for _, name := range []string{"", "solid", "SOLID", "label"} {
		gen, err := videogen.Resolve(name)
		is.NoErr(err)
		is.True(gen != nil)
	}

	gen, err := videogen.Resolve("plasma")
	is.True(gen == nil)
	is.True(errors.Is(err, videogen.ErrUnknownGenerator))
	is.Equal(err.Error(), "unknown frame generator: plasma")
}

func TestGeneratorFunc(t *testing.T) {
	is := is.New(t)
	called := false
	gen := videogen.GeneratorFunc(func(seq uint64, dims videoframe.Dimensions) ([]byte, error) {
		called = true
		return nil, nil
	})

	_, err := gen.Generate(1, videoframe.Dimensions{W: 1, H: 1})
	is.NoErr(err)
	is.True(called)
}
