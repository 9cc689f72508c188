package render

import (
	"context"
	"errors"
	"time"

	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/framepipe/pkg/pipeline"
	"github.com/tauraamui/framepipe/pkg/process"
	"github.com/tauraamui/framepipe/pkg/video/videoframe"
)

type FrameSource interface {
	NextFrame(context.Context) (*videoframe.Frame, error)
}

// NewRenderProcess consumes frames from source at up to fps frames a
// second (unpaced when zero), uploads each and releases it. The process
// exits on Stop or once the source stops running.
func NewRenderProcess(source FrameSource, uploader Uploader, fps int) process.Process {
	return process.New(process.Settings{
		WaitForShutdownMsg: "Stopping frame render loop...",
		Process: func(ctx context.Context) []chan interface{} {
			stopping := make(chan interface{})
			go func() {
				defer close(stopping)
				renderLoop(ctx, source, uploader, fps)
			}()
			return []chan interface{}{stopping}
		},
	})
}

func renderLoop(ctx context.Context, source FrameSource, uploader Uploader, fps int) {
	var pace <-chan time.Time
	if fps > 0 {
		ticker := time.NewTicker(process.FrameInterval(fps))
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		}

		if !renderFrame(ctx, source, uploader) {
			return
		}
	}
}

func renderFrame(ctx context.Context, source FrameSource, uploader Uploader) bool {
	frame, err := source.NextFrame(ctx)
	if err != nil {
		switch {
		case ctx.Err() != nil, errors.Is(err, pipeline.ErrNotRunning):
			log.Debug("Render loop has no more frames: %s", err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			log.Warn("Timed out waiting for frame to render")
			return true
		default:
			log.Error("Unable to retrieve frame to render: %s", err.Error())
		}
		return false
	}
	defer frame.Close()

	if err := uploader.Upload(frame); err != nil {
		log.Error("Unable to upload frame %d: %s", frame.Seq(), err.Error())
		return true
	}
	log.Debug("Uploaded frame %d", frame.Seq())
	return true
}
