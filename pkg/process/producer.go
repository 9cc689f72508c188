package process

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/framepipe/pkg/video/framechan"
	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
	"github.com/tauraamui/xerror"
)

var ErrSynthesis = errors.New("frame synthesis failed")

// FrameSink is the producing side of a frame channel.
type FrameSink interface {
	Push(context.Context, *videoframe.Frame) error
	Seal(error)
	Dimensions() videoframe.Dimensions
}

type Producer interface {
	Process
	// Done is closed once the producer goroutine has exited.
	Done() <-chan interface{}
	// Err is the failure which stopped the producer, nil after a
	// requested stop.
	Err() error
	Produced() uint64
}

type ProducerSettings struct {
	Generator videogen.Generator
	Dest      FrameSink
	// FPS paces generation, zero produces as fast as the sink accepts.
	FPS int
}

// FrameInterval is the ticker period for fps, never shorter than 1ns.
func FrameInterval(fps int) time.Duration {
	interval := time.Second / time.Duration(fps)
	if interval < 1 {
		return 1
	}
	return interval
}

func NewProducerProcess(settings ProducerSettings) Producer {
	ctx, cancel := context.WithCancel(context.Background())
	gen := settings.Generator
	if gen == nil {
		gen = videogen.Default()
	}
	return &producerProcess{
		ctx: ctx, cancel: cancel,
		generator: gen,
		dest:      settings.Dest,
		dims:      settings.Dest.Dimensions(),
		fps:       settings.FPS,
		stopping:  make(chan interface{}),
	}
}

type producerProcess struct {
	ctx       context.Context
	cancel    context.CancelFunc
	generator videogen.Generator
	dest      FrameSink
	dims      videoframe.Dimensions
	fps       int
	stopping  chan interface{}
	startOnce sync.Once
	produced  atomic.Uint64
	mu        sync.Mutex
	err       error
}

func (proc *producerProcess) Setup() Process { return proc }

func (proc *producerProcess) Start() {
	proc.startOnce.Do(func() {
		go proc.run()
	})
}

func (proc *producerProcess) run() {
	defer close(proc.stopping)
	log.Debug("Frame producer starting: %dx%d", proc.dims.W, proc.dims.H)

	var pace <-chan time.Time
	if proc.fps > 0 {
		ticker := time.NewTicker(FrameInterval(proc.fps))
		defer ticker.Stop()
		pace = ticker.C
	}

	var seq uint64
	for {
		select {
		case <-proc.ctx.Done():
			return
		default:
		}

		if pace != nil {
			select {
			case <-proc.ctx.Done():
				return
			case <-pace:
			}
		}

		seq++
		frame, err := proc.synthesize(seq)
		if err != nil {
			proc.fail(err)
			return
		}

		if err := proc.dest.Push(proc.ctx, frame); err != nil {
			frame.Close()
			if proc.ctx.Err() != nil || errors.Is(err, framechan.ErrClosed) {
				log.Debug("Frame producer stopped while pushing frame %d", seq)
				return
			}
			proc.fail(xerror.Errorf("unable to push frame %d: %w", seq, err))
			return
		}
		proc.produced.Add(1)
	}
}

func (proc *producerProcess) synthesize(seq uint64) (frame *videoframe.Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			frame = nil
			err = xerror.Errorf("%w: frame %d: %v", ErrSynthesis, seq, r)
		}
	}()

	pixels, err := proc.generator.Generate(seq, proc.dims)
	if err != nil {
		return nil, xerror.Errorf("%w: frame %d: %w", ErrSynthesis, seq, err)
	}

	frame, err = videoframe.New(seq, proc.dims, pixels)
	if err != nil {
		return nil, xerror.Errorf("%w: frame %d: %w", ErrSynthesis, seq, err)
	}
	return frame, nil
}

func (proc *producerProcess) fail(err error) {
	proc.mu.Lock()
	proc.err = err
	proc.mu.Unlock()

	log.Error("Frame producer failed: %s", err.Error())
	proc.dest.Seal(err)
}

func (proc *producerProcess) Stop() {
	proc.cancel()
}

func (proc *producerProcess) Wait() {
	<-proc.stopping
}

func (proc *producerProcess) Done() <-chan interface{} {
	return proc.stopping
}

func (proc *producerProcess) Err() error {
	proc.mu.Lock()
	defer proc.mu.Unlock()
	return proc.err
}

func (proc *producerProcess) Produced() uint64 {
	return proc.produced.Load()
}
