package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/framepipe/pkg/process"
	"github.com/tauraamui/framepipe/pkg/video/framechan"
	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
	"github.com/tauraamui/xerror"
)

const (
	DefaultCapacity    = 20
	DefaultStopTimeout = 5 * time.Second
)

var (
	ErrInvalidDimensions = errors.New("frame width and height must be positive")
	ErrInvalidCapacity   = errors.New("pipeline capacity must be at least 1")
	ErrAlreadyRunning    = errors.New("pipeline already running")
	ErrNotRunning        = errors.New("pipeline not running")
	ErrProducerFailed    = errors.New("frame producer failed")
	ErrStopTimeout       = errors.New("timed out waiting for frame producer to exit")
)

type Settings struct {
	// Capacity bounds the frames in flight and must be at least 1.
	Capacity  int
	Generator videogen.Generator
	// FPS paces the producer, zero is unpaced.
	FPS int
	// PopTimeout bounds every NextFrame wait, zero waits until a frame
	// arrives, the caller's context ends or the pipeline stops.
	PopTimeout time.Duration
	// StopTimeout bounds how long Stop waits for the producer to exit,
	// zero means DefaultStopTimeout.
	StopTimeout time.Duration
	Recorder    SessionRecorder
}

// Pipeline owns one producer goroutine and the bounded channel it
// feeds. Start and Stop drive the lifecycle, NextFrame is the only read
// entry point for the rendering side.
type Pipeline struct {
	settings Settings
	mu       sync.Mutex
	state    State
	session  *session
	lastErr  error
}

type session struct {
	id        string
	dims      videoframe.Dimensions
	startedAt time.Time
	channel   *framechan.Channel
	producer  process.Producer
	consumed  atomic.Uint64
	drained   atomic.Uint64
	// inflight tracks NextFrame calls so Stop records every handed out frame.
	inflight  sync.WaitGroup
}

func DefaultSettings() Settings {
	return Settings{
		Capacity:    DefaultCapacity,
		Generator:   videogen.Default(),
		StopTimeout: DefaultStopTimeout,
	}
}

func New(settings Settings) *Pipeline {
	if settings.StopTimeout <= 0 {
		settings.StopTimeout = DefaultStopTimeout
	}
	if settings.Generator == nil {
		settings.Generator = videogen.Default()
	}
	return &Pipeline{settings: settings, state: Uninitialized}
}

var TimeNow = func() time.Time {
	return time.Now()
}

// Start validates the configuration before anything is allocated, then
// creates the channel and launches the producer with fresh sequence
// numbering.
func (p *Pipeline) Start(width, height int) error {
	if width <= 0 || height <= 0 {
		return xerror.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if p.settings.Capacity < 1 {
		return xerror.Errorf("%w: %d", ErrInvalidCapacity, p.settings.Capacity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Running || p.state == Stopping {
		return xerror.Errorf("%w: state %s", ErrAlreadyRunning, p.state)
	}

	dims := videoframe.Dimensions{W: width, H: height}
	channel, err := framechan.New(p.settings.Capacity, dims)
	if err != nil {
		return xerror.Errorf("%w: %w", ErrInvalidDimensions, err)
	}

	s := session{
		id:        uuid.NewString(),
		dims:      dims,
		startedAt: TimeNow(),
		channel:   channel,
	}
	s.producer = process.NewProducerProcess(process.ProducerSettings{
		Generator: p.settings.Generator,
		Dest:      channel,
		FPS:       p.settings.FPS,
	})

	p.session = &s
	p.lastErr = nil
	p.state = Running
	s.producer.Setup().Start()

	log.Info("Started frame pipeline session [%s]: %dx%d, capacity %d", s.id, width, height, p.settings.Capacity)
	return nil
}

// Stop signals the producer, drains the channel and waits for the
// producer to exit. The wait is bounded by StopTimeout so Stop always
// completes, ErrStopTimeout reports a producer left behind.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.state != Running {
		state := p.state
		p.mu.Unlock()
		return xerror.Errorf("%w: state %s", ErrNotRunning, state)
	}
	p.state = Stopping
	s := p.session
	p.mu.Unlock()

	log.Info("Stopping frame pipeline session [%s]...", s.id)
	s.producer.Stop()
	s.channel.Close()
	s.inflight.Wait()
	s.drained.Add(uint64(s.channel.Drain()))

	var stopErr error
	select {
	case <-s.producer.Done():
	case <-time.After(p.settings.StopTimeout):
		stopErr = xerror.Errorf("%w: session %s after %s", ErrStopTimeout, s.id, p.settings.StopTimeout)
		log.Error(stopErr.Error())
	}
	s.drained.Add(uint64(s.channel.Drain()))

	producerErr := s.producer.Err()
	p.record(s, producerErr)

	p.mu.Lock()
	p.lastErr = producerErr
	p.session = nil
	p.state = Stopped
	p.mu.Unlock()

	log.Info(
		"Stopped frame pipeline session [%s]: produced %d, consumed %d, drained %d",
		s.id, s.producer.Produced(), s.consumed.Load(), s.drained.Load(),
	)
	return stopErr
}

// NextFrame blocks until the oldest frame is available and hands its
// ownership to the caller, who must Close it after use. Calling it
// outside Running fails immediately with ErrNotRunning.
func (p *Pipeline) NextFrame(ctx context.Context) (*videoframe.Frame, error) {
	p.mu.Lock()
	if p.state != Running {
		state := p.state
		p.mu.Unlock()
		return nil, xerror.Errorf("%w: state %s", ErrNotRunning, state)
	}
	s := p.session
	s.inflight.Add(1)
	p.mu.Unlock()
	defer s.inflight.Done()

	if p.settings.PopTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.PopTimeout)
		defer cancel()
	}

	frame, err := s.channel.Pop(ctx)
	if err != nil {
		switch {
		case errors.Is(err, framechan.ErrClosed):
			return nil, xerror.Errorf("%w: session %s stopped", ErrNotRunning, s.id)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, xerror.Errorf("%w: %w", ErrProducerFailed, err)
		}
	}

	s.consumed.Add(1)
	return frame, nil
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err reports the producer failure of the running session, or of the
// last stopped one.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		return p.session.producer.Err()
	}
	return p.lastErr
}

// SessionID is empty outside Running and Stopping.
func (p *Pipeline) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return ""
	}
	return p.session.id
}

func (p *Pipeline) record(s *session, producerErr error) {
	if p.settings.Recorder == nil {
		return
	}

	summary := Summary{
		ID:         s.id,
		Width:      s.dims.W,
		Height:     s.dims.H,
		Capacity:   s.channel.Cap(),
		StartedAt:  s.startedAt,
		StoppedAt:  TimeNow(),
		Produced:   s.producer.Produced(),
		Consumed:   s.consumed.Load(),
		Drained:    s.drained.Load(),
		ProducerOK: producerErr == nil,
	}
	if producerErr != nil {
		summary.Error = producerErr.Error()
	}

	if err := p.settings.Recorder.Record(summary); err != nil {
		log.Error("Unable to record frame pipeline session [%s]: %s", s.id, err.Error())
	}
}
