package framechan

import (
	"context"
	"errors"
	"sync"

	"github.com/tauraamui/framepipe/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var (
	ErrInvalidCapacity   = errors.New("channel capacity must be at least 1")
	ErrDimensionMismatch = errors.New("frame dimensions do not match channel")
	ErrClosed            = errors.New("frame channel closed")
)

// Channel is a fixed capacity FIFO hand-off between one producing and
// one consuming goroutine. Push blocks while full, Pop blocks while
// empty, both waits give up when the channel is closed or their context
// ends.
type Channel struct {
	dims     videoframe.Dimensions
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	ring     []*videoframe.Frame
	head     int
	count    int
	closed   bool
	sealErr  error
}

func New(capacity int, dims videoframe.Dimensions) (*Channel, error) {
	if capacity < 1 {
		return nil, xerror.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if _, err := dims.BufferLen(); err != nil {
		return nil, err
	}

	c := Channel{
		dims: dims,
		ring: make([]*videoframe.Frame, capacity),
	}
	c.notFull = sync.NewCond(&c.mu)
	c.notEmpty = sync.NewCond(&c.mu)
	return &c, nil
}

// Push hands ownership of frame to the channel. On error ownership
// stays with the caller.
func (c *Channel) Push(ctx context.Context, frame *videoframe.Frame) error {
	if frame.Dimensions() != c.dims {
		d := frame.Dimensions()
		return xerror.Errorf("%w: got %dx%d, want %dx%d", ErrDimensionMismatch, d.W, d.H, c.dims.W, c.dims.H)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wait(ctx, c.notFull, c.pushRefused, c.isFull); err != nil {
		return err
	}

	c.ring[(c.head+c.count)%len(c.ring)] = frame
	c.count++
	c.notEmpty.Broadcast()
	return nil
}

// Pop removes and returns the oldest frame, the caller owns it afterwards.
func (c *Channel) Pop(ctx context.Context) (*videoframe.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wait(ctx, c.notEmpty, c.popRefused, c.isEmpty); err != nil {
		return nil, err
	}

	frame := c.ring[c.head]
	c.ring[c.head] = nil
	c.head = (c.head + 1) % len(c.ring)
	c.count--
	c.notFull.Broadcast()
	return frame, nil
}

// wait must be called with mu held. It re-checks blocked on every wake
// so spurious wakeups and lost races just go round again.
func (c *Channel) wait(ctx context.Context, cond *sync.Cond, refused func() error, blocked func() bool) error {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			cond.Broadcast()
		})
		defer stop()
	}

	for {
		if err := refused(); err != nil {
			return err
		}
		if !blocked() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cond.Wait()
	}
}

func (c *Channel) pushRefused() error {
	if c.closed {
		return ErrClosed
	}
	return c.sealErr
}

// popRefused lets a sealed channel hand out what it still holds
// before reporting the seal error.
func (c *Channel) popRefused() error {
	if c.closed {
		return ErrClosed
	}
	if c.sealErr != nil && c.count == 0 {
		return c.sealErr
	}
	return nil
}

func (c *Channel) isFull() bool {
	return c.count == len(c.ring)
}

func (c *Channel) isEmpty() bool {
	return c.count == 0
}

// Drain discards every queued frame and returns how many were dropped.
// Waiters are not signalled.
func (c *Channel) Drain() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := c.count
	for c.count > 0 {
		c.ring[c.head].Close()
		c.ring[c.head] = nil
		c.head = (c.head + 1) % len(c.ring)
		c.count--
	}
	c.head = 0
	return dropped
}

// Close clears the active flag and wakes every waiter, all further
// pushes and pops return ErrClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.notFull.Broadcast()
	c.notEmpty.Broadcast()
}

// Seal ends the stream from the producing side. Pushes are refused,
// pops return what is left and then err.
func (c *Channel) Seal(err error) {
	if err == nil {
		err = ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealErr == nil {
		c.sealErr = err
	}
	c.notFull.Broadcast()
	c.notEmpty.Broadcast()
}

// Len is for diagnostics only, checking it before Pop is racy.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Channel) Cap() int {
	return len(c.ring)
}

func (c *Channel) Dimensions() videoframe.Dimensions {
	return c.dims
}
