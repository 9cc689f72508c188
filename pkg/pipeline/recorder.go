package pipeline

import "time"

// Summary describes one finished session. Frames themselves are never
// recorded.
type Summary struct {
	ID         string
	Width      int
	Height     int
	Capacity   int
	StartedAt  time.Time
	StoppedAt  time.Time
	Produced   uint64
	Consumed   uint64
	Drained    uint64
	ProducerOK bool
	Error      string
}

// SessionRecorder is handed a Summary every time a session stops.
type SessionRecorder interface {
	Record(Summary) error
}

type RecorderFunc func(Summary) error

func (f RecorderFunc) Record(s Summary) error {
	return f(s)
}
