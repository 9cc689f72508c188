package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Session{})
}

// Session is the journal entry written once a pipeline session has
// stopped. Frames themselves are never persisted.
type Session struct {
	gorm.Model
	UUID       string `gorm:"uniqueIndex"`
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

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if len(s.UUID) == 0 {
		s.UUID = uuid.NewString()
	}
	return nil
}

func (s Session) Uptime() time.Duration {
	if s.StoppedAt.Before(s.StartedAt) {
		return 0
	}
	return s.StoppedAt.Sub(s.StartedAt)
}
