package pipeline

import "time"

// Stats is a point in time snapshot of the current session, zero
// valued outside Running and Stopping.
type Stats struct {
	SessionID string
	Produced  uint64
	Consumed  uint64
	Drained   uint64
	Queued    int
	Capacity  int
	Uptime    time.Duration
}

func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()

	if s == nil {
		return Stats{}
	}

	return Stats{
		SessionID: s.id,
		Produced:  s.producer.Produced(),
		Consumed:  s.consumed.Load(),
		Drained:   s.drained.Load(),
		Queued:    s.channel.Len(),
		Capacity:  s.channel.Cap(),
		Uptime:    TimeNow().Sub(s.startedAt),
	}
}
