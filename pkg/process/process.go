package process

import (
	"context"
	"sync"

	"github.com/tauraamui/framepipe/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

// Settings describe a generic process. Process is handed a context which
// is cancelled on Stop and returns the signals Wait blocks on, each is
// expected to be closed once its goroutine has exited.
type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	mu                 sync.Mutex
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		return
	}
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.logShutdown()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		p.canceller()
	}
}

func (p *process) Wait() {
	p.mu.Lock()
	signals := p.signals
	p.mu.Unlock()
	for _, sig := range signals {
		<-sig
	}
}
