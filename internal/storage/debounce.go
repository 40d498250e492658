package storage

import (
	"sync"
	"time"

	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/models"
)

// Persister collapses bursts of mutations into single durable writes with
// trailing-debounce semantics: every Schedule restarts the quiet-period
// timer, and only when it elapses untouched is the provider asked to save.
// The snapshot is taken at write time, so the write always reflects the
// latest state, so a restarted timer can never let an older value overwrite
// a newer one.
//
// A failed write is logged and dropped; the in-memory state stays
// authoritative and the next mutation's debounce cycle retries naturally.
type Persister struct {
	mu       sync.Mutex
	provider Provider
	delay    time.Duration
	timer    *time.Timer
	snapshot func() models.State
	onSaved  func(err error)
	stopped  bool
}

func NewPersister(provider Provider, delay time.Duration) *Persister {
	return &Persister{provider: provider, delay: delay}
}

// SetOnSaved registers a hook invoked after every flush attempt, with the
// save error if there was one. Used to drive the save indicator.
func (p *Persister) SetOnSaved(fn func(err error)) {
	p.mu.Lock()
	p.onSaved = fn
	p.mu.Unlock()
}

// Schedule (re)arms the debounce window. The snapshot function is called
// when the write actually happens, not now.
func (p *Persister) Schedule(snapshot func() models.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.snapshot = snapshot
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.flush)
}

// Flush writes any pending state immediately, cancelling the armed timer.
// Used on shutdown so a trailing debounce window is not lost.
func (p *Persister) Flush() error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	snapshot := p.snapshot
	p.snapshot = nil
	p.mu.Unlock()

	if snapshot == nil {
		return nil
	}
	return p.save(snapshot)
}

// Stop cancels any pending write without flushing. After Stop the
// persister schedules nothing further.
func (p *Persister) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.snapshot = nil
}

func (p *Persister) flush() {
	p.mu.Lock()
	snapshot := p.snapshot
	p.snapshot = nil
	p.timer = nil
	stopped := p.stopped
	p.mu.Unlock()

	if snapshot == nil || stopped {
		return
	}
	_ = p.save(snapshot) // logged inside
}

func (p *Persister) save(snapshot func() models.State) error {
	err := p.provider.Save(snapshot())
	if err != nil {
		logger.Warn("Failed to persist state", "error", err)
	}

	p.mu.Lock()
	fn := p.onSaved
	p.mu.Unlock()
	if fn != nil {
		fn(err)
	}
	return err
}
