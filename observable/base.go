package observable

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/turbot/tailpipe-file-ingest/events"
)

// Base provides a base implementation of the [Observable] interface
type Base struct {
	observerLock sync.RWMutex
	Observers    []Observer
}

func (p *Base) AddObserver(o Observer) error {
	slog.Debug("AddObserver")
	p.observerLock.Lock()
	p.Observers = append(p.Observers, o)
	p.observerLock.Unlock()

	return nil
}

// NotifyObservers calls every observer, an observer error does not stop the others being notified
func (p *Base) NotifyObservers(ctx context.Context, e events.Event) error {
	p.observerLock.RLock()
	defer p.observerLock.RUnlock()
	var notifyErrors []error
	for _, observer := range p.Observers {
		if err := observer.Notify(ctx, e); err != nil {
			notifyErrors = append(notifyErrors, err)
		}
	}

	return errors.Join(notifyErrors...)
}
