package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"evocpi/entity"
	"evocpi/internal"
)

const featureName = "CommandDispatcher"

var ErrHandlerRegistered = errors.New("command handler already registered")

// Request carries one parsed command towards its handler
type Request struct {
	Kind          Kind
	RemotePartyId string
	From          entity.PartyRole
	To            entity.PartyRole
	Command       Command
}

// Handler answers a command; a nil response means the handler has no answer
type Handler func(ctx context.Context, request *Request) (*Response, error)

type Option func(*Dispatcher)

// WithDeadline bounds every handler call; without it the timeout of a
// response is advisory only
func WithDeadline(d time.Duration) Option {
	return func(dispatcher *Dispatcher) {
		dispatcher.deadline = d
	}
}

// WithObserver is called after every dispatch with the kind and the final result
func WithObserver(observer func(kind Kind, result ResponseType, fallback bool)) Option {
	return func(dispatcher *Dispatcher) {
		dispatcher.observer = observer
	}
}

// Dispatcher forwards commands to at most one handler per kind
type Dispatcher struct {
	handlers sync.Map
	deadline time.Duration
	observer func(kind Kind, result ResponseType, fallback bool)
	log      internal.LogHandler
}

func NewDispatcher(log internal.LogHandler, opts ...Option) *Dispatcher {
	d := &Dispatcher{log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register installs the handler for kind; a second registration for the same
// kind fails and leaves the first in place
func (d *Dispatcher) Register(kind Kind, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for %s", kind)
	}
	if _, loaded := d.handlers.LoadOrStore(kind, handler); loaded {
		return fmt.Errorf("%w: %s", ErrHandlerRegistered, kind)
	}
	d.log.FeatureEvent(featureName, string(kind), "handler registered")
	return nil
}

func (d *Dispatcher) Unregister(kind Kind) {
	d.handlers.Delete(kind)
}

func (d *Dispatcher) lookup(kind Kind) (Handler, bool) {
	value, ok := d.handlers.Load(kind)
	if !ok {
		return nil, false
	}
	return value.(Handler), true
}

type outcome struct {
	response *Response
	err      error
}

// Dispatch awaits the registered handler; when there is none, or it returns
// nothing, fails, panics, or the context ends first, the fallback applies
func (d *Dispatcher) Dispatch(ctx context.Context, request *Request) *Response {
	handler, ok := d.lookup(request.Kind)
	if !ok {
		d.log.FeatureEvent(featureName, request.RemotePartyId, fmt.Sprintf("%s: no handler registered", request.Kind))
		return d.fallback(request.Kind)
	}

	if d.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.deadline)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		response, err := handler(ctx, request)
		done <- outcome{response: response, err: err}
	}()

	var result outcome
	select {
	case result = <-done:
	case <-ctx.Done():
		// a result that is already there still wins over the cancellation
		select {
		case result = <-done:
		default:
			d.log.FeatureEvent(featureName, request.RemotePartyId, fmt.Sprintf("%s: %v", request.Kind, ctx.Err()))
			return d.fallback(request.Kind)
		}
	}

	if result.err != nil {
		d.log.Error(fmt.Sprintf("command %s from %s", request.Kind, request.RemotePartyId), result.err)
		return d.fallback(request.Kind)
	}
	if result.response == nil {
		return d.fallback(request.Kind)
	}
	d.observe(request.Kind, result.response.Result, false)
	return result.response
}

func (d *Dispatcher) fallback(kind Kind) *Response {
	response := Fallback()
	d.observe(kind, response.Result, true)
	return response
}

func (d *Dispatcher) observe(kind Kind, result ResponseType, fallback bool) {
	if d.observer != nil {
		d.observer(kind, result, fallback)
	}
}
