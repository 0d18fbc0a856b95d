package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evocpi/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(kind Kind) *Request {
	return &Request{Kind: kind, RemotePartyId: "ES-ABC"}
}

func assertFallback(t *testing.T, response *Response) {
	t.Helper()
	require.NotNil(t, response)
	assert.Equal(t, NotSupported, response.Result)
	assert.Equal(t, 15*time.Second, response.Timeout)
	require.Len(t, response.Message, 1)
	assert.Equal(t, "Not supported!", response.Message[0].Text)
}

func TestDispatch_NoHandlerFallsBack(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	for _, kind := range Kinds {
		for i := 0; i < 3; i++ {
			assertFallback(t, d.Dispatch(context.Background(), request(kind)))
		}
	}
}

func TestDispatch_HandlerAnswer(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	var got *Request
	require.NoError(t, d.Register(StartSessionKind, func(_ context.Context, r *Request) (*Response, error) {
		got = r
		return &Response{Result: Accepted, Timeout: 30 * time.Second}, nil
	}))

	req := request(StartSessionKind)
	response := d.Dispatch(context.Background(), req)

	assert.Equal(t, Accepted, response.Result)
	assert.Equal(t, 30*time.Second, response.Timeout)
	assert.Same(t, req, got)
	assertFallback(t, d.Dispatch(context.Background(), request(StopSessionKind)))
}

func TestRegister_Twice(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	first := func(context.Context, *Request) (*Response, error) {
		return &Response{Result: Accepted}, nil
	}
	second := func(context.Context, *Request) (*Response, error) {
		return &Response{Result: Rejected}, nil
	}

	require.NoError(t, d.Register(ReserveNowKind, first))
	err := d.Register(ReserveNowKind, second)

	assert.ErrorIs(t, err, ErrHandlerRegistered)
	assert.Equal(t, Accepted, d.Dispatch(context.Background(), request(ReserveNowKind)).Result)
	assert.Error(t, d.Register(CancelReservationKind, nil))
}

func TestRegister_Concurrent(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	handler := func(context.Context, *Request) (*Response, error) {
		return &Response{Result: Accepted}, nil
	}

	var wg sync.WaitGroup
	var mutex sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Register(UnlockConnectorKind, handler) == nil {
				mutex.Lock()
				succeeded++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestUnregister(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	require.NoError(t, d.Register(StopSessionKind, func(context.Context, *Request) (*Response, error) {
		return &Response{Result: Accepted}, nil
	}))
	d.Unregister(StopSessionKind)

	assertFallback(t, d.Dispatch(context.Background(), request(StopSessionKind)))
	assert.NoError(t, d.Register(StopSessionKind, func(context.Context, *Request) (*Response, error) {
		return nil, nil
	}))
}

func TestDispatch_HandlerFailuresFallBack(t *testing.T) {
	handlers := map[string]Handler{
		"nil": func(context.Context, *Request) (*Response, error) {
			return nil, nil
		},
		"error": func(context.Context, *Request) (*Response, error) {
			return &Response{Result: Accepted}, errors.New("backend down")
		},
		"panic": func(context.Context, *Request) (*Response, error) {
			panic("boom")
		},
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			d := NewDispatcher(internal.NewNopLogger())
			require.NoError(t, d.Register(StartSessionKind, handler))
			assertFallback(t, d.Dispatch(context.Background(), request(StartSessionKind)))
		})
	}
}

func TestDispatch_CanceledContext(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger())
	release := make(chan struct{})
	defer close(release)
	require.NoError(t, d.Register(StartSessionKind, func(context.Context, *Request) (*Response, error) {
		<-release
		return &Response{Result: Accepted}, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assertFallback(t, d.Dispatch(ctx, request(StartSessionKind)))
}

func TestDispatch_Deadline(t *testing.T) {
	d := NewDispatcher(internal.NewNopLogger(), WithDeadline(20*time.Millisecond))
	require.NoError(t, d.Register(StopSessionKind, func(ctx context.Context, _ *Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	started := time.Now()
	assertFallback(t, d.Dispatch(context.Background(), request(StopSessionKind)))
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestDispatch_Observer(t *testing.T) {
	type observation struct {
		kind     Kind
		result   ResponseType
		fallback bool
	}
	var seen []observation
	d := NewDispatcher(internal.NewNopLogger(), WithObserver(func(kind Kind, result ResponseType, fallback bool) {
		seen = append(seen, observation{kind, result, fallback})
	}))
	require.NoError(t, d.Register(ReserveNowKind, func(context.Context, *Request) (*Response, error) {
		return &Response{Result: Rejected}, nil
	}))

	d.Dispatch(context.Background(), request(ReserveNowKind))
	d.Dispatch(context.Background(), request(CancelReservationKind))

	assert.Equal(t, []observation{
		{ReserveNowKind, Rejected, false},
		{CancelReservationKind, NotSupported, true},
	}, seen)
}
