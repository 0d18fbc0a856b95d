package commands

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"evocpi/entity"
	"evocpi/internal"
	"evocpi/ocpi/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwarder(t *testing.T) {
	var path, auth string
	var payload map[string]interface{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		_, _ = w.Write([]byte(`{"data":{"result":"ACCEPTED","timeout":20},"status_code":1000,"status_message":"Success!"}`))
	}))
	defer backend.Close()

	d := NewDispatcher(internal.NewNopLogger())
	forwarder := NewForwarder(backend.URL, "backend-token")
	require.NoError(t, forwarder.RegisterAll(d))

	response := d.Dispatch(context.Background(), &Request{
		Kind:          StopSessionKind,
		RemotePartyId: "NL-EXA",
		From:          entity.PartyRole{CountryCode: "NL", PartyId: "EXA", Role: entity.RoleEMSP},
		Command:       &StopSession{ResponseURL: "https://emsp.example.com/r/1", SessionId: "S1"},
	})

	assert.Equal(t, Accepted, response.Result)
	assert.Equal(t, 20*time.Second, response.Timeout)
	assert.Equal(t, "/commands/STOP_SESSION", path)
	assert.Equal(t, "Token backend-token", auth)
	assert.Equal(t, "NL*EXA", payload["from"])
	assert.Equal(t, "STOP_SESSION", payload["kind"])

	assert.ErrorIs(t, forwarder.RegisterAll(d), ErrHandlerRegistered)
}

func TestForwarder_BackendFailureFallsBack(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":3000,"status_message":"charger offline"}`))
	}))
	defer backend.Close()

	d := NewDispatcher(internal.NewNopLogger())
	require.NoError(t, NewForwarder(backend.URL, "").RegisterAll(d))

	assertFallback(t, d.Dispatch(context.Background(), &Request{
		Kind:    UnlockConnectorKind,
		Command: &UnlockConnector{ResponseURL: "https://x.example.com", LocationId: "L", EvseUid: "E", ConnectorId: "1"},
	}))
}

func TestForwarder_SingleAttemptOnServerError(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer backend.Close()

	d := NewDispatcher(internal.NewNopLogger())
	require.NoError(t, NewForwarder(backend.URL, "", client.WithRetry(5, time.Millisecond)).RegisterAll(d))

	assertFallback(t, d.Dispatch(context.Background(), &Request{
		Kind:    StartSessionKind,
		Command: &StartSession{ResponseURL: "https://x.example.com", LocationId: "LOC1"},
	}))
	assert.Equal(t, int32(1), hits.Load())
}
