package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"evocpi/entity"
	"evocpi/internal"
	"evocpi/ocpi"
	"evocpi/ocpi/authorize"
	"evocpi/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIds(t *testing.T) {
	req := &router.Request{Header: http.Header{}}
	require.NoError(t, requestIds(context.Background(), req))
	assert.NotEmpty(t, req.RequestId)
	assert.Equal(t, req.RequestId, req.CorrelationId)

	req = &router.Request{Header: http.Header{}}
	req.Header.Set(ocpi.HeaderRequestId, "r-1")
	req.Header.Set(ocpi.HeaderCorrelationId, "c-1")
	require.NoError(t, requestIds(context.Background(), req))
	assert.Equal(t, "r-1", req.RequestId)
	assert.Equal(t, "c-1", req.CorrelationId)

	resp := ocpi.Success(nil)
	require.NoError(t, echoIds(context.Background(), req, resp))
	assert.Equal(t, "r-1", resp.Headers.Get(ocpi.HeaderRequestId))
	assert.Equal(t, "c-1", resp.Headers.Get(ocpi.HeaderCorrelationId))
}

func TestResolveIdentity(t *testing.T) {
	store := internal.NewMemoryRegistry()
	store.AddCredential(&entity.Identity{Token: "secret", Status: entity.AccessAllowed, RemotePartyId: "NL-EXA"})
	hook := resolveIdentity(authorize.NewRegistryResolver(store))

	req := &router.Request{Header: http.Header{}}
	req.Header.Set("Authorization", "Token c2VjcmV0")
	require.NoError(t, hook(context.Background(), req))
	require.NotNil(t, req.Identity)
	assert.Equal(t, "NL-EXA", req.Identity.RemotePartyId)

	req = &router.Request{Header: http.Header{}}
	require.NoError(t, hook(context.Background(), req))
	assert.Nil(t, req.Identity)

	req = &router.Request{Header: http.Header{}}
	req.Header.Set("Authorization", "Token unknown")
	require.NoError(t, hook(context.Background(), req))
	assert.Nil(t, req.Identity)

	failing := resolveIdentity(authorize.ResolverFunc(func(context.Context, string) (*entity.Identity, error) {
		return nil, errors.New("store down")
	}))
	assert.Error(t, failing(context.Background(), req))
	assert.Nil(t, req.Identity)
}
