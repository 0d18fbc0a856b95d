package server

import (
	"context"
	"fmt"
	"time"

	"evocpi/internal"
	"evocpi/metrics/counters"
	"evocpi/ocpi"
	"evocpi/ocpi/authorize"
	"evocpi/router"
	"evocpi/utility"
)

// requestIds assigns the request and correlation ids, keeping the caller's when given
func requestIds(_ context.Context, req *router.Request) error {
	req.RequestId = utility.FirstNonEmpty(req.Header.Get(ocpi.HeaderRequestId), utility.NewUUID())
	req.CorrelationId = utility.FirstNonEmpty(req.Header.Get(ocpi.HeaderCorrelationId), req.RequestId)
	return nil
}

// resolveIdentity attaches the identity behind the Authorization header; a
// request without a usable token stays anonymous
func resolveIdentity(resolver authorize.Resolver) router.Before {
	return func(ctx context.Context, req *router.Request) error {
		token := authorize.ParseAuthorization(req.Header.Get("Authorization"))
		if token == "" {
			return nil
		}
		identity, err := resolver.Resolve(ctx, token)
		if err != nil {
			return fmt.Errorf("resolving identity: %w", err)
		}
		req.Identity = identity
		return nil
	}
}

func echoIds(_ context.Context, req *router.Request, resp *ocpi.Response) error {
	if req.RequestId != "" {
		resp.Headers.Set(ocpi.HeaderRequestId, req.RequestId)
	}
	if req.CorrelationId != "" {
		resp.Headers.Set(ocpi.HeaderCorrelationId, req.CorrelationId)
	}
	return nil
}

func observe(logger internal.LogHandler) router.After {
	return func(_ context.Context, req *router.Request, resp *ocpi.Response) error {
		elapsed := time.Since(req.Received)
		counters.ObserveRequest(req.Method, req.Template, resp.TransportStatus, resp.StatusCode, elapsed)
		party := "-"
		if req.Identity != nil {
			party = req.Identity.RemotePartyId
		}
		logger.Debug(fmt.Sprintf("%s %s %s: %d/%d in %s", party, req.Method, req.Path, resp.TransportStatus, resp.StatusCode, elapsed))
		return nil
	}
}
