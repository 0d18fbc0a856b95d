package cpo

import (
	"context"

	"evocpi/entity"
	"evocpi/ocpi"
	"evocpi/router"
)

// Sessions and CDRs are never open data, a partner sees the records issued
// for its own tokens and a hub sees all of them

func (m *Module) listSessions(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, false); denied != nil {
		return denied
	}
	sessions, err := m.registry.Sessions(ctx, req.Identity.OwnerFilter())
	if err != nil {
		return m.failure(req, "session", err)
	}
	return list(m, req, sessions, (*entity.Session).Matches)
}

func (m *Module) getSession(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, false); denied != nil {
		return denied
	}
	session, err := m.registry.Session(ctx, req.Param("sessionId"))
	if err != nil {
		return m.failure(req, "session", err)
	}
	if !session.OwnedBy(req.Identity.OwnerFilter()) {
		return ocpi.NotFound("Unknown session")
	}
	return single(session)
}

func (m *Module) listCdrs(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, false); denied != nil {
		return denied
	}
	cdrs, err := m.registry.Cdrs(ctx, req.Identity.OwnerFilter())
	if err != nil {
		return m.failure(req, "CDR", err)
	}
	return list(m, req, cdrs, (*entity.Cdr).Matches)
}

func (m *Module) getCdr(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, false); denied != nil {
		return denied
	}
	cdr, err := m.registry.Cdr(ctx, req.Param("cdrId"))
	if err != nil {
		return m.failure(req, "CDR", err)
	}
	if !cdr.OwnedBy(req.Identity.OwnerFilter()) {
		return ocpi.NotFound("Unknown CDR")
	}
	return single(cdr)
}
