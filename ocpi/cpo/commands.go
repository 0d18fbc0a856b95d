package cpo

import (
	"context"
	"fmt"

	"evocpi/entity"
	"evocpi/ocpi"
	"evocpi/ocpi/commands"
	"evocpi/router"
)

func (m *Module) commandHandler(kind commands.Kind) router.Handler {
	return func(ctx context.Context, req *router.Request) *ocpi.Response {
		if denied := m.gate(req, false); denied != nil {
			return denied
		}
		command, err := commands.Parse(kind, req.Body)
		if err != nil {
			m.log.FeatureEvent(featureName, req.Identity.RemotePartyId, fmt.Sprintf("%s rejected: %v", kind, err))
			return ocpi.ParseError(string(kind), err)
		}
		request := &commands.Request{
			Kind:          kind,
			RemotePartyId: req.Identity.RemotePartyId,
			From:          partyFrom(req, ocpi.HeaderFromCountryCode, ocpi.HeaderFromPartyId),
			To:            partyFrom(req, ocpi.HeaderToCountryCode, ocpi.HeaderToPartyId),
			Command:       command,
		}
		response := m.commands.Dispatch(ctx, request)
		m.log.FeatureEvent(featureName, req.Identity.RemotePartyId, fmt.Sprintf("%s: %s", kind, response.Result))
		return ocpi.Success(response)
	}
}

// partyFrom reads a routing party from the request headers; the role is taken
// from the caller's identity when it acts as that party
func partyFrom(req *router.Request, countryHeader, partyHeader string) entity.PartyRole {
	party := entity.PartyRole{
		CountryCode: req.Header.Get(countryHeader),
		PartyId:     req.Header.Get(partyHeader),
	}
	if req.Identity != nil {
		for _, pr := range req.Identity.Roles {
			if pr.CountryCode == party.CountryCode && pr.PartyId == party.PartyId {
				party.Role = pr.Role
				break
			}
		}
	}
	return party
}
