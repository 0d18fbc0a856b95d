package cpo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"evocpi/entity"
	"evocpi/internal"
	"evocpi/ocpi"
	"evocpi/router"
)

const (
	paramTokenType      = "type"
	paramForceDowngrade = "forceDowngrade"
)

type tokenKey struct {
	countryCode string
	partyId     string
	uid         string
	tokenType   entity.TokenType
}

func keyOf(req *router.Request) tokenKey {
	return tokenKey{
		countryCode: req.Param("countryCode"),
		partyId:     req.Param("partyId"),
		uid:         req.Param("tokenId"),
		tokenType:   entity.ParseTokenType(req.Query.Get(paramTokenType)),
	}
}

// tokenGate checks the caller may manage tokens of the party in the path
func (m *Module) tokenGate(req *router.Request) *ocpi.Response {
	if denied := m.gate(req, false); denied != nil {
		return denied
	}
	if !req.Identity.OwnerFilter().Allows(req.Param("countryCode"), req.Param("partyId")) {
		m.log.FeatureEvent(featureName, req.Identity.RemotePartyId, fmt.Sprintf("tokens of %s*%s denied", req.Param("countryCode"), req.Param("partyId")))
		return ocpi.Denied()
	}
	return nil
}

func (k tokenKey) check(token *entity.Token) error {
	if token.CountryCode != k.countryCode || token.PartyId != k.partyId || token.Uid != k.uid {
		return fmt.Errorf("token %s*%s*%s does not match the request path", token.CountryCode, token.PartyId, token.Uid)
	}
	if token.Type != k.tokenType {
		return fmt.Errorf("token type %s does not match the requested type %s", token.Type, k.tokenType)
	}
	return nil
}

// downgrade rejects an update older than the stored token unless the caller
// sets forceDowngrade=true
func downgrade(req *router.Request, stored, incoming *entity.Token) *ocpi.Response {
	if stored == nil || !incoming.LastUpdated.Before(stored.LastUpdated) {
		return nil
	}
	if force, err := strconv.ParseBool(req.Query.Get(paramForceDowngrade)); err == nil && force {
		return nil
	}
	return ocpi.BadRequest(fmt.Sprintf("Token last_updated %s is older than the stored %s, set forceDowngrade=true to overwrite",
		incoming.LastUpdated.UTC().Format(time.RFC3339Nano), stored.LastUpdated.UTC().Format(time.RFC3339Nano)))
}

func (m *Module) listTokens(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.tokenGate(req); denied != nil {
		return denied
	}
	tokens, err := m.registry.Tokens(ctx, req.Param("countryCode"), req.Param("partyId"))
	if err != nil {
		return m.failure(req, "token", err)
	}
	return list(m, req, tokens, (*entity.Token).Matches)
}

func (m *Module) getToken(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.tokenGate(req); denied != nil {
		return denied
	}
	k := keyOf(req)
	token, err := m.registry.Token(ctx, k.countryCode, k.partyId, k.uid, k.tokenType)
	if err != nil {
		return m.failure(req, "token", err)
	}
	return single(token)
}

func (m *Module) putToken(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.tokenGate(req); denied != nil {
		return denied
	}
	k := keyOf(req)
	token := &entity.Token{}
	if err := json.Unmarshal(req.Body, token); err != nil {
		return ocpi.BadRequest(fmt.Sprintf("Could not parse the token JSON: %s", err))
	}
	if err := validate.Struct(token); err != nil {
		return ocpi.BadRequest(fmt.Sprintf("Invalid token: %s", err))
	}
	if err := k.check(token); err != nil {
		return ocpi.BadRequest(err.Error())
	}
	stored, err := m.registry.Token(ctx, k.countryCode, k.partyId, k.uid, k.tokenType)
	if err != nil && !errors.Is(err, internal.ErrNotFound) {
		return m.failure(req, "token", err)
	}
	if rejected := downgrade(req, stored, token); rejected != nil {
		return rejected
	}
	created, err := m.registry.PutToken(ctx, token)
	if err != nil {
		return m.failure(req, "token", err)
	}
	m.log.FeatureEvent(featureName, token.Uid, fmt.Sprintf("token stored by %s, created: %v", req.Identity.RemotePartyId, created))
	if created {
		return ocpi.Created(nil)
	}
	return ocpi.Success(nil)
}

// patchToken merges the given fields into the stored token; last_updated is
// mandatory and the key fields cannot change
func (m *Module) patchToken(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.tokenGate(req); denied != nil {
		return denied
	}
	k := keyOf(req)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(req.Body, &fields); err != nil {
		return ocpi.BadRequest(fmt.Sprintf("Could not parse the token JSON: %s", err))
	}
	if _, ok := fields["last_updated"]; !ok {
		return ocpi.BadRequest("Field last_updated is required")
	}
	stored, err := m.registry.Token(ctx, k.countryCode, k.partyId, k.uid, k.tokenType)
	if err != nil {
		return m.failure(req, "token", err)
	}
	patched := *stored
	decoder := json.NewDecoder(bytes.NewReader(req.Body))
	if err = decoder.Decode(&patched); err != nil {
		return ocpi.BadRequest(fmt.Sprintf("Could not parse the token JSON: %s", err))
	}
	if err = k.check(&patched); err != nil {
		return ocpi.BadRequest(err.Error())
	}
	if err = validate.Struct(&patched); err != nil {
		return ocpi.BadRequest(fmt.Sprintf("Invalid token: %s", err))
	}
	if rejected := downgrade(req, stored, &patched); rejected != nil {
		return rejected
	}
	if _, err = m.registry.PutToken(ctx, &patched); err != nil {
		return m.failure(req, "token", err)
	}
	return ocpi.Success(nil)
}

func (m *Module) deleteToken(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.tokenGate(req); denied != nil {
		return denied
	}
	k := keyOf(req)
	if err := m.registry.DeleteToken(ctx, k.countryCode, k.partyId, k.uid, k.tokenType); err != nil {
		return m.failure(req, "token", err)
	}
	m.log.FeatureEvent(featureName, k.uid, fmt.Sprintf("token deleted by %s", req.Identity.RemotePartyId))
	return ocpi.Success(nil)
}
