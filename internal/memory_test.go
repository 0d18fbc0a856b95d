package internal

import (
	"context"
	"testing"
	"time"

	"evocpi/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_Tokens(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	isNew, err := registry.PutToken(ctx, &entity.Token{CountryCode: "NL", PartyId: "EXA", Uid: "1", Type: entity.TokenRFID, CreatedAt: created})
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = registry.PutToken(ctx, &entity.Token{CountryCode: "NL", PartyId: "EXA", Uid: "1", Type: entity.TokenRFID, Issuer: "new"})
	require.NoError(t, err)
	assert.False(t, isNew)

	token, err := registry.Token(ctx, "NL", "EXA", "1", entity.TokenRFID)
	require.NoError(t, err)
	assert.Equal(t, "new", token.Issuer)
	assert.Equal(t, created, token.CreatedAt)

	_, err = registry.Token(ctx, "NL", "EXA", "1", entity.TokenAppUser)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = registry.PutToken(ctx, &entity.Token{CountryCode: "NL", PartyId: "EXA", Uid: "2", Type: entity.TokenRFID})
	require.NoError(t, err)
	tokens, err := registry.Tokens(ctx, "NL", "EXA")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	assert.False(t, tokens[1].CreatedAt.IsZero())

	require.NoError(t, registry.DeleteToken(ctx, "NL", "EXA", "1", entity.TokenRFID))
	assert.ErrorIs(t, registry.DeleteToken(ctx, "NL", "EXA", "1", entity.TokenRFID), ErrNotFound)
}

func TestMemoryRegistry_Owned(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()
	registry.AddSession(
		&entity.Session{Id: "S1", CdrToken: entity.CdrToken{CountryCode: "NL", PartyId: "EXA"}},
		&entity.Session{Id: "S2", CdrToken: entity.CdrToken{CountryCode: "DE", PartyId: "OTH"}},
	)
	registry.AddCdr(&entity.Cdr{Id: "C1", CdrToken: entity.CdrToken{CountryCode: "DE", PartyId: "OTH"}})

	owner := entity.OwnerFilter{Parties: []entity.PartyRole{{CountryCode: "NL", PartyId: "EXA"}}}
	sessions, err := registry.Sessions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "S1", sessions[0].Id)

	sessions, err = registry.Sessions(ctx, entity.OwnerFilter{All: true})
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	cdrs, err := registry.Cdrs(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cdrs)
	cdrs, err = registry.Cdrs(ctx, entity.OwnerFilter{})
	require.NoError(t, err)
	assert.Empty(t, cdrs)

	_, err = registry.Session(ctx, "S3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRegistry_Directory(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()
	registry.AddCredential(&entity.Identity{Token: "abc", Status: entity.AccessAllowed})
	registry.AddParty(&entity.RemoteParty{Id: "NL-EXA"})

	identity, err := registry.Credential(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, entity.AccessAllowed, identity.Status)
	_, err = registry.Credential(ctx, "xyz")
	assert.ErrorIs(t, err, ErrNotFound)

	party, err := registry.Party(ctx, "NL-EXA")
	require.NoError(t, err)
	assert.Equal(t, "NL-EXA", party.Id)
	_, err = registry.Party(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}
