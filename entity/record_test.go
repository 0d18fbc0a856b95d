package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestETag(t *testing.T) {
	updated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &Location{Id: "LOC1", Name: "Plaza", LastUpdated: updated}
	b := &Location{Id: "LOC1", Name: "Plaza", LastUpdated: updated}

	assert.Equal(t, ETag(a), ETag(b))
	assert.Regexp(t, `^"[0-9a-f]+"$`, ETag(a))

	b.Name = "Plaza Mayor"
	assert.NotEqual(t, ETag(a), ETag(b))

	// creation time is not part of the published record
	b.Name = "Plaza"
	b.CreatedAt = updated
	assert.Equal(t, ETag(a), ETag(b))
}

func TestLocation_Matches(t *testing.T) {
	l := &Location{
		Id:   "LOC1",
		Name: "Plaza Mayor",
		City: "Madrid",
		Evses: []*Evse{
			{Uid: "E1", EvseId: "ES*CPO*E0001"},
		},
	}

	assert.True(t, l.Matches("madrid"))
	assert.True(t, l.Matches("MAYOR"))
	assert.True(t, l.Matches("e0001"))
	assert.True(t, l.Matches(""))
	assert.False(t, l.Matches("Barcelona"))

	assert.NotNil(t, l.Evse("E1"))
	assert.Nil(t, l.Evse("E2"))
}

func TestIdentity_OwnerFilter(t *testing.T) {
	emsp := &Identity{Status: AccessAllowed, Roles: []PartyRole{{CountryCode: "NL", PartyId: "EXA", Role: RoleEMSP}}}
	hub := &Identity{Status: AccessAllowed, Roles: []PartyRole{{CountryCode: "EU", PartyId: "HUB", Role: RoleHUB}}}
	var anonymous *Identity

	assert.True(t, emsp.OwnerFilter().Allows("NL", "EXA"))
	assert.False(t, emsp.OwnerFilter().Allows("DE", "OTH"))
	assert.True(t, hub.OwnerFilter().Allows("DE", "OTH"))
	assert.False(t, anonymous.OwnerFilter().Allows("NL", "EXA"))
	assert.False(t, anonymous.IsAllowed())
	assert.True(t, emsp.Owns("NL", "EXA"))
}

func TestParseTokenType(t *testing.T) {
	assert.Equal(t, TokenRFID, ParseTokenType(""))
	assert.Equal(t, TokenAppUser, ParseTokenType("app_user"))
	assert.Equal(t, TokenRFID, ParseTokenType("unknown"))
}
