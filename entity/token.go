package entity

import (
	"strings"
	"time"
)

type TokenType string

const (
	TokenAdHocUser TokenType = "AD_HOC_USER"
	TokenAppUser   TokenType = "APP_USER"
	TokenOther     TokenType = "OTHER"
	TokenRFID      TokenType = "RFID"
)

type WhitelistType string

const (
	WhitelistAlways         WhitelistType = "ALWAYS"
	WhitelistAllowed        WhitelistType = "ALLOWED"
	WhitelistAllowedOffline WhitelistType = "ALLOWED_OFFLINE"
	WhitelistNever          WhitelistType = "NEVER"
)

// Token is an eMSP issued authorization token pushed to the gateway
type Token struct {
	CountryCode  string        `json:"country_code" bson:"country_code" validate:"required,len=2"`
	PartyId      string        `json:"party_id" bson:"party_id" validate:"required,max=3"`
	Uid          string        `json:"uid" bson:"uid" validate:"required,max=36"`
	Type         TokenType     `json:"type" bson:"type" validate:"required,oneof=AD_HOC_USER APP_USER OTHER RFID"`
	ContractId   string        `json:"contract_id" bson:"contract_id" validate:"required,max=36"`
	VisualNumber string        `json:"visual_number,omitempty" bson:"visual_number,omitempty" validate:"omitempty,max=64"`
	Issuer       string        `json:"issuer" bson:"issuer" validate:"required,max=64"`
	GroupId      string        `json:"group_id,omitempty" bson:"group_id,omitempty" validate:"omitempty,max=36"`
	Valid        bool          `json:"valid" bson:"valid"`
	Whitelist    WhitelistType `json:"whitelist" bson:"whitelist" validate:"required,oneof=ALWAYS ALLOWED ALLOWED_OFFLINE NEVER"`
	Language     string        `json:"language,omitempty" bson:"language,omitempty" validate:"omitempty,len=2"`
	CreatedAt    time.Time     `json:"-" bson:"created_at"`
	LastUpdated  time.Time     `json:"last_updated" bson:"last_updated" validate:"required"`
}

func (t *Token) RecordId() string   { return t.Uid }
func (t *Token) Created() time.Time { return t.CreatedAt }
func (t *Token) Updated() time.Time { return t.LastUpdated }

func (t *Token) Matches(term string) bool {
	return containsFold(term, t.Uid, t.ContractId, t.VisualNumber, t.Issuer, t.GroupId)
}

// ParseTokenType maps the query value to a token type, RFID when empty
func ParseTokenType(s string) TokenType {
	switch TokenType(strings.ToUpper(s)) {
	case TokenAdHocUser:
		return TokenAdHocUser
	case TokenAppUser:
		return TokenAppUser
	case TokenOther:
		return TokenOther
	}
	return TokenRFID
}
