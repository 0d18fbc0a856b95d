package entity

import "time"

type SessionStatus string

const (
	SessionActive      SessionStatus = "ACTIVE"
	SessionCompleted   SessionStatus = "COMPLETED"
	SessionInvalid     SessionStatus = "INVALID"
	SessionPending     SessionStatus = "PENDING"
	SessionReservation SessionStatus = "RESERVATION"
)

type AuthMethod string

const (
	AuthRequest   AuthMethod = "AUTH_REQUEST"
	AuthCommand   AuthMethod = "COMMAND"
	AuthWhitelist AuthMethod = "WHITELIST"
)

// CdrToken is the token reference carried by sessions and charge detail records,
// its country code and party id name the eMSP owning the record
type CdrToken struct {
	CountryCode string    `json:"country_code" bson:"country_code" validate:"required,len=2"`
	PartyId     string    `json:"party_id" bson:"party_id" validate:"required,max=3"`
	Uid         string    `json:"uid" bson:"uid" validate:"required,max=36"`
	Type        TokenType `json:"type" bson:"type" validate:"required"`
	ContractId  string    `json:"contract_id" bson:"contract_id" validate:"required,max=36"`
}

type Price struct {
	ExclVat float64  `json:"excl_vat" bson:"excl_vat"`
	InclVat *float64 `json:"incl_vat,omitempty" bson:"incl_vat,omitempty"`
}

type Session struct {
	CountryCode            string        `json:"country_code" bson:"country_code"`
	PartyId                string        `json:"party_id" bson:"party_id"`
	Id                     string        `json:"id" bson:"id"`
	StartDateTime          time.Time     `json:"start_date_time" bson:"start_date_time"`
	EndDateTime            *time.Time    `json:"end_date_time,omitempty" bson:"end_date_time,omitempty"`
	Kwh                    float64       `json:"kwh" bson:"kwh"`
	CdrToken               CdrToken      `json:"cdr_token" bson:"cdr_token"`
	AuthMethod             AuthMethod    `json:"auth_method" bson:"auth_method"`
	AuthorizationReference string        `json:"authorization_reference,omitempty" bson:"authorization_reference,omitempty"`
	LocationId             string        `json:"location_id" bson:"location_id"`
	EvseUid                string        `json:"evse_uid" bson:"evse_uid"`
	ConnectorId            string        `json:"connector_id" bson:"connector_id"`
	MeterId                string        `json:"meter_id,omitempty" bson:"meter_id,omitempty"`
	Currency               string        `json:"currency" bson:"currency"`
	TotalCost              *Price        `json:"total_cost,omitempty" bson:"total_cost,omitempty"`
	Status                 SessionStatus `json:"status" bson:"status"`
	CreatedAt              time.Time     `json:"-" bson:"created_at"`
	LastUpdated            time.Time     `json:"last_updated" bson:"last_updated"`
}

func (s *Session) RecordId() string   { return s.Id }
func (s *Session) Created() time.Time { return s.CreatedAt }
func (s *Session) Updated() time.Time { return s.LastUpdated }

func (s *Session) Matches(term string) bool {
	return containsFold(term, s.Id, s.LocationId, s.EvseUid, s.CdrToken.Uid, s.CdrToken.ContractId, string(s.Status))
}

func (s *Session) OwnedBy(filter OwnerFilter) bool {
	return filter.Allows(s.CdrToken.CountryCode, s.CdrToken.PartyId)
}
