package entity

import "time"

type CdrLocation struct {
	Id                 string      `json:"id" bson:"id"`
	Name               string      `json:"name,omitempty" bson:"name,omitempty"`
	Address            string      `json:"address" bson:"address"`
	City               string      `json:"city" bson:"city"`
	PostalCode         string      `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country            string      `json:"country" bson:"country"`
	Coordinates        GeoLocation `json:"coordinates" bson:"coordinates"`
	EvseUid            string      `json:"evse_uid" bson:"evse_uid"`
	EvseId             string      `json:"evse_id" bson:"evse_id"`
	ConnectorId        string      `json:"connector_id" bson:"connector_id"`
	ConnectorStandard  string      `json:"connector_standard" bson:"connector_standard"`
	ConnectorFormat    string      `json:"connector_format" bson:"connector_format"`
	ConnectorPowerType PowerType   `json:"connector_power_type" bson:"connector_power_type"`
}

// Cdr is a charge detail record, the final account of a finished session
type Cdr struct {
	CountryCode            string      `json:"country_code" bson:"country_code"`
	PartyId                string      `json:"party_id" bson:"party_id"`
	Id                     string      `json:"id" bson:"id"`
	StartDateTime          time.Time   `json:"start_date_time" bson:"start_date_time"`
	EndDateTime            time.Time   `json:"end_date_time" bson:"end_date_time"`
	SessionId              string      `json:"session_id,omitempty" bson:"session_id,omitempty"`
	CdrToken               CdrToken    `json:"cdr_token" bson:"cdr_token"`
	AuthMethod             AuthMethod  `json:"auth_method" bson:"auth_method"`
	AuthorizationReference string      `json:"authorization_reference,omitempty" bson:"authorization_reference,omitempty"`
	CdrLocation            CdrLocation `json:"cdr_location" bson:"cdr_location"`
	Currency               string      `json:"currency" bson:"currency"`
	TotalCost              Price       `json:"total_cost" bson:"total_cost"`
	TotalEnergy            float64     `json:"total_energy" bson:"total_energy"`
	TotalTime              float64     `json:"total_time" bson:"total_time"`
	TotalParkingTime       float64     `json:"total_parking_time,omitempty" bson:"total_parking_time,omitempty"`
	Remark                 string      `json:"remark,omitempty" bson:"remark,omitempty"`
	Credit                 bool        `json:"credit,omitempty" bson:"credit,omitempty"`
	CreatedAt              time.Time   `json:"-" bson:"created_at"`
	LastUpdated            time.Time   `json:"last_updated" bson:"last_updated"`
}

func (c *Cdr) RecordId() string   { return c.Id }
func (c *Cdr) Created() time.Time { return c.CreatedAt }
func (c *Cdr) Updated() time.Time { return c.LastUpdated }

func (c *Cdr) Matches(term string) bool {
	return containsFold(term, c.Id, c.SessionId, c.CdrToken.Uid, c.CdrToken.ContractId, c.CdrLocation.Id, c.CdrLocation.EvseUid)
}

func (c *Cdr) OwnedBy(filter OwnerFilter) bool {
	return filter.Allows(c.CdrToken.CountryCode, c.CdrToken.PartyId)
}
