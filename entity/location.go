package entity

import "time"

type GeoLocation struct {
	Latitude  string `json:"latitude" bson:"latitude" validate:"required,max=10"`
	Longitude string `json:"longitude" bson:"longitude" validate:"required,max=11"`
}

type Location struct {
	CountryCode        string      `json:"country_code" bson:"country_code" validate:"required,len=2"`
	PartyId            string      `json:"party_id" bson:"party_id" validate:"required,max=3"`
	Id                 string      `json:"id" bson:"id" validate:"required,max=36"`
	Publish            bool        `json:"publish" bson:"publish"`
	Name               string      `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=255"`
	Address            string      `json:"address" bson:"address" validate:"required,max=45"`
	City               string      `json:"city" bson:"city" validate:"required,max=45"`
	PostalCode         string      `json:"postal_code,omitempty" bson:"postal_code,omitempty" validate:"omitempty,max=10"`
	State              string      `json:"state,omitempty" bson:"state,omitempty" validate:"omitempty,max=20"`
	Country            string      `json:"country" bson:"country" validate:"required,len=3"`
	Coordinates        GeoLocation `json:"coordinates" bson:"coordinates" validate:"required"`
	Evses              []*Evse     `json:"evses,omitempty" bson:"evses,omitempty" validate:"omitempty,dive"`
	TimeZone           string      `json:"time_zone" bson:"time_zone" validate:"required,max=255"`
	ChargingWhenClosed bool        `json:"charging_when_closed" bson:"charging_when_closed"`
	CreatedAt          time.Time   `json:"-" bson:"created_at"`
	LastUpdated        time.Time   `json:"last_updated" bson:"last_updated"`
}

func (l *Location) RecordId() string   { return l.Id }
func (l *Location) Created() time.Time { return l.CreatedAt }
func (l *Location) Updated() time.Time { return l.LastUpdated }

// Matches tests the free-text term against the location's searchable fields
func (l *Location) Matches(term string) bool {
	if containsFold(term, l.Id, l.Name, l.Address, l.City, l.PostalCode, l.State, l.Country) {
		return true
	}
	for _, evse := range l.Evses {
		if evse.Matches(term) {
			return true
		}
	}
	return false
}

func (l *Location) Evse(uid string) *Evse {
	for _, evse := range l.Evses {
		if evse.Uid == uid {
			return evse
		}
	}
	return nil
}

type EvseStatus string

const (
	EvseAvailable   EvseStatus = "AVAILABLE"
	EvseBlocked     EvseStatus = "BLOCKED"
	EvseCharging    EvseStatus = "CHARGING"
	EvseInoperative EvseStatus = "INOPERATIVE"
	EvseOutOfOrder  EvseStatus = "OUTOFORDER"
	EvsePlanned     EvseStatus = "PLANNED"
	EvseRemoved     EvseStatus = "REMOVED"
	EvseReserved    EvseStatus = "RESERVED"
	EvseUnknown     EvseStatus = "UNKNOWN"
)

type Evse struct {
	Uid         string       `json:"uid" bson:"uid" validate:"required,max=36"`
	EvseId      string       `json:"evse_id,omitempty" bson:"evse_id,omitempty" validate:"omitempty,max=48"`
	Status      EvseStatus   `json:"status" bson:"status" validate:"required"`
	Connectors  []*Connector `json:"connectors" bson:"connectors" validate:"required,min=1,dive"`
	FloorLevel  string       `json:"floor_level,omitempty" bson:"floor_level,omitempty" validate:"omitempty,max=4"`
	Coordinates *GeoLocation `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	CreatedAt   time.Time    `json:"-" bson:"created_at"`
	LastUpdated time.Time    `json:"last_updated" bson:"last_updated"`
}

func (e *Evse) RecordId() string   { return e.Uid }
func (e *Evse) Created() time.Time { return e.CreatedAt }
func (e *Evse) Updated() time.Time { return e.LastUpdated }

func (e *Evse) Matches(term string) bool {
	return containsFold(term, e.Uid, e.EvseId)
}

func (e *Evse) Connector(id string) *Connector {
	for _, c := range e.Connectors {
		if c.Id == id {
			return c
		}
	}
	return nil
}

type PowerType string

const (
	PowerAC1Phase PowerType = "AC_1_PHASE"
	PowerAC3Phase PowerType = "AC_3_PHASE"
	PowerDC       PowerType = "DC"
)

type Connector struct {
	Id                 string    `json:"id" bson:"id" validate:"required,max=36"`
	Standard           string    `json:"standard" bson:"standard" validate:"required"`
	Format             string    `json:"format" bson:"format" validate:"required,oneof=SOCKET CABLE"`
	PowerType          PowerType `json:"power_type" bson:"power_type" validate:"required"`
	MaxVoltage         int       `json:"max_voltage" bson:"max_voltage" validate:"required"`
	MaxAmperage        int       `json:"max_amperage" bson:"max_amperage" validate:"required"`
	MaxElectricPower   int       `json:"max_electric_power,omitempty" bson:"max_electric_power,omitempty"`
	TariffIds          []string  `json:"tariff_ids,omitempty" bson:"tariff_ids,omitempty"`
	TermsAndConditions string    `json:"terms_and_conditions,omitempty" bson:"terms_and_conditions,omitempty" validate:"omitempty,url"`
	CreatedAt          time.Time `json:"-" bson:"created_at"`
	LastUpdated        time.Time `json:"last_updated" bson:"last_updated"`
}

func (c *Connector) RecordId() string   { return c.Id }
func (c *Connector) Created() time.Time { return c.CreatedAt }
func (c *Connector) Updated() time.Time { return c.LastUpdated }
