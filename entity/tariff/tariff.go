package tariff

import (
	"time"

	"evocpi/entity/common"
)

type Type string

const (
	AdHocPayment Type = "AD_HOC_PAYMENT"
	ProfileCheap Type = "PROFILE_CHEAP"
	ProfileFast  Type = "PROFILE_FAST"
	ProfileGreen Type = "PROFILE_GREEN"
	Regular      Type = "REGULAR"
)

type Tariff struct {
	CountryCode string                `json:"country_code" bson:"country_code" validate:"required,len=2"`
	PartyId     string                `json:"party_id" bson:"party_id" validate:"required,max=3"`
	Id          string                `json:"id" bson:"id" validate:"required,max=36"`
	Currency    string                `json:"currency" bson:"currency" validate:"required,len=3"`
	Type        Type                  `json:"type,omitempty" bson:"type,omitempty"`
	AltText     []*common.DisplayText `json:"tariff_alt_text,omitempty" bson:"tariff_alt_text,omitempty" validate:"omitempty,dive"`
	AltUrl      string                `json:"tariff_alt_url,omitempty" bson:"tariff_alt_url,omitempty" validate:"omitempty,url"`
	Elements    []*Element            `json:"elements" bson:"elements" validate:"required,dive"`
	EnergyMix   *common.EnergyMix     `json:"energy_mix,omitempty" bson:"energy_mix,omitempty" validate:"omitempty"`
	StartDate   *time.Time            `json:"start_date_time,omitempty" bson:"start_date_time,omitempty"`
	EndDate     *time.Time            `json:"end_date_time,omitempty" bson:"end_date_time,omitempty"`
	CreatedAt   time.Time             `json:"-" bson:"created_at"`
	LastUpdated time.Time             `json:"last_updated" bson:"last_updated"`
}

type Element struct {
	PriceComponents []*PriceComponent `json:"price_components" bson:"price_components" validate:"required,dive"`
	Restrictions    *Restrictions     `json:"restrictions,omitempty" bson:"restrictions,omitempty" validate:"omitempty"`
}

func (t *Tariff) RecordId() string   { return t.Id }
func (t *Tariff) Created() time.Time { return t.CreatedAt }
func (t *Tariff) Updated() time.Time { return t.LastUpdated }

// Matches tests the free-text term against id, currency, type and alternative texts
func (t *Tariff) Matches(term string) bool {
	if term == "" {
		return true
	}
	values := []string{t.Id, t.Currency, string(t.Type), t.AltUrl}
	for _, text := range t.AltText {
		values = append(values, text.Text)
	}
	return common.ContainsFold(term, values...)
}
