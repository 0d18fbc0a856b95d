package entity

import "time"

type Role string

const (
	RoleCPO   Role = "CPO"
	RoleEMSP  Role = "EMSP"
	RoleHUB   Role = "HUB"
	RoleNAP   Role = "NAP"
	RoleNSP   Role = "NSP"
	RoleSCSP  Role = "SCSP"
	RoleOther Role = "OTHER"
)

type AccessStatus string

const (
	AccessAllowed AccessStatus = "ALLOWED"
	AccessBlocked AccessStatus = "BLOCKED"
	AccessPending AccessStatus = "PENDING"
)

// PartyRole identifies a party by its country code and party id together with the role it acts in
type PartyRole struct {
	CountryCode string `json:"country_code" bson:"country_code" validate:"required,len=2"`
	PartyId     string `json:"party_id" bson:"party_id" validate:"required,max=3"`
	Role        Role   `json:"role" bson:"role" validate:"required"`
}

// Identity is the authenticated caller of a single request
type Identity struct {
	Token         string       `json:"-" bson:"token"`
	Status        AccessStatus `json:"status" bson:"status"`
	Roles         []PartyRole  `json:"roles" bson:"roles"`
	RemotePartyId string       `json:"remote_party_id" bson:"remote_party_id"`
}

func (i *Identity) IsAllowed() bool {
	return i != nil && i.Status == AccessAllowed
}

// HasRole reports whether the identity acts in at least one of the roles
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, pr := range i.Roles {
		for _, r := range roles {
			if pr.Role == r {
				return true
			}
		}
	}
	return false
}

// Owns reports whether one of the identity's roles is the given party
func (i *Identity) Owns(countryCode, partyId string) bool {
	if i == nil {
		return false
	}
	for _, pr := range i.Roles {
		if pr.CountryCode == countryCode && pr.PartyId == partyId {
			return true
		}
	}
	return false
}

// OwnerFilter returns the visibility of owned records: hubs see every record,
// other roles only records issued for one of their parties
func (i *Identity) OwnerFilter() OwnerFilter {
	if i.HasRole(RoleHUB) {
		return OwnerFilter{All: true}
	}
	filter := OwnerFilter{}
	if i != nil {
		for _, pr := range i.Roles {
			filter.Parties = append(filter.Parties, pr)
		}
	}
	return filter
}

type OwnerFilter struct {
	All     bool
	Parties []PartyRole
}

func (f OwnerFilter) Allows(countryCode, partyId string) bool {
	if f.All {
		return true
	}
	for _, p := range f.Parties {
		if p.CountryCode == countryCode && p.PartyId == partyId {
			return true
		}
	}
	return false
}

// RemoteAccess describes how the gateway reaches a partner
type RemoteAccess struct {
	VersionsUrl string       `json:"versions_url" bson:"versions_url"`
	Token       string       `json:"token" bson:"token"`
	Status      AccessStatus `json:"status" bson:"status"`
}

// RemoteParty is a partner organisation known to the gateway
type RemoteParty struct {
	Id           string         `json:"id" bson:"id"`
	CountryCode  string         `json:"country_code" bson:"country_code"`
	PartyId      string         `json:"party_id" bson:"party_id"`
	Role         Role           `json:"role" bson:"role"`
	Name         string         `json:"name,omitempty" bson:"name,omitempty"`
	RemoteAccess []RemoteAccess `json:"remote_access,omitempty" bson:"remote_access,omitempty"`
	LastUpdated  time.Time      `json:"last_updated" bson:"last_updated"`
}

// ActiveAccess returns the first allowed remote access descriptor
func (p *RemoteParty) ActiveAccess() (RemoteAccess, bool) {
	for _, ra := range p.RemoteAccess {
		if ra.Status == AccessAllowed {
			return ra, true
		}
	}
	return RemoteAccess{}, false
}
