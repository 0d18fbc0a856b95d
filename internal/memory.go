package internal

import (
	"context"
	"sync"
	"time"

	"evocpi/entity"
	"evocpi/entity/tariff"
)

// MemoryRegistry keeps every record in process memory; it backs tests and
// development runs without MongoDB
type MemoryRegistry struct {
	mutex       sync.RWMutex
	locations   []*entity.Location
	tariffs     []*tariff.Tariff
	sessions    []*entity.Session
	cdrs        []*entity.Cdr
	tokens      []*entity.Token
	credentials map[string]*entity.Identity
	parties     map[string]*entity.RemoteParty
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		credentials: make(map[string]*entity.Identity),
		parties:     make(map[string]*entity.RemoteParty),
	}
}

func (m *MemoryRegistry) AddLocation(locations ...*entity.Location) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locations = append(m.locations, locations...)
}

func (m *MemoryRegistry) AddTariff(tariffs ...*tariff.Tariff) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.tariffs = append(m.tariffs, tariffs...)
}

func (m *MemoryRegistry) AddSession(sessions ...*entity.Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions = append(m.sessions, sessions...)
}

func (m *MemoryRegistry) AddCdr(cdrs ...*entity.Cdr) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.cdrs = append(m.cdrs, cdrs...)
}

func (m *MemoryRegistry) AddCredential(identity *entity.Identity) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.credentials[identity.Token] = identity
}

func (m *MemoryRegistry) AddParty(party *entity.RemoteParty) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.parties[party.Id] = party
}

func (m *MemoryRegistry) Locations(_ context.Context) ([]*entity.Location, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	result := make([]*entity.Location, 0, len(m.locations))
	for _, l := range m.locations {
		if l.Publish {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *MemoryRegistry) Location(_ context.Context, id string) (*entity.Location, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, l := range m.locations {
		if l.Id == id && l.Publish {
			return l, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) Tariffs(_ context.Context) ([]*tariff.Tariff, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]*tariff.Tariff(nil), m.tariffs...), nil
}

func (m *MemoryRegistry) Tariff(_ context.Context, id string) (*tariff.Tariff, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, t := range m.tariffs {
		if t.Id == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) Sessions(_ context.Context, owner entity.OwnerFilter) ([]*entity.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var result []*entity.Session
	for _, s := range m.sessions {
		if s.OwnedBy(owner) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *MemoryRegistry) Session(_ context.Context, id string) (*entity.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, s := range m.sessions {
		if s.Id == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) Cdrs(_ context.Context, owner entity.OwnerFilter) ([]*entity.Cdr, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var result []*entity.Cdr
	for _, c := range m.cdrs {
		if c.OwnedBy(owner) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MemoryRegistry) Cdr(_ context.Context, id string) (*entity.Cdr, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, c := range m.cdrs {
		if c.Id == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) Tokens(_ context.Context, countryCode, partyId string) ([]*entity.Token, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var result []*entity.Token
	for _, t := range m.tokens {
		if t.CountryCode == countryCode && t.PartyId == partyId {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MemoryRegistry) Token(_ context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) (*entity.Token, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if i := m.tokenIndex(countryCode, partyId, uid, tokenType); i >= 0 {
		return m.tokens[i], nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) PutToken(_ context.Context, token *entity.Token) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if i := m.tokenIndex(token.CountryCode, token.PartyId, token.Uid, token.Type); i >= 0 {
		token.CreatedAt = m.tokens[i].CreatedAt
		m.tokens[i] = token
		return false, nil
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	m.tokens = append(m.tokens, token)
	return true, nil
}

func (m *MemoryRegistry) DeleteToken(_ context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	i := m.tokenIndex(countryCode, partyId, uid, tokenType)
	if i < 0 {
		return ErrNotFound
	}
	m.tokens = append(m.tokens[:i], m.tokens[i+1:]...)
	return nil
}

func (m *MemoryRegistry) tokenIndex(countryCode, partyId, uid string, tokenType entity.TokenType) int {
	for i, t := range m.tokens {
		if t.CountryCode == countryCode && t.PartyId == partyId && t.Uid == uid && t.Type == tokenType {
			return i
		}
	}
	return -1
}

func (m *MemoryRegistry) Credential(_ context.Context, token string) (*entity.Identity, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if identity, ok := m.credentials[token]; ok {
		return identity, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRegistry) Party(_ context.Context, id string) (*entity.RemoteParty, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if party, ok := m.parties[id]; ok {
		return party, nil
	}
	return nil, ErrNotFound
}
