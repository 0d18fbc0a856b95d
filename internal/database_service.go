package internal

import (
	"context"
	"errors"

	"evocpi/entity"
	"evocpi/entity/tariff"
)

var ErrNotFound = errors.New("not found")

// Registry is the store of records exposed to partners; list methods return
// a snapshot taken at call time
type Registry interface {
	Locations(ctx context.Context) ([]*entity.Location, error)
	Location(ctx context.Context, id string) (*entity.Location, error)
	Tariffs(ctx context.Context) ([]*tariff.Tariff, error)
	Tariff(ctx context.Context, id string) (*tariff.Tariff, error)
	Sessions(ctx context.Context, owner entity.OwnerFilter) ([]*entity.Session, error)
	Session(ctx context.Context, id string) (*entity.Session, error)
	Cdrs(ctx context.Context, owner entity.OwnerFilter) ([]*entity.Cdr, error)
	Cdr(ctx context.Context, id string) (*entity.Cdr, error)
	Tokens(ctx context.Context, countryCode, partyId string) ([]*entity.Token, error)
	Token(ctx context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) (*entity.Token, error)
	// PutToken stores the token and reports whether it was newly created
	PutToken(ctx context.Context, token *entity.Token) (bool, error)
	DeleteToken(ctx context.Context, countryCode, partyId, uid string, tokenType entity.TokenType) error
}

// CredentialStore resolves the token a partner presents to the identity behind it
type CredentialStore interface {
	Credential(ctx context.Context, token string) (*entity.Identity, error)
}

// PartnerDirectory looks up partner organisations by id
type PartnerDirectory interface {
	Party(ctx context.Context, id string) (*entity.RemoteParty, error)
}
