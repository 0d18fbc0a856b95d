package authorize

import (
	"context"
	"errors"

	"evocpi/entity"
	"evocpi/internal"
)

// Resolver maps a credentials token to an identity; (nil, nil) means the
// token is unknown
type Resolver interface {
	Resolve(ctx context.Context, token string) (*entity.Identity, error)
}

type ResolverFunc func(ctx context.Context, token string) (*entity.Identity, error)

func (f ResolverFunc) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	return f(ctx, token)
}

// RegistryResolver looks tokens up in the credential store
type RegistryResolver struct {
	store internal.CredentialStore
}

func NewRegistryResolver(store internal.CredentialStore) *RegistryResolver {
	return &RegistryResolver{store: store}
}

func (r *RegistryResolver) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	identity, err := r.store.Credential(ctx, token)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resolved := *identity
	resolved.Token = token
	return &resolved, nil
}

// Chain asks each resolver in order and returns the first identity found
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	var errs []error
	for _, r := range c {
		identity, err := r.Resolve(ctx, token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if identity != nil {
			return identity, nil
		}
	}
	return nil, errors.Join(errs...)
}
