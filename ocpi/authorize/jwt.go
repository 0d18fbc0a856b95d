package authorize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"evocpi/entity"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by gateway issued partner tokens
type Claims struct {
	Status        entity.AccessStatus `json:"status"`
	Roles         []entity.PartyRole  `json:"roles"`
	RemotePartyId string              `json:"remote_party_id"`
	jwt.RegisteredClaims
}

// JWTResolver accepts HMAC signed tokens; tokens that are not JWTs are left
// to the next resolver
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

func (j *JWTResolver) Resolve(_ context.Context, token string) (*entity.Identity, error) {
	if strings.Count(token, ".") != 2 {
		return nil, nil
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, nil
		}
		// expired or forged tokens resolve to a blocked identity so the gate denies them
		return &entity.Identity{Token: token, Status: entity.AccessBlocked}, nil
	}
	if !parsed.Valid {
		return &entity.Identity{Token: token, Status: entity.AccessBlocked}, nil
	}
	status := claims.Status
	if status == "" {
		status = entity.AccessAllowed
	}
	partyId := claims.RemotePartyId
	if partyId == "" {
		partyId = claims.Subject
	}
	return &entity.Identity{
		Token:         token,
		Status:        status,
		Roles:         claims.Roles,
		RemotePartyId: partyId,
	}, nil
}

// Issue signs a token for the given identity, used by operators provisioning partners
func (j *JWTResolver) Issue(identity *entity.Identity, registered jwt.RegisteredClaims) (string, error) {
	claims := Claims{
		Status:           identity.Status,
		Roles:            identity.Roles,
		RemotePartyId:    identity.RemotePartyId,
		RegisteredClaims: registered,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}
