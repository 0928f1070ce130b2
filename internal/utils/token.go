package utils // package utils provides helpers for token creation and credential checks

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ServiceToken represents a signed JWT along with its expiry. The Token
// field contains the JWT string. Exp stores the expiration timestamp.
// Service tokens are short-lived and sent in the Authorization header
// when calling protected endpoints.
type ServiceToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewServiceToken builds and signs an HS256 JWT for a calling service.
// It takes the signing secret, the client identifier and a TTL in
// minutes. The JWT carries standard claims: subject (sub), expiration
// (exp) and issued at (iat).
func NewServiceToken(secret, clientID string, ttlMin int) (ServiceToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": clientID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return ServiceToken{}, err
	}
	return ServiceToken{Token: signed, Exp: exp}, nil
}
