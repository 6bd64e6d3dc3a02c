// Package session issues and verifies short-lived tokens that stand in
// for upstream credential validation on subsequent kitchen API calls.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims carried by a kitchen session token.
type Claims struct {
	Email    string `json:"email"`
	Staff    bool   `json:"staff"`
	FullText bool   `json:"fullText"`
	TagSlug  string `json:"tagSlug"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with an HS256 key.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer creates an Issuer. When key is empty, an ephemeral random
// key is generated: sessions then survive only as long as the process.
func NewIssuer(key []byte, ttl time.Duration) (*Issuer, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	if len(key) < 16 {
		return nil, fmt.Errorf("session key too short: %d bytes", len(key))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive: %s", ttl)
	}
	return &Issuer{key: key, ttl: ttl}, nil
}

// Issue converts a validated authorization status into a session token.
func (i *Issuer) Issue(email string, status apiauth.Status) (apiauth.Session, error) {
	if !status.Authorized() {
		return apiauth.Session{}, fmt.Errorf("refusing to issue a session for unauthorized status")
	}

	now := time.Now().Truncate(time.Second)
	exp := now.Add(i.ttl)
	claims := Claims{
		Email:    email,
		Staff:    status.MediaCloudStaff,
		FullText: status.FullTextAuthorized,
		TagSlug:  status.TagSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sous-chef-kitchen",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return apiauth.Session{}, err
	}
	return apiauth.Session{Token: token, ExpiresAt: exp}, nil
}

// Verify checks a token and reconstructs the authorization status it
// was issued for.
func (i *Issuer) Verify(token string) (string, apiauth.Status, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", apiauth.Status{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims.Email, apiauth.Status{
		MediaCloudAuthorized: true,
		MediaCloudStaff:      claims.Staff,
		FullTextAuthorized:   claims.FullText,
		SousChefAuthorized:   true,
		TagSlug:              claims.TagSlug,
	}, nil
}
