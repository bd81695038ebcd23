package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"refereehub/internal/domain"
)

const issuerName = "refereehub"

type jwtClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	Role   string `json:"role"`
	ZoneID string `json:"zone_id,omitempty"`
}

// JWT signs and verifies HS256 access tokens carrying the caller's role and zone.
type JWT struct {
	secret []byte
	now    func() time.Time
}

// NewJWT returns a token issuer and verifier sharing secret.
func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)

// Issue signs a token for actor valid for expiry.
func (j *JWT) Issue(actor *domain.Actor, expiry time.Duration) (string, error) {
	now := j.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email:  actor.Email,
		Role:   actor.Role,
		ZoneID: actor.ZoneID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token, checks signature, issuer and expiry, and returns the actor it carries.
func (j *JWT) Verify(token string) (*domain.Actor, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" || !domain.ValidRole(claims.Role) {
		return nil, errors.New("token carries no valid subject or role")
	}
	return &domain.Actor{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		ZoneID: claims.ZoneID,
	}, nil
}
