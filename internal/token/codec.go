package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"field-tech-api/internal/model"
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() model.Identity {
	return model.Identity{UserID: c.UserID, Username: c.Username, Role: c.Role}
}

// Codec issues and validates HS256 session tokens. Tokens are stateless:
// there is no revocation list and logout is a client-side discard.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces the time source used for iat/exp and validation.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	codec := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(codec)
	}

	return codec
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given user and returns it with its expiry.
func (c *Codec) Issue(userID int64, username string, role string) (string, time.Time, error) {
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks structure, signature and expiry. A missing or past exp
// yields model.ErrTokenExpired; anything else wrong yields
// model.ErrTokenInvalid.
func (c *Codec) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenRequiredClaimMissing) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}

	if !parsed.Valid || claims.UserID <= 0 {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}
