package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"field-tech-api/internal/model"
)

const testSecret = "test-secret-with-enough-entropy"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCodecIssueAndValidate(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, 7*24*time.Hour, WithClock(fixedClock(issuedAt)))

	signed, expiresAt, err := codec.Issue(42, "joao", model.RoleTecnico)
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(7*24*time.Hour), expiresAt)
	require.Len(t, strings.Split(signed, "."), 3)

	claims, err := codec.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "joao", claims.Username)
	require.Equal(t, model.RoleTecnico, claims.Role)
	require.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	require.Equal(t, model.Identity{UserID: 42, Username: "joao", Role: model.RoleTecnico}, claims.Identity())
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt)))
	signed, _, err := issuer.Issue(1, "admin", model.RoleAdmin)
	require.NoError(t, err)

	later := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt.Add(2*time.Hour))))
	_, err = later.Validate(signed)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestCodecRejectsTokenWithoutExpiry(t *testing.T) {
	t.Parallel()

	claims := Claims{UserID: 1, Username: "admin", Role: model.RoleAdmin}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewCodec(testSecret, time.Hour).Validate(signed)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestCodecRejectsTamperedTokens(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret, time.Hour)
	signed, _, err := codec.Issue(7, "maria", model.RoleTecnico)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")

	flipped := []byte(parts[2])
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}

	otherSigned, _, err := NewCodec("another-secret", time.Hour).Issue(7, "maria", model.RoleAdmin)
	require.NoError(t, err)
	otherParts := strings.Split(otherSigned, ".")

	tests := []struct {
		name  string
		token string
	}{
		{name: "flipped signature", token: parts[0] + "." + parts[1] + "." + string(flipped)},
		{name: "two segments", token: parts[0] + "." + parts[1]},
		{name: "four segments", token: signed + ".extra"},
		{name: "empty", token: ""},
		{name: "swapped claims", token: parts[0] + "." + otherParts[1] + "." + parts[2]},
		{name: "undecodable claims", token: parts[0] + ".%%%." + parts[2]},
		{name: "signed with other secret", token: otherSigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Validate(tt.token)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
		})
	}
}

func TestCodecRejectsNonHMACAlgorithm(t *testing.T) {
	t.Parallel()

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewCodec(testSecret, time.Hour).Validate(unsigned)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}
