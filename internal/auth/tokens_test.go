package auth

import (
	"strings"
	"testing"
	"time"

	"yatube/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	iss := NewIssuer("secret", 5*time.Minute, time.Hour)
	pair, err := iss.IssuePair(model.User{ID: 7, Username: "alice"})
	require.NoError(t, err)
	require.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := iss.Parse(pair.Access, AccessToken)
	require.NoError(t, err)
	require.Equal(t, model.Principal{UserID: 7, Username: "alice"}, claims.Principal())
	require.Equal(t, "7", claims.Subject)
	require.NotEmpty(t, claims.ID)

	claims, err = iss.Parse(pair.Refresh, RefreshToken)
	require.NoError(t, err)
	require.Equal(t, RefreshToken, claims.TokenType)
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("secret", time.Minute, time.Hour)
	iss.now = func() time.Time { return now }

	pair, err := iss.IssuePair(model.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	expired := NewIssuer("secret", time.Minute, time.Hour)
	expired.now = func() time.Time { return now.Add(2 * time.Minute) }

	other := NewIssuer("other-secret", time.Minute, time.Hour)
	other.now = iss.now

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:    7,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *Issuer
		token  string
		want   TokenType
	}{
		{name: "refresh used as access", issuer: iss, token: pair.Refresh, want: AccessToken},
		{name: "access used as refresh", issuer: iss, token: pair.Access, want: RefreshToken},
		{name: "expired", issuer: expired, token: pair.Access, want: AccessToken},
		{name: "wrong secret", issuer: other, token: pair.Access, want: AccessToken},
		{name: "garbage", issuer: iss, token: "not.a.jwt", want: AccessToken},
		{name: "tampered", issuer: iss, token: tamper(pair.Access), want: AccessToken},
		{name: "alg none", issuer: iss, token: noneToken, want: AccessToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.issuer.Parse(tt.token, tt.want)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)
	hash, err := h.Hash("password1")
	require.NoError(t, err)
	require.NotEqual(t, "password1", hash)

	require.NoError(t, h.Compare(hash, "password1"))
	require.Error(t, h.Compare(hash, "password2"))
}

// tamper flips the first character of the signature segment.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 1
	c := byte('A')
	if token[i] == 'A' {
		c = 'B'
	}
	return token[:i] + string(c) + token[i+1:]
}
