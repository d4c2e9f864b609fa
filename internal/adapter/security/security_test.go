package security

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "marketplace-service")

	token, err := svc.Sign(usecase.TokenPayload{UserID: "665f1c2a9b1e8a0012345678", Type: domain.AccountTypeSeller}, time.Hour)
	require.NoError(t, err)

	payload, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2a9b1e8a0012345678", payload.UserID)
	assert.Equal(t, domain.AccountTypeSeller, payload.Type)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", "marketplace-service")
	payload := usecase.TokenPayload{UserID: "665f1c2a9b1e8a0012345678", Type: domain.AccountTypeUser}

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Sign(payload, time.Minute)
		require.NoError(t, err)
		later := *svc
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, err = later.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewJWTService("another-secret", "marketplace-service").Sign(payload, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
	})

	t.Run("other issuer", func(t *testing.T) {
		token, err := NewJWTService("test-secret", "someone-else").Sign(payload, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: payload.UserID}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})

	t.Run("empty user", func(t *testing.T) {
		_, err := svc.Sign(usecase.TokenPayload{}, time.Hour)
		assert.Error(t, err)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, h.Compare(hash, "s3cret-pass"))
	assert.False(t, h.Compare(hash, "wrong-pass"))
	assert.False(t, h.Compare("not-a-hash", "s3cret-pass"))

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
}
