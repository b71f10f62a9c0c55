package utils

import (
	"testing"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.False(t, IsLegacyHash(hash))
	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}

func TestCheckPasswordHash_LegacySHA256(t *testing.T) {
	// sha256("password")
	legacy := "5E884898DA28047151D0E56F8DC6292773603D0D6AABBDD62A11EF721D1542D8"

	assert.True(t, IsLegacyHash(legacy))
	assert.True(t, CheckPasswordHash("password", legacy))
	assert.False(t, CheckPasswordHash("Password", legacy))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT(models.Actor{Username: "boss", IsAdmin: true}, secret, time.Hour)
	require.NoError(t, err)

	actor, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{Username: "boss", IsAdmin: true}, actor)

	_, err = ParseJWT(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWT_Rejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := GenerateJWT(models.Actor{Username: "boss"}, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "boss"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"is_admin": true}).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseJWT(noUser, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("garbage", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
