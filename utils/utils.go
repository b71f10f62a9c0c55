package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/poker-club/models"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = bcrypt.DefaultCost

const (
	jwtClaimUsername = "username"
	jwtClaimIsAdmin  = "is_admin"
)

var ErrInvalidToken = errors.New("invalid or expired token")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with a bcrypt hash. Older users.json
// entries hold hex sha256 digests, which are accepted too.
func CheckPasswordHash(password, hash string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password))
	legacy := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(legacy), []byte(strings.ToLower(hash))) == 1
}

// IsLegacyHash reports whether hash should be upgraded to bcrypt.
func IsLegacyHash(hash string) bool {
	return !strings.HasPrefix(hash, "$2")
}

func GenerateJWT(actor models.Actor, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		jwtClaimUsername: actor.Username,
		jwtClaimIsAdmin:  actor.IsAdmin,
		"iat":            now.Unix(),
		"exp":            now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT validates tokenString and returns the actor it was issued to.
func ParseJWT(tokenString string, secret []byte) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, ErrInvalidToken
	}
	username, ok := claims[jwtClaimUsername].(string)
	if !ok || username == "" {
		return models.Actor{}, fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, jwtClaimUsername)
	}
	isAdmin, _ := claims[jwtClaimIsAdmin].(bool)
	return models.Actor{Username: username, IsAdmin: isAdmin}, nil
}
