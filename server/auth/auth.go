// Package auth issues and verifies the stateless access tokens used by
// the REST API.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	issuer = "magicai"
	// keyID versions the signing secret so a rotation can invalidate old
	// tokens by version rather than by value.
	keyID = "v1"

	// AccessTokenDuration is the lifetime of an issued token.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ClaimsMessage is the JWT payload: the user ID travels in the subject.
type ClaimsMessage struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token for the user.
func GenerateAccessToken(userID int32, expiresAt time.Time, secret string) (string, error) {
	claims := &ClaimsMessage{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(int(userID)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = keyID
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken parses and validates a token, returning the user ID
// it was issued to.
func VerifyAccessToken(tokenString, secret string) (int32, error) {
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		if kid, ok := t.Header["kid"].(string); !ok || kid != keyID {
			return nil, errors.New("unexpected key id")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return 0, errors.Wrap(err, "invalid access token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "malformed token subject")
	}
	return int32(userID), nil
}
