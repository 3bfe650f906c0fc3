package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogpost/blogapi/config"
)

// Access and refresh token lifetimes. Registration issues a longer-lived
// access token than login; both values are part of the observed contract.
const (
	RegisterTokenTTL = 24 * time.Hour
	LoginTokenTTL    = time.Hour
	RefreshTokenTTL  = 7 * 24 * time.Hour
)

// Claims is the fixed claim set embedded in access tokens: the subject
// user plus the admin flag. No endpoint currently checks IsAdmin; it is
// carried for parity with the stored user record.
type Claims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a signed access token for the given user.
func GenerateAccessToken(userID uint, isAdmin bool, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// GenerateRefreshToken issues a refresh token carrying only the subject
// user, signed with the same key. No exchange endpoint consumes it yet;
// clients receive it at login for forward compatibility.
func GenerateRefreshToken(userID uint, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseToken validates a token's signature and expiry and returns its
// claims. It rejects tokens signed with any non-HMAC method.
func ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Get().JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
