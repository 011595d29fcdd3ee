package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

type Claims struct {
	Sub  string `json:"sub"`  // account id
	Role string `json:"role"` // member/administrator
	jwt.RegisteredClaims
}

// AccountID returns the numeric account id carried in the subject claim.
func (c *Claims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Sub, 10, 64)
}

func GenerateToken(secret string, accountID int64, role string, ttl time.Duration) (string, error) {
	c := Claims{
		Sub:  strconv.FormatInt(accountID, 10),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
