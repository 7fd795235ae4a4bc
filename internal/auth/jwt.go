package auth

import (
	"errors"
	"strconv"
	"time"

	"farmstore/config"
	"farmstore/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims identifies a shop account on API requests.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// TokenPair issues the access/refresh pair returned on register and login.
// The refresh token carries only the subject; role and email are re-read
// from the database when it is redeemed.
func TokenPair(cfg *config.JWTConfig, userID uint, email, role string) (access, refresh string, err error) {
	now := time.Now()
	subject := strconv.FormatUint(uint64(userID), 10)

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}).SignedString([]byte(cfg.AccessSecret))
	if err != nil {
		return "", "", err
	}

	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.RefreshExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    cfg.Issuer,
	}).SignedString([]byte(cfg.RefreshSecret))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
