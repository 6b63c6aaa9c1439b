package middleware

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// TokenIssuer identifies the service that issues all access tokens.
const TokenIssuer = utils.OrganizationName

// Role claim values.
const (
	RoleTenant = utils.TenantRole
	RoleAdmin  = utils.AdminRole
)

// ValidateToken checks the token's signature and the exp/iss claims.
// Any deviation returns a descriptive error; expiry is jwt.ErrTokenExpired.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey, now time.Time) (*jwt.Token, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	// ─── Standard claim checks ────────────────────────────────────────────────────
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(now) {
		return nil, nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, nil, errors.New("invalid token issuer")
	}

	return token, claims, nil
}
