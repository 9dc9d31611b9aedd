package tokens

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry indicates the token carries no exp claim.
var ErrNoExpiry = errors.New("tokens: token has no expiry claim")

// AccessTokenExpiry reports when the given JWT access token expires. The
// signature is not verified; validity is the server's call, this is only used
// to decide whether a stored token is worth presenting at all.
func AccessTokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}
