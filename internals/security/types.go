package security

import "github.com/golang-jwt/jwt/v5"

// token uses; an access token is never accepted where a refresh token is
// expected, and the other way round
const (
	useAccess  = "access"
	useRefresh = "refresh"
)

type RequestClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}
