package security

import (
	"healthwatch/config"
	"healthwatch/pkg/apperror"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "healthwatch"

type TokenService struct {
	secret           string
	expiryMin        int
	refreshExpiryMin int
	now              func() time.Time
}

func NewTokenService(authCfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret:           authCfg.Secret,
		expiryMin:        authCfg.ExpiryMin,
		refreshExpiryMin: authCfg.RefreshExpiryMin,
		now:              time.Now,
	}
}

func (ts *TokenService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return ts.generate(userID, email, useAccess, ts.expiryMin)
}

// GenerateRefreshToken issues the longer lived token traded in for a fresh
// pair. It does not authorise API calls.
func (ts *TokenService) GenerateRefreshToken(userID uuid.UUID, email string) (string, error) {
	return ts.generate(userID, email, useRefresh, ts.refreshExpiryMin)
}

func (ts *TokenService) ValidateAccessToken(accessToken string) (*RequestClaims, error) {
	return ts.validate("service.token.validate_access_token", accessToken, useAccess)
}

func (ts *TokenService) ValidateRefreshToken(refreshToken string) (*RequestClaims, error) {
	return ts.validate("service.token.validate_refresh_token", refreshToken, useRefresh)
}

func (ts *TokenService) generate(userID uuid.UUID, email, use string, expiryMin int) (string, error) {
	now := ts.now()
	expiryTime := now.Add(time.Duration(expiryMin) * time.Minute)

	claims := RequestClaims{
		UserID: userID.String(),
		Email:  email,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiryTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(ts.secret))
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (ts *TokenService) validate(op, rawToken, use string) (*RequestClaims, error) {
	claims := &RequestClaims{}

	token, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(ts.secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil || !token.Valid || claims.Use != use {
		return nil, &apperror.Error{
			Kind:    apperror.Unauthorised,
			Op:      op,
			Err:     err,
			Message: "invalid token",
		}
	}

	return claims, nil
}
