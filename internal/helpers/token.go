package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// TokenValidator checks access tokens against the provider's JWKS, or
// against a shared HS256 secret when one is configured.
type TokenValidator struct {
	jwks    *keyfunc.JWKS
	secret  []byte
	methods []string
}

func NewTokenValidator(ctx context.Context, jwksURL, secret string, logger zerolog.Logger) (*TokenValidator, error) {
	if secret != "" {
		return &TokenValidator{secret: []byte(secret), methods: []string{"HS256"}}, nil
	}
	if jwksURL == "" {
		return nil, errors.New("either a JWKS url or a JWT secret is required")
	}

	// ctx bounds the background refresh, not the initial fetch
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshTimeout:    10 * time.Second,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Error().Err(err).Msg("failed to refresh JWKS")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}
	return &TokenValidator{jwks: jwks, methods: []string{"RS256", "ES256"}}, nil
}

func (tv *TokenValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	if tv.jwks != nil {
		return tv.jwks.Keyfunc(token)
	}
	return tv.secret, nil
}

func (tv *TokenValidator) Validate(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyfunc, jwt.WithValidMethods(tv.methods))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Close stops the background JWKS refresh.
func (tv *TokenValidator) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}
