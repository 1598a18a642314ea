package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go/types"
)

const maxWebhookBody = 1 << 20

type TokenValidator interface {
	Validate(tokenStr string) (*helpers.CustomClaims, error)
}

type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		requestID, _ := c.Get("request_id")

		evt := logger.Info()
		if status >= http.StatusInternalServerError {
			evt = logger.Error()
		} else if status >= http.StatusBadRequest {
			evt = logger.Warn()
		}
		evt.
			Interface("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP Request")
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error().
			Interface("request_id", requestID).
			Err(err.Err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request error")

		if !c.Writer.Written() {
			c.JSON(helpers.StatusFromError(err.Err), helpers.ErrorResponse(helpers.PublicMessage(err.Err)))
		}
	}
}

// AuthMiddleware accepts a bearer token or the access_token cookie. An
// invalid cookie token is refreshed once through the refresh_token cookie.
func AuthMiddleware(validator TokenValidator, refresher TokenRefresher, logger zerolog.Logger, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie := bearerOrCookie(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse("access token not found"))
			return
		}

		claims, err := validator.Validate(token)
		if err != nil && fromCookie {
			claims, err = refresh(c, validator, refresher, logger, secureCookies)
		}
		if err != nil {
			logger.Debug().Err(err).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized access"))
			return
		}

		c.Set("user", helpers.NewEnhancedClaims(claims))
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token), false
		}
	}
	token, err := c.Cookie(helpers.AccessTokenCookie)
	if err != nil {
		return "", false
	}
	return token, true
}

func refresh(c *gin.Context, validator TokenValidator, refresher TokenRefresher, logger zerolog.Logger, secure bool) (*helpers.CustomClaims, error) {
	refreshToken, err := c.Cookie(helpers.RefreshTokenCookie)
	if err != nil {
		return nil, err
	}
	resp, err := refresher.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		logger.Warn().Err(err).Msg("token refresh failed")
		return nil, err
	}
	claims, err := validator.Validate(resp.AccessToken)
	if err != nil {
		return nil, err
	}
	helpers.SetAuthCookies(c, resp.AccessToken, resp.RefreshToken, resp.ExpiresIn, secure)
	logger.Info().Str("user_id", claims.Subject).Int("expires_in", resp.ExpiresIn).Msg("token refreshed")
	return claims, nil
}

// WebhookSignature rejects bodies whose HMAC does not match the shared
// secret. The body is restored for the next handler.
func WebhookSignature(secret string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, helpers.ErrorResponse("unreadable body"))
			return
		}
		if !helpers.VerifyWebhook(secret, body, c.GetHeader(helpers.WebhookSignatureHeader)) {
			logger.Warn().Str("client_ip", c.ClientIP()).Msg("webhook signature mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, helpers.ErrorResponse("invalid signature"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
