package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims mirrors the access tokens issued by Supabase Auth.
type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

type EnhancedClaims struct {
	*CustomClaims
	UserID   string `json:"id"`
	Email    string `json:"email,omitempty"`
	Fullname string `json:"fullname,omitempty"`
}

func NewEnhancedClaims(claims *CustomClaims) *EnhancedClaims {
	ec := &EnhancedClaims{
		CustomClaims: claims,
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
	if name, ok := claims.UserMetadata["full_name"].(string); ok {
		ec.Fullname = name
	}
	return ec
}
