package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"menu-signage/config"
	"menu-signage/logging"
)

// Authentication methods reported in Principal.Method
const (
	MethodAPIKey      = "api_key"
	MethodAuth0       = "auth0"
	MethodDevelopment = "development"
)

var (
	errNoCredentials = errors.New("No valid authentication provided. Use X-API-Key header or Authorization Bearer token.")
	errInvalidAPIKey = errors.New("Invalid API key")
	errNoAPIKey      = errors.New("ADMIN_API_KEY not configured")
)

// Principal is the authenticated caller of an admin request
type Principal struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Method  string `json:"auth_method"`
}

type principalKey struct{}

// PrincipalFrom returns the caller stored by Authenticator.Require
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Authenticator guards admin routes with an API key or an Auth0 JWT.
// With neither configured every request is let through as a development user.
type Authenticator struct {
	apiKey   string
	audience string
	issuer   string
	keyfunc  jwt.Keyfunc
}

// NewAuthenticator builds an Authenticator from the auth config. When an
// Auth0 domain is set the signing keys are fetched from its JWKS endpoint
// and refreshed in the background until ctx is done.
func NewAuthenticator(ctx context.Context, cfg config.AuthConfig) (*Authenticator, error) {
	a := &Authenticator{apiKey: cfg.APIKey, audience: cfg.Audience()}
	if cfg.Auth0Domain == "" {
		return a, nil
	}

	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	a.keyfunc = k.Keyfunc
	a.issuer = fmt.Sprintf("https://%s/", cfg.Auth0Domain)
	return a, nil
}

// NewStaticAuthenticator builds an Authenticator with a given key function
func NewStaticAuthenticator(apiKey, audience, issuer string, kf jwt.Keyfunc) *Authenticator {
	return &Authenticator{apiKey: apiKey, audience: audience, issuer: issuer, keyfunc: kf}
}

// DevelopmentMode reports whether requests pass without credentials
func (a *Authenticator) DevelopmentMode() bool {
	return a.apiKey == "" && a.keyfunc == nil
}

// APIKeyConfigured reports whether an admin API key is set
func (a *Authenticator) APIKeyConfigured() bool {
	return a.apiKey != ""
}

// VerifyAPIKey compares key with the configured admin key in constant time
func (a *Authenticator) VerifyAPIKey(key string) bool {
	if a.apiKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) == 1
}

// Require rejects requests without valid credentials with 401
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.authenticate(r)
		if err != nil {
			logging.Log.Warnf("❌ Auth: %s %s rejected: %v", r.Method, r.URL.Path, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		logging.Log.Debugf("Auth: %s %s as %s (%s)", r.Method, r.URL.Path, p.Subject, p.Method)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (Principal, error) {
	if a.DevelopmentMode() {
		return Principal{Subject: "dev-user", Email: "admin@teampinas.nl", Method: MethodDevelopment}, nil
	}

	if key := r.Header.Get("X-API-Key"); key != "" {
		if a.apiKey == "" {
			return Principal{}, errNoAPIKey
		}
		if !a.VerifyAPIKey(key) {
			return Principal{}, errInvalidAPIKey
		}
		return Principal{Subject: "api-key-user", Email: "admin@teampinas.nl", Method: MethodAPIKey}, nil
	}

	header := r.Header.Get("Authorization")
	if header != "" && a.keyfunc != nil {
		return a.verifyToken(strings.TrimPrefix(header, "Bearer "))
	}
	return Principal{}, errNoCredentials
}

func (a *Authenticator) verifyToken(raw string) (Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, a.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}
	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	return Principal{Subject: sub, Email: email, Method: MethodAuth0}, nil
}
