package controller

import (
	"encoding/json"
	"net/http"

	"menu-signage/config"
	"menu-signage/logging"
)

// APIKeyVerifier checks admin API keys
type APIKeyVerifier interface {
	APIKeyConfigured() bool
	VerifyAPIKey(key string) bool
}

// AuthController exposes the public auth helpers the admin UI uses
type AuthController struct {
	cfg      config.AuthConfig
	verifier APIKeyVerifier
}

// NewAuthController creates a new AuthController
func NewAuthController(cfg config.AuthConfig, verifier APIKeyVerifier) *AuthController {
	return &AuthController{cfg: cfg, verifier: verifier}
}

type authConfigResponse struct {
	Domain          *string `json:"domain"`
	ClientID        *string `json:"clientId"`
	Audience        string  `json:"audience"`
	DevelopmentMode bool    `json:"developmentMode"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Config handles GET /api/auth-config
func (c *AuthController) Config(w http.ResponseWriter, r *http.Request) {
	cfg := authConfigResponse{
		Domain:          optional(c.cfg.Auth0Domain),
		ClientID:        optional(c.cfg.Auth0Client),
		Audience:        c.cfg.Audience(),
		DevelopmentMode: c.cfg.Auth0Domain == "" || c.cfg.Auth0Client == "",
	}
	msg := "Auth0 configuration loaded"
	if cfg.DevelopmentMode {
		msg = "Running in development mode - Auth0 not configured"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"config":  cfg,
		"message": msg,
	})
}

// VerifyAPIKey handles POST /api/verify-api-key
func (c *AuthController) VerifyAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request", "valid": false})
		return
	}
	if !c.verifier.APIKeyConfigured() {
		logging.Log.Errorf("❌ VerifyAPIKey: ADMIN_API_KEY not configured")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Server configuration error", "valid": false})
		return
	}

	valid := c.verifier.VerifyAPIKey(req.APIKey)
	msg := "Invalid API key"
	if valid {
		msg = "API key valid"
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": valid, "message": msg})
}
