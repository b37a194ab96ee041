package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler auth endpoints
type AuthHandler struct {
	authSvc service.AuthService
	cookie  config.CookieConfig
	ttl     time.Duration
	ttlLong time.Duration
}

// NewAuthHandler creates an AuthHandler. cfg may be nil in tests.
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	h := &AuthHandler{authSvc: authSvc, ttl: 24 * time.Hour, ttlLong: 30 * 24 * time.Hour}
	if cfg != nil {
		h.cookie = cfg.Cookie
		if cfg.RefreshTokenTTLDefault > 0 {
			h.ttl = cfg.RefreshTokenTTLDefault
		}
		if cfg.RefreshTokenTTLRemember > 0 {
			h.ttlLong = cfg.RefreshTokenTTLRemember
		}
	}
	return h
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	maxAge := h.ttl
	if req.RememberMe {
		maxAge = h.ttlLong
	}
	h.setRefreshCookie(c, result.RefreshToken, maxAge)
	response.OK(c, result)
}

// RefreshToken exchanges a refresh token; the cookie wins over the body.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var req dto.RefreshTokenRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		response.BadRequest(c, 10001, "refresh_token is required")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.handleAuthError(c, err)
		return
	}

	// the token's own expiry still applies
	h.setRefreshCookie(c, result.RefreshToken, h.ttlLong)
	response.OK(c, result)
}

// Logout revokes the current access token and the refresh token if present.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetProfileID(c); !ok {
		return
	}
	jti, exp := tokenFrom(c)

	refresh, _ := c.Cookie(refreshCookieName)
	if refresh == "" {
		var req dto.RefreshTokenRequest
		_ = c.ShouldBindJSON(&req)
		refresh = req.RefreshToken
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp, refresh); err != nil {
		response.InternalError(c)
		return
	}

	h.clearRefreshCookie(c)
	response.OK(c, nil)
}

// GetCurrentUser
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	profile, err := h.authSvc.Me(c.Request.Context(), profileID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, profile)
}

// ChangePassword
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "new password must be 8-64 characters")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), profileID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── cookies ──

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, token, int(maxAge.Seconds()), refreshCookiePath, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, h.cookie.Domain, h.cookie.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// handleAuthError maps auth errors.
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid email or password")
	case errors.Is(err, service.ErrAccountDisabled):
		response.Forbidden(c, 11002, "account is disabled")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Unauthorized(c, 11003, "refresh token is invalid or has been used")
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11004, "current password is incorrect")
	case errors.Is(err, service.ErrPasswordUnchanged):
		response.BadRequest(c, 11005, "new password must differ from the current one")
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 11006, "profile not found")
	default:
		response.InternalError(c)
	}
}
