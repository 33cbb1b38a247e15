package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/config"
)

// SSOResponse for GET /api/auth/sso
type SSOResponse struct {
	AuthURL string `json:"auth_url"`
}

// SSOHandler serves the company SSO entry point. It hands the frontend a
// ready-to-use authorization URL and pins the state parameter in a short
// lived session cookie for the callback to verify.
type SSOHandler struct {
	cfg    *config.SSOConfig
	logger *zap.Logger
}

// NewSSOHandler creates a new SSO handler.
func NewSSOHandler(cfg *config.SSOConfig, logger *zap.Logger) *SSOHandler {
	return &SSOHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the SSO handler's routes on the given mux.
// No auth middleware: this endpoint is how unauthenticated users start.
func (h *SSOHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/sso", h.Authorize)
}

// Authorize handles GET /api/auth/sso. Returns an empty auth_url when SSO
// is not configured, which the frontend treats as "SSO not offered".
func (h *SSOHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AuthorizeURL == "" {
		if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: SSOResponse{}}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	state, err := generateState()
	if err != nil {
		h.logger.Error("Failed to generate SSO state", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "An internal error occurred"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	session, err := auth.GetSession(r)
	if err != nil {
		h.logger.Warn("Failed to decode existing SSO session, starting fresh", zap.Error(err))
	}
	session.Values[auth.SessionKeyState] = state
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save SSO session", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "An internal error occurred"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	authURL, err := url.Parse(h.cfg.AuthorizeURL)
	if err != nil {
		h.logger.Error("Invalid SSO authorize URL", zap.String("url", h.cfg.AuthorizeURL), zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "An internal error occurred"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}
	q := authURL.Query()
	q.Set("response_type", "code")
	q.Set("client_id", h.cfg.ClientID)
	q.Set("redirect_uri", h.cfg.RedirectURL)
	q.Set("state", state)
	authURL.RawQuery = q.Encode()

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: SSOResponse{AuthURL: authURL.String()}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
