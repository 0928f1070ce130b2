package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-inventory/internal/config"
	"github.com/skyfare/flight-inventory/internal/utils"
)

// TokenHandler issues service tokens to configured API clients. The
// booking frontends exchange their client credentials for a short-lived
// JWT and present it on every /v1 call.
type TokenHandler struct {
	Cfg *config.Config
}

// NewTokenHandler constructs a TokenHandler bound to the loaded config.
func NewTokenHandler(cfg *config.Config) *TokenHandler {
	return &TokenHandler{Cfg: cfg}
}

type tokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// Token handles POST /v1/auth/token. Credentials are checked against the
// configured client id and bcrypt secret hash; on success a signed JWT
// is returned together with its expiry.
func (h *TokenHandler) Token(c echo.Context) error {
	var body tokenRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if body.ClientID != h.Cfg.ClientID || !utils.VerifySecret(h.Cfg.ClientSecretHash, body.ClientSecret) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid client credentials"})
	}
	tok, err := utils.NewServiceToken(h.Cfg.JWTSecret, body.ClientID, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, tok)
}
