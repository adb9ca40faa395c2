// internal/controller/auth_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/auth"
	"github.com/gracechapel/flocktext-backend/internal/config"
	"github.com/gracechapel/flocktext-backend/internal/httputil"
)

type AuthController struct {
	Cfg *config.Config
}

// Login checks the admin credentials and issues a bearer token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if !auth.VerifyAdminCredentials(body.Email, body.Password, c.Cfg.AdminEmail, c.Cfg.AdminPassword) {
		httputil.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.SignAdminToken(c.Cfg.JWTSecret, c.Cfg.AdminEmail, time.Now())
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"token": token})
}
