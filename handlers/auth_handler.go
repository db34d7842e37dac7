package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/pingpong-tournament/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenRequest struct {
	Password string `json:"password"`
}

// IssueToken обменивает пароль организатора на JWT.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var input tokenRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, expiresAt, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
