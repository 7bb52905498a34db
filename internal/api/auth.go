package api

import (
	"errors"
	"net/http"

	"github.com/vistahogar/listings/internal/auth"
	"github.com/vistahogar/listings/internal/middleware"
)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	user, err := h.auth.SignUp(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": user})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	session, user, err := h.auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"token":     session.Token,
			"expiresAt": session.ExpiresAt,
			"user":      user,
		},
	})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			h.log.WithError(err).Warn("sign out failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": user})
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

// handleRequestReset always answers success so the endpoint cannot be used
// to enumerate registered addresses.
func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequestPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	token, err := h.auth.RequestPasswordReset(r.Context(), payload.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if token != "" {
		// Delivery would go through a mail provider; until one is wired the
		// token is only logged where an operator can hand it over.
		h.log.WithField("email", payload.Email).Info("password reset token issued")
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type resetConfirmPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var payload resetConfirmPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := h.auth.ResetPassword(r.Context(), payload.Token, payload.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type passwordPayload struct {
	Password string `json:"password"`
}

func (h *Handler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}
	var payload passwordPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := h.auth.UpdatePassword(r.Context(), user, payload.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
