package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	mw "habitq/internal/middleware"
	"habitq/internal/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	sessions *mw.Sessions
	secure   bool
}

func NewAuthHandler(auth *services.AuthService, sessions *mw.Sessions, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, secure: secureCookie}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.auth.Signup(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.startSession(w, u.ID); err != nil {
		writeError(w, r, err)
		return
	}
	mw.Logger(r.Context()).Info("user signed up", zap.String("user_id", u.ID))
	writeJSON(w, http.StatusCreated, ToUserDTO(*u))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.startSession(w, u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{ID: u.ID, Email: u.Email, Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", time.Unix(0, 0), -1))
	writeJSON(w, http.StatusOK, success{Success: true})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID string) (string, error) {
	token, exp, err := h.sessions.Issue(userID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, h.cookie(token, exp, int(h.sessions.TTL().Seconds())))
	return token, nil
}

func (h *AuthHandler) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     mw.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
