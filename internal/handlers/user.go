package handlers

import (
	"net/http"

	mw "habitq/internal/middleware"
	"habitq/internal/services"
)

// GetMe returns the current user's profile
func GetMe(w http.ResponseWriter, r *http.Request) {
	u, ok := mw.UserFrom(r.Context())
	if !ok {
		writeError(w, r, services.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, ToUserDTO(*u))
}

// currentUserID is only called behind RequireUser.
func currentUserID(r *http.Request) string {
	if u, ok := mw.UserFrom(r.Context()); ok {
		return u.ID
	}
	return ""
}
