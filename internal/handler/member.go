package handler

import (
	"net/http"

	"github.com/msomdec/identity-app/internal/view"
)

// HandleMemberIndex renders the signed-in user's account page.
// Must be wrapped in RequireAuth.
func HandleMemberIndex(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	view.MemberPage(user).Render(r.Context(), w)
}

// HandleMe returns the signed-in user as JSON.
// GET /Member/Me
// Response: {"user": {...}}
func HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}
