package handler

import (
	"net/http"

	"github.com/msomdec/identity-app/internal/view"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	view.HomePage(userName(r)).Render(r.Context(), w)
}

// HandlePrivacy renders the privacy page.
func HandlePrivacy(w http.ResponseWriter, r *http.Request) {
	view.PrivacyPage(userName(r)).Render(r.Context(), w)
}
