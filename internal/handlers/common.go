package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// returnToCookie remembers the listing page a browser was on, so login and
// vote flows can send it back there.
const returnToCookie = "desidict_return_to"

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func rememberReturnTo(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     returnToCookie,
		Value:    r.URL.RequestURI(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// returnTo yields the remembered local path, falling back to the listing.
func returnTo(r *http.Request) string {
	cookie, err := r.Cookie(returnToCookie)
	if err != nil || cookie.Value == "" {
		return "/"
	}
	// Local paths only; anything absolute would be an open redirect.
	if !strings.HasPrefix(cookie.Value, "/") || strings.HasPrefix(cookie.Value, "//") {
		return "/"
	}
	return cookie.Value
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
