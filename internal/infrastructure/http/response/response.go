package response

import (
	"net/http"
)

// HTML sends a rendered page
func HTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Text sends a plain text response
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Error sends an error response with the status text as prefix
func Error(w http.ResponseWriter, status int, err error) {
	Text(w, status, http.StatusText(status)+": "+err.Error())
}

// SeeOther redirects a form post back to a page
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
