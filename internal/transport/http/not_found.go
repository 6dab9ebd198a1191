package http

import "net/http"

// NotFoundHandler is the catch-all for routes the mux does not know,
// answering with the same JSON error shape as the rest of the API.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}
