package web

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var staticFS embed.FS

// handleIndex serves the single-page search console.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}
