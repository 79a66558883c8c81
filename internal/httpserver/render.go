package httpserver

import (
	"log/slog"
	"net/http"
)

// render executes a template with the given status and data.
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// renderError renders the error page. Messages must stay generic: they
// never disclose whether an email exists in the directory.
func (s *Server) renderError(w http.ResponseWriter, errMsg string) {
	s.render(w, http.StatusBadRequest, "error.html", map[string]string{
		"Error": errMsg,
	})
}
