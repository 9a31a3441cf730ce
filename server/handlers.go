package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/renderer"
)

// updatesPath is where the page listens for updates.
const updatesPath = "/ws"

func (s *Server) view() *renderer.View {
	return renderer.NewView(s.source.Current(), s.render)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var b bytes.Buffer
	if err := renderer.LiveHTML(&b, s.view(), updatesPath); err != nil {
		s.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	cur := s.source.Current()
	if cur == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	var b bytes.Buffer
	if err := dashboard.EncodeSnapshot(&b, cur); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode snapshot")
		http.Error(w, "failed to encode snapshot", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "loading"
	if s.source.Current() != nil {
		status = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"applied": s.source.Applied(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}
