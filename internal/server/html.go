package server

import (
	"errors"
	"net/http"
	"strconv"

	"raid-viewer/internal/service"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Str("path", r.URL.Path).Msg("template execution failed")
	}
}

// renderError translates any propagated failure into a friendly page.
// The underlying error is logged, never shown.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	s.logger.Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if terr := s.tmpl.ExecuteTemplate(w, "error.html", map[string]any{"Message": message}); terr != nil {
		s.logger.Error().Err(terr).Msg("error page rendering failed")
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "That request doesn't look right."
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Nothing here."
	default:
		return http.StatusServiceUnavailable, "The viewer is temporarily unavailable. Please try again shortly."
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	bosses, err := s.bosses.ListActive(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "index.html", map[string]any{"Bosses": bosses})
}

func (s *Server) handleBossDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.bosses.Detail(r.Context(), r.PathValue("boss_key"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "boss_detail.html", detail)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.rankings.AllTime(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "rankings.html", map[string]any{"Rankings": entries})
}

func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		s.renderError(w, r, service.ErrInvalidInput)
		return
	}

	stats, err := s.rankings.UserStats(r.Context(), userID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "user_detail.html", stats)
}

func (s *Server) handleDefeats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	defeats, err := s.defeats.History(r.Context(), limit, offset)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "defeats.html", map[string]any{"Defeats": defeats})
}

func (s *Server) handleDefeatDetail(w http.ResponseWriter, r *http.Request) {
	defeatID, err := strconv.ParseInt(r.PathValue("defeat_id"), 10, 64)
	if err != nil {
		s.renderError(w, r, service.ErrInvalidInput)
		return
	}

	defeat, err := s.defeats.Detail(r.Context(), defeatID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "defeat_detail.html", defeat)
}
