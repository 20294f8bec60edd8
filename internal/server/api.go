package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"raid-viewer/internal/domain"
	"raid-viewer/internal/service"
)

type bossJSON struct {
	BossKey    string     `json:"boss_key"`
	BossName   string     `json:"boss_name"`
	CurrentHP  int64      `json:"current_hp"`
	MaxHP      int64      `json:"max_hp"`
	Defeated   bool       `json:"defeated"`
	SpawnedAt  time.Time  `json:"spawned_at"`
	DefeatedAt *time.Time `json:"defeated_at,omitempty"`
}

type participantJSON struct {
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	ActionCount   int64     `json:"action_count"`
	TotalDamage   int64     `json:"total_damage"`
	AverageDamage float64   `json:"average_damage"`
	FirstAttackAt time.Time `json:"first_attack_at"`
	LastAttackAt  time.Time `json:"last_attack_at"`
}

type rankingJSON struct {
	Rank               int    `json:"rank"`
	UserID             int64  `json:"user_id"`
	UserName           string `json:"user_name"`
	TotalDamage        int64  `json:"total_damage"`
	TotalActions       int64  `json:"total_actions"`
	BossesParticipated int64  `json:"bosses_participated"`
}

type defeatJSON struct {
	ID               int64     `json:"id"`
	BossKey          string    `json:"boss_key"`
	BossName         string    `json:"boss_name"`
	DefeatedAt       time.Time `json:"defeated_at"`
	TotalDamage      int64     `json:"total_damage"`
	DurationSeconds  int64     `json:"duration_seconds"`
	ParticipantCount int64     `json:"participant_count"`
}

type errorJSON struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode json response")
	}
}

// writeAPIError returns a stable, diagnostic-free error object; the
// real error goes to the log only.
func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("api request failed")

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, errorJSON{Error: "bad_request", Message: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorJSON{Error: "not_found", Message: "resource not found"})
	default:
		s.writeJSON(w, http.StatusServiceUnavailable, errorJSON{Error: "unavailable", Message: "service temporarily unavailable"})
	}
}

func (s *Server) handleAPIBosses(w http.ResponseWriter, r *http.Request) {
	bosses, err := s.bosses.ListActive(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	out := make([]bossJSON, 0, len(bosses))
	for _, b := range bosses {
		out = append(out, bossJSON{
			BossKey:    b.BossKey,
			BossName:   b.BossName,
			CurrentHP:  b.CurrentHP,
			MaxHP:      b.MaxHP,
			Defeated:   b.Defeated,
			SpawnedAt:  b.SpawnedAt,
			DefeatedAt: b.DefeatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func toParticipantJSON(p domain.Participant) participantJSON {
	return participantJSON{
		UserID:        p.UserID,
		UserName:      p.UserName,
		ActionCount:   p.ActionCount,
		TotalDamage:   p.TotalDamage,
		AverageDamage: p.AverageDamage,
		FirstAttackAt: p.FirstAttackAt,
		LastAttackAt:  p.LastAttackAt,
	}
}

func (s *Server) handleAPIParticipants(w http.ResponseWriter, r *http.Request) {
	detail, err := s.bosses.Detail(r.Context(), r.PathValue("boss_key"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	out := make([]participantJSON, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		out = append(out, toParticipantJSON(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIAttackHolder(w http.ResponseWriter, r *http.Request) {
	holder, err := s.bosses.AttackHolder(r.Context(), r.PathValue("boss_key"))
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toParticipantJSON(*holder))
}

func (s *Server) handleAPIRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.rankings.AllTime(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	out := make([]rankingJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankingJSON{
			Rank:               e.Rank,
			UserID:             e.UserID,
			UserName:           e.UserName,
			TotalDamage:        e.TotalDamage,
			TotalActions:       e.TotalActions,
			BossesParticipated: e.BossesParticipated,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIDefeats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	defeats, err := s.defeats.History(r.Context(), limit, offset)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	out := make([]defeatJSON, 0, len(defeats))
	for _, d := range defeats {
		out = append(out, defeatJSON{
			ID:               d.ID,
			BossKey:          d.BossKey,
			BossName:         d.BossName,
			DefeatedAt:       d.DefeatedAt,
			TotalDamage:      d.TotalDamage,
			DurationSeconds:  d.DurationSeconds,
			ParticipantCount: d.ParticipantCount,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleHealth never touches the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
