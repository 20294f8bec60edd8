package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"raid-viewer/internal/domain"
	"raid-viewer/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// BossProvider, RankingProvider and DefeatProvider are the service
// surfaces the handlers depend on.
type BossProvider interface {
	ListActive(ctx context.Context) ([]domain.Boss, error)
	Detail(ctx context.Context, bossKey string) (*service.BossDetail, error)
	AttackHolder(ctx context.Context, bossKey string) (*domain.Participant, error)
}

type RankingProvider interface {
	AllTime(ctx context.Context) ([]domain.RankingEntry, error)
	UserStats(ctx context.Context, userID int64) (*domain.UserStats, error)
}

type DefeatProvider interface {
	History(ctx context.Context, limit, offset int) ([]domain.DefeatRecord, error)
	Detail(ctx context.Context, defeatID int64) (*domain.DefeatRecord, error)
}

type Server struct {
	bosses   BossProvider
	rankings RankingProvider
	defeats  DefeatProvider
	logger   zerolog.Logger
	tmpl     *template.Template
}

func New(bosses BossProvider, rankings RankingProvider, defeats DefeatProvider, logger zerolog.Logger) (*Server, error) {
	funcs := template.FuncMap{
		"formatNumber": func(n int64) string { return humanize.Comma(n) },
		"formatFloat":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
		"formatTime":   func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 UTC") },
		"add":          func(a, b int) int { return a + b },
		"hpPercent": func(current, max int64) int64 {
			if max <= 0 {
				return 0
			}
			return current * 100 / max
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		bosses:   bosses,
		rankings: rankings,
		defeats:  defeats,
		logger:   logger,
		tmpl:     tmpl,
	}, nil
}

// Routes registers every route on a fresh mux. Middleware is applied
// by the caller.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /boss/{boss_key}", s.handleBossDetail)
	mux.HandleFunc("GET /rankings", s.handleRankings)
	mux.HandleFunc("GET /user/{user_id}", s.handleUserDetail)
	mux.HandleFunc("GET /defeats", s.handleDefeats)
	mux.HandleFunc("GET /defeat/{defeat_id}", s.handleDefeatDetail)

	mux.HandleFunc("GET /api/bosses", s.handleAPIBosses)
	mux.HandleFunc("GET /api/boss/{boss_key}/participants", s.handleAPIParticipants)
	mux.HandleFunc("GET /api/boss/{boss_key}/attack-holder", s.handleAPIAttackHolder)
	mux.HandleFunc("GET /api/rankings", s.handleAPIRankings)
	mux.HandleFunc("GET /api/defeats", s.handleAPIDefeats)

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}
