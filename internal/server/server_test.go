package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"raid-viewer/internal/domain"
	"raid-viewer/internal/service"

	"github.com/rs/zerolog"
)

type fakeBossProvider struct {
	bosses []domain.Boss
	detail *service.BossDetail
	holder *domain.Participant
	err    error
	calls  int
}

func (f *fakeBossProvider) ListActive(ctx context.Context) ([]domain.Boss, error) {
	f.calls++
	return f.bosses, f.err
}

func (f *fakeBossProvider) Detail(ctx context.Context, bossKey string) (*service.BossDetail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.detail == nil {
		return nil, service.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeBossProvider) AttackHolder(ctx context.Context, bossKey string) (*domain.Participant, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.holder == nil {
		return nil, service.ErrNotFound
	}
	return f.holder, nil
}

type fakeRankingProvider struct {
	entries []domain.RankingEntry
	stats   *domain.UserStats
	err     error
	calls   int
}

func (f *fakeRankingProvider) AllTime(ctx context.Context) ([]domain.RankingEntry, error) {
	f.calls++
	return f.entries, f.err
}

func (f *fakeRankingProvider) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.stats == nil {
		return nil, service.ErrNotFound
	}
	return f.stats, nil
}

type fakeDefeatProvider struct {
	defeats []domain.DefeatRecord
	defeat  *domain.DefeatRecord
	err     error
	calls   int
}

func (f *fakeDefeatProvider) History(ctx context.Context, limit, offset int) ([]domain.DefeatRecord, error) {
	f.calls++
	return f.defeats, f.err
}

func (f *fakeDefeatProvider) Detail(ctx context.Context, defeatID int64) (*domain.DefeatRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.defeat == nil {
		return nil, service.ErrNotFound
	}
	return f.defeat, nil
}

func newTestServer(t *testing.T, b *fakeBossProvider, rk *fakeRankingProvider, d *fakeDefeatProvider) (*Server, *http.ServeMux) {
	t.Helper()
	if b == nil {
		b = &fakeBossProvider{}
	}
	if rk == nil {
		rk = &fakeRankingProvider{}
	}
	if d == nil {
		d = &fakeDefeatProvider{}
	}
	srv, err := New(b, rk, d, zerolog.Nop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return srv, srv.Routes()
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthDoesNotTouchDatabase(t *testing.T) {
	dbErr := errors.New("database unreachable")
	b := &fakeBossProvider{err: dbErr}
	rk := &fakeRankingProvider{err: dbErr}
	d := &fakeDefeatProvider{err: dbErr}
	_, mux := newTestServer(t, b, rk, d)

	rec := get(mux, "/health")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want it to contain %q", rec.Body.String(), `"status":"ok"`)
	}
	if b.calls+rk.calls+d.calls != 0 {
		t.Error("health check touched a data provider")
	}
}

func TestAPIBosses(t *testing.T) {
	spawned := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	b := &fakeBossProvider{bosses: []domain.Boss{
		{BossKey: "dragon_01", BossName: "Dragon", CurrentHP: 700, MaxHP: 2000, SpawnedAt: spawned},
	}}
	_, mux := newTestServer(t, b, nil, nil)

	rec := get(mux, "/api/bosses")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 1 || out[0]["boss_key"] != "dragon_01" {
		t.Errorf("body = %v, want one dragon_01 entry", out)
	}
}

func TestAPIBossesEmptyIsArray(t *testing.T) {
	_, mux := newTestServer(t, nil, nil, nil)

	rec := get(mux, "/api/bosses")

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty json array", got)
	}
}

func TestAPIParticipantsUnknownBoss(t *testing.T) {
	_, mux := newTestServer(t, &fakeBossProvider{detail: nil}, nil, nil)

	rec := get(mux, "/api/boss/no_such_boss/participants")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"not_found"`) {
		t.Errorf("body = %q, want a not_found error object", rec.Body.String())
	}
}

func TestAPIParticipantsOrderingPreserved(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	detail := &service.BossDetail{
		Boss: domain.Boss{BossKey: "dragon_01", BossName: "Dragon"},
		Participants: []domain.Participant{
			{UserID: 1, UserName: "A", TotalDamage: 500, ActionCount: 5, AverageDamage: 100, FirstAttackAt: t0},
			{UserID: 2, UserName: "B", TotalDamage: 500, ActionCount: 3, AverageDamage: 500.0 / 3.0, FirstAttackAt: t0.Add(time.Minute)},
		},
	}
	_, mux := newTestServer(t, &fakeBossProvider{detail: detail}, nil, nil)

	rec := get(mux, "/api/boss/dragon_01/participants")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []participantJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 2 || out[0].UserID != 1 || out[1].UserID != 2 {
		t.Fatalf("order = %+v, want A before B", out)
	}
	if out[0].AverageDamage != 100 {
		t.Errorf("average for A = %v, want 100", out[0].AverageDamage)
	}
}

func TestAPIDatabaseFailureIsGeneric(t *testing.T) {
	internal := errors.New("pq: SSLSYSCALL error on 10.0.3.7:5432")
	_, mux := newTestServer(t, &fakeBossProvider{err: internal}, nil, nil)

	rec := get(mux, "/api/bosses")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "10.0.3.7") || strings.Contains(body, "SSLSYSCALL") {
		t.Errorf("body leaks internal error detail: %q", body)
	}
	if !strings.Contains(body, `"error":"unavailable"`) {
		t.Errorf("body = %q, want a stable unavailable error object", body)
	}
}

func TestAPIAttackHolder(t *testing.T) {
	holder := &domain.Participant{UserID: 9, UserName: "C", TotalDamage: 1200, ActionCount: 6, AverageDamage: 200}
	_, mux := newTestServer(t, &fakeBossProvider{holder: holder}, nil, nil)

	rec := get(mux, "/api/boss/dragon_01/attack-holder")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out participantJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.UserID != 9 || out.AverageDamage != 200 {
		t.Errorf("holder = %+v, want user 9 with average 200", out)
	}
}

func TestHTMLIndex(t *testing.T) {
	b := &fakeBossProvider{bosses: []domain.Boss{
		{BossKey: "dragon_01", BossName: "Dragon", CurrentHP: 1500000, MaxHP: 2000000, SpawnedAt: time.Now()},
	}}
	_, mux := newTestServer(t, b, nil, nil)

	rec := get(mux, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Dragon") {
		t.Errorf("body missing boss name")
	}
	if !strings.Contains(body, "1,500,000") {
		t.Errorf("body = %q, want comma-grouped hp", body)
	}
}

func TestHTMLBossNotFound(t *testing.T) {
	_, mux := newTestServer(t, &fakeBossProvider{detail: nil}, nil, nil)

	rec := get(mux, "/boss/no_such_boss")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHTMLUserInvalidID(t *testing.T) {
	rk := &fakeRankingProvider{}
	_, mux := newTestServer(t, nil, rk, nil)

	rec := get(mux, "/user/notanumber")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rk.calls != 0 {
		t.Error("invalid user id reached the ranking provider")
	}
}

func TestHTMLDatabaseFailureRendersFriendlyPage(t *testing.T) {
	internal := errors.New("connection refused 10.0.3.7:5432")
	_, mux := newTestServer(t, &fakeBossProvider{err: internal}, nil, nil)

	rec := get(mux, "/")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "10.0.3.7") {
		t.Errorf("body leaks internal error detail: %q", body)
	}
	if !strings.Contains(body, "temporarily unavailable") {
		t.Errorf("body = %q, want the friendly unavailable message", body)
	}
}

func TestHTMLRankings(t *testing.T) {
	rk := &fakeRankingProvider{entries: []domain.RankingEntry{
		{Rank: 1, UserID: 10, UserName: "Top", TotalDamage: 123456},
	}}
	_, mux := newTestServer(t, nil, rk, nil)

	rec := get(mux, "/rankings")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "123,456") {
		t.Errorf("body missing formatted damage total")
	}
}
