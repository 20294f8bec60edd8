package repository

import (
	"context"
	"errors"

	"raid-viewer/internal/config"
	"raid-viewer/internal/constants"
	"raid-viewer/internal/database"
	"raid-viewer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type RankingRepository struct {
	mgr     *database.Manager
	guildID int64
	logger  zerolog.Logger
}

func NewRankingRepository(mgr *database.Manager, cfg *config.Config, logger zerolog.Logger) *RankingRepository {
	return &RankingRepository{mgr: mgr, guildID: cfg.GuildID, logger: logger}
}

const allTimeRankingsSQL = `
	SELECT
		user_id,
		MAX(user_name) AS user_name,
		SUM(total_damage) AS total_damage,
		SUM(action_count) AS total_actions,
		COUNT(DISTINCT boss_key) AS bosses_participated
	FROM raid_participants
	WHERE guild_id = $1
	GROUP BY user_id
	ORDER BY total_damage DESC, user_id ASC
	LIMIT $2`

// AllTime aggregates damage across every encounter, top entries first.
// Ties break on user id so repeated reads are deterministic.
func (r *RankingRepository) AllTime(ctx context.Context) ([]domain.RankingEntry, error) {
	var entries []domain.RankingEntry
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, allTimeRankingsSQL, r.guildID, constants.RankingLimit)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var e domain.RankingEntry
			if err := rows.Scan(&e.UserID, &e.UserName, &e.TotalDamage, &e.TotalActions, &e.BossesParticipated); err != nil {
				return err
			}
			e.Rank = len(entries) + 1
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

const userStatsSQL = `
	SELECT
		COUNT(DISTINCT boss_key) AS bosses_participated,
		COALESCE(SUM(total_damage), 0) AS total_damage,
		COALESCE(SUM(action_count), 0) AS total_actions,
		COALESCE(MAX(total_damage), 0) AS max_single_boss_damage
	FROM raid_participants
	WHERE guild_id = $1 AND user_id = $2`

// UserStats returns nil without error when the user has never
// participated in an encounter.
func (r *RankingRepository) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	var stats *domain.UserStats
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		s := domain.UserStats{UserID: userID}
		err := q.QueryRow(ctx, userStatsSQL, r.guildID, userID).
			Scan(&s.BossesParticipated, &s.TotalDamage, &s.TotalActions, &s.MaxSingleBossDamage)
		if errors.Is(err, pgx.ErrNoRows) {
			stats = nil
			return nil
		}
		if err != nil {
			return err
		}
		if s.BossesParticipated == 0 {
			stats = nil
			return nil
		}
		stats = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
