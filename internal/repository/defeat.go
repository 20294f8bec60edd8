package repository

import (
	"context"
	"errors"

	"raid-viewer/internal/config"
	"raid-viewer/internal/database"
	"raid-viewer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type DefeatRepository struct {
	mgr     *database.Manager
	guildID int64
	logger  zerolog.Logger
}

func NewDefeatRepository(mgr *database.Manager, cfg *config.Config, logger zerolog.Logger) *DefeatRepository {
	return &DefeatRepository{mgr: mgr, guildID: cfg.GuildID, logger: logger}
}

const defeatHistorySQL = `
	SELECT id, boss_key, boss_name, defeated_at, total_damage, duration_seconds, participant_count
	FROM raid_defeats
	WHERE guild_id = $1
	ORDER BY defeated_at DESC
	LIMIT $2 OFFSET $3`

func (r *DefeatRepository) History(ctx context.Context, limit, offset int) ([]domain.DefeatRecord, error) {
	var defeats []domain.DefeatRecord
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, defeatHistorySQL, r.guildID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		defeats = defeats[:0]
		for rows.Next() {
			var d domain.DefeatRecord
			if err := rows.Scan(&d.ID, &d.BossKey, &d.BossName, &d.DefeatedAt, &d.TotalDamage, &d.DurationSeconds, &d.ParticipantCount); err != nil {
				return err
			}
			defeats = append(defeats, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return defeats, nil
}

const getDefeatSQL = `
	SELECT id, boss_key, boss_name, defeated_at, total_damage, duration_seconds, participant_count
	FROM raid_defeats
	WHERE guild_id = $1 AND id = $2`

// Get returns nil without error when no defeat record matches.
func (r *DefeatRepository) Get(ctx context.Context, defeatID int64) (*domain.DefeatRecord, error) {
	var defeat *domain.DefeatRecord
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		var d domain.DefeatRecord
		err := q.QueryRow(ctx, getDefeatSQL, r.guildID, defeatID).
			Scan(&d.ID, &d.BossKey, &d.BossName, &d.DefeatedAt, &d.TotalDamage, &d.DurationSeconds, &d.ParticipantCount)
		if errors.Is(err, pgx.ErrNoRows) {
			defeat = nil
			return nil
		}
		if err != nil {
			return err
		}
		defeat = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defeat, nil
}
