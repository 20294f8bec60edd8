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

type BossRepository struct {
	mgr     *database.Manager
	guildID int64
	logger  zerolog.Logger
}

func NewBossRepository(mgr *database.Manager, cfg *config.Config, logger zerolog.Logger) *BossRepository {
	return &BossRepository{mgr: mgr, guildID: cfg.GuildID, logger: logger}
}

const listActiveBossesSQL = `
	SELECT boss_key, boss_name, current_hp, max_hp, defeated, spawned_at, defeated_at
	FROM raid_boss_state
	WHERE guild_id = $1 AND NOT defeated
	ORDER BY spawned_at DESC`

func (r *BossRepository) ListActive(ctx context.Context) ([]domain.Boss, error) {
	var bosses []domain.Boss
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, listActiveBossesSQL, r.guildID)
		if err != nil {
			return err
		}
		defer rows.Close()

		bosses = bosses[:0]
		for rows.Next() {
			var b domain.Boss
			if err := rows.Scan(&b.BossKey, &b.BossName, &b.CurrentHP, &b.MaxHP, &b.Defeated, &b.SpawnedAt, &b.DefeatedAt); err != nil {
				return err
			}
			bosses = append(bosses, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return bosses, nil
}

const getBossSQL = `
	SELECT boss_key, boss_name, current_hp, max_hp, defeated, spawned_at, defeated_at
	FROM raid_boss_state
	WHERE guild_id = $1 AND boss_key = $2`

// Get returns nil without error when the boss does not exist.
func (r *BossRepository) Get(ctx context.Context, bossKey string) (*domain.Boss, error) {
	var boss *domain.Boss
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		var b domain.Boss
		err := q.QueryRow(ctx, getBossSQL, r.guildID, bossKey).
			Scan(&b.BossKey, &b.BossName, &b.CurrentHP, &b.MaxHP, &b.Defeated, &b.SpawnedAt, &b.DefeatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			boss = nil
			return nil
		}
		if err != nil {
			return err
		}
		boss = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return boss, nil
}

const listParticipantsSQL = `
	SELECT user_id, user_name, action_count, total_damage, first_attack_at, last_attack_at
	FROM raid_participants
	WHERE guild_id = $1 AND boss_key = $2
	ORDER BY total_damage DESC, first_attack_at ASC`

// Participants returns every contributor to a boss encounter, highest
// damage first; ties go to whoever attacked first.
func (r *BossRepository) Participants(ctx context.Context, bossKey string) ([]domain.Participant, error) {
	var participants []domain.Participant
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, listParticipantsSQL, r.guildID, bossKey)
		if err != nil {
			return err
		}
		defer rows.Close()

		participants = participants[:0]
		for rows.Next() {
			var p domain.Participant
			if err := rows.Scan(&p.UserID, &p.UserName, &p.ActionCount, &p.TotalDamage, &p.FirstAttackAt, &p.LastAttackAt); err != nil {
				return err
			}
			participants = append(participants, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

const attackHolderSQL = `
	SELECT user_id, user_name, action_count, total_damage, first_attack_at, last_attack_at
	FROM raid_participants
	WHERE guild_id = $1 AND boss_key = $2
	ORDER BY total_damage DESC, first_attack_at ASC
	LIMIT 1`

// AttackHolder returns the current damage leader for a boss, or nil
// when the boss has no participants. Always computed fresh.
func (r *BossRepository) AttackHolder(ctx context.Context, bossKey string) (*domain.Participant, error) {
	var holder *domain.Participant
	err := r.mgr.ExecuteWithRetry(ctx, func(ctx context.Context, q database.Querier) error {
		var p domain.Participant
		err := q.QueryRow(ctx, attackHolderSQL, r.guildID, bossKey).
			Scan(&p.UserID, &p.UserName, &p.ActionCount, &p.TotalDamage, &p.FirstAttackAt, &p.LastAttackAt)
		if errors.Is(err, pgx.ErrNoRows) {
			holder = nil
			return nil
		}
		if err != nil {
			return err
		}
		holder = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holder, nil
}
