package service

import (
	"context"

	"raid-viewer/internal/constants"
	"raid-viewer/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// BossReader is the query surface BossService needs from the
// repository layer.
type BossReader interface {
	ListActive(ctx context.Context) ([]domain.Boss, error)
	Get(ctx context.Context, bossKey string) (*domain.Boss, error)
	Participants(ctx context.Context, bossKey string) ([]domain.Participant, error)
	AttackHolder(ctx context.Context, bossKey string) (*domain.Participant, error)
}

type BossService struct {
	repo   BossReader
	logger zerolog.Logger
}

func NewBossService(repo BossReader, logger zerolog.Logger) *BossService {
	return &BossService{repo: repo, logger: logger}
}

// BossDetail is everything the boss page shows: the boss row plus its
// participant damage ranking.
type BossDetail struct {
	Boss         domain.Boss
	Participants []domain.Participant
}

func (s *BossService) ListActive(ctx context.Context) ([]domain.Boss, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	bosses, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active bosses")
		return nil, err
	}
	return bosses, nil
}

func (s *BossService) Detail(ctx context.Context, bossKey string) (*BossDetail, error) {
	if err := validateBossKey(bossKey); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var (
		boss         *domain.Boss
		participants []domain.Participant
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.repo.Get(gctx, bossKey)
		boss = b
		return err
	})
	g.Go(func() error {
		p, err := s.repo.Participants(gctx, bossKey)
		participants = p
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("boss_key", bossKey).Msg("failed to load boss detail")
		return nil, err
	}

	if boss == nil {
		return nil, ErrNotFound
	}

	for i := range participants {
		participants[i].AverageDamage = averageDamage(participants[i].TotalDamage, participants[i].ActionCount)
	}

	return &BossDetail{Boss: *boss, Participants: participants}, nil
}

func (s *BossService) AttackHolder(ctx context.Context, bossKey string) (*domain.Participant, error) {
	if err := validateBossKey(bossKey); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	holder, err := s.repo.AttackHolder(ctx, bossKey)
	if err != nil {
		s.logger.Error().Err(err).Str("boss_key", bossKey).Msg("failed to load attack holder")
		return nil, err
	}
	if holder == nil {
		return nil, ErrNotFound
	}

	holder.AverageDamage = averageDamage(holder.TotalDamage, holder.ActionCount)
	return holder, nil
}

func averageDamage(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
