package service

import (
	"context"

	"raid-viewer/internal/constants"
	"raid-viewer/internal/domain"

	"github.com/rs/zerolog"
)

type RankingReader interface {
	AllTime(ctx context.Context) ([]domain.RankingEntry, error)
	UserStats(ctx context.Context, userID int64) (*domain.UserStats, error)
}

type RankingService struct {
	repo   RankingReader
	logger zerolog.Logger
}

func NewRankingService(repo RankingReader, logger zerolog.Logger) *RankingService {
	return &RankingService{repo: repo, logger: logger}
}

func (s *RankingService) AllTime(ctx context.Context) ([]domain.RankingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	entries, err := s.repo.AllTime(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load rankings")
		return nil, err
	}
	return entries, nil
}

func (s *RankingService) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	stats, err := s.repo.UserStats(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user stats")
		return nil, err
	}
	if stats == nil {
		return nil, ErrNotFound
	}
	return stats, nil
}
