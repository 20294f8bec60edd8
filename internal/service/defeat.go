package service

import (
	"context"

	"raid-viewer/internal/constants"
	"raid-viewer/internal/domain"

	"github.com/rs/zerolog"
)

type DefeatReader interface {
	History(ctx context.Context, limit, offset int) ([]domain.DefeatRecord, error)
	Get(ctx context.Context, defeatID int64) (*domain.DefeatRecord, error)
}

type DefeatService struct {
	repo   DefeatReader
	logger zerolog.Logger
}

func NewDefeatService(repo DefeatReader, logger zerolog.Logger) *DefeatService {
	return &DefeatService{repo: repo, logger: logger}
}

func (s *DefeatService) History(ctx context.Context, limit, offset int) ([]domain.DefeatRecord, error) {
	if limit <= 0 || limit > constants.MaxDefeatsLimit {
		limit = constants.DefaultDefeatsLimit
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	defeats, err := s.repo.History(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load defeat history")
		return nil, err
	}
	return defeats, nil
}

func (s *DefeatService) Detail(ctx context.Context, defeatID int64) (*domain.DefeatRecord, error) {
	if defeatID <= 0 {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	defeat, err := s.repo.Get(ctx, defeatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("defeat_id", defeatID).Msg("failed to load defeat record")
		return nil, err
	}
	if defeat == nil {
		return nil, ErrNotFound
	}
	return defeat, nil
}
