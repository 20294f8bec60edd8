package fx

import (
	"raid-viewer/internal/config"
	"raid-viewer/internal/database"
	"raid-viewer/internal/logger"
	"raid-viewer/internal/repository"
	"raid-viewer/internal/server"
	"raid-viewer/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func provideBossService(repo *repository.BossRepository, logger zerolog.Logger) *service.BossService {
	return service.NewBossService(repo, logger)
}

func provideRankingService(repo *repository.RankingRepository, logger zerolog.Logger) *service.RankingService {
	return service.NewRankingService(repo, logger)
}

func provideDefeatService(repo *repository.DefeatRepository, logger zerolog.Logger) *service.DefeatService {
	return service.NewDefeatService(repo, logger)
}

func provideServer(bosses *service.BossService, rankings *service.RankingService, defeats *service.DefeatService, logger zerolog.Logger) (*server.Server, error) {
	return server.New(bosses, rankings, defeats, logger)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.NewManager),
	// repos
	fx.Provide(repository.NewBossRepository),
	fx.Provide(repository.NewRankingRepository),
	fx.Provide(repository.NewDefeatRepository),
	// svc
	fx.Provide(provideBossService),
	fx.Provide(provideRankingService),
	fx.Provide(provideDefeatService),
	// server
	fx.Provide(provideServer),
)
