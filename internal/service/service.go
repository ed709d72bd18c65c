package service

import (
	"stock-scanner/config"
	"stock-scanner/internal/repository"
	"stock-scanner/pkg/cache"
	"stock-scanner/pkg/logger"
)

type Service struct {
	BacktestService BacktestService
	ScannerService  ScannerService
	SignalService   SignalService
	UniverseService UniverseService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	backtestService := NewBacktestService(cfg, log)
	universeService := NewUniverseService(cfg, log, repo.NasdaqRepo, repo.MarketCapRepo, inmemoryCache)
	scannerService := NewScannerService(cfg, log, repo.YahooFinanceRepo, backtestService, universeService)
	signalService := NewSignalService(cfg, log, repo.YahooFinanceRepo)

	return &Service{
		BacktestService: backtestService,
		ScannerService:  scannerService,
		SignalService:   signalService,
		UniverseService: universeService,
	}
}
