package repository

import (
	"stock-scanner/config"
	"stock-scanner/pkg/cache"
	"stock-scanner/pkg/logger"
)

type Repository struct {
	YahooFinanceRepo YahooFinanceRepository
	NasdaqRepo       NasdaqRepository
	MarketCapRepo    MarketCapRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	return &Repository{
		YahooFinanceRepo: NewYahooFinanceRepository(cfg, log, inmemoryCache),
		NasdaqRepo:       NewNasdaqRepository(cfg, log),
		MarketCapRepo:    NewMarketCapRepository(cfg, log, inmemoryCache),
	}
}
