package service

import (
	"context"
	"fmt"
	"sync"

	"stock-scanner/config"
	"stock-scanner/internal/dto"
	"stock-scanner/internal/repository"
	"stock-scanner/pkg/cache"
	"stock-scanner/pkg/common"
	"stock-scanner/pkg/logger"
	"stock-scanner/pkg/utils"

	"github.com/robfig/cron/v3"
)

// UniverseService maintains the categorized stock universe: every listed
// symbol grouped by market-cap category.
type UniverseService interface {
	GetByCategories(ctx context.Context, categories []string) ([]string, error)
	Refresh(ctx context.Context) error
	StartScheduler(ctx context.Context) error
	StopScheduler()
}

type universeService struct {
	cfg           *config.Config
	log           *logger.Logger
	nasdaqRepo    repository.NasdaqRepository
	marketCapRepo repository.MarketCapRepository
	cache         cache.Cache
	cron          *cron.Cron
	refreshMu     sync.Mutex
}

func NewUniverseService(
	cfg *config.Config,
	log *logger.Logger,
	nasdaqRepo repository.NasdaqRepository,
	marketCapRepo repository.MarketCapRepository,
	inmemoryCache cache.Cache,
) UniverseService {
	return &universeService{
		cfg:           cfg,
		log:           log,
		nasdaqRepo:    nasdaqRepo,
		marketCapRepo: marketCapRepo,
		cache:         inmemoryCache,
		cron:          cron.New(),
	}
}

// GetByCategories returns the deduplicated symbols of the requested
// categories. "all" expands to every category; "large" also includes mega
// caps, since callers asking for large caps expect the biggest names too.
func (s *universeService) GetByCategories(ctx context.Context, categories []string) ([]string, error) {
	universe, err := s.categorized(ctx)
	if err != nil {
		return nil, err
	}

	var symbols []string
	seen := make(map[string]bool)

	appendCategory := func(category string) {
		for _, symbol := range universe[category] {
			if !seen[symbol] {
				seen[symbol] = true
				symbols = append(symbols, symbol)
			}
		}
	}

	for _, category := range categories {
		switch category {
		case dto.MarketCapAll:
			for _, c := range []string{dto.MarketCapMega, dto.MarketCapLarge, dto.MarketCapMid, dto.MarketCapSmall, dto.MarketCapMicro} {
				appendCategory(c)
			}
		case dto.MarketCapLarge:
			appendCategory(dto.MarketCapMega)
			appendCategory(dto.MarketCapLarge)
		default:
			appendCategory(category)
		}
	}

	return symbols, nil
}

// Refresh rebuilds the categorized universe from the Nasdaq symbol directory.
// Symbols whose market cap cannot be resolved are left uncategorized.
func (s *universeService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	symbols, err := s.nasdaqRepo.GetListedSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to list symbols: %w", err)
	}

	s.log.InfoContext(ctx, "Refreshing stock universe", logger.IntField("symbols", len(symbols)))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failed    int
		universe  = make(map[string][]string)
		semaphore = make(chan struct{}, s.cfg.Universe.ClassifyConcurrency)
	)

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		symbol := symbol
		utils.GoSafe(func() {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			info, err := s.marketCapRepo.Get(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			universe[info.Category] = append(universe[info.Category], info.Symbol)
		})
	}

	wg.Wait()

	if len(universe) == 0 {
		return fmt.Errorf("universe refresh classified no symbols")
	}

	s.cache.Set(common.KEY_UNIVERSE, universe, s.cfg.Universe.Expiration)

	s.log.InfoContext(ctx, "Stock universe refreshed",
		logger.IntField("total", len(symbols)),
		logger.IntField("failed", failed),
	)
	return nil
}

// StartScheduler refreshes the universe periodically in the background.
func (s *universeService) StartScheduler(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Universe.RefreshCron, func() {
		if err := s.Refresh(ctx); err != nil {
			s.log.Error("Scheduled universe refresh failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule universe refresh: %w", err)
	}

	s.cron.Start()
	s.log.Info("Universe refresh scheduler started", logger.StringField("cron", s.cfg.Universe.RefreshCron))
	return nil
}

func (s *universeService) StopScheduler() {
	s.cron.Stop()
}

func (s *universeService) categorized(ctx context.Context) (map[string][]string, error) {
	if universe, found := cache.GetTyped[map[string][]string](s.cache, common.KEY_UNIVERSE); found {
		return universe, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	universe, found := cache.GetTyped[map[string][]string](s.cache, common.KEY_UNIVERSE)
	if !found {
		return nil, fmt.Errorf("stock universe unavailable")
	}
	return universe, nil
}
