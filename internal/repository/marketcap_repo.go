package repository

import (
	"context"
	"fmt"
	"net/http"

	"stock-scanner/config"
	"stock-scanner/internal/dto"
	"stock-scanner/pkg/cache"
	"stock-scanner/pkg/common"
	"stock-scanner/pkg/httpclient"
	"stock-scanner/pkg/logger"
	"stock-scanner/pkg/ratelimit"
)

// Market cap category thresholds in USD.
const (
	megaCapFloor  = 200e9
	largeCapFloor = 10e9
	midCapFloor   = 2e9
	smallCapFloor = 300e6
)

// MarketCapRepository resolves a symbol's market capitalization category.
type MarketCapRepository interface {
	Get(ctx context.Context, symbol string) (*dto.StockMarketCap, error)
}

type marketCapRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
	cache      cache.Cache
	limiter    *ratelimit.TokenLimiter
}

func NewMarketCapRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) MarketCapRepository {
	return &marketCapRepository{
		httpClient: httpclient.New(cfg.YahooFinance.QuoteBaseURL, cfg.YahooFinance.Timeout),
		cfg:        cfg,
		logger:     log,
		cache:      inmemoryCache,
		limiter:    ratelimit.NewTokenLimiter(cfg.Universe.ClassifyPerMinute),
	}
}

func (r *marketCapRepository) Get(ctx context.Context, symbol string) (*dto.StockMarketCap, error) {
	cacheKey := fmt.Sprintf(common.KEY_MARKET_CAP_SYMBOL, symbol)
	if cached, found := cache.GetTyped[*dto.StockMarketCap](r.cache, cacheKey); found {
		return cached, nil
	}

	if err := r.limiter.Wait(ctx, 1); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"modules": "price",
	}
	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	}

	var quoteResp dto.YahooQuoteSummaryResponse
	resp, err := r.httpClient.Get(ctx, "/"+symbol, queryParams, headers, &quoteResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote summary for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote summary for %s returned status: %d", symbol, resp.StatusCode)
	}
	if quoteResp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary api error for %s: %v", symbol, quoteResp.QuoteSummary.Error)
	}
	if len(quoteResp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary returned for symbol: %s", symbol)
	}

	marketCap := quoteResp.QuoteSummary.Result[0].Price.MarketCap.Raw
	if marketCap <= 0 {
		return nil, fmt.Errorf("no market cap available for symbol: %s", symbol)
	}

	info := &dto.StockMarketCap{
		Symbol:    symbol,
		MarketCap: marketCap,
		Category:  CategorizeMarketCap(marketCap),
	}

	r.cache.Set(cacheKey, info, r.cfg.Universe.Expiration)
	return info, nil
}

// CategorizeMarketCap maps a USD market cap to its category name.
func CategorizeMarketCap(marketCap float64) string {
	switch {
	case marketCap >= megaCapFloor:
		return dto.MarketCapMega
	case marketCap >= largeCapFloor:
		return dto.MarketCapLarge
	case marketCap >= midCapFloor:
		return dto.MarketCapMid
	case marketCap >= smallCapFloor:
		return dto.MarketCapSmall
	default:
		return dto.MarketCapMicro
	}
}
