package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"stock-scanner/config"
	"stock-scanner/internal/dto"
	"stock-scanner/internal/repository"
	"stock-scanner/internal/strategy"
	"stock-scanner/pkg/logger"
	"stock-scanner/pkg/utils"
)

// ScannerService runs the indicator strategy across a stock universe and
// ranks the results.
type ScannerService interface {
	ValidateRequest(req *dto.MarketScanRequest) error
	Scan(ctx context.Context, req dto.MarketScanRequest) (*dto.MarketScanResponse, error)
	CriteriaOptions() dto.ScanCriteriaOptions
}

type scannerService struct {
	cfg             *config.Config
	log             *logger.Logger
	yahooRepo       repository.YahooFinanceRepository
	backtestService BacktestService
	universeService UniverseService
}

func NewScannerService(
	cfg *config.Config,
	log *logger.Logger,
	yahooRepo repository.YahooFinanceRepository,
	backtestService BacktestService,
	universeService UniverseService,
) ScannerService {
	return &scannerService{
		cfg:             cfg,
		log:             log,
		yahooRepo:       yahooRepo,
		backtestService: backtestService,
		universeService: universeService,
	}
}

// ValidateRequest fills in defaults and rejects unknown indicator kinds,
// exclude fields and sort fields before any stock is fetched.
func (s *scannerService) ValidateRequest(req *dto.MarketScanRequest) error {
	if req.BuyIndicator == "" {
		req.BuyIndicator = dto.IndicatorMACD
	}
	if req.SellIndicator == "" {
		req.SellIndicator = dto.IndicatorMACD
	}
	if req.Period == "" {
		req.Period = "6mo"
	}
	if req.Interval == "" {
		req.Interval = "1d"
	}
	if req.TopN <= 0 {
		req.TopN = s.cfg.Scanner.DefaultTopN
	}
	if req.MinTrades == nil {
		req.MinTrades = utils.ToPointer(s.cfg.Scanner.DefaultMinTrade)
	}
	if len(req.Sort) == 0 {
		req.Sort = []dto.SortRule{{Field: dto.FieldReturnPercentage, Order: dto.SortOrderDesc}}
	}

	req.BuyIndicator = strings.ToLower(req.BuyIndicator)
	req.SellIndicator = strings.ToLower(req.SellIndicator)

	if !utils.ContainsString(dto.ValidIndicators(), req.BuyIndicator) {
		return fmt.Errorf("invalid buy indicator: %s", req.BuyIndicator)
	}
	if !utils.ContainsString(dto.ValidIndicators(), req.SellIndicator) {
		return fmt.Errorf("invalid sell indicator: %s", req.SellIndicator)
	}

	for i := range req.Exclude {
		if !utils.ContainsString(dto.SortableFields(), req.Exclude[i].Field) {
			return fmt.Errorf("invalid exclude field: %s", req.Exclude[i].Field)
		}
		if !utils.ContainsString(dto.ExcludeOperators(), req.Exclude[i].Operator) {
			return fmt.Errorf("invalid exclude operator: %s", req.Exclude[i].Operator)
		}
	}

	for i := range req.Sort {
		if !utils.ContainsString(dto.SortableFields(), req.Sort[i].Field) {
			return fmt.Errorf("invalid sort field: %s", req.Sort[i].Field)
		}
		if req.Sort[i].Order == "" {
			req.Sort[i].Order = dto.SortOrderDesc
		}
	}

	return nil
}

func (s *scannerService) Scan(ctx context.Context, req dto.MarketScanRequest) (*dto.MarketScanResponse, error) {
	if err := s.ValidateRequest(&req); err != nil {
		return nil, err
	}

	stocks, err := s.resolveUniverse(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("no stocks to scan")
	}

	ruleCfg := strategy.RuleConfig{
		KDJOversold:   s.cfg.Strategy.KDJOversold,
		KDJOverbought: s.cfg.Strategy.KDJOverbought,
	}
	classifier, err := strategy.NewClassifier(req.BuyIndicator, req.SellIndicator, ruleCfg)
	if err != nil {
		return nil, err
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.cfg.Scanner.RequestTimeout)
	defer cancel()

	s.log.InfoContext(ctx, "Starting market scan",
		logger.IntField("total_stocks", len(stocks)),
		logger.StringField("buy_indicator", req.BuyIndicator),
		logger.StringField("sell_indicator", req.SellIndicator),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   []dto.StockScanResult
		skipped   []string
		semaphore = make(chan struct{}, s.cfg.Scanner.MaxConcurrency)
	)

	for _, symbol := range stocks {
		if !utils.ShouldContinue(scanCtx, s.log) {
			// Request deadline hit: whatever is pending counts as skipped.
			mu.Lock()
			skipped = append(skipped, symbol)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		symbol := symbol
		utils.GoSafe(func() {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			result, err := s.scanStock(scanCtx, symbol, req, classifier)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WarnContext(scanCtx, "Skipping stock",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
				skipped = append(skipped, symbol)
				return
			}
			results = append(results, *result)
		})
	}

	wg.Wait()

	successful := len(results)

	results = filterByMinTrades(results, *req.MinTrades)
	results = applyExcludeRules(results, req.Exclude)
	sortResults(results, req.Sort)

	afterFilters := len(results)
	if len(results) > req.TopN {
		results = results[:req.TopN]
	}

	topStocks := make([]string, 0, len(results))
	for _, r := range results {
		topStocks = append(topStocks, r.Symbol)
	}

	sort.Strings(skipped)

	return &dto.MarketScanResponse{
		Summary: dto.ScanSummary{
			TotalStocksScanned: len(stocks),
			SuccessfulScans:    successful,
			SkippedScans:       len(skipped),
			SkippedStocks:      skipped,
			StocksAfterFilters: afterFilters,
			Criteria: dto.ScanCriteria{
				BuyIndicator:  req.BuyIndicator,
				SellIndicator: req.SellIndicator,
				Period:        req.Period,
				Interval:      req.Interval,
				MinTrades:     *req.MinTrades,
			},
		},
		TopStocks:  topStocks,
		TopResults: results,
	}, nil
}

func (s *scannerService) CriteriaOptions() dto.ScanCriteriaOptions {
	return dto.ScanCriteriaOptions{
		Indicators:       dto.ValidIndicators(),
		Periods:          dto.ValidPeriods(),
		Intervals:        dto.ValidIntervals(),
		MarketCapOptions: dto.ValidMarketCaps(),
		SortableFields:   dto.SortableFields(),
		ExcludeOperators: dto.ExcludeOperators(),
	}
}

func (s *scannerService) resolveUniverse(ctx context.Context, req dto.MarketScanRequest) ([]string, error) {
	if len(req.StockList) > 0 {
		stocks := make([]string, 0, len(req.StockList))
		for _, symbol := range req.StockList {
			stocks = append(stocks, strings.ToUpper(symbol))
		}
		return stocks, nil
	}

	categories := req.MarketCap
	if len(categories) == 0 {
		categories = []string{dto.MarketCapLarge}
	}
	return s.universeService.GetByCategories(ctx, categories)
}

// scanStock fetches one stock's history and backtests it under a per-stock
// timeout, so a slow provider call cannot stall the whole scan.
func (s *scannerService) scanStock(ctx context.Context, symbol string, req dto.MarketScanRequest, classifier *strategy.Classifier) (*dto.StockScanResult, error) {
	stockCtx, cancel := context.WithTimeout(ctx, s.cfg.Scanner.StockTimeout)
	defer cancel()

	data, err := s.yahooRepo.Get(stockCtx, dto.GetStockDataParam{
		Symbol:   symbol,
		Range:    req.Period,
		Interval: req.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}

	backtest, err := s.backtestService.Run(stockCtx, symbol, data.OHLCV, classifier)
	if err != nil {
		return nil, err
	}

	return &dto.StockScanResult{
		Symbol: symbol,
		Stats:  backtest.Stats,
	}, nil
}

// filterByMinTrades drops stocks whose realized trade count is below the
// threshold. They are excluded from ranked results entirely, not scored low.
func filterByMinTrades(results []dto.StockScanResult, minTrades int) []dto.StockScanResult {
	if minTrades <= 0 {
		return results
	}
	filtered := results[:0]
	for _, r := range results {
		if r.Stats.TotalTrades >= minTrades {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// applyExcludeRules removes a stock when ANY rule's comparison on its field
// holds; surviving stocks matched no rule.
func applyExcludeRules(results []dto.StockScanResult, rules []dto.ExcludeRule) []dto.StockScanResult {
	if len(rules) == 0 {
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		excluded := false
		for _, rule := range rules {
			value, ok := r.Stats.FieldValue(rule.Field)
			if !ok {
				continue
			}
			if evaluateCondition(value, rule.Operator, rule.Value) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func evaluateCondition(fieldValue float64, operator string, value float64) bool {
	switch operator {
	case "<":
		return fieldValue < value
	case ">":
		return fieldValue > value
	case "<=":
		return fieldValue <= value
	case ">=":
		return fieldValue >= value
	case "==":
		return fieldValue == value
	case "!=":
		return fieldValue != value
	default:
		return false
	}
}

// sortResults orders results by the rule list: the first rule is the primary
// key, later rules break ties. The sort is stable so exact ties keep their
// collection order.
func sortResults(results []dto.StockScanResult, rules []dto.SortRule) {
	if len(rules) == 0 {
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		for _, rule := range rules {
			a, okA := results[i].Stats.FieldValue(rule.Field)
			b, okB := results[j].Stats.FieldValue(rule.Field)
			if !okA || !okB || a == b {
				continue
			}
			if rule.Order == dto.SortOrderAsc {
				return a < b
			}
			return a > b
		}
		return false
	})
}
