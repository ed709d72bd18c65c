package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-scanner/config"
	"stock-scanner/internal/dto"
	"stock-scanner/internal/repository"
	"stock-scanner/internal/strategy"
	"stock-scanner/pkg/logger"
	"stock-scanner/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// SignalService evaluates the current trading signal for a list of stocks
// without running the full backtest.
type SignalService interface {
	ValidateRequest(req *dto.TradingSignalsRequest) error
	CurrentSignals(ctx context.Context, req dto.TradingSignalsRequest) (*dto.TradingSignalsResponse, error)
}

type signalService struct {
	cfg       *config.Config
	log       *logger.Logger
	yahooRepo repository.YahooFinanceRepository
}

func NewSignalService(cfg *config.Config, log *logger.Logger, yahooRepo repository.YahooFinanceRepository) SignalService {
	return &signalService{
		cfg:       cfg,
		log:       log,
		yahooRepo: yahooRepo,
	}
}

func (s *signalService) ValidateRequest(req *dto.TradingSignalsRequest) error {
	if req.BuyIndicator == "" {
		req.BuyIndicator = dto.IndicatorMACD
	}
	if req.SellIndicator == "" {
		req.SellIndicator = dto.IndicatorMACD
	}
	if req.Period == "" {
		req.Period = "3mo"
	}

	req.BuyIndicator = strings.ToLower(req.BuyIndicator)
	req.SellIndicator = strings.ToLower(req.SellIndicator)

	if !utils.ContainsString(dto.ValidIndicators(), req.BuyIndicator) {
		return fmt.Errorf("invalid buy indicator: %s", req.BuyIndicator)
	}
	if !utils.ContainsString(dto.ValidIndicators(), req.SellIndicator) {
		return fmt.Errorf("invalid sell indicator: %s", req.SellIndicator)
	}

	for i := range req.Stocks {
		req.Stocks[i] = strings.ToUpper(req.Stocks[i])
	}
	return nil
}

func (s *signalService) CurrentSignals(ctx context.Context, req dto.TradingSignalsRequest) (*dto.TradingSignalsResponse, error) {
	if err := s.ValidateRequest(&req); err != nil {
		return nil, err
	}

	ruleCfg := strategy.RuleConfig{
		KDJOversold:   s.cfg.Strategy.KDJOversold,
		KDJOverbought: s.cfg.Strategy.KDJOverbought,
	}
	classifier, err := strategy.NewClassifier(req.BuyIndicator, req.SellIndicator, ruleCfg)
	if err != nil {
		return nil, err
	}

	signals := make([]dto.StockSignal, len(req.Stocks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scanner.MaxConcurrency)

	for i, symbol := range req.Stocks {
		i, symbol := i, symbol
		g.Go(func() error {
			signal, err := s.evaluateStock(gCtx, symbol, req.Period, classifier)
			if err != nil {
				s.log.WarnContext(gCtx, "Failed to evaluate stock signal",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
				signals[i] = dto.StockSignal{
					Symbol:    symbol,
					Signal:    dto.SignalError,
					Error:     err.Error(),
					Reasoning: fmt.Sprintf("Failed to analyze %s: %v", symbol, err),
				}
				return nil
			}
			signals[i] = *signal
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := dto.SignalsSummary{TotalStocks: len(req.Stocks)}
	for _, sig := range signals {
		switch sig.Signal {
		case dto.SignalBuy:
			summary.BuySignals++
		case dto.SignalSell:
			summary.SellSignals++
		case dto.SignalHold:
			summary.HoldSignals++
		default:
			summary.FailedAnalyses++
		}
	}

	return &dto.TradingSignalsResponse{
		Timestamp:     utils.TimeNowET().Format(time.RFC3339),
		BuyIndicator:  req.BuyIndicator,
		SellIndicator: req.SellIndicator,
		Period:        req.Period,
		Signals:       signals,
		Summary:       summary,
	}, nil
}

// evaluateStock classifies the latest available day only.
func (s *signalService) evaluateStock(ctx context.Context, symbol, period string, classifier *strategy.Classifier) (*dto.StockSignal, error) {
	stockCtx, cancel := context.WithTimeout(ctx, s.cfg.Scanner.StockTimeout)
	defer cancel()

	data, err := s.yahooRepo.Get(stockCtx, dto.GetStockDataParam{
		Symbol:   symbol,
		Range:    period,
		Interval: "1d",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}

	candles := data.OHLCV
	if len(candles) < 3 {
		return nil, fmt.Errorf("insufficient history for %s: got %d candles", symbol, len(candles))
	}

	ind := strategy.Compute(candles)
	last := len(candles) - 1

	signal := classifier.Classify(ind, last)
	reasoning := classifier.Reasoning(ind, last, signal)

	return &dto.StockSignal{
		Symbol:       symbol,
		Signal:       signal,
		CurrentPrice: candles[last].Close,
		Indicators:   indicatorSnapshot(ind, last),
		Reasoning:    reasoning,
		LastUpdated:  candles[last].Date().Format("2006-01-02"),
	}, nil
}

// indicatorSnapshot extracts the values the classifier looked at on day t,
// leaving out anything still inside the warmup window.
func indicatorSnapshot(ind *strategy.IndicatorSet, t int) dto.IndicatorSnapshot {
	snap := dto.IndicatorSnapshot{}

	setIfDefined := func(dst **float64, v float64) {
		if strategy.Defined(v) {
			*dst = utils.ToPointer(v)
		}
	}

	setIfDefined(&snap.MACDHistogramToday, ind.Histogram[t])
	if t >= 1 {
		setIfDefined(&snap.MACDHistogramYesterday, ind.Histogram[t-1])
	}
	if t >= 2 {
		setIfDefined(&snap.MACDHistogramDayBefore, ind.Histogram[t-2])
	}
	setIfDefined(&snap.KDJK, ind.K[t])
	setIfDefined(&snap.KDJD, ind.D[t])
	return snap
}
