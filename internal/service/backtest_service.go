package service

import (
	"context"
	"fmt"

	"stock-scanner/config"
	"stock-scanner/internal/dto"
	"stock-scanner/internal/strategy"
	"stock-scanner/pkg/logger"
)

// BacktestService replays a signal-driven strategy over historical candles.
type BacktestService interface {
	Run(ctx context.Context, symbol string, candles []dto.StockOHLCV, classifier *strategy.Classifier) (*dto.BacktestResult, error)
}

type backtestService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewBacktestService(cfg *config.Config, log *logger.Logger) BacktestService {
	return &backtestService{cfg: cfg, log: log}
}

// Run simulates a long-only single-position strategy: a BUY signal while flat
// opens a position at that day's close, a SELL signal while long closes it at
// that day's close. SELL while flat and BUY while long are ignored. A position
// still open at the end of the history is left out of the trade list and
// marked to market against the last close in the final balance.
func (s *backtestService) Run(ctx context.Context, symbol string, candles []dto.StockOHLCV, classifier *strategy.Classifier) (*dto.BacktestResult, error) {
	if len(candles) < s.cfg.Strategy.MinHistory {
		return nil, fmt.Errorf("insufficient history for %s: got %d candles, need %d", symbol, len(candles), s.cfg.Strategy.MinHistory)
	}

	ind := strategy.Compute(candles)

	var (
		trades     []dto.Trade
		inPosition bool
		entryIndex int
	)

	for t := range candles {
		if !inPosition && classifier.ShouldBuy(ind, t) {
			inPosition = true
			entryIndex = t
			continue
		}

		if inPosition && classifier.ShouldSell(ind, t) {
			entry := candles[entryIndex]
			exit := candles[t]
			trades = append(trades, dto.Trade{
				EntryDate:        entry.Date(),
				EntryPrice:       entry.Close,
				ExitDate:         exit.Date(),
				ExitPrice:        exit.Close,
				ProfitPercentage: (exit.Close - entry.Close) / entry.Close,
			})
			inPosition = false
		}
	}

	// Unrealized return of a position still open on the last day.
	openReturn := 0.0
	if inPosition {
		entryPrice := candles[entryIndex].Close
		lastClose := candles[len(candles)-1].Close
		openReturn = (lastClose - entryPrice) / entryPrice
	}

	stats := calculatePerformance(trades, s.cfg.Strategy.InitialBalance, openReturn)

	s.log.DebugContext(ctx, "Backtest completed",
		logger.StringField("symbol", symbol),
		logger.IntField("total_trades", stats.TotalTrades),
		logger.Float64Field("return_percentage", stats.ReturnPercentage),
	)

	return &dto.BacktestResult{
		Symbol:       symbol,
		Trades:       trades,
		FinalBalance: stats.FinalBalance,
		Stats:        stats,
	}, nil
}

// calculatePerformance reduces a trade list into the aggregate statistics.
// openReturn is the unrealized return of a terminal open position, compounded
// into the final balance on top of the realized trades. Every degenerate case
// (no trades, no winners, no losers, a single trade) resolves to zero.
func calculatePerformance(trades []dto.Trade, initialBalance, openReturn float64) dto.PerformanceStats {
	stats := dto.PerformanceStats{
		TotalTrades:  len(trades),
		FinalBalance: initialBalance,
	}

	var (
		profitable int
		profitSum  float64
		lossSum    float64
		lossCount  int
		gapDaysSum float64
		gapCount   int
	)

	for i, trade := range trades {
		stats.FinalBalance *= 1 + trade.ProfitPercentage

		if trade.ProfitPercentage > 0 {
			profitable++
			profitSum += trade.ProfitPercentage
			if trade.ProfitPercentage > stats.MaxProfit {
				stats.MaxProfit = trade.ProfitPercentage
			}
		} else if trade.ProfitPercentage < 0 {
			lossCount++
			lossSum += trade.ProfitPercentage
			if trade.ProfitPercentage < stats.MaxLoss {
				stats.MaxLoss = trade.ProfitPercentage
			}
		}

		if i > 0 {
			gapDaysSum += trades[i].ExitDate.Sub(trades[i-1].ExitDate).Hours() / 24
			gapCount++
		}
	}

	stats.FinalBalance *= 1 + openReturn

	if stats.TotalTrades > 0 {
		stats.SuccessRate = float64(profitable) / float64(stats.TotalTrades)
	}
	if profitable > 0 {
		stats.AvgProfit = profitSum / float64(profitable)
	}
	if lossCount > 0 {
		stats.AvgLoss = lossSum / float64(lossCount)
	}
	if gapCount > 0 {
		stats.AvgDaysBetweenTrades = gapDaysSum / float64(gapCount)
	}

	stats.TotalReturn = stats.FinalBalance - initialBalance
	if initialBalance != 0 {
		stats.ReturnPercentage = stats.TotalReturn / initialBalance * 100
	}

	return stats
}
