package service

import (
	"context"
	"fmt"
	"testing"

	"stock-scanner/internal/dto"
	"stock-scanner/pkg/logger"
	"stock-scanner/pkg/utils"

	"github.com/stretchr/testify/assert"
)

type fakeYahooRepo struct {
	data map[string]*dto.StockData
}

func (f *fakeYahooRepo) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if data, ok := f.data[param.Symbol]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no data for %s", param.Symbol)
}

func flatStockData(n int) *dto.StockData {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	candles := makeCandles(closes)
	return &dto.StockData{
		MarketPrice: candles[n-1].Close,
		OHLCV:       candles,
	}
}

func newTestScanner(repo *fakeYahooRepo) ScannerService {
	cfg := testConfig()
	log := logger.NewNop()
	return NewScannerService(cfg, log, repo, NewBacktestService(cfg, log), nil)
}

func TestScannerValidateRequest_Defaults(t *testing.T) {
	svc := newTestScanner(&fakeYahooRepo{})

	req := &dto.MarketScanRequest{}
	err := svc.ValidateRequest(req)
	assert.NoError(t, err)

	assert.Equal(t, dto.IndicatorMACD, req.BuyIndicator)
	assert.Equal(t, dto.IndicatorMACD, req.SellIndicator)
	assert.Equal(t, "6mo", req.Period)
	assert.Equal(t, "1d", req.Interval)
	assert.Equal(t, 10, req.TopN)
	assert.Equal(t, 3, *req.MinTrades)
	assert.Equal(t, []dto.SortRule{{Field: dto.FieldReturnPercentage, Order: dto.SortOrderDesc}}, req.Sort)
}

func TestScannerValidateRequest_Rejections(t *testing.T) {
	svc := newTestScanner(&fakeYahooRepo{})

	tests := []struct {
		name string
		req  dto.MarketScanRequest
	}{
		{
			name: "unknown buy indicator",
			req:  dto.MarketScanRequest{BuyIndicator: "rsi"},
		},
		{
			name: "unknown sell indicator",
			req:  dto.MarketScanRequest{SellIndicator: "bollinger"},
		},
		{
			name: "unknown exclude field",
			req: dto.MarketScanRequest{
				Exclude: []dto.ExcludeRule{{Field: "sharpe_ratio", Operator: "<", Value: 1}},
			},
		},
		{
			name: "unknown exclude operator",
			req: dto.MarketScanRequest{
				Exclude: []dto.ExcludeRule{{Field: dto.FieldSuccessRate, Operator: "~", Value: 1}},
			},
		},
		{
			name: "unknown sort field",
			req: dto.MarketScanRequest{
				Sort: []dto.SortRule{{Field: "alpha", Order: dto.SortOrderAsc}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, svc.ValidateRequest(&tt.req))
		})
	}
}

func TestScan_SkippedAccounting(t *testing.T) {
	repo := &fakeYahooRepo{data: map[string]*dto.StockData{
		"GOOD1": flatStockData(60),
		"GOOD2": flatStockData(60),
	}}
	svc := newTestScanner(repo)

	resp, err := svc.Scan(context.Background(), dto.MarketScanRequest{
		StockList: []string{"good1", "good2", "bad"},
		MinTrades: utils.ToPointer(0),
		TopN:      5,
	})
	assert.NoError(t, err)

	assert.Equal(t, 3, resp.Summary.TotalStocksScanned)
	assert.Equal(t, 2, resp.Summary.SuccessfulScans)
	assert.Equal(t, 1, resp.Summary.SkippedScans)
	assert.Equal(t, []string{"BAD"}, resp.Summary.SkippedStocks)
	assert.Equal(t, 2, resp.Summary.StocksAfterFilters)
	assert.Len(t, resp.TopResults, 2)
}

func TestScan_MinTradesFilter(t *testing.T) {
	repo := &fakeYahooRepo{data: map[string]*dto.StockData{
		"GOOD1": flatStockData(60),
	}}
	svc := newTestScanner(repo)

	// Flat prices never trigger a trade, so the default threshold drops the stock.
	resp, err := svc.Scan(context.Background(), dto.MarketScanRequest{
		StockList: []string{"good1"},
	})
	assert.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.SuccessfulScans)
	assert.Equal(t, 0, resp.Summary.StocksAfterFilters)
	assert.Empty(t, resp.TopResults)
}

func TestFilterByMinTrades(t *testing.T) {
	results := []dto.StockScanResult{
		{Symbol: "A", Stats: dto.PerformanceStats{TotalTrades: 5}},
		{Symbol: "B", Stats: dto.PerformanceStats{TotalTrades: 2}},
		{Symbol: "C", Stats: dto.PerformanceStats{TotalTrades: 3}},
	}

	filtered := filterByMinTrades(results, 3)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "A", filtered[0].Symbol)
	assert.Equal(t, "C", filtered[1].Symbol)
}

func TestApplyExcludeRules(t *testing.T) {
	results := func() []dto.StockScanResult {
		return []dto.StockScanResult{
			{Symbol: "A", Stats: dto.PerformanceStats{ReturnPercentage: 5, SuccessRate: 0.9}},
			{Symbol: "B", Stats: dto.PerformanceStats{ReturnPercentage: 10, SuccessRate: 0.5}},
			{Symbol: "C", Stats: dto.PerformanceStats{ReturnPercentage: 25, SuccessRate: 0.2}},
		}
	}

	// Strict less-than keeps the stock sitting exactly on the boundary.
	filtered := applyExcludeRules(results(), []dto.ExcludeRule{
		{Field: dto.FieldReturnPercentage, Operator: "<", Value: 10},
	})
	assert.Len(t, filtered, 2)
	assert.Equal(t, "B", filtered[0].Symbol)
	assert.Equal(t, "C", filtered[1].Symbol)

	// A stock matching ANY rule is removed.
	filtered = applyExcludeRules(results(), []dto.ExcludeRule{
		{Field: dto.FieldReturnPercentage, Operator: "<", Value: 10},
		{Field: dto.FieldSuccessRate, Operator: "<=", Value: 0.2},
	})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].Symbol)
}

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		operator string
		field    float64
		value    float64
		want     bool
	}{
		{"<", 1, 2, true},
		{"<", 2, 2, false},
		{">", 3, 2, true},
		{">", 2, 2, false},
		{"<=", 2, 2, true},
		{">=", 2, 2, true},
		{"==", 2, 2, true},
		{"==", 2, 3, false},
		{"!=", 2, 3, true},
		{"!=", 2, 2, false},
		{"~", 2, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.operator, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluateCondition(tt.field, tt.operator, tt.value))
		})
	}
}

func TestSortResults_MultiLevelStable(t *testing.T) {
	results := []dto.StockScanResult{
		{Symbol: "A", Stats: dto.PerformanceStats{ReturnPercentage: 10, SuccessRate: 0.5}},
		{Symbol: "B", Stats: dto.PerformanceStats{ReturnPercentage: 20, SuccessRate: 0.5}},
		{Symbol: "C", Stats: dto.PerformanceStats{ReturnPercentage: 10, SuccessRate: 0.9}},
		{Symbol: "D", Stats: dto.PerformanceStats{ReturnPercentage: 10, SuccessRate: 0.5}},
	}

	sortResults(results, []dto.SortRule{
		{Field: dto.FieldReturnPercentage, Order: dto.SortOrderDesc},
		{Field: dto.FieldSuccessRate, Order: dto.SortOrderDesc},
	})

	symbols := make([]string, 0, len(results))
	for _, r := range results {
		symbols = append(symbols, r.Symbol)
	}

	// B leads on return, C wins the tie on success rate, A keeps its
	// original place ahead of D on the exact tie.
	assert.Equal(t, []string{"B", "C", "A", "D"}, symbols)
}

func TestCriteriaOptions(t *testing.T) {
	svc := newTestScanner(&fakeYahooRepo{})

	opts := svc.CriteriaOptions()
	assert.Equal(t, dto.ValidIndicators(), opts.Indicators)
	assert.Equal(t, dto.ValidPeriods(), opts.Periods)
	assert.Equal(t, dto.SortableFields(), opts.SortableFields)
	assert.Equal(t, dto.ExcludeOperators(), opts.ExcludeOperators)
}
