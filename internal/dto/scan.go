package dto

import "time"

// ExcludeRule removes a stock from scan results when its comparison holds.
// Example: {field: return_percentage, operator: "<", value: 10} drops every
// stock returning less than 10%.
type ExcludeRule struct {
	Field    string  `json:"field" validate:"required"`
	Operator string  `json:"operator" validate:"required,oneof=< > <= >= == !="`
	Value    float64 `json:"value"`
}

// SortRule orders scan results. The first rule is the primary sort, each
// following rule breaks ties left by the previous one.
type SortRule struct {
	Field string `json:"field" validate:"required"`
	Order string `json:"order" validate:"omitempty,oneof=asc desc"`
}

type MarketScanRequest struct {
	BuyIndicator  string        `json:"buy_indicator" validate:"omitempty,oneof=macd kdj"`
	SellIndicator string        `json:"sell_indicator" validate:"omitempty,oneof=macd kdj"`
	Period        string        `json:"period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y"`
	Interval      string        `json:"interval" validate:"omitempty,oneof=1d 1wk"`
	MinTrades     *int          `json:"min_trades" validate:"omitempty,gte=0"`
	StockList     []string      `json:"stock_list" validate:"omitempty,dive,required"`
	MarketCap     []string      `json:"market_cap" validate:"omitempty,dive,oneof=mega large mid small micro all"`
	TopN          int           `json:"top_n" validate:"omitempty,gte=1,lte=1000"`
	Exclude       []ExcludeRule `json:"exclude" validate:"omitempty,dive"`
	Sort          []SortRule    `json:"sort" validate:"omitempty,dive"`
}

type Trade struct {
	EntryDate        time.Time `json:"entry_date"`
	EntryPrice       float64   `json:"entry_price"`
	ExitDate         time.Time `json:"exit_date"`
	ExitPrice        float64   `json:"exit_price"`
	ProfitPercentage float64   `json:"profit_percentage"`
}

type PerformanceStats struct {
	ReturnPercentage     float64 `json:"return_percentage"`
	SuccessRate          float64 `json:"success_rate"`
	TotalTrades          int     `json:"total_trades"`
	AvgDaysBetweenTrades float64 `json:"avg_days_between_trades"`
	FinalBalance         float64 `json:"final_balance"`
	TotalReturn          float64 `json:"total_return"`
	AvgProfit            float64 `json:"avg_profit"`
	AvgLoss              float64 `json:"avg_loss"`
	MaxProfit            float64 `json:"max_profit"`
	MaxLoss              float64 `json:"max_loss"`
}

// FieldValue resolves a stats field by its wire name, for exclude and sort rules.
func (s PerformanceStats) FieldValue(field string) (float64, bool) {
	switch field {
	case FieldReturnPercentage:
		return s.ReturnPercentage, true
	case FieldSuccessRate:
		return s.SuccessRate, true
	case FieldTotalTrades:
		return float64(s.TotalTrades), true
	case FieldAvgDaysBetweenTrades:
		return s.AvgDaysBetweenTrades, true
	case FieldFinalBalance:
		return s.FinalBalance, true
	case FieldTotalReturn:
		return s.TotalReturn, true
	case FieldAvgProfit:
		return s.AvgProfit, true
	case FieldAvgLoss:
		return s.AvgLoss, true
	case FieldMaxProfit:
		return s.MaxProfit, true
	case FieldMaxLoss:
		return s.MaxLoss, true
	default:
		return 0, false
	}
}

type BacktestResult struct {
	Symbol       string           `json:"symbol"`
	Trades       []Trade          `json:"trades"`
	FinalBalance float64          `json:"final_balance"`
	Stats        PerformanceStats `json:"stats"`
}

type StockScanResult struct {
	Symbol string           `json:"symbol"`
	Stats  PerformanceStats `json:"stats"`
}

type ScanCriteria struct {
	BuyIndicator  string `json:"buy_indicator"`
	SellIndicator string `json:"sell_indicator"`
	Period        string `json:"period"`
	Interval      string `json:"interval"`
	MinTrades     int    `json:"min_trades"`
}

type ScanSummary struct {
	TotalStocksScanned int          `json:"total_stocks_scanned"`
	SuccessfulScans    int          `json:"successful_scans"`
	SkippedScans       int          `json:"skipped_scans"`
	SkippedStocks      []string     `json:"skipped_stocks,omitempty"`
	StocksAfterFilters int          `json:"stocks_after_filters"`
	Criteria           ScanCriteria `json:"scan_criteria"`
}

type MarketScanResponse struct {
	Summary    ScanSummary       `json:"scan_summary"`
	TopStocks  []string          `json:"top_stocks"`
	TopResults []StockScanResult `json:"top_results"`
}

type ScanCriteriaOptions struct {
	Indicators       []string `json:"indicators"`
	Periods          []string `json:"periods"`
	Intervals        []string `json:"intervals"`
	MarketCapOptions []string `json:"market_cap_options"`
	SortableFields   []string `json:"sortable_fields"`
	ExcludeOperators []string `json:"exclude_operators"`
}
