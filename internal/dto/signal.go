package dto

type TradingSignalsRequest struct {
	Stocks        []string `json:"stocks" validate:"required,min=1,max=100,dive,required"`
	BuyIndicator  string   `json:"buy_indicator" validate:"omitempty,oneof=macd kdj"`
	SellIndicator string   `json:"sell_indicator" validate:"omitempty,oneof=macd kdj"`
	Period        string   `json:"period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y"`
}

// IndicatorSnapshot carries the indicator values the classifier looked at on
// the latest day. Nil means the value was not defined yet.
type IndicatorSnapshot struct {
	MACDHistogramToday     *float64 `json:"macd_histogram_today,omitempty"`
	MACDHistogramYesterday *float64 `json:"macd_histogram_yesterday,omitempty"`
	MACDHistogramDayBefore *float64 `json:"macd_histogram_day_before,omitempty"`
	KDJK                   *float64 `json:"kdj_k,omitempty"`
	KDJD                   *float64 `json:"kdj_d,omitempty"`
}

type StockSignal struct {
	Symbol       string            `json:"symbol"`
	Signal       string            `json:"signal"`
	CurrentPrice float64           `json:"current_price,omitempty"`
	Indicators   IndicatorSnapshot `json:"indicators"`
	Reasoning    string            `json:"reasoning"`
	LastUpdated  string            `json:"last_updated,omitempty"`
	Error        string            `json:"error,omitempty"`
}

type SignalsSummary struct {
	TotalStocks    int `json:"total_stocks"`
	BuySignals     int `json:"buy_signals"`
	SellSignals    int `json:"sell_signals"`
	HoldSignals    int `json:"hold_signals"`
	FailedAnalyses int `json:"failed_analyses"`
}

type TradingSignalsResponse struct {
	Timestamp     string         `json:"timestamp"`
	BuyIndicator  string         `json:"buy_indicator"`
	SellIndicator string         `json:"sell_indicator"`
	Period        string         `json:"period"`
	Signals       []StockSignal  `json:"signals"`
	Summary       SignalsSummary `json:"summary"`
}
