package dto

const (
	IndicatorMACD = "macd"
	IndicatorKDJ  = "kdj"
)

const (
	SignalBuy   = "BUY"
	SignalSell  = "SELL"
	SignalHold  = "HOLD"
	SignalError = "ERROR"
)

const (
	MarketCapMega  = "mega"
	MarketCapLarge = "large"
	MarketCapMid   = "mid"
	MarketCapSmall = "small"
	MarketCapMicro = "micro"
	MarketCapAll   = "all"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

const (
	FieldReturnPercentage     = "return_percentage"
	FieldSuccessRate          = "success_rate"
	FieldTotalTrades          = "total_trades"
	FieldAvgDaysBetweenTrades = "avg_days_between_trades"
	FieldFinalBalance         = "final_balance"
	FieldTotalReturn          = "total_return"
	FieldAvgProfit            = "avg_profit"
	FieldAvgLoss              = "avg_loss"
	FieldMaxProfit            = "max_profit"
	FieldMaxLoss              = "max_loss"
)

func ValidIndicators() []string {
	return []string{IndicatorMACD, IndicatorKDJ}
}

func ValidPeriods() []string {
	return []string{"1mo", "3mo", "6mo", "1y", "2y"}
}

func ValidIntervals() []string {
	return []string{"1d", "1wk"}
}

func ValidMarketCaps() []string {
	return []string{
		MarketCapMega,
		MarketCapLarge,
		MarketCapMid,
		MarketCapSmall,
		MarketCapMicro,
		MarketCapAll,
	}
}

func SortableFields() []string {
	return []string{
		FieldReturnPercentage,
		FieldSuccessRate,
		FieldTotalTrades,
		FieldAvgDaysBetweenTrades,
		FieldFinalBalance,
		FieldTotalReturn,
		FieldAvgProfit,
		FieldAvgLoss,
		FieldMaxProfit,
		FieldMaxLoss,
	}
}

func ExcludeOperators() []string {
	return []string{"<", ">", "<=", ">=", "==", "!="}
}
