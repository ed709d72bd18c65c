package common

const (
	KEY_UNIVERSE          = "universe:categorized"
	KEY_PRICE_HISTORY     = "price_history:%s:%s:%s"
	KEY_MARKET_CAP_SYMBOL = "market_cap:%s"
)
