package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	API          API          `mapstructure:"api"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	Nasdaq       Nasdaq       `mapstructure:"nasdaq"`
	Scanner      Scanner      `mapstructure:"scanner"`
	Strategy     Strategy     `mapstructure:"strategy"`
	Cache        Cache        `mapstructure:"cache"`
	Universe     Universe     `mapstructure:"universe"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port            int     `mapstructure:"port"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	QuoteBaseURL        string        `mapstructure:"quote_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Nasdaq struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Scanner struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	StockTimeout    time.Duration `mapstructure:"stock_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	DefaultTopN     int           `mapstructure:"default_top_n"`
	DefaultMinTrade int           `mapstructure:"default_min_trades"`
}

type Strategy struct {
	KDJOversold    float64 `mapstructure:"kdj_oversold"`
	KDJOverbought  float64 `mapstructure:"kdj_overbought"`
	InitialBalance float64 `mapstructure:"initial_balance"`
	MinHistory     int     `mapstructure:"min_history"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	PriceExpiration   time.Duration `mapstructure:"price_expiration"`
}

type Universe struct {
	RefreshCron         string        `mapstructure:"refresh_cron"`
	ClassifyConcurrency int           `mapstructure:"classify_concurrency"`
	ClassifyPerMinute   int           `mapstructure:"classify_per_minute"`
	Expiration          time.Duration `mapstructure:"expiration"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8001)
	viper.SetDefault("api.rate_limit_per_sec", 10)
	viper.SetDefault("api.rate_limit_burst", 30)
	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.quote_base_url", "https://query1.finance.yahoo.com/v10/finance/quoteSummary")
	viper.SetDefault("yahoo_finance.timeout", 10*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 120)
	viper.SetDefault("nasdaq.base_url", "https://www.nasdaqtrader.com/dynamic/SymDir")
	viper.SetDefault("nasdaq.timeout", 30*time.Second)
	viper.SetDefault("scanner.max_concurrency", 10)
	viper.SetDefault("scanner.stock_timeout", 30*time.Second)
	viper.SetDefault("scanner.request_timeout", 5*time.Minute)
	viper.SetDefault("scanner.default_top_n", 10)
	viper.SetDefault("scanner.default_min_trades", 3)
	viper.SetDefault("strategy.kdj_oversold", 20)
	viper.SetDefault("strategy.kdj_overbought", 80)
	viper.SetDefault("strategy.initial_balance", 1.0)
	viper.SetDefault("strategy.min_history", 50)
	viper.SetDefault("cache.default_expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 15*time.Minute)
	viper.SetDefault("cache.price_expiration", 5*time.Minute)
	viper.SetDefault("universe.refresh_cron", "0 5 * * *")
	viper.SetDefault("universe.classify_concurrency", 10)
	viper.SetDefault("universe.classify_per_minute", 120)
	viper.SetDefault("universe.expiration", 24*time.Hour)
}
