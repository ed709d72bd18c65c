package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"stock-scanner/config"
	"stock-scanner/pkg/httpclient"
	"stock-scanner/pkg/logger"
)

// NasdaqRepository lists the symbols traded on Nasdaq.
type NasdaqRepository interface {
	GetListedSymbols(ctx context.Context) ([]string, error)
}

type nasdaqRepository struct {
	httpClient httpclient.HTTPClient
	logger     *logger.Logger
}

func NewNasdaqRepository(cfg *config.Config, log *logger.Logger) NasdaqRepository {
	return &nasdaqRepository{
		httpClient: httpclient.New(cfg.Nasdaq.BaseURL, cfg.Nasdaq.Timeout),
		logger:     log,
	}
}

// GetListedSymbols downloads the Nasdaq symbol directory and returns the
// non-ETF symbols. The directory is a pipe-delimited text file:
// Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
func (r *nasdaqRepository) GetListedSymbols(ctx context.Context) ([]string, error) {
	resp, err := r.httpClient.Get(ctx, "/nasdaqlisted.txt", nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nasdaq symbol directory: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nasdaq symbol directory returned status: %d", resp.StatusCode)
	}

	lines := strings.Split(strings.TrimSpace(string(resp.Body)), "\n")
	var symbols []string

	// First line is the header, last line is the file creation timestamp.
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "File Creation Time") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 8 {
			continue
		}

		symbol := strings.TrimSpace(parts[0])
		etfFlag := strings.TrimSpace(parts[6])
		if symbol == "" || etfFlag != "N" {
			continue
		}
		symbols = append(symbols, symbol)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("nasdaq symbol directory contained no symbols")
	}

	r.logger.InfoContext(ctx, "Fetched nasdaq symbol directory", logger.IntField("symbols", len(symbols)))
	return symbols, nil
}
