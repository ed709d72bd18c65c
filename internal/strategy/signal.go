package strategy

import (
	"fmt"
	"strings"

	"stock-scanner/internal/dto"
)

// RuleConfig carries the tunable thresholds for signal rules.
type RuleConfig struct {
	KDJOversold   float64
	KDJOverbought float64
}

// Rule classifies a single day of an indicator series as a buy or sell
// opportunity. Implementations must return false whenever a referenced value
// is not defined yet.
type Rule interface {
	Name() string
	Buy(ind *IndicatorSet, t int) bool
	Sell(ind *IndicatorSet, t int) bool
	BuyReason(ind *IndicatorSet, t int) string
	SellReason(ind *IndicatorSet, t int) string
}

// NewRule returns the rule for an indicator kind.
func NewRule(indicator string, cfg RuleConfig) (Rule, error) {
	switch indicator {
	case dto.IndicatorMACD:
		return macdRule{}, nil
	case dto.IndicatorKDJ:
		return kdjRule{oversold: cfg.KDJOversold, overbought: cfg.KDJOverbought}, nil
	default:
		return nil, fmt.Errorf("unknown indicator: %s", indicator)
	}
}

// macdRule buys on the histogram golden cross and sells on peak detection:
// the day the histogram stops rising while still positive, one period before
// a zero-crossing rule would fire.
type macdRule struct{}

func (macdRule) Name() string { return dto.IndicatorMACD }

func (macdRule) Buy(ind *IndicatorSet, t int) bool {
	if t < 1 {
		return false
	}
	yesterday, today := ind.Histogram[t-1], ind.Histogram[t]
	if !Defined(yesterday, today) {
		return false
	}
	return yesterday <= 0 && today > 0
}

func (macdRule) Sell(ind *IndicatorSet, t int) bool {
	if t < 2 {
		return false
	}
	dayBefore, yesterday, today := ind.Histogram[t-2], ind.Histogram[t-1], ind.Histogram[t]
	if !Defined(dayBefore, yesterday, today) {
		return false
	}
	wasRising := dayBefore < yesterday
	nowDeclining := yesterday > today
	inPositiveTerritory := yesterday > 0
	return wasRising && nowDeclining && inPositiveTerritory
}

func (macdRule) BuyReason(ind *IndicatorSet, t int) string {
	return fmt.Sprintf("MACD golden cross: histogram crossed above zero (yesterday: %.4f, today: %.4f)",
		ind.Histogram[t-1], ind.Histogram[t])
}

func (macdRule) SellReason(ind *IndicatorSet, t int) string {
	return fmt.Sprintf("MACD peak sell: histogram declined from peak above zero (day before: %.4f, yesterday: %.4f, today: %.4f)",
		ind.Histogram[t-2], ind.Histogram[t-1], ind.Histogram[t])
}

// kdjRule buys when K crosses above D inside the oversold band and sells when
// K crosses below D inside the overbought band.
type kdjRule struct {
	oversold   float64
	overbought float64
}

func (kdjRule) Name() string { return dto.IndicatorKDJ }

func (r kdjRule) Buy(ind *IndicatorSet, t int) bool {
	if t < 1 {
		return false
	}
	if !Defined(ind.K[t-1], ind.D[t-1], ind.K[t], ind.D[t]) {
		return false
	}
	crossedUp := ind.K[t-1] <= ind.D[t-1] && ind.K[t] > ind.D[t]
	return crossedUp && ind.K[t] < r.oversold && ind.D[t] < r.oversold
}

func (r kdjRule) Sell(ind *IndicatorSet, t int) bool {
	if t < 1 {
		return false
	}
	if !Defined(ind.K[t-1], ind.D[t-1], ind.K[t], ind.D[t]) {
		return false
	}
	crossedDown := ind.K[t-1] >= ind.D[t-1] && ind.K[t] < ind.D[t]
	return crossedDown && ind.K[t] > r.overbought && ind.D[t] > r.overbought
}

func (r kdjRule) BuyReason(ind *IndicatorSet, t int) string {
	return fmt.Sprintf("KDJ oversold cross: K crossed above D below %.0f (K=%.2f, D=%.2f)",
		r.oversold, ind.K[t], ind.D[t])
}

func (r kdjRule) SellReason(ind *IndicatorSet, t int) string {
	return fmt.Sprintf("KDJ overbought cross: K crossed below D above %.0f (K=%.2f, D=%.2f)",
		r.overbought, ind.K[t], ind.D[t])
}

// Classifier maps a day of an indicator set to BUY, SELL or HOLD. The buy and
// sell sides may watch different indicators.
type Classifier struct {
	buyRule  Rule
	sellRule Rule
}

func NewClassifier(buyIndicator, sellIndicator string, cfg RuleConfig) (*Classifier, error) {
	buyRule, err := NewRule(buyIndicator, cfg)
	if err != nil {
		return nil, err
	}
	sellRule, err := NewRule(sellIndicator, cfg)
	if err != nil {
		return nil, err
	}
	return &Classifier{buyRule: buyRule, sellRule: sellRule}, nil
}

func (c *Classifier) ShouldBuy(ind *IndicatorSet, t int) bool {
	return c.buyRule.Buy(ind, t)
}

func (c *Classifier) ShouldSell(ind *IndicatorSet, t int) bool {
	return c.sellRule.Sell(ind, t)
}

// Classify resolves the day to a single signal. Conflicting buy and sell
// conditions cancel out to HOLD.
func (c *Classifier) Classify(ind *IndicatorSet, t int) string {
	isBuy := c.ShouldBuy(ind, t)
	isSell := c.ShouldSell(ind, t)

	switch {
	case isBuy && isSell:
		return dto.SignalHold
	case isBuy:
		return dto.SignalBuy
	case isSell:
		return dto.SignalSell
	default:
		return dto.SignalHold
	}
}

// Reasoning explains the signal Classify produced for day t.
func (c *Classifier) Reasoning(ind *IndicatorSet, t int, signal string) string {
	switch signal {
	case dto.SignalBuy:
		return c.buyRule.BuyReason(ind, t)
	case dto.SignalSell:
		return c.sellRule.SellReason(ind, t)
	}

	if c.ShouldBuy(ind, t) && c.ShouldSell(ind, t) {
		return "Conflicting signals from buy and sell indicators"
	}
	return "No crossover detected. " + strings.Join(c.holdDetails(ind, t), ", ")
}

func (c *Classifier) holdDetails(ind *IndicatorSet, t int) []string {
	var parts []string
	if c.buyRule.Name() == dto.IndicatorMACD || c.sellRule.Name() == dto.IndicatorMACD {
		if t >= 1 && Defined(ind.Histogram[t-1], ind.Histogram[t]) {
			parts = append(parts, fmt.Sprintf("MACD histogram: yesterday=%.4f, today=%.4f", ind.Histogram[t-1], ind.Histogram[t]))
		} else {
			parts = append(parts, "MACD histogram not available yet")
		}
	}
	if c.buyRule.Name() == dto.IndicatorKDJ || c.sellRule.Name() == dto.IndicatorKDJ {
		if Defined(ind.K[t], ind.D[t]) {
			parts = append(parts, fmt.Sprintf("KDJ: K=%.2f, D=%.2f", ind.K[t], ind.D[t]))
		} else {
			parts = append(parts, "KDJ not available yet")
		}
	}
	return parts
}
