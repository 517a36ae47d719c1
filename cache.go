package core

import (
	"strings"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"

	"github.com/sdelo/nerid-margin-dashboard-sub000/utils"
)

type (
	scenarioCacheKey struct {
		fingerprint        string
		shockPct           string
		shockAssetSelector string
	}

	scenarioCacheEntry struct {
		summary   *ScenarioSummary
		createdAt int64
	}

	// ScenarioCache memoizes batch summaries by (positions, shockPct,
	// selector). The engine is deterministic, so entries never go stale;
	// a refreshed position set simply produces a new fingerprint.
	// Single-threaded like the rest of the engine.
	ScenarioCache struct {
		engine  *StressEngine
		clk     clock.Clock
		entries map[scenarioCacheKey]scenarioCacheEntry
	}
)

func NewScenarioCache(clk clock.Clock, engine *StressEngine) *ScenarioCache {
	return &ScenarioCache{
		engine:  engine,
		clk:     clk,
		entries: make(map[scenarioCacheKey]scenarioCacheEntry),
	}
}

// SummaryFor returns the memoized summary for the scenario, computing it on
// a miss.
func (c *ScenarioCache) SummaryFor(positions []*PositionSnapshot, shockPct decimal.Decimal, shockAssetSelector string) (*ScenarioSummary, error) {
	key := scenarioCacheKey{
		fingerprint:        fingerprintPositions(positions),
		shockPct:           shockPct.String(),
		shockAssetSelector: shockAssetSelector,
	}
	if entry, ok := c.entries[key]; ok {
		return entry.summary, nil
	}

	summary, err := c.engine.SimulateBatch(positions, shockPct, shockAssetSelector)
	if err != nil {
		return nil, err
	}
	c.entries[key] = scenarioCacheEntry{
		summary:   summary,
		createdAt: c.clk.Now().Unix(),
	}
	return summary, nil
}

func (c *ScenarioCache) Invalidate() {
	c.entries = make(map[scenarioCacheKey]scenarioCacheEntry)
}

func (c *ScenarioCache) Len() int {
	return len(c.entries)
}

// fingerprintPositions digests every field the simulation depends on, so a
// provider refresh that changes any leg value yields a fresh key even when
// the position ids are unchanged.
func fingerprintPositions(positions []*PositionSnapshot) string {
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		parts = append(parts, strings.Join([]string{
			p.PositionId.String(),
			p.BaseAssetSymbol,
			p.QuoteAssetSymbol,
			p.BaseAssetUsd.String(),
			p.QuoteAssetUsd.String(),
			p.BaseDebtUsd.String(),
			p.QuoteDebtUsd.String(),
			p.LiquidationThreshold.String(),
		}, "|"))
	}
	return utils.DigestUuid(parts...)
}
