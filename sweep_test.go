package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepCoversConfiguredRange(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Sweep(nil, ShockAllAssets)
	require.NoError(t, err)

	// [-50, +20] stepped by 2, inclusive
	require.Len(t, result.Points, 36)
	assert.True(t, result.Points[0].PriceChangePct.Equal(decimal.NewFromInt(-50)))
	assert.True(t, result.Points[35].PriceChangePct.Equal(decimal.NewFromInt(20)))
	assert.Nil(t, result.Cliff)
}

func TestSweepSplitsByDirection(t *testing.T) {
	engine := newTestEngine(t)

	// liquidates when 200(1+p)/100 <= 1.5, i.e. p <= -25
	long := mustPosition(t, 200, 0, 0, 100, 1.5)
	require.Equal(t, DirectionLong, ClassifyDirection(long).Direction)

	// liquidates when 200/(100(1+p)) <= 1.7, i.e. p >= ~17.6
	short := mustPosition(t, 0, 200, 100, 0, 1.7)
	require.Equal(t, DirectionShort, ClassifyDirection(short).Direction)

	result, err := engine.Sweep([]*PositionSnapshot{long, short}, ShockAllAssets)
	require.NoError(t, err)

	byPct := make(map[string]SweepPoint, len(result.Points))
	for _, point := range result.Points {
		byPct[point.PriceChangePct.String()] = point
	}

	deep := byPct["-50"]
	assert.Equal(t, 1, deep.LiquidatableCount)
	assert.Equal(t, 1, deep.LongLiquidatableCount)
	assert.Equal(t, 0, deep.ShortLiquidatableCount)
	// the long position's debt is all quote, untouched by the shock
	assert.True(t, deep.LongDebtAtRiskUsd.Equal(decimal.NewFromInt(100)), "got %s", deep.LongDebtAtRiskUsd)
	assert.True(t, deep.ShortDebtAtRiskUsd.IsZero())

	top := byPct["20"]
	assert.Equal(t, 1, top.LiquidatableCount)
	assert.Equal(t, 0, top.LongLiquidatableCount)
	assert.Equal(t, 1, top.ShortLiquidatableCount)
	// the short position's base debt is scaled up by the shock
	assert.True(t, top.ShortDebtAtRiskUsd.Equal(decimal.NewFromInt(120)), "got %s", top.ShortDebtAtRiskUsd)

	mid := byPct["0"]
	assert.Equal(t, 0, mid.LiquidatableCount)
	assert.True(t, mid.DebtAtRiskUsd.IsZero())
}

func TestFindCliff(t *testing.T) {
	engine := newTestEngine(t)

	toPoints := func(debts ...int64) []SweepPoint {
		points := make([]SweepPoint, len(debts))
		for i, d := range debts {
			points[i] = SweepPoint{
				PriceChangePct: decimal.NewFromInt(int64(-50 + 2*i)),
				DebtAtRiskUsd:  decimal.NewFromInt(d),
			}
		}
		return points
	}

	t.Run("largest qualifying jump wins", func(t *testing.T) {
		cliff := engine.findCliff(toPoints(50, 55, 60, 150, 160))
		require.NotNil(t, cliff)
		// 60 -> 150: multiplier 2.5 >= 2 and 150 > 100
		assert.True(t, cliff.DebtAtRiskUsd.Equal(decimal.NewFromInt(150)), "got %s", cliff.DebtAtRiskUsd)
	})

	t.Run("small absolute jumps rejected", func(t *testing.T) {
		// 10 -> 20 doubles but never clears the absolute floor
		assert.Nil(t, engine.findCliff(toPoints(10, 20, 45, 90, 95)))
	})

	t.Run("smooth growth has no cliff", func(t *testing.T) {
		assert.Nil(t, engine.findCliff(toPoints(100, 150, 210, 280, 360)))
	})

	t.Run("zero start uses floor denominator", func(t *testing.T) {
		cliff := engine.findCliff(toPoints(0, 0, 500, 510))
		require.NotNil(t, cliff)
		assert.True(t, cliff.DebtAtRiskUsd.Equal(decimal.NewFromInt(500)))
	})
}

func TestSweepDetectsCliffOnConcentratedPortfolio(t *testing.T) {
	engine := newTestEngine(t)

	// five identical short positions all tipping over at the same shock
	// level on the upside: 200/(100(1+p)) <= 1.7 from p = +18 onward
	positions := make([]*PositionSnapshot, 0, 5)
	for i := 0; i < 5; i++ {
		positions = append(positions, mustPosition(t, 0, 200, 100, 0, 1.7))
	}

	result, err := engine.Sweep(positions, ShockAllAssets)
	require.NoError(t, err)

	require.NotNil(t, result.Cliff)
	assert.True(t, result.Cliff.PriceChangePct.Equal(decimal.NewFromInt(18)), "got %s", result.Cliff.PriceChangePct)
	// each base debt leg is scaled to 118
	assert.True(t, result.Cliff.DebtAtRiskUsd.Equal(decimal.NewFromInt(590)), "got %s", result.Cliff.DebtAtRiskUsd)
}

func TestIsInRange(t *testing.T) {
	engine := newTestEngine(t)

	// first liquidates exactly at -20: (100*0.8 + 100)/100 = 1.8
	p := mustPosition(t, 100, 100, 0, 100, 1.8)

	tests := []struct {
		name     string
		min, max int64
		want     bool
	}{
		{name: "range covering the trigger", min: -30, max: -10, want: true},
		{name: "range above the trigger", min: -8, max: 0, want: false},
		{name: "trigger on the boundary", min: -20, max: -20, want: true},
		{name: "upside range", min: 0, max: 20, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.IsInRange(p, RangeSelection{
				Min: decimal.NewFromInt(tt.min),
				Max: decimal.NewFromInt(tt.max),
			}, ShockAllAssets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsInRangeRejectsInvertedRange(t *testing.T) {
	engine := newTestEngine(t)
	p := mustPosition(t, 150, 0, 100, 0, 1.1)

	_, err := engine.IsInRange(p, RangeSelection{
		Min: decimal.NewFromInt(10),
		Max: decimal.NewFromInt(-10),
	}, ShockAllAssets)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
