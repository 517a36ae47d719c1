package core

import (
	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type ScenarioMode uint8

const (
	ScenarioInactive ScenarioMode = iota
	ScenarioActivePoint
	ScenarioActiveRange
)

func (m ScenarioMode) String() string {
	switch m {
	case ScenarioInactive:
		return "Inactive"
	case ScenarioActivePoint:
		return "ActivePoint"
	case ScenarioActiveRange:
		return "ActiveRange"
	default:
		return "Unknown"
	}
}

// ScenarioState holds the shock parameters currently selected by the viewer.
// It lives for the viewing session; the host re-runs the engine with
// Params() whenever it changes. The state itself never computes anything.
type ScenarioState struct {
	clk clock.Clock
	log Log

	params    ShockParameters
	updatedAt int64
}

func NewScenarioState(clk clock.Clock, log Log) *ScenarioState {
	if log == nil {
		log = nopLog()
	}
	return &ScenarioState{
		clk:       clk,
		log:       log,
		updatedAt: clk.Now().Unix(),
	}
}

// UpdatedAt is the unix time of the last transition.
func (s *ScenarioState) UpdatedAt() int64 {
	return s.updatedAt
}

func (s *ScenarioState) Mode() ScenarioMode {
	switch {
	case !s.params.IsActive:
		return ScenarioInactive
	case s.params.RangeSelection == nil:
		return ScenarioActivePoint
	default:
		return ScenarioActiveRange
	}
}

// Params returns the current parameters by value, detached from the state.
func (s *ScenarioState) Params() ShockParameters {
	params := s.params
	if params.RangeSelection != nil {
		rng := *params.RangeSelection
		params.RangeSelection = &rng
	}
	return params
}

// SetShockAsset selects which asset symbol the shock applies to, without
// changing activation.
func (s *ScenarioState) SetShockAsset(shockAssetSelector string) {
	s.params.ShockAssetSelector = shockAssetSelector
	s.touch("setShockAsset")
}

// SetShockPct sets the shock magnitude; a zero shock deactivates the
// scenario, anything else activates it.
func (s *ScenarioState) SetShockPct(pct decimal.Decimal) {
	s.params.ShockPct = pct
	s.params.IsActive = !pct.IsZero()
	s.touch("setShockPct")
}

// ActivateScenario enters point mode at the given shock, dropping any range
// selection.
func (s *ScenarioState) ActivateScenario(pct decimal.Decimal) {
	s.params.IsActive = true
	s.params.ShockPct = pct
	s.params.RangeSelection = nil
	s.touch("activateScenario")
}

// SetRange sets or clears the range selection without changing activation.
func (s *ScenarioState) SetRange(rng *RangeSelection) error {
	if rng != nil && rng.Min.GreaterThan(rng.Max) {
		return errors.Wrapf(ErrInvalidRange, "min %s, max %s", rng.Min, rng.Max)
	}
	if rng == nil {
		s.params.RangeSelection = nil
	} else {
		selection := *rng
		s.params.RangeSelection = &selection
	}
	s.touch("setRange")
	return nil
}

// ResetScenario returns to the inactive baseline, clearing shock and range.
func (s *ScenarioState) ResetScenario() {
	s.params.ShockPct = decimal.Zero
	s.params.RangeSelection = nil
	s.params.IsActive = false
	s.touch("resetScenario")
}

// ToggleScenarioMode flips activation. Deactivating is a full reset of the
// shock and range; activating keeps whatever shock was held before.
func (s *ScenarioState) ToggleScenarioMode() {
	if s.params.IsActive {
		s.params.IsActive = false
		s.params.ShockPct = decimal.Zero
		s.params.RangeSelection = nil
	} else {
		s.params.IsActive = true
	}
	s.touch("toggleScenarioMode")
}

func (s *ScenarioState) touch(op string) {
	s.updatedAt = s.clk.Now().Unix()
	s.log.Debug().
		Str("op", op).
		Str("mode", s.Mode().String()).
		Str("shockPct", s.params.ShockPct.String()).
		Msg("scenario transition")
}
