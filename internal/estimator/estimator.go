// Package estimator turns a household profile into a daily energy breakdown.
//
// The model is a fixed-coefficient sum: a base load determined by the housing
// configuration plus a constant load for every appliance in use.
package estimator

import (
	"errors"
	"fmt"

	"github.com/jgoulah/energycalc/pkg/models"
)

// ErrUnsupportedAppliance is returned when a profile uses an appliance the
// active policy has no coefficient for.
var ErrUnsupportedAppliance = errors.New("appliance not supported by policy")

// Room-equivalent loads. Base load is rooms*lighting + rooms*general,
// i.e. 1.2 kWh/day per room-equivalent.
const (
	lightingPerRoom = 0.4
	generalPerRoom  = 0.8
)

// baseConsumption is the daily base load per housing configuration.
// Values equal roomEquivalents(h) * (lightingPerRoom + generalPerRoom),
// written out so the table and the formula cannot drift apart in rounding.
var baseConsumption = map[models.HousingConfiguration]float64{
	models.Housing1BHK:     2.4,
	models.Housing2BHK:     3.6,
	models.Housing3BHK:     4.8,
	models.Housing4BHKPlus: 6.0,
}

// roomEquivalents is bedrooms plus the hall
func roomEquivalents(h models.HousingConfiguration) int {
	switch h {
	case models.Housing1BHK:
		return 2
	case models.Housing2BHK:
		return 3
	case models.Housing3BHK:
		return 4
	case models.Housing4BHKPlus:
		return 5
	default:
		return 0
	}
}

// BaseConsumption returns the base load for a housing configuration
func BaseConsumption(h models.HousingConfiguration) (float64, error) {
	base, ok := baseConsumption[h]
	if !ok {
		return 0, &models.IncompleteProfileError{Missing: []string{"housing"}}
	}
	return base, nil
}

// Estimator computes breakdowns under a single coefficient policy.
// It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	policy Policy
}

// New creates an estimator for the given policy
func New(policy Policy) *Estimator {
	return &Estimator{policy: policy}
}

// Policy returns the estimator's coefficient policy
func (e *Estimator) Policy() Policy {
	return e.policy
}

// Estimate validates the profile and computes its breakdown. An incomplete
// profile yields an error matching models.ErrIncompleteProfile and no breakdown.
func (e *Estimator) Estimate(profile models.HouseholdProfile) (models.EnergyBreakdown, error) {
	if err := profile.Validate(); err != nil {
		return models.EnergyBreakdown{}, err
	}

	base, err := BaseConsumption(profile.Housing)
	if err != nil {
		return models.EnergyBreakdown{}, err
	}

	breakdown := models.EnergyBreakdown{
		Housing:         profile.Housing,
		Policy:          e.policy.Name,
		BaseConsumption: base,
		PerAppliance:    make(map[models.Appliance]float64),
	}

	for _, a := range profile.AppliancesInUse() {
		c, ok := e.policy.Coefficient(a)
		if !ok {
			return models.EnergyBreakdown{}, fmt.Errorf("%w: %s under %s policy", ErrUnsupportedAppliance, a.Label(), e.policy.Name)
		}
		breakdown.PerAppliance[a] = c
	}
	// same summation order as ApplianceTotal so the invariant holds bit for bit
	breakdown.TotalConsumption = base + breakdown.ApplianceTotal()

	return breakdown, nil
}
