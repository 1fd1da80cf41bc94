package estimator

import (
	"time"

	"github.com/jgoulah/energycalc/pkg/models"
)

// Projection constants
const (
	DaysPerMonth = 30
	DaysPerYear  = 365

	DefaultCostPerKWh     = 5.0  // currency units per kWh
	DefaultEmissionFactor = 0.82 // kg CO2 per kWh
)

// seasonalMultipliers scales the monthly figure for Jan..Dec. This is an
// illustrative curve peaking in summer, not derived from measured data.
var seasonalMultipliers = [12]float64{0.8, 0.9, 1.0, 1.2, 1.4, 1.5, 1.6, 1.5, 1.3, 1.1, 0.9, 0.8}

// Tariff holds the price and grid emission factor used for projections
type Tariff struct {
	CostPerKWh     float64
	EmissionFactor float64
}

// DefaultTariff returns the observed default cost and emission factor
func DefaultTariff() Tariff {
	return Tariff{CostPerKWh: DefaultCostPerKWh, EmissionFactor: DefaultEmissionFactor}
}

// Project derives monthly, yearly, cost and CO2 figures from a breakdown.
// Nothing is rounded here; rounding is left to the display layer.
func Project(b models.EnergyBreakdown, t Tariff) models.Projection {
	monthly := b.TotalConsumption * DaysPerMonth
	return models.Projection{
		DailyKWh:     b.TotalConsumption,
		MonthlyKWh:   monthly,
		YearlyKWh:    b.TotalConsumption * DaysPerYear,
		MonthlyCost:  monthly * t.CostPerKWh,
		MonthlyCO2Kg: monthly * t.EmissionFactor,
		Seasonal:     SeasonalCurve(monthly),
	}
}

// SeasonalCurve spreads a monthly figure over a simulated twelve month curve
func SeasonalCurve(monthly float64) []models.MonthlyPoint {
	points := make([]models.MonthlyPoint, 0, len(seasonalMultipliers))
	for i, m := range seasonalMultipliers {
		month := time.Month(i + 1)
		points = append(points, models.MonthlyPoint{
			Month: month,
			Label: month.String()[:3],
			KWh:   monthly * m,
		})
	}
	return points
}
