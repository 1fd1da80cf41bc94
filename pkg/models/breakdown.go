package models

import (
	"encoding/json"
	"time"
)

// EnergyBreakdown is the decomposition of a household's daily consumption
// into the housing base load and per-appliance loads, all in kWh/day.
type EnergyBreakdown struct {
	Housing          HousingConfiguration  `json:"-"`
	Policy           string                `json:"policy"`
	BaseConsumption  float64               `json:"base_kwh"`
	PerAppliance     map[Appliance]float64 `json:"-"`
	TotalConsumption float64               `json:"total_kwh"`
}

// Contribution returns the appliance's daily load, 0 when it is not in use
func (b EnergyBreakdown) Contribution(a Appliance) float64 {
	return b.PerAppliance[a]
}

// ApplianceTotal sums the appliance loads in breakdown order
func (b EnergyBreakdown) ApplianceTotal() float64 {
	var sum float64
	for _, a := range Appliances() {
		sum += b.PerAppliance[a]
	}
	return sum
}

// MarshalJSON writes housing by name and appliance loads keyed by appliance
// key, omitting appliances that are not in use.
func (b EnergyBreakdown) MarshalJSON() ([]byte, error) {
	appliances := make(map[string]float64, len(b.PerAppliance))
	for a, kwh := range b.PerAppliance {
		appliances[a.Key()] = kwh
	}
	return json.Marshal(struct {
		Policy     string             `json:"policy"`
		Housing    string             `json:"housing"`
		BaseKWh    float64            `json:"base_kwh"`
		Appliances map[string]float64 `json:"appliances"`
		TotalKWh   float64            `json:"total_kwh"`
	}{
		Policy:     b.Policy,
		Housing:    b.Housing.String(),
		BaseKWh:    b.BaseConsumption,
		Appliances: appliances,
		TotalKWh:   b.TotalConsumption,
	})
}

// MonthlyPoint is one month of the simulated seasonal curve
type MonthlyPoint struct {
	Month time.Month `json:"-"`
	Label string     `json:"month"`
	KWh   float64    `json:"kwh"`
}

// Projection holds the figures derived from a breakdown's daily total
type Projection struct {
	DailyKWh     float64        `json:"daily_kwh"`
	MonthlyKWh   float64        `json:"monthly_kwh"`
	YearlyKWh    float64        `json:"yearly_kwh"`
	MonthlyCost  float64        `json:"monthly_cost"`
	MonthlyCO2Kg float64        `json:"monthly_co2_kg"`
	Seasonal     []MonthlyPoint `json:"seasonal"`
}
