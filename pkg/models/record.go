package models

import "time"

// EstimateRecord is a stored submission and its result
type EstimateRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	Area       string    `json:"area"`
	Dwelling   string    `json:"dwelling"`
	Housing    string    `json:"housing"`
	Appliances []string  `json:"appliances"` // appliance keys in breakdown order
	Policy     string    `json:"policy"`
	BaseKWh    float64   `json:"base_kwh"`
	DailyKWh   float64   `json:"daily_kwh"`
	MonthlyKWh float64   `json:"monthly_kwh"`
	Published  bool      `json:"published"`
}
