// Package report shapes an estimate into what the result page and CLI show:
// metric tiles, chart series, a user summary and saving tips.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jgoulah/energycalc/pkg/models"
)

// Category is one slice of the consumption pie / one bar
type Category struct {
	Label string  `json:"label"`
	KWh   float64 `json:"kwh"`
}

// Tile is a summary metric with its display value
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary echoes the submitted identity fields
type Summary struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Location   string `json:"location"`
	Housing    string `json:"housing"`
	Appliances string `json:"appliances"`
}

// Report is everything rendered for one submission
type Report struct {
	Headline   string                 `json:"headline"`
	Breakdown  models.EnergyBreakdown `json:"breakdown"`
	Projection models.Projection      `json:"projection"`
	Categories []Category             `json:"categories"`
	Tiles      []Tile                 `json:"tiles"`
	Summary    Summary                `json:"summary"`
	Tips       []string               `json:"tips"`
}

var savingTips = []string{
	"Set AC temperature to 24°C or higher",
	"Use LED bulbs instead of incandescent ones",
	"Unplug electronics when not in use",
	"Use cold water for washing clothes when possible",
	"Use natural light during the day",
	"Regular maintenance of appliances improves efficiency",
}

// Build assembles the report for a completed estimate
func Build(p models.HouseholdProfile, b models.EnergyBreakdown, proj models.Projection) Report {
	return Report{
		Headline:   fmt.Sprintf("Total Energy Consumption: %s kWh/day", FormatKWh(b.TotalConsumption)),
		Breakdown:  b,
		Projection: proj,
		Categories: Categories(b),
		Tiles:      Tiles(proj),
		Summary:    Summarize(p),
		Tips:       append([]string(nil), savingTips...),
	}
}

// Categories lists the non-zero parts of a breakdown: the base load first,
// then in-use appliances in breakdown order. Zero categories are omitted.
func Categories(b models.EnergyBreakdown) []Category {
	var out []Category
	if b.BaseConsumption > 0 {
		out = append(out, Category{Label: fmt.Sprintf("Base (%s)", b.Housing), KWh: b.BaseConsumption})
	}
	for _, a := range models.Appliances() {
		if c := b.Contribution(a); c > 0 {
			out = append(out, Category{Label: a.Label(), KWh: c})
		}
	}
	return out
}

// Tiles formats the projection as summary metrics
func Tiles(p models.Projection) []Tile {
	return []Tile{
		{Label: "Daily Consumption", Value: FormatKWh(p.DailyKWh) + " kWh"},
		{Label: "Monthly Consumption", Value: FormatKWh(p.MonthlyKWh) + " kWh"},
		{Label: "Yearly Consumption", Value: FormatKWh(p.YearlyKWh) + " kWh"},
		{Label: "Monthly Cost", Value: FormatKWh(p.MonthlyCost)},
		{Label: "Monthly CO2", Value: FormatKWh(p.MonthlyCO2Kg) + " kg"},
	}
}

// Summarize renders the identity fields for display
func Summarize(p models.HouseholdProfile) Summary {
	var used []string
	for _, a := range p.AppliancesInUse() {
		used = append(used, a.Label())
	}
	appliances := "None"
	if len(used) > 0 {
		appliances = strings.Join(used, ", ")
	}

	return Summary{
		Name:       p.Name,
		Age:        p.Age,
		Location:   fmt.Sprintf("%s, %s", p.Area, p.City),
		Housing:    fmt.Sprintf("%s %s", p.Housing, p.Dwelling),
		Appliances: appliances,
	}
}

// FormatKWh rounds to one decimal with thousands separators, e.g. "1,170.0"
func FormatKWh(v float64) string {
	return humanize.FormatFloat("#,###.#", v)
}

type pieSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type lineSeries struct {
	X []string  `json:"x"`
	Y []float64 `json:"y"`
}

// ChartData is the chart payload consumed by the result page
type ChartData struct {
	Pie  pieSeries  `json:"pie"`
	Bar  pieSeries  `json:"bar"`
	Line lineSeries `json:"line"`
}

// Charts converts the report into pie, bar and seasonal line series
func (r Report) Charts() ChartData {
	var cd ChartData
	for _, c := range r.Categories {
		cd.Pie.Labels = append(cd.Pie.Labels, c.Label)
		cd.Pie.Values = append(cd.Pie.Values, c.KWh)
	}
	cd.Bar = cd.Pie
	for _, m := range r.Projection.Seasonal {
		cd.Line.X = append(cd.Line.X, m.Label)
		cd.Line.Y = append(cd.Line.Y, m.KWh)
	}
	return cd
}

// ChartsJSON returns Charts encoded as JSON
func (r Report) ChartsJSON() ([]byte, error) {
	data, err := json.Marshal(r.Charts())
	if err != nil {
		return nil, fmt.Errorf("encoding chart data: %w", err)
	}
	return data, nil
}

// NewRecord builds the history record for a completed estimate
func NewRecord(p models.HouseholdProfile, b models.EnergyBreakdown, proj models.Projection, now time.Time) models.EstimateRecord {
	var keys []string
	for _, a := range p.AppliancesInUse() {
		keys = append(keys, a.Key())
	}
	return models.EstimateRecord{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		Name:       p.Name,
		City:       p.City,
		Area:       p.Area,
		Dwelling:   p.Dwelling.String(),
		Housing:    p.Housing.String(),
		Appliances: keys,
		Policy:     b.Policy,
		BaseKWh:    b.BaseConsumption,
		DailyKWh:   b.TotalConsumption,
		MonthlyKWh: proj.MonthlyKWh,
	}
}
