package estimator

import (
	"fmt"
	"strings"

	"github.com/jgoulah/energycalc/pkg/models"
)

// Policy preset names
const (
	PolicyUniform        = "uniform"
	PolicyDifferentiated = "differentiated"
	DefaultPolicy        = PolicyDifferentiated
)

// Policy is a named set of appliance coefficients in kWh/day.
// Appliances missing from Coefficients are unsupported by the policy.
type Policy struct {
	Name         string
	Description  string
	Coefficients map[models.Appliance]float64
}

// Coefficient returns the appliance's daily load and whether the policy supports it
func (p Policy) Coefficient(a models.Appliance) (float64, bool) {
	c, ok := p.Coefficients[a]
	return c, ok
}

// Supported lists the appliances the policy has a coefficient for, in breakdown order
func (p Policy) Supported() []models.Appliance {
	var out []models.Appliance
	for _, a := range models.Appliances() {
		if _, ok := p.Coefficients[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Uniform charges a flat 3 kWh/day for AC, refrigerator and washing machine only
func Uniform() Policy {
	return Policy{
		Name:        PolicyUniform,
		Description: "3 kWh/day each for AC, refrigerator and washing machine",
		Coefficients: map[models.Appliance]float64{
			models.AirConditioner: 3.0,
			models.Refrigerator:   3.0,
			models.WashingMachine: 3.0,
		},
	}
}

// Differentiated gives each appliance its own daily load
func Differentiated() Policy {
	return Policy{
		Name:        PolicyDifferentiated,
		Description: "per-appliance loads for AC, refrigerator, washing machine, TV and microwave",
		Coefficients: map[models.Appliance]float64{
			models.AirConditioner: 3.0,
			models.Refrigerator:   1.5,
			models.WashingMachine: 2.0,
			models.Television:     0.8,
			models.Microwave:      1.2,
		},
	}
}

// Policies returns every preset in stable order
func Policies() []Policy {
	return []Policy{Differentiated(), Uniform()}
}

// PolicyByName resolves a preset. An empty name selects DefaultPolicy.
func PolicyByName(name string) (Policy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = DefaultPolicy
	}
	for _, p := range Policies() {
		if p.Name == n {
			return p, nil
		}
	}
	return Policy{}, fmt.Errorf("unknown coefficient policy: %s (available: %s, %s)", name, PolicyDifferentiated, PolicyUniform)
}
