package estimator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/energycalc/pkg/models"
)

func profile(h models.HousingConfiguration, used ...models.Appliance) models.HouseholdProfile {
	appliances := make(map[models.Appliance]bool)
	for _, a := range used {
		appliances[a] = true
	}
	return models.HouseholdProfile{
		Name:       "Priya Shah",
		Age:        34,
		City:       "Mumbai",
		Area:       "Bandra West",
		Dwelling:   models.DwellingFlat,
		Housing:    h,
		Appliances: appliances,
	}
}

func TestBaseOnlyEqualsTable(t *testing.T) {
	want := map[models.HousingConfiguration]float64{
		models.Housing1BHK:     2.4,
		models.Housing2BHK:     3.6,
		models.Housing3BHK:     4.8,
		models.Housing4BHKPlus: 6.0,
	}
	for _, p := range Policies() {
		e := New(p)
		for _, h := range models.HousingConfigurations() {
			b, err := e.Estimate(profile(h))
			require.NoError(t, err)
			assert.Equal(t, want[h], b.TotalConsumption, "%s/%s", p.Name, h)
			assert.Equal(t, want[h], b.BaseConsumption)
			assert.Empty(t, b.PerAppliance)
		}
	}
}

func TestTableMatchesRoomFormula(t *testing.T) {
	for _, h := range models.HousingConfigurations() {
		rooms := float64(roomEquivalents(h))
		base, err := BaseConsumption(h)
		require.NoError(t, err)
		assert.InDelta(t, rooms*lightingPerRoom+rooms*generalPerRoom, base, 1e-9, h.String())
	}
}

func TestEveryApplianceSubset(t *testing.T) {
	for _, p := range Policies() {
		e := New(p)
		supported := p.Supported()
		for mask := 1; mask < 1<<len(supported); mask++ {
			var used []models.Appliance
			var sum float64
			for i, a := range supported {
				if mask&(1<<i) != 0 {
					used = append(used, a)
					c, _ := p.Coefficient(a)
					sum += c
				}
			}
			for _, h := range models.HousingConfigurations() {
				b, err := e.Estimate(profile(h, used...))
				require.NoError(t, err)

				base, _ := BaseConsumption(h)
				assert.InDelta(t, base+sum, b.TotalConsumption, 1e-9)
				// completeness holds exactly
				assert.Equal(t, b.BaseConsumption+b.ApplianceTotal(), b.TotalConsumption)
				assert.Len(t, b.PerAppliance, len(used))
			}
		}
	}
}

func TestProjectionsAreExactMultiples(t *testing.T) {
	e := New(Differentiated())
	b, err := e.Estimate(profile(models.Housing3BHK, models.Television, models.Microwave))
	require.NoError(t, err)

	p := Project(b, DefaultTariff())
	assert.Equal(t, b.TotalConsumption*30, p.MonthlyKWh)
	assert.Equal(t, b.TotalConsumption*365, p.YearlyKWh)
	assert.Equal(t, p.MonthlyKWh*5, p.MonthlyCost)
	assert.Equal(t, p.MonthlyKWh*0.82, p.MonthlyCO2Kg)
	assert.Equal(t, b.TotalConsumption, p.DailyKWh)
}

func TestEstimateIsIdempotent(t *testing.T) {
	e := New(Differentiated())
	in := profile(models.Housing2BHK, models.AirConditioner, models.Refrigerator, models.Microwave)

	first, err := e.Estimate(in)
	require.NoError(t, err)
	second, err := e.Estimate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Project(first, DefaultTariff()), Project(second, DefaultTariff()))
}

func TestScenarios(t *testing.T) {
	t.Run("2BHK all three appliances uniform", func(t *testing.T) {
		b, err := New(Uniform()).Estimate(profile(models.Housing2BHK,
			models.AirConditioner, models.Refrigerator, models.WashingMachine))
		require.NoError(t, err)
		assert.InDelta(t, 12.6, b.TotalConsumption, 1e-9)
		assert.InDelta(t, 378.0, Project(b, DefaultTariff()).MonthlyKWh, 1e-9)
	})

	t.Run("3BHK AC only differentiated", func(t *testing.T) {
		b, err := New(Differentiated()).Estimate(profile(models.Housing3BHK, models.AirConditioner))
		require.NoError(t, err)
		assert.InDelta(t, 7.8, b.TotalConsumption, 1e-9)
		assert.InDelta(t, 1170.0, Project(b, DefaultTariff()).MonthlyCost, 1e-9)
	})

	t.Run("1BHK no appliances", func(t *testing.T) {
		b, err := New(Differentiated()).Estimate(profile(models.Housing1BHK))
		require.NoError(t, err)
		assert.Equal(t, 2.4, b.TotalConsumption)
		assert.Zero(t, b.ApplianceTotal())
		for _, a := range models.Appliances() {
			assert.Zero(t, b.Contribution(a))
		}
	})
}

func TestIncompleteProfile(t *testing.T) {
	e := New(Differentiated())

	cases := map[string]func(p *models.HouseholdProfile){
		"empty name":        func(p *models.HouseholdProfile) { p.Name = "" },
		"blank city":        func(p *models.HouseholdProfile) { p.City = "   " },
		"empty area":        func(p *models.HouseholdProfile) { p.Area = "" },
		"placeholder house": func(p *models.HouseholdProfile) { p.Housing = models.HousingUnselected },
		"no dwelling":       func(p *models.HouseholdProfile) { p.Dwelling = models.DwellingUnselected },
		"age out of range":  func(p *models.HouseholdProfile) { p.Age = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := profile(models.Housing2BHK, models.AirConditioner)
			mutate(&p)

			b, err := e.Estimate(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrIncompleteProfile))
			assert.Equal(t, models.EnergyBreakdown{}, b)
		})
	}
}

func TestUniformRejectsUnsupportedAppliance(t *testing.T) {
	_, err := New(Uniform()).Estimate(profile(models.Housing2BHK, models.Television))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAppliance)
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy, p.Name)

	p, err = PolicyByName("Uniform")
	require.NoError(t, err)
	assert.Equal(t, PolicyUniform, p.Name)

	_, err = PolicyByName("flat-rate")
	assert.Error(t, err)
}

func TestSeasonalCurve(t *testing.T) {
	points := SeasonalCurve(100)
	require.Len(t, points, 12)
	assert.Equal(t, "Jan", points[0].Label)
	assert.InDelta(t, 80.0, points[0].KWh, 1e-9)
	assert.Equal(t, "Jul", points[6].Label)
	assert.InDelta(t, 160.0, points[6].KWh, 1e-9)
	assert.InDelta(t, 80.0, points[11].KWh, 1e-9)
}
