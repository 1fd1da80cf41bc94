package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energycalc/pkg/models"
)

// profileFlags collects a household profile from command line flags
type profileFlags struct {
	name       string
	age        int
	city       string
	area       string
	dwelling   string
	housing    string
	appliances []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "your name")
	cmd.Flags().IntVar(&f.age, "age", 25, "your age (1-120)")
	cmd.Flags().StringVar(&f.city, "city", "", "city")
	cmd.Flags().StringVar(&f.area, "area", "", "area name")
	cmd.Flags().StringVar(&f.dwelling, "dwelling", "", "Flat or Tenement")
	cmd.Flags().StringVar(&f.housing, "housing", "", "1BHK, 2BHK, 3BHK or 4BHK+")
	cmd.Flags().StringSliceVar(&f.appliances, "appliance", nil, "appliance in use, repeatable (ac, fridge, washing_machine, tv, microwave)")
}

func (f *profileFlags) profile() (models.HouseholdProfile, error) {
	p := models.HouseholdProfile{
		Name:       f.name,
		Age:        f.age,
		City:       f.city,
		Area:       f.area,
		Appliances: make(map[models.Appliance]bool),
	}

	var err error
	if p.Dwelling, err = models.ParseDwelling(f.dwelling); err != nil {
		return p, err
	}
	if p.Housing, err = models.ParseHousing(f.housing); err != nil {
		return p, err
	}
	for _, s := range f.appliances {
		a, err := models.ParseAppliance(s)
		if err != nil {
			return p, fmt.Errorf("%w (available: ac, fridge, washing_machine, tv, microwave)", err)
		}
		p.Appliances[a] = true
	}

	return p, nil
}
