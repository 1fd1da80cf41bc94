package models

import (
	"errors"
	"fmt"
	"strings"
)

// placeholderOption is the form value shown before a selection is made
const placeholderOption = "Select Option"

// HousingConfiguration is the apartment size category. The zero value is the
// unselected placeholder.
type HousingConfiguration int

const (
	HousingUnselected HousingConfiguration = iota
	Housing1BHK
	Housing2BHK
	Housing3BHK
	Housing4BHKPlus
)

// HousingConfigurations lists the selectable configurations, smallest first
func HousingConfigurations() []HousingConfiguration {
	return []HousingConfiguration{Housing1BHK, Housing2BHK, Housing3BHK, Housing4BHKPlus}
}

func (h HousingConfiguration) String() string {
	switch h {
	case Housing1BHK:
		return "1BHK"
	case Housing2BHK:
		return "2BHK"
	case Housing3BHK:
		return "3BHK"
	case Housing4BHKPlus:
		return "4BHK+"
	default:
		return ""
	}
}

// ParseHousing parses a housing selection such as "2bhk" or "4BHK+".
// An empty value or the form placeholder yields HousingUnselected.
func ParseHousing(s string) (HousingConfiguration, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, placeholderOption) {
		return HousingUnselected, nil
	}
	for _, h := range HousingConfigurations() {
		if strings.EqualFold(v, h.String()) {
			return h, nil
		}
	}
	// "4BHK" is accepted for the open-ended top category
	if strings.EqualFold(v, "4bhk") {
		return Housing4BHKPlus, nil
	}
	return HousingUnselected, fmt.Errorf("unknown housing configuration: %s", s)
}

// DwellingType distinguishes a flat from a tenement. Display only.
type DwellingType int

const (
	DwellingUnselected DwellingType = iota
	DwellingFlat
	DwellingTenement
)

func (d DwellingType) String() string {
	switch d {
	case DwellingFlat:
		return "Flat"
	case DwellingTenement:
		return "Tenement"
	default:
		return ""
	}
}

// ParseDwelling parses "Flat" or "Tenement". Empty or placeholder is DwellingUnselected.
func ParseDwelling(s string) (DwellingType, error) {
	v := strings.TrimSpace(s)
	switch {
	case v == "" || strings.EqualFold(v, placeholderOption):
		return DwellingUnselected, nil
	case strings.EqualFold(v, "flat"):
		return DwellingFlat, nil
	case strings.EqualFold(v, "tenement"):
		return DwellingTenement, nil
	}
	return DwellingUnselected, fmt.Errorf("unknown dwelling type: %s", s)
}

// Appliance is a household appliance that adds a fixed daily load when in use
type Appliance int

const (
	AirConditioner Appliance = iota
	Refrigerator
	WashingMachine
	Television
	Microwave
)

// Appliances lists every appliance in breakdown order
func Appliances() []Appliance {
	return []Appliance{AirConditioner, Refrigerator, WashingMachine, Television, Microwave}
}

// Key is the stable identifier used in forms, JSON and storage
func (a Appliance) Key() string {
	switch a {
	case AirConditioner:
		return "ac"
	case Refrigerator:
		return "fridge"
	case WashingMachine:
		return "washing_machine"
	case Television:
		return "tv"
	case Microwave:
		return "microwave"
	default:
		return ""
	}
}

// Label is the human readable name shown in charts and summaries
func (a Appliance) Label() string {
	switch a {
	case AirConditioner:
		return "Air Conditioner"
	case Refrigerator:
		return "Refrigerator"
	case WashingMachine:
		return "Washing Machine"
	case Television:
		return "Television"
	case Microwave:
		return "Microwave"
	default:
		return ""
	}
}

func (a Appliance) String() string {
	return a.Key()
}

// ParseAppliance resolves an appliance from its key or label
func ParseAppliance(s string) (Appliance, error) {
	v := strings.TrimSpace(s)
	for _, a := range Appliances() {
		if strings.EqualFold(v, a.Key()) || strings.EqualFold(v, a.Label()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown appliance: %s", s)
}

// Age bounds accepted by the form
const (
	MinAge = 1
	MaxAge = 120
)

// HouseholdProfile is one form submission. Build it once and treat it as read-only.
type HouseholdProfile struct {
	Name       string
	Age        int
	City       string
	Area       string
	Dwelling   DwellingType
	Housing    HousingConfiguration
	Appliances map[Appliance]bool
}

// InUse reports whether the appliance was marked as used
func (p HouseholdProfile) InUse(a Appliance) bool {
	return p.Appliances[a]
}

// AppliancesInUse returns the used appliances in breakdown order
func (p HouseholdProfile) AppliancesInUse() []Appliance {
	var used []Appliance
	for _, a := range Appliances() {
		if p.Appliances[a] {
			used = append(used, a)
		}
	}
	return used
}

// ErrIncompleteProfile is matched by every IncompleteProfileError
var ErrIncompleteProfile = errors.New("incomplete household profile")

// IncompleteProfileError lists the fields that block an estimate
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("please fill in all required fields before calculating (missing: %s)", strings.Join(e.Missing, ", "))
}

func (e *IncompleteProfileError) Is(target error) bool {
	return target == ErrIncompleteProfile
}

// Validate checks that every required field is filled in
func (p HouseholdProfile) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Age < MinAge || p.Age > MaxAge {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(p.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(p.Area) == "" {
		missing = append(missing, "area")
	}
	if p.Dwelling == DwellingUnselected {
		missing = append(missing, "dwelling")
	}
	if p.Housing == HousingUnselected {
		missing = append(missing, "housing")
	}
	if len(missing) > 0 {
		return &IncompleteProfileError{Missing: missing}
	}
	return nil
}
