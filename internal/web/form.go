package web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jgoulah/energycalc/pkg/models"
)

// ErrInvalidInput marks submissions with values that cannot be parsed
var ErrInvalidInput = errors.New("invalid input")

// formState echoes submitted values back into the form
type formState struct {
	Name       string
	Age        string
	City       string
	Area       string
	Dwelling   string
	Housing    string
	Appliances map[string]bool
}

func newFormState(v url.Values) formState {
	fs := formState{
		Name:       v.Get("name"),
		Age:        v.Get("age"),
		City:       v.Get("city"),
		Area:       v.Get("area"),
		Dwelling:   v.Get("dwelling"),
		Housing:    v.Get("housing"),
		Appliances: map[string]bool{},
	}
	for _, a := range models.Appliances() {
		fs.Appliances[a.Key()] = isYes(v.Get(a.Key()))
	}
	return fs
}

// isYes accepts checkbox and Yes/No radio values
func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on", "true", "1":
		return true
	}
	return false
}

// profileFromForm builds a profile from form values. Missing fields are left
// at their zero/placeholder value for Validate to report.
func profileFromForm(v url.Values) (models.HouseholdProfile, error) {
	var p models.HouseholdProfile

	p.Name = strings.TrimSpace(v.Get("name"))
	p.City = strings.TrimSpace(v.Get("city"))
	p.Area = strings.TrimSpace(v.Get("area"))

	if age := strings.TrimSpace(v.Get("age")); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return p, fmt.Errorf("%w: age must be a whole number", ErrInvalidInput)
		}
		p.Age = n
	}

	dwelling, err := models.ParseDwelling(v.Get("dwelling"))
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p.Dwelling = dwelling

	housing, err := models.ParseHousing(v.Get("housing"))
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p.Housing = housing

	p.Appliances = make(map[models.Appliance]bool)
	for _, a := range models.Appliances() {
		if isYes(v.Get(a.Key())) {
			p.Appliances[a] = true
		}
	}

	return p, nil
}

// profileRequest is the JSON body of POST /api/estimate
type profileRequest struct {
	Name       string          `json:"name"`
	Age        int             `json:"age"`
	City       string          `json:"city"`
	Area       string          `json:"area"`
	Dwelling   string          `json:"dwelling"`
	Housing    string          `json:"housing"`
	Appliances map[string]bool `json:"appliances"`
}

func (r profileRequest) toProfile() (models.HouseholdProfile, error) {
	p := models.HouseholdProfile{
		Name:       strings.TrimSpace(r.Name),
		Age:        r.Age,
		City:       strings.TrimSpace(r.City),
		Area:       strings.TrimSpace(r.Area),
		Appliances: make(map[models.Appliance]bool),
	}

	var err error
	if p.Dwelling, err = models.ParseDwelling(r.Dwelling); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.Housing, err = models.ParseHousing(r.Housing); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for key, used := range r.Appliances {
		a, err := models.ParseAppliance(key)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if used {
			p.Appliances[a] = true
		}
	}

	return p, nil
}
