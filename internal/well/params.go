// Package well describes the user-supplied well parameters and the input
// coercion rules applied before any calculation runs.
package well

import (
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/wellwise/internal/refdata"
)

const (
	DefaultDepth        = 10000
	DefaultRegion       = "USA"
	DefaultCountry      = "permianBasin"
	DefaultRigType      = "standard"
	DefaultOffshoreRig  = "jackup"
	DefaultOnshoreDays  = 25
	DefaultOffshoreDays = 90
	DefaultCurrency     = refdata.BaseCurrency
	DefaultOilPrice     = 75.0
)

// Parameters is the input to a cost estimate. The JSON shape matches the
// "params" object of a saved scenario.
type Parameters struct {
	Depth        int     `json:"depth"`
	Region       string  `json:"region"`
	Country      string  `json:"country"`
	Location     string  `json:"location"`
	RigType      string  `json:"rigType"`
	DrillingDays int     `json:"drillingDays"`
	Currency     string  `json:"currency"`
	OilPrice     float64 `json:"oilPrice"`
}

// Defaults returns the parameters a fresh estimate form starts with.
func Defaults() Parameters {
	return Parameters{
		Depth:        DefaultDepth,
		Region:       DefaultRegion,
		Country:      DefaultCountry,
		Location:     refdata.Onshore,
		RigType:      DefaultRigType,
		DrillingDays: DefaultOnshoreDays,
		Currency:     DefaultCurrency,
		OilPrice:     DefaultOilPrice,
	}
}

// Normalize clamps numeric fields and fills empty enumerations so the
// calculators never see negative quantities or an unknown location.
func (p Parameters) Normalize() Parameters {
	if p.Depth < 0 {
		p.Depth = 0
	}
	if p.DrillingDays < 0 {
		p.DrillingDays = 0
	}
	if !validPrice(p.OilPrice) {
		p.OilPrice = DefaultOilPrice
	}
	if p.Location != refdata.Offshore {
		p.Location = refdata.Onshore
	}
	if p.Region == "" {
		p.Region = DefaultRegion
	}
	if p.RigType == "" {
		p.RigType = DefaultRigType
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return p
}

// WithLocation switches location and resets the rig type and drilling days
// to the typical values for it.
func (p Parameters) WithLocation(location string) Parameters {
	if location == refdata.Offshore {
		p.Location = refdata.Offshore
		p.RigType = DefaultOffshoreRig
		p.DrillingDays = DefaultOffshoreDays
		return p
	}
	p.Location = refdata.Onshore
	p.RigType = DefaultRigType
	p.DrillingDays = DefaultOnshoreDays
	return p
}

// WithRegion switches region/country and resets the rig type.
func (p Parameters) WithRegion(region, country string) Parameters {
	p.Region = region
	p.Country = country
	p.RigType = DefaultRigType
	return p
}

// ParseDepth reads a depth in feet; anything unparseable becomes 0.
func ParseDepth(raw string) int {
	return parseInt(raw)
}

// ParseDrillingDays reads a day count; anything unparseable becomes 0.
func ParseDrillingDays(raw string) int {
	return parseInt(raw)
}

// ParseOilPrice reads a USD/bbl price; unparseable, zero or non-finite
// input becomes DefaultOilPrice.
func ParseOilPrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultOilPrice
	}
	return v
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// parseInt accepts a leading integer ("12000ft" -> 12000) the way form
// inputs are usually read; decimals are truncated.
func parseInt(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
