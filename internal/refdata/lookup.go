package refdata

import (
	"sort"
	"strings"
	"unicode"
)

// RigType describes one selectable rig for a region/location pair.
type RigType struct {
	Value string  `json:"value"`
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// Multiplier returns the regional cost multiplier, 1.0 when the pair is not
// tabulated.
func (t *Tables) Multiplier(region, country string) float64 {
	if m := t.Multipliers[region][country]; m != 0 {
		return m
	}
	return 1.0
}

// RigRate returns the day rate for the rig. Unknown regions use the default
// region's table. When the region does not operate the location at all, the
// default region's rate for the rig type is used; otherwise the rig type,
// then the location's standard rig, then FallbackRigRate.
func (t *Tables) RigRate(region, location, rigType string) float64 {
	regionRates, ok := t.RigRates[region]
	if !ok {
		regionRates = t.RigRates[DefaultRegion]
	}

	locationRates, ok := regionRates[location]
	if !ok {
		if r := t.RigRates[DefaultRegion][location][rigType]; r != 0 {
			return r
		}
		return FallbackRigRate
	}

	if r := locationRates[rigType]; r != 0 {
		return r
	}
	if r := locationRates["standard"]; r != 0 {
		return r
	}
	return FallbackRigRate
}

// RigTypes lists the rigs available for a region/location ordered by day
// rate. Nil when the region does not operate the location.
func (t *Tables) RigTypes(region, location string) []RigType {
	regionRates, ok := t.RigRates[region]
	if !ok {
		regionRates = t.RigRates[DefaultRegion]
	}
	locationRates := regionRates[location]
	if len(locationRates) == 0 {
		return nil
	}

	out := make([]RigType, 0, len(locationRates))
	for value, rate := range locationRates {
		out = append(out, RigType{Value: value, Label: RigLabel(value), Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate == out[j].Rate {
			return out[i].Value < out[j].Value
		}
		return out[i].Rate < out[j].Rate
	})
	return out
}

// RigLabel turns a camelCase rig key into a display label ("jackup" -> "Jackup").
func RigLabel(value string) string {
	if value == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range value {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExchangeRate returns units of currency per USD, 1.0 when unknown.
func (t *Tables) ExchangeRate(currency string) float64 {
	if r := t.ExchangeRates[currency]; r != 0 {
		return r
	}
	return 1.0
}

// Symbol returns the display symbol for currency, "$" when unknown.
func (t *Tables) Symbol(currency string) string {
	if s, ok := t.CurrencySymbols[currency]; ok {
		return s
	}
	return "$"
}

func (t *Tables) RegionName(region string) string {
	if n, ok := t.RegionNames[region]; ok {
		return n
	}
	return region
}

func (t *Tables) CountryName(country string) string {
	if n, ok := t.CountryNames[country]; ok {
		return n
	}
	return country
}

// RecoveryPerFoot returns the estimated ultimate recovery in barrels per
// foot of depth for the well type and region.
func (t *Tables) RecoveryPerFoot(wellType, region string) float64 {
	if r := t.Recovery[wellType][region]; r != 0 {
		return r
	}
	return FallbackRecoveryPerFoot
}

// Regions returns the region keys in sorted order.
func (t *Tables) Regions() []string {
	return sortedKeys(t.Multipliers)
}

// Countries returns the country keys of region in sorted order.
func (t *Tables) Countries(region string) []string {
	return sortedKeys(t.Multipliers[region])
}

// Currencies returns the currencies that have a display symbol, sorted.
func (t *Tables) Currencies() []string {
	return sortedKeys(t.CurrencySymbols)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
