// Package refdata holds the regional reference tables used by the cost and
// economics calculators. Tables are built once at startup and treated as
// read-only afterwards.
package refdata

const (
	Onshore  = "onshore"
	Offshore = "offshore"

	// DefaultRegion supplies rig rates when a region is unknown or does not
	// operate the requested location.
	DefaultRegion = "USA"

	// FallbackRigRate is the day rate used when no table entry matches.
	FallbackRigRate = 25000.0

	// FallbackRecoveryPerFoot is the EUR (bbl per foot of depth) used when
	// the well type / region pair is not tabulated.
	FallbackRecoveryPerFoot = 15.0

	BaseCurrency = "USD"
)

// Tables is the complete set of reference data. Nested maps are keyed
// region -> country, region -> location -> rig type and
// well type -> region.
type Tables struct {
	Multipliers     map[string]map[string]float64            `yaml:"multipliers"`
	RigRates        map[string]map[string]map[string]float64 `yaml:"rig_rates"`
	ExchangeRates   map[string]float64                       `yaml:"exchange_rates"`
	CurrencySymbols map[string]string                        `yaml:"currency_symbols"`
	RegionNames     map[string]string                        `yaml:"region_names"`
	CountryNames    map[string]string                        `yaml:"country_names"`
	Recovery        map[string]map[string]float64            `yaml:"recovery"`
}

// Default returns the built-in tables (IHS Markit UCCI 2024 Q1, OPEC, UK OGA,
// Wood Mackenzie, ANP/CNH cost studies; Rigzone / IHS Petrodata day rates).
func Default() *Tables {
	return &Tables{
		Multipliers: map[string]map[string]float64{
			"USA": {
				"permianBasin": 1.0,
				"eagleFord":    0.95,
				"bakken":       1.1,
				"gulfOfMexico": 1.8,
				"alaska":       2.2,
			},
			"middleEast": {
				"saudiArabia": 0.65,
				"uae":         0.70,
				"kuwait":      0.68,
				"iraq":        0.75,
			},
			"northSea": {
				"ukSector":        1.85,
				"norwegianSector": 1.95,
				"danish":          1.75,
			},
			"asiaPacific": {
				"australia": 1.65,
				"malaysia":  0.85,
				"indonesia": 0.80,
				"china":     0.75,
			},
			"latinAmerica": {
				"brazilPreSalt": 2.4,
				"brazilOnshore": 0.90,
				"mexico":        0.95,
				"argentina":     1.05,
			},
		},
		RigRates: map[string]map[string]map[string]float64{
			"USA": {
				Onshore:  {"small": 15000, "standard": 25000, "premium": 35000},
				Offshore: {"jackup": 75000, "semisubmersible": 275000, "drillship": 450000},
			},
			"middleEast": {
				Onshore:  {"small": 10000, "standard": 18000, "premium": 28000},
				Offshore: {"jackup": 55000, "semisubmersible": 180000},
			},
			"northSea": {
				Offshore: {"jackup": 120000, "semisubmersible": 380000, "drillship": 550000},
			},
			"asiaPacific": {
				Onshore:  {"standard": 20000, "premium": 30000},
				Offshore: {"jackup": 65000, "semisubmersible": 250000, "drillship": 400000},
			},
			"latinAmerica": {
				Onshore:  {"standard": 22000, "premium": 32000},
				Offshore: {"jackup": 70000, "semisubmersible": 260000, "drillship": 420000},
			},
		},
		ExchangeRates: StaticExchangeRates(),
		CurrencySymbols: map[string]string{
			"USD": "$",
			"GBP": "£",
			"EUR": "€",
			"SAR": "﷼",
			"AUD": "A$",
			"BRL": "R$",
			"NOK": "kr",
		},
		RegionNames: map[string]string{
			"USA":          "United States",
			"middleEast":   "Middle East",
			"northSea":     "North Sea",
			"asiaPacific":  "Asia-Pacific",
			"latinAmerica": "Latin America",
		},
		CountryNames: map[string]string{
			"permianBasin":    "Permian Basin",
			"eagleFord":       "Eagle Ford",
			"bakken":          "Bakken",
			"gulfOfMexico":    "Gulf of Mexico",
			"alaska":          "Alaska",
			"saudiArabia":     "Saudi Arabia",
			"uae":             "UAE",
			"kuwait":          "Kuwait",
			"iraq":            "Iraq",
			"ukSector":        "UK Sector",
			"norwegianSector": "Norwegian Sector",
			"danish":          "Danish Sector",
			"australia":       "Australia",
			"malaysia":        "Malaysia",
			"indonesia":       "Indonesia",
			"china":           "China",
			"brazilPreSalt":   "Brazil Pre-Salt",
			"brazilOnshore":   "Brazil Onshore",
			"mexico":          "Mexico",
			"argentina":       "Argentina",
		},
		Recovery: map[string]map[string]float64{
			"conventional": {
				"USA": 12, "middleEast": 18, "northSea": 15, "asiaPacific": 14, "latinAmerica": 13,
			},
			"unconventional": {
				"USA": 20, "middleEast": 8, "northSea": 10, "asiaPacific": 12, "latinAmerica": 15,
			},
			Offshore: {
				"USA": 25, "middleEast": 30, "northSea": 22, "asiaPacific": 26, "latinAmerica": 28,
			},
		},
	}
}

// StaticExchangeRates returns the fallback USD-based FX table.
func StaticExchangeRates() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"GBP": 0.79,
		"EUR": 0.92,
		"SAR": 3.75,
		"AUD": 1.53,
		"BRL": 5.67,
		"NOK": 10.85,
	}
}

// WithExchangeRates returns a shallow copy of t whose FX table is replaced
// by a copy of rates. The receiver is left untouched.
func (t *Tables) WithExchangeRates(rates map[string]float64) *Tables {
	cp := *t
	cp.ExchangeRates = make(map[string]float64, len(rates))
	for k, v := range rates {
		cp.ExchangeRates[k] = v
	}
	return &cp
}
