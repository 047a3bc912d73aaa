package refdata

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile returns the default tables overlaid with the YAML document at
// path. Only the keys present in the document are replaced, so a file can
// adjust a single multiplier without restating everything else. An empty
// path yields Default().
func LoadFile(path string) (*Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: read %s", path)
	}

	var override Tables
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, eris.Wrapf(err, "refdata: parse %s", path)
	}

	mergeNested(t.Multipliers, override.Multipliers)
	mergeNested(t.Recovery, override.Recovery)
	mergeFlat(t.ExchangeRates, override.ExchangeRates)
	mergeFlat(t.CurrencySymbols, override.CurrencySymbols)
	mergeFlat(t.RegionNames, override.RegionNames)
	mergeFlat(t.CountryNames, override.CountryNames)
	for region, locations := range override.RigRates {
		if t.RigRates[region] == nil {
			t.RigRates[region] = map[string]map[string]float64{}
		}
		mergeNested(t.RigRates[region], locations)
	}

	return t, nil
}

func mergeFlat[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}

func mergeNested[V any](dst, src map[string]map[string]V) {
	for k, inner := range src {
		if dst[k] == nil {
			dst[k] = make(map[string]V, len(inner))
		}
		mergeFlat(dst[k], inner)
	}
}
