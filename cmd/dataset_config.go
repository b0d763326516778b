package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is the YAML input of the extrapolate command: expectation values
// measured at a set of noise scale factors, ready for a classical fit.
type Dataset struct {
	ScaleFactors      []float64 `yaml:"scale_factors"`
	ExpectationValues []float64 `yaml:"expectation_values"`
}

// LoadDataset reads and validates a measurement dataset from a YAML file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	if len(ds.ScaleFactors) != len(ds.ExpectationValues) {
		return nil, fmt.Errorf("dataset %s: %d scale factors but %d expectation values",
			path, len(ds.ScaleFactors), len(ds.ExpectationValues))
	}
	if len(ds.ScaleFactors) < 2 {
		return nil, fmt.Errorf("dataset %s: at least 2 data points are necessary, got %d",
			path, len(ds.ScaleFactors))
	}
	return &ds, nil
}
