// Package testutil provides shared test infrastructure for the zne
// packages: the golden extrapolation dataset and float assertion helpers
// used across zne/ and zne/fit/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Cases []GoldenCase `json:"cases"`
}

// GoldenCase is a single extrapolation case with a known zero-noise limit.
type GoldenCase struct {
	Name              string    `json:"name"`
	Model             string    `json:"model"`
	Order             int       `json:"order"`
	Asymptote         *float64  `json:"asymptote"`
	AvoidLog          bool      `json:"avoid_log"`
	ScaleFactors      []float64 `json:"scale_factors"`
	ExpectationValues []float64 `json:"expectation_values"`
	WantLimit         float64   `json:"want_limit"`
	Tol               float64   `json:"tol"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: zne/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from zne/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with absolute tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if diff := math.Abs(want - got); diff > tol {
		t.Errorf("%s: got %v, want %v (diff=%v, tol=%v)", name, got, want, diff, tol)
	}
}

// AssertAllClose compares two float64 slices element-wise with absolute
// tolerance.
func AssertAllClose(t *testing.T, name string, want, got []float64, tol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: got %d values, want %d", name, len(got), len(want))
	}
	for i := range want {
		if diff := math.Abs(want[i] - got[i]); diff > tol {
			t.Errorf("%s[%d]: got %v, want %v (diff=%v, tol=%v)", name, i, got[i], want[i], diff, tol)
		}
	}
}
