package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	zne "github.com/zne-sim/zne-sim/zne"
)

var (
	// CLI flags for the extrapolate command
	inputPath string  // Path to the YAML measurement dataset
	modelName string  // Extrapolation model to fit
	order     int     // Polynomial / exponent order (poly and poly-exp models)
	asymptote float64 // Known infinite-noise limit (exp models); NaN means unknown
	avoidLog  bool    // Skip the log linearization even when the asymptote is known
	logLevel  string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "zne-sim",
	Short: "Zero-noise extrapolation post-processing toolkit",
}

// buildModel maps a model name from the CLI to an extrapolation model.
func buildModel(name string) (zne.ExtrapolationModel, error) {
	var asym *float64
	if !math.IsNaN(asymptote) {
		a := asymptote
		asym = &a
	}

	switch name {
	case "linear":
		return zne.LinearModel{}, nil
	case "richardson":
		return zne.RichardsonModel{}, nil
	case "fake-nodes":
		return zne.FakeNodesModel{}, nil
	case "poly":
		return zne.PolyModel{Order: order}, nil
	case "exp":
		return zne.ExpModel{Asymptote: asym, AvoidLog: avoidLog}, nil
	case "poly-exp":
		return zne.PolyExpModel{Order: order, Asymptote: asym, AvoidLog: avoidLog}, nil
	case "bayes-exp":
		return zne.BayesExpModel{}, nil
	}
	return nil, fmt.Errorf("unknown extrapolation model: %s", name)
}

// extrapolateCmd fits a model to a measured dataset and reports the
// zero-noise limit
var extrapolateCmd = &cobra.Command{
	Use:   "extrapolate",
	Short: "Extrapolate a measured dataset to the zero-noise limit",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		ds, err := LoadDataset(inputPath)
		if err != nil {
			logrus.Fatalf("Could not load dataset: %v", err)
		}

		model, err := buildModel(modelName)
		if err != nil {
			logrus.Fatalf("Could not build model: %v", err)
		}

		logrus.Infof("Extrapolating %d data points with the %s model", len(ds.ScaleFactors), modelName)

		res, err := model.Extrapolate(ds.ScaleFactors, ds.ExpectationValues)
		if err != nil {
			logrus.Fatalf("Extrapolation failed: %v", err)
		}

		for _, w := range res.Warnings {
			logrus.Warnf("[%s] %s", w.Kind, w.Message)
		}

		fmt.Printf("zero-noise limit: %v\n", res.Limit)
		if !math.IsNaN(res.LimitErr) {
			fmt.Printf("limit uncertainty: %v\n", res.LimitErr)
		}
		fmt.Printf("model parameters: %v\n", res.Params)
	},
}

func init() {
	extrapolateCmd.Flags().StringVar(&inputPath, "input", "dataset.yaml", "Path to the YAML measurement dataset")
	extrapolateCmd.Flags().StringVar(&modelName, "model", "richardson", "Extrapolation model: linear, richardson, fake-nodes, poly, exp, poly-exp, bayes-exp")
	extrapolateCmd.Flags().IntVar(&order, "order", 1, "Polynomial or exponent order (poly and poly-exp models)")
	extrapolateCmd.Flags().Float64Var(&asymptote, "asymptote", math.NaN(), "Known infinite-noise limit (exp models); omit when unknown")
	extrapolateCmd.Flags().BoolVar(&avoidLog, "avoid-log", false, "Skip the log linearization even when the asymptote is known")
	extrapolateCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log verbosity: debug, info, warn, error")

	rootCmd.AddCommand(extrapolateCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
