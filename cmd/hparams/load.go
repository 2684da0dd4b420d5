package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/born-ml/hparams/hparams"
	"github.com/born-ml/hparams/nn"
	"github.com/born-ml/hparams/optim"
)

// quadraticStart is the starting point for --steps. The minimum is the origin.
var quadraticStart = []float32{3, -2, 1}

func newLoadCmd() *cobra.Command {
	var (
		steps     int
		trustCore bool
		loadState string
		saveState string
	)

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load an optimizer from a YAML file and print its hyperparameters",
		Long: `Load parses the document, resolves opt_method and constructs the optimizer
with opt_params. With --steps N it then minimizes f(x) = sum(x^2) from
(3, -2, 1) for N steps and prints the final loss. --load-state resumes the
optimizer state from a previous --save-state file before stepping.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must be >= 0, got %d", steps)
			}

			trust := hparams.TrustSafe
			if trustCore {
				trust = hparams.TrustCore
			}
			loader := hparams.New(
				hparams.WithLogger(slog.Default()),
				hparams.WithTrust(trust),
			)

			optimizer, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			printOptimizer(cmd, optimizer)

			x := nn.NewParameter("x", slices.Clone(quadraticStart))
			params := []*nn.Parameter{x}

			if loadState != "" {
				if err := optim.LoadState(loadState, optimizer, params); err != nil {
					return err
				}
				slog.Info("restored optimizer state", "path", loadState)
			}

			if steps > 0 {
				loss := minimizeQuadratic(optimizer, x, steps)
				fmt.Fprintf(cmd.OutOrStdout(), "loss after %d steps: %.6g\n", steps, loss)
			}

			if saveState != "" {
				if err := optim.SaveState(saveState, optimizer); err != nil {
					return err
				}
				slog.Info("saved optimizer state", "path", saveState)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "Run N optimization steps on f(x) = sum(x^2)")
	cmd.Flags().BoolVar(&trustCore, "trust-core", false, "Accept any YAML tag the decoder understands")
	cmd.Flags().StringVar(&loadState, "load-state", "", "Restore optimizer state from this file before stepping")
	cmd.Flags().StringVar(&saveState, "save-state", "", "Write optimizer state to this file after stepping")
	return cmd
}

func printOptimizer(cmd *cobra.Command, optimizer optim.Optimizer) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "optimizer: %s\n", optimizer.Name())

	hp := optimizer.Hyperparams()
	for _, key := range slices.Sorted(maps.Keys(hp)) {
		fmt.Fprintf(out, "  %s: %v\n", key, hp[key])
	}
}

// minimizeQuadratic runs steps updates of x on f(x) = sum(x^2) and returns f at the end.
func minimizeQuadratic(optimizer optim.Optimizer, x *nn.Parameter, steps int) float64 {
	params := []*nn.Parameter{x}

	for step := range steps {
		grad := make([]float32, x.Len())
		for i, v := range x.Data() {
			grad[i] = 2 * v
		}
		if err := x.SetGrad(grad); err != nil {
			panic(err) // same length by construction
		}
		optimizer.Step(params)
		optimizer.ZeroGrad(params)

		slog.Debug("step", "step", step+1, "loss", quadratic(x.Data()))
	}
	return quadratic(x.Data())
}

func quadratic(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return sum
}
