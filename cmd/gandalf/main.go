package main

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/gandalf/internal/config"
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/driver"
	"github.com/san-kum/gandalf/internal/ic"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	variant    string
	wallClock  time.Duration
	snapDir    string
)

// main registers the run and scenario commands and executes the
// root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gandalf",
		Short: "SPH + N-body astrophysics simulator",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().DurationVar(&wallClock, "wallclock", 0, "wall-clock deadline (0 falls back to the config's tmax_wallclock)")
	rootCmd.PersistentFlags().StringVar(&snapDir, "snapdir", "", "override snapshot output directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a named scenario to completion",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&variant, "variant", "standard", "preset variant")

	scenarioCmd := &cobra.Command{
		Use:   "scenario",
		Short: "list available scenario presets",
		RunE:  listScenarios,
	}

	rootCmd.AddCommand(runCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	name := args[0]

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(name, variant)
		if cfg == nil {
			return fmt.Errorf("unknown scenario/variant: %s/%s (run `gandalf scenario` to list)", name, variant)
		}
	}
	if snapDir != "" {
		cfg.Snapshot.Dir = snapDir
	}
	if cfg.Snapshot.Dir != "" {
		if err := os.MkdirAll(cfg.Snapshot.Dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	if wallClock == 0 && cfg.Time.TmaxWallclock > 0 {
		wallClock = time.Duration(cfg.Time.TmaxWallclock * float64(time.Second))
	}
	ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, wallClock)
	if err != nil {
		return fmt.Errorf("new context: %w", err)
	}

	gas, stars := ic.Build(cfg)
	ml := driver.New(ctx, cfg, gas, stars)

	if err := ml.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	fmt.Printf("%s/%s complete: t=%.4f step=%d\n", name, variant, ml.T, ml.Step)
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	for _, name := range []string{
		"sod_shocktube", "jeans_instability", "plummer_cluster",
		"binary_orbit", "sink_accretion", "nn_system_tree_example",
	} {
		variants := config.ListPresets(name)
		fmt.Printf("%s: %v\n", name, variants)
	}
	return nil
}
