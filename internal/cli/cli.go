// Package cli builds firestarr's command tree: layered flag/env/config
// configuration the way spatialmodel/inmap's inmaputil package does, using
// the same lnashier/viper fork and a cobra.Command tree built from a
// declarative options table (spec.md section 6).
package cli

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg wraps a *viper.Viper the way inmaputil.Cfg does, tracking which
// configuration keys name input/output files for validation and for the
// debug status endpoint's file-existence checks.
type Cfg struct {
	*viper.Viper

	inputFiles  []string
	outputFiles []string

	Root       *cobra.Command
	runCmd     *cobra.Command
	versionCmd *cobra.Command
	validateCmd *cobra.Command
}

// InputFiles returns the configuration keys that name input files.
func (c *Cfg) InputFiles() []string { return c.inputFiles }

// OutputFiles returns the configuration keys that name output files.
func (c *Cfg) OutputFiles() []string { return c.outputFiles }

// Version is set at build time via -ldflags.
var Version = "dev"

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
	isInputFile            bool
	isOutputFile           bool
}

// InitializeConfig builds the command tree and registers every flag
// firestarr accepts, following inmaputil.InitializeConfig's declarative
// options-table pattern: one table entry per flag, looped once to create
// the pflag and once more (PersistentPreRunE) to load a config file before
// any command body runs.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "firestarr",
		Short: "A Monte Carlo wildland fire growth simulator.",
		Long: `firestarr simulates wildland fire spread from an ignition point or an
initial perimeter, running many stochastic scenarios until the fire-size
statistics converge or a deadline is reached, and writes per-save-time
probability, occurrence, and intensity rasters.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return readConfigFile(cfg)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("firestarr v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run <output_dir> <YYYY-MM-DD> <lat> <lon> <HH:MM>",
		Short: "Run a fire growth simulation.",
		Args:  cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cfg, args)
		},
	}

	cfg.validateCmd = &cobra.Command{
		Use:   "validate <output_dir> <YYYY-MM-DD> <lat> <lon> <HH:MM>",
		Short: "Validate inputs and configuration without running any scenarios.",
		Args:  cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadRunConfig(cfg, args)
			return err
		},
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.runCmd, cfg.validateCmd)

	options := []option{
		{name: "config", usage: "path to a TOML/YAML/JSON configuration file.", isInputFile: true,
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.Root.PersistentFlags()}},
		{name: "wx", usage: "weather CSV file (Scenario,Date,PREC,TEMP,RH,WS,WD).", isInputFile: true,
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "ffmc", usage: "startup (yesterday noon) FFMC.",
			defaultVal: 85.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "dmc", usage: "startup (yesterday noon) DMC.",
			defaultVal: 6.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "dc", usage: "startup (yesterday noon) DC.",
			defaultVal: 15.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "apcp_prev", usage: "yesterday's 24-hour precipitation, mm; accepted but not used by the startup index calculation.",
			defaultVal: 0.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "tz", usage: "time zone offset from UTC, in hours.",
			defaultVal: 0.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "perim", usage: "optional initial perimeter raster or shapefile.", isInputFile: true,
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "size", usage: "ignition fire size, hectares (informational; actual spread is simulated).",
			defaultVal: 0.0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "deterministic", usage: "disable all stochastic draws (extinction and spread thresholds).",
			defaultVal: false, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "confidence", usage: "confidence level the stopping rule targets (0..1).",
			defaultVal: 0.95, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "no-intensity", usage: "skip writing intensity band rasters.",
			defaultVal: false, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "no-probability", usage: "skip writing the probability raster.",
			defaultVal: false, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "occurrence", usage: "write the occurrence (burned-at-all) raster.",
			defaultVal: false, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "sim-area", usage: "maximum simulation count, 0 for unbounded.",
			defaultVal: 0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "maximum-time-seconds", usage: "wall-clock deadline, in seconds, 0 for unbounded.",
			defaultVal: 0, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "output_date_offsets", usage: "comma-separated day offsets (from start date) at which to save output.",
			defaultVal: "1", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "raster-root", usage: "directory containing fuel.tif/fuel.tfw, slope.tif, aspect.tif.", isInputFile: true,
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "fuel-lut", usage: "fuel lookup table CSV (grid_value,export_value,descriptive_name,fuel_type).", isInputFile: true,
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.validateCmd.Flags()}},
		{name: "synchronous", shorthand: "s", usage: "run scenarios one at a time instead of a worker pool.",
			defaultVal: false, flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
		{name: "debug-addr", usage: "address for the optional debug status HTTP endpoint, empty to disable.",
			defaultVal: "", flagsets: []*pflag.FlagSet{cfg.runCmd.Flags()}},
	}

	cfg.SetEnvPrefix("FIRESTARR")
	for _, o := range options {
		if o.isInputFile {
			cfg.inputFiles = append(cfg.inputFiles, o.name)
		}
		if o.isOutputFile {
			cfg.outputFiles = append(cfg.outputFiles, o.name)
		}
		for i, set := range o.flagsets {
			if i != 0 {
				set.AddFlag(o.flagsets[0].Lookup(o.name))
				continue
			}
			addFlag(set, o)
			cfg.BindPFlag(o.name, set.Lookup(o.name))
		}
	}

	return cfg
}

func addFlag(set *pflag.FlagSet, o option) {
	switch v := o.defaultVal.(type) {
	case string:
		if o.shorthand == "" {
			set.String(o.name, v, o.usage)
		} else {
			set.StringP(o.name, o.shorthand, v, o.usage)
		}
	case bool:
		if o.shorthand == "" {
			set.Bool(o.name, v, o.usage)
		} else {
			set.BoolP(o.name, o.shorthand, v, o.usage)
		}
	case int:
		set.Int(o.name, v, o.usage)
	case float64:
		set.Float64(o.name, v, o.usage)
	default:
		panic(fmt.Errorf("firestarr: invalid default flag value type %T for %q", o.defaultVal, o.name))
	}
}

// readConfigFile loads the --config file, if set, before any command body
// runs (matches inmaputil's setConfig PersistentPreRunE hook).
func readConfigFile(cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("firestarr: reading configuration file: %w", err)
	}
	return nil
}

// Execute runs the command tree, returning the same error cobra would
// print, for cmd/firestarr/main.go to translate into an exit code.
func Execute(cfg *Cfg) error {
	return cfg.Root.Execute()
}
