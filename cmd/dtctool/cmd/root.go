package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/roffe/godtc/pkg/config"
	"github.com/roffe/godtc/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "dtctool",
	Short:             "OBD-II trouble code decoder",
	Long:              `Decode mode 03/07/0A diagnostic trouble codes from captured adapter responses`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfg    = config.Default()
	logger = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagNoColor = "no-color"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(flagConfig, "", "config file (default "+config.DefaultPath()+")")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.Bool(flagNoColor, false, "disable colored output")
}

func setup(cmd *cobra.Command, _ []string) error {
	pf := cmd.Flags()

	path, err := pf.GetString(flagConfig)
	if err != nil {
		return err
	}
	optional := path == ""
	if optional {
		path = config.DefaultPath()
	}
	if cfg, err = config.Load(path, optional); err != nil {
		return err
	}

	if noColor, _ := pf.GetBool(flagNoColor); noColor {
		cfg.Color = false
	}
	if !cfg.Color {
		color.NoColor = true
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = zerolog.InfoLevel
	}
	if debug, _ := pf.GetBool(flagDebug); debug {
		level = zerolog.DebugLevel
	}
	logger = logging.New(os.Stderr, logging.Config{
		Level:   level,
		NoColor: !cfg.Color,
	})
	if !ok {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
	}
	return nil
}
