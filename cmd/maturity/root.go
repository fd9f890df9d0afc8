package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/maturity"
	"github.com/aretw0/maturity/internal/config"
	"github.com/aretw0/maturity/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "maturity",
	Short: "Maturity runs branching self-assessment questionnaires",
	Long: `Maturity loads a questionnaire (a JSON, YAML or TOML document, or a directory of
markdown files), walks respondents through it and scores the answers per pillar
with levels and prioritized recommendations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		level, _ := logging.ParseLevel(loaded.Log.Level)
		cfg = loaded
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), level, loaded.Log.Format)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	v = config.New()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./maturity.{yaml,json,toml})")
	flags.StringP("questionnaire", "q", "", "Questionnaire document or directory")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("store", "memory", "Session store backend (memory, file, redis)")

	_ = v.BindPFlag("questionnaire", flags.Lookup("questionnaire"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindPFlag("store.backend", flags.Lookup("store"))
}

// questionnairePath prefers the positional argument over the configured path.
func questionnairePath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg != nil && cfg.Questionnaire != "" {
		return cfg.Questionnaire, nil
	}
	return "", errors.New("no questionnaire given: pass a path or set --questionnaire")
}

// loadEngine builds the facade with the configured logger.
func loadEngine(args []string, opts ...maturity.Option) (*maturity.Engine, error) {
	path, err := questionnairePath(args)
	if err != nil {
		return nil, err
	}
	engine, err := maturity.New(path, append([]maturity.Option{maturity.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire %s: %w", path, err)
	}
	logger.Debug("questionnaire loaded", "path", path)
	return engine, nil
}
