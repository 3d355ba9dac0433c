package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/config"
)

// app carries state shared by all subcommands.
type app struct {
	v        *viper.Viper
	cfgPath  string
	cfg      *config.Config
	logger   *slog.Logger
	registry *analysis.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:        viper.New(),
		registry: analysis.NewRegistry(),
	}

	root := &cobra.Command{
		Use:           "gotokenize",
		Short:         "Split text into whitespace-delimited tokens with offsets and positions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgPath, a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			slog.SetDefault(a.logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (YAML)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "json", "log format: json, text")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(
		newTokenizeCmd(a),
		newTokenizersCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("gotokenize %s\n", Version)
		},
	}
}
