package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bitlatte/suspect/internal/config"
)

var cfgFile string
var appConfig config.Config
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "suspect",
	Short: "suspect - a small self-hosted Markdown blog",
	Long: `suspect serves blog posts written as Markdown files with a short
key=value header, rendered through HTML templates. Posts and templates can
be reloaded while the server runs by typing "reload" on its standard input.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	// flags win over the file and the environment
	for _, name := range []string{"addr", "watch"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg, found, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = newLogger(cmd.ErrOrStderr(), cfg.Log)

	if found {
		logger.Debug("using config file", slog.String("file", v.ConfigFileUsed()))
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("app", "suspect"))
}
