package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hearthfield/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Gather, craft and research your way from rocks to bread",
	Long: `hearth runs the hearthfield game engine.

Play interactively in the terminal, serve the JSON API, or inspect the
resource and technology catalog.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./hearth.yaml if present)")
	pf.Int64("seed", 0, "random seed, 0 seeds from the clock")
	pf.String("catalog", "", "YAML catalog file, empty uses the built-in one")
	pf.String("journal", "", "journal driver: memory, postgres or sqlite")
	pf.String("journal-dsn", "", "journal DSN or sqlite file path")
	pf.String("log-level", "", "log level")
}

// loadConfig layers the persistent flags that were set on the command line
// over file and environment settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd, map[string]string{
		"seed":        "game.seed",
		"catalog":     "game.catalog",
		"journal":     "journal.driver",
		"journal-dsn": "journal.dsn",
		"log-level":   "log.level",
		"addr":        "http.addr",
	}); err != nil {
		return config.Config{}, err
	}
	return config.Decode(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
