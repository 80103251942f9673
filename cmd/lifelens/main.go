package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalstat/lifelens/config"
	"github.com/vitalstat/lifelens/dataset"
	"github.com/vitalstat/lifelens/logger"
	"github.com/vitalstat/lifelens/server"
)

var (
	configFile string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lifelens",
	Short: "Interactive life-expectancy explorer",
	Long: `lifelens serves an interactive exploration interface over a
life-expectancy dataset. Each connected client gets a private reactive
session: country and year-range inputs drive a filtered view rendered
as a line plot, a boxplot summary, and a data table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		return err
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yml")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "path to the wide-form CSV (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(filterCmd)
}

var datasetPath string

// loadTable loads the dataset up front. Any load failure surfaces
// here, before a single session or signal exists.
func loadTable() (*dataset.Wide, error) {
	path := cfg.Dataset
	if datasetPath != "" {
		path = datasetPath
	}
	w, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return w, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exploration interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, "lifelens")

		table, err := loadTable()
		if err != nil {
			return err
		}
		log.Info().
			Int("countries", len(table.Countries)).
			Int("years", len(table.Years)).
			Msg("dataset loaded")

		return server.New(table, log).Run(cfg.Addr)
	},
}
