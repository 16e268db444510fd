package main

import (
	"fmt"
	"os"

	"github.com/TheFenixfx/barbertrack/internal/aggregate"
	"github.com/TheFenixfx/barbertrack/internal/config"
	"github.com/TheFenixfx/barbertrack/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	var dataFile, outDir string
	cmd := &cobra.Command{
		Use:   "generate_csvs",
		Short: "Write one CSV per barber from a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			generator := aggregate.NewGenerator(logger)
			written, err := generator.Run(dataFile, outDir)
			if err != nil {
				return err
			}
			fmt.Printf("Generated %d barber CSV files in '%s'\n", written, outDir)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&dataFile, "data", cfg.DataFile, "path of the JSON document to split")
	cmd.Flags().StringVar(&outDir, "out", cfg.BarbersDir, "directory the barber CSV files are written to")

	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("Generate failed")
		os.Exit(1)
	}
}
