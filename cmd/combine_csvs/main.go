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

	var sourceDir, outFile string
	cmd := &cobra.Command{
		Use:   "combine_csvs",
		Short: "Combine every barber CSV into a single JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			combiner := aggregate.NewCombiner(cfg.ReportSuffix, logger)
			doc, err := combiner.Run(sourceDir, outFile)
			if err != nil {
				return err
			}
			fmt.Printf("Combined %d barbers from '%s' into '%s'\n", len(doc.Teams), sourceDir, outFile)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&sourceDir, "dir", cfg.BarbersDir, "directory holding the barber CSV files")
	cmd.Flags().StringVar(&outFile, "out", cfg.CombinedFile, "path of the combined JSON document")

	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("Combine failed")
		os.Exit(1)
	}
}
