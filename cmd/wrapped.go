package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wrapped-tools/internal/analysis"
	"wrapped-tools/internal/store"
)

var wrappedCmd = &cobra.Command{
	Use:   "wrapped [year]",
	Short: "Generates a year-in-review report",
	Long: `Analyzes the imported listening history for the given year (default: the
current year) and writes a YAML report: totals, top artists and tracks, genre
breakdown, listening clock, monthly minutes, streaks, and discoveries.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runWrapped(args, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(wrappedCmd)
}

func runWrapped(args []string, out io.Writer) error {
	year, err := yearFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := generateWrapped(db, year)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}

func generateWrapped(db *store.Store, year int) (*analysis.Report, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	report, err := analysis.GenerateReport(db, start, end)
	if err != nil {
		return nil, fmt.Errorf("analyzing data: %w", err)
	}
	return report, nil
}

func yearFromArgs(args []string) (int, error) {
	if len(args) == 0 {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", args[0])
	}
	return year, nil
}
