package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var topGenresNumber int
var topGenresCmd = &cobra.Command{
	Use:   "top-genres [from] [to (optional)]",
	Short: "Gets your top genres",
	Long: `Aggregates listening by the cached artist genre classifications. Run
'classify' first; artists without a classification count as 'unclassified'.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopGenres(topGenresNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topGenresCmd)

	topGenresCmd.Flags().IntVarP(&topGenresNumber, "number", "n", 0, "number of results to return (0 for all)")
}

func printTopGenres(numToReturn int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	genres, err := db.TopGenres(start, end, numToReturn)
	if err != nil {
		return err
	}

	var totalMs int64
	for _, g := range genres {
		totalMs += g.MsPlayed
	}

	analysis := Analysis{results: [][]string{{"Genre", "Streams", "Minutes", "Share"}}}
	for _, g := range genres {
		share := ""
		if totalMs > 0 {
			share = fmt.Sprintf("%.1f%%", float64(g.MsPlayed)/float64(totalMs)*100)
		}
		analysis.results = append(analysis.results, []string{
			g.Genre,
			strconv.FormatInt(g.Streams, 10),
			strconv.FormatInt(g.MsPlayed/60000, 10),
			share,
		})
	}

	const dateFormat = "2006-01-02"
	analysis.summary = fmt.Sprintf("Top genres from %s to %s\n",
		start.Format(dateFormat), end.Format(dateFormat))

	fmt.Println(analysis)
	return nil
}
