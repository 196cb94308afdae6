package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var topTracksNumber int
var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [from] [to (optional)]",
	Short: "Gets your top tracks",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopTracks(topTracksNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", 10, "number of results to return")
}

func printTopTracks(numToReturn int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := db.TopTracks(start, end, numToReturn)
	if err != nil {
		return err
	}

	analysis := Analysis{results: [][]string{{"Track", "Artist", "Streams", "Minutes"}}}
	for _, t := range tracks {
		analysis.results = append(analysis.results, []string{
			t.Name,
			t.Artist,
			strconv.FormatInt(t.Streams, 10),
			strconv.FormatInt(t.MsPlayed/60000, 10),
		})
	}

	const dateFormat = "2006-01-02"
	analysis.summary = fmt.Sprintf("Top tracks from %s to %s\n",
		start.Format(dateFormat), end.Format(dateFormat))

	fmt.Println(analysis)
	return nil
}
