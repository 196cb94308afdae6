package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from] [to (optional)]",
	Short: "Gets your top artists",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(topArtistsNumber, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

func printTopArtists(numToReturn int, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	artists, err := db.TopArtists(start, end, numToReturn)
	if err != nil {
		return err
	}

	analysis := Analysis{results: [][]string{{"Artist", "Streams", "Minutes", "Genre"}}}
	for _, a := range artists {
		analysis.results = append(analysis.results, []string{
			a.Artist,
			strconv.FormatInt(a.Streams, 10),
			strconv.FormatInt(a.MsPlayed/60000, 10),
			a.Genre,
		})
	}

	const dateFormat = "2006-01-02"
	analysis.summary = fmt.Sprintf("Top artists from %s to %s\n",
		start.Format(dateFormat), end.Format(dateFormat))

	fmt.Println(analysis)
	return nil
}
