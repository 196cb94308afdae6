package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [from] [to (optional)]",
	Short: "Gets artists you heard for the first time",
	Long:  `Lists artists whose first stream falls inside the date range.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printNewArtists(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)
}

func printNewArtists(args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	debuts, err := db.NewArtists(start, end)
	if err != nil {
		return err
	}

	const dateFormat = "2006-01-02"
	analysis := Analysis{results: [][]string{{"Artist", "First stream", "Streams"}}}
	for _, d := range debuts {
		analysis.results = append(analysis.results, []string{
			d.Artist,
			d.First.Format(dateFormat),
			strconv.FormatInt(d.Streams, 10),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d new artists from %s to %s\n",
		len(debuts), start.Format(dateFormat), end.Format(dateFormat))

	fmt.Println(analysis)
	return nil
}
