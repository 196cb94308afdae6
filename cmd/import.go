package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wrapped-tools/internal/history"
	"wrapped-tools/internal/store"
)

type ImportConfig struct {
	DbPath  string
	DataDir string
	Force   bool
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a streaming history export",
	Long: `Reads the JSON files of an extended streaming history export and stores
the listening data in a local SQLite database. Unchanged exports are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ImportConfig{
			DbPath:  viper.GetString("database"),
			DataDir: viper.GetString("data_dir"),
			Force:   importForce,
		}

		err := importHistory(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var importForce bool

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "Import even if the export directory is unchanged")
}

func importHistory(config ImportConfig) error {
	if config.DataDir == "" {
		return fmt.Errorf("--data-dir is required")
	}

	dirHash, err := history.HashDirectory(config.DataDir)
	if err != nil {
		return fmt.Errorf("hashing export directory: %w", err)
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	lastHash, err := db.LastImportHash()
	if err != nil {
		return err
	}
	if lastHash == dirHash && !config.Force {
		fmt.Println("Export directory is unchanged, nothing to import")
		return nil
	}

	spans, err := history.LoadDirectory(config.DataDir)
	if err != nil {
		return fmt.Errorf("loading export: %w", err)
	}
	valid := history.Filter(spans)
	fmt.Printf("Total spans: %d, valid spans: %d (filtered out %d)\n",
		len(spans), len(valid), len(spans)-len(valid))

	tracks := make(map[string]store.Track)
	streams := make([]store.Stream, 0, len(valid))
	for _, span := range valid {
		id := span.TrackID()
		tracks[id] = store.Track{
			ID:     id,
			Name:   *span.TrackName,
			Artist: *span.ArtistName,
			Album:  *span.AlbumName,
		}
		streams = append(streams, store.Stream{
			Timestamp: span.Timestamp,
			TrackID:   id,
			MsPlayed:  span.MsPlayed,
		})
	}

	trackList := make([]store.Track, 0, len(tracks))
	for _, t := range tracks {
		trackList = append(trackList, t)
	}

	if err := db.ReplaceHistory(trackList, streams); err != nil {
		return fmt.Errorf("importing history: %w", err)
	}
	if err := db.RecordImport(dirHash, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Imported %d streams across %d tracks\n", len(streams), len(trackList))
	return nil
}
