package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"wrapped-tools/internal/classify"
	"wrapped-tools/internal/enao"
	"wrapped-tools/internal/ollama"
	"wrapped-tools/internal/store"
)

type ClassifyConfig struct {
	DbPath      string
	Target      string
	Force       bool
	RequestGap  time.Duration
	OllamaHost  string
	OllamaModel string
	Genres      []string
}

// Classification targets.
const (
	targetArtists   = "artists"
	targetSubgenres = "subgenres"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classifies music into fundamental genres using a local LLM",
	Long: `Sends each subject to the configured Ollama model and caches the genre it
picks from the configured fundamental genre list.

With --target artists (the default), classifies every artist in the imported
library. With --target subgenres, classifies the everynoise.com sub-genre
list instead, as a reusable sub-genre map.`,
	Run: func(cmd *cobra.Command, args []string) {
		gap, err := time.ParseDuration(classifyRate)
		if err != nil {
			fmt.Printf("Invalid rate: %v. Using default 1s.\n", err)
			gap = time.Second
		}

		config := ClassifyConfig{
			DbPath:      viper.GetString("database"),
			Target:      classifyTarget,
			Force:       classifyForce,
			RequestGap:  gap,
			OllamaHost:  viper.GetString("ollama_host"),
			OllamaModel: viper.GetString("ollama_model"),
			Genres:      configuredGenres(),
		}

		err = classifyGenres(config, os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var classifyTarget string
var classifyForce bool
var classifyRate string

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyTarget, "target", targetArtists, "What to classify: artists or subgenres")
	classifyCmd.Flags().BoolVarP(&classifyForce, "force", "f", false, "Reclassify subjects that already have a cached genre")
	classifyCmd.Flags().StringVar(&classifyRate, "rate", "1s", "Minimum time between LLM requests (e.g. 500ms)")
}

func classifyGenres(config ClassifyConfig, out io.Writer) error {
	var kind string
	var promptKind classify.Kind
	switch config.Target {
	case targetArtists:
		kind = store.KindArtist
		promptKind = classify.KindArtist
	case targetSubgenres:
		kind = store.KindSubgenre
		promptKind = classify.KindSubgenre
	default:
		return fmt.Errorf("invalid --target %q: use %s or %s", config.Target, targetArtists, targetSubgenres)
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	llm := ollama.New(config.OllamaHost, config.OllamaModel)
	if err := llm.Ping(ctx); err != nil {
		return fmt.Errorf("is ollama running? %w", err)
	}

	subjects, err := listSubjects(ctx, db, config.Target)
	if err != nil {
		return err
	}

	if config.Force {
		if err := db.ClearGenres(kind); err != nil {
			return err
		}
	}
	cached, err := db.CachedSubjects(kind)
	if err != nil {
		return err
	}

	var pending []string
	for _, subject := range subjects {
		if !cached[strings.ToLower(subject)] {
			pending = append(pending, subject)
		}
	}
	fmt.Fprintf(out, "Classifying %d of %d %s (%d cached)\n",
		len(pending), len(subjects), config.Target, len(subjects)-len(pending))

	classifier := classify.New(llm, config.Genres)
	limiter := rate.NewLimiter(rate.Every(config.RequestGap), 1)
	failures := 0
	for i, subject := range pending {
		limiter.Wait(ctx)

		assignment, err := classifier.Classify(ctx, promptKind, subject)
		if errors.Is(err, classify.ErrExhausted) {
			failures++
			fmt.Fprintf(out, "[%d/%d] %s -> %s\n", i+1, len(pending), subject, color.RedString("ERROR"))
			if err := db.SaveGenre(subject, kind, "", "", llm.Model(), time.Now()); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "[%d/%d] %s -> %s (%s)\n",
			i+1, len(pending), subject, color.GreenString(assignment.Genre), assignment.Reason)
		if err := db.SaveGenre(subject, kind, assignment.Genre, assignment.Reason, llm.Model(), time.Now()); err != nil {
			return err
		}
	}

	if failures > 0 {
		fmt.Fprintf(out, "Done, %d subjects could not be classified\n", failures)
	}
	return nil
}

func listSubjects(ctx context.Context, db *store.Store, target string) ([]string, error) {
	if target == targetArtists {
		artists, err := db.DistinctArtists()
		if err != nil {
			return nil, err
		}
		if len(artists) == 0 {
			return nil, fmt.Errorf("no artists in database - run import first")
		}
		return artists, nil
	}

	genres, err := enao.FetchGenres(ctx, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("fetching sub-genre list: %w", err)
	}
	return genres, nil
}
