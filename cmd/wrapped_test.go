package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"wrapped-tools/internal/store"
)

func setupWrappedDb(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer s.Close()

	tracks := []store.Track{
		{ID: "t1", Name: "Anthem", Artist: "Loud Band", Album: "First"},
	}
	streams := []store.Stream{
		{Timestamp: time.Date(2023, 5, 1, 18, 0, 0, 0, time.UTC), TrackID: "t1", MsPlayed: 180000},
		{Timestamp: time.Date(2023, 5, 2, 18, 0, 0, 0, time.UTC), TrackID: "t1", MsPlayed: 180000},
	}
	if err := s.ReplaceHistory(tracks, streams); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}
	if err := s.SaveGenre("Loud Band", store.KindArtist, "rock", "guitars", "llama3.2", time.Now()); err != nil {
		t.Fatalf("SaveGenre: %v", err)
	}

	viper.Set("database", dbPath)
	t.Cleanup(func() { viper.Set("database", "") })
}

func TestRunWrapped(t *testing.T) {
	setupWrappedDb(t)

	var out bytes.Buffer
	if err := runWrapped([]string{"2023"}, &out); err != nil {
		t.Fatalf("runWrapped: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"total_streams: 2",
		"Loud Band",
		"genre: rock",
		"period: 2023-01-01 to 2024-01-01",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}

func TestRunWrappedBadYear(t *testing.T) {
	if err := runWrapped([]string{"20x3"}, &bytes.Buffer{}); err == nil {
		t.Fatal("Expected error for invalid year")
	}
}

func TestYearFromArgs(t *testing.T) {
	year, err := yearFromArgs(nil)
	if err != nil {
		t.Fatalf("yearFromArgs: %v", err)
	}
	if year != time.Now().Year() {
		t.Errorf("Expected current year, got %d", year)
	}

	year, err = yearFromArgs([]string{"2021"})
	if err != nil {
		t.Fatalf("yearFromArgs: %v", err)
	}
	if year != 2021 {
		t.Errorf("Expected 2021, got %d", year)
	}

	if _, err := yearFromArgs([]string{"99"}); err == nil {
		t.Error("Expected error for short year")
	}
}
