package analysis

import (
	"path/filepath"
	"testing"
	"time"

	"wrapped-tools/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want Streak
	}{
		{
			name: "empty",
			days: nil,
			want: Streak{},
		},
		{
			name: "single day",
			days: []string{"2023-03-01"},
			want: Streak{Days: 1, Start: "2023-03-01", End: "2023-03-01"},
		},
		{
			name: "run at the end",
			days: []string{"2023-03-01", "2023-03-05", "2023-03-06", "2023-03-07"},
			want: Streak{Days: 3, Start: "2023-03-05", End: "2023-03-07"},
		},
		{
			name: "run at the start",
			days: []string{"2023-03-01", "2023-03-02", "2023-03-09"},
			want: Streak{Days: 2, Start: "2023-03-01", End: "2023-03-02"},
		},
		{
			name: "ties keep the first run",
			days: []string{"2023-03-01", "2023-03-02", "2023-03-08", "2023-03-09"},
			want: Streak{Days: 2, Start: "2023-03-01", End: "2023-03-02"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var days []time.Time
			for _, d := range tc.days {
				days = append(days, day(d))
			}
			got := longestStreak(days)
			if got != tc.want {
				t.Errorf("longestStreak() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPeakHour(t *testing.T) {
	var hours [24]int64
	if got := peakHour(hours); got != 0 {
		t.Errorf("peakHour(empty) = %d, want 0", got)
	}

	hours[8] = 10
	hours[22] = 30
	if got := peakHour(hours); got != 22 {
		t.Errorf("peakHour() = %d, want 22", got)
	}
}

func TestGenreStats(t *testing.T) {
	genres := []store.GenreCount{
		{Genre: "rock", Streams: 6, MsPlayed: 600000},
		{Genre: "pop", Streams: 4, MsPlayed: 400000},
	}

	stats := genreStats(genres, 1000000)
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stats, got %d", len(stats))
	}
	if stats[0].Share != 0.6 {
		t.Errorf("Expected rock share 0.6, got %v", stats[0].Share)
	}
	if stats[0].Minutes != 10 {
		t.Errorf("Expected 10 minutes, got %d", stats[0].Minutes)
	}

	// No division by zero on an empty period.
	stats = genreStats(genres, 0)
	if stats[0].Share != 0 {
		t.Errorf("Expected zero share, got %v", stats[0].Share)
	}
}

func TestGenerateReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer s.Close()

	tracks := []store.Track{
		{ID: "t1", Name: "Anthem", Artist: "Loud Band", Album: "First"},
		{ID: "t2", Name: "Beat", Artist: "DJ Quiet", Album: "Club"},
	}
	var streams []store.Stream
	for i := 0; i < 5; i++ {
		streams = append(streams, store.Stream{
			Timestamp: time.Date(2023, 1, 10+i, 20, 0, 0, 0, time.UTC),
			TrackID:   "t1",
			MsPlayed:  180000,
		})
	}
	streams = append(streams, store.Stream{
		Timestamp: time.Date(2023, 7, 1, 9, 0, 0, 0, time.UTC),
		TrackID:   "t2",
		MsPlayed:  240000,
	})
	if err := s.ReplaceHistory(tracks, streams); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}
	if err := s.SaveGenre("Loud Band", store.KindArtist, "rock", "", "llama3.2", time.Now()); err != nil {
		t.Fatalf("SaveGenre: %v", err)
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := GenerateReport(s, start, start.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.Metadata.TotalStreams != 6 {
		t.Errorf("Expected 6 streams, got %d", report.Metadata.TotalStreams)
	}
	if report.Metadata.TotalMinutes != 5*3+4 {
		t.Errorf("Expected 19 minutes, got %d", report.Metadata.TotalMinutes)
	}
	if report.Metadata.DistinctArtists != 2 {
		t.Errorf("Expected 2 artists, got %d", report.Metadata.DistinctArtists)
	}

	if len(report.TopArtists) != 2 || report.TopArtists[0].Name != "Loud Band" {
		t.Fatalf("Unexpected top artists: %+v", report.TopArtists)
	}
	if report.TopArtists[0].Genre != "rock" {
		t.Errorf("Expected genre rock, got %q", report.TopArtists[0].Genre)
	}

	if report.Clock.PeakHour != 20 {
		t.Errorf("Expected peak hour 20, got %d", report.Clock.PeakHour)
	}
	if report.Streak.Days != 5 {
		t.Errorf("Expected 5 day streak, got %+v", report.Streak)
	}
	if len(report.Months) != 12 || report.Months[0].Minutes != 15 {
		t.Errorf("Unexpected months: %+v", report.Months)
	}
	if len(report.Discoveries) != 2 {
		t.Errorf("Expected both artists as discoveries, got %v", report.Discoveries)
	}

	var unclassified bool
	for _, g := range report.Genres {
		if g.Genre == "unclassified" {
			unclassified = true
		}
	}
	if !unclassified {
		t.Errorf("Expected an unclassified bucket: %+v", report.Genres)
	}
}
