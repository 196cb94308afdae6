// Package analysis builds the wrapped year-in-review report from the store.
package analysis

import (
	"fmt"
	"math"
	"time"

	"wrapped-tools/internal/store"
)

const dateFormat = "2006-01-02"

// Limits on report list sizes.
const (
	topArtistCount = 10
	topTrackCount  = 10
	discoveryCount = 20
)

// GenerateReport builds the wrapped report for [start, end).
func GenerateReport(s *store.Store, start, end time.Time) (*Report, error) {
	report := &Report{}

	totals, err := s.RangeTotals(start, end)
	if err != nil {
		return nil, fmt.Errorf("summarizing listening: %w", err)
	}
	report.Metadata = Metadata{
		GeneratedDate:   time.Now().Format(dateFormat),
		Period:          fmt.Sprintf("%s to %s", start.Format(dateFormat), end.Format(dateFormat)),
		TotalStreams:    totals.Streams,
		TotalMinutes:    totals.MsPlayed / 60000,
		DistinctArtists: totals.Artists,
		DistinctTracks:  totals.Tracks,
	}

	artists, err := s.TopArtists(start, end, topArtistCount)
	if err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	for _, a := range artists {
		report.TopArtists = append(report.TopArtists, ArtistStat{
			Name:    a.Artist,
			Streams: a.Streams,
			Minutes: a.MsPlayed / 60000,
			Genre:   a.Genre,
		})
	}

	tracks, err := s.TopTracks(start, end, topTrackCount)
	if err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	for _, t := range tracks {
		report.TopTracks = append(report.TopTracks, TrackStat{
			Name:    t.Name,
			Artist:  t.Artist,
			Streams: t.Streams,
			Minutes: t.MsPlayed / 60000,
		})
	}

	genres, err := s.TopGenres(start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("top genres: %w", err)
	}
	report.Genres = genreStats(genres, totals.MsPlayed)

	hours, err := s.StreamsByHour(start, end)
	if err != nil {
		return nil, fmt.Errorf("listening clock: %w", err)
	}
	report.Clock = Clock{Hours: hours, PeakHour: peakHour(hours)}

	months, err := s.MinutesByMonth(start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly minutes: %w", err)
	}
	for i, minutes := range months {
		report.Months = append(report.Months, MonthStat{
			Month:   time.Month(i + 1).String(),
			Minutes: minutes,
		})
	}

	days, err := s.StreamDays(start, end)
	if err != nil {
		return nil, fmt.Errorf("stream days: %w", err)
	}
	report.Streak = longestStreak(days)

	debuts, err := s.NewArtists(start, end)
	if err != nil {
		return nil, fmt.Errorf("discoveries: %w", err)
	}
	for i, d := range debuts {
		if i == discoveryCount {
			break
		}
		report.Discoveries = append(report.Discoveries, d.Artist)
	}

	return report, nil
}

// genreStats converts genre counts into report rows with a share of total
// listening time, rounded to three decimal places.
func genreStats(genres []store.GenreCount, totalMs int64) []GenreStat {
	var out []GenreStat
	for _, g := range genres {
		share := 0.0
		if totalMs > 0 {
			share = math.Round(float64(g.MsPlayed)/float64(totalMs)*1000) / 1000
		}
		out = append(out, GenreStat{
			Genre:   g.Genre,
			Streams: g.Streams,
			Minutes: g.MsPlayed / 60000,
			Share:   share,
		})
	}
	return out
}

// peakHour returns the hour of day with the most streams.
func peakHour(hours [24]int64) int {
	peak := 0
	for hour, count := range hours {
		if count > hours[peak] {
			peak = hour
		}
	}
	return peak
}

// longestStreak finds the longest run of consecutive days in a sorted list
// of distinct days.
func longestStreak(days []time.Time) Streak {
	if len(days) == 0 {
		return Streak{}
	}

	best := Streak{Days: 1, Start: days[0].Format(dateFormat), End: days[0].Format(dateFormat)}
	runStart := 0
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) != 24*time.Hour {
			runStart = i
		}
		length := i - runStart + 1
		if length > best.Days {
			best = Streak{
				Days:  length,
				Start: days[runStart].Format(dateFormat),
				End:   days[i].Format(dateFormat),
			}
		}
	}
	return best
}
