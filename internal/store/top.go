package store

import (
	"fmt"
	"time"
)

type ArtistCount struct {
	Artist   string
	Streams  int64
	MsPlayed int64
	Genre    string
}

type TrackCount struct {
	Name     string
	Artist   string
	Streams  int64
	MsPlayed int64
}

type GenreCount struct {
	Genre    string
	Streams  int64
	MsPlayed int64
}

type ArtistDebut struct {
	Artist  string
	First   time.Time
	Streams int64
}

type Totals struct {
	Streams  int64
	MsPlayed int64
	Artists  int64
	Tracks   int64
}

// TopArtists returns the most-streamed artists in [start, end), with their
// cached genre when one exists. limit of 0 returns all.
func (s *Store) TopArtists(start, end time.Time, limit int) ([]ArtistCount, error) {
	query := `
		SELECT Track.artist, COUNT(*), SUM(Stream.ms_played),
		       COALESCE(GenreClass.genre, '')
		FROM Stream
		INNER JOIN Track ON Track.id = Stream.track
		LEFT JOIN GenreClass ON GenreClass.subject = lower(Track.artist) AND GenreClass.kind = ?
		WHERE Stream.ms_played >= ? AND Stream.ts >= ? AND Stream.ts < ?
		GROUP BY Track.artist
		ORDER BY COUNT(*) DESC, Track.artist ASC
	`
	rows, err := s.db.Query(query, KindArtist, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var out []ArtistCount
	for rows.Next() {
		var a ArtistCount
		if err := rows.Scan(&a.Artist, &a.Streams, &a.MsPlayed, &a.Genre); err != nil {
			return nil, err
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// TopTracks returns the most-streamed tracks in [start, end).
func (s *Store) TopTracks(start, end time.Time, limit int) ([]TrackCount, error) {
	query := `
		SELECT Track.name, Track.artist, COUNT(*), SUM(Stream.ms_played)
		FROM Stream
		INNER JOIN Track ON Track.id = Stream.track
		WHERE Stream.ms_played >= ? AND Stream.ts >= ? AND Stream.ts < ?
		GROUP BY Track.id
		ORDER BY COUNT(*) DESC, Track.name ASC
	`
	rows, err := s.db.Query(query, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying top tracks: %w", err)
	}
	defer rows.Close()

	var out []TrackCount
	for rows.Next() {
		var t TrackCount
		if err := rows.Scan(&t.Name, &t.Artist, &t.Streams, &t.MsPlayed); err != nil {
			return nil, err
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// TopGenres aggregates streams by the artist-level genre classification.
// Artists without a cached assignment group under "unclassified".
func (s *Store) TopGenres(start, end time.Time, limit int) ([]GenreCount, error) {
	query := `
		SELECT COALESCE(GenreClass.genre, 'unclassified'), COUNT(*), SUM(Stream.ms_played)
		FROM Stream
		INNER JOIN Track ON Track.id = Stream.track
		LEFT JOIN GenreClass ON GenreClass.subject = lower(Track.artist) AND GenreClass.kind = ?
		WHERE Stream.ms_played >= ? AND Stream.ts >= ? AND Stream.ts < ?
		GROUP BY COALESCE(GenreClass.genre, 'unclassified')
		ORDER BY COUNT(*) DESC
	`
	rows, err := s.db.Query(query, KindArtist, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying top genres: %w", err)
	}
	defer rows.Close()

	var out []GenreCount
	for rows.Next() {
		var g GenreCount
		if err := rows.Scan(&g.Genre, &g.Streams, &g.MsPlayed); err != nil {
			return nil, err
		}
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// NewArtists returns artists whose first counted stream falls in [start, end),
// ordered by stream count within the range.
func (s *Store) NewArtists(start, end time.Time) ([]ArtistDebut, error) {
	query := `
		SELECT Track.artist, MIN(Stream.ts) AS first_ts, COUNT(*)
		FROM Stream
		INNER JOIN Track ON Track.id = Stream.track
		WHERE Stream.ms_played >= ?
		GROUP BY Track.artist
		HAVING first_ts >= ? AND first_ts < ?
		ORDER BY COUNT(*) DESC, Track.artist ASC
	`
	rows, err := s.db.Query(query, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying new artists: %w", err)
	}
	defer rows.Close()

	var out []ArtistDebut
	for rows.Next() {
		var d ArtistDebut
		var first string
		if err := rows.Scan(&d.Artist, &first, &d.Streams); err != nil {
			return nil, err
		}
		d.First, err = parseTimestamp(first)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// StreamsByHour buckets counted streams by hour of day.
func (s *Store) StreamsByHour(start, end time.Time) ([24]int64, error) {
	var hours [24]int64
	query := `
		SELECT CAST(strftime('%H', ts) AS INTEGER), COUNT(*)
		FROM Stream
		WHERE ms_played >= ? AND ts >= ? AND ts < ?
		GROUP BY strftime('%H', ts)
	`
	rows, err := s.db.Query(query, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return hours, fmt.Errorf("querying streams by hour: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hour int
		var count int64
		if err := rows.Scan(&hour, &count); err != nil {
			return hours, err
		}
		if hour >= 0 && hour < 24 {
			hours[hour] = count
		}
	}
	return hours, rows.Err()
}

// MinutesByMonth sums listening minutes per calendar month in [start, end).
func (s *Store) MinutesByMonth(start, end time.Time) ([12]int64, error) {
	var months [12]int64
	query := `
		SELECT CAST(strftime('%m', ts) AS INTEGER), SUM(ms_played)
		FROM Stream
		WHERE ms_played >= ? AND ts >= ? AND ts < ?
		GROUP BY strftime('%m', ts)
	`
	rows, err := s.db.Query(query, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return months, fmt.Errorf("querying minutes by month: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var month int
		var ms int64
		if err := rows.Scan(&month, &ms); err != nil {
			return months, err
		}
		if month >= 1 && month <= 12 {
			months[month-1] = ms / 60000
		}
	}
	return months, rows.Err()
}

// StreamDays returns the distinct days with at least one counted stream in
// [start, end), sorted ascending.
func (s *Store) StreamDays(start, end time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date(ts)
		FROM Stream
		WHERE ms_played >= ? AND ts >= ? AND ts < ?
		ORDER BY date(ts) ASC
	`
	rows, err := s.db.Query(query, MinStreamMs, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying stream days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	return days, rows.Err()
}

// RangeTotals summarizes counted listening in [start, end).
func (s *Store) RangeTotals(start, end time.Time) (Totals, error) {
	var t Totals
	query := `
		SELECT COUNT(*), COALESCE(SUM(Stream.ms_played), 0),
		       COUNT(DISTINCT Track.artist), COUNT(DISTINCT Track.id)
		FROM Stream
		INNER JOIN Track ON Track.id = Stream.track
		WHERE Stream.ms_played >= ? AND Stream.ts >= ? AND Stream.ts < ?
	`
	row := s.db.QueryRow(query, MinStreamMs, start.UTC(), end.UTC())
	if err := row.Scan(&t.Streams, &t.MsPlayed, &t.Artists, &t.Tracks); err != nil {
		return t, fmt.Errorf("querying totals: %w", err)
	}
	return t, nil
}
