package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// LastImportHash returns the most recent export directory hash, or "" if no
// import has been recorded.
func (s *Store) LastImportHash() (string, error) {
	row := s.db.QueryRow("SELECT dir_hash FROM Import ORDER BY id DESC LIMIT 1")
	var hash string
	err := row.Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting last import hash: %w", err)
	}
	return hash, nil
}

// DistinctArtists returns all artist names in the library, sorted.
func (s *Store) DistinctArtists() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT artist FROM Track ORDER BY artist")
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// CachedSubjects returns the lowercased subjects that already have a genre
// classification of the given kind.
func (s *Store) CachedSubjects(kind string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT subject FROM GenreClass WHERE kind = ?", kind)
	if err != nil {
		return nil, fmt.Errorf("querying cached subjects: %w", err)
	}
	defer rows.Close()

	cached := make(map[string]bool)
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		cached[subject] = true
	}
	return cached, rows.Err()
}

// GenreFor returns the cached genre for a subject, or "" when the subject is
// unknown or was recorded as unclassified.
func (s *Store) GenreFor(subject, kind string) (string, error) {
	row := s.db.QueryRow("SELECT genre FROM GenreClass WHERE subject = ? AND kind = ?",
		strings.ToLower(subject), kind)
	var genre sql.NullString
	err := row.Scan(&genre)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting genre for %q: %w", subject, err)
	}
	return genre.String, nil
}

// FirstStream returns the timestamp of the earliest counted stream, or the
// zero time when the library is empty.
func (s *Store) FirstStream() (time.Time, error) {
	return s.streamBound("MIN")
}

// LastStream returns the timestamp of the latest counted stream, or the zero
// time when the library is empty.
func (s *Store) LastStream() (time.Time, error) {
	return s.streamBound("MAX")
}

func (s *Store) streamBound(fn string) (time.Time, error) {
	// MIN/MAX strip the column's decltype, so scan as text and parse.
	query := fmt.Sprintf("SELECT %s(ts) FROM Stream WHERE ms_played >= ?", fn)
	row := s.db.QueryRow(query, MinStreamMs)
	var ts sql.NullString
	if err := row.Scan(&ts); err != nil {
		return time.Time{}, fmt.Errorf("getting %s stream: %w", fn, err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return parseTimestamp(ts.String)
}

var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTimestamp(value string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", value)
}
