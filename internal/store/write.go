package store

import (
	"fmt"
	"strings"
	"time"
)

// Track is a distinct song from the export.
type Track struct {
	ID     string
	Name   string
	Artist string
	Album  string
}

// Stream is a single playback of a track.
type Stream struct {
	Timestamp time.Time
	TrackID   string
	MsPlayed  int64
}

// ReplaceHistory clears the imported listening data and inserts the given
// tracks and streams in a single transaction. Genre classifications are
// keyed by artist name and survive the replacement.
func (s *Store) ReplaceHistory(tracks []Track, streams []Stream) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Stream"); err != nil {
		return fmt.Errorf("clearing streams: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM Track"); err != nil {
		return fmt.Errorf("clearing tracks: %w", err)
	}

	insertTrack, err := tx.Prepare("INSERT OR IGNORE INTO Track (id, name, artist, album) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing track insert: %w", err)
	}
	defer insertTrack.Close()
	for _, t := range tracks {
		if _, err := insertTrack.Exec(t.ID, t.Name, t.Artist, t.Album); err != nil {
			return fmt.Errorf("inserting track %q: %w", t.Name, err)
		}
	}

	insertStream, err := tx.Prepare("INSERT INTO Stream (ts, track, ms_played) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing stream insert: %w", err)
	}
	defer insertStream.Close()
	for _, st := range streams {
		if _, err := insertStream.Exec(st.Timestamp.UTC(), st.TrackID, st.MsPlayed); err != nil {
			return fmt.Errorf("inserting stream at %s: %w", st.Timestamp, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RecordImport stores the export directory hash for change detection.
func (s *Store) RecordImport(dirHash string, at time.Time) error {
	_, err := s.db.Exec("INSERT INTO Import (dir_hash, imported_at) VALUES (?, ?)", dirHash, at)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// SaveGenre stores a genre assignment for a subject. An empty genre records
// the subject as unclassified so a later run can find it with --force.
func (s *Store) SaveGenre(subject, kind, genre, reason, model string, at time.Time) error {
	var genreVal interface{}
	if genre != "" {
		genreVal = genre
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO GenreClass (subject, kind, genre, reason, model, classified_at) VALUES (?, ?, ?, ?, ?, ?)",
		strings.ToLower(subject), kind, genreVal, reason, model, at)
	if err != nil {
		return fmt.Errorf("saving genre for %q: %w", subject, err)
	}
	return nil
}

// ClearGenres removes all cached assignments of the given kind.
func (s *Store) ClearGenres(kind string) error {
	_, err := s.db.Exec("DELETE FROM GenreClass WHERE kind = ?", kind)
	if err != nil {
		return fmt.Errorf("clearing %s classifications: %w", kind, err)
	}
	return nil
}
