// Package history parses Spotify extended streaming history exports.
//
// An export is a directory of JSON files, each containing an array of
// playback spans. Field names match the export format and must not change.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Span is a single playback record from the export. Optional fields are
// pointers because the export uses null for podcast-only or missing values.
type Span struct {
	Timestamp        time.Time `json:"ts"`
	Platform         string    `json:"platform"`
	MsPlayed         int64     `json:"ms_played"`
	ConnCountry      string    `json:"conn_country"`
	IPAddr           *string   `json:"ip_addr"`
	TrackName        *string   `json:"master_metadata_track_name"`
	ArtistName       *string   `json:"master_metadata_album_artist_name"`
	AlbumName        *string   `json:"master_metadata_album_album_name"`
	TrackURI         *string   `json:"spotify_track_uri"`
	EpisodeName      *string   `json:"episode_name"`
	EpisodeShowName  *string   `json:"episode_show_name"`
	EpisodeURI       *string   `json:"spotify_episode_uri"`
	ReasonStart      *string   `json:"reason_start"`
	ReasonEnd        *string   `json:"reason_end"`
	Shuffle          bool      `json:"shuffle"`
	Skipped          *bool     `json:"skipped"`
	Offline          *bool     `json:"offline"`
	OfflineTimestamp *float64  `json:"offline_timestamp"` // fractional in some exports
	IncognitoMode    bool      `json:"incognito_mode"`
}

// Valid reports whether the span is a usable music stream. Podcast episodes
// have no track URI and are excluded here.
func (s Span) Valid() bool {
	return s.TrackURI != nil &&
		s.TrackName != nil &&
		s.ArtistName != nil &&
		s.AlbumName != nil &&
		!s.Timestamp.IsZero()
}

// TrackID extracts the bare track ID from a spotify:track:<id> URI.
func (s Span) TrackID() string {
	if s.TrackURI == nil {
		return ""
	}
	parts := strings.Split(*s.TrackURI, ":")
	return parts[len(parts)-1]
}

// LoadDirectory reads every .json file in dir and returns all spans, sorted
// by timestamp.
func LoadDirectory(dir string) ([]Span, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading export directory: %w", err)
	}

	var spans []Span
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var fileSpans []Span
		if err := json.Unmarshal(data, &fileSpans); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		spans = append(spans, fileSpans...)
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Timestamp.Before(spans[j].Timestamp)
	})
	return spans, nil
}

// Filter returns only the valid spans from the input.
func Filter(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}
