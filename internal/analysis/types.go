package analysis

// Report is the top-level structure of the wrapped report.
type Report struct {
	Metadata    Metadata     `yaml:"metadata"`
	TopArtists  []ArtistStat `yaml:"top_artists"`
	TopTracks   []TrackStat  `yaml:"top_tracks"`
	Genres      []GenreStat  `yaml:"genres"`
	Clock       Clock        `yaml:"listening_clock"`
	Months      []MonthStat  `yaml:"months"`
	Streak      Streak       `yaml:"longest_streak"`
	Discoveries []string     `yaml:"discoveries"`
}

type Metadata struct {
	GeneratedDate   string `yaml:"generated_date"`
	Period          string `yaml:"period"`
	TotalStreams    int64  `yaml:"total_streams"`
	TotalMinutes    int64  `yaml:"total_minutes"`
	DistinctArtists int64  `yaml:"distinct_artists"`
	DistinctTracks  int64  `yaml:"distinct_tracks"`
}

type ArtistStat struct {
	Name    string `yaml:"name"`
	Streams int64  `yaml:"streams"`
	Minutes int64  `yaml:"minutes"`
	Genre   string `yaml:"genre,omitempty"`
}

type TrackStat struct {
	Name    string `yaml:"name"`
	Artist  string `yaml:"artist"`
	Streams int64  `yaml:"streams"`
	Minutes int64  `yaml:"minutes"`
}

type GenreStat struct {
	Genre   string  `yaml:"genre"`
	Streams int64   `yaml:"streams"`
	Minutes int64   `yaml:"minutes"`
	Share   float64 `yaml:"share"`
}

type Clock struct {
	Hours    [24]int64 `yaml:"hours"`
	PeakHour int       `yaml:"peak_hour"`
}

type MonthStat struct {
	Month   string `yaml:"month"`
	Minutes int64  `yaml:"minutes"`
}

type Streak struct {
	Days  int    `yaml:"days"`
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}
