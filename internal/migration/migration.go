// Package migration holds the SQL used to create the database schema.
package migration

const Create = `
CREATE TABLE IF NOT EXISTS Track (
  id TEXT NOT NULL PRIMARY KEY,
  name TEXT NOT NULL,
  artist TEXT NOT NULL,
  album TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS Stream (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts DATETIME NOT NULL,
  track TEXT NOT NULL,
  ms_played INTEGER NOT NULL,
  FOREIGN KEY (track) REFERENCES Track(id)
);

CREATE TABLE IF NOT EXISTS Import (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  dir_hash TEXT NOT NULL,
  imported_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS GenreClass (
  subject TEXT NOT NULL,
  kind TEXT NOT NULL,
  genre TEXT,
  reason TEXT,
  model TEXT,
  classified_at DATETIME NOT NULL,
  PRIMARY KEY (subject, kind)
);

CREATE INDEX IF NOT EXISTS idx_stream_ts ON Stream(ts);
CREATE INDEX IF NOT EXISTS idx_stream_track ON Stream(track);
CREATE INDEX IF NOT EXISTS idx_track_artist ON Track(artist);
`
