package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wrapped-tools/internal/ollama"
	"wrapped-tools/internal/store"
)

// fakeClassifyServer answers the Ollama chat API: a valid assignment for
// Loud Band, unparseable text for everything else.
func fakeClassifyServer(t *testing.T, askedCached *bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			w.Write([]byte("Ollama is running"))
			return
		}

		var req struct {
			Messages []ollama.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		prompt := req.Messages[1].Content
		if strings.Contains(prompt, "DJ Quiet") {
			*askedCached = true
		}

		reply := "no json in this reply"
		if strings.Contains(prompt, "Loud Band") {
			reply = `{"reason": "guitars", "fundamental_genre": "rock"}`
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": ollama.Message{Role: ollama.RoleAssistant, Content: reply},
			"done":    true,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClassifyGenres(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	tracks := []store.Track{
		{ID: "t1", Name: "Anthem", Artist: "Loud Band", Album: "First"},
		{ID: "t2", Name: "Beat", Artist: "DJ Quiet", Album: "Club"},
		{ID: "t3", Name: "Enigma", Artist: "Mystery Act", Album: "Unknown"},
	}
	if err := s.ReplaceHistory(tracks, nil); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}
	if err := s.SaveGenre("DJ Quiet", store.KindArtist, "electronic", "", "test", time.Now()); err != nil {
		t.Fatalf("SaveGenre: %v", err)
	}
	s.Close()

	var askedCached bool
	server := fakeClassifyServer(t, &askedCached)

	config := ClassifyConfig{
		DbPath:      dbPath,
		Target:      targetArtists,
		RequestGap:  time.Millisecond,
		OllamaHost:  server.URL,
		OllamaModel: "test",
		Genres:      []string{"rock", "pop"},
	}
	var out bytes.Buffer
	if err := classifyGenres(config, &out); err != nil {
		t.Fatalf("classifyGenres: %v", err)
	}

	if askedCached {
		t.Error("Cached artist was sent to the model")
	}

	s, err = store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer s.Close()

	genre, err := s.GenreFor("Loud Band", store.KindArtist)
	if err != nil {
		t.Fatalf("GenreFor: %v", err)
	}
	if genre != "rock" {
		t.Errorf("Expected rock for Loud Band, got %q", genre)
	}

	// The unclassifiable artist is recorded with no genre so the run can
	// continue, and a later --force run can retry it.
	cached, err := s.CachedSubjects(store.KindArtist)
	if err != nil {
		t.Fatalf("CachedSubjects: %v", err)
	}
	if !cached["mystery act"] {
		t.Errorf("Expected Mystery Act recorded as unclassified, got %v", cached)
	}
	genre, err = s.GenreFor("Mystery Act", store.KindArtist)
	if err != nil {
		t.Fatalf("GenreFor: %v", err)
	}
	if genre != "" {
		t.Errorf("Expected empty genre for Mystery Act, got %q", genre)
	}

	progress := out.String()
	for _, want := range []string{
		"Classifying 2 of 3 artists (1 cached)",
		"[1/2] Loud Band ->",
		"[2/2] Mystery Act ->",
		"ERROR",
		"Done, 1 subjects could not be classified",
	} {
		if !strings.Contains(progress, want) {
			t.Errorf("Progress output missing %q:\n%s", want, progress)
		}
	}
}

func TestClassifyGenresBadTarget(t *testing.T) {
	config := ClassifyConfig{
		DbPath: filepath.Join(t.TempDir(), "wrapped.db"),
		Target: "albums",
	}
	if err := classifyGenres(config, &bytes.Buffer{}); err == nil {
		t.Fatal("Expected error for unknown target")
	}
}
