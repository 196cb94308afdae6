// Package classify maps music subjects (artists or sub-genres) onto a
// configured list of fundamental genres using a local LLM.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"wrapped-tools/internal/ollama"

	"github.com/avast/retry-go"
)

// Assignment is the model's answer for one subject.
type Assignment struct {
	Reason string `json:"reason"`
	Genre  string `json:"fundamental_genre"`
}

// ErrExhausted means the model never produced a valid answer within the
// attempt budget.
var ErrExhausted = errors.New("classification attempts exhausted")

const systemPrompt = `Do not output any markdown. Do not make any comments. Do not use escape characters.

Output nothing but a JSON in the following format: {"reason": "str", "fundamental_genre": "str"}`

const userPromptTemplate = `You are tasked with classifying %s into their respective fundamental genres.

Here is a list of the fundamental genres:
%s

You must first give your reasoning for why the %s belongs to the fundamental genre.

Then, you must output the exact fundamental genre that the %s belongs to. Do not change case or spelling.

Classify the %s: %q`

// Kind describes what is being classified; it only changes prompt wording.
type Kind string

const (
	KindArtist   Kind = "artist"
	KindSubgenre Kind = "sub-genre"
)

func (k Kind) plural() string {
	if k == KindArtist {
		return "artists"
	}
	return "sub-genres of music"
}

type Classifier struct {
	llm         *ollama.Client
	genres      []string
	maxAttempts int
}

func New(llm *ollama.Client, genres []string) *Classifier {
	lowered := make([]string, len(genres))
	for i, g := range genres {
		lowered[i] = strings.ToLower(g)
	}
	return &Classifier{
		llm:         llm,
		genres:      lowered,
		maxAttempts: 20,
	}
}

// Classify asks the model to assign subject to a fundamental genre. Invalid
// replies are fed back to the model as a corrective message, up to the
// attempt budget.
func (c *Classifier) Classify(ctx context.Context, kind Kind, subject string) (Assignment, error) {
	genreList, err := encodeGenreList(c.genres)
	if err != nil {
		return Assignment{}, fmt.Errorf("encoding genre list: %w", err)
	}

	messages := []ollama.Message{
		{Role: ollama.RoleSystem, Content: systemPrompt},
		{Role: ollama.RoleUser, Content: fmt.Sprintf(userPromptTemplate,
			kind.plural(), genreList, kind, kind, kind, subject)},
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		reply, err := c.chat(ctx, messages)
		if err != nil {
			return Assignment{}, fmt.Errorf("asking model about %q: %w", subject, err)
		}

		assignment, err := ParseAssignment(reply, c.genres)
		if err == nil {
			return assignment, nil
		}

		messages = append(messages,
			ollama.Message{Role: ollama.RoleAssistant, Content: reply},
			ollama.Message{Role: ollama.RoleUser, Content: fmt.Sprintf(
				"That did not work. Here is the error I get: `%v`. Please try again.", err)},
		)
	}

	return Assignment{}, fmt.Errorf("classifying %q: %w", subject, ErrExhausted)
}

// chat wraps the transport call in retries for server-side failures.
func (c *Classifier) chat(ctx context.Context, messages []ollama.Message) (string, error) {
	var reply string
	err := retry.Do(
		func() error {
			var err error
			reply, err = c.llm.Chat(ctx, messages)
			return err
		},
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			var serverErr *ollama.ServerError
			if errors.As(err, &serverErr) {
				return serverErr.Retryable()
			}
			return false
		}),
		retry.Context(ctx),
	)
	return reply, err
}

// encodeGenreList renders the genre list as indented JSON without HTML
// escaping, so "r&b" stays readable in the prompt.
func encodeGenreList(genres []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(genres); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

var jsonBlock = regexp.MustCompile(`\{[^}]*\}`)

// ParseAssignment extracts the JSON answer from a model reply and validates
// the genre against the configured list. The genre is lowercased.
func ParseAssignment(reply string, genres []string) (Assignment, error) {
	// Models tend to escape ampersands (mostly because of r&b).
	for strings.Contains(reply, `\&`) {
		reply = strings.ReplaceAll(reply, `\&`, "&")
	}

	block := jsonBlock.FindString(reply)
	if block == "" {
		return Assignment{}, errors.New("no JSON found in response")
	}

	var assignment Assignment
	if err := json.Unmarshal([]byte(block), &assignment); err != nil {
		return Assignment{}, fmt.Errorf("parsing response: %w", err)
	}

	assignment.Genre = strings.ToLower(assignment.Genre)
	for _, g := range genres {
		if assignment.Genre == g {
			return assignment, nil
		}
	}
	return Assignment{}, fmt.Errorf("invalid fundamental genre: %q, choose from %v", assignment.Genre, genres)
}
