// Package enao extracts the genre list from everynoise.com.
package enao

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const URL = "https://everynoise.com/everynoise1d.html"

// FetchGenres downloads the everynoise genre ranking and returns the genre
// names in page order.
func FetchGenres(ctx context.Context, client *http.Client) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building everynoise request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching everynoise: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching everynoise: status %d", resp.StatusCode)
	}

	return ParseGenres(resp.Body)
}

// ParseGenres extracts genre names from the everynoise1d page. Each genre is
// a link in the third cell of a table row.
func ParseGenres(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing everynoise html: %w", err)
	}

	var genres []string
	doc.Find("table tr td:nth-of-type(3) a").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())
		if name != "" {
			genres = append(genres, name)
		}
	})

	if len(genres) == 0 {
		return nil, fmt.Errorf("no genres found in everynoise page")
	}
	return genres, nil
}
