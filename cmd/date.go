package cmd

import (
	"fmt"
	"regexp"
	"time"
)

// dateSpan ties a date argument shape to its layout and to the natural
// range length it implies when used as a single argument.
type dateSpan struct {
	pattern *regexp.Regexp
	layout  string
	advance func(t time.Time) time.Time
}

var dateSpans = []dateSpan{
	{
		pattern: regexp.MustCompile(`^\d{4}$`),
		layout:  "2006",
		advance: func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
	},
	{
		pattern: regexp.MustCompile(`^\d{4}-\d{2}$`),
		layout:  "2006-01",
		advance: func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	},
	{
		pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		layout:  "2006-01-02",
		advance: func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
	},
}

// parseDateRangeFromArgs turns one or two yyyy / yyyy-mm / yyyy-mm-dd
// arguments into a [start, end) range. A single argument covers its natural
// span (year, month, or day); two arguments give the range explicitly.
func parseDateRangeFromArgs(args []string) (time.Time, time.Time, error) {
	switch len(args) {
	case 1:
		start, span, err := parseDate(args[0])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, span.advance(start), nil

	case 2:
		start, _, err := parseDate(args[0])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, _, err := parseDate(args[1])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("expected one or two date arguments")
}

func parseDate(ds string) (time.Time, dateSpan, error) {
	for _, span := range dateSpans {
		if !span.pattern.MatchString(ds) {
			continue
		}
		t, err := time.Parse(span.layout, ds)
		if err != nil {
			return time.Time{}, dateSpan{}, fmt.Errorf("Invalid date format: %q: %w", ds, err)
		}
		return t, span, nil
	}
	return time.Time{}, dateSpan{}, fmt.Errorf("Invalid date format: %q", ds)
}
