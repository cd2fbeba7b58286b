package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/leozw/whois-lookup/internal/core"
)

// Layouts seen in registry output that dateparse does not detect on its own.
var registryDateLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"02-Jan-2006",
	"2006.01.02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// ResolveDate finds key at the top level, then under registryData, then under
// registryData.registry, and parses the first non-empty string found. Parse
// failures read as absent. Any zone offset is dropped.
func ResolveDate(doc Document, key string) (core.Timestamp, bool) {
	raw, ok := firstOf(doc,
		func(d Document) (string, bool) { return d.String(key) },
		func(d Document) (string, bool) { return d.String("registryData", key) },
		func(d Document) (string, bool) { return d.String("registryData", "registry", key) },
	)
	if !ok {
		return core.Timestamp{}, false
	}

	t, err := parseDate(raw)
	if err != nil {
		return core.Timestamp{}, false
	}
	return core.Naive(t), true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t, nil
	}

	for _, layout := range registryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// day-first registries, as a last resort
	if t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false)); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
