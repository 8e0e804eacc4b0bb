package au

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	defaultMaxPerDay = 30
	defaultTier      = 2
)

// FeedConfig describes one configured RSS/Atom source.
type FeedConfig struct {
	Name            string   `json:"name"`                       // source identity, quota partition key
	URL             string   `json:"url"`                        // feed endpoint
	Category        Category `json:"category"`                   // one of the closed category set
	MaxPerDay       int      `json:"max_per_day,omitempty"`      // daily admission quota (default: 30)
	Tier            int      `json:"tier,omitempty"`             // priority class (default: 2)
	RequiresScoring bool     `json:"requires_scoring,omitempty"` // gate this feed through the scorer
}

// feeds configuration file layout
type feedsFile struct {
	Feeds []FeedConfig `json:"feeds"`
}

// LoadFeeds reads the feeds configuration (JWCC) from given path, applying
// defaults and validating each descriptor.
func LoadFeeds(path string) (feeds []FeedConfig, err error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds config: %w", err)
	}

	if standardized, err := StandardizeJSON(bytes); err == nil {
		bytes = standardized
	}

	var file feedsFile
	if err := json.Unmarshal(bytes, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feeds config: %w", err)
	}

	return ValidateFeeds(file.Feeds)
}

// ValidateFeeds applies defaults to given feed descriptors and validates them.
func ValidateFeeds(feeds []FeedConfig) ([]FeedConfig, error) {
	for i := range feeds {
		feed := &feeds[i]

		if feed.Name == "" {
			return nil, fmt.Errorf("feed #%d has no name", i+1)
		}
		if feed.URL == "" {
			return nil, fmt.Errorf("feed '%s' has no url", feed.Name)
		}
		if !KnownCategory(feed.Category) {
			return nil, fmt.Errorf("feed '%s' has unknown category: '%s'", feed.Name, feed.Category)
		}

		if feed.MaxPerDay <= 0 {
			feed.MaxPerDay = defaultMaxPerDay
		}
		if feed.Tier <= 0 {
			feed.Tier = defaultTier
		}
	}

	return feeds, nil
}
