package au

import (
	"os"
	"path/filepath"
	"testing"
)

// write a temporary feeds configuration file
func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feeds.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write feeds file: %s", err)
	}

	return path
}

// test loading a JWCC feeds file with defaults
func TestLoadFeeds(t *testing.T) {
	path := writeFeedsFile(t, `{
  // comments and trailing commas are fine
  "feeds": [
    {
      "name": "arXiv cs.CL",
      "url": "https://rss.arxiv.org/rss/cs.CL",
      "category": "research",
      "max_per_day": 10,
      "tier": 1,
      "requires_scoring": true,
    },
    {
      "name": "Some Blog",
      "url": "https://example.com/rss",
      "category": "llm",
    },
  ],
}`)

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("failed to load feeds: %s", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}

	first := feeds[0]
	if first.Name != "arXiv cs.CL" || first.MaxPerDay != 10 || first.Tier != 1 || !first.RequiresScoring {
		t.Errorf("unexpected first feed: %+v", first)
	}

	// defaults applied
	second := feeds[1]
	if second.MaxPerDay != defaultMaxPerDay {
		t.Errorf("expected default max_per_day %d, got %d", defaultMaxPerDay, second.MaxPerDay)
	}
	if second.Tier != defaultTier {
		t.Errorf("expected default tier %d, got %d", defaultTier, second.Tier)
	}
	if second.RequiresScoring {
		t.Errorf("expected requires_scoring to default to false")
	}
}

// test validation failures
func TestLoadFeedsValidation(t *testing.T) {
	for name, content := range map[string]string{
		"unknown category": `{"feeds": [{"name": "a", "url": "https://example.com/rss", "category": "sports"}]}`,
		"missing name":     `{"feeds": [{"url": "https://example.com/rss", "category": "llm"}]}`,
		"missing url":      `{"feeds": [{"name": "a", "category": "llm"}]}`,
		"broken json":      `{"feeds": [`,
	} {
		if _, err := LoadFeeds(writeFeedsFile(t, content)); err == nil {
			t.Errorf("expected an error for %s", name)
		}
	}
}
