package au

import (
	"strings"
	"testing"
)

// test `ItemID`
func TestItemID(t *testing.T) {
	const url = "https://example.com/articles/attention-is-all-you-need"

	if ItemID(url) != ItemID(url) {
		t.Errorf("expected identical ids for identical urls")
	}
	if len(ItemID(url)) != itemIDLength {
		t.Errorf("expected id of length %d, got: '%s'", itemIDLength, ItemID(url))
	}
	if ItemID(url) == ItemID(url+"?utm_source=rss") {
		t.Errorf("expected distinct ids for distinct urls")
	}
}

// test `cleanSummary`
func TestCleanSummary(t *testing.T) {
	for original, expected := range map[string]string{
		"<p>Hello <b>world</b></p>":                  "Hello world",
		"  runs \n\n of \t whitespace  ":             "runs of whitespace",
		"<div><script>alert(1)</script>plain</div>":  "alert(1)plain",
		"no markup at all":                           "no markup at all",
		"":                                           "",
		"<a href=\"https://example.com\">a link</a>": "a link",
	} {
		if cleaned := cleanSummary(original, maxSummaryLength); cleaned != expected {
			t.Errorf("expected cleaned summary: '%s' vs actual: '%s'", expected, cleaned)
		}
	}
}

// test `cleanSummary` truncation at a word boundary
func TestCleanSummaryTruncation(t *testing.T) {
	// 349 characters of repeated words
	original := strings.TrimSpace(strings.Repeat("exactly ", 44))[:349]

	cleaned := cleanSummary(original, maxSummaryLength)

	if len(cleaned) > maxSummaryLength {
		t.Errorf("expected truncated summary of <= %d characters, got %d", maxSummaryLength, len(cleaned))
	}
	if !strings.HasSuffix(cleaned, ellipsis) {
		t.Errorf("expected truncated summary to end with '%s', got: '%s'", ellipsis, cleaned)
	}

	core := strings.TrimSuffix(cleaned, ellipsis)
	if !strings.HasPrefix(original, core) {
		t.Errorf("expected truncated summary to be a prefix of the original")
	}
	if len(core) < len(original) && original[len(core)] != ' ' {
		t.Errorf("expected truncation not to split a word, got core ending: '%s'", core[len(core)-10:])
	}
}

// test `excerpt`
func TestExcerpt(t *testing.T) {
	if excerpted := excerpt("<p>short</p>", abstractExcerptLength); excerpted != "short" {
		t.Errorf("expected excerpt: 'short' vs actual: '%s'", excerpted)
	}

	long := strings.Repeat("a", abstractExcerptLength*2)
	if excerpted := excerpt(long, abstractExcerptLength); len(excerpted) != abstractExcerptLength {
		t.Errorf("expected excerpt of %d characters, got %d", abstractExcerptLength, len(excerpted))
	}
}

// test `StandardizeJSON`
func TestStandardizeJSON(t *testing.T) {
	jwcc := []byte(`{
  // a comment
  "feeds": [
    {"name": "a", "url": "https://example.com/rss", "category": "llm",},
  ],
}`)

	standardized, err := StandardizeJSON(jwcc)
	if err != nil {
		t.Errorf("failed to standardize JWCC: %s", err)
	}
	if strings.Contains(string(standardized), "//") {
		t.Errorf("expected comments to be stripped, got: '%s'", string(standardized))
	}
}
