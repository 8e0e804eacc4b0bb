package au

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testSite = SiteInfo{
	Name:        "AI Unfiltered",
	Description: "Raw AI news. No fluff.",
	BaseURL:     "https://example.com/",
	Author:      "tester",
	Email:       "tester@example.com",
}

// fill a memory store with items, `perSource` each from `sources` sources
func testStoreWithItems(sources, perSource int) ItemStore {
	store := NewMemStore()
	for s := 0; s < sources; s++ {
		for i := 0; i < perSource; i++ {
			url := fmt.Sprintf("https://example.com/s%d/%d", s, i)
			store.Insert(Item{
				ID:        ItemID(url),
				Title:     fmt.Sprintf("source %d item %d", s, i),
				URL:       url,
				Source:    fmt.Sprintf("source-%d", s),
				Category:  CategoryLLM,
				Published: fmt.Sprintf("2025-08-%02d 10:%02d:00", 10+s, i),
				Score:     NeutralScore,
				Tier:      2,
			})
		}
	}
	return store
}

// test the per-source diversity cap
func TestCapPerSource(t *testing.T) {
	items := []Item{}
	for i := 0; i < 15; i++ {
		items = append(items, Item{ID: fmt.Sprintf("noisy-%d", i), Source: "noisy"})
	}
	items = append(items, Item{ID: "quiet-1", Source: "quiet"})

	capped := capPerSource(items, maxPerSourcePerPage)
	if len(capped) != maxPerSourcePerPage+1 {
		t.Errorf("expected %d items after capping, got %d", maxPerSourcePerPage+1, len(capped))
	}
	if capped[len(capped)-1].Source != "quiet" {
		t.Errorf("expected the quiet source to survive the cap")
	}
}

// test `PageItems` ordering and capping over the store
func TestPageItems(t *testing.T) {
	publisher := NewPublisher(testStoreWithItems(2, 15), testSite)

	items := publisher.PageItems("", itemsPerPage)
	if len(items) != 2*maxPerSourcePerPage {
		t.Errorf("expected %d items after per-source capping, got %d", 2*maxPerSourcePerPage, len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Published < items[i].Published {
			t.Errorf("expected items ordered by published descending")
		}
	}
}

// test RSS XML generation
func TestPublishXML(t *testing.T) {
	store := NewMemStore()
	store.Insert(Item{
		ID:        ItemID("https://example.com/1"),
		Title:     "Tags & <angles>",
		URL:       "https://example.com/1",
		Source:    "X",
		Category:  CategoryLLM,
		Published: "2025-08-30 10:00:00",
		Summary:   "a summary",
		Score:     NeutralScore,
		Tier:      2,
	})

	publisher := NewPublisher(store, testSite)

	bytes, err := publisher.PublishXML(publisher.PageItems("", rssItemCount))
	if err != nil {
		t.Fatalf("failed to publish xml: %s", err)
	}

	xml := string(bytes)
	if !strings.Contains(xml, "<rss") {
		t.Errorf("expected an <rss> document, got: '%s'", xml)
	}
	if !strings.Contains(xml, "Tags &amp; &lt;angles&gt;") {
		t.Errorf("expected the title to be escaped, got: '%s'", xml)
	}
	if !strings.Contains(xml, "https://example.com/1") {
		t.Errorf("expected the item link, got: '%s'", xml)
	}
}

// test plain-text rendering
func TestPublishText(t *testing.T) {
	publisher := NewPublisher(testStoreWithItems(1, 2), testSite)

	text := publisher.PublishText(publisher.PageItems("", itemsPerPage))
	if !strings.Contains(text, testSite.Name) {
		t.Errorf("expected the site name in the text page")
	}
	if !strings.Contains(text, "source 0 item 1") || !strings.Contains(text, "https://example.com/s0/1") {
		t.Errorf("expected item title and url in the text page, got: '%s'", text)
	}
}

// test that `BuildSite` renders every expected file
func TestBuildSite(t *testing.T) {
	docsDir := filepath.Join(t.TempDir(), "docs")

	publisher := NewPublisher(testStoreWithItems(1, 3), testSite)
	if err := publisher.BuildSite(docsDir); err != nil {
		t.Fatalf("failed to build site: %s", err)
	}

	expected := []string{"index.html", "rss.xml", "index.txt", ".nojekyll"}
	for _, category := range KnownCategories() {
		expected = append(expected, fmt.Sprintf("%s.html", category))
	}
	for _, filename := range expected {
		if _, err := os.Stat(filepath.Join(docsDir, filename)); err != nil {
			t.Errorf("expected built file '%s': %s", filename, err)
		}
	}

	index, err := os.ReadFile(filepath.Join(docsDir, "index.html"))
	if err != nil {
		t.Fatalf("failed to read index.html: %s", err)
	}
	if !strings.Contains(string(index), "source 0 item 0") {
		t.Errorf("expected an item title in index.html")
	}
}

// test that an empty store builds placeholder pages
func TestBuildSiteEmptyStore(t *testing.T) {
	docsDir := filepath.Join(t.TempDir(), "docs")

	publisher := NewPublisher(NewMemStore(), testSite)
	if err := publisher.BuildSite(docsDir); err != nil {
		t.Fatalf("failed to build site: %s", err)
	}

	index, err := os.ReadFile(filepath.Join(docsDir, "index.html"))
	if err != nil {
		t.Fatalf("failed to read index.html: %s", err)
	}
	if !strings.Contains(string(index), "No articles yet") {
		t.Errorf("expected the placeholder text in index.html")
	}
}
