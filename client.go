// Package au implements the AI Unfiltered aggregator: it polls a fixed list
// of RSS feeds, admits new items into a local store under per-source daily
// quotas (optionally gated by an external quality scorer), and publishes the
// stored items as static HTML/RSS/plain-text pages.
package au

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	maxEntriesPerFetch = 30 // consider at most this many entries per feed per run

	maxSummaryLength = 300

	untitledPlaceholder = "Untitled"
)

// Client struct
type Client struct {
	feeds  []FeedConfig
	store  ItemStore
	scorer Scorer

	verbose bool
}

// NewClient returns a new client with a memory-backed store.
func NewClient(feeds []FeedConfig) *Client {
	return &Client{
		feeds: feeds,
		store: NewMemStore(),
	}
}

// NewClientWithDB returns a new client backed by the SQLite store at
// `dbFilepath`, creating and migrating the store on first run.
func NewClientWithDB(feeds []FeedConfig, dbFilepath string) (client *Client, err error) {
	if store, err := NewDBStore(dbFilepath); err == nil {
		return &Client{
			feeds: feeds,
			store: store,
		}, nil
	} else {
		return nil, fmt.Errorf("failed to create a client with DB: %w", err)
	}
}

// SetScorer sets the client's quality scorer. Without one, feeds flagged for
// scoring fall back to the neutral score for every candidate.
func (c *Client) SetScorer(scorer Scorer) {
	c.scorer = scorer
}

// SetVerbose sets the client's verbose mode.
func (c *Client) SetVerbose(v bool) {
	c.verbose = v
	c.store.SetVerbose(v)
}

// Store returns the client's item store.
func (c *Client) Store() ItemStore {
	return c.store
}

// IngestAll runs one ingestion pass over every configured feed and returns
// the total number of newly admitted items.
//
// One feed's failure never aborts the others; a failed feed contributes zero
// items.
func (c *Client) IngestAll(ctx context.Context) (total int) {
	for _, feed := range c.feeds {
		count, err := c.ingestFeed(ctx, feed)
		if err != nil {
			log.Printf("failed to ingest feed '%s': %s", feed.Name, err)
			continue
		}

		v(c.verbose, "added %d new item(s) from feed '%s'", count, feed.Name)

		total += count
	}

	return total
}

// ingestFeed runs the admission pipeline for a single feed: fetch and parse,
// cap input, drop linkless and already-stored entries, read remaining quota,
// gate, persist.
func (c *Client) ingestFeed(ctx context.Context, feed FeedConfig) (count int, err error) {
	bytes, err := fetchFeedXML(ctx, feed.URL, c.verbose)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed from url '%s': %w", feed.URL, err)
	}

	fetched, err := gofeed.NewParser().ParseString(string(bytes))
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed from url '%s': %w", feed.URL, err)
	}

	v(c.verbose, "fetched %d item(s) from feed '%s'", len(fetched.Items), feed.Name)

	entries := fetched.Items
	if len(entries) > maxEntriesPerFetch {
		entries = entries[:maxEntriesPerFetch]
	}

	now := time.Now().UTC()

	candidates := []Candidate{}
	for _, entry := range entries {
		if entry.Link == "" {
			continue
		}

		id := ItemID(entry.Link)
		if c.store.Exists(id) {
			v(c.verbose, "ignoring already stored item: '%s' (%s)", entry.Title, id)
			continue
		}

		title := entry.Title
		if title == "" {
			title = untitledPlaceholder
		}

		raw := entry.Description
		if raw == "" {
			raw = entry.Content
		}

		candidates = append(candidates, Candidate{
			Item: Item{
				ID:        id,
				Title:     title,
				URL:       entry.Link,
				Source:    feed.Name,
				Category:  feed.Category,
				Published: normalizeDate(entry, now),
				Fetched:   now.Format(timestampFormat),
				Summary:   cleanSummary(raw, maxSummaryLength),
				Score:     NeutralScore,
				Tier:      feed.Tier,
			},
			RawSummary: raw,
		})
	}

	remaining := remainingQuota(c.store, feed, now)
	v(c.verbose, "%d of %d quota slot(s) remaining for source '%s'", remaining, feed.MaxPerDay, feed.Name)

	for _, item := range admit(ctx, candidates, feed, remaining, c.scorer, c.verbose) {
		// a duplicate id is a silent no-op, not an error
		if c.store.Insert(item) {
			count++
		}
	}

	return count, nil
}

// remainingQuota returns how many admission slots are left for given feed's
// source on the current UTC calendar day.
//
// NOTE: this is read once per feed per run; within the run only the admission
// ceiling decrements. Safe while the process is the store's single writer.
func remainingQuota(store ItemStore, feed FeedConfig, now time.Time) int {
	stored := store.CountForSourceOnDay(feed.Name, now.Format(dayFormat))

	return max(0, feed.MaxPerDay-stored)
}

// normalizeDate picks the best available timestamp of given entry, in a fixed
// priority order (published, updated, Dublin Core date), falling back to the
// ingestion time.
func normalizeDate(entry *gofeed.Item, now time.Time) string {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC().Format(timestampFormat)
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC().Format(timestampFormat)
	}
	if dc := entry.DublinCoreExt; dc != nil && len(dc.Date) > 0 {
		if parsed, err := time.Parse(time.RFC3339, dc.Date[0]); err == nil {
			return parsed.UTC().Format(timestampFormat)
		}
	}

	return now.Format(timestampFormat)
}
