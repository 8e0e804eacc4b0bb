// Fetches articles from the configured RSS feeds and stores newly admitted
// items in the SQLite store. Intended to be run periodically by an external
// scheduler.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	au "github.com/frostbyte-holding/ai-unfiltered"
)

const apiKeyEnv = "GOOGLE_AI_API_KEY"

func main() {
	feedsFilepath := flag.String("feeds", "feeds.json", "path to the feeds configuration file (JWCC)")
	dbFilepath := flag.String("db", "data/articles.db", "path to the SQLite store")
	verbose := flag.Bool("verbose", false, "print verbose messages")
	flag.Parse()

	feeds, err := au.LoadFeeds(*feedsFilepath)
	if err != nil {
		log.Fatalf("# failed to load feeds config: %s", err)
	}
	log.Printf("loaded %d feed(s) from config", len(feeds))

	client, err := au.NewClientWithDB(feeds, *dbFilepath)
	if err != nil {
		log.Fatalf("# failed to create a client: %s", err)
	}
	client.SetVerbose(*verbose)

	// scoring is enabled only when an API key is present; without one every
	// candidate keeps the neutral score
	if apiKey := os.Getenv(apiKeyEnv); apiKey != "" {
		client.SetScorer(au.NewGeminiScorer(apiKey))
	} else {
		log.Printf("no %s given; skipping quality scoring", apiKeyEnv)
	}

	total := client.IngestAll(context.Background())

	log.Printf(">>> done, added %d new item(s) total.", total)
}
