// Generates static HTML/RSS/plain-text pages from the SQLite store.
package main

import (
	"flag"
	"log"
	"os"

	au "github.com/frostbyte-holding/ai-unfiltered"
)

const (
	siteName        = "AI Unfiltered"
	siteDescription = "Raw AI news. No fluff. Updated every 4 hours."
	siteBaseURL     = "https://frostbyte-holding.github.io/ai-unfiltered/"
	siteAuthor      = "frostbyte-holding"
	siteEmail       = "noreply@frostbyte-holding.github.io"
)

func main() {
	dbFilepath := flag.String("db", "data/articles.db", "path to the SQLite store")
	docsDir := flag.String("docs", "docs", "output directory of the generated site")
	verbose := flag.Bool("verbose", false, "print verbose messages")
	flag.Parse()

	site := au.SiteInfo{
		Name:        siteName,
		Description: siteDescription,
		BaseURL:     siteBaseURL,
		Author:      siteAuthor,
		Email:       siteEmail,
	}

	// a missing store is a first-run condition: build placeholder pages from
	// an empty store instead of failing
	var store au.ItemStore
	if _, err := os.Stat(*dbFilepath); err == nil {
		if store, err = au.NewDBStore(*dbFilepath); err != nil {
			log.Fatalf("# failed to open store: %s", err)
		}
	} else {
		log.Printf("store not found at '%s'; building placeholder pages", *dbFilepath)
		store = au.NewMemStore()
	}

	publisher := au.NewPublisher(store, site)
	publisher.SetVerbose(*verbose)

	if err := publisher.BuildSite(*docsDir); err != nil {
		log.Fatalf("# failed to build site: %s", err)
	}

	log.Printf(">>> done, site built in '%s'.", *docsDir)
}
