package au

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/yuin/goldmark"
)

const (
	PublishContentType = `application/rss+xml`

	itemsPerPage        = 100
	rssItemCount        = 50
	maxPerSourcePerPage = 10 // per-source diversity cap on rendered pages

	displayDateFormat = "Jan 02"
)

// SiteInfo holds metadata of the rendered site.
type SiteInfo struct {
	Name        string
	Description string
	BaseURL     string
	Author      string
	Email       string
}

// Publisher renders stored items into static HTML, RSS and plain-text pages.
type Publisher struct {
	store ItemStore
	site  SiteInfo

	verbose bool
}

// NewPublisher returns a new publisher over given store.
func NewPublisher(store ItemStore, site SiteInfo) *Publisher {
	return &Publisher{
		store: store,
		site:  site,
	}
}

// SetVerbose sets the publisher's verbose mode.
func (p *Publisher) SetVerbose(v bool) {
	p.verbose = v
}

// PageItems reads one page of items from the store, newest first, optionally
// filtered by category, with the per-source diversity cap applied.
func (p *Publisher) PageItems(category Category, limit int) []Item {
	return capPerSource(p.store.Query(category, limit), maxPerSourcePerPage)
}

// capPerSource keeps at most `perSource` items from any single source,
// preserving order.
func capPerSource(items []Item, perSource int) (kept []Item) {
	counts := map[string]int{}
	for _, item := range items {
		if counts[item.Source] >= perSource {
			continue
		}
		counts[item.Source]++

		kept = append(kept, item)
	}

	return kept
}

// BuildSite renders the whole static site into `docsDir`: the index page, one
// page per category, the RSS feed, a plain-text index, and the `.nojekyll`
// marker.
func (p *Publisher) BuildSite(docsDir string) error {
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create site directory: %w", err)
	}

	items := p.PageItems("", itemsPerPage)

	if err := p.buildPage(docsDir, "index.html", "", items); err != nil {
		return err
	}
	for _, category := range KnownCategories() {
		filename := fmt.Sprintf("%s.html", category)
		if err := p.buildPage(docsDir, filename, category, p.PageItems(category, itemsPerPage)); err != nil {
			return err
		}
	}

	rssItems := items
	if len(rssItems) > rssItemCount {
		rssItems = rssItems[:rssItemCount]
	}
	if bytes, err := p.PublishXML(rssItems); err == nil {
		if err := os.WriteFile(filepath.Join(docsDir, "rss.xml"), bytes, 0o644); err != nil {
			return fmt.Errorf("failed to write rss.xml: %w", err)
		}
		v(p.verbose, "built rss.xml (%d items)", len(rssItems))
	} else {
		return fmt.Errorf("failed to generate rss.xml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(docsDir, "index.txt"), []byte(p.PublishText(items)), 0o644); err != nil {
		return fmt.Errorf("failed to write index.txt: %w", err)
	}

	// marker for GitHub Pages
	if err := os.WriteFile(filepath.Join(docsDir, ".nojekyll"), nil, 0o644); err != nil {
		return fmt.Errorf("failed to write .nojekyll: %w", err)
	}

	return nil
}

// build a single HTML page
func (p *Publisher) buildPage(docsDir, filename string, category Category, items []Item) error {
	title := p.site.Name
	if category != "" {
		title = fmt.Sprintf("%s - %s", category, p.site.Name)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{
		Site:           p.site,
		Title:          title,
		ActiveCategory: category,
		Categories:     KnownCategories(),
		Items:          items,
		Updated:        time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	}); err != nil {
		return fmt.Errorf("failed to render page '%s': %w", filename, err)
	}

	if err := os.WriteFile(filepath.Join(docsDir, filename), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write page '%s': %w", filename, err)
	}

	v(p.verbose, "built %s (%d items)", filename, len(items))

	return nil
}

// PublishXML returns XML bytes (application/rss+xml) of given items.
func (p *Publisher) PublishXML(items []Item) (bytes []byte, err error) {
	feed := &feeds.Feed{
		Title:       p.site.Name,
		Link:        &feeds.Link{Href: p.site.BaseURL},
		Description: p.site.Description,
		Author:      &feeds.Author{Name: p.site.Author, Email: p.site.Email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, item := range items {
		content := decorateHTML(item.Summary)
		content += fmt.Sprintf(`<p>via %s</p>`, template.HTMLEscapeString(item.Source))

		feedItems = append(feedItems, &feeds.Item{
			Id:    item.URL,
			Title: item.Title,
			Link: &feeds.Link{
				Href: item.URL,
			},
			Description: item.Summary,
			Content:     content,
			Created:     publishedTime(item),
		})
	}
	feed.Items = feedItems

	rssFeed := (&feeds.Rss{
		Feed: feed,
	}).RssFeed()

	return xml.MarshalIndent(rssFeed.FeedXml(), "", "  ")
}

// PublishText renders given items as a plain-text page.
func (p *Publisher) PublishText(items []Item) string {
	var sb strings.Builder

	sb.WriteString(p.site.Name + "\n")
	sb.WriteString(p.site.Description + "\n\n")

	for _, item := range items {
		fmt.Fprintf(&sb, "[%s] %s\n", displayDate(item.Published), item.Title)
		fmt.Fprintf(&sb, "%s\n", item.URL)
		fmt.Fprintf(&sb, "    via %s (%s)\n\n", item.Source, item.Category)
	}

	return sb.String()
}

// decorate given plain-text body as an HTML fragment for RSS content bodies
func decorateHTML(body string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return template.HTMLEscapeString(body)
	}

	return strings.TrimSpace(buf.String())
}

// format a stored timestamp for display
func displayDate(published string) string {
	if parsed, err := time.Parse(timestampFormat, published); err == nil {
		return parsed.Format(displayDateFormat)
	}
	if len(published) >= len(dayFormat) {
		return published[:len(dayFormat)]
	}

	return published
}

// parse a stored timestamp back into time.Time, zero when unparseable
func publishedTime(item Item) time.Time {
	parsed, _ := time.Parse(timestampFormat, item.Published)

	return parsed
}

// page template data
type pageData struct {
	Site           SiteInfo
	Title          string
	ActiveCategory Category
	Categories     []Category
	Items          []Item
	Updated        string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"displayDate": displayDate,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="description" content="{{.Site.Description}}">
    <title>{{.Title}}</title>
    <link rel="alternate" type="application/rss+xml" title="{{.Site.Name}} RSS" href="rss.xml">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        html { background: #000; color: #e0e0e0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace; font-size: 16px; line-height: 1.6; }
        body { max-width: 800px; margin: 0 auto; padding: 20px; }
        a { color: #4af; text-decoration: none; }
        a:hover { text-decoration: underline; }
        header { border-bottom: 1px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
        h1 { font-size: 1.5rem; font-weight: normal; letter-spacing: 2px; }
        h1 a { color: #fff; }
        .tagline { color: #666; font-size: 0.9rem; margin-top: 5px; }
        nav { margin-top: 15px; }
        nav a { margin-right: 15px; color: #888; font-size: 0.85rem; text-transform: uppercase; letter-spacing: 1px; }
        nav a:hover, nav a.active { color: #4af; }
        .article { margin-bottom: 25px; padding-bottom: 25px; border-bottom: 1px solid #1a1a1a; }
        .article:last-child { border-bottom: none; }
        .article-title { font-size: 1.1rem; line-height: 1.4; }
        .article-title a { color: #fff; }
        .article-meta { margin-top: 8px; font-size: 0.8rem; color: #666; }
        .article-meta a { color: #666; }
        .source { color: #4af; }
        .category { background: #1a1a1a; padding: 2px 8px; border-radius: 3px; margin-left: 10px; }
        .summary { margin-top: 8px; color: #888; font-size: 0.9rem; }
        footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #333; color: #444; font-size: 0.8rem; }
        footer a { color: #666; }
        .updated { color: #333; }
    </style>
</head>
<body>
    <header>
        <h1><a href="index.html">{{.Site.Name}}</a></h1>
        <p class="tagline">{{.Site.Description}}</p>
        <nav>
            <a href="index.html"{{if not .ActiveCategory}} class="active"{{end}}>all</a>
            {{- range .Categories}}
            <a href="{{.}}.html"{{if eq . $.ActiveCategory}} class="active"{{end}}>{{.}}</a>
            {{- end}}
            <a href="rss.xml">rss</a>
        </nav>
    </header>
    <main>
{{- if not .Items}}
        <p>No articles yet. Check back soon.</p>
{{- else}}
{{- range .Items}}
        <article class="article">
            <h2 class="article-title">
                <a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a>
            </h2>
            <div class="article-meta">
                <span class="date">{{displayDate .Published}}</span>
                <span class="source">via {{.Source}}</span>
                <a href="{{.Category}}.html" class="category">{{.Category}}</a>
            </div>
{{- if .Summary}}
            <p class="summary">{{.Summary}}</p>
{{- end}}
        </article>
{{- end}}
{{- end}}
    </main>
    <footer>
        <p>
            <a href="rss.xml">RSS Feed</a> &middot;
            Updated every 4 hours &middot;
            <span class="updated">Last: {{.Updated}}</span>
        </p>
        <p>Links to original sources. No content is copied.</p>
    </footer>
</body>
</html>
`))
