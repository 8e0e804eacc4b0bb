package au

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tailscale/hujson"
)

const (
	fakeUserAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0`

	fetchURLTimeoutSeconds = 10 // 10 seconds' timeout for fetching feed documents

	itemIDLength = 12

	timestampFormat = "2006-01-02 15:04:05" // sortable, UTC, no timezone suffix
	dayFormat       = "2006-01-02"

	ellipsis = "..."
)

var whitespaces = regexp.MustCompile(`\s+`)

// StandardizeJSON standardizes given JSON (JWCC) bytes.
func StandardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()

	return ast.Pack(), nil
}

// print verbose message
func v(verbose bool, format string, v ...any) {
	if verbose {
		log.Printf("[verbose] %s", fmt.Sprintf(format, v...))
	}
}

// ItemID derives the store's primary key from an article URL.
//
// The same URL always yields the same id.
func ItemID(url string) string {
	sum := sha256.Sum256([]byte(url))

	return hex.EncodeToString(sum[:])[:itemIDLength]
}

// stripText strips markup tags from given text and collapses runs of
// whitespace into single spaces.
func stripText(text string) string {
	if strings.Contains(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	return strings.TrimSpace(whitespaces.ReplaceAllString(text, " "))
}

// cleanSummary cleans given raw summary and truncates it to `maxLength`
// characters. Truncation cuts at the last space boundary before the limit and
// appends an ellipsis, so the result never splits a word.
func cleanSummary(summary string, maxLength int) string {
	cleaned := stripText(summary)
	if len(cleaned) <= maxLength {
		return cleaned
	}

	cut := cleaned[:maxLength-len(ellipsis)]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + ellipsis
}

// excerpt cleans given text and truncates it to at most `maxLength`
// characters, for use as a scorer's abstract input.
func excerpt(text string, maxLength int) string {
	cleaned := stripText(text)
	if len(cleaned) > maxLength {
		cleaned = cleaned[:maxLength]
	}

	return cleaned
}

// fetch the raw feed document from given url
func fetchFeedXML(ctx context.Context, url string, verbose bool) (bytes []byte, err error) {
	client := &http.Client{
		Timeout: time.Duration(fetchURLTimeoutSeconds) * time.Second,
	}

	v(verbose, "fetching feed document from url: %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fakeUserAgent)
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed document: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("http error %d from url: '%s'", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
