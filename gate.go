package au

import (
	"cmp"
	"context"
	"log"
	"slices"
	"strings"
)

const (
	// NeutralScore is recorded when scoring is skipped or fails.
	NeutralScore = 5.0

	acceptanceThreshold = 6.0

	abstractExcerptLength = 500
)

// substrings marking maintenance/noise entries, matched case-insensitively
// against title and raw summary
var denylist = []string{
	"scheduled",
	"maintenance",
	"downtime",
	"outage",
	"webinar",
	"sponsored",
}

// Candidate is a fetched feed entry that passed link/duplicate filtering but
// has not yet been admitted.
type Candidate struct {
	Item       Item
	RawSummary string
}

// Denylisted checks whether given title or raw summary matches the noise
// denylist.
func Denylisted(title, summary string) bool {
	title = strings.ToLower(title)
	summary = strings.ToLower(summary)

	for _, word := range denylist {
		if strings.Contains(title, word) || strings.Contains(summary, word) {
			return true
		}
	}

	return false
}

// admit selects the subset of candidates to persist, bounded by `remaining`
// quota slots.
//
// Denylisted candidates never reach scoring and are never stored. Feeds
// flagged for scoring are ranked by the scorer (stable, ties keep fetch order)
// and cut at the acceptance threshold; the rest are taken in feed order. When
// no scorer is available, every candidate keeps the neutral score and none are
// excluded for low score.
func admit(ctx context.Context, candidates []Candidate, feed FeedConfig, remaining int, scorer Scorer, verbose bool) (admitted []Item) {
	candidates = slices.DeleteFunc(slices.Clone(candidates), func(c Candidate) bool {
		if Denylisted(c.Item.Title, c.RawSummary) {
			v(verbose, "dropping denylisted entry: '%s'", c.Item.Title)
			return true
		}
		return false
	})

	if remaining <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := false
	if feed.RequiresScoring && scorer != nil {
		scored = true

		for i := range candidates {
			score, err := scorer.Score(
				ctx,
				candidates[i].Item.Title,
				excerpt(candidates[i].RawSummary, abstractExcerptLength),
			)
			if err != nil {
				// a failed scoring degrades to the neutral score instead of
				// aborting the batch
				log.Printf("failed to score item '%s': %s", candidates[i].Item.Title, err)
				score = NeutralScore
			}
			candidates[i].Item.Score = clampScore(score)
		}

		slices.SortStableFunc(candidates, func(a, b Candidate) int {
			return cmp.Compare(b.Item.Score, a.Item.Score)
		})
	}

	for _, candidate := range candidates {
		if len(admitted) >= remaining {
			break
		}
		if scored && candidate.Item.Score < acceptanceThreshold {
			// sorted descending, so everything after this is below threshold
			break
		}

		admitted = append(admitted, candidate.Item)
	}

	return admitted
}

// clamp given score into the scorer's bounded range
func clampScore(score float64) float64 {
	return min(max(score, 0.0), 10.0)
}
