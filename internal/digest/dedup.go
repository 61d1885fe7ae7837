// Package digest collapses the categorized page set into a single
// byte-budgeted text artifact: cross-page sentence deduplication,
// company-signal extraction, and priority-ordered assembly with
// progressive trimming.
package digest

import (
	"strings"

	"sitedigest/internal/clean"
	"sitedigest/internal/models"
)

// overlapThreshold is the word-overlap ratio above which a sentence
// counts as a near-duplicate of one seen earlier.
const overlapThreshold = 0.5

// State is the pool of sentences kept so far. It threads across all
// pages of one crawl, in priority order, so higher-priority pages keep
// their content and later pages lose whatever repeats it. Scoped to a
// single digest assembly and discarded afterwards.
type State struct {
	sentences []map[string]struct{}
}

func NewState() *State { return &State{} }

// Filter returns the sentences of text that do not near-duplicate any
// previously kept sentence, adding the survivors to the pool.
func (st *State) Filter(text string) string {
	var kept []string
	for _, s := range clean.SplitSentences(text) {
		words := wordSet(s)
		if st.isDuplicate(words) {
			continue
		}
		st.sentences = append(st.sentences, words)
		kept = append(kept, s)
	}
	return strings.Join(kept, " ")
}

func (st *State) isDuplicate(words map[string]struct{}) bool {
	for _, prev := range st.sentences {
		if overlap(words, prev) > overlapThreshold {
			return true
		}
	}
	return false
}

// DedupePages keeps the first page discovered for each category.
// Repeatable categories may appear any number of times; "other" is
// always repeatable.
func DedupePages(pages []models.ExtractedPage, repeatable map[models.Category]bool) []models.ExtractedPage {
	seen := make(map[models.Category]bool)
	out := make([]models.ExtractedPage, 0, len(pages))
	for _, p := range pages {
		if p.Category == models.CategoryOther || repeatable[p.Category] {
			out = append(out, p)
			continue
		}
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p)
	}
	return out
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, `.,!?;:"'()[]`)
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// overlap is |intersection| / min(|a|, |b|) over lowercase word sets.
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
