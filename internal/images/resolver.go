package images

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// Step names the stage of Resolve that produced an asset.
type Step string

const (
	StepExact       Step = "exact"
	StepHyphenated  Step = "hyphenated"
	StepSpaced      Step = "spaced"
	StepPartial     Step = "partial"
	StepFirstWord   Step = "first_word"
	StepPlaceholder Step = "placeholder"
)

// joinWords collapses every run of Unicode white space in s into sep.
func joinWords(s, sep string) string { return strings.Join(strings.Fields(s), sep) }

// Resolver selects an asset for a catalog item name. It is immutable and
// safe for concurrent use.
type Resolver struct {
	table *Table
	debug obs.DebugLogger
}

// NewResolver returns a Resolver over table. Resolutions are logged through
// debug, which is a no-op outside debug mode.
func NewResolver(table *Table, debug obs.DebugLogger) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table, debug: debug}
}

// Table returns the lookup table.
func (r *Resolver) Table() *Table { return r.table }

// Resolve returns the asset for name, or the placeholder. It never fails.
func (r *Resolver) Resolve(name string) Asset {
	a, _ := r.ResolveStep(name)
	return a
}

type partialMatch struct {
	asset Asset
	score float64
}

// ResolveStep is Resolve plus the step that matched. Steps run in order of
// decreasing confidence and the first step with a result wins.
func (r *Resolver) ResolveStep(name string) (Asset, Step) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		r.debug.Log("image_no_name", "asset", PlaceholderKey)
		return r.table.Placeholder(), StepPlaceholder
	}

	if a, ok := r.table.Lookup(normalized); ok {
		return r.matched(name, a, StepExact)
	}
	if a, ok := r.table.Lookup(joinWords(normalized, "-")); ok {
		return r.matched(name, a, StepHyphenated)
	}
	if a, ok := r.table.Lookup(strings.ReplaceAll(normalized, "-", " ")); ok {
		return r.matched(name, a, StepSpaced)
	}

	nameLen := float64(utf8.RuneCountInString(normalized))
	var matches []partialMatch
	for _, e := range r.table.entries {
		if e.Key == PlaceholderKey {
			continue
		}
		if strings.Contains(normalized, e.Key) || strings.Contains(e.Key, normalized) {
			score := float64(utf8.RuneCountInString(e.Key)) / nameLen * 10
			matches = append(matches, partialMatch{asset: e.Asset, score: score})
		}
	}
	if len(matches) > 0 {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
		return r.matched(name, matches[0].asset, StepPartial)
	}

	if first := strings.Fields(normalized); len(first) > 0 {
		for _, e := range r.table.entries {
			if strings.Contains(e.Key, first[0]) || strings.Contains(first[0], e.Key) {
				return r.matched(name, e.Asset, StepFirstWord)
			}
		}
	}

	r.debug.Log("image_no_match", "name", normalized, "asset", PlaceholderKey)
	return r.table.Placeholder(), StepPlaceholder
}

func (r *Resolver) matched(name string, a Asset, step Step) (Asset, Step) {
	r.debug.Log("image_match", "name", name, "asset", a.Key, "step", string(step))
	return a, step
}
