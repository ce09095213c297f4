package images

import (
	"fmt"
	"sort"
	"strings"
)

// Unmatched describes a name that resolved to the placeholder.
type Unmatched struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalizedName"`
	// Suggestion is the first name variation that would resolve to a real
	// asset, if any.
	Suggestion string `json:"suggestion,omitempty"`
}

// Report summarizes how a set of names maps onto the asset table.
type Report struct {
	Total           int         `json:"total"`
	Matched         int         `json:"matched"`
	Unmatched       int         `json:"unmatched"`
	MatchRate       string      `json:"matchRate"`
	UnmatchedPizzas []Unmatched `json:"unmatchedPizzas"`
}

// Report resolves every name and counts placeholder results.
func (r *Resolver) Report(names []string) Report {
	rep := Report{Total: len(names), MatchRate: "0%", UnmatchedPizzas: []Unmatched{}}
	if len(names) == 0 {
		return rep
	}
	for _, name := range names {
		if !r.Resolve(name).IsPlaceholder() {
			rep.Matched++
			continue
		}
		rep.Unmatched++
		u := Unmatched{Name: name, NormalizedName: strings.ToLower(strings.TrimSpace(name))}
		if u.NormalizedName == "" {
			u.NormalizedName = "undefined"
		}
		for _, v := range NameVariations(name) {
			if a := r.Resolve(v); !a.IsPlaceholder() {
				u.Suggestion = v
				break
			}
		}
		rep.UnmatchedPizzas = append(rep.UnmatchedPizzas, u)
	}
	rep.MatchRate = fmt.Sprintf("%.1f%%", float64(rep.Matched)/float64(rep.Total)*100)
	return rep
}

// AvailableKeys returns the sorted lookup keys, placeholder excluded.
func (r *Resolver) AvailableKeys() []string {
	keys := make([]string, 0, len(r.table.entries))
	for _, e := range r.table.entries {
		if e.Key != PlaceholderKey {
			keys = append(keys, e.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Assets returns each distinct asset once, in table order.
func (t *Table) Assets() []Asset {
	seen := make(map[string]struct{})
	var out []Asset
	for _, e := range t.entries {
		if _, ok := seen[e.Asset.Key]; ok {
			continue
		}
		seen[e.Asset.Key] = struct{}{}
		out = append(out, e.Asset)
	}
	return out
}
