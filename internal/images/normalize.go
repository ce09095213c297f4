package images

import (
	"regexp"
	"strings"
)

type replacement struct {
	re   *regexp.Regexp
	with string
}

func wordRule(find, with string) replacement {
	pattern := `\b` + regexp.QuoteMeta(find) + `\b`
	if with == "" {
		pattern += `\s*`
	}
	return replacement{re: regexp.MustCompile(pattern), with: with}
}

// nameRules run in order: filler words are dropped first, then known
// variations are rewritten to the names used by the asset table.
var nameRules = []replacement{
	wordRule("classic", ""),
	wordRule("original", ""),
	wordRule("traditional", ""),
	wordRule("special", ""),
	wordRule("deluxe", ""),
	wordRule("signature", ""),
	wordRule("homemade", ""),
	wordRule("house", ""),
	wordRule("ultimate", ""),
	wordRule("fresh", ""),

	wordRule("chicken bbq", "bbq chicken"),
	wordRule("bbq chick", "bbq chicken"),
	wordRule("buffalo chick", "buffalo chicken"),
	wordRule("truffled mushroom", "mushroom truffle"),
	wordRule("mushroom with truffle", "mushroom truffle"),
	wordRule("truffle & mushroom", "mushroom truffle"),
	wordRule("veggie pesto", "pesto veggie"),
	wordRule("tropical", "hawaiian"),
	wordRule("pineapple supreme", "hawaiian"),
	wordRule("veggie supreme", "vegetarian"),
	wordRule("garden veggie", "vegetarian"),
	wordRule("vegan", "vegetarian"),
}

// NormalizeName lowercases a pizza name, drops marketing filler words and
// rewrites known variations to table names.
func NormalizeName(name string) string {
	n := joinWords(strings.ToLower(name), " ")
	if n == "" {
		return ""
	}
	for _, r := range nameRules {
		n = r.re.ReplaceAllString(n, r.with)
	}
	return joinWords(n, " ")
}

// NameVariations lists the spellings worth trying for name, most specific
// first and without duplicates or empty strings.
func NameVariations(name string) []string {
	n := NormalizeName(name)
	if n == "" {
		return nil
	}
	candidates := []string{
		n,
		joinWords(n, "-"),
		strings.ReplaceAll(n, "-", " "),
	}
	if fields := strings.Fields(n); len(fields) > 0 {
		candidates = append(candidates, fields[0])
	}
	if strings.HasSuffix(n, " pizza") {
		candidates = append(candidates, strings.TrimSuffix(n, " pizza"))
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
