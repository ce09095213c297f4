// Package images maps free-text pizza names to static image assets.
package images

import "fmt"

// PlaceholderKey is the table key of the fallback asset.
const PlaceholderKey = "placeholder"

// Asset is a static bitmap shipped with the storefront.
type Asset struct {
	Key  string `json:"key"`
	File string `json:"file"`
}

// IsPlaceholder reports whether a is the fallback asset.
func (a Asset) IsPlaceholder() bool { return a.Key == PlaceholderKey }

// Entry binds a lookup key to an asset. Several keys may share an asset.
type Entry struct {
	Key   string
	Asset Asset
}

// Table is an ordered lookup table. Iteration order is insertion order and
// decides ties during partial matching.
type Table struct {
	entries     []Entry
	index       map[string]int
	placeholder Asset
}

// NewTable builds a table from entries. Exactly one entry must use
// PlaceholderKey and keys must be unique.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{index: make(map[string]int, len(entries))}
	found := false
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("entry %d: empty key", i)
		}
		if _, dup := t.index[e.Key]; dup {
			return nil, fmt.Errorf("entry %d: duplicate key %q", i, e.Key)
		}
		t.index[e.Key] = i
		if e.Key == PlaceholderKey {
			t.placeholder = e.Asset
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("table has no %q entry", PlaceholderKey)
	}
	t.entries = append([]Entry(nil), entries...)
	return t, nil
}

// Lookup returns the asset stored under key.
func (t *Table) Lookup(key string) (Asset, bool) {
	i, ok := t.index[key]
	if !ok {
		return Asset{}, false
	}
	return t.entries[i].Asset, true
}

// Placeholder returns the fallback asset.
func (t *Table) Placeholder() Asset { return t.placeholder }

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []Entry { return append([]Entry(nil), t.entries...) }

var (
	margherita      = Asset{Key: "margherita", File: "margherita.jpg"}
	pepperoni       = Asset{Key: "pepperoni", File: "pepperoni.jpg"}
	vegetarian      = Asset{Key: "vegetarian", File: "vegetarian.jpg"}
	bbqChicken      = Asset{Key: "bbq-chicken", File: "bbq-chicken.jpg"}
	supreme         = Asset{Key: "supreme", File: "supreme.jpg"}
	mushroomTruffle = Asset{Key: "mushroom-truffle", File: "mushroom-truffle.jpg"}
	hawaiian        = Asset{Key: "hawaiian", File: "hawaiian.jpg"}
	buffaloChicken  = Asset{Key: "buffalo-chicken", File: "buffalo-chicken.jpg"}
	pestoVeggie     = Asset{Key: "pesto-veggie", File: "pesto-veggie.jpg"}
	placeholder     = Asset{Key: PlaceholderKey, File: "pizza-placeholder.jpg"}
)

// defaultEntries is the storefront's fixed asset table.
var defaultEntries = []Entry{
	// canonical names
	{"margherita", margherita},
	{"pepperoni", pepperoni},
	{"vegetarian", vegetarian},
	{"veggie", vegetarian},
	{"supreme", supreme},
	{"hawaiian", hawaiian},

	// space delimited
	{"bbq chicken", bbqChicken},
	{"buffalo chicken", buffaloChicken},
	{"mushroom truffle", mushroomTruffle},
	{"pesto veggie", pestoVeggie},

	// hyphen delimited
	{"bbq-chicken", bbqChicken},
	{"buffalo-chicken", buffaloChicken},
	{"mushroom-truffle", mushroomTruffle},
	{"pesto-veggie", pestoVeggie},

	// common variations
	{"classic margherita", margherita},
	{"classic pepperoni", pepperoni},
	{"veggie supreme", vegetarian},
	{"vegetable", vegetarian},
	{"classic vegetarian", vegetarian},
	{"bbq", bbqChicken},
	{"buffalo", buffaloChicken},
	{"mushroom", mushroomTruffle},
	{"truffle", mushroomTruffle},
	{"pesto", pestoVeggie},
	{"ham and pineapple", hawaiian},
	{"ham & pineapple", hawaiian},
	{"pineapple", hawaiian},

	{PlaceholderKey, placeholder},
}

// DefaultTable returns the built-in asset table.
func DefaultTable() *Table {
	t, err := NewTable(defaultEntries)
	if err != nil {
		panic(err)
	}
	return t
}
