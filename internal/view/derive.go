package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vault-md/launchdeck/internal/spacex"
)

// Deriver computes displayed sets using the collation rules of one language.
// The zero value collates as English.
type Deriver struct {
	lang language.Tag
}

// NewDeriver returns a Deriver for lang.
func NewDeriver(lang language.Tag) Deriver {
	return Deriver{lang: lang}
}

// NewDeriverForLocale parses a BCP 47 locale such as "en" or "de-CH".
func NewDeriverForLocale(locale string) (Deriver, error) {
	if locale == "" {
		return Deriver{}, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Deriver{}, err
	}
	return NewDeriver(tag), nil
}

// Derive filters, sorts and pages records with English collation.
func Derive(state State, records []spacex.Launch, rocketNames map[string]string) ([]spacex.Launch, int) {
	return Deriver{}.Derive(state, records, rocketNames)
}

// Derive returns the page of records selected by state and the number of
// records that passed the filters. records is not modified.
func (d Deriver) Derive(state State, records []spacex.Launch, rocketNames map[string]string) ([]spacex.Launch, int) {
	filtered := make([]spacex.Launch, 0, len(records))
	for _, l := range records {
		if state.Year != "" && l.Year() != state.Year {
			continue
		}
		if !matchStatus(state.Status, l) {
			continue
		}
		filtered = append(filtered, l)
	}

	lang := d.lang
	if lang == (language.Tag{}) {
		lang = language.English
	}
	col := collate.New(lang)
	keys := make([]string, len(filtered))
	for i, l := range filtered {
		keys[i] = sortValue(state.SortKey, l, rocketNames)
	}
	idx := make([]int, len(filtered))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := col.CompareString(keys[idx[a]], keys[idx[b]])
		if !state.SortAsc {
			c = -c
		}
		return c < 0
	})
	sorted := make([]spacex.Launch, len(filtered))
	for i, j := range idx {
		sorted[i] = filtered[j]
	}

	total := len(sorted)
	if state.PageSize < 1 {
		return sorted, total
	}
	page := max(state.Page, 1)
	start := (page - 1) * state.PageSize
	if start >= total {
		return []spacex.Launch{}, total
	}
	end := min(start+state.PageSize, total)
	return sorted[start:end], total
}

func matchStatus(s Status, l spacex.Launch) bool {
	switch s {
	case StatusSuccess:
		return l.Success != nil && *l.Success
	case StatusFailure:
		return l.Success != nil && !*l.Success
	default:
		return true
	}
}

// sortValue returns the string compared for key. Missing values are "".
func sortValue(key SortKey, l spacex.Launch, rocketNames map[string]string) string {
	switch key {
	case SortByName:
		return l.Name
	case SortByRocket:
		return rocketNames[l.Rocket]
	default:
		return l.DateUTC
	}
}
