// Package vocab maps free-text wardrobe attributes onto the closed
// vocabularies the rest of the service works with.
package vocab

import (
	"strings"

	"wardrobeapi/languageutil"
)

type Kind int

const (
	Category Kind = iota
	Color
	Style
	Season
)

func (k Kind) String() string {
	switch k {
	case Category:
		return "category"
	case Color:
		return "color"
	case Style:
		return "style"
	case Season:
		return "season"
	default:
		return "unknown"
	}
}

const (
	Top       = "Top"
	Bottom    = "Bottom"
	Dress     = "Dress"
	Outerwear = "Outerwear"
	Shoes     = "Shoes"
	Accessory = "Accessory"
)

const (
	Black      = "Black"
	White      = "White"
	Gray       = "Gray"
	Navy       = "Navy"
	Blue       = "Blue"
	Red        = "Red"
	Green      = "Green"
	Yellow     = "Yellow"
	Orange     = "Orange"
	Pink       = "Pink"
	Purple     = "Purple"
	Brown      = "Brown"
	Beige      = "Beige"
	Cream      = "Cream"
	Gold       = "Gold"
	Silver     = "Silver"
	Multicolor = "Multicolor"
)

const (
	Casual     = "Casual"
	Formal     = "Formal"
	Business   = "Business"
	Sporty     = "Sporty"
	Elegant    = "Elegant"
	Bohemian   = "Bohemian"
	Streetwear = "Streetwear"
	Vintage    = "Vintage"
	Minimalist = "Minimalist"
	Party      = "Party"
)

const (
	Spring    = "Spring"
	Summer    = "Summer"
	Fall      = "Fall"
	Winter    = "Winter"
	AllSeason = "All Season"
)

var (
	Categories = []string{Top, Bottom, Dress, Outerwear, Shoes, Accessory}
	Colors     = []string{Black, White, Gray, Navy, Blue, Red, Green, Yellow, Orange, Pink, Purple, Brown, Beige, Cream, Gold, Silver, Multicolor}
	Styles     = []string{Casual, Formal, Business, Sporty, Elegant, Bohemian, Streetwear, Vintage, Minimalist, Party}
	Seasons    = []string{Spring, Summer, Fall, Winter, AllSeason}
)

// DefaultCategory is used when a category token is empty, unknown or ambiguous.
const DefaultCategory = Top

type MatchKind string

const (
	Exact     MatchKind = "exact"
	Fuzzy     MatchKind = "fuzzy"
	Fallback  MatchKind = "fallback"
	Unmatched MatchKind = "none"
)

// Match is the outcome of canonicalizing a single token. Value is empty when
// Kind is Unmatched.
type Match struct {
	Value string
	Kind  MatchKind
}

func (m Match) Matched() bool {
	return m.Kind == Exact || m.Kind == Fuzzy
}

func Values(kind Kind) []string {
	switch kind {
	case Category:
		return Categories
	case Color:
		return Colors
	case Style:
		return Styles
	case Season:
		return Seasons
	}
	return nil
}

func rules(kind Kind) []rule {
	switch kind {
	case Category:
		return categoryRules
	case Color:
		return colorRules
	case Style:
		return styleRules
	case Season:
		return seasonRules
	}
	return nil
}

// IsCanonical reports whether value is spelled exactly as in the vocabulary.
func IsCanonical(kind Kind, value string) bool {
	for _, v := range Values(kind) {
		if v == value {
			return true
		}
	}
	return false
}

// Canonicalize maps token onto kind's vocabulary. Categories never come back
// unmatched: anything unknown falls back to DefaultCategory.
func Canonicalize(kind Kind, token string) Match {
	m := lookup(kind, languageutil.Fold(token))
	if !m.Matched() && kind == Category {
		return Match{Value: DefaultCategory, Kind: Fallback}
	}
	return m
}

func lookup(kind Kind, folded string) Match {
	if folded == "" {
		return Match{Kind: Unmatched}
	}
	for _, v := range Values(kind) {
		if languageutil.Fold(v) == folded {
			return Match{Value: v, Kind: Exact}
		}
	}
	for _, r := range rules(kind) {
		if _, ok := languageutil.ContainsAnyWord(folded, r.phrases); ok {
			return Match{Value: r.value, Kind: Fuzzy}
		}
	}
	return Match{Kind: Unmatched}
}

// CanonicalizeCategory always returns a vocabulary category.
func CanonicalizeCategory(token string) string {
	return Canonicalize(Category, token).Value
}

// CanonicalizeAll canonicalizes every token, splitting compound tokens such
// as "black/white" or "spring and summer", and drops anything unmatched.
// Output keeps first-seen order without duplicates. Seasons additionally go
// through NormalizeSeasons.
func CanonicalizeAll(kind Kind, tokens []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, token := range tokens {
		for _, part := range splitToken(token) {
			m := lookup(kind, languageutil.Fold(part))
			if !m.Matched() || seen[m.Value] {
				continue
			}
			seen[m.Value] = true
			out = append(out, m.Value)
		}
	}
	if kind == Season {
		return NormalizeSeasons(out)
	}
	return out
}

func splitToken(token string) []string {
	parts := strings.FieldsFunc(token, func(r rune) bool {
		switch r {
		case ',', '/', '&', ';', '|', '+':
			return true
		}
		return false
	})
	var out []string
	for _, p := range parts {
		for _, q := range strings.Split(strings.ToLower(p), " and ") {
			if q = strings.TrimSpace(q); q != "" {
				out = append(out, q)
			}
		}
	}
	return out
}

// NormalizeSeasons collapses the four discrete seasons into All Season, and
// drops All Season once any specific season is known.
func NormalizeSeasons(seasons []string) []string {
	present := map[string]bool{}
	for _, s := range seasons {
		present[s] = true
	}
	if present[Spring] && present[Summer] && present[Fall] && present[Winter] {
		return []string{AllSeason}
	}
	specific := present[Spring] || present[Summer] || present[Fall] || present[Winter]
	out := []string{}
	for _, s := range seasons {
		if s == AllSeason && specific {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Mentions lists the distinct vocabulary values named anywhere in free text,
// in table order. A phrase consumed by an earlier row is not matched again,
// so "dress shoes" names Shoes only.
func Mentions(kind Kind, text string) []string {
	working := languageutil.Fold(text)
	var out []string
	seen := map[string]bool{}
	for _, r := range rules(kind) {
		for _, p := range r.phrases {
			if !languageutil.ContainsWord(working, p) {
				continue
			}
			working = languageutil.RemoveWord(working, p)
			if !seen[r.value] {
				seen[r.value] = true
				out = append(out, r.value)
			}
		}
	}
	return out
}
