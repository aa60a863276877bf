package languageutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Casers and transformers keep internal state, so every call builds its own.

// Fold lowercases s the unicode way, strips diacritics and collapses every
// run of punctuation or whitespace into a single space. "Off-White" and
// "off white" fold to the same string.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if r == '’' || r == '‘' {
			r = '\''
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// Title renders a label for display, e.g. "job interview" -> "Job Interview".
func Title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// ContainsWord reports whether phrase occurs in text on word boundaries.
// Both arguments are expected to be folded already.
func ContainsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// RemoveWord blanks every word-bounded occurrence of phrase in text.
func RemoveWord(text, phrase string) string {
	if phrase == "" {
		return text
	}
	padded := " " + text + " "
	needle := " " + phrase + " "
	for strings.Contains(padded, needle) {
		padded = strings.ReplaceAll(padded, needle, "  ")
	}
	return strings.Join(strings.Fields(padded), " ")
}

// ContainsAnyWord returns the first phrase found in text, if any.
func ContainsAnyWord(text string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if ContainsWord(text, p) {
			return p, true
		}
	}
	return "", false
}

var inflections = []string{"", "s", "es", "ing", "ed", "er", "ers"}

// ContainsInflected is ContainsWord that also accepts a regular English
// ending on the phrase's last word: "wedding" finds "weddings", "party" finds
// "parties" and "partying", "hike" finds "hiking". The phrase still has to
// start a word, so "date" does not match "update".
func ContainsInflected(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	stems := map[string][]string{phrase: inflections}
	if strings.HasSuffix(phrase, "y") {
		stems[strings.TrimSuffix(phrase, "y")+"i"] = []string{"es", "ed"}
	}
	if strings.HasSuffix(phrase, "e") {
		stems[strings.TrimSuffix(phrase, "e")] = []string{"ing", "ed", "er", "ers"}
	}
	padded := " " + text + " "
	for stem, endings := range stems {
		needle := " " + stem
		for from := 0; ; {
			i := strings.Index(padded[from:], needle)
			if i < 0 {
				break
			}
			rest := padded[from+i+len(needle):]
			word := rest[:strings.IndexByte(rest, ' ')]
			for _, ending := range endings {
				if word == ending {
					return true
				}
			}
			from += i + 1
		}
	}
	return false
}
