package stylist

import (
	"wardrobeapi/languageutil"
	"wardrobeapi/vocab"
)

// Required slot labels, as reported in OutfitCandidate.MissingItems.
const (
	SlotTop           = "Top"
	SlotBottomOrDress = "Bottom or Dress"
	SlotShoes         = "Shoes"
)

var RequiredSlots = []string{SlotTop, SlotBottomOrDress, SlotShoes}

// SlotFor returns the required slot a category fills, or "" for categories
// no slot requires (outerwear, accessories).
func SlotFor(category string) string {
	switch category {
	case vocab.Top:
		return SlotTop
	case vocab.Bottom, vocab.Dress:
		return SlotBottomOrDress
	case vocab.Shoes:
		return SlotShoes
	}
	return ""
}

// MissingSlots lists the required slots none of the items fill.
func MissingSlots(items []ItemReference) []string {
	filled := map[string]bool{}
	for _, item := range items {
		filled[SlotFor(item.Category)] = true
	}
	missing := []string{}
	for _, slot := range RequiredSlots {
		if !filled[slot] {
			missing = append(missing, slot)
		}
	}
	return missing
}

// CheckCompleteness records every unfilled required slot in MissingItems.
// Partial outfits are kept; an outfit with no items left is flagged with
// NoUsableItems instead of being dropped. Labels the model reported for
// categories the outfit does have are removed.
func CheckCompleteness(c OutfitCandidate) OutfitCandidate {
	present := map[string]bool{}
	for _, item := range c.Items {
		present[item.Category] = true
		present[SlotFor(item.Category)] = true
	}

	missing := []string{}
	seen := map[string]bool{}
	add := func(label string) {
		key := languageutil.Fold(label)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		missing = append(missing, label)
	}

	for _, slot := range MissingSlots(c.Items) {
		add(slot)
	}
	for _, label := range c.MissingItems {
		normalized, satisfied := normalizeMissingLabel(label, present)
		if !satisfied {
			add(normalized)
		}
	}

	out := c
	out.MissingItems = missing
	out.NoUsableItems = len(c.Items) == 0
	if out.Items == nil {
		out.Items = []ItemReference{}
	}
	return out
}

// normalizeMissingLabel rewrites a model supplied label onto a slot label
// when it names a required category, and reports whether the outfit already
// covers it.
func normalizeMissingLabel(label string, present map[string]bool) (string, bool) {
	if languageutil.Fold(label) == languageutil.Fold(SlotBottomOrDress) {
		return SlotBottomOrDress, present[SlotBottomOrDress]
	}
	m := vocab.Canonicalize(vocab.Category, label)
	if !m.Matched() {
		return label, false
	}
	if slot := SlotFor(m.Value); slot != "" {
		return slot, present[slot]
	}
	return m.Value, present[m.Value]
}
