package stylist

import (
	"strings"

	"wardrobeapi/vocab"
)

// Inventory indexes one request's wardrobe snapshot by item id. It is built
// once per request and only read afterwards.
type Inventory struct {
	items []ClosetItem
	byID  map[string]ClosetItem
}

func NewInventory(items []ClosetItem) *Inventory {
	inv := &Inventory{
		items: make([]ClosetItem, 0, len(items)),
		byID:  make(map[string]ClosetItem, len(items)),
	}
	for _, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			continue
		}
		if _, dup := inv.byID[item.ID]; dup {
			continue
		}
		if !vocab.IsCanonical(vocab.Category, item.Category) {
			item.Category = vocab.CanonicalizeCategory(item.Category)
		}
		item.Colors = vocab.CanonicalizeAll(vocab.Color, item.Colors)
		item.Styles = vocab.CanonicalizeAll(vocab.Style, item.Styles)
		item.Seasons = vocab.CanonicalizeAll(vocab.Season, item.Seasons)
		inv.items = append(inv.items, item)
		inv.byID[item.ID] = item
	}
	return inv
}

func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Items returns the indexed items in snapshot order.
func (inv *Inventory) Items() []ClosetItem {
	return inv.items
}

func (inv *Inventory) Lookup(id string) (ClosetItem, bool) {
	item, ok := inv.byID[strings.TrimSpace(id)]
	return item, ok
}

// Validate keeps only references that resolve in the snapshot. Unknown and
// repeated ids are dropped, never substituted, and the category always comes
// from the snapshot rather than from the claim. The second return value is the
// number of dropped references.
func (inv *Inventory) Validate(c OutfitCandidate) (OutfitCandidate, int) {
	out := c
	out.Items = make([]ItemReference, 0, len(c.Items))
	out.MissingItems = append([]string{}, c.MissingItems...)
	dropped := 0
	seen := map[string]bool{}
	for _, ref := range c.Items {
		item, ok := inv.Lookup(ref.ItemID)
		if !ok || seen[item.ID] {
			dropped++
			continue
		}
		seen[item.ID] = true
		out.Items = append(out.Items, ItemReference{
			ItemID:   item.ID,
			Category: item.Category,
			Reason:   strings.TrimSpace(ref.Reason),
		})
	}
	return out, dropped
}
