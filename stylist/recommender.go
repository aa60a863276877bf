package stylist

import (
	"context"
	"fmt"
	"strings"

	"wardrobeapi/languageutil"
	"wardrobeapi/vocab"
)

type occasionLabel struct {
	label    string
	keywords []string
}

// occasionBucket is one row of the recommender table. Labels are tried in
// order; the last one carries the bucket's generic keywords.
type occasionBucket struct {
	name   string
	labels []occasionLabel
	styles []string
	colors []string
}

var occasionBuckets = []occasionBucket{
	{
		name: "formal",
		labels: []occasionLabel{
			{"Job Interview", []string{"interview"}},
			{"Business Meeting", []string{"meeting"}},
			{"Wedding Guest", []string{"wedding"}},
			{"Formal Occasion", []string{"formal", "office", "work", "business", "presentation", "conference", "gala"}},
		},
		styles: []string{vocab.Formal, vocab.Elegant, vocab.Business},
		colors: []string{vocab.Black, vocab.Navy, vocab.Gray, vocab.White},
	},
	{
		name: "party",
		labels: []occasionLabel{
			{"Date Night", []string{"date"}},
			{"Dinner Out", []string{"dinner"}},
			{"Cocktail Party", []string{"cocktail"}},
			{"Party / Evening", []string{"party", "evening", "night out", "club", "clubbing", "celebration", "birthday"}},
		},
		styles: []string{vocab.Party, vocab.Elegant},
		colors: []string{vocab.Black, vocab.Red, vocab.Gold, vocab.Silver, vocab.Purple},
	},
	{
		name: "athletic",
		labels: []occasionLabel{
			{"Yoga Session", []string{"yoga", "pilates"}},
			{"Running", []string{"running", "jog", "jogging", "marathon"}},
			{"Hiking", []string{"hiking", "hike", "trail"}},
			{"Workout", []string{"gym", "workout", "exercise", "sport", "training", "athletic"}},
		},
		styles: []string{vocab.Sporty},
	},
	{
		name: "casual",
		labels: []occasionLabel{
			{"Brunch", []string{"brunch"}},
			{"Shopping Trip", []string{"shopping", "mall"}},
			{"Casual Day", []string{"casual", "weekend", "coffee", "errand", "relax", "picnic", "school", "class", "park"}},
		},
		styles: []string{vocab.Casual, vocab.Streetwear, vocab.Minimalist},
		colors: []string{vocab.Blue, vocab.White, vocab.Beige, vocab.Gray},
	},
}

const (
	defaultOutfitLabel  = "Everyday Outfit"
	emptyWardrobeLabel  = "Empty Wardrobe"
	emptyWardrobeReason = "Your closet is empty. Add some items to your wardrobe to get outfit recommendations."
)

// Recommender answers from keyword rules and the wardrobe alone; it never
// calls the generative model.
type Recommender struct {
	wardrobe WardrobeStore
}

func NewRecommender(wardrobe WardrobeStore) *Recommender {
	return &Recommender{wardrobe: wardrobe}
}

func (r *Recommender) GetDeterministicRecommendation(ctx context.Context, userID uint, message string) (*Recommendation, error) {
	items, err := r.wardrobe.GetInventorySnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wardrobe snapshot: %w", err)
	}
	return &Recommendation{Outfits: Recommend(items, message)}, nil
}

// Recommend builds one outfit per occasion bucket the message matches, or a
// single everyday outfit when none does. An empty wardrobe short-circuits to
// a single informational outfit.
func Recommend(items []ClosetItem, message string) []OutfitCandidate {
	inv := NewInventory(items)
	if inv.Len() == 0 {
		return []OutfitCandidate{{
			Event:         emptyWardrobeLabel,
			Items:         []ItemReference{},
			MissingItems:  append([]string{}, RequiredSlots...),
			Notes:         emptyWardrobeReason,
			NoUsableItems: true,
		}}
	}

	folded := languageutil.Fold(message)
	var outfits []OutfitCandidate
	for _, bucket := range occasionBuckets {
		label, ok := bucket.match(folded)
		if !ok {
			continue
		}
		outfits = append(outfits, bucket.build(inv, label))
	}
	if len(outfits) == 0 {
		outfits = append(outfits, everydayOutfit(inv))
	}
	return outfits
}

func (b occasionBucket) match(folded string) (string, bool) {
	for _, l := range b.labels {
		for _, keyword := range l.keywords {
			if languageutil.ContainsInflected(folded, keyword) {
				return l.label, true
			}
		}
	}
	return "", false
}

// score weighs a style match over a color match. Buckets without colors
// accept any color.
func (b occasionBucket) score(item ClosetItem) int {
	score := 0
	if intersects(item.Styles, b.styles) {
		score += 2
	}
	if len(b.colors) > 0 && intersects(item.Colors, b.colors) {
		score++
	}
	return score
}

func (b occasionBucket) build(inv *Inventory, label string) OutfitCandidate {
	c := OutfitCandidate{Event: label, Items: []ItemReference{}}
	for _, slot := range RequiredSlots {
		best, bestScore := ClosetItem{}, 0
		for _, item := range inv.Items() {
			if SlotFor(item.Category) != slot {
				continue
			}
			// ties keep the earlier item
			if s := b.score(item); s > bestScore {
				best, bestScore = item, s
			}
		}
		if bestScore == 0 {
			continue
		}
		c.Items = append(c.Items, ItemReference{ItemID: best.ID, Category: best.Category, Reason: b.reason(best)})
	}
	c = CheckCompleteness(c)
	if len(c.MissingItems) > 0 {
		c.Notes = fmt.Sprintf("No %s pieces found for: %s.", strings.ToLower(strings.Join(b.styles, "/")), strings.Join(c.MissingItems, ", "))
	}
	return c
}

func (b occasionBucket) reason(item ClosetItem) string {
	var parts []string
	if styles := common(item.Styles, b.styles); len(styles) > 0 {
		parts = append(parts, strings.Join(styles, ", ")+" style")
	}
	if len(b.colors) > 0 {
		if colors := common(item.Colors, b.colors); len(colors) > 0 {
			parts = append(parts, strings.Join(colors, ", ")+" color")
		}
	}
	return "Matches the " + b.name + " look: " + strings.Join(parts, " and ")
}

func everydayOutfit(inv *Inventory) OutfitCandidate {
	c := OutfitCandidate{Event: defaultOutfitLabel, Items: []ItemReference{}}
	for _, slot := range RequiredSlots {
		for _, item := range inv.Items() {
			if SlotFor(item.Category) == slot {
				c.Items = append(c.Items, ItemReference{ItemID: item.ID, Category: item.Category, Reason: "A versatile everyday pick"})
				break
			}
		}
	}
	c = CheckCompleteness(c)
	c.Notes = "No specific occasion recognized, so here is an everyday combination from your wardrobe."
	return c
}

func intersects(a, b []string) bool {
	return len(common(a, b)) > 0
}

func common(a, b []string) []string {
	var out []string
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}
