package stylist

import (
	"fmt"
	"strings"

	"wardrobeapi/languageutil"
	"wardrobeapi/vocab"
)

type EditMode string

const (
	NewRequest   EditMode = "new_request"
	TargetedEdit EditMode = "targeted_edit"
)

// EditPlan is the resolver's decision for one turn. For a TargetedEdit it
// holds the anchored previous outfit split into the items that stay and the
// ids being replaced.
type EditPlan struct {
	Mode           EditMode
	TargetCategory string
	Previous       *OutfitCandidate
	Kept           []ItemReference
	Replaced       []string
}

var editVerbs = []string{
	"change", "swap", "replace", "switch", "different", "another", "instead", "new", "other",
	"don't like", "do not like", "not a fan", "hate", "update", "rather", "prefer", "try", "without",
}

// restartPhrases ask for a whole new outfit even when a category is named.
// Generic retries like "try again" name no category and fall out on their own.
var restartPhrases = []string{
	"another outfit", "different outfit", "new outfit", "whole outfit", "entire outfit",
	"start over", "from scratch", "new look", "different look",
}

// occasionKeywords name events; a new one in a follow-up turn means the user
// moved on to a different request.
var occasionKeywords = []string{
	"interview", "meeting", "wedding", "party", "date", "dinner", "brunch", "lunch", "gym", "workout",
	"yoga", "hike", "hiking", "running", "beach", "office", "work", "funeral", "concert", "festival",
	"graduation", "church", "school", "class", "travel", "trip", "vacation", "club", "cocktail",
	"shopping", "picnic", "birthday", "conference", "presentation", "holiday", "prom", "gala",
}

// ResolveEdit decides whether message edits one category of the previous
// outfit or starts over. The previous outfit is the structured one the
// caller sent, or else the last assistant turn re-parsed; when neither yields
// items the turn is a NewRequest. inv may be nil, in which case the previous
// outfit is taken as is.
func ResolveEdit(message string, turns []ConversationTurn, previous *OutfitCandidate, inv *Inventory) EditPlan {
	newRequest := EditPlan{Mode: NewRequest}
	if len(turns) == 0 {
		return newRequest
	}
	folded := languageutil.Fold(message)
	if _, restart := languageutil.ContainsAnyWord(folded, restartPhrases); restart {
		return newRequest
	}
	categories := vocab.Mentions(vocab.Category, message)
	if len(categories) == 0 {
		return newRequest
	}
	if distinctSlots(categories) > 1 {
		return newRequest
	}
	if _, ok := languageutil.ContainsAnyWord(folded, editVerbs); !ok {
		return newRequest
	}

	anchor := previous
	if anchor == nil {
		anchor = reconstructPrevious(turns)
	}
	if anchor == nil {
		return newRequest
	}
	if inv != nil {
		validated, _ := inv.Validate(*anchor)
		anchor = &validated
	}
	if len(anchor.Items) == 0 {
		return newRequest
	}
	if namesNewOccasion(folded, turns, anchor) {
		return newRequest
	}

	target := categories[0]
	plan := EditPlan{Mode: TargetedEdit, TargetCategory: target, Previous: anchor, Kept: []ItemReference{}}
	for _, item := range anchor.Items {
		category := vocab.CanonicalizeCategory(item.Category)
		if sameSlot(category, target) {
			plan.Replaced = append(plan.Replaced, item.ItemID)
			continue
		}
		item.Category = category
		plan.Kept = append(plan.Kept, item)
	}
	return plan
}

func distinctSlots(categories []string) int {
	slots := map[string]bool{}
	for _, c := range categories {
		key := SlotFor(c)
		if key == "" {
			key = c
		}
		slots[key] = true
	}
	return len(slots)
}

// sameSlot treats Bottom and Dress as interchangeable.
func sameSlot(category, target string) bool {
	if category == target {
		return true
	}
	slot := SlotFor(target)
	return slot == SlotBottomOrDress && SlotFor(category) == slot
}

func reconstructPrevious(turns []ConversationTurn) *OutfitCandidate {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != RoleAssistant {
			continue
		}
		parsed := ParseResponse(turns[i].Content)
		if parsed.Outcome != Parsed {
			return nil
		}
		for _, outfit := range parsed.Outfits {
			if len(outfit.Items) > 0 {
				o := outfit
				return &o
			}
		}
		return nil
	}
	return nil
}

// namesNewOccasion reports an occasion keyword in the message that neither
// the immediately preceding turn nor the anchored outfit mentions.
func namesNewOccasion(folded string, turns []ConversationTurn, anchor *OutfitCandidate) bool {
	preceding := ""
	if len(turns) > 0 {
		preceding = languageutil.Fold(turns[len(turns)-1].Content)
	}
	if anchor != nil {
		preceding += " " + languageutil.Fold(anchor.Event)
	}
	for _, keyword := range occasionKeywords {
		if languageutil.ContainsWord(folded, keyword) && !languageutil.ContainsWord(preceding, keyword) {
			return true
		}
	}
	return false
}

// Instruction is the constraint added to the prompt for a TargetedEdit.
func (p EditPlan) Instruction() string {
	if p.Mode != TargetedEdit {
		return ""
	}
	var b strings.Builder
	target := strings.ToLower(p.TargetCategory)
	fmt.Fprintf(&b, "The user is editing the previous outfit and wants a different %s only.\n", target)
	b.WriteString("These items stay in the outfit unchanged:")
	for _, item := range p.Kept {
		fmt.Fprintf(&b, " %s (%s);", item.ItemID, item.Category)
	}
	b.WriteString("\n")
	if len(p.Replaced) > 0 {
		fmt.Fprintf(&b, "Do not suggest these %s item ids again: %s.\n", target, strings.Join(p.Replaced, ", "))
	}
	fmt.Fprintf(&b, "Return exactly one outfit whose items list only the replacement %s. ", target)
	fmt.Fprintf(&b, "If the wardrobe has no other %s, return an empty items list and put \"%s\" in missing_items.\n", target, p.TargetCategory)
	return b.String()
}

// Splice builds the single outfit a TargetedEdit answers with: the kept items,
// re-validated against the current inventory, plus the first replacement of
// the target category that differs from every replaced id. When there is no
// such item the target is reported missing.
func Splice(plan EditPlan, candidates []OutfitCandidate, inv *Inventory) OutfitCandidate {
	out := OutfitCandidate{Items: []ItemReference{}, MissingItems: []string{}}
	if plan.Previous != nil {
		out.Event = plan.Previous.Event
	}

	kept, _ := inv.Validate(OutfitCandidate{Items: plan.Kept})
	used := map[string]bool{}
	for _, id := range plan.Replaced {
		used[id] = true
	}
	for _, item := range kept.Items {
		if sameSlot(item.Category, plan.TargetCategory) {
			continue
		}
		used[item.ItemID] = true
		out.Items = append(out.Items, item)
	}

	var replacement *ItemReference
	for _, c := range candidates {
		if out.Event == "" {
			out.Event = c.Event
		}
		if out.Notes == "" {
			out.Notes = c.Notes
		}
		for _, item := range c.Items {
			if replacement == nil && sameSlot(item.Category, plan.TargetCategory) && !used[item.ItemID] {
				r := item
				replacement = &r
			}
		}
	}

	if replacement != nil {
		out.Items = append(out.Items, *replacement)
	} else {
		label := plan.TargetCategory
		if slot := SlotFor(label); slot != "" {
			label = slot
		}
		out.MissingItems = append(out.MissingItems, label)
	}
	return CheckCompleteness(out)
}
