package stylist

import (
	"encoding/json"
	"fmt"
	"strings"

	"wardrobeapi/vocab"
)

type PromptInput struct {
	Inventory   *Inventory
	Weather     *Weather
	HistoryJSON string
	Plan        EditPlan
	MaxOutfits  int
}

const responseSchema = `{"outfits":[{"event":"string","items":[{"item_id":"string","category":"string","reason":"string"}],"missing_items":["string"],"notes":"string"}],"message":"string"}`

// BuildSystemPrompt renders the stylist instructions for one request.
func BuildSystemPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("You are a personal stylist. Build outfits only from the user's wardrobe listed below.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Use only item_id values that appear in the wardrobe list. Never invent items.\n")
	fmt.Fprintf(&b, "- Every outfit needs one %s, one %s or one %s, and %s. If the wardrobe lacks one, list %q, %q or %q in missing_items.\n",
		vocab.Top, vocab.Bottom, vocab.Dress, vocab.Shoes, SlotTop, SlotBottomOrDress, SlotShoes)
	fmt.Fprintf(&b, "- Categories are exactly: %s.\n", strings.Join(vocab.Categories, ", "))
	fmt.Fprintf(&b, "- Suggest at most %d outfits.\n", in.MaxOutfits)
	b.WriteString("- If the request has nothing to do with clothing, reply with one short plain-text sentence saying you can only help with outfits.\n")
	fmt.Fprintf(&b, "- Otherwise reply with JSON only, no markdown, shaped like %s\n", responseSchema)

	b.WriteString("\nWardrobe:\n")
	b.WriteString(wardrobeListing(in.Inventory))
	b.WriteString("\n")

	if w := weatherLine(in.Weather); w != "" {
		fmt.Fprintf(&b, "\nWeather: %s\n", w)
	}
	if in.HistoryJSON != "" && in.HistoryJSON != "[]" {
		b.WriteString("\nRecently saved outfits. Avoid repeating these item combinations:\n")
		b.WriteString(in.HistoryJSON)
		b.WriteString("\n")
	}
	if instruction := in.Plan.Instruction(); instruction != "" {
		b.WriteString("\n")
		b.WriteString(instruction)
	}
	return b.String()
}

func wardrobeListing(inv *Inventory) string {
	if inv == nil {
		return "[]"
	}
	bytes, err := json.Marshal(inv.Items())
	if err != nil {
		return "[]"
	}
	return string(bytes)
}

func weatherLine(w *Weather) string {
	if w == nil {
		return ""
	}
	var parts []string
	if w.TemperatureC != nil {
		parts = append(parts, fmt.Sprintf("%.0f°C", *w.TemperatureC))
	}
	if c := strings.TrimSpace(w.Condition); c != "" {
		parts = append(parts, c)
	}
	if l := strings.TrimSpace(w.Location); l != "" {
		parts = append(parts, "in "+l)
	}
	return strings.Join(parts, ", ")
}

// BuildMessages forwards the newest turns followed by the current message.
func BuildMessages(turns []ConversationTurn, message string, limit int) []ConversationTurn {
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	messages := make([]ConversationTurn, 0, len(turns)+1)
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := RoleUser
		if t.Role == RoleAssistant {
			role = RoleAssistant
		}
		messages = append(messages, ConversationTurn{Role: role, Content: t.Content})
	}
	return append(messages, ConversationTurn{Role: RoleUser, Content: message})
}
