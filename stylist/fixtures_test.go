package stylist

import (
	"context"
	"encoding/json"

	"wardrobeapi/vocab"
)

func sampleCloset() []ClosetItem {
	return []ClosetItem{
		{ID: "1", Name: "White oxford shirt", Category: vocab.Top, Colors: []string{vocab.White}, Styles: []string{vocab.Formal, vocab.Business}},
		{ID: "2", Name: "Graphic tee", Category: vocab.Top, Colors: []string{vocab.Black}, Styles: []string{vocab.Casual, vocab.Streetwear}},
		{ID: "3", Name: "Navy trousers", Category: vocab.Bottom, Colors: []string{vocab.Navy}, Styles: []string{vocab.Formal}},
		{ID: "4", Name: "Blue jeans", Category: vocab.Bottom, Colors: []string{vocab.Blue}, Styles: []string{vocab.Casual}},
		{ID: "5", Name: "Black loafers", Category: vocab.Shoes, Colors: []string{vocab.Black}, Styles: []string{vocab.Formal, vocab.Elegant}},
		{ID: "6", Name: "White sneakers", Category: vocab.Shoes, Colors: []string{vocab.White}, Styles: []string{vocab.Casual, vocab.Sporty}},
		{ID: "7", Name: "Red slip dress", Category: vocab.Dress, Colors: []string{vocab.Red}, Styles: []string{vocab.Party, vocab.Elegant}},
		{ID: "8", Name: "Running leggings", Category: vocab.Bottom, Colors: []string{vocab.Black}, Styles: []string{vocab.Sporty}},
		{ID: "9", Name: "Denim jacket", Category: vocab.Outerwear, Colors: []string{vocab.Blue}, Styles: []string{vocab.Casual}},
	}
}

// officeOutfitTurn is an assistant turn suggesting top 1, bottom 3, shoes 5.
func officeOutfitTurn() ConversationTurn {
	body, _ := json.Marshal(map[string]any{
		"outfits": []OutfitCandidate{{
			Event: "Office Day",
			Items: []ItemReference{
				{ItemID: "1", Category: vocab.Top},
				{ItemID: "3", Category: vocab.Bottom},
				{ItemID: "5", Category: vocab.Shoes},
			},
			MissingItems: []string{},
		}},
	})
	return ConversationTurn{Role: RoleAssistant, Content: string(body)}
}

type fakeWardrobe struct {
	items []ClosetItem
	err   error
}

func (f *fakeWardrobe) GetInventorySnapshot(ctx context.Context, userID uint) ([]ClosetItem, error) {
	return f.items, f.err
}

type fakeHistory struct {
	entries []HistoryEntry
	err     error
}

func (f *fakeHistory) GetRecentOutfits(ctx context.Context, userID uint, limit int) ([]HistoryEntry, error) {
	return f.entries, f.err
}

type fakeGenerator struct {
	response     string
	err          error
	calls        int
	lastSystem   string
	lastMessages []ConversationTurn
}

func (f *fakeGenerator) Complete(ctx context.Context, systemPrompt string, messages []ConversationTurn) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastMessages = messages
	return f.response, f.err
}

func itemIDs(c OutfitCandidate) []string {
	return c.ItemIDs()
}
