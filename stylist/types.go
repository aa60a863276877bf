package stylist

import "time"

// ClosetItem is one wardrobe item as seen by the engine. IDs are opaque.
type ClosetItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Category string   `json:"category"`
	Colors   []string `json:"colors"`
	Styles   []string `json:"styles"`
	Seasons  []string `json:"seasons"`
}

type ItemReference struct {
	ItemID   string `json:"item_id"`
	Category string `json:"category"`
	Reason   string `json:"reason,omitempty"`
}

// NoveltyNote is attached to a candidate that overlaps a recently saved outfit.
type NoveltyNote struct {
	Overlap         float64 `json:"overlap"`
	SimilarOccasion string  `json:"similar_occasion,omitempty"`
	LikelyRepeat    bool    `json:"likely_repeat"`
}

type OutfitCandidate struct {
	Event         string          `json:"event"`
	Items         []ItemReference `json:"items"`
	MissingItems  []string        `json:"missing_items"`
	Notes         string          `json:"notes,omitempty"`
	NoUsableItems bool            `json:"no_usable_items,omitempty"`
	Novelty       *NoveltyNote    `json:"novelty,omitempty"`
}

// ItemIDs returns the candidate's item ids in order.
func (c OutfitCandidate) ItemIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ItemID)
	}
	return ids
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type HistoryEntry struct {
	Occasion  string    `json:"occasion"`
	ItemIDs   []string  `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

type Weather struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	Condition    string   `json:"condition,omitempty"`
	Location     string   `json:"location,omitempty"`
}

// SuggestionRequest is self-contained: everything the engine needs besides
// the user's wardrobe and saved history travels with it.
type SuggestionRequest struct {
	UserID         uint
	RequestID      string
	Message        string
	Weather        *Weather
	Turns          []ConversationTurn
	PreviousOutfit *OutfitCandidate
}

type ResultKind string

const (
	KindSuggestions         ResultKind = "suggestions"
	KindSmallTalk           ResultKind = "small_talk"
	KindDeclined            ResultKind = "declined"
	KindRelevanceRejected   ResultKind = "relevance_rejected"
	KindUpstreamUnavailable ResultKind = "upstream_unavailable"
	KindParseFailure        ResultKind = "parse_failure"
	KindNoUsableItems       ResultKind = "no_usable_items"
)

type SuggestionResult struct {
	Success      bool              `json:"success"`
	Kind         ResultKind        `json:"kind"`
	Message      string            `json:"message,omitempty"`
	Outfits      []OutfitCandidate `json:"outfits"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

type Recommendation struct {
	Outfits []OutfitCandidate `json:"outfits"`
}
