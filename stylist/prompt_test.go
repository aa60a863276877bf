package stylist

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessagesKeepsNewestTurns(t *testing.T) {
	var turns []ConversationTurn
	for i := 0; i < 14; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		turns = append(turns, ConversationTurn{Role: role, Content: "turn " + strconv.Itoa(i)})
	}
	turns = append(turns, ConversationTurn{Role: "system", Content: "odd role"}, ConversationTurn{Role: RoleAssistant, Content: "  "})

	messages := BuildMessages(turns, "now", 10)
	require.Len(t, messages, 10)
	assert.Equal(t, "turn 6", messages[0].Content)
	assert.Equal(t, RoleUser, messages[8].Role, "unknown roles are sent as the user")
	assert.Equal(t, ConversationTurn{Role: RoleUser, Content: "now"}, messages[9])
}

func TestBuildSystemPrompt(t *testing.T) {
	inv := NewInventory(sampleCloset())
	prompt := BuildSystemPrompt(PromptInput{Inventory: inv, HistoryJSON: "[]", MaxOutfits: 2})

	assert.Contains(t, prompt, "Suggest at most 2 outfits.")
	assert.Contains(t, prompt, `"name":"Red slip dress"`)
	assert.NotContains(t, prompt, "Weather:")
	assert.NotContains(t, prompt, "Recently saved outfits")
	assert.NotContains(t, prompt, "editing the previous outfit")
}
