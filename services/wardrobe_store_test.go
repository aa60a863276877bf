package services

import (
	"testing"
	"time"

	"wardrobeapi/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosetItemsToStylist(t *testing.T) {
	items := []models.ClosetItem{
		{
			JsonModel: models.JsonModel{ID: 42},
			Name:      "Denim jacket",
			Category:  "Outerwear",
			Colors:    pq.StringArray{"Blue"},
			Styles:    pq.StringArray{"Casual"},
			Seasons:   pq.StringArray{"Spring", "Fall"},
		},
		{JsonModel: models.JsonModel{ID: 7}, Name: "Loafers", Category: "Shoes"},
	}

	out := ClosetItemsToStylist(items)
	require.Len(t, out, 2)
	assert.Equal(t, "42", out[0].ID)
	assert.Equal(t, "Outerwear", out[0].Category)
	assert.Equal(t, []string{"Spring", "Fall"}, out[0].Seasons)
	assert.Equal(t, "7", out[1].ID)
	assert.Empty(t, out[1].Colors)
}

func TestSavedOutfitsToHistory(t *testing.T) {
	saved := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	out := SavedOutfitsToHistory([]models.SavedOutfit{{
		JsonModel: models.JsonModel{ID: 1, CreatedAt: saved},
		Occasion:  "Office Day",
		ItemIDs:   pq.StringArray{"1", "3", "5"},
	}})

	require.Len(t, out, 1)
	assert.Equal(t, "Office Day", out[0].Occasion)
	assert.Equal(t, []string{"1", "3", "5"}, out[0].ItemIDs)
	assert.True(t, out[0].CreatedAt.Equal(saved))
}

func TestStylistConfigFromEnv(t *testing.T) {
	t.Setenv("STYLIST_MAX_OUTFITS", "5")
	t.Setenv("STYLIST_HISTORY_LIMIT", "not-a-number")
	t.Setenv("STYLIST_TURN_LIMIT", "")
	t.Setenv("STYLIST_REPEAT_THRESHOLD", "0.5")

	c := StylistConfigFromEnv()
	assert.Equal(t, 5, c.MaxOutfits)
	assert.Equal(t, 10, c.HistoryLimit)
	assert.Equal(t, 10, c.TurnLimit)
	assert.Equal(t, 0.5, c.RepeatThreshold)
}
