package stylist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedOutfits() []HistoryEntry {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return []HistoryEntry{
		{Occasion: "Brunch", ItemIDs: []string{"2", "4", "6"}, CreatedAt: now.Add(-72 * time.Hour)},
		{Occasion: "Office", ItemIDs: []string{"1", "3", "5"}, CreatedAt: now},
		{Occasion: "Empty", ItemIDs: nil, CreatedAt: now.Add(-24 * time.Hour)},
		{Occasion: "Gym", ItemIDs: []string{"8", "6"}, CreatedAt: now.Add(-48 * time.Hour)},
	}
}

func TestOverlap(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, Overlap([]string{"1", "3", "5"}, []string{"1", "3", "6"}), 1e-9)
	assert.Equal(t, 1.0, Overlap([]string{"1", "3"}, []string{"3", "1", "9"}))
	assert.Equal(t, 0.0, Overlap([]string{"1"}, []string{"2"}))
	assert.Equal(t, 0.0, Overlap(nil, []string{"2"}))
}

func TestRecentFirst(t *testing.T) {
	recent := RecentFirst(savedOutfits(), 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "Office", recent[0].Occasion)
	assert.Equal(t, "Empty", recent[1].Occasion)
}

func TestCompactHistory(t *testing.T) {
	var compact []map[string]any
	require.NoError(t, json.Unmarshal([]byte(CompactHistory(savedOutfits(), 3)), &compact))
	require.Len(t, compact, 2, "entries without items are skipped")
	assert.Equal(t, "Office", compact[0]["occasion"])
	assert.Equal(t, "2026-10-01", compact[0]["saved"])
	assert.Equal(t, "Gym", compact[1]["occasion"])

	assert.Equal(t, "[]", CompactHistory(nil, 10))
}

func TestAnnotateNovelty(t *testing.T) {
	history := savedOutfits()

	repeat := AnnotateNovelty(OutfitCandidate{Items: []ItemReference{{ItemID: "1"}, {ItemID: "3"}, {ItemID: "5"}}}, history, 0.75)
	require.NotNil(t, repeat.Novelty)
	assert.Equal(t, 1.0, repeat.Novelty.Overlap)
	assert.Equal(t, "Office", repeat.Novelty.SimilarOccasion)
	assert.True(t, repeat.Novelty.LikelyRepeat)

	partial := AnnotateNovelty(OutfitCandidate{Items: []ItemReference{{ItemID: "1"}, {ItemID: "3"}, {ItemID: "7"}}}, history, 0.75)
	require.NotNil(t, partial.Novelty)
	assert.False(t, partial.Novelty.LikelyRepeat)
	assert.Len(t, partial.ItemIDs(), 3, "repeats are annotated, never filtered")

	fresh := AnnotateNovelty(OutfitCandidate{Items: []ItemReference{{ItemID: "9"}}}, history, 0.75)
	assert.Nil(t, fresh.Novelty)
}
