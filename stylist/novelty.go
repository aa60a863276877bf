package stylist

import (
	"encoding/json"
	"sort"
)

// Novelty is best effort. Recent outfits are listed in the prompt so the model
// can avoid them, and overlapping candidates are annotated on the way out.
// Nothing is rejected for being a repeat.

type compactOutfit struct {
	Occasion string   `json:"occasion,omitempty"`
	ItemIDs  []string `json:"item_ids"`
	Saved    string   `json:"saved,omitempty"`
}

// RecentFirst returns at most limit entries ordered newest first.
func RecentFirst(entries []HistoryEntry, limit int) []HistoryEntry {
	sorted := append([]HistoryEntry{}, entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// CompactHistory serializes the newest entries for the upstream prompt. It
// returns "[]" when there is nothing to avoid.
func CompactHistory(entries []HistoryEntry, limit int) string {
	recent := RecentFirst(entries, limit)
	compact := make([]compactOutfit, 0, len(recent))
	for _, e := range recent {
		if len(e.ItemIDs) == 0 {
			continue
		}
		line := compactOutfit{Occasion: e.Occasion, ItemIDs: e.ItemIDs}
		if !e.CreatedAt.IsZero() {
			line.Saved = e.CreatedAt.Format("2006-01-02")
		}
		compact = append(compact, line)
	}
	bytes, err := json.Marshal(compact)
	if err != nil {
		return "[]"
	}
	return string(bytes)
}

// Overlap is the share of the candidate's items that also appear in a saved
// outfit: |C ∩ H| / |C|.
func Overlap(candidate, saved []string) float64 {
	if len(candidate) == 0 {
		return 0
	}
	inSaved := make(map[string]bool, len(saved))
	for _, id := range saved {
		inSaved[id] = true
	}
	shared := 0
	counted := map[string]bool{}
	for _, id := range candidate {
		if inSaved[id] && !counted[id] {
			shared++
			counted[id] = true
		}
	}
	return float64(shared) / float64(len(candidate))
}

// AnnotateNovelty attaches the closest saved outfit to the candidate when the
// two share any item. LikelyRepeat is set at or above threshold.
func AnnotateNovelty(c OutfitCandidate, entries []HistoryEntry, threshold float64) OutfitCandidate {
	ids := c.ItemIDs()
	best := 0.0
	var closest HistoryEntry
	for _, e := range entries {
		if o := Overlap(ids, e.ItemIDs); o > best {
			best = o
			closest = e
		}
	}
	out := c
	out.Novelty = nil
	if best == 0 {
		return out
	}
	out.Novelty = &NoveltyNote{
		Overlap:         best,
		SimilarOccasion: closest.Occasion,
		LikelyRepeat:    best >= threshold,
	}
	return out
}
