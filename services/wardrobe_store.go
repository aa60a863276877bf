package services

import (
	"context"
	"fmt"
	"strconv"

	"wardrobeapi/models"
	"wardrobeapi/stylist"

	"gorm.io/gorm"
)

// GormWardrobeStore reads wardrobe snapshots and saved outfits from postgres.
type GormWardrobeStore struct {
	DB *gorm.DB
}

func NewGormWardrobeStore(db *gorm.DB) *GormWardrobeStore {
	return &GormWardrobeStore{DB: db}
}

var _ stylist.WardrobeStore = (*GormWardrobeStore)(nil)
var _ stylist.HistoryStore = (*GormWardrobeStore)(nil)

// GetInventorySnapshot returns analyzed items that are in the user's closet.
// Items still waiting for analysis have no category and are left out.
func (s *GormWardrobeStore) GetInventorySnapshot(ctx context.Context, userID uint) ([]stylist.ClosetItem, error) {
	var items []models.ClosetItem
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND category <> ''", userID, models.ClosetStatusInCloset).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load wardrobe for user %d: %w", userID, err)
	}
	return ClosetItemsToStylist(items), nil
}

func (s *GormWardrobeStore) GetRecentOutfits(ctx context.Context, userID uint, limit int) ([]stylist.HistoryEntry, error) {
	var outfits []models.SavedOutfit
	q := s.DB.WithContext(ctx).Where("owner_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("load saved outfits for user %d: %w", userID, err)
	}
	return SavedOutfitsToHistory(outfits), nil
}

// SaveOutfit stores a candidate the user decided to keep.
func (s *GormWardrobeStore) SaveOutfit(ctx context.Context, userID uint, candidate stylist.OutfitCandidate) (*models.SavedOutfit, error) {
	outfit := models.SavedOutfit{
		OwnerID:  userID,
		Occasion: candidate.Event,
		ItemIDs:  candidate.ItemIDs(),
		Notes:    StrPointer(candidate.Notes),
	}
	if err := s.DB.WithContext(ctx).Create(&outfit).Error; err != nil {
		return nil, fmt.Errorf("save outfit for user %d: %w", userID, err)
	}
	return &outfit, nil
}

func ClosetItemsToStylist(items []models.ClosetItem) []stylist.ClosetItem {
	out := make([]stylist.ClosetItem, 0, len(items))
	for _, item := range items {
		out = append(out, stylist.ClosetItem{
			ID:       strconv.FormatUint(uint64(item.ID), 10),
			Name:     item.Name,
			Category: item.Category,
			Colors:   []string(item.Colors),
			Styles:   []string(item.Styles),
			Seasons:  []string(item.Seasons),
		})
	}
	return out
}

func SavedOutfitsToHistory(outfits []models.SavedOutfit) []stylist.HistoryEntry {
	out := make([]stylist.HistoryEntry, 0, len(outfits))
	for _, o := range outfits {
		out = append(out, stylist.HistoryEntry{
			Occasion:  o.Occasion,
			ItemIDs:   []string(o.ItemIDs),
			CreatedAt: o.CreatedAt,
		})
	}
	return out
}
