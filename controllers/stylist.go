package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"wardrobeapi/models"
	"wardrobeapi/stylist"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// OutfitStore persists outfits the user keeps.
type OutfitStore interface {
	SaveOutfit(ctx context.Context, userID uint, candidate stylist.OutfitCandidate) (*models.SavedOutfit, error)
}

type WeatherIn struct {
	TemperatureC *float64 `json:"temperature_c" validate:"omitempty,min=-80,max=70"`
	Condition    string   `json:"condition" validate:"max=100"`
	Location     string   `json:"location" validate:"max=100"`
}

type TurnIn struct {
	Role    string `json:"role" validate:"max=20"`
	Content string `json:"content" validate:"max=8000"`
}

type ChatIn struct {
	Message        string                   `json:"message" validate:"required,max=2000"`
	Weather        *WeatherIn               `json:"weather"`
	Conversation   []TurnIn                 `json:"conversation" validate:"max=100,dive"`
	PreviousOutfit *stylist.OutfitCandidate `json:"previous_outfit"`
}

type RecommendIn struct {
	Message string `json:"message" validate:"max=2000"`
}

type SaveOutfitIn struct {
	Outfit stylist.OutfitCandidate `json:"outfit"`
}

type SavedOutfitResponse struct {
	ID       uint     `json:"id"`
	Occasion string   `json:"occasion"`
	ItemIDs  []string `json:"item_ids"`
	Dropped  int      `json:"dropped_items"`
}

type StylistController struct {
	Engine      *stylist.Engine
	Recommender *stylist.Recommender
	Wardrobe    stylist.WardrobeStore
	Outfits     OutfitStore
}

func (controller *StylistController) StylistRoutes(g *echo.Group) {
	g.POST("/chat", controller.Chat)
	g.POST("/recommend", controller.Recommend)
	g.POST("/outfits", controller.SaveOutfit)
}

// statusForKind maps a result kind onto the HTTP status the app expects.
func statusForKind(kind stylist.ResultKind) int {
	switch kind {
	case stylist.KindRelevanceRejected, stylist.KindNoUsableItems:
		return http.StatusUnprocessableEntity
	case stylist.KindUpstreamUnavailable, stylist.KindParseFailure:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func (in ChatIn) toRequest(userID uint, requestID string) stylist.SuggestionRequest {
	req := stylist.SuggestionRequest{
		UserID:         userID,
		RequestID:      requestID,
		Message:        in.Message,
		PreviousOutfit: in.PreviousOutfit,
	}
	if in.Weather != nil {
		req.Weather = &stylist.Weather{
			TemperatureC: in.Weather.TemperatureC,
			Condition:    in.Weather.Condition,
			Location:     in.Weather.Location,
		}
	}
	for _, turn := range in.Conversation {
		req.Turns = append(req.Turns, stylist.ConversationTurn{Role: stylist.Role(turn.Role), Content: turn.Content})
	}
	return req
}

func (controller *StylistController) Chat(c echo.Context) error {
	var req ChatIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	if controller.Engine == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Stylist is not available"})
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	result, err := controller.Engine.GenerateSuggestions(c.Request().Context(), req.toRequest(userID, requestID))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[Stylist %s] request abandoned: %v", requestID, err)
			return c.JSON(http.StatusRequestTimeout, map[string]string{"error": "Request was cancelled"})
		}
		sentry.CaptureException(fmt.Errorf("[Stylist %s] %w", requestID, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Something went wrong, please try again"})
	}
	return c.JSON(statusForKind(result.Kind), result)
}

func (controller *StylistController) Recommend(c echo.Context) error {
	var req RecommendIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	if controller.Recommender == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Stylist is not available"})
	}

	recommendation, err := controller.Recommender.GetDeterministicRecommendation(c.Request().Context(), userID, req.Message)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Recommend user %v] %w", userID, err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Could not load your wardrobe, please try again"})
	}
	return c.JSON(http.StatusOK, recommendation)
}

// SaveOutfit keeps a suggested outfit for novelty checks. Ids that are not
// in the user's wardrobe are dropped before saving.
func (controller *StylistController) SaveOutfit(c echo.Context) error {
	var req SaveOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	if controller.Wardrobe == nil || controller.Outfits == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Saving outfits is not available"})
	}
	ctx := c.Request().Context()

	items, err := controller.Wardrobe.GetInventorySnapshot(ctx, userID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Could not load your wardrobe, please try again"})
	}
	outfit, dropped := stylist.NewInventory(items).Validate(req.Outfit)
	if len(outfit.Items) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "None of these items are in your wardrobe"})
	}

	saved, err := controller.Outfits.SaveOutfit(ctx, userID, outfit)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit, please try again"})
	}
	return c.JSON(http.StatusCreated, SavedOutfitResponse{
		ID:       saved.ID,
		Occasion: saved.Occasion,
		ItemIDs:  []string(saved.ItemIDs),
		Dropped:  dropped,
	})
}
