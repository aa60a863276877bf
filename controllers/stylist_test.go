package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"wardrobeapi/models"
	"wardrobeapi/stylist"
	"wardrobeapi/test"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

const officeResponse = "```json\n" + `{
  "outfits": [
    {"event": "Office Day", "items": [{"item_id": "1", "category": "Top"}, {"item_id": "3", "category": "Bottom"}, {"item_id": "5", "category": "Shoes"}]}
  ],
  "message": "A classic office look."
}` + "\n```"

type stubOutfitStore struct {
	saved []stylist.OutfitCandidate
	err   error
}

func (s *stubOutfitStore) SaveOutfit(ctx context.Context, userID uint, candidate stylist.OutfitCandidate) (*models.SavedOutfit, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, candidate)
	return &models.SavedOutfit{
		JsonModel: models.JsonModel{ID: uint(len(s.saved))},
		OwnerID:   userID,
		Occasion:  candidate.Event,
		ItemIDs:   pq.StringArray(candidate.ItemIDs()),
	}, nil
}

func stylistServer(generator *test.StubGenerator, wardrobe test.StubWardrobe, outfits OutfitStore) http.Handler {
	engine := stylist.NewEngine(wardrobe, test.StubHistory{}, generator, stylist.DefaultConfig())
	return SetupServer(Dependencies{
		Engine:      engine,
		Recommender: stylist.NewRecommender(wardrobe),
		Wardrobe:    wardrobe,
		Outfits:     outfits,
	})
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) stylist.SuggestionResult {
	var result stylist.SuggestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestChatReturnsSuggestions(t *testing.T) {
	generator := &test.StubGenerator{Response: officeResponse}
	e := stylistServer(generator, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	temp := 18.0
	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "7", ChatIn{
		Message: "What should I wear to the office tomorrow?",
		Weather: &WeatherIn{TemperatureC: &temp, Condition: "light rain"},
		Conversation: []TurnIn{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "Hello! How can I help?"},
		},
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, stylist.KindSuggestions, result.Kind)
	require.Len(t, result.Outfits, 1)
	assert.Equal(t, []string{"1", "3", "5"}, result.Outfits[0].ItemIDs())
	assert.Equal(t, 1, generator.Calls)
	assert.Len(t, generator.Messages, 3)
}

func TestChatOffTopicIsRejected(t *testing.T) {
	generator := &test.StubGenerator{Response: officeResponse}
	e := stylistServer(generator, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "7", ChatIn{Message: "what's the capital of France"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, stylist.KindRelevanceRejected, result.Kind)
	assert.Equal(t, 0, generator.Calls)
}

func TestChatUpstreamFailure(t *testing.T) {
	generator := &test.StubGenerator{Err: errors.New("503")}
	e := stylistServer(generator, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "7", ChatIn{Message: "Pick an outfit for dinner"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	result := decodeResult(t, rec)
	assert.Equal(t, stylist.KindUpstreamUnavailable, result.Kind)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestChatEmptyWardrobe(t *testing.T) {
	generator := &test.StubGenerator{Response: officeResponse}
	e := stylistServer(generator, test.StubWardrobe{}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "7", ChatIn{Message: "What should I wear today?"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, stylist.KindNoUsableItems, decodeResult(t, rec).Kind)
	assert.Equal(t, 0, generator.Calls)
}

func TestChatValidation(t *testing.T) {
	e := stylistServer(&test.StubGenerator{}, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "7", ChatIn{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = test.NewJSONAuthRequestRaw(http.MethodPost, "/stylist/chat", "7", `{"message": `)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStylistRequiresToken(t *testing.T) {
	e := stylistServer(&test.StubGenerator{}, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	req := test.NewJSONRequest(http.MethodPost, "/stylist/chat", ChatIn{Message: "hi"})
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, test.NewJSONAuthRequest(http.MethodPost, "/stylist/chat", "not-a-number", ChatIn{Message: "hi"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecommend(t *testing.T) {
	generator := &test.StubGenerator{}
	e := stylistServer(generator, test.StubWardrobe{Items: test.SampleWardrobe()}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/recommend", "7", RecommendIn{Message: "I have an interview tomorrow"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var recommendation stylist.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recommendation))
	require.NotEmpty(t, recommendation.Outfits)
	assert.Equal(t, "Job Interview", recommendation.Outfits[0].Event)
	assert.Equal(t, 0, generator.Calls)
}

func TestRecommendWardrobeError(t *testing.T) {
	e := stylistServer(&test.StubGenerator{}, test.StubWardrobe{Err: errors.New("db down")}, nil)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/recommend", "7", RecommendIn{Message: "gym"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSaveOutfitDropsUnknownItems(t *testing.T) {
	store := &stubOutfitStore{}
	e := stylistServer(&test.StubGenerator{}, test.StubWardrobe{Items: test.SampleWardrobe()}, store)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/outfits", "7", SaveOutfitIn{Outfit: stylist.OutfitCandidate{
		Event: "Office Day",
		Items: []stylist.ItemReference{{ItemID: "1"}, {ItemID: "404"}, {ItemID: "5"}},
	}})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var response SavedOutfitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"1", "5"}, response.ItemIDs)
	assert.Equal(t, 1, response.Dropped)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "Top", store.saved[0].Items[0].Category)
}

func TestSaveOutfitWithNothingKnown(t *testing.T) {
	store := &stubOutfitStore{}
	e := stylistServer(&test.StubGenerator{}, test.StubWardrobe{Items: test.SampleWardrobe()}, store)

	req := test.NewJSONAuthRequest(http.MethodPost, "/stylist/outfits", "7", SaveOutfitIn{Outfit: stylist.OutfitCandidate{
		Event: "Ghost",
		Items: []stylist.ItemReference{{ItemID: "404"}},
	}})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, store.saved)
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusForKind(stylist.KindSuggestions))
	assert.Equal(t, http.StatusOK, statusForKind(stylist.KindSmallTalk))
	assert.Equal(t, http.StatusOK, statusForKind(stylist.KindDeclined))
	assert.Equal(t, http.StatusUnprocessableEntity, statusForKind(stylist.KindRelevanceRejected))
	assert.Equal(t, http.StatusUnprocessableEntity, statusForKind(stylist.KindNoUsableItems))
	assert.Equal(t, http.StatusBadGateway, statusForKind(stylist.KindUpstreamUnavailable))
	assert.Equal(t, http.StatusBadGateway, statusForKind(stylist.KindParseFailure))
}
