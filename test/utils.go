package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	"wardrobeapi/services"
	"wardrobeapi/stylist"

	"github.com/golang-jwt/jwt/v4"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewRefString(data string) *string {
	return &data
}

// SampleWardrobe is a small closet covering every outfit slot.
func SampleWardrobe() []stylist.ClosetItem {
	return []stylist.ClosetItem{
		{ID: "1", Name: "White oxford shirt", Category: "Top", Colors: []string{"White"}, Styles: []string{"Formal", "Business"}, Seasons: []string{"All Season"}},
		{ID: "2", Name: "Graphic tee", Category: "Top", Colors: []string{"Black"}, Styles: []string{"Casual", "Streetwear"}, Seasons: []string{"Summer"}},
		{ID: "3", Name: "Navy trousers", Category: "Bottom", Colors: []string{"Navy"}, Styles: []string{"Formal"}, Seasons: []string{"All Season"}},
		{ID: "4", Name: "Blue jeans", Category: "Bottom", Colors: []string{"Blue"}, Styles: []string{"Casual"}, Seasons: []string{"All Season"}},
		{ID: "5", Name: "Black loafers", Category: "Shoes", Colors: []string{"Black"}, Styles: []string{"Formal", "Elegant"}, Seasons: []string{"All Season"}},
		{ID: "6", Name: "White sneakers", Category: "Shoes", Colors: []string{"White"}, Styles: []string{"Casual", "Sporty"}, Seasons: []string{"All Season"}},
	}
}

// StubWardrobe serves a fixed closet for every user.
type StubWardrobe struct {
	Items []stylist.ClosetItem
	Err   error
}

func (s StubWardrobe) GetInventorySnapshot(ctx context.Context, userID uint) ([]stylist.ClosetItem, error) {
	return s.Items, s.Err
}

type StubHistory struct {
	Entries []stylist.HistoryEntry
	Err     error
}

func (s StubHistory) GetRecentOutfits(ctx context.Context, userID uint, limit int) ([]stylist.HistoryEntry, error) {
	return s.Entries, s.Err
}

// StubGenerator replies with Response and records what it was sent.
type StubGenerator struct {
	Response string
	Err      error

	mu       sync.Mutex
	Calls    int
	Messages []stylist.ConversationTurn
}

func (s *StubGenerator) Complete(ctx context.Context, systemPrompt string, messages []stylist.ConversationTurn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	s.Messages = messages
	return s.Response, s.Err
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

// URLCacheMock hands out MockUrl for every key without caching.
type URLCacheMock struct {
	MockUrl string
	Err     error
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return m.MockUrl, m.Err
}

// MockClothingAnalyzer returns Response as the model output for any image.
type MockClothingAnalyzer struct {
	Response string
	Err      error

	LastMIMEType string
	LastImage    []byte
}

func (m *MockClothingAnalyzer) AnalyzeClothingImage(ctx context.Context, image []byte, mimeType string) (*services.LLMResponse, error) {
	m.LastImage = image
	m.LastMIMEType = mimeType
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.LLMResponse{
		Response:           m.Response,
		Model:              services.Flash25.String(),
		InputTokenCount:    10,
		TotalTokenCount:    11,
		ThoughtsTokenCount: 12,
		OutputTokenCount:   13,
	}, nil
}
