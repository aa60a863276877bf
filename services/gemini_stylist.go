package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wardrobeapi/stylist"

	"google.golang.org/genai"
)

// LLMModelName selects the Gemini model used for a call.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

// ParseLLMModelName maps a configured model name back to LLMModelName.
func ParseLLMModelName(name string, fallback LLMModelName) LLMModelName {
	for _, m := range []LLMModelName{Pro25, Flash25, FlashLite25, Flash20} {
		if m.String() == name {
			return m
		}
	}
	return fallback
}

func floatPointer(f float32) *float32 {
	return &f
}

// ErrContentBlocked is returned when Gemini refuses the prompt or blocks the
// candidate on safety grounds. It is never worth retrying.
var ErrContentBlocked = errors.New("content blocked by safety settings")

type LLMResponse struct {
	Response           string `json:"response"`
	InputTokenCount    int32  `json:"input_token_count"`
	Thoughts           string `json:"thoughts"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
	Model              string `json:"model"`
}

// LLMProcessor analyzes a single clothing photo.
type LLMProcessor interface {
	AnalyzeClothingImage(ctx context.Context, image []byte, mimeType string) (*LLMResponse, error)
}

// ContentGenerator is the part of the genai client the stylist uses;
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiStylist implements stylist.TextGenerator and LLMProcessor on top of
// the Gemini API.
type GeminiStylist struct {
	models ContentGenerator
	model  LLMModelName
}

func NewGeminiStylist(models ContentGenerator, model LLMModelName) *GeminiStylist {
	return &GeminiStylist{models: models, model: model}
}

// NewGeminiClient builds the genai client from GOOGLE_API_KEY.
func NewGeminiClient(ctx context.Context) (*genai.Client, error) {
	key := GetEnv("GOOGLE_API_KEY", "")
	if key == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
}

var _ stylist.TextGenerator = (*GeminiStylist)(nil)
var _ LLMProcessor = (*GeminiStylist)(nil)

// Complete sends one chat turn. Assistant turns are sent with the "model"
// role, everything else as "user".
func (g *GeminiStylist) Complete(ctx context.Context, systemPrompt string, messages []stylist.ConversationTurn) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == stylist.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}

	result, err := g.models.GenerateContent(ctx, g.model.String(), contents, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 8192,
		Temperature:     floatPointer(0.7),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", g.model, err)
	}
	response, err := responseFromResult(result)
	if err != nil {
		return "", err
	}
	log.Printf("[Gemini] %s chat IT: %d, OT: %d, TT: %d", g.model, response.InputTokenCount, response.OutputTokenCount, response.TotalTokenCount)
	return response.Response, nil
}

const clothingAnalysisPrompt = `You are a fashion cataloguing assistant. Look at the photo of a single clothing item and describe it.
Return JSON only with the fields name, description, category, colors, styles and seasons.
category is one of: Top, Bottom, Dress, Outerwear, Shoes, Accessory.
colors are chosen from: Black, White, Gray, Navy, Blue, Red, Green, Yellow, Orange, Pink, Purple, Brown, Beige, Cream, Gold, Silver, Multicolor.
styles are chosen from: Casual, Formal, Business, Sporty, Elegant, Bohemian, Streetwear, Vintage, Minimalist, Party.
seasons are chosen from: Spring, Summer, Fall, Winter, All Season.
If the photo shows no clothing item, reply with one short sentence saying so instead of JSON.`

func (g *GeminiStylist) AnalyzeClothingImage(ctx context.Context, image []byte, mimeType string) (*LLMResponse, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		{Text: "Describe this clothing item."},
	}
	result, err := g.models.GenerateContent(ctx, g.model.String(), []*genai.Content{{Role: "user", Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  4096,
		Temperature:      floatPointer(0.2),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: clothingAnalysisPrompt}},
		},
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"category":    {Type: genai.TypeString},
				"colors":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"styles":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"seasons":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"name", "category", "colors", "styles", "seasons"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate content with %s: %w", g.model, err)
	}
	return responseFromResult(result)
}

func responseFromResult(result *genai.GenerateContentResponse) (*LLMResponse, error) {
	if result == nil {
		return nil, fmt.Errorf("empty response")
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		log.Printf("[Gemini] prompt blocked: %s %s", result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("%w: %s", ErrContentBlocked, result.PromptFeedback.BlockReasonMessage)
	}
	text, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		return nil, err
	}
	response := &LLMResponse{Response: text.Text, Thoughts: text.Thoughts, Model: result.ModelVersion}
	if result.UsageMetadata != nil {
		response.InputTokenCount = result.UsageMetadata.PromptTokenCount
		response.ThoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
		response.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		response.TotalTokenCount = result.UsageMetadata.TotalTokenCount
	}
	return response, nil
}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

// GetFirstCandidateTextWithThoughts splits the answer text from thought
// parts and fails on any blocked safety rating.
func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		for _, rating := range c.SafetyRatings {
			if rating.Blocked {
				log.Printf("[Safety] blocked rating: %s probability %s", rating.Category, rating.Probability)
				return nil, fmt.Errorf("%w: %s", ErrContentBlocked, rating.Category)
			}
		}
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingContent = part.Text
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}
