package services

import (
	"context"
	"errors"
	"testing"

	"wardrobeapi/stylist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeContentGenerator struct {
	response *genai.GenerateContentResponse
	err      error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.response, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiCompleteMapsRoles(t *testing.T) {
	gen := &fakeContentGenerator{response: textResponse(`{"outfits": []}`)}
	g := NewGeminiStylist(gen, Flash25)

	out, err := g.Complete(context.Background(), "be a stylist", []stylist.ConversationTurn{
		{Role: stylist.RoleUser, Content: "office look please"},
		{Role: stylist.RoleAssistant, Content: "here you go"},
		{Role: stylist.RoleUser, Content: "change the shoes"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"outfits": []}`, out)

	assert.Equal(t, "gemini-2.5-flash", gen.model)
	require.Len(t, gen.contents, 3)
	assert.Equal(t, "user", gen.contents[0].Role)
	assert.Equal(t, "model", gen.contents[1].Role)
	assert.Equal(t, "user", gen.contents[2].Role)
	assert.Equal(t, "change the shoes", gen.contents[2].Parts[0].Text)

	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, "be a stylist", gen.config.SystemInstruction.Parts[0].Text)
}

func TestGeminiCompleteWrapsUpstreamError(t *testing.T) {
	upstream := errors.New("503 service unavailable")
	g := NewGeminiStylist(&fakeContentGenerator{err: upstream}, Flash25)

	_, err := g.Complete(context.Background(), "sys", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
}

func TestGeminiBlockedCandidate(t *testing.T) {
	resp := textResponse("nope")
	resp.Candidates[0].SafetyRatings = []*genai.SafetyRating{{Blocked: true}}
	g := NewGeminiStylist(&fakeContentGenerator{response: resp}, Flash25)

	_, err := g.Complete(context.Background(), "sys", nil)
	assert.ErrorIs(t, err, ErrContentBlocked)
}

func TestGeminiNilResponse(t *testing.T) {
	g := NewGeminiStylist(&fakeContentGenerator{}, Flash25)
	_, err := g.Complete(context.Background(), "sys", nil)
	assert.Error(t, err)
}

func TestAnalyzeClothingImageSendsImageAndSchema(t *testing.T) {
	gen := &fakeContentGenerator{response: textResponse(`{"name":"Tee","category":"t-shirt","colors":["black"],"styles":["casual"],"seasons":["summer"]}`)}
	g := NewGeminiStylist(gen, FlashLite25)

	resp, err := g.AnalyzeClothingImage(context.Background(), []byte{0xff, 0xd8, 0xff}, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, `"category":"t-shirt"`)

	assert.Equal(t, "gemini-2.5-flash-lite", gen.model)
	require.Len(t, gen.contents, 1)
	require.NotNil(t, gen.contents[0].Parts[0].InlineData)
	assert.Equal(t, "image/jpeg", gen.contents[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, gen.config.ResponseSchema.Type)
	assert.Contains(t, gen.config.ResponseSchema.Required, "category")
}

func TestParseLLMModelName(t *testing.T) {
	assert.Equal(t, Pro25, ParseLLMModelName("gemini-2.5-pro", Flash25))
	assert.Equal(t, FlashLite25, ParseLLMModelName("gemini-2.5-flash-lite", Flash25))
	assert.Equal(t, Flash25, ParseLLMModelName("gpt-4", Flash25))
	assert.Equal(t, Flash25, ParseLLMModelName("", Flash25))
}
