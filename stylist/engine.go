package stylist

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/getsentry/sentry-go"
)

// WardrobeStore provides the read-only wardrobe snapshot for a user.
type WardrobeStore interface {
	GetInventorySnapshot(ctx context.Context, userID uint) ([]ClosetItem, error)
}

// HistoryStore provides recently saved outfits, newest first.
type HistoryStore interface {
	GetRecentOutfits(ctx context.Context, userID uint, limit int) ([]HistoryEntry, error)
}

// TextGenerator is the generative model. One call per request, no retries.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt string, messages []ConversationTurn) (string, error)
}

var (
	ErrUpstreamUnavailable = errors.New("stylist upstream unavailable")
	ErrUnparseableResponse = errors.New("stylist response unparseable")
)

const (
	upstreamMessage    = "Our stylist is not available right now, please try again in a moment."
	parseFailedMessage = "Sorry, something went wrong while putting your outfits together, please try again."
	noUsableMessage    = "We couldn't build an outfit from your wardrobe. Try adding a few more items first."
	emptyClosetMessage = "Your wardrobe is empty. Add some clothes so we can suggest outfits."
)

type Engine struct {
	wardrobe  WardrobeStore
	history   HistoryStore
	generator TextGenerator
	config    Config
}

func NewEngine(wardrobe WardrobeStore, history HistoryStore, generator TextGenerator, config Config) *Engine {
	return &Engine{
		wardrobe:  wardrobe,
		history:   history,
		generator: generator,
		config:    config.withDefaults(),
	}
}

// GenerateSuggestions runs one chat turn through the relevance gate, the
// model and the reconciliation pipeline. Every outcome except cancellation
// is reported in the result; the error is only the context's.
func (e *Engine) GenerateSuggestions(ctx context.Context, req SuggestionRequest) (*SuggestionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tag := fmt.Sprintf("[Stylist %s]", req.RequestID)

	verdict := CheckRelevance(req.Message)
	switch verdict.Relevance {
	case SmallTalk:
		return &SuggestionResult{Success: true, Kind: KindSmallTalk, Message: verdict.Reply, Outfits: []OutfitCandidate{}}, nil
	case OffTopic:
		log.Printf("%s message rejected before upstream call", tag)
		return failure(KindRelevanceRejected, verdict.Reply), nil
	}

	items, err := e.wardrobe.GetInventorySnapshot(ctx, req.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("%s failed to load wardrobe for user %v: %v", tag, req.UserID, err)
		sentry.CaptureException(fmt.Errorf("%s wardrobe snapshot: %w", tag, err))
		return failure(KindUpstreamUnavailable, upstreamMessage), nil
	}
	inv := NewInventory(items)
	if inv.Len() == 0 {
		return failure(KindNoUsableItems, emptyClosetMessage), nil
	}

	var history []HistoryEntry
	if e.history != nil {
		history, err = e.history.GetRecentOutfits(ctx, req.UserID, e.config.HistoryLimit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("%s history unavailable, continuing without it: %v", tag, err)
			history = nil
		}
		history = RecentFirst(history, e.config.HistoryLimit)
	}

	plan := ResolveEdit(req.Message, req.Turns, req.PreviousOutfit, inv)
	log.Printf("%s user %v, %d items, %d saved outfits, mode %s", tag, req.UserID, inv.Len(), len(history), plan.Mode)

	system := BuildSystemPrompt(PromptInput{
		Inventory:   inv,
		Weather:     req.Weather,
		HistoryJSON: CompactHistory(history, e.config.HistoryLimit),
		Plan:        plan,
		MaxOutfits:  e.config.MaxOutfits,
	})
	raw, err := e.generator.Complete(ctx, system, BuildMessages(req.Turns, req.Message, e.config.TurnLimit))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("%s generator failed: %v", tag, err)
		sentry.CaptureException(fmt.Errorf("%s %w: %v", tag, ErrUpstreamUnavailable, err))
		return failure(KindUpstreamUnavailable, upstreamMessage), nil
	}

	parsed := ParseResponse(raw)
	switch parsed.Outcome {
	case Declined:
		return &SuggestionResult{Success: true, Kind: KindDeclined, Message: parsed.Message, Outfits: []OutfitCandidate{}}, nil
	case Failed:
		log.Printf("%s could not parse response (%s): %q", tag, parsed.Reason, raw)
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", req.RequestID)
			scope.SetExtra("raw_response", raw)
			sentry.CaptureException(fmt.Errorf("%s %w: %s", tag, ErrUnparseableResponse, parsed.Reason))
		})
		return failure(KindParseFailure, parseFailedMessage), nil
	}

	candidates := make([]OutfitCandidate, 0, len(parsed.Outfits))
	for _, outfit := range parsed.Outfits {
		validated, dropped := inv.Validate(outfit)
		if dropped > 0 {
			log.Printf("%s dropped %d unknown item references from %q", tag, dropped, outfit.Event)
		}
		candidates = append(candidates, CheckCompleteness(validated))
	}
	if plan.Mode == TargetedEdit {
		candidates = []OutfitCandidate{Splice(plan, candidates, inv)}
	}
	for i := range candidates {
		candidates[i] = AnnotateNovelty(candidates[i], history, e.config.RepeatThreshold)
	}

	outfits := usableFirst(candidates, e.config.MaxOutfits)
	if len(outfits) == 0 || outfits[0].NoUsableItems {
		result := failure(KindNoUsableItems, noUsableMessage)
		result.Outfits = outfits
		return result, nil
	}
	return &SuggestionResult{Success: true, Kind: KindSuggestions, Message: parsed.Message, Outfits: outfits}, nil
}

// usableFirst keeps candidate order but moves the ones with no items behind
// the usable ones, then applies the cap.
func usableFirst(candidates []OutfitCandidate, limit int) []OutfitCandidate {
	out := make([]OutfitCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.NoUsableItems {
			out = append(out, c)
		}
	}
	for _, c := range candidates {
		if c.NoUsableItems {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func failure(kind ResultKind, message string) *SuggestionResult {
	return &SuggestionResult{Success: false, Kind: kind, ErrorMessage: message, Outfits: []OutfitCandidate{}}
}
