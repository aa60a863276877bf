package stylist

import (
	"regexp"
	"strings"

	"wardrobeapi/languageutil"
	"wardrobeapi/vocab"

	"github.com/tidwall/gjson"
)

type ParseOutcome int

const (
	Parsed ParseOutcome = iota
	Declined
	Failed
)

func (o ParseOutcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Declined:
		return "declined"
	default:
		return "failed"
	}
}

// ParseResult carries the candidates of a Parsed response, the prose of a
// Declined one, or the reason a response Failed.
type ParseResult struct {
	Outcome ParseOutcome
	Outfits []OutfitCandidate
	Message string
	Reason  string
}

var (
	fenceBlock    = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\\r?\\n?(.*?)```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

var declinePhrases = []string{
	"i'm sorry", "i am sorry", "sorry", "apologies", "i apologize",
	"i can't", "i cannot", "i can not", "i won't",
	"i'm unable", "i am unable", "unable to", "i'm not able", "i am not able", "not able to",
	"can only help", "only help with", "outside my", "not related to", "as an ai",
	"i don't have enough", "i do not have enough",
}

// ParseResponse turns raw model output into outfit candidates. It never
// trusts field presence: every field is optional, ids may be strings or
// numbers, and singular field names are accepted next to plural ones.
func ParseResponse(raw string) ParseResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ParseResult{Outcome: Failed, Reason: "empty response"}
	}

	body, ok := extractJSON(stripFences(text))
	if !ok {
		return declinedOrFailed(text, "no json found")
	}

	root := gjson.Parse(body)
	message := firstString(root, "message", "reply")

	var entries []gjson.Result
	switch {
	case root.IsArray():
		entries = root.Array()
	case root.Get("outfits").IsArray():
		entries = root.Get("outfits").Array()
	case root.Get("outfits").IsObject():
		entries = []gjson.Result{root.Get("outfits")}
	case root.Get("suggestions").IsArray():
		entries = root.Get("suggestions").Array()
	case root.Get("outfit").IsObject():
		entries = []gjson.Result{root.Get("outfit")}
	case root.Get("items").Exists() || root.Get("item").Exists():
		entries = []gjson.Result{root}
	case message != "":
		return ParseResult{Outcome: Declined, Message: message}
	default:
		return ParseResult{Outcome: Failed, Reason: "json has no outfits"}
	}

	outfits := make([]OutfitCandidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsObject() {
			continue
		}
		outfits = append(outfits, parseOutfit(entry))
	}
	return ParseResult{Outcome: Parsed, Outfits: outfits, Message: message}
}

func declinedOrFailed(text, reason string) ParseResult {
	if IsDeclineText(text) {
		return ParseResult{Outcome: Declined, Message: text}
	}
	return ParseResult{Outcome: Failed, Reason: reason}
}

// IsDeclineText reports whether prose reads like the model refusing to help.
func IsDeclineText(text string) bool {
	_, ok := languageutil.ContainsAnyWord(languageutil.Fold(text), foldAll(declinePhrases))
	return ok
}

func foldAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = languageutil.Fold(p)
	}
	return out
}

func stripFences(text string) string {
	if m := fenceBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// extractJSON scans every opening bracket left to right and returns the
// first valid span that reads like an outfit payload. Brackets in the
// surrounding prose ("Here are [2] ideas") only win when nothing better is found.
func extractJSON(text string) (string, bool) {
	fallback := ""
	tried := 0
	for start := 0; start < len(text) && tried < maxOpenerAttempts; start++ {
		var closer byte
		switch text[start] {
		case '{':
			closer = '}'
		case '[':
			closer = ']'
		default:
			continue
		}
		tried++
		body, ok := spanJSON(text, start, closer)
		if !ok {
			continue
		}
		if looksLikePayload(gjson.Parse(body)) {
			return body, true
		}
		if fallback == "" {
			fallback = body
		}
	}
	return fallback, fallback != ""
}

// looksLikePayload accepts an array holding at least one object, or an
// object carrying one of the fields ParseResponse and ParseItemAnalysis read.
func looksLikePayload(root gjson.Result) bool {
	if root.IsArray() {
		for _, entry := range root.Array() {
			if entry.IsObject() {
				return true
			}
		}
		return false
	}
	if !root.IsObject() {
		return false
	}
	for _, key := range payloadKeys {
		if root.Get(key).Exists() {
			return true
		}
	}
	return false
}

var payloadKeys = []string{
	"outfits", "outfit", "suggestions", "items", "item", "message", "reply",
	"name", "title", "category", "type", "clothing_type", "colors", "color",
}

const (
	maxOpenerAttempts = 64
	maxSpanAttempts   = 16
)

func spanJSON(text string, start int, closer byte) (string, bool) {
	end := strings.LastIndexByte(text, closer)
	for attempt := 0; end > start && attempt < maxSpanAttempts; attempt++ {
		candidate := text[start : end+1]
		if gjson.Valid(candidate) {
			return candidate, true
		}
		repaired := trailingComma.ReplaceAllString(candidate, "$1")
		if gjson.Valid(repaired) {
			return repaired, true
		}
		end = strings.LastIndexByte(text[:end], closer)
	}
	return "", false
}

func parseOutfit(r gjson.Result) OutfitCandidate {
	c := OutfitCandidate{
		Event:        firstString(r, "event", "occasion", "title", "name"),
		Items:        []ItemReference{},
		MissingItems: stringList(r, "missing_items", "missingItems", "missing_item", "missing"),
		Notes:        firstString(r, "notes", "note", "styling_notes", "tip"),
	}
	items := firstExisting(r, "items", "item", "clothes")
	if items.IsObject() {
		if ref := parseItem(items); ref.ItemID != "" {
			c.Items = append(c.Items, ref)
		}
		return c
	}
	for _, item := range items.Array() {
		if ref := parseItem(item); ref.ItemID != "" {
			c.Items = append(c.Items, ref)
		}
	}
	return c
}

func parseItem(r gjson.Result) ItemReference {
	switch r.Type {
	case gjson.String, gjson.Number:
		return ItemReference{ItemID: strings.TrimSpace(r.String())}
	}
	if !r.IsObject() {
		return ItemReference{}
	}
	return ItemReference{
		ItemID:   firstString(r, "item_id", "itemId", "id"),
		Category: firstString(r, "category", "type", "slot"),
		Reason:   firstString(r, "reason", "why", "description"),
	}
}

func firstExisting(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := r.Get(k)
		if v.Type == gjson.String || v.Type == gjson.Number {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList reads the first present key as a list; a lone string becomes a
// single-element list.
func stringList(r gjson.Result, keys ...string) []string {
	out := []string{}
	v := firstExisting(r, keys...)
	if !v.Exists() {
		return out
	}
	if !v.IsArray() {
		if s := strings.TrimSpace(v.String()); s != "" && v.Type == gjson.String {
			out = append(out, s)
		}
		return out
	}
	for _, e := range v.Array() {
		if s := strings.TrimSpace(e.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ItemAnalysis is the model's description of a single clothing photo.
type ItemAnalysis struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	Styles      []string `json:"styles"`
	Seasons     []string `json:"seasons"`
}

// ParseItemAnalysis reads an image analysis payload with the same tolerance
// as ParseResponse. A Declined or Failed outcome comes back as an error.
func ParseItemAnalysis(raw string) (*ItemAnalysis, error) {
	text := strings.TrimSpace(raw)
	body, ok := extractJSON(stripFences(text))
	if !ok {
		if text != "" && IsDeclineText(text) {
			return nil, &ParseError{Outcome: Declined, Detail: text}
		}
		return nil, &ParseError{Outcome: Failed, Detail: "no json found"}
	}
	r := gjson.Parse(body)
	if r.IsArray() {
		r = r.Get("0")
	}
	if r.Get("item").IsObject() {
		r = r.Get("item")
	}
	if !r.IsObject() {
		return nil, &ParseError{Outcome: Failed, Detail: "analysis is not an object"}
	}
	return &ItemAnalysis{
		Name:        firstString(r, "name", "title"),
		Description: firstString(r, "description", "details"),
		Category:    firstString(r, "category", "type", "clothing_type"),
		Colors:      stringList(r, "colors", "color"),
		Styles:      stringList(r, "styles", "style"),
		Seasons:     stringList(r, "seasons", "season"),
	}, nil
}

// Canonical maps every attribute onto the fixed vocabularies. The category
// falls back to the default; unknown colors, styles and seasons are dropped.
func (a ItemAnalysis) Canonical() ItemAnalysis {
	a.Category = vocab.CanonicalizeCategory(a.Category)
	a.Colors = vocab.CanonicalizeAll(vocab.Color, a.Colors)
	a.Styles = vocab.CanonicalizeAll(vocab.Style, a.Styles)
	a.Seasons = vocab.CanonicalizeAll(vocab.Season, a.Seasons)
	return a
}

type ParseError struct {
	Outcome ParseOutcome
	Detail  string
}

func (e *ParseError) Error() string {
	return "model response " + e.Outcome.String() + ": " + e.Detail
}
