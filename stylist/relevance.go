package stylist

import (
	"strings"

	"wardrobeapi/languageutil"
	"wardrobeapi/vocab"
)

type Relevance int

const (
	Relevant Relevance = iota
	SmallTalk
	OffTopic
)

type RelevanceVerdict struct {
	Relevance Relevance
	Reply     string
}

const (
	thanksReply   = "You're welcome! Let me know whenever you want another outfit idea."
	greetingReply = "Hi! Tell me where you're heading or what the weather is like and I'll put together an outfit from your wardrobe."
	offTopicReply = "I can only help with outfits from your wardrobe. Tell me about the occasion or the weather and I'll suggest something to wear."
)

var thanksPhrases = []string{
	"thanks", "thank you", "thank u", "thx", "ty", "cheers", "appreciate it", "much appreciated", "great job", "love it",
}

var greetingPhrases = []string{
	"hi", "hello", "hey", "hiya", "howdy", "yo", "good morning", "good afternoon", "good evening", "greetings",
}

// smallTalkFiller may sit next to a greeting or thanks without turning the
// message into a request.
var smallTalkFiller = []string{
	"there", "so", "very", "much", "a", "lot", "again", "you", "u", "all", "guys", "everyone",
	"friend", "buddy", "stylist", "oh", "ok", "okay", "and", "that's", "that", "is", "it's",
	"perfect", "great", "nice", "cool", "awesome", "amazing", "lovely", "helpful", "really", "just",
}

var fashionKeywords = []string{
	"outfit", "outfits", "wear", "wearing", "clothes", "clothing", "style", "styled", "look", "dressed", "dress up",
	"match", "matching", "pair", "combo", "combination", "closet", "wardrobe", "fashion", "weather", "cold", "hot",
	"rain", "raining", "warm", "chilly", "sunny", "snowing", "suggest", "suggestion", "recommend", "color", "colour",
}

type offTopicPattern struct {
	topic    string
	keywords []string
}

// Checked only when nothing in the message is about clothes.
var offTopicPatterns = []offTopicPattern{
	{"programming", []string{"code", "coding", "python", "javascript", "golang", "program", "compile", "debug", "sql", "regex"}},
	{"math", []string{"solve", "equation", "calculate", "integral", "derivative", "math", "algebra"}},
	{"homework", []string{"essay", "homework", "summarize", "translate", "write a poem", "poem", "story"}},
	{"news", []string{"election", "president", "politics", "news", "war", "stock", "stocks", "crypto", "bitcoin", "invest"}},
	{"food", []string{"recipe", "cook", "cooking", "bake", "baking", "calories"}},
	{"trivia", []string{"capital of", "who invented", "who is", "what year", "joke", "riddle"}},
}

// CheckRelevance classifies a chat message before any upstream call. Short
// thanks and greetings get a canned reply, clearly unrelated requests are
// rejected, and everything else goes through.
func CheckRelevance(message string) RelevanceVerdict {
	folded := languageutil.Fold(message)
	if folded == "" {
		return RelevanceVerdict{Relevance: OffTopic, Reply: offTopicReply}
	}
	if isAboutClothes(message, folded) {
		return RelevanceVerdict{Relevance: Relevant}
	}
	if rest, thanked := stripPhrases(folded, thanksPhrases); thanked {
		if rest, _ = stripPhrases(rest, greetingPhrases); isFiller(rest) {
			return RelevanceVerdict{Relevance: SmallTalk, Reply: thanksReply}
		}
	} else if rest, greeted := stripPhrases(folded, greetingPhrases); greeted && isFiller(rest) {
		return RelevanceVerdict{Relevance: SmallTalk, Reply: greetingReply}
	}
	for _, p := range offTopicPatterns {
		if _, ok := languageutil.ContainsAnyWord(folded, p.keywords); ok {
			return RelevanceVerdict{Relevance: OffTopic, Reply: offTopicReply}
		}
	}
	return RelevanceVerdict{Relevance: Relevant}
}

// stripPhrases removes every phrase found in folded and reports whether any was.
func stripPhrases(folded string, phrases []string) (string, bool) {
	found := false
	for _, p := range phrases {
		if languageutil.ContainsWord(folded, p) {
			found = true
			folded = languageutil.RemoveWord(folded, p)
		}
	}
	return folded, found
}

func isFiller(rest string) bool {
	for _, w := range strings.Fields(rest) {
		if _, ok := languageutil.ContainsAnyWord(w, smallTalkFiller); !ok {
			return false
		}
	}
	return true
}

func isAboutClothes(message, folded string) bool {
	if _, ok := languageutil.ContainsAnyWord(folded, fashionKeywords); ok {
		return true
	}
	if _, ok := languageutil.ContainsAnyWord(folded, occasionKeywords); ok {
		return true
	}
	return len(vocab.Mentions(vocab.Category, message)) > 0
}
