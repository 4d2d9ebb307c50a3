// Package intent classifies incoming chat messages into routes that decide
// how the pipeline responds: canned small-talk replies, scheduling
// call-to-actions, objection handling, conversational steering, or the
// retrieval-augmented answer path.
package intent

import (
	"regexp"
	"strings"

	"github.com/clearview/faq-assistant/pkg/models"
)

// prescriptionRe matches numeric prescription values like "-9", "+2.5" or
// "3 diopters". A statement carrying one has retrievable intent even
// without question syntax.
var prescriptionRe = regexp.MustCompile(`[-+]\d+(\.\d+)?|\b\d+(\.\d+)?\s*diopters?\b`)

// rule pairs a predicate with the signal it produces. Rules are evaluated
// in order and the first match wins.
type rule struct {
	name  string
	match func(msg string) (models.IntentSignal, bool)
}

// Classifier assigns exactly one route to every message. Pure: no side
// effects, never fails: the final rule is a catch-all.
type Classifier struct {
	phrases PhraseSets
	rules   []rule
}

// NewClassifier builds a classifier over the given phrase sets.
func NewClassifier(phrases PhraseSets) *Classifier {
	c := &Classifier{phrases: phrases}
	c.rules = []rule{
		{name: "greeting", match: c.matchGreeting},
		{name: "affirmation", match: c.matchAffirmation},
		{name: "objection", match: c.matchObjection},
		{name: "statement", match: c.matchStatement},
	}
	return c
}

// Classify returns the primary route for message plus an independent
// buying-intent score.
func (c *Classifier) Classify(message string) models.IntentSignal {
	msg := normalize(message)

	for _, r := range c.rules {
		if signal, ok := r.match(msg); ok {
			return signal
		}
	}

	// Catch-all: everything else goes to retrieval.
	return models.IntentSignal{
		Route:        models.RouteRetrieval,
		BuyingIntent: c.scoreBuyingIntent(msg),
	}
}

func (c *Classifier) matchGreeting(msg string) (models.IntentSignal, bool) {
	signal := models.IntentSignal{Route: models.RouteGreeting, BuyingIntent: models.BuyingIntentNone}

	switch {
	case startsWithAny(msg, c.phrases.Thanks):
		signal.CannedReply = thanksReply
	case startsWithAny(msg, c.phrases.Farewells):
		signal.CannedReply = farewellReply
	case startsWithAny(msg, c.phrases.Greetings):
		signal.CannedReply = greetingReply
	default:
		return models.IntentSignal{}, false
	}
	return signal, true
}

func (c *Classifier) matchAffirmation(msg string) (models.IntentSignal, bool) {
	if !startsWithAny(msg, c.phrases.Affirmations) {
		return models.IntentSignal{}, false
	}
	// Saying yes to scheduling is the strongest signal we get.
	return models.IntentSignal{
		Route:        models.RouteAffirmation,
		BuyingIntent: models.BuyingIntentHigh,
		CannedReply:  affirmationReply,
	}, true
}

func (c *Classifier) matchObjection(msg string) (models.IntentSignal, bool) {
	if !startsWithAny(msg, c.phrases.Objections) {
		return models.IntentSignal{}, false
	}

	// Objecting is still engaging; these users convert often enough that
	// the signal stays at medium.
	signal := models.IntentSignal{
		Route:        models.RouteObjection,
		BuyingIntent: models.BuyingIntentMedium,
	}
	switch {
	case containsAny(msg, c.phrases.CostKeywords):
		signal.CannedReply = objectionCostReply
	case containsAny(msg, c.phrases.FearKeywords):
		signal.CannedReply = objectionFearReply
	default:
		signal.CannedReply = objectionProbeReply
	}
	return signal, true
}

func (c *Classifier) matchStatement(msg string) (models.IntentSignal, bool) {
	if c.looksLikeQuestion(msg) {
		return models.IntentSignal{}, false
	}
	if !startsWithAny(msg, c.phrases.DeclarativeLead) {
		return models.IntentSignal{}, false
	}

	score := c.scoreBuyingIntent(msg)

	// Statements that name a procedure desire, a prescription value or
	// clinical vocabulary carry retrievable intent despite the missing
	// question syntax. Distress statements are redirected too, so that
	// grounded reassurance content gets surfaced instead of small talk.
	if containsAny(msg, c.phrases.DesirePhrases) ||
		prescriptionRe.MatchString(msg) ||
		containsAny(msg, c.phrases.ClinicalTerms) ||
		containsAny(msg, c.phrases.EmotionalKeywords) ||
		containsAny(msg, c.phrases.FinancialKeywords) {
		return models.IntentSignal{Route: models.RouteRetrieval, BuyingIntent: score}, true
	}

	return models.IntentSignal{Route: models.RouteStatement, BuyingIntent: score}, true
}

// looksLikeQuestion reports whether msg has question syntax: a question
// mark, a question word, or an interrogative auxiliary pattern.
func (c *Classifier) looksLikeQuestion(msg string) bool {
	if strings.Contains(msg, "?") {
		return true
	}
	for _, word := range strings.Fields(msg) {
		trimmed := strings.Trim(word, ".,!;:")
		for _, qw := range c.phrases.QuestionWords {
			if trimmed == qw {
				return true
			}
		}
	}
	return containsAny(msg, c.phrases.QuestionAuxes)
}

func (c *Classifier) scoreBuyingIntent(msg string) models.BuyingIntent {
	if containsAny(msg, c.phrases.HighIntentKeywords) {
		return models.BuyingIntentHigh
	}
	if containsAny(msg, c.phrases.MediumIntentKeywords) {
		return models.BuyingIntentMedium
	}
	if len(FindProcedures(msg)) > 0 {
		return models.BuyingIntentLow
	}
	return models.BuyingIntentNone
}

// IsEmotionalConcern reports whether the query expresses emotional
// distress. Used by the retriever to lower its similarity bar.
func (c *Classifier) IsEmotionalConcern(query string) bool {
	return containsAny(normalize(query), c.phrases.EmotionalKeywords)
}

// IsFinancialConcern reports whether the query expresses cost distress.
func (c *Classifier) IsFinancialConcern(query string) bool {
	return containsAny(normalize(query), c.phrases.FinancialKeywords)
}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// startsWithAny reports whether msg equals or begins with any phrase,
// allowing a trailing space or punctuation after the match.
func startsWithAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if msg == p {
			return true
		}
		if strings.HasPrefix(msg, p) {
			rest := msg[len(p):]
			switch rest[0] {
			case ' ', ',', '.', '!', '?', ';', ':':
				return true
			}
		}
	}
	return false
}

func containsAny(msg string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}
