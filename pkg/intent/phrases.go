package intent

// PhraseSets holds the keyword and phrase data the classifier evaluates.
// Kept as data rather than control flow so the sets can be extended and
// tested independently of the dispatch order.
type PhraseSets struct {
	Greetings    []string
	Thanks       []string
	Farewells    []string
	Affirmations []string
	Objections   []string

	// Sub-keywords that branch an objection into a specific script.
	CostKeywords []string
	FearKeywords []string

	// Question detection.
	QuestionWords   []string
	QuestionAuxes   []string
	DeclarativeLead []string

	// Statement exceptions that carry retrievable intent.
	DesirePhrases []string
	ClinicalTerms []string

	// Distress keywords that redirect statements into retrieval and
	// lower the retrieval threshold for the query.
	EmotionalKeywords []string
	FinancialKeywords []string

	// Buying-intent scoring, independent of the primary route.
	HighIntentKeywords   []string
	MediumIntentKeywords []string
}

// DefaultPhrases returns the built-in phrase sets for the practice.
func DefaultPhrases() PhraseSets {
	return PhraseSets{
		Greetings: []string{
			"hi", "hello", "hey", "howdy", "good morning", "good afternoon",
			"good evening", "hi there", "hello there",
		},
		Thanks: []string{
			"thanks", "thank you", "thx", "appreciate it", "thanks a lot",
		},
		Farewells: []string{
			"bye", "goodbye", "see you", "take care", "have a good day",
			"have a good one",
		},
		Affirmations: []string{
			"yes", "yeah", "yep", "yup", "sure", "ok", "okay", "sounds good",
			"let's do it", "lets do it", "schedule", "book me", "sign me up",
			"i'm ready", "im ready", "absolutely", "definitely", "let's go",
		},
		Objections: []string{
			"no", "nope", "not sure", "i'm not sure", "im not sure",
			"not right now", "not now", "maybe later", "too expensive",
			"can't afford", "cant afford", "i don't know", "i dont know",
			"i'm scared", "im scared", "scared", "i'm nervous", "im nervous",
			"need to think", "i need to think", "not ready", "i'm not ready",
			"im not ready", "it's too much", "its too much",
		},
		CostKeywords: []string{
			"expensive", "afford", "cost", "price", "money", "too much",
		},
		FearKeywords: []string{
			"scared", "afraid", "nervous", "worried", "pain", "hurt", "risky",
		},
		QuestionWords: []string{
			"what", "when", "where", "who", "why", "how", "which",
		},
		QuestionAuxes: []string{
			"is it", "is there", "are there", "can i", "could i", "will i",
			"would i", "do i", "does it", "should i", "am i", "how much",
			"how long", "how soon", "how many",
		},
		DeclarativeLead: []string{
			"i am", "i'm", "im ", "i have", "i've", "ive ", "i was told",
			"i need", "i want", "i wear", "i had", "i use", "i work",
			"my doctor", "my prescription", "my eyes", "my vision",
			"my optometrist",
		},
		DesirePhrases: []string{
			"i want", "i'd like", "id like", "i wish", "interested in",
			"hoping to", "i'm hoping", "im hoping", "thinking about getting",
		},
		ClinicalTerms: []string{
			"diopter", "diopters", "astigmatism", "cornea", "corneal",
			"myopia", "hyperopia", "presbyopia", "keratoconus",
			"prescription", "contact lens", "contacts", "glasses", "dry eye",
			"cataract", "pupil", "retina", "nearsighted", "farsighted",
			"pachymetry", "topography",
		},
		EmotionalKeywords: []string{
			"nervous", "scared", "worried", "anxious", "afraid", "terrified",
			"freaking out",
		},
		FinancialKeywords: []string{
			"expensive", "afford", "cost", "price", "budget", "financing",
			"insurance", "payment",
		},
		HighIntentKeywords: []string{
			"schedule", "book", "consultation", "appointment", "sign me up",
			"ready to", "when can i come in",
		},
		MediumIntentKeywords: []string{
			"cost", "price", "financing", "candidate", "how soon",
			"am i eligible", "qualify",
		},
	}
}

// Canned replies for the short-circuit routes.
const (
	greetingReply = "Hi! I'm the Clearview Vision assistant. Ask me anything about LASIK, PRK, SMILE, or EVO ICL: costs, recovery, candidacy, you name it."
	thanksReply   = "You're very welcome! Is there anything else about your vision correction options I can help with?"
	farewellReply = "Take care! If any other questions come up, I'm here, or give our office a call anytime."

	affirmationReply = "Wonderful! The next step is a free consultation where we map your eyes and confirm which procedure fits you best. Call our office or use the Schedule button above and we'll find a time that works for you."

	objectionCostReply  = "I completely understand, cost is a big factor. The good news is most of our patients finance their procedure for about the monthly cost of contacts and solution, and we offer 0% plans. Would it help if I broke down the pricing and financing options?"
	objectionFearReply  = "That's a really common feeling, and it's okay. The procedure itself takes only a few minutes, your eyes are numbed, and our surgeons have done thousands of these safely. What part worries you most? I'm happy to walk through it."
	objectionProbeReply = "No problem at all, there's no pressure here. What's holding you back? If you tell me a little more, I can share information that might help you decide."
)
