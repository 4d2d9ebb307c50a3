package models

// Route is the primary classification of an incoming message. Exactly one
// route is assigned per message, in fixed priority order.
type Route string

const (
	RouteGreeting    Route = "greeting"
	RouteAffirmation Route = "affirmation"
	RouteObjection   Route = "objection"
	RouteStatement   Route = "statement"
	RouteRetrieval   Route = "retrieval_question"
)

// BuyingIntent scores how close the user sounds to scheduling, derived
// from keyword matches independently of the primary route.
type BuyingIntent int

const (
	BuyingIntentNone BuyingIntent = iota
	BuyingIntentLow
	BuyingIntentMedium
	BuyingIntentHigh
)

// IntentSignal is the classifier's output for one message.
type IntentSignal struct {
	Route        Route        `json:"route"`
	BuyingIntent BuyingIntent `json:"buying_intent"`
	// CannedReply is set for routes that short-circuit the retrieval
	// path (greeting, affirmation, objection).
	CannedReply string `json:"-"`
}
