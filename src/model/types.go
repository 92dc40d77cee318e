package model

// ----------------------------------------------------
// ================ Intent ================

// Category is one of the fixed conversational-purpose labels that route
// downstream processing.
type Category string

const (
	CategoryDining     Category = "dining"
	CategoryTravel     Category = "travel"
	CategoryGifting    Category = "gifting"
	CategoryCabBooking Category = "cab_booking"
	CategoryGreetings  Category = "greetings"
	CategoryOther      Category = "other"
)

// ParseCategory maps a model-asserted category string onto the closed set.
// The second return is false for anything outside it.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryDining, CategoryTravel, CategoryGifting, CategoryCabBooking,
		CategoryGreetings, CategoryOther:
		return Category(s), true
	}
	return "", false
}

// IsSlotBased reports whether the category carries a slot schema.
func (c Category) IsSlotBased() bool {
	switch c {
	case CategoryDining, CategoryTravel, CategoryGifting, CategoryCabBooking:
		return true
	}
	return false
}

// ----------------------------------------------------
// ================ Turn output ================

// SearchResult is one record returned by the web search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// TurnResponse is the assembled output of one turn. Exactly one of the three
// spec'd shapes is populated: web_search_response for "other", response for
// "greetings", key_entities + follow_up_questions for slot-based intents.
// Error carries the error kind when the turn was aborted; Response then holds
// the user-facing apology.
type TurnResponse struct {
	IntentCategory    string         `json:"intent_category,omitempty"`
	ConfidenceScore   float64        `json:"confidence_score,omitempty"`
	Response          string         `json:"response,omitempty"`
	WebSearchResponse []SearchResult `json:"web_search_response,omitempty"`
	KeyEntities       map[string]any `json:"key_entities,omitempty"`
	FollowUpQuestions []string       `json:"follow_up_questions,omitempty"`
	Error             string         `json:"error,omitempty"`
}
