package flashcards

import "encoding/json"

// FlashcardSet is a named collection of cards owned by the caller's session.
type FlashcardSet struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	SourceType    string   `json:"source_type,omitempty"`
	SourceNoteIDs []string `json:"source_note_ids,omitempty"`
	TotalCards    int      `json:"total_cards,omitempty"`
	MasteredCards int      `json:"mastered_cards,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// Flashcard is a single card. Review metadata is produced by the backend and
// kept as numbers of whatever precision the backend chooses.
type Flashcard struct {
	ID             string  `json:"id"`
	SetID          string  `json:"set_id"`
	Front          string  `json:"front"`
	Back           string  `json:"back"`
	Explanation    *string `json:"explanation,omitempty"`
	Position       float64 `json:"position,omitempty"`
	MasteryLevel   float64 `json:"mastery_level,omitempty"`
	TimesReviewed  float64 `json:"times_reviewed,omitempty"`
	TimesCorrect   float64 `json:"times_correct,omitempty"`
	NextReviewDate string  `json:"next_review_date,omitempty"`
	LastReviewedAt string  `json:"last_reviewed_at,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// ExplanationText returns the explanation or "" when the card has none.
func (f Flashcard) ExplanationText() string {
	if f.Explanation == nil {
		return ""
	}
	return *f.Explanation
}

// NewCard is the payload for creating a single card in an existing set.
type NewCard struct {
	SetID       string  `json:"set_id"`
	Front       string  `json:"front"`
	Back        string  `json:"back"`
	Explanation *string `json:"explanation,omitempty"`
}

// CardUpdate changes some fields of an existing card. Nil fields are left as is.
type CardUpdate struct {
	ID          string  `json:"id"`
	Front       *string `json:"front,omitempty"`
	Back        *string `json:"back,omitempty"`
	Explanation *string `json:"explanation,omitempty"`
}

// CardRef identifies a card in a delete request.
type CardRef struct {
	ID string `json:"id"`
}

// RecordReviewRequest reports the outcome of one card review.
type RecordReviewRequest struct {
	FlashcardID      string `json:"flashcard_id"`
	WasCorrect       bool   `json:"was_correct"`
	ConfidenceLevel  *int   `json:"confidence_level,omitempty"`
	TimeSpentSeconds *int   `json:"time_spent_seconds,omitempty"`
}

// GenerateFlashcardsRequest asks the backend to build a set from notes.
type GenerateFlashcardsRequest struct {
	NoteIDs    []string `json:"note_ids"`
	NumCards   int      `json:"num_cards,omitempty"`
	Title      string   `json:"title,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// SuggestedFlashcardSet is a backend-computed candidate set. Read only.
type SuggestedFlashcardSet struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	NoteIDs     []string `json:"note_ids,omitempty"`
	CardCount   int      `json:"card_count,omitempty"`
	Topic       string   `json:"topic,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// SuggestionsResponse is the body of the suggestion listing.
type SuggestionsResponse struct {
	Suggestions []SuggestedFlashcardSet `json:"suggestions"`
	Count       int                     `json:"count"`
}

// CreateFlashcardSetRequest creates an empty set.
type CreateFlashcardSetRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// CreateFlashcardSetResponse is returned by the blank set endpoint.
type CreateFlashcardSetResponse struct {
	Success bool         `json:"success"`
	Set     FlashcardSet `json:"set"`
}

// ChatMessage is one turn sent to the flashcard assistant.
type ChatMessage struct {
	Message string          `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

// ChatResponse is the assistant's reply. Flashcards is set when the reply
// created or proposed cards.
type ChatResponse struct {
	Response   string          `json:"response"`
	Flashcards []Flashcard     `json:"flashcards,omitempty"`
	Set        *FlashcardSet   `json:"set,omitempty"`
	Extra      json.RawMessage `json:"metadata,omitempty"`
}

// SuccessResponse is the body of delete operations.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorPayload is the error body used by the proxy and expected by the client.
type ErrorPayload struct {
	Error string `json:"error"`
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
