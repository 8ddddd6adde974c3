package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"studysharper/flashgate/pkg/flashcards"
	"studysharper/flashgate/pkg/retry"
)

// Proxy paths.
const (
	pathFlashcards = "/api/flashcards"
	pathGenerate   = "/api/flashcards/generate"
	pathSets       = "/api/flashcards/sets"
	pathSetCreate  = "/api/flashcards/sets/create"
	pathReview     = "/api/flashcards/review"
	pathSuggest    = "/api/flashcards/suggest"
	pathChat       = "/api/flashcards/chat"
)

// setPath builds a path under a set. Ids of "." and ".." are refused since
// JoinPath would resolve them against the parent path.
func setPath(setID string, rest ...string) (string, error) {
	if setID == "" || setID == "." || setID == ".." {
		return "", ErrInvalidID
	}
	p := pathSets + "/" + url.PathEscape(setID)
	for _, r := range rest {
		p += "/" + r
	}
	return p, nil
}

// GenerateFlashcards asks the backend to build a set from notes.
func (c *Client) GenerateFlashcards(ctx context.Context, req flashcards.GenerateFlashcardsRequest, opts ...retry.Option) retry.Result[flashcards.FlashcardSet] {
	op := attempt[flashcards.FlashcardSet](c, http.MethodPost, pathGenerate, nil, req, "Failed to generate flashcards")
	return retry.Do(ctx, c.policy.With(opts...), op)
}

// GetFlashcardSets lists the caller's sets. Each attempt carries a fresh
// timestamp query parameter so no intermediate cache can answer it.
func (c *Client) GetFlashcardSets(ctx context.Context, opts ...retry.Option) retry.Result[[]flashcards.FlashcardSet] {
	bust := func() url.Values {
		return url.Values{"t": {strconv.FormatInt(c.now().UnixMilli(), 10)}}
	}
	op := attempt[[]flashcards.FlashcardSet](c, http.MethodGet, pathSets, bust, nil, "Failed to fetch flashcard sets")
	return retry.Do(ctx, c.policy.With(opts...), op)
}

// GenerateSuggestedFlashcards asks the backend to compute new suggestions.
func (c *Client) GenerateSuggestedFlashcards(ctx context.Context, opts ...retry.Option) retry.Result[flashcards.SuggestionsResponse] {
	op := attempt[flashcards.SuggestionsResponse](c, http.MethodPost, pathSuggest, nil, nil, "Failed to generate suggestions")
	return retry.Do(ctx, c.policy.With(opts...), op)
}

// GetSuggestedFlashcards lists the current suggestions.
func (c *Client) GetSuggestedFlashcards(ctx context.Context, opts ...retry.Option) retry.Result[flashcards.SuggestionsResponse] {
	op := attempt[flashcards.SuggestionsResponse](c, http.MethodGet, pathSuggest, nil, nil, "Failed to fetch suggestions")
	return retry.Do(ctx, c.policy.With(opts...), op)
}

// GetFlashcardsInSet returns the cards of a set in order.
func (c *Client) GetFlashcardsInSet(ctx context.Context, setID string) ([]flashcards.Flashcard, error) {
	const fallback = "Failed to fetch flashcards"
	path, err := setPath(setID, "cards")
	if err != nil {
		return nil, &APIError{Message: fallback, Cause: err}
	}
	return call[[]flashcards.Flashcard](ctx, c, http.MethodGet, path, nil, fallback)
}

// DeleteFlashcardSet deletes a set and its cards.
func (c *Client) DeleteFlashcardSet(ctx context.Context, setID string) (flashcards.SuccessResponse, error) {
	const fallback = "Failed to delete flashcard set"
	path, err := setPath(setID)
	if err != nil {
		return flashcards.SuccessResponse{}, &APIError{Message: fallback, Cause: err}
	}
	return call[flashcards.SuccessResponse](detached(ctx), c, http.MethodDelete, path, nil, fallback)
}

// RecordFlashcardReview reports a review outcome and returns the card with
// its updated review metadata.
func (c *Client) RecordFlashcardReview(ctx context.Context, req flashcards.RecordReviewRequest) (flashcards.Flashcard, error) {
	return call[flashcards.Flashcard](detached(ctx), c, http.MethodPost, pathReview, req, "Failed to record review")
}

// CreateBlankFlashcardSet creates an empty set.
func (c *Client) CreateBlankFlashcardSet(ctx context.Context, req flashcards.CreateFlashcardSetRequest) (flashcards.CreateFlashcardSetResponse, error) {
	return call[flashcards.CreateFlashcardSetResponse](detached(ctx), c, http.MethodPost, pathSetCreate, req, "Failed to create flashcard set")
}

// SendFlashcardChatMessage sends one message to the flashcard assistant.
func (c *Client) SendFlashcardChatMessage(ctx context.Context, msg flashcards.ChatMessage) (flashcards.ChatResponse, error) {
	return call[flashcards.ChatResponse](detached(ctx), c, http.MethodPost, pathChat, msg, "Chat request failed")
}

// CreateManualFlashcard adds a card to a set. An empty explanation is omitted.
func (c *Client) CreateManualFlashcard(ctx context.Context, setID, front, back, explanation string) (flashcards.Flashcard, error) {
	req := flashcards.NewCard{
		SetID:       setID,
		Front:       front,
		Back:        back,
		Explanation: flashcards.String(explanation),
	}
	return call[flashcards.Flashcard](detached(ctx), c, http.MethodPost, pathFlashcards, req, "Failed to create flashcard")
}

// UpdateFlashcard changes the given fields of a card.
func (c *Client) UpdateFlashcard(ctx context.Context, update flashcards.CardUpdate) (flashcards.Flashcard, error) {
	return call[flashcards.Flashcard](detached(ctx), c, http.MethodPut, pathFlashcards, update, "Failed to update flashcard")
}

// DeleteFlashcard removes a single card.
func (c *Client) DeleteFlashcard(ctx context.Context, cardID string) (flashcards.SuccessResponse, error) {
	return call[flashcards.SuccessResponse](detached(ctx), c, http.MethodDelete, pathFlashcards, flashcards.CardRef{ID: cardID}, "Failed to delete flashcard")
}
