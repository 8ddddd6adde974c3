package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"studysharper/flashgate/pkg/flashcards"
)

const fallbackUpdateMessage = "Failed to update card"

// EditorState is the CardEditor's lifecycle state.
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorEditing
	EditorSubmitting
)

func (s EditorState) String() string {
	switch s {
	case EditorClosed:
		return "closed"
	case EditorEditing:
		return "editing"
	case EditorSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("EditorState(%d)", int(s))
	}
}

// CardUpdater saves card edits. *client.Client implements it.
type CardUpdater interface {
	UpdateFlashcard(ctx context.Context, update flashcards.CardUpdate) (flashcards.Flashcard, error)
}

// CardEditor edits a single existing card.
type CardEditor struct {
	svc       CardUpdater
	onSuccess func(flashcards.Flashcard)

	mu          sync.Mutex
	state       EditorState
	cardID      string
	front       string
	back        string
	explanation string
	syncedFront string
	syncedBack  string
	errMsg      string
}

// NewCardEditor returns a closed editor. onSuccess receives the saved card
// and may be nil.
func NewCardEditor(svc CardUpdater, onSuccess func(flashcards.Flashcard)) *CardEditor {
	return &CardEditor{svc: svc, onSuccess: onSuccess}
}

// Open shows card in the editor, replacing any local edits.
func (e *CardEditor) Open(card flashcards.Flashcard) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = EditorEditing
	e.errMsg = ""
	e.sync(card)
}

// Show passes the currently displayed card to the editor. Local fields are
// re-synced only when the card differs from what was last synced, so edits
// in progress on the same card are kept.
func (e *CardEditor) Show(card flashcards.Flashcard) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditorClosed {
		return
	}
	if card.ID != e.cardID || card.Front != e.syncedFront || card.Back != e.syncedBack {
		e.sync(card)
	}
}

func (e *CardEditor) sync(card flashcards.Flashcard) {
	e.cardID = card.ID
	e.front = card.Front
	e.back = card.Back
	e.explanation = card.ExplanationText()
	e.syncedFront = card.Front
	e.syncedBack = card.Back
}

// SetFront edits the front text.
func (e *CardEditor) SetFront(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.front = s
}

// SetBack edits the back text.
func (e *CardEditor) SetBack(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.back = s
}

// SetExplanation edits the explanation.
func (e *CardEditor) SetExplanation(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.explanation = s
}

// Fields returns the local field values.
func (e *CardEditor) Fields() (front, back, explanation string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.front, e.back, e.explanation
}

// State returns the lifecycle state.
func (e *CardEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error currently shown, or "".
func (e *CardEditor) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// Close dismisses the editor. It is refused while a save is in flight.
func (e *CardEditor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditorSubmitting {
		return ErrBusy
	}
	e.state = EditorClosed
	e.errMsg = ""
	return nil
}

// Submit saves the edits. On success the saved card is handed to the
// success callback and the editor closes; on failure the error is shown and
// the editor stays open.
func (e *CardEditor) Submit(ctx context.Context) (flashcards.Flashcard, error) {
	e.mu.Lock()
	switch e.state {
	case EditorClosed:
		e.mu.Unlock()
		return flashcards.Flashcard{}, ErrNotOpen
	case EditorSubmitting:
		e.mu.Unlock()
		return flashcards.Flashcard{}, ErrBusy
	}

	front := strings.TrimSpace(e.front)
	back := strings.TrimSpace(e.back)
	if front == "" || back == "" {
		e.errMsg = ErrFrontBackEmpty.Message
		e.mu.Unlock()
		return flashcards.Flashcard{}, ErrFrontBackEmpty
	}
	update := flashcards.CardUpdate{
		ID:          e.cardID,
		Front:       &front,
		Back:        &back,
		Explanation: flashcards.String(strings.TrimSpace(e.explanation)),
	}
	e.state = EditorSubmitting
	e.errMsg = ""
	e.mu.Unlock()

	updated, err := e.svc.UpdateFlashcard(ctx, update)

	e.mu.Lock()
	if err != nil {
		e.state = EditorEditing
		e.errMsg = message(err, fallbackUpdateMessage)
		e.mu.Unlock()
		return flashcards.Flashcard{}, err
	}
	e.state = EditorClosed
	e.mu.Unlock()

	if e.onSuccess != nil {
		e.onSuccess(updated)
	}
	return updated, nil
}
