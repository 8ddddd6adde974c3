package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"studysharper/flashgate/pkg/flashcards"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// MaxTitleLength and MaxDescriptionLength clamp the set's text fields,
	// counted in characters.
	MaxTitleLength       = 200
	MaxDescriptionLength = 500

	// DefaultNavigateDelay is how long the confirmation shows before
	// navigating away.
	DefaultNavigateDelay = time.Second

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 9

	fallbackCreateMessage = "Failed to create flashcard set"
)

// State is the Composer's lifecycle state.
type State int

const (
	StateEditing State = iota
	StateSaving
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Field names an editable card field.
type Field string

const (
	FieldFront       Field = "front"
	FieldBack        Field = "back"
	FieldExplanation Field = "explanation"
)

// DraftCard is a card that exists only in the Composer.
type DraftCard struct {
	ID          string
	Front       string
	Back        string
	Explanation string
}

// Complete reports whether the card has both a front and a back.
func (c DraftCard) Complete() bool {
	return strings.TrimSpace(c.Front) != "" && strings.TrimSpace(c.Back) != ""
}

// SetCreator creates sets and cards. *client.Client implements it.
type SetCreator interface {
	CreateBlankFlashcardSet(ctx context.Context, req flashcards.CreateFlashcardSetRequest) (flashcards.CreateFlashcardSetResponse, error)
	CreateManualFlashcard(ctx context.Context, setID, front, back, explanation string) (flashcards.Flashcard, error)
}

// Navigator is called with the destination path after a successful submit.
type Navigator func(path string)

// SubmitResult describes a successful submission.
type SubmitResult struct {
	SetID   string
	Created int
	Path    string
	Message string
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithNavigator sets the function called after a successful submit.
func WithNavigator(n Navigator) ComposerOption {
	return func(c *Composer) { c.navigate = n }
}

// WithNavigateDelay overrides DefaultNavigateDelay.
func WithNavigateDelay(d time.Duration) ComposerOption {
	return func(c *Composer) { c.delay = d }
}

// WithProgress is called after each card is created with the number
// created so far and the number to create.
func WithProgress(fn func(done, total int)) ComposerOption {
	return func(c *Composer) { c.progress = fn }
}

// WithIDGenerator overrides the draft card id generator.
func WithIDGenerator(gen func() string) ComposerOption {
	return func(c *Composer) { c.newID = gen }
}

// Composer drafts a new flashcard set and submits it.
type Composer struct {
	svc      SetCreator
	navigate Navigator
	delay    time.Duration
	newID    func() string
	progress func(done, total int)

	mu          sync.Mutex
	title       string
	description string
	cards       []DraftCard
	state       State
	errMsg      string
	message     string
	timer       *time.Timer
}

// NewComposer returns a Composer in the editing state with one blank card.
func NewComposer(svc SetCreator, opts ...ComposerOption) *Composer {
	c := &Composer{
		svc:   svc,
		delay: DefaultNavigateDelay,
		newID: newDraftID,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cards = []DraftCard{{ID: c.newID()}}
	return c
}

func newDraftID() string {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		// crypto/rand failure; fall back to a time-based id
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return id
}

// SetTitle sets the title, clamped to MaxTitleLength characters.
func (c *Composer) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = clamp(title, MaxTitleLength)
}

// SetDescription sets the description, clamped to MaxDescriptionLength
// characters.
func (c *Composer) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = clamp(description, MaxDescriptionLength)
}

func clamp(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Title returns the current title.
func (c *Composer) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Description returns the current description.
func (c *Composer) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

// Cards returns a copy of the draft cards in order.
func (c *Composer) Cards() []DraftCard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DraftCard(nil), c.cards...)
}

// State returns the lifecycle state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error currently shown, or "".
func (c *Composer) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Message returns the confirmation shown after a successful submit.
func (c *Composer) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// AddCard appends a blank card and returns it.
func (c *Composer) AddCard() DraftCard {
	c.mu.Lock()
	defer c.mu.Unlock()
	card := DraftCard{ID: c.newID()}
	c.cards = append(c.cards, card)
	return card
}

// UpdateCard sets one field of the card with the given id.
func (c *Composer) UpdateCard(id string, field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return ErrCardNotFound
	}
	switch field {
	case FieldFront:
		c.cards[i].Front = value
	case FieldBack:
		c.cards[i].Back = value
	case FieldExplanation:
		c.cards[i].Explanation = value
	default:
		return fmt.Errorf("unknown card field %q", field)
	}
	return nil
}

// DeleteCard removes the card with the given id. The last remaining card
// cannot be deleted; the attempt is reported as the current error.
func (c *Composer) DeleteCard(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cards) == 1 {
		c.errMsg = ErrNoCards.Message
		return ErrNoCards
	}
	i := c.indexOf(id)
	if i < 0 {
		return ErrCardNotFound
	}
	c.cards = append(c.cards[:i], c.cards[i+1:]...)
	return nil
}

// MoveCard moves the card at from to position to. Out-of-range indexes are
// a no-op and report false.
func (c *Composer) MoveCard(from, to int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.cards)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	card := c.cards[from]
	c.cards = append(c.cards[:from], c.cards[from+1:]...)
	c.cards = append(c.cards[:to], append([]DraftCard{card}, c.cards[to:]...)...)
	return true
}

// MoveUp swaps the card at i with the one above it.
func (c *Composer) MoveUp(i int) bool {
	return c.MoveCard(i, i-1)
}

// MoveDown swaps the card at i with the one below it.
func (c *Composer) MoveDown(i int) bool {
	return c.MoveCard(i, i+1)
}

func (c *Composer) indexOf(id string) int {
	for i, card := range c.cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the draft and records the first problem as the current
// error.
func (c *Composer) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Composer) validateLocked() error {
	c.errMsg = ""

	var err *ValidationError
	switch {
	case strings.TrimSpace(c.title) == "":
		err = ErrTitleRequired
	case len(c.cards) == 0:
		err = ErrNoCards
	case len(completeCards(c.cards)) == 0:
		err = ErrNoValidCards
	default:
		return nil
	}
	c.errMsg = err.Message
	return err
}

func completeCards(cards []DraftCard) []DraftCard {
	var out []DraftCard
	for _, card := range cards {
		if card.Complete() {
			out = append(out, card)
		}
	}
	return out
}

// Submit creates the set and then each complete card, one at a time in list
// order. Incomplete cards are skipped. The first failure stops the sequence
// and returns the Composer to editing with the error shown; cards already
// created stay created. On success the navigator is called after the
// navigate delay with the practice view (practice) or the set list, and
// later calls return ErrSubmitted.
func (c *Composer) Submit(ctx context.Context, practice bool) (SubmitResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateSaving:
		c.mu.Unlock()
		return SubmitResult{}, ErrBusy
	case StateSaved:
		c.mu.Unlock()
		return SubmitResult{}, ErrSubmitted
	}
	if err := c.validateLocked(); err != nil {
		c.mu.Unlock()
		return SubmitResult{}, err
	}
	title := strings.TrimSpace(c.title)
	description := strings.TrimSpace(c.description)
	cards := completeCards(c.cards)
	c.state = StateSaving
	c.message = ""
	c.mu.Unlock()

	resp, err := c.svc.CreateBlankFlashcardSet(ctx, flashcards.CreateFlashcardSetRequest{
		Title:       title,
		Description: flashcards.String(description),
	})
	if err != nil {
		return SubmitResult{}, c.fail(err)
	}
	setID := resp.Set.ID

	for i, card := range cards {
		_, err := c.svc.CreateManualFlashcard(ctx, setID,
			strings.TrimSpace(card.Front),
			strings.TrimSpace(card.Back),
			strings.TrimSpace(card.Explanation),
		)
		if err != nil {
			return SubmitResult{SetID: setID, Created: i}, c.fail(err)
		}
		if c.progress != nil {
			c.progress(i+1, len(cards))
		}
	}

	result := SubmitResult{
		SetID:   setID,
		Created: len(cards),
		Path:    "/study/flashcards",
		Message: fmt.Sprintf("Created \"%s\" with %d %s!", title, len(cards), plural(len(cards), "card")),
	}
	if practice {
		result.Path = "/study/flashcards/" + setID
	}

	c.mu.Lock()
	c.state = StateSaved
	c.message = result.Message
	if c.navigate != nil {
		navigate, path := c.navigate, result.Path
		c.timer = time.AfterFunc(c.delay, func() { navigate(path) })
	}
	c.mu.Unlock()

	return result, nil
}

func (c *Composer) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	c.errMsg = message(err, fallbackCreateMessage)
	return err
}

// Close cancels a pending navigation.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
