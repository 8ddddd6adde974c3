package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"studysharper/flashgate/pkg/flashcards"
)

// fakeService records calls and can fail at a chosen step.
type fakeService struct {
	mu        sync.Mutex
	calls     []string
	sets      []flashcards.CreateFlashcardSetRequest
	cards     []flashcards.NewCard
	updates   []flashcards.CardUpdate
	failSet   error
	failCard  int // 1-based index of the card call that fails; 0 never
	cardErr   error
	updateErr error
	block     chan struct{}
}

func (f *fakeService) CreateBlankFlashcardSet(ctx context.Context, req flashcards.CreateFlashcardSetRequest) (flashcards.CreateFlashcardSetResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "set:"+req.Title)
	f.sets = append(f.sets, req)
	if f.failSet != nil {
		return flashcards.CreateFlashcardSetResponse{}, f.failSet
	}
	return flashcards.CreateFlashcardSetResponse{
		Success: true,
		Set:     flashcards.FlashcardSet{ID: "set-1", Title: req.Title},
	}, nil
}

func (f *fakeService) CreateManualFlashcard(ctx context.Context, setID, front, back, explanation string) (flashcards.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "card:"+front)
	f.cards = append(f.cards, flashcards.NewCard{SetID: setID, Front: front, Back: back, Explanation: flashcards.String(explanation)})
	if f.failCard == len(f.cards) {
		return flashcards.Flashcard{}, f.cardErr
	}
	return flashcards.Flashcard{ID: fmt.Sprintf("c%d", len(f.cards)), SetID: setID, Front: front, Back: back}, nil
}

func (f *fakeService) UpdateFlashcard(ctx context.Context, update flashcards.CardUpdate) (flashcards.Flashcard, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.updateErr != nil {
		return flashcards.Flashcard{}, f.updateErr
	}
	card := flashcards.Flashcard{ID: update.ID, Front: *update.Front, Back: *update.Back, Explanation: update.Explanation}
	return card, nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("d%d", n)
	}
}

func fill(t *testing.T, c *Composer, id, front, back, explanation string) {
	t.Helper()
	for field, value := range map[Field]string{FieldFront: front, FieldBack: back, FieldExplanation: explanation} {
		if err := c.UpdateCard(id, field, value); err != nil {
			t.Fatalf("UpdateCard(%s, %s) error = %v", id, field, err)
		}
	}
}

func TestComposer_StartsWithOneBlankCard(t *testing.T) {
	c := NewComposer(&fakeService{})
	cards := c.Cards()
	if len(cards) != 1 || cards[0].Front != "" || cards[0].Back != "" {
		t.Fatalf("cards = %+v", cards)
	}
	if len(cards[0].ID) != idLength {
		t.Errorf("generated id %q has length %d", cards[0].ID, len(cards[0].ID))
	}
	if c.State() != StateEditing {
		t.Errorf("state = %v", c.State())
	}
}

func TestComposer_DeleteLastCardRejected(t *testing.T) {
	c := NewComposer(&fakeService{}, WithIDGenerator(sequentialIDs()))

	err := c.DeleteCard("d1")
	if !errors.Is(err, ErrNoCards) {
		t.Fatalf("DeleteCard() error = %v", err)
	}
	if c.Err() != "You must have at least one card" {
		t.Errorf("Err() = %q", c.Err())
	}
	if len(c.Cards()) != 1 {
		t.Errorf("card list changed")
	}

	c.AddCard()
	if err := c.DeleteCard("d1"); err != nil {
		t.Fatalf("DeleteCard() error = %v", err)
	}
	if cards := c.Cards(); len(cards) != 1 || cards[0].ID != "d2" {
		t.Errorf("cards = %+v", cards)
	}
}

func TestComposer_Reorder(t *testing.T) {
	c := NewComposer(&fakeService{}, WithIDGenerator(sequentialIDs()))
	c.AddCard()
	c.AddCard()

	ids := func() string {
		var out []string
		for _, card := range c.Cards() {
			out = append(out, card.ID)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name string
		move func() bool
		ok   bool
		want string
	}{
		{"move down first", func() bool { return c.MoveDown(0) }, true, "d2,d1,d3"},
		{"move up top is no-op", func() bool { return c.MoveUp(0) }, false, "d2,d1,d3"},
		{"move down bottom is no-op", func() bool { return c.MoveDown(2) }, false, "d2,d1,d3"},
		{"move up last", func() bool { return c.MoveUp(2) }, true, "d2,d3,d1"},
		{"out of range", func() bool { return c.MoveCard(5, 0) }, false, "d2,d3,d1"},
		{"move to front", func() bool { return c.MoveCard(2, 0) }, true, "d1,d2,d3"},
	}

	for _, tt := range tests {
		if got := tt.move(); got != tt.ok {
			t.Errorf("%s: returned %v, want %v", tt.name, got, tt.ok)
		}
		if got := ids(); got != tt.want {
			t.Errorf("%s: order = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestComposer_Validate(t *testing.T) {
	tests := []struct {
		name  string
		title string
		cards [][2]string
		want  error
	}{
		{"blank title", "   ", [][2]string{{"a", "b"}}, ErrTitleRequired},
		{"no complete card", "Biology", [][2]string{{"a", ""}, {" ", "b"}}, ErrNoValidCards},
		{"ok", "Biology", [][2]string{{"", ""}, {"Cell", "Unit of life"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(&fakeService{}, WithIDGenerator(sequentialIDs()))
			c.SetTitle(tt.title)
			for i, pair := range tt.cards {
				id := fmt.Sprintf("d%d", i+1)
				if i > 0 {
					id = c.AddCard().ID
				}
				fill(t, c, id, pair[0], pair[1], "")
			}

			err := c.Validate()
			if err != tt.want {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			if tt.want != nil && c.Err() != tt.want.Error() {
				t.Errorf("Err() = %q", c.Err())
			}
		})
	}
}

func TestComposer_SubmitBiology(t *testing.T) {
	svc := &fakeService{}
	navigated := make(chan string, 1)
	var progress []string
	c := NewComposer(svc,
		WithIDGenerator(sequentialIDs()),
		WithNavigator(func(path string) { navigated <- path }),
		WithNavigateDelay(10*time.Millisecond),
		WithProgress(func(done, total int) { progress = append(progress, fmt.Sprintf("%d/%d", done, total)) }),
	)
	c.SetTitle("  Biology  ")
	c.SetDescription("   ")
	fill(t, c, "d1", " Cell ", " Unit of life ", "  ")
	fill(t, c, c.AddCard().ID, "Mitosis", "", "")
	fill(t, c, c.AddCard().ID, "DNA", "Genetic material", " Double helix ")

	result, err := c.Submit(context.Background(), true)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	wantCalls := []string{"set:Biology", "card:Cell", "card:DNA"}
	if strings.Join(svc.calls, ",") != strings.Join(wantCalls, ",") {
		t.Errorf("calls = %v, want %v", svc.calls, wantCalls)
	}
	if svc.sets[0].Description != nil {
		t.Errorf("blank description sent: %q", *svc.sets[0].Description)
	}
	if svc.cards[0].Back != "Unit of life" || svc.cards[0].Explanation != nil {
		t.Errorf("first card = %+v", svc.cards[0])
	}
	if svc.cards[1].Explanation == nil || *svc.cards[1].Explanation != "Double helix" {
		t.Errorf("second card explanation = %v", svc.cards[1].Explanation)
	}

	if strings.Join(progress, ",") != "1/2,2/2" {
		t.Errorf("progress = %v", progress)
	}
	if result.Created != 2 || result.SetID != "set-1" {
		t.Errorf("result = %+v", result)
	}
	if c.Message() != `Created "Biology" with 2 cards!` {
		t.Errorf("Message() = %q", c.Message())
	}
	if c.State() != StateSaved {
		t.Errorf("state = %v", c.State())
	}

	select {
	case path := <-navigated:
		if path != "/study/flashcards/set-1" {
			t.Errorf("navigated to %q", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("navigator not called")
	}
}

func TestComposer_SubmitSingleCardToList(t *testing.T) {
	svc := &fakeService{}
	c := NewComposer(svc, WithIDGenerator(sequentialIDs()))
	c.SetTitle("Chemistry")
	fill(t, c, "d1", "H2O", "Water", "")

	result, err := c.Submit(context.Background(), false)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Path != "/study/flashcards" {
		t.Errorf("Path = %q", result.Path)
	}
	if result.Message != `Created "Chemistry" with 1 card!` {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestComposer_SubmitStopsOnFailure(t *testing.T) {
	svc := &fakeService{failCard: 2, cardErr: errors.New("Failed to create flashcard")}
	navigated := false
	c := NewComposer(svc,
		WithIDGenerator(sequentialIDs()),
		WithNavigator(func(string) { navigated = true }),
		WithNavigateDelay(0),
	)
	c.SetTitle("History")
	fill(t, c, "d1", "1066", "Hastings", "")
	fill(t, c, c.AddCard().ID, "1215", "Magna Carta", "")
	fill(t, c, c.AddCard().ID, "1492", "Columbus", "")

	_, err := c.Submit(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(svc.cards) != 2 {
		t.Errorf("card calls = %d, want 2 (third must not be attempted)", len(svc.cards))
	}
	if c.State() != StateEditing {
		t.Errorf("state = %v", c.State())
	}
	if c.Err() != "Failed to create flashcard" {
		t.Errorf("Err() = %q", c.Err())
	}
	time.Sleep(10 * time.Millisecond)
	if navigated {
		t.Error("navigated after failure")
	}
}

func TestComposer_SubmitSetFailure(t *testing.T) {
	svc := &fakeService{failSet: errors.New("")}
	c := NewComposer(svc, WithIDGenerator(sequentialIDs()))
	c.SetTitle("Physics")
	fill(t, c, "d1", "F", "ma", "")

	if _, err := c.Submit(context.Background(), false); err == nil {
		t.Fatal("expected error")
	}
	if len(svc.cards) != 0 {
		t.Errorf("cards created after set failure")
	}
	if c.Err() != "Failed to create flashcard set" {
		t.Errorf("Err() = %q", c.Err())
	}
}

func TestComposer_DuplicateSubmitRejected(t *testing.T) {
	svc := &fakeService{block: make(chan struct{})}
	c := NewComposer(svc, WithIDGenerator(sequentialIDs()))
	c.SetTitle("Art")
	fill(t, c, "d1", "Monet", "Impressionism", "")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), false)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != StateSaving {
		if time.Now().After(deadline) {
			t.Fatal("composer never entered saving")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Submit(context.Background(), false); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit() = %v, want ErrBusy", err)
	}

	close(svc.block)
	if err := <-done; err != nil {
		t.Errorf("first Submit() error = %v", err)
	}
	if len(svc.sets) != 1 {
		t.Errorf("sets created = %d", len(svc.sets))
	}
}

func TestComposer_SubmitAfterSaved(t *testing.T) {
	svc := &fakeService{}
	var mu sync.Mutex
	var navs []string
	c := NewComposer(svc,
		WithIDGenerator(sequentialIDs()),
		WithNavigator(func(path string) {
			mu.Lock()
			defer mu.Unlock()
			navs = append(navs, path)
		}),
		WithNavigateDelay(10*time.Millisecond),
	)
	c.SetTitle("Art")
	fill(t, c, "d1", "Monet", "Impressionism", "")

	if _, err := c.Submit(context.Background(), true); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := c.Submit(context.Background(), false); !errors.Is(err, ErrSubmitted) {
		t.Errorf("second Submit() = %v, want ErrSubmitted", err)
	}
	if c.State() != StateSaved {
		t.Errorf("State() = %v, want saved", c.State())
	}
	if len(svc.sets) != 1 {
		t.Errorf("sets created = %d, want 1", len(svc.sets))
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(navs) != 1 || navs[0] != "/study/flashcards/set-1" {
		t.Errorf("navigations = %v", navs)
	}
}

func TestComposer_ClampsText(t *testing.T) {
	c := NewComposer(&fakeService{})
	c.SetTitle(strings.Repeat("é", 250))
	c.SetDescription(strings.Repeat("x", 600))

	if n := len([]rune(c.Title())); n != MaxTitleLength {
		t.Errorf("title length = %d", n)
	}
	if n := len(c.Description()); n != MaxDescriptionLength {
		t.Errorf("description length = %d", n)
	}
}

func TestCardEditor_Submit(t *testing.T) {
	svc := &fakeService{}
	var saved []flashcards.Flashcard
	e := NewCardEditor(svc, func(card flashcards.Flashcard) { saved = append(saved, card) })

	e.Open(flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Unit", Explanation: flashcards.String("old")})
	e.SetBack("  Unit of life ")
	e.SetExplanation("   ")

	card, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if card.Back != "Unit of life" {
		t.Errorf("Back = %q", card.Back)
	}
	if svc.updates[0].Explanation != nil {
		t.Errorf("blank explanation sent")
	}
	if len(saved) != 1 {
		t.Errorf("onSuccess calls = %d", len(saved))
	}
	if e.State() != EditorClosed {
		t.Errorf("state = %v", e.State())
	}
}

func TestCardEditor_RequiresFrontAndBack(t *testing.T) {
	svc := &fakeService{}
	e := NewCardEditor(svc, nil)
	e.Open(flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Unit"})
	e.SetFront("  ")

	if _, err := e.Submit(context.Background()); err != ErrFrontBackEmpty {
		t.Fatalf("Submit() = %v", err)
	}
	if e.Err() != "Front and back are required" {
		t.Errorf("Err() = %q", e.Err())
	}
	if len(svc.updates) != 0 {
		t.Error("update sent for invalid card")
	}
	if e.State() != EditorEditing {
		t.Errorf("state = %v", e.State())
	}
}

func TestCardEditor_FailureKeepsOpen(t *testing.T) {
	svc := &fakeService{updateErr: errors.New("")}
	e := NewCardEditor(svc, nil)
	e.Open(flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Unit"})

	if _, err := e.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if e.Err() != "Failed to update card" {
		t.Errorf("Err() = %q", e.Err())
	}
	if e.State() != EditorEditing {
		t.Errorf("state = %v", e.State())
	}
}

func TestCardEditor_ShowResync(t *testing.T) {
	e := NewCardEditor(&fakeService{}, nil)
	card := flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Unit"}
	e.Open(card)
	e.SetFront("Cells")

	// Same card: local edit survives.
	e.Show(card)
	if front, _, _ := e.Fields(); front != "Cells" {
		t.Errorf("front = %q, local edit lost", front)
	}

	// Externally updated card: fields re-sync.
	e.Show(flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Basic unit"})
	if front, back, _ := e.Fields(); front != "Cell" || back != "Basic unit" {
		t.Errorf("fields = %q/%q", front, back)
	}

	// Different card.
	e.Show(flashcards.Flashcard{ID: "c2", Front: "DNA", Back: "Helix"})
	if front, _, _ := e.Fields(); front != "DNA" {
		t.Errorf("front = %q", front)
	}
}

func TestCardEditor_CloseRefusedWhileSubmitting(t *testing.T) {
	svc := &fakeService{block: make(chan struct{})}
	e := NewCardEditor(svc, nil)
	e.Open(flashcards.Flashcard{ID: "c1", Front: "Cell", Back: "Unit"})

	done := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for e.State() != EditorSubmitting {
		if time.Now().After(deadline) {
			t.Fatal("editor never entered submitting")
		}
		time.Sleep(time.Millisecond)
	}

	if err := e.Close(); !errors.Is(err, ErrBusy) {
		t.Errorf("Close() = %v, want ErrBusy", err)
	}
	close(svc.block)
	if err := <-done; err != nil {
		t.Errorf("Submit() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() after submit = %v", err)
	}
}

func TestSubmitWithoutOpen(t *testing.T) {
	e := NewCardEditor(&fakeService{}, nil)
	if _, err := e.Submit(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Submit() = %v", err)
	}
}
