package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/flashcards"
)

var reviewFlags struct {
	cardID     string
	correct    bool
	incorrect  bool
	confidence int
	seconds    int
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Record a review of a card",
	Long: `Record whether a card was answered correctly.

Examples:
  flashgate review --card c1 --correct --confidence 4 --seconds 12
  flashgate review --card c1 --incorrect`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

var generateFlags struct {
	noteIDs    []string
	count      int
	title      string
	difficulty string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a flashcard set from notes",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var suggestFlags struct {
	generate bool
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show suggested flashcard sets",
	Long: `Show the flashcard sets suggested from your notes.

With --generate new suggestions are produced first.`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

var chatFlags struct {
	context string
}

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE",
	Short: "Ask the flashcard assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(reviewCmd, generateCmd, suggestCmd, chatCmd)

	reviewCmd.Flags().StringVar(&reviewFlags.cardID, "card", "", "card id (required)")
	reviewCmd.Flags().BoolVar(&reviewFlags.correct, "correct", false, "the card was answered correctly")
	reviewCmd.Flags().BoolVar(&reviewFlags.incorrect, "incorrect", false, "the card was answered incorrectly")
	reviewCmd.Flags().IntVar(&reviewFlags.confidence, "confidence", 0, "confidence level")
	reviewCmd.Flags().IntVar(&reviewFlags.seconds, "seconds", 0, "time spent on the card in seconds")
	_ = reviewCmd.MarkFlagRequired("card")
	reviewCmd.MarkFlagsMutuallyExclusive("correct", "incorrect")
	reviewCmd.MarkFlagsOneRequired("correct", "incorrect")

	generateCmd.Flags().StringSliceVar(&generateFlags.noteIDs, "note", nil, "note id (repeatable, required)")
	generateCmd.Flags().IntVar(&generateFlags.count, "count", 0, "number of cards to generate")
	generateCmd.Flags().StringVar(&generateFlags.title, "title", "", "title for the generated set")
	generateCmd.Flags().StringVar(&generateFlags.difficulty, "difficulty", "", "card difficulty")
	_ = generateCmd.MarkFlagRequired("note")

	suggestCmd.Flags().BoolVar(&suggestFlags.generate, "generate", false, "generate new suggestions")

	chatCmd.Flags().StringVar(&chatFlags.context, "context", "", "JSON context sent with the message")
}

type suggestionTable flashcards.SuggestionsResponse

func (s suggestionTable) Text() string {
	if len(s.Suggestions) == 0 {
		return "No suggestions"
	}
	t := cli.Table{Headers: []string{"ID", "TITLE", "TOPIC", "CARDS", "NOTES"}}
	for _, sug := range s.Suggestions {
		t.Rows = append(t.Rows, []string{
			sug.ID,
			sug.Title,
			sug.Topic,
			strconv.Itoa(sug.CardCount),
			strings.Join(sug.NoteIDs, ","),
		})
	}
	return t.Text()
}

func runReview(cmd *cobra.Command, args []string) error {
	req := flashcards.RecordReviewRequest{
		FlashcardID: reviewFlags.cardID,
		WasCorrect:  reviewFlags.correct,
	}
	if cmd.Flags().Changed("confidence") {
		req.ConfidenceLevel = &reviewFlags.confidence
	}
	if cmd.Flags().Changed("seconds") {
		req.TimeSpentSeconds = &reviewFlags.seconds
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	card, err := c.RecordFlashcardReview(cmd.Context(), req)
	if err != nil {
		return cli.NewCommandError("review", err)
	}
	return render(cmd, card, message(fmt.Sprintf("Recorded review of %s: mastery %g, reviewed %g times",
		card.ID, card.MasteryLevel, card.TimesReviewed)))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	res := c.GenerateFlashcards(cmd.Context(), flashcards.GenerateFlashcardsRequest{
		NoteIDs:    generateFlags.noteIDs,
		NumCards:   generateFlags.count,
		Title:      generateFlags.title,
		Difficulty: generateFlags.difficulty,
	})
	if err := resultError("generate", res); err != nil {
		return err
	}
	return render(cmd, res.Data, message(fmt.Sprintf("Generated set %s %q", res.Data.ID, res.Data.Title)))
}

func runSuggest(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	fetch := c.GetSuggestedFlashcards
	if suggestFlags.generate {
		fetch = c.GenerateSuggestedFlashcards
	}
	res := fetch(cmd.Context())
	if err := resultError("suggest", res); err != nil {
		return err
	}
	return render(cmd, res.Data, suggestionTable(res.Data))
}

func runChat(cmd *cobra.Command, args []string) error {
	msg := flashcards.ChatMessage{Message: strings.Join(args, " ")}
	if chatFlags.context != "" {
		if !json.Valid([]byte(chatFlags.context)) {
			return cli.NewConfigError("context", "must be valid JSON")
		}
		msg.Context = json.RawMessage(chatFlags.context)
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	resp, err := c.SendFlashcardChatMessage(cmd.Context(), msg)
	if err != nil {
		return cli.NewCommandError("chat", err)
	}
	return render(cmd, resp, message(resp.Response))
}
