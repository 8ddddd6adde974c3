package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/flashcards"
	"studysharper/flashgate/pkg/retry"
	"studysharper/flashgate/pkg/workflow"
)

// cardSeparator splits a --card value into front, back and explanation.
const cardSeparator = "::"

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Manage flashcard sets",
}

var setsListFlags struct {
	retries    int
	retryDelay time.Duration
	timeout    time.Duration
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your flashcard sets",
	Long: `List your flashcard sets.

The request is retried with backoff on failure. --retries and --retry-delay
override the configured retry policy for this call.`,
	Args: cobra.NoArgs,
	RunE: runSetsList,
}

var setsCreateFlags struct {
	title       string
	description string
	cards       []string
	practice    bool
}

var setsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a flashcard set from cards given on the command line",
	Long: `Create a flashcard set and its cards.

Each --card is "front::back" or "front::back::explanation". Cards missing a
front or back are skipped. Cards are created one at a time in the order given;
if one fails the set and the cards created so far are kept.

Examples:
  flashgate sets create --title Biology \
    --card "Cell::Basic unit of life" \
    --card "DNA::Genetic material::Stores hereditary information"`,
	Args: cobra.NoArgs,
	RunE: runSetsCreate,
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a flashcard set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetsDelete,
}

var setsCardsCmd = &cobra.Command{
	Use:   "cards ID",
	Short: "List the cards in a flashcard set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetsCards,
}

func init() {
	rootCmd.AddCommand(setsCmd)
	setsCmd.AddCommand(setsListCmd, setsCreateCmd, setsDeleteCmd, setsCardsCmd)

	setsListCmd.Flags().IntVar(&setsListFlags.retries, "retries", 0, "maximum attempts (0 uses the configured policy)")
	setsListCmd.Flags().DurationVar(&setsListFlags.retryDelay, "retry-delay", 0, "initial delay between attempts")
	setsListCmd.Flags().DurationVar(&setsListFlags.timeout, "timeout", 0, "overall timeout for the listing")

	setsCreateCmd.Flags().StringVar(&setsCreateFlags.title, "title", "", "set title (required)")
	setsCreateCmd.Flags().StringVar(&setsCreateFlags.description, "description", "", "set description")
	setsCreateCmd.Flags().StringArrayVar(&setsCreateFlags.cards, "card", nil, `card as "front::back[::explanation]" (repeatable)`)
	setsCreateCmd.Flags().BoolVar(&setsCreateFlags.practice, "practice", false, "print the practice path instead of the set list")
	_ = setsCreateCmd.MarkFlagRequired("title")
}

type setTable []flashcards.FlashcardSet

func (s setTable) Text() string {
	if len(s) == 0 {
		return "No flashcard sets"
	}
	t := cli.Table{Headers: []string{"ID", "TITLE", "CARDS", "MASTERED", "CREATED"}}
	for _, set := range s {
		t.Rows = append(t.Rows, []string{
			set.ID,
			set.Title,
			strconv.Itoa(set.TotalCards),
			strconv.Itoa(set.MasteredCards),
			set.CreatedAt,
		})
	}
	return t.Text()
}

type cardTable []flashcards.Flashcard

func (c cardTable) Text() string {
	if len(c) == 0 {
		return "No cards"
	}
	t := cli.Table{Headers: []string{"ID", "FRONT", "BACK", "MASTERY", "REVIEWED"}}
	for _, card := range c {
		t.Rows = append(t.Rows, []string{
			card.ID,
			card.Front,
			card.Back,
			strconv.FormatFloat(card.MasteryLevel, 'f', -1, 64),
			strconv.FormatFloat(card.TimesReviewed, 'f', -1, 64),
		})
	}
	return t.Text()
}

func runSetsList(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	var opts []retry.Option
	if setsListFlags.retries > 0 {
		opts = append(opts, retry.Attempts(setsListFlags.retries))
	}
	if setsListFlags.retryDelay > 0 {
		opts = append(opts, retry.Delay(setsListFlags.retryDelay))
	}

	ctx, cancel := withTimeout(cmd.Context(), setsListFlags.timeout)
	defer cancel()

	res := c.GetFlashcardSets(ctx, opts...)
	if err := resultError("sets list", res); err != nil {
		return err
	}
	return render(cmd, res.Data, setTable(res.Data))
}

// parseCard splits a --card value.
func parseCard(s string) (front, back, explanation string, err error) {
	parts := strings.SplitN(s, cardSeparator, 3)
	if len(parts) < 2 {
		return "", "", "", cli.NewConfigError("card", fmt.Sprintf("%q must be front%sback[%sexplanation]", s, cardSeparator, cardSeparator))
	}
	front, back = parts[0], parts[1]
	if len(parts) == 3 {
		explanation = parts[2]
	}
	return front, back, explanation, nil
}

func runSetsCreate(cmd *cobra.Command, args []string) error {
	type draft struct{ front, back, explanation string }
	drafts := make([]draft, 0, len(setsCreateFlags.cards))
	for _, s := range setsCreateFlags.cards {
		front, back, explanation, err := parseCard(s)
		if err != nil {
			return err
		}
		drafts = append(drafts, draft{front, back, explanation})
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	progress := cli.NewProgressReporter(cmd.ErrOrStderr(), "Creating cards")
	composer := workflow.NewComposer(c, workflow.WithProgress(progress.Update))
	defer composer.Close()

	composer.SetTitle(setsCreateFlags.title)
	composer.SetDescription(setsCreateFlags.description)
	for i, d := range drafts {
		card := composer.Cards()[0]
		if i > 0 {
			card = composer.AddCard()
		}
		for field, value := range map[workflow.Field]string{
			workflow.FieldFront:       d.front,
			workflow.FieldBack:        d.back,
			workflow.FieldExplanation: d.explanation,
		} {
			if err := composer.UpdateCard(card.ID, field, value); err != nil {
				return cli.NewCommandError("sets create", err)
			}
		}
	}

	res, err := composer.Submit(cmd.Context(), setsCreateFlags.practice)
	if err != nil {
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			return cli.NewConfigError("card", verr.Message)
		}
		progress.Error(err)
		return cli.NewCommandError("sets create", errors.New(composer.Err()))
	}
	progress.Finish()

	return render(cmd, res, message(res.Message+"\nNext: "+res.Path))
}

func runSetsDelete(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	resp, err := c.DeleteFlashcardSet(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("sets delete", err)
	}
	return render(cmd, resp, message(fmt.Sprintf("Deleted set %s", args[0])))
}

func runSetsCards(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	cards, err := c.GetFlashcardsInSet(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("sets cards", err)
	}
	return render(cmd, cards, cardTable(cards))
}
