package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/flashcards"
	"studysharper/flashgate/pkg/workflow"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage individual flashcards",
}

var cardsCreateFlags struct {
	setID       string
	front       string
	back        string
	explanation string
}

var cardsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a card to a set",
	Args:  cobra.NoArgs,
	RunE:  runCardsCreate,
}

var cardsEditFlags struct {
	setID       string
	front       string
	back        string
	explanation string
}

var cardsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a card",
	Long: `Edit the front, back or explanation of a card.

Fields not given keep their current value. Front and back may not be blank.
A blank explanation leaves the current one in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runCardsEdit,
}

var cardsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsDelete,
}

func init() {
	rootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsCreateCmd, cardsEditCmd, cardsDeleteCmd)

	cardsCreateCmd.Flags().StringVar(&cardsCreateFlags.setID, "set", "", "set id (required)")
	cardsCreateCmd.Flags().StringVar(&cardsCreateFlags.front, "front", "", "card front (required)")
	cardsCreateCmd.Flags().StringVar(&cardsCreateFlags.back, "back", "", "card back (required)")
	cardsCreateCmd.Flags().StringVar(&cardsCreateFlags.explanation, "explanation", "", "card explanation")
	_ = cardsCreateCmd.MarkFlagRequired("set")
	_ = cardsCreateCmd.MarkFlagRequired("front")
	_ = cardsCreateCmd.MarkFlagRequired("back")

	cardsEditCmd.Flags().StringVar(&cardsEditFlags.setID, "set", "", "id of the set holding the card (required)")
	cardsEditCmd.Flags().StringVar(&cardsEditFlags.front, "front", "", "new front")
	cardsEditCmd.Flags().StringVar(&cardsEditFlags.back, "back", "", "new back")
	cardsEditCmd.Flags().StringVar(&cardsEditFlags.explanation, "explanation", "", "new explanation")
	_ = cardsEditCmd.MarkFlagRequired("set")
}

// cardText renders one card.
type cardText flashcards.Flashcard

func (c cardText) Text() string {
	s := fmt.Sprintf("Card %s (set %s)\n  Front: %s\n  Back:  %s", c.ID, c.SetID, c.Front, c.Back)
	if e := flashcards.Flashcard(c).ExplanationText(); e != "" {
		s += "\n  Explanation: " + e
	}
	return s
}

func runCardsCreate(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	card, err := c.CreateManualFlashcard(cmd.Context(),
		cardsCreateFlags.setID,
		cardsCreateFlags.front,
		cardsCreateFlags.back,
		cardsCreateFlags.explanation,
	)
	if err != nil {
		return cli.NewCommandError("cards create", err)
	}
	return render(cmd, card, cardText(card))
}

func runCardsEdit(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	cards, err := c.GetFlashcardsInSet(cmd.Context(), cardsEditFlags.setID)
	if err != nil {
		return cli.NewCommandError("cards edit", err)
	}
	var current *flashcards.Flashcard
	for i := range cards {
		if cards[i].ID == args[0] {
			current = &cards[i]
			break
		}
	}
	if current == nil {
		return cli.NewCommandError("cards edit", fmt.Errorf("card %s not found in set %s", args[0], cardsEditFlags.setID))
	}

	var saved flashcards.Flashcard
	editor := workflow.NewCardEditor(c, func(card flashcards.Flashcard) { saved = card })
	editor.Open(*current)

	flags := cmd.Flags()
	if flags.Changed("front") {
		editor.SetFront(cardsEditFlags.front)
	}
	if flags.Changed("back") {
		editor.SetBack(cardsEditFlags.back)
	}
	if flags.Changed("explanation") {
		editor.SetExplanation(cardsEditFlags.explanation)
	}

	if _, err := editor.Submit(cmd.Context()); err != nil {
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			return cli.NewConfigError("card", verr.Message)
		}
		return cli.NewCommandError("cards edit", errors.New(editor.Err()))
	}
	return render(cmd, saved, cardText(saved))
}

func runCardsDelete(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	resp, err := c.DeleteFlashcard(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("cards delete", err)
	}
	return render(cmd, resp, message(fmt.Sprintf("Deleted card %s", args[0])))
}
