package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <body>",
	Short: "Post a question to the board",
	Long: `Post a question for another agent. Without --to the question is
open to anyone; the first answer closes it either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <body>",
	Short: "Answer an open question",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnswer,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List questions on the board",
	Long: `List open questions addressed to the current agent or to anyone.
--all shows every question on the board, answered ones included.`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

var (
	askTo        string
	questionsAll bool
)

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(questionsCmd)

	askCmd.Flags().StringVar(&askTo, "to", "", "Agent the question is for (default: anyone)")
	questionsCmd.Flags().BoolVar(&questionsAll, "all", false, "Include answered questions and ones directed elsewhere")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	q, err := store.AskQuestion(agent, askTo, args[0])
	if err != nil {
		return fmt.Errorf("failed to ask: %w", err)
	}
	if q.To != "" {
		fmt.Printf("Asked %s question %s\n", q.To, util.ShortID(q.ID))
	} else {
		fmt.Printf("Asked question %s (open to anyone)\n", util.ShortID(q.ID))
	}
	return nil
}

func runAnswer(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	questionID, err := resolveQuestionID(store, args[0])
	if err != nil {
		return err
	}
	ok, err := store.AnswerQuestion(questionID, agent, args[1])
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}
	if !ok {
		return fmt.Errorf("question %s is unknown or already answered", util.ShortID(questionID))
	}
	fmt.Printf("Answered question %s\n", util.ShortID(questionID))
	return nil
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	var questions []board.Question
	if questionsAll {
		questions, err = store.Questions()
	} else {
		agent, aerr := currentAgent(cfg)
		if aerr != nil {
			return aerr
		}
		questions, err = store.OpenQuestions(agent)
	}
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	if len(questions) == 0 {
		fmt.Println("No questions.")
		return nil
	}

	fmt.Printf("%d question(s):\n\n", len(questions))
	for _, q := range questions {
		printQuestion(&q)
	}
	return nil
}

func printQuestion(q *board.Question) {
	to := q.To
	if to == "" {
		to = "anyone"
	}
	status := colorize(colorYellow, "open")
	if q.Status == board.QuestionAnswered {
		status = colorize(colorGray, "answered")
	}
	fmt.Printf("  %s  %s  %s -> %s\n", util.ShortID(q.ID), status, q.From, to)
	fmt.Printf("    Q: %s\n", q.Body)
	if q.Status == board.QuestionAnswered {
		fmt.Printf("    A: %s (%s)\n", q.Answer, q.AnsweredBy)
	}
	fmt.Printf("    Asked: %s\n", q.CreatedAt.Local().Format(time.RFC822))
	fmt.Println()
}

// resolveQuestionID expands a question id prefix against the open
// questions on the board.
func resolveQuestionID(store *board.Store, arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("question id is required")
	}
	questions, err := store.OpenQuestions("")
	if err != nil {
		return "", fmt.Errorf("failed to list questions: %w", err)
	}

	var matches []string
	for _, q := range questions {
		if q.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(q.ID, arg) {
			matches = append(matches, q.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("question id %q is ambiguous (%d matches)", arg, len(matches))
	}
}
