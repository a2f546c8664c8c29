package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduforge/assetgen/internal/bank"
	"github.com/eduforge/assetgen/internal/config"
	"github.com/eduforge/assetgen/internal/model"
)

const promptPreviewLength = 60

func init() {
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect and manage the question bank",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions",
		Run:   runBankList,
	}

	listCmd.Flags().StringP("subject", "s", "", "Filter by subject")
	listCmd.Flags().StringP("grade", "g", "", "Filter by grade")
	listCmd.Flags().StringP("type", "t", "", "Filter by question type")
	listCmd.Flags().String("search", "", "Case-insensitive search in prompt and subject")
	listCmd.Flags().Bool("full", false, "Show full prompts and answer keys")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a question by id",
		Args:  cobra.ExactArgs(1),
		Run:   runBankRemove,
	}

	bankCmd.AddCommand(listCmd, removeCmd)
	RootCmd.AddCommand(bankCmd)
}

// openBankStore opens the bank without requiring an API key; bank commands
// never talk to the remote model.
func openBankStore() (*bank.Store, error) {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return bank.Open(cfg.GetDatabasePath())
}

func runBankList(cmd *cobra.Command, _ []string) {
	subject, _ := cmd.Flags().GetString("subject")
	grade, _ := cmd.Flags().GetString("grade")
	questionType, _ := cmd.Flags().GetString("type")
	search, _ := cmd.Flags().GetString("search")
	full, _ := cmd.Flags().GetBool("full")

	store, err := openBankStore()
	if err != nil {
		exitErr("open question bank", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(cmd.Context(), bank.Filter{
		Subject:    subject,
		Grade:      grade,
		Type:       model.QuestionType(questionType),
		SearchText: search,
	})
	if err != nil {
		exitErr("list questions", err)
	}

	out := cmd.OutOrStdout()

	if len(records) == 0 {
		fmt.Fprintln(out, "No questions match.")

		return
	}

	rows := make([][]string, 0, len(records))

	for _, record := range records {
		prompt := record.Prompt
		if !full {
			prompt = truncate(prompt, promptPreviewLength)
		}

		rows = append(rows, []string{
			record.ID,
			record.Subject,
			record.Grade,
			string(record.Type),
			prompt,
			record.CreatedAt.Format("2006-01-02"),
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Subject", "Grade", "Type", "Prompt", "Created"},
		rows,
		nil,
	))
	fmt.Fprintf(out, "%d questions\n", len(records))

	if full {
		fmt.Fprintln(out)

		for _, record := range records {
			fmt.Fprintf(out, "%s\n  Answer: %s\n", record.ID, record.AnswerKey)
		}
	}
}

func runBankRemove(cmd *cobra.Command, args []string) {
	store, err := openBankStore()
	if err != nil {
		exitErr("open question bank", err)
	}
	defer func() { _ = store.Close() }()

	err = store.Remove(cmd.Context(), args[0])
	if err != nil {
		exitErr("remove question", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	return value[:limit-3] + "..."
}
