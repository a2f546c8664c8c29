package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduforge/assetgen/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate an exam package of questions with answer keys",
		Run:   runQuiz,
	}

	cmd.Flags().StringP("subject", "s", "", "Subject (required)")
	cmd.Flags().StringP("grade", "g", "", "Grade level (required)")
	cmd.Flags().Int("multiple-choice", 10, "Number of multiple choice questions")
	cmd.Flags().Int("essay", 5, "Number of essay questions")
	cmd.Flags().Bool("hot", false, "Demand higher-order thinking questions")
	cmd.Flags().Bool("save", false, "Append the generated questions to the question bank")

	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("grade")

	RootCmd.AddCommand(cmd)
}

func runQuiz(cmd *cobra.Command, _ []string) {
	subject, _ := cmd.Flags().GetString("subject")
	grade, _ := cmd.Flags().GetString("grade")
	multipleChoiceCount, _ := cmd.Flags().GetInt("multiple-choice")
	essayCount, _ := cmd.Flags().GetInt("essay")
	higherOrderThinking, _ := cmd.Flags().GetBool("hot")
	save, _ := cmd.Flags().GetBool("save")

	rt, err := newRuntime()
	if err != nil {
		exitErr("startup", err)
	}

	result, err := rt.pipeline.GenerateQuestionSet(cmd.Context(), pipeline.QuestionSetRequest{
		Subject:             subject,
		Grade:               grade,
		MultipleChoiceCount: multipleChoiceCount,
		EssayCount:          essayCount,
		HigherOrderThinking: higherOrderThinking,
	})
	if err != nil {
		exitErr("generate question set", err)
	}

	out := cmd.OutOrStdout()

	if result.Degraded {
		fmt.Fprintln(out, "Structured output was unavailable; showing plain text instead.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.PlainText)

		return
	}

	if result.Grid != "" {
		fmt.Fprintln(out, "## Test grid")
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Grid)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "## Questions")
	fmt.Fprintln(out)

	for i, record := range result.Records {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, record.Type, record.Prompt)
		fmt.Fprintf(out, "   Answer: %s\n", record.AnswerKey)
	}

	if result.Discussion != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Discussion")
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Discussion)
	}

	if !save {
		return
	}

	store, err := rt.openBank()
	if err != nil {
		exitErr("open question bank", err)
	}
	defer func() { _ = store.Close() }()

	stored, err := store.Append(cmd.Context(), result.Records)
	if err != nil {
		exitErr(fmt.Sprintf("saved %d of %d questions", len(stored), len(result.Records)), err)
	}

	fmt.Fprintf(out, "\nSaved %d questions to the bank.\n", len(stored))
}
