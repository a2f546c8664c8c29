package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eduforge/assetgen/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Generate a complete teaching module document",
		Run:   runDocument,
	}

	cmd.Flags().StringP("subject", "s", "", "Subject or topic (required)")
	cmd.Flags().String("curriculum", "", "Curriculum name")
	cmd.Flags().StringP("grade", "g", "", "Grade level")
	cmd.Flags().String("duration", "", "Time allocation, e.g. '2 x 45 minutes'")
	cmd.Flags().String("teaching-model", "", "Teaching model, e.g. 'project based learning'")
	cmd.Flags().String("instructions", "", "Extra instructions for the generator")
	cmd.Flags().Bool("worksheet", false, "Include a student worksheet appendix")
	cmd.Flags().Bool("glossary", false, "Include a glossary")
	cmd.Flags().String("out", "", "Write the markdown to this file instead of stdout")

	_ = cmd.MarkFlagRequired("subject")

	RootCmd.AddCommand(cmd)
}

func runDocument(cmd *cobra.Command, _ []string) {
	subject, _ := cmd.Flags().GetString("subject")
	curriculum, _ := cmd.Flags().GetString("curriculum")
	grade, _ := cmd.Flags().GetString("grade")
	duration, _ := cmd.Flags().GetString("duration")
	teachingModel, _ := cmd.Flags().GetString("teaching-model")
	instructions, _ := cmd.Flags().GetString("instructions")
	worksheet, _ := cmd.Flags().GetBool("worksheet")
	glossary, _ := cmd.Flags().GetBool("glossary")
	outPath, _ := cmd.Flags().GetString("out")

	rt, err := newRuntime()
	if err != nil {
		exitErr("startup", err)
	}

	result, err := rt.pipeline.GenerateDocument(cmd.Context(), pipeline.DocumentRequest{
		Subject:          subject,
		Curriculum:       curriculum,
		GradeLevel:       grade,
		Duration:         duration,
		TeachingModel:    teachingModel,
		Instructions:     instructions,
		IncludeWorksheet: worksheet,
		IncludeGlossary:  glossary,
	})
	if err != nil {
		exitErr("generate document", err)
	}

	if outPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Markdown)

		return
	}

	err = os.MkdirAll(filepath.Dir(outPath), 0o750)
	if err != nil {
		exitErr("create output directory", err)
	}

	err = os.WriteFile(outPath, []byte(result.Markdown), 0o600)
	if err != nil {
		exitErr("write document", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Document written to %s\n", outPath)
}
