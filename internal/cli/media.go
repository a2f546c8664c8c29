package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eduforge/assetgen/internal/pipeline"
	"github.com/eduforge/assetgen/internal/promptbuilder"
)

func init() {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Turn a narration script into per-scene images and audio",
		Long: "Reads a script, splits it into scenes, and generates an " +
			"illustration and narrated audio for each scene concurrently. " +
			"Pass the script path as an argument, or pipe it on stdin.",
		Args: cobra.MaximumNArgs(1),
		Run:  runMedia,
	}

	cmd.Flags().String("style", "", "Visual style profile: standard, storybook, documentary, whiteboard, comic")
	cmd.Flags().String("voice", "", "Narration voice name (overrides the style profile's suggestion)")
	cmd.Flags().StringP("grade", "g", "", "Audience grade level, used to tune the visuals")
	cmd.Flags().String("instructions", "", "Extra visual direction for every scene")
	cmd.Flags().Bool("no-images", false, "Skip image generation")
	cmd.Flags().Bool("no-audio", false, "Skip audio generation")

	RootCmd.AddCommand(cmd)
}

func runMedia(cmd *cobra.Command, args []string) {
	styleProfile, _ := cmd.Flags().GetString("style")
	voice, _ := cmd.Flags().GetString("voice")
	grade, _ := cmd.Flags().GetString("grade")
	instructions, _ := cmd.Flags().GetString("instructions")
	noImages, _ := cmd.Flags().GetBool("no-images")
	noAudio, _ := cmd.Flags().GetBool("no-audio")

	scriptText, err := readScript(cmd, args)
	if err != nil {
		exitErr("read script", err)
	}

	rt, err := newRuntime()
	if err != nil {
		exitErr("startup", err)
	}

	result, err := rt.pipeline.GenerateMedia(cmd.Context(), pipeline.MediaRequest{
		Script: scriptText,
		Style: promptbuilder.DirectorConfig{
			StyleProfile:       styleProfile,
			Voice:              voice,
			AudienceGrade:      grade,
			CustomInstructions: instructions,
		},
		MakeImages: !noImages,
		MakeAudio:  !noAudio,
		OutputDir:  rt.outputDir(),
	})
	if err != nil {
		exitErr("generate media", err)
	}

	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Scenes))

	for i, asset := range result.Scenes {
		status := "ok"

		switch {
		case asset.ImageErr != nil && asset.AudioErr != nil:
			status = "image and audio failed"
		case asset.ImageErr != nil:
			status = "image failed"
		case asset.AudioErr != nil:
			status = "audio failed"
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", asset.Descriptor.Index),
			asset.Descriptor.Title,
			result.ImagePaths[i],
			result.AudioPaths[i],
			status,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Scene", "Title", "Image", "Audio", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d/%d scenes succeeded\n", result.Succeeded, len(result.Scenes))

	if result.Failed > 0 {
		os.Exit(1)
	}
}

func readScript(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read script file '%s': %w", args[0], err)
		}

		return string(content), nil
	}

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read script from stdin: %w", err)
	}

	return string(content), nil
}
