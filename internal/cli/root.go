// Package cli implements the assetgen CLI commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/eduforge/assetgen/internal/bank"
	"github.com/eduforge/assetgen/internal/config"
	"github.com/eduforge/assetgen/internal/gemini"
	"github.com/eduforge/assetgen/internal/pipeline"
	"github.com/eduforge/assetgen/internal/script"
	"github.com/eduforge/assetgen/internal/synthesizer"
)

const logFileName = "assetgen.log"

// ErrAPIKeyMissing is returned when the configured API key environment
// variable is empty.
var ErrAPIKeyMissing = errors.New("gemini api key is not set")

var (
	configPath    string
	outputDirFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "assetgen",
	Short: "Generate teaching documents, question sets, and scene media",
	Long: "assetgen turns teaching topics into classroom assets: complete " +
		"module documents, exam packages with a persistent question bank, and " +
		"narrated scene media generated from a script.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: project.toml)")
	RootCmd.PersistentFlags().StringVarP(&outputDirFlag, "output", "o", "", "Output directory (overrides config)")
}

// runtime bundles the dependencies a command needs once configuration is
// loaded.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline *pipeline.Pipeline
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.Service.LogDir, logFileName)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	apiKey := cfg.GetAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf(
			"%w: export %s or configure gemini.api_key_variable",
			ErrAPIKeyMissing,
			cfg.Gemini.APIKeyEnvironmentVariable,
		)
	}

	client := gemini.NewClient(&gemini.Config{
		APIKey:            apiKey,
		BaseURL:           cfg.Gemini.BaseURL,
		TextModel:         cfg.Gemini.TextModel,
		ImageModel:        cfg.Gemini.ImageModel,
		AudioModel:        cfg.Gemini.AudioModel,
		MaxAttempts:       cfg.Gemini.MaxAttempts,
		InitialRetryDelay: millisecondsOrZero(cfg.Gemini.InitialRetryDelayMs),
		TimeoutSeconds:    cfg.Gemini.TimeoutSeconds,
	}, log)

	pipe := pipeline.New(
		client,
		script.NewParser(client, log),
		synthesizer.New(client, log),
		log,
	)

	return &runtime{cfg: cfg, log: log, pipeline: pipe}, nil
}

func (r *runtime) outputDir() string {
	if outputDirFlag != "" {
		return outputDirFlag
	}

	return r.cfg.Service.OutputDir
}

func (r *runtime) openBank() (*bank.Store, error) {
	return bank.Open(r.cfg.GetDatabasePath())
}

// millisecondsOrZero converts the configured delay, leaving zero for the
// client to replace with its default.
func millisecondsOrZero(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}

	return time.Duration(ms) * time.Millisecond
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
