// Package synthesizer fans out per-scene media generation: for every scene
// descriptor it requests an illustration and a narrated audio clip
// concurrently, isolating failures to the scene and sub-step they occur in.
package synthesizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/book-expert/logger"

	"github.com/eduforge/assetgen/internal/model"
	"github.com/eduforge/assetgen/internal/wav"
)

const (
	// DefaultVoice is the prebuilt narration voice used when none is configured.
	DefaultVoice = "Kore"

	// SampleRate is the fixed rate of the remote speech service's PCM payload.
	SampleRate = 24000
)

// MediaClient is the slice of the remote client the synthesizer needs.
type MediaClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	GenerateSpeech(ctx context.Context, text, voiceName string) ([]byte, error)
}

// Options selects which sub-steps run per scene and how progress is observed.
// OnProgress, when set, fires once per fully settled scene with the number of
// settled scenes and the batch total; it may be called from multiple
// goroutines but never concurrently with itself.
type Options struct {
	MakeImage  bool
	MakeAudio  bool
	Voice      string
	OnProgress func(completed, total int)
}

// Synthesizer generates scene media against a remote client.
type Synthesizer struct {
	client MediaClient
	logger *logger.Logger
}

// New creates a Synthesizer.
func New(client MediaClient, log *logger.Logger) *Synthesizer {
	return &Synthesizer{client: client, logger: log}
}

// Synthesize runs one concurrent task per descriptor and always returns
// exactly one SceneAsset per input descriptor, index-aligned to the input.
// Per-scene and per-sub-step failures are recorded on the asset; the batch
// itself never fails. The call returns only once every task has settled.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	descriptors []model.SceneDescriptor,
	options Options,
) []model.SceneAsset {
	total := len(descriptors)
	assets := make([]model.SceneAsset, total)

	voice := options.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	var (
		waitGroup  sync.WaitGroup
		progressMu sync.Mutex
	)

	completed := 0

	for i, descriptor := range descriptors {
		waitGroup.Add(1)

		go func(slot int, descriptor model.SceneDescriptor) {
			defer waitGroup.Done()

			assets[slot] = s.synthesizeScene(ctx, descriptor, voice, options)

			progressMu.Lock()
			completed++

			if options.OnProgress != nil {
				options.OnProgress(completed, total)
			}
			progressMu.Unlock()
		}(i, descriptor)
	}

	waitGroup.Wait()

	return assets
}

// synthesizeScene runs the image and audio sub-steps for one scene. The
// sub-steps are independent: both are always attempted and each outcome is
// recorded separately.
func (s *Synthesizer) synthesizeScene(
	ctx context.Context,
	descriptor model.SceneDescriptor,
	voice string,
	options Options,
) model.SceneAsset {
	asset := model.SceneAsset{Descriptor: descriptor}

	var waitGroup sync.WaitGroup

	if options.MakeImage {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			image, err := s.client.GenerateImage(ctx, descriptor.VisualPrompt)
			if err != nil {
				asset.ImageErr = fmt.Errorf("scene %d image: %w", descriptor.Index, err)

				s.logger.Warnf("Image synthesis failed for scene %d: %v", descriptor.Index, err)

				return
			}

			asset.Image = image
		}()
	}

	if options.MakeAudio {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			audio, err := s.synthesizeNarration(ctx, descriptor, voice)
			if err != nil {
				asset.AudioErr = fmt.Errorf("scene %d audio: %w", descriptor.Index, err)

				s.logger.Warnf("Audio synthesis failed for scene %d: %v", descriptor.Index, err)

				return
			}

			asset.Audio = audio
		}()
	}

	waitGroup.Wait()

	return asset
}

// synthesizeNarration chains speech synthesis into the WAV codec so the
// recorded audio is a self-contained playable container.
func (s *Synthesizer) synthesizeNarration(
	ctx context.Context,
	descriptor model.SceneDescriptor,
	voice string,
) ([]byte, error) {
	pcm, err := s.client.GenerateSpeech(ctx, descriptor.Narration, voice)
	if err != nil {
		return nil, err
	}

	samples := wav.DecodePCM16(pcm)

	return wav.Encode(samples, SampleRate), nil
}
