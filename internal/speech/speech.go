// Package speech turns normalized waveform files into text using Google
// Cloud Speech-to-Text.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/go-audio/wav"

	"github.com/panyaai/panya/internal/observe"
)

var (
	// ErrTranscription indicates the recognizer could not produce a transcript.
	ErrTranscription = errors.New("transcription failed")
	// ErrNoSpeech indicates the recognizer returned no segments.
	ErrNoSpeech = errors.New("no speech recognized")
)

// Recognizer is the synchronous recognition call of the speech collaborator.
type Recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
}

// Config fixes the recognition parameters.
type Config struct {
	LanguageCode             string
	AlternativeLanguageCodes []string
	Model                    string
	SampleRateHertz          int32
}

// DefaultConfig is Thai-primary, English-alternative long-form recognition.
func DefaultConfig() Config {
	return Config{
		LanguageCode:             "th-TH",
		AlternativeLanguageCodes: []string{"en-US"},
		Model:                    "latest_long",
		SampleRateHertz:          16000,
	}
}

// Transcriber wraps a Recognizer with request shaping and result flattening.
type Transcriber struct {
	recognizer Recognizer
	cfg        Config
	metrics    *observe.Metrics
	logger     *slog.Logger
}

// NewTranscriber creates a Transcriber.
func NewTranscriber(log *slog.Logger, recognizer Recognizer, cfg Config, metrics *observe.Metrics) *Transcriber {
	if log == nil {
		log = slog.Default()
	}
	if cfg.SampleRateHertz == 0 {
		cfg.SampleRateHertz = 16000
	}
	if metrics == nil {
		metrics = observe.Noop()
	}
	return &Transcriber{
		recognizer: recognizer,
		cfg:        cfg,
		metrics:    metrics,
		logger:     log.With(slog.String("service", "speech")),
	}
}

// Transcribe recognizes the waveform at path and joins the result segments
// with newlines in recognizer order. The file is deleted before returning,
// whatever the outcome.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	defer func() { _ = os.Remove(path) }()

	start := time.Now()
	defer func() {
		t.metrics.TranscriptionDuration.Record(ctx, time.Since(start).Seconds())
	}()

	if t.recognizer == nil {
		return "", fmt.Errorf("%w: recognizer not configured", ErrTranscription)
	}
	content, err := readWaveform(path, t.cfg.SampleRateHertz)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	resp, err := t.recognizer.Recognize(ctx, t.request(content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	text := Flatten(resp)
	t.logger.Info("transcribed audio",
		slog.Int("segments", len(resp.GetResults())),
		slog.Int("chars", len([]rune(text))),
	)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %w", ErrTranscription, ErrNoSpeech)
	}
	return text, nil
}

func (t *Transcriber) request(content []byte) *speechpb.RecognizeRequest {
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                 speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:          t.cfg.SampleRateHertz,
			LanguageCode:             t.cfg.LanguageCode,
			AlternativeLanguageCodes: t.cfg.AlternativeLanguageCodes,
			Model:                    t.cfg.Model,
			UseEnhanced:              true,
			EnableWordConfidence:     true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: content},
		},
	}
}

// Flatten joins the top alternative of every result with "\n".
func Flatten(resp *speechpb.RecognizeResponse) string {
	results := resp.GetResults()
	lines := make([]string, 0, len(results))
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		lines = append(lines, alts[0].GetTranscript())
	}
	return strings.Join(lines, "\n")
}

// readWaveform checks the WAV header matches the recognizer format and
// returns the file bytes.
func readWaveform(path string, sampleRate int32) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}
	if int32(dec.SampleRate) != sampleRate || dec.NumChans != 1 || dec.BitDepth != 16 {
		return nil, fmt.Errorf("unexpected waveform format: %d Hz, %d channels, %d bit",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	return os.ReadFile(path)
}
