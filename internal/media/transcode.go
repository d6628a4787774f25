package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/panyaai/panya/internal/observe"
)

// Waveform format required by the speech recognizer.
const (
	WaveformSampleRate = 16000
	WaveformChannels   = 1
	WaveformCodec      = "pcm_s16le"
)

// JobState is the lifecycle of a TranscodeJob.
type JobState string

const (
	JobCreated    JobState = "created"
	JobConverting JobState = "converting"
	JobDone       JobState = "done"
	JobFailed     JobState = "failed"
)

// TranscodeJob is a source/destination temp-file pair owned by the Transcoder
// until it reaches a terminal state.
type TranscodeJob struct {
	ID         string
	SourcePath string
	DestPath   string
	State      JobState
}

// CommandRunner executes an external program. Stderr output should be folded
// into the returned error.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

// TranscoderConfig configures the ffmpeg invocation.
type TranscoderConfig struct {
	Dir        string
	FFmpegPath string
	Preset     string
}

// Transcoder converts compressed voice clips into 16 kHz mono 16-bit PCM WAV files.
type Transcoder struct {
	cfg     TranscoderConfig
	run     CommandRunner
	metrics *observe.Metrics
	logger  *slog.Logger
}

// NewTranscoder creates a Transcoder. A nil runner uses ExecRunner.
func NewTranscoder(log *slog.Logger, cfg TranscoderConfig, run CommandRunner, metrics *observe.Metrics) *Transcoder {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Dir == "" {
		cfg.Dir = os.TempDir()
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.Preset == "" {
		cfg.Preset = "ultrafast"
	}
	if run == nil {
		run = ExecRunner
	}
	if metrics == nil {
		metrics = observe.Noop()
	}
	return &Transcoder{
		cfg:     cfg,
		run:     run,
		metrics: metrics,
		logger:  log.With(slog.String("service", "transcode")),
	}
}

// NewJob derives the temp-file pair for jobID.
func (t *Transcoder) NewJob(jobID string) (TranscodeJob, error) {
	id := strings.TrimSpace(jobID)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return TranscodeJob{}, fmt.Errorf("%w: job id %q", ErrInvalidInput, jobID)
	}
	return TranscodeJob{
		ID:         id,
		SourcePath: filepath.Join(t.cfg.Dir, id+".m4a"),
		DestPath:   filepath.Join(t.cfg.Dir, id+".wav"),
		State:      JobCreated,
	}, nil
}

// Transcode writes source to a temp file, converts it and returns the
// waveform path. The source file never outlives this call; on failure the
// destination is removed too. The caller owns the returned file.
func (t *Transcoder) Transcode(ctx context.Context, jobID string, source []byte) (string, error) {
	job, err := t.NewJob(jobID)
	if err != nil {
		return "", err
	}
	if len(source) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		t.metrics.TranscodeDuration.Record(ctx, time.Since(start).Seconds())
	}()
	defer removeQuietly(job.SourcePath)

	if err := os.WriteFile(job.SourcePath, source, 0o600); err != nil {
		job.State = JobFailed
		return "", fmt.Errorf("%w: write source: %v", ErrTranscode, err)
	}

	job.State = JobConverting
	if err := t.run(ctx, t.cfg.FFmpegPath, t.args(job)...); err != nil {
		job.State = JobFailed
		removeQuietly(job.DestPath)
		t.logger.Error("ffmpeg conversion failed", slog.String("job", job.ID), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", ErrTranscode, err)
	}
	if info, err := os.Stat(job.DestPath); err != nil || info.Size() == 0 {
		job.State = JobFailed
		removeQuietly(job.DestPath)
		return "", fmt.Errorf("%w: no waveform produced", ErrTranscode)
	}

	job.State = JobDone
	t.logger.Debug("conversion finished", slog.String("job", job.ID), slog.Duration("took", time.Since(start)))
	return job.DestPath, nil
}

func (t *Transcoder) args(job TranscodeJob) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", job.SourcePath,
		"-preset", t.cfg.Preset,
		"-acodec", WaveformCodec,
		"-ac", fmt.Sprint(WaveformChannels),
		"-ar", fmt.Sprint(WaveformSampleRate),
		"-f", "wav",
		job.DestPath,
	}
}

func removeQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
