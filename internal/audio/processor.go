package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/darsapp/dars-api/pkg/config"
	"github.com/darsapp/dars-api/pkg/storage"
)

// Processor converts uploaded audio into the streaming format: MP3, mono,
// fixed bitrate, loudness-normalized for speech. Runs ffmpeg/ffprobe as
// subprocesses, the same pipeline the admin upload flow has always used.
type Processor struct {
	cfg     config.AudioConfig
	storage *storage.LocalStorage
	logger  *zap.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(cfg config.AudioConfig, store *storage.LocalStorage, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.TranscodeBitrate == "" {
		cfg.TranscodeBitrate = "64k"
	}
	return &Processor{cfg: cfg, storage: store, logger: logger}
}

// Transcode converts the stored original into processed MP3 output and
// returns the relative processed path plus duration in seconds.
func (p *Processor) Transcode(ctx context.Context, originalRel, processedRel string) (int, error) {
	if p.cfg.TranscodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TranscodeTimeout)
		defer cancel()
	}

	args := []string{
		"-i", p.storage.Path(originalRel),
		"-y",
		"-ac", "1",
		"-b:a", p.cfg.TranscodeBitrate,
		"-ar", "44100",
	}
	if p.cfg.LoudnessNormalize {
		// -23 LUFS is the broadcast standard for speech.
		args = append(args, "-af", "loudnorm=I=-23:TP=-2:LRA=7")
	}
	args = append(args, p.storage.Path(processedRel))

	cmd := exec.CommandContext(ctx, p.cfg.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.logger.Info("transcode_start", zap.String("input", originalRel), zap.String("output", processedRel))
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffmpeg transcode %s: %w: %s", originalRel, err, truncate(stderr.String(), 500))
	}

	duration, err := p.Duration(ctx, processedRel)
	if err != nil {
		return 0, err
	}

	p.logger.Info("transcode_done", zap.String("output", processedRel), zap.Int("duration_seconds", duration))
	return duration, nil
}

// Duration probes an audio file's duration in whole seconds.
func (p *Processor) Duration(ctx context.Context, rel string) (int, error) {
	cmd := exec.CommandContext(ctx, p.cfg.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		p.storage.Path(rel),
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", rel, err)
	}

	raw := strings.TrimSpace(string(out))
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q for %s: %w", raw, rel, err)
	}
	return int(seconds + 0.5), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
