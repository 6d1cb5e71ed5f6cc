package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/semaphore"

	"github.com/aliskhannn/vr180-converter/internal/config"
	"github.com/aliskhannn/vr180-converter/internal/filtergraph"
)

// ResultSuffix is appended to the input stem to name blurred-layout results.
const ResultSuffix = "_vr180.mp4"

// Tool runs ffmpeg and ffprobe. Every call blocks until the process exits.
// The number of ffmpeg processes running at once is bounded; ffprobe
// queries are not counted.
type Tool struct {
	ffmpeg    string
	ffprobe   string
	diagLimit int
	slots     *semaphore.Weighted
}

// Output describes a finished blurred-layout conversion.
type Output struct {
	Path     string
	HasAudio bool
}

// New creates a Tool from the ffmpeg configuration.
func New(cfg *config.FFmpeg) *Tool {
	limit := cfg.MaxConcurrent
	if limit < 1 {
		limit = 1
	}

	return &Tool{
		ffmpeg:    cfg.FFmpegPath,
		ffprobe:   cfg.FFprobePath,
		diagLimit: cfg.DiagnosticLimit,
		slots:     semaphore.NewWeighted(limit),
	}
}

// Missing returns the configured binaries that cannot be resolved.
func (t *Tool) Missing() []string {
	var missing []string

	for _, name := range []string{t.ffmpeg, t.ffprobe} {
		if _, err := resolve(name); err != nil {
			missing = append(missing, name)
		}
	}

	return missing
}

// Stereo converts in to the mirror layout with the given effects and writes out.
func (t *Tool) Stereo(ctx context.Context, in, out string, effects filtergraph.EffectSet) error {
	zlog.Logger.Info().
		Str("input", in).
		Str("effects", effects.String()).
		Msg("starting stereo conversion")

	return t.Encode(ctx, StereoArgs(in, out, filtergraph.Stereo(effects)))
}

// Blurred converts in to the blurred-background layout and writes
// {stem}_vr180.mp4 into outDir, creating outDir if needed. An existing file
// of that name is overwritten.
func (t *Tool) Blurred(ctx context.Context, in, outDir string) (Output, error) {
	if _, err := resolve(t.ffmpeg); err != nil {
		return Output{}, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("failed to create directory %s: %w", outDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(outDir, stem+ResultSuffix)

	hasAudio, err := t.HasAudio(ctx, in)
	if err != nil {
		return Output{}, err
	}

	zlog.Logger.Info().
		Str("input", in).
		Bool("has_audio", hasAudio).
		Msg("starting blurred conversion")

	if err := t.Encode(ctx, BlurredArgs(in, out, filtergraph.Blurred(), hasAudio)); err != nil {
		return Output{}, err
	}

	return Output{Path: out, HasAudio: hasAudio}, nil
}

// Encode runs ffmpeg with args. It returns ErrToolNotFound before anything
// is started when ffmpeg is missing, and an *ExecError when ffmpeg exits
// non-zero. Partial output is left where ffmpeg wrote it.
func (t *Tool) Encode(ctx context.Context, args []string) error {
	_, err := t.runFFmpeg(ctx, args)
	return err
}

// Frame returns a PNG of the frame at offset in the given video.
func (t *Tool) Frame(ctx context.Context, path string, offset time.Duration) ([]byte, error) {
	png, err := t.runFFmpeg(ctx, FrameArgs(path, offset))
	if err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("no frame at %s in %s", offset, filepath.Base(path))
	}

	return png, nil
}

// HasAudio reports whether the input has at least one audio stream.
// An empty answer from ffprobe means no audio and is not an error.
func (t *Tool) HasAudio(ctx context.Context, path string) (bool, error) {
	bin, err := resolve(t.ffprobe)
	if err != nil {
		return false, err
	}

	stdout, stderr, err := run(ctx, bin, ProbeAudioArgs(path))
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return false, fmt.Errorf("failed to run %s: %w", t.ffprobe, err)
		}

		zlog.Logger.Warn().
			Str("input", path).
			Int("exit_code", exitErr.ExitCode()).
			Str("diagnostic", diagnostic(stderr, nil, t.diagLimit)).
			Msg("audio probe failed, assuming no audio")
	}

	return len(bytes.TrimSpace(stdout)) > 0, nil
}

func (t *Tool) runFFmpeg(ctx context.Context, args []string) ([]byte, error) {
	bin, err := resolve(t.ffmpeg)
	if err != nil {
		return nil, err
	}

	if err := t.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a free %s slot: %w", t.ffmpeg, err)
	}
	defer t.slots.Release(1)

	start := time.Now()
	stdout, stderr, err := run(ctx, bin, args)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			execErr := &ExecError{
				Tool:       t.ffmpeg,
				ExitCode:   exitErr.ExitCode(),
				Diagnostic: diagnostic(stderr, stdout, t.diagLimit),
			}

			zlog.Logger.Error().
				Int("exit_code", execErr.ExitCode).
				Dur("elapsed", time.Since(start)).
				Msg("ffmpeg failed")

			return nil, execErr
		}

		return nil, fmt.Errorf("failed to run %s: %w", t.ffmpeg, err)
	}

	zlog.Logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("ffmpeg finished")

	return stdout, nil
}

func resolve(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not installed or not in PATH", ErrToolNotFound, name)
	}

	return path, nil
}

func run(ctx context.Context, bin string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.Bytes(), stderr.Bytes(), err
}
