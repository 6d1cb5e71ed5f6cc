package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/vr180-converter/internal/ffmpeg"
	"github.com/aliskhannn/vr180-converter/internal/filtergraph"
	"github.com/aliskhannn/vr180-converter/internal/model"
)

// fileStorage defines the interface for the local staging area.
type fileStorage interface {
	SaveUpload(jobID, filename string, src io.Reader) (string, error)
	StereoResultPath(jobID string) string
	ResultsDir() string
}

// converter defines the interface for running the external conversion tool.
type converter interface {
	Stereo(ctx context.Context, in, out string, effects filtergraph.EffectSet) error
	Blurred(ctx context.Context, in, outDir string) (ffmpeg.Output, error)
}

// mirror defines the interface for copying results to object storage.
type mirror interface {
	Put(ctx context.Context, localPath string) (string, error)
}

// producer defines the interface for publishing conversion events (e.g., Kafka).
type producer interface {
	Produce(ctx context.Context, event model.ConversionEvent) error
}

// Service runs one conversion per call: it stages the upload, runs ffmpeg
// and, when configured, mirrors the result and publishes an event.
// Mirror and event failures are logged and do not fail the conversion.
type Service struct {
	fileStorage fileStorage
	converter   converter
	mirror      mirror
	producer    producer
	newID       func() string
	now         func() time.Time
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithMirror copies every successful result to object storage.
func WithMirror(m mirror) Option {
	return func(s *Service) { s.mirror = m }
}

// WithEvents publishes an event for every finished conversion.
func WithEvents(p producer) Option {
	return func(s *Service) { s.producer = p }
}

// NewService creates a new Service with the given storage and converter.
func NewService(fs fileStorage, c converter, opts ...Option) *Service {
	s := &Service{
		fileStorage: fs,
		converter:   c,
		newID:       NewJobID,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewJobID returns a random job id: a UUIDv4 as 32 hex characters.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Convert saves the uploaded file and converts it with the requested layout.
// The returned job is filled in as far as the conversion got; on success
// job.OutputPath holds the result file.
func (s *Service) Convert(ctx context.Context, req model.ConvertRequest, filename string, file io.Reader) (model.ConversionJob, error) {
	job := model.ConversionJob{
		ID:        s.newID(),
		Filename:  filename,
		Layout:    req.Layout,
		CreatedAt: s.now(),
	}

	effects, err := filtergraph.ParseEffects(req.Effects...)
	if err != nil {
		return job, fmt.Errorf("convert: %w", err)
	}
	if job.Layout == "" {
		job.Layout = model.LayoutMirror
	}
	if job.Layout == model.LayoutMirror {
		job.Effects = effects.Names()
	}

	job.InputPath, err = s.fileStorage.SaveUpload(job.ID, filename, file)
	if err != nil {
		return job, fmt.Errorf("convert: failed to save upload: %w", err)
	}

	log := zlog.Logger.With().
		Str("job_id", job.ID).
		Str("layout", string(job.Layout)).
		Logger()

	log.Info().
		Str("input", job.InputPath).
		Strs("effects", job.Effects).
		Msg("conversion started")

	err = s.run(ctx, &job, effects)

	event := model.ConversionEvent{
		Job:        job,
		FinishedAt: s.now(),
	}
	event.Elapsed = event.FinishedAt.Sub(job.CreatedAt)

	if err != nil {
		log.Err(err).Dur("elapsed", event.Elapsed).Msg("conversion failed")
		event.Result = model.Failed(Diagnostic(err))
		s.publish(ctx, event)

		return job, fmt.Errorf("convert: %w", err)
	}

	log.Info().
		Str("output", job.OutputPath).
		Dur("elapsed", event.Elapsed).
		Msg("conversion finished")

	event.Result = model.Succeeded(job.OutputPath)
	event.ObjectPath = s.mirrorResult(ctx, job)
	s.publish(ctx, event)

	return job, nil
}

func (s *Service) run(ctx context.Context, job *model.ConversionJob, effects filtergraph.EffectSet) error {
	switch job.Layout {
	case model.LayoutMirror:
		job.OutputPath = s.fileStorage.StereoResultPath(job.ID)
		return s.converter.Stereo(ctx, job.InputPath, job.OutputPath, effects)

	case model.LayoutBlur:
		out, err := s.converter.Blurred(ctx, job.InputPath, s.fileStorage.ResultsDir())
		if err != nil {
			return err
		}
		job.OutputPath = out.Path
		job.HasAudio = &out.HasAudio
		return nil

	default:
		return fmt.Errorf("unknown layout %q", job.Layout)
	}
}

func (s *Service) mirrorResult(ctx context.Context, job model.ConversionJob) string {
	if s.mirror == nil {
		return ""
	}

	objectPath, err := s.mirror.Put(ctx, job.OutputPath)
	if err != nil {
		zlog.Logger.Err(err).Str("job_id", job.ID).Msg("failed to mirror result")
		return ""
	}

	return objectPath
}

func (s *Service) publish(ctx context.Context, event model.ConversionEvent) {
	if s.producer == nil {
		return
	}

	if err := s.producer.Produce(ctx, event); err != nil {
		zlog.Logger.Err(err).Str("job_id", event.Job.ID).Msg("failed to publish conversion event")
	}
}

// Diagnostic returns the text reported to clients for a failed conversion:
// the tool's own diagnostic when it ran, the error message otherwise.
func Diagnostic(err error) string {
	var execErr *ffmpeg.ExecError
	if errors.As(err, &execErr) && execErr.Diagnostic != "" {
		return execErr.Diagnostic
	}

	return err.Error()
}
