package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/vr180-converter/internal/api/page"
	"github.com/aliskhannn/vr180-converter/internal/api/respond"
	"github.com/aliskhannn/vr180-converter/internal/ffmpeg"
	"github.com/aliskhannn/vr180-converter/internal/filtergraph"
	"github.com/aliskhannn/vr180-converter/internal/model"
	convertsvc "github.com/aliskhannn/vr180-converter/internal/service/convert"
	"github.com/aliskhannn/vr180-converter/internal/storage/file"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

// service defines the interface for running conversions.
type service interface {
	Convert(ctx context.Context, req model.ConvertRequest, filename string, file io.Reader) (model.ConversionJob, error)
}

// results defines the interface for looking up finished results.
type results interface {
	FindResult(jobID string) (string, error)
}

// previewer defines the interface for rendering poster frames.
type previewer interface {
	Poster(ctx context.Context, videoPath string) ([]byte, error)
}

// Handler provides HTTP handlers for the upload form, conversions and results.
type Handler struct {
	service   service
	results   results
	previewer previewer
	maxUpload int64
}

// NewHandler creates a new Handler. maxUpload bounds the request body in bytes.
func NewHandler(s service, r results, p previewer, maxUpload int64) *Handler {
	return &Handler{service: s, results: r, previewer: p, maxUpload: maxUpload}
}

// ConvertForm is the typed form of a POST /convert request.
type ConvertForm struct {
	Lens   bool
	Color  bool
	Text   bool
	Layout model.Layout
}

// Request maps the form to the service request.
func (f ConvertForm) Request() model.ConvertRequest {
	var effects []string
	if f.Lens {
		effects = append(effects, string(filtergraph.Lens))
	}
	if f.Color {
		effects = append(effects, string(filtergraph.Color))
	}
	if f.Text {
		effects = append(effects, string(filtergraph.Text))
	}

	return model.ConvertRequest{Layout: f.Layout, Effects: effects}
}

// Index serves the upload form.
func (h *Handler) Index(c *ginext.Context) {
	respond.HTML(c, http.StatusOK, page.Index)
}

// Convert handles the upload: it reads the multipart form, runs the
// conversion synchronously and streams the result back, or answers with a
// failed Result payload.
func (h *Handler) Convert(c *ginext.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			zlog.Logger.Warn().Int64("limit", maxErr.Limit).Msg("upload too large")
			respond.Fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit))
			return
		}

		zlog.Logger.Err(err).Msg("failed to parse multipart form")
		respond.Fail(c, http.StatusBadRequest, fmt.Sprintf("parse multipart form failed: %v", err))
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	// Retrieve the uploaded file from the form.
	upload, header, err := c.Request.FormFile("file")
	if err != nil {
		zlog.Logger.Err(err).Msg("failed to retrieve the file")
		respond.Fail(c, http.StatusBadRequest, "file field is required")
		return
	}
	defer upload.Close()

	form, err := parseForm(c.PostForm)
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("invalid convert form")
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	zlog.Logger.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Str("layout", string(form.Layout)).
		Msg("upload received")

	job, err := h.service.Convert(c.Request.Context(), form.Request(), header.Filename, upload)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, filtergraph.ErrUnknownEffect) {
			status = http.StatusBadRequest
		}
		if errors.Is(err, ffmpeg.ErrToolNotFound) {
			zlog.Logger.Error().Err(err).Msg("conversion tool missing")
		}

		respond.Fail(c, status, convertsvc.Diagnostic(err))
		return
	}

	c.Header("X-Job-ID", job.ID)
	respond.Video(c, job.OutputPath)
}

// Result serves a finished result again by job id.
func (h *Handler) Result(c *ginext.Context) {
	path, ok := h.lookup(c)
	if !ok {
		return
	}

	respond.Video(c, path)
}

// Preview serves a JPEG poster frame of a finished result.
func (h *Handler) Preview(c *ginext.Context) {
	path, ok := h.lookup(c)
	if !ok {
		return
	}

	poster, err := h.previewer.Poster(c.Request.Context(), path)
	if err != nil {
		zlog.Logger.Err(err).Str("result", path).Msg("failed to render preview")
		respond.Fail(c, http.StatusInternalServerError, fmt.Sprintf("failed to render preview: %v", err))
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JPEG(c, http.StatusOK, poster)
}

func (h *Handler) lookup(c *ginext.Context) (string, bool) {
	id := c.Param("id")

	path, err := h.results.FindResult(id)
	switch {
	case err == nil:
		return path, true
	case errors.Is(err, file.ErrInvalidJobID):
		respond.Fail(c, http.StatusBadRequest, "invalid job id")
	case errors.Is(err, file.ErrResultNotFound):
		respond.Fail(c, http.StatusNotFound, "result not found")
	default:
		zlog.Logger.Err(err).Str("job_id", id).Msg("failed to look up result")
		respond.Fail(c, http.StatusInternalServerError, "failed to look up result")
	}

	return "", false
}

// parseForm validates the non-file fields of the convert form.
func parseForm(value func(string) string) (ConvertForm, error) {
	var (
		form ConvertForm
		err  error
	)

	fields := []struct {
		name string
		dst  *bool
	}{
		{"lens", &form.Lens},
		{"color", &form.Color},
		{"text", &form.Text},
	}
	for _, f := range fields {
		if *f.dst, err = parseBool(value(f.name)); err != nil {
			return ConvertForm{}, fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	if form.Layout, err = model.ParseLayout(value("layout")); err != nil {
		return ConvertForm{}, err
	}

	return form, nil
}

// parseBool accepts the usual HTML form spellings of a boolean. Absent means false.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "off", "no":
		return false, nil
	case "1", "true", "on", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
