package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrResultNotFound is returned when no result file exists for a job id.
var ErrResultNotFound = errors.New("result not found")

// ErrInvalidJobID is returned for job ids that are not 32 lowercase hex characters.
var ErrInvalidJobID = errors.New("invalid job id")

// StereoSuffix names mirror-layout results: {job-id}_vr180.mp4.
const StereoSuffix = "_vr180.mp4"

var jobIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Storage keeps uploads and results in two local directories.
// Files are never removed by the service.
type Storage struct {
	uploadsDir string
	resultsDir string
}

// NewStorage creates both directories if they do not exist.
func NewStorage(uploadsDir, resultsDir string) (*Storage, error) {
	for _, dir := range []string{uploadsDir, resultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &Storage{uploadsDir: uploadsDir, resultsDir: resultsDir}, nil
}

// SaveUpload stores src as {job-id}_{filename} in the uploads directory and
// returns its path. Only the base name of filename is used.
func (s *Storage) SaveUpload(jobID, filename string, src io.Reader) (string, error) {
	if !jobIDPattern.MatchString(jobID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}

	dstPath := filepath.Join(s.uploadsDir, jobID+"_"+SafeName(filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", dstPath, err)
	}

	return dstPath, nil
}

// StereoResultPath returns where the mirror-layout result of a job goes.
func (s *Storage) StereoResultPath(jobID string) string {
	return filepath.Join(s.resultsDir, jobID+StereoSuffix)
}

// ResultsDir returns the results directory.
func (s *Storage) ResultsDir() string {
	return s.resultsDir
}

// FindResult returns the result file of a job. Mirror-layout results are
// named {job-id}_vr180.mp4, blurred-layout results {job-id}_{stem}_vr180.mp4.
func (s *Storage) FindResult(jobID string) (string, error) {
	if !jobIDPattern.MatchString(jobID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}

	stereo := s.StereoResultPath(jobID)
	if info, err := os.Stat(stereo); err == nil && info.Mode().IsRegular() {
		return stereo, nil
	}

	matches, err := filepath.Glob(filepath.Join(s.resultsDir, jobID+"_*"+StereoSuffix))
	if err != nil {
		return "", fmt.Errorf("failed to look up result of %s: %w", jobID, err)
	}
	if len(matches) == 0 {
		return "", ErrResultNotFound
	}

	return matches[0], nil
}

// SafeName reduces a client-supplied file name to a base name without
// path separators. Empty and dot names become "upload".
func SafeName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}

	return name
}
