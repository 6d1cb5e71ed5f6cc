package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrToolNotFound is returned when ffmpeg or ffprobe cannot be resolved.
// Nothing is executed in that case.
var ErrToolNotFound = errors.New("external tool not found")

// ExecError reports a tool that ran and exited with a non-zero status.
type ExecError struct {
	Tool       string // binary as configured, e.g. "ffmpeg"
	ExitCode   int
	Diagnostic string // stderr, or stdout when stderr was empty; truncated
}

func (e *ExecError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}

	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitCode, e.Diagnostic)
}

// diagnostic picks the text reported for a failed run: stderr if it has
// anything in it, stdout otherwise, cut to the first limit characters.
// A limit of zero keeps everything.
func diagnostic(stderr, stdout []byte, limit int) string {
	text := strings.TrimSpace(string(stderr))
	if text == "" {
		text = strings.TrimSpace(string(stdout))
	}

	return truncate(text, limit)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}

	return s
}
