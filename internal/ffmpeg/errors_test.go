package ffmpeg

import (
	"strings"
	"testing"
)

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		name           string
		stderr, stdout string
		limit          int
		want           string
	}{
		{"prefers stderr", "bad filter\n", "ignored", 100, "bad filter"},
		{"falls back to stdout", "  \n", "from stdout", 100, "from stdout"},
		{"both empty", "", "", 100, ""},
		{"truncates", "abcdefgh", "", 3, "abc"},
		{"zero limit keeps all", "abcdefgh", "", 0, "abcdefgh"},
		{"rune safe", "ééééé", "", 2, "éé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diagnostic([]byte(tt.stderr), []byte(tt.stdout), tt.limit); got != tt.want {
				t.Fatalf("diagnostic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecError_Error(t *testing.T) {
	err := &ExecError{Tool: "ffmpeg", ExitCode: 1, Diagnostic: "Invalid argument"}
	if got := err.Error(); got != "ffmpeg exited with status 1: Invalid argument" {
		t.Fatalf("Error() = %q", got)
	}

	bare := &ExecError{Tool: "ffmpeg", ExitCode: 234}
	if got := bare.Error(); !strings.HasSuffix(got, "status 234") {
		t.Fatalf("Error() = %q", got)
	}
}
