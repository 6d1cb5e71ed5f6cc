package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const jobID = "0123456789abcdef0123456789abcdef"

func newStorage(t *testing.T) *Storage {
	t.Helper()

	root := t.TempDir()
	s, err := NewStorage(filepath.Join(root, "uploads"), filepath.Join(root, "results"))
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestNewStorage_CreatesDirectories(t *testing.T) {
	root := t.TempDir()
	uploads := filepath.Join(root, "a", "uploads")
	results := filepath.Join(root, "b", "results")

	if _, err := NewStorage(uploads, results); err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	for _, dir := range []string{uploads, results} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("%s not created: %v", dir, err)
		}
	}
}

func TestSaveUpload(t *testing.T) {
	s := newStorage(t)

	path, err := s.SaveUpload(jobID, "../../etc/holiday clip.mp4", strings.NewReader("video"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}

	if want := filepath.Join(s.uploadsDir, jobID+"_holiday clip.mp4"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "video" {
		t.Fatalf("content = %q, err = %v", data, err)
	}
}

func TestSaveUpload_InvalidJobID(t *testing.T) {
	s := newStorage(t)

	if _, err := s.SaveUpload("../x", "clip.mp4", strings.NewReader("")); !errors.Is(err, ErrInvalidJobID) {
		t.Fatalf("err = %v, want ErrInvalidJobID", err)
	}
}

func TestFindResult(t *testing.T) {
	s := newStorage(t)

	if _, err := s.FindResult(jobID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("err = %v, want ErrResultNotFound", err)
	}

	blurred := filepath.Join(s.ResultsDir(), jobID+"_clip"+StereoSuffix)
	if err := os.WriteFile(blurred, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := s.FindResult(jobID); err != nil || got != blurred {
		t.Fatalf("FindResult = %q, %v; want %q", got, err, blurred)
	}

	if err := os.WriteFile(s.StereoResultPath(jobID), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := s.FindResult(jobID); err != nil || got != s.StereoResultPath(jobID) {
		t.Fatalf("FindResult = %q, %v; want the stereo result", got, err)
	}

	if _, err := s.FindResult("*"); !errors.Is(err, ErrInvalidJobID) {
		t.Fatalf("err = %v, want ErrInvalidJobID", err)
	}
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"clip.mp4":            "clip.mp4",
		"dir/clip.mp4":        "clip.mp4",
		`C:\videos\clip.mp4`:  "clip.mp4",
		"":                    "upload",
		"..":                  "upload",
		"/":                   "upload",
		"  spaced name.mov  ": "spaced name.mov",
	}

	for in, want := range tests {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}
