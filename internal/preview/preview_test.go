package preview

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/vr180-converter/internal/config"
)

type fakeFrames struct {
	png    []byte
	err    error
	path   string
	offset time.Duration
}

func (f *fakeFrames) Frame(_ context.Context, path string, offset time.Duration) ([]byte, error) {
	f.path, f.offset = path, offset
	return f.png, f.err
}

func testFrame(t *testing.T) []byte {
	t.Helper()

	img := imaging.New(400, 200, color.NRGBA{R: 30, G: 90, B: 160, A: 255})
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return buf.Bytes()
}

func testConfig() *config.Preview {
	return &config.Preview{
		Offset:  1500 * time.Millisecond,
		Width:   160,
		Height:  80,
		Badge:   "VR180",
		Quality: 80,
	}
}

func TestPoster(t *testing.T) {
	frames := &fakeFrames{png: testFrame(t)}
	p := New(frames, testConfig())

	data, err := p.Poster(context.Background(), "/results/job_vr180.mp4")
	if err != nil {
		t.Fatalf("Poster: %v", err)
	}

	if frames.path != "/results/job_vr180.mp4" || frames.offset != 1500*time.Millisecond {
		t.Fatalf("frame requested for %q at %v", frames.path, frames.offset)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Fatal("poster is not a JPEG")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode poster: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 80 {
		t.Fatalf("poster size = %dx%d, want 160x80", b.Dx(), b.Dy())
	}
}

func TestPoster_NoBadge(t *testing.T) {
	cfg := testConfig()
	cfg.Badge = ""
	p := New(&fakeFrames{png: testFrame(t)}, cfg)

	if _, err := p.Poster(context.Background(), "clip.mp4"); err != nil {
		t.Fatalf("Poster: %v", err)
	}
}

func TestPoster_Errors(t *testing.T) {
	t.Run("frame", func(t *testing.T) {
		p := New(&fakeFrames{err: errors.New("no frame")}, testConfig())
		if _, err := p.Poster(context.Background(), "clip.mp4"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("decode", func(t *testing.T) {
		p := New(&fakeFrames{png: []byte("not an image")}, testConfig())
		if _, err := p.Poster(context.Background(), "clip.mp4"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("font", func(t *testing.T) {
		cfg := testConfig()
		cfg.FontPath = "/nonexistent/font.ttf"
		p := New(&fakeFrames{png: testFrame(t)}, cfg)
		if _, err := p.Poster(context.Background(), "clip.mp4"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
