package ffmpeg

import (
	"strconv"
	"time"

	"github.com/aliskhannn/vr180-converter/internal/filtergraph"
)

const (
	videoCodec = "libx264"
	preset     = "fast"

	stereoCRF  = "20"
	blurredCRF = "23"

	audioCodec   = "aac"
	audioBitrate = "192k"
)

// StereoArgs returns the ffmpeg arguments for the mirror layout. Audio, if
// the input has any, is carried over with the container's default encoder.
func StereoArgs(in, out string, g filtergraph.Graph) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-i", in,
		"-filter_complex", g.String(),
		"-map", g.OutputPad(),
		"-map", "0:a?",
		"-c:v", videoCodec,
		"-crf", stereoCRF,
		"-preset", preset,
		out,
	}
}

// BlurredArgs returns the ffmpeg arguments for the blurred-background
// layout. Audio mapping and encoding flags are only added when hasAudio is set.
func BlurredArgs(in, out string, g filtergraph.Graph, hasAudio bool) []string {
	args := []string{
		"-hide_banner",
		"-y",
		"-i", in,
		"-filter_complex", g.String(),
		"-map", g.OutputPad(),
	}

	if hasAudio {
		args = append(args, "-map", "0:a")
	}

	args = append(args, "-c:v", videoCodec, "-preset", preset, "-crf", blurredCRF)

	if hasAudio {
		args = append(args, "-c:a", audioCodec, "-b:a", audioBitrate)
	}

	return append(args, out)
}

// ProbeAudioArgs returns the ffprobe arguments listing the input's audio
// stream indices as bare CSV, one per line, no header.
func ProbeAudioArgs(in string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		in,
	}
}

// FrameArgs returns the ffmpeg arguments writing a single PNG frame taken
// at offset to stdout.
func FrameArgs(in string, offset time.Duration) []string {
	return []string{
		"-hide_banner",
		"-v", "error",
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-i", in,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	}
}
