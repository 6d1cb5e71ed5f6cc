package model

import (
	"fmt"
	"strings"
	"time"
)

// Layout selects how the stereo output is composed.
type Layout string

const (
	LayoutMirror Layout = "mirror" // input beside its mirrored copy, optional effects
	LayoutBlur   Layout = "blur"   // two copies on a blurred, darkened background
)

// ParseLayout parses a layout name. An empty name means LayoutMirror.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutMirror, nil
	case LayoutMirror, LayoutBlur:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

// ConvertRequest is what the service needs to run one conversion.
type ConvertRequest struct {
	Layout  Layout   `json:"layout"`
	Effects []string `json:"effects"` // effect names, ignored by LayoutBlur
}

// ConversionJob describes a single conversion. It lives for one request and is not persisted.
type ConversionJob struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"` // name the client uploaded
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	Layout     Layout    `json:"layout"`
	Effects    []string  `json:"effects"`
	HasAudio   *bool     `json:"has_audio,omitempty"` // known for LayoutBlur only
	CreatedAt  time.Time `json:"created_at"`
}
