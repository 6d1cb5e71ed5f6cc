package filtergraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEffect is returned when an effect name is not one of lens, color or text.
var ErrUnknownEffect = errors.New("unknown effect")

// Effect names an optional stage appended to the stereo pair.
type Effect string

const (
	Lens  Effect = "lens"  // barrel/pincushion compensation
	Color Effect = "color" // brightness/contrast/saturation grading
	Text  Effect = "text"  // fixed caption
)

// chainOrder is the order enabled effects are appended in, whatever order they were requested in.
var chainOrder = []Effect{Lens, Color, Text}

// EffectSet holds the optional stages enabled for one conversion.
type EffectSet struct {
	Lens  bool `json:"lens"`
	Color bool `json:"color"`
	Text  bool `json:"text"`
}

// ParseEffects builds an EffectSet from effect names. Names may repeat
// and may come in any order.
func ParseEffects(names ...string) (EffectSet, error) {
	var s EffectSet

	for _, name := range names {
		switch Effect(strings.ToLower(strings.TrimSpace(name))) {
		case Lens:
			s.Lens = true
		case Color:
			s.Color = true
		case Text:
			s.Text = true
		default:
			return EffectSet{}, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
		}
	}

	return s, nil
}

// Has reports whether e is enabled.
func (s EffectSet) Has(e Effect) bool {
	switch e {
	case Lens:
		return s.Lens
	case Color:
		return s.Color
	case Text:
		return s.Text
	default:
		return false
	}
}

// Enabled returns the enabled effects in chaining order.
func (s EffectSet) Enabled() []Effect {
	enabled := make([]Effect, 0, len(chainOrder))

	for _, e := range chainOrder {
		if s.Has(e) {
			enabled = append(enabled, e)
		}
	}

	return enabled
}

// Names returns the enabled effect names in chaining order.
func (s EffectSet) Names() []string {
	enabled := s.Enabled()
	names := make([]string, len(enabled))

	for i, e := range enabled {
		names[i] = string(e)
	}

	return names
}

func (s EffectSet) String() string {
	if names := s.Names(); len(names) > 0 {
		return strings.Join(names, ",")
	}

	return "none"
}
