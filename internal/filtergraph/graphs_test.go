package filtergraph

import (
	"errors"
	"strings"
	"testing"
)

const baseChain = "[0:v]split=2[original][copy];[copy]hflip[flipped];[original][flipped]hstack=inputs=2[vr]"

// allEffectSets enumerates the 8 subsets of {lens, color, text}.
func allEffectSets() []EffectSet {
	sets := make([]EffectSet, 0, 8)
	for mask := 0; mask < 8; mask++ {
		sets = append(sets, EffectSet{
			Lens:  mask&1 != 0,
			Color: mask&2 != 0,
			Text:  mask&4 != 0,
		})
	}
	return sets
}

func stageText(e Effect) string {
	return effectStages[e].filter.String()
}

func TestStereo_FinalPad(t *testing.T) {
	for _, set := range allEffectSets() {
		t.Run(set.String(), func(t *testing.T) {
			g := Stereo(set)

			enabled := set.Enabled()
			if len(enabled) == 0 {
				if g.Output() != BasePad {
					t.Fatalf("output pad = %q, want %q", g.Output(), BasePad)
				}
				if g.String() != baseChain {
					t.Fatalf("graph = %q, want %q", g.String(), baseChain)
				}
				return
			}

			if g.Output() == BasePad {
				t.Fatalf("output pad is still %q with effects %s", BasePad, set)
			}

			last := enabled[len(enabled)-1]
			if want := effectStages[last].pad; g.Output() != want {
				t.Fatalf("output pad = %q, want %q", g.Output(), want)
			}
			if !strings.HasSuffix(g.String(), g.OutputPad()) {
				t.Fatalf("graph %q does not end with %s", g.String(), g.OutputPad())
			}
		})
	}
}

func TestStereo_StagesOnceInOrder(t *testing.T) {
	for _, set := range allEffectSets() {
		t.Run(set.String(), func(t *testing.T) {
			text := Stereo(set).String()

			if n := strings.Count(text, "split=2"); n != 1 {
				t.Fatalf("split appears %d times in %q", n, text)
			}
			if n := strings.Count(text, "hflip"); n != 1 {
				t.Fatalf("hflip appears %d times in %q", n, text)
			}
			if n := strings.Count(text, "hstack=inputs=2"); n != 1 {
				t.Fatalf("hstack appears %d times in %q", n, text)
			}
			if !strings.HasPrefix(text, baseChain) {
				t.Fatalf("graph %q does not start with the stereo stack", text)
			}

			prev := strings.Index(text, "hstack")
			for _, e := range chainOrder {
				n := strings.Count(text, stageText(e))
				if !set.Has(e) {
					if n != 0 {
						t.Fatalf("%s stage present although disabled: %q", e, text)
					}
					continue
				}
				if n != 1 {
					t.Fatalf("%s stage appears %d times in %q", e, n, text)
				}

				idx := strings.Index(text, stageText(e))
				if idx < prev {
					t.Fatalf("%s stage out of order in %q", e, text)
				}
				prev = idx
			}
		})
	}
}

func TestStereo_PadsProducedAndConsumedOnce(t *testing.T) {
	for _, set := range allEffectSets() {
		t.Run(set.String(), func(t *testing.T) {
			g := Stereo(set)
			text := g.String()

			labels := []string{"original", "copy", "flipped", BasePad}
			for _, e := range set.Enabled() {
				labels = append(labels, effectStages[e].pad)
			}

			for _, label := range labels {
				want := 2
				if label == g.Output() {
					want = 1
				}
				if n := strings.Count(text, "["+label+"]"); n != want {
					t.Fatalf("pad [%s] appears %d times, want %d in %q", label, n, want, text)
				}
			}
		})
	}
}

func TestStereo_IgnoresRequestOrder(t *testing.T) {
	forward, err := ParseEffects("lens", "color", "text")
	if err != nil {
		t.Fatalf("ParseEffects: %v", err)
	}
	backward, err := ParseEffects("text", "Color", " lens ", "text")
	if err != nil {
		t.Fatalf("ParseEffects: %v", err)
	}

	if Stereo(forward).String() != Stereo(backward).String() {
		t.Fatalf("graphs differ:\n%s\n%s", Stereo(forward), Stereo(backward))
	}
}

func TestStereo_AllEffects(t *testing.T) {
	want := baseChain +
		";[vr]lenscorrection=k1=-0.3:k2=0.2[lens]" +
		";[lens]eq=brightness=0.05:contrast=1.2:saturation=1.3[graded]" +
		";[graded]drawtext=text='VR180 Demo':fontcolor=white:fontsize=24:x=10:y=H-th-10[captioned]"

	g := Stereo(EffectSet{Lens: true, Color: true, Text: true})
	if g.String() != want {
		t.Fatalf("graph =\n%s\nwant\n%s", g, want)
	}
	if g.OutputPad() != "[captioned]" {
		t.Fatalf("output pad = %s", g.OutputPad())
	}
}

func TestBlurred(t *testing.T) {
	want := "[0:v]scale=1920:1080,split=2[left][right];" +
		"[left][right]hstack=inputs=2[vr];" +
		"[0:v]scale=3840:2160,boxblur=20:5,eq=brightness=-0.05[bg];" +
		"[bg][vr]overlay=0:540[outv]"

	g := Blurred()
	if g.String() != want {
		t.Fatalf("graph =\n%s\nwant\n%s", g, want)
	}
	if g.Output() != BlurredPad {
		t.Fatalf("output = %q, want %q", g.Output(), BlurredPad)
	}
}

func TestParseEffects_Unknown(t *testing.T) {
	_, err := ParseEffects("lens", "sepia")
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("err = %v, want ErrUnknownEffect", err)
	}
}

func TestEffectSet_String(t *testing.T) {
	if s := (EffectSet{}).String(); s != "none" {
		t.Fatalf("empty set = %q", s)
	}
	if s := (EffectSet{Text: true, Lens: true}).String(); s != "lens,text" {
		t.Fatalf("set = %q", s)
	}
}
