package filtergraph

// InputVideo is the stream specifier of the first input's video.
const InputVideo = "0:v"

// BasePad is the output pad of the side-by-side stereo stack.
const BasePad = "vr"

// BlurredPad is the output pad of the blurred-background composite.
const BlurredPad = "outv"

// Caption is the text drawn by the text effect.
const Caption = "VR180 Demo"

// effectStages maps each optional effect to its filter and the pad it produces.
var effectStages = map[Effect]struct {
	filter Filter
	pad    string
}{
	Lens: {
		filter: NewFilter("lenscorrection", Opt("k1", "-0.3"), Opt("k2", "0.2")),
		pad:    "lens",
	},
	Color: {
		filter: NewFilter("eq", Opt("brightness", "0.05"), Opt("contrast", "1.2"), Opt("saturation", "1.3")),
		pad:    "graded",
	},
	Text: {
		filter: NewFilter("drawtext",
			Opt("text", Caption),
			Opt("fontcolor", "white"),
			Opt("fontsize", "24"),
			Opt("x", "10"),
			Opt("y", "H-th-10"),
		),
		pad: "captioned",
	},
}

// Stereo returns the mirror-layout graph: the input is split, one copy is
// flipped horizontally and the two are stacked side by side on BasePad.
// Enabled effects are then appended in lens, color, text order, each one
// consuming the previous stage's pad.
func Stereo(effects EffectSet) Graph {
	b := NewBuilder(InputVideo).
		Chain([]string{InputVideo}, []Filter{NewFilter("split", Arg("2"))}, []string{"original", "copy"}).
		Chain([]string{"copy"}, []Filter{NewFilter("hflip")}, []string{"flipped"}).
		Chain([]string{"original", "flipped"}, []Filter{NewFilter("hstack", Opt("inputs", "2"))}, []string{BasePad})

	for _, e := range effects.Enabled() {
		stage := effectStages[e]
		b.Then(stage.filter, stage.pad)
	}

	return mustBuild(b)
}

// Blurred returns the blurred-background graph: two 1920x1080 copies are
// stacked into a 3840x1080 strip and overlaid at 0:540 on a 3840x2160
// blurred and darkened copy of the source.
func Blurred() Graph {
	b := NewBuilder(InputVideo).
		Chain(
			[]string{InputVideo},
			[]Filter{NewFilter("scale", Arg("1920"), Arg("1080")), NewFilter("split", Arg("2"))},
			[]string{"left", "right"},
		).
		Chain([]string{"left", "right"}, []Filter{NewFilter("hstack", Opt("inputs", "2"))}, []string{BasePad}).
		Chain(
			[]string{InputVideo},
			[]Filter{
				NewFilter("scale", Arg("3840"), Arg("2160")),
				NewFilter("boxblur", Arg("20"), Arg("5")),
				NewFilter("eq", Opt("brightness", "-0.05")),
			},
			[]string{"bg"},
		).
		Chain([]string{"bg", BasePad}, []Filter{NewFilter("overlay", Arg("0"), Arg("540"))}, []string{BlurredPad})

	return mustBuild(b)
}

// mustBuild panics on bookkeeping errors. The graphs above are built from
// constants only, so an error here is a programming mistake.
func mustBuild(b *Builder) Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}

	return g
}
