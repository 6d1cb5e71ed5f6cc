package filtergraph

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidGraph is returned by Build when the pad bookkeeping does not add up.
var ErrInvalidGraph = errors.New("invalid filter graph")

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_:.]+$`)

// plainValue matches option values that need no quoting inside a filter description.
var plainValue = regexp.MustCompile(`^[A-Za-z0-9_.+\-*/()]*$`)

// Option is one filter option. An empty Key makes it positional (e.g. scale=1920:1080).
type Option struct {
	Key   string
	Value string
}

// Opt returns a key=value option.
func Opt(key, value string) Option {
	return Option{Key: key, Value: value}
}

// Arg returns a positional option.
func Arg(value string) Option {
	return Option{Value: value}
}

// Filter is a single filter with its options, e.g. eq=brightness=0.05:contrast=1.2.
type Filter struct {
	Name    string
	Options []Option
}

// NewFilter creates a filter from its name and options.
func NewFilter(name string, opts ...Option) Filter {
	return Filter{Name: name, Options: opts}
}

func (f Filter) String() string {
	if len(f.Options) == 0 {
		return f.Name
	}

	parts := make([]string, len(f.Options))
	for i, o := range f.Options {
		v := escapeValue(o.Value)
		if o.Key == "" {
			parts[i] = v
			continue
		}
		parts[i] = o.Key + "=" + v
	}

	return f.Name + "=" + strings.Join(parts, ":")
}

// optionEscaper escapes a value for the option parser, which splits on ':'.
var optionEscaper = strings.NewReplacer(`\`, `\\`, "'", `\'`, ":", `\:`)

// escapeValue escapes values that contain anything ffmpeg treats specially.
// ffmpeg unescapes twice: the graph parser strips one level of quoting, then
// the filter's option parser strips backslash escapes. The value is escaped
// for the option level first and then single-quoted for the graph level.
func escapeValue(v string) string {
	if plainValue.MatchString(v) {
		return v
	}

	v = optionEscaper.Replace(v)

	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// Builder assembles a filter graph while tracking which pad labels were
// produced and consumed, and which pad is the current output.
//
// Stream specifiers registered with NewBuilder (e.g. "0:v") are graph
// inputs: they may be consumed any number of times and are never produced.
// Every other label must be produced exactly once and consumed exactly once,
// except the final output pad, which is left for the caller to map.
type Builder struct {
	chains   []string
	inputs   map[string]bool
	produced map[string]int
	consumed map[string]int
	current  string
	err      error
}

// NewBuilder returns a Builder reading from the given input stream specifiers.
func NewBuilder(inputs ...string) *Builder {
	b := &Builder{
		inputs:   make(map[string]bool, len(inputs)),
		produced: make(map[string]int),
		consumed: make(map[string]int),
	}

	for _, in := range inputs {
		if !labelPattern.MatchString(in) {
			b.fail("invalid input label %q", in)
			continue
		}
		b.inputs[in] = true
	}

	return b
}

// Chain appends a linear chain of filters reading the in pads and writing
// the out pads. The last out pad becomes the current output.
func (b *Builder) Chain(in []string, filters []Filter, out []string) *Builder {
	if b.err != nil {
		return b
	}

	if len(filters) == 0 {
		b.fail("chain without filters")
		return b
	}
	if len(out) == 0 {
		b.fail("chain %q has no output pad", filters[0].Name)
		return b
	}

	var sb strings.Builder

	for _, label := range in {
		if !labelPattern.MatchString(label) {
			b.fail("invalid pad label %q", label)
			return b
		}
		if !b.inputs[label] {
			b.consumed[label]++
		}
		sb.WriteString("[" + label + "]")
	}

	for i, f := range filters {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(f.String())
	}

	for _, label := range out {
		if !labelPattern.MatchString(label) {
			b.fail("invalid pad label %q", label)
			return b
		}
		if b.inputs[label] {
			b.fail("pad %q shadows an input stream", label)
			return b
		}
		b.produced[label]++
		sb.WriteString("[" + label + "]")
	}

	b.chains = append(b.chains, sb.String())
	b.current = out[len(out)-1]

	return b
}

// Then appends a single filter that consumes the current output pad and
// produces out, which becomes the new current output.
func (b *Builder) Then(f Filter, out string) *Builder {
	if b.err != nil {
		return b
	}
	if b.current == "" {
		b.fail("no current pad to attach %q to", f.Name)
		return b
	}

	return b.Chain([]string{b.current}, []Filter{f}, []string{out})
}

// Current returns the label of the current output pad.
func (b *Builder) Current() string {
	return b.current
}

// Build checks the pad bookkeeping and returns the finished graph.
func (b *Builder) Build() (Graph, error) {
	if b.err != nil {
		return Graph{}, b.err
	}
	if len(b.chains) == 0 {
		return Graph{}, fmt.Errorf("%w: empty graph", ErrInvalidGraph)
	}

	var problems []string

	for label, n := range b.produced {
		if n != 1 {
			problems = append(problems, fmt.Sprintf("pad %q produced %d times", label, n))
		}

		want := 1
		if label == b.current {
			want = 0
		}
		if got := b.consumed[label]; got != want {
			problems = append(problems, fmt.Sprintf("pad %q consumed %d times, want %d", label, got, want))
		}
	}

	for label := range b.consumed {
		if b.produced[label] == 0 {
			problems = append(problems, fmt.Sprintf("pad %q consumed but never produced", label))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return Graph{}, fmt.Errorf("%w: %s", ErrInvalidGraph, strings.Join(problems, "; "))
	}

	return Graph{text: strings.Join(b.chains, ";"), output: b.current}, nil
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...))
	}
}

// Graph is a finished filter graph and the label of its output pad.
type Graph struct {
	text   string
	output string
}

// Raw wraps an expression built elsewhere. No pad checks are made.
func Raw(text, output string) Graph {
	return Graph{text: text, output: output}
}

func (g Graph) String() string {
	return g.text
}

// Output returns the label of the final output pad, without brackets.
func (g Graph) Output() string {
	return g.output
}

// OutputPad returns the final output pad in the form used by -map, e.g. "[vr]".
func (g Graph) OutputPad() string {
	return "[" + g.output + "]"
}
