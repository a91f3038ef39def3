// Package parallax maps a section's scroll progress to CSS transform
// values. Everything here is a pure function of its inputs.
package parallax

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Offset selects which scroll positions count as 0 and 1 for a section.
type Offset string

const (
	// StartStart runs from the element's top at the viewport top to its
	// bottom at the viewport top. Used for the hero.
	StartStart Offset = "start-start"
	// StartEnd runs from the element's top entering at the viewport bottom
	// to its bottom leaving at the viewport top.
	StartEnd Offset = "start-end"
)

// NavScrolledThreshold is the scroll offset in px past which the nav bar
// switches to its compact, opaque style.
const NavScrolledThreshold = 50

var ErrUnknownSection = errors.New("parallax: unknown section")

// Range is a piecewise-linear mapping clamped to its end stops.
type Range struct {
	In  []float64 `json:"in"`
	Out []float64 `json:"out"`
}

func NewRange(in, out []float64) (Range, error) {
	if len(in) != len(out) {
		return Range{}, fmt.Errorf("parallax: %d input stops but %d output stops", len(in), len(out))
	}
	if len(in) < 2 {
		return Range{}, fmt.Errorf("parallax: need at least two stops, got %d", len(in))
	}
	for i := 1; i < len(in); i++ {
		if !(in[i] > in[i-1]) {
			return Range{}, fmt.Errorf("parallax: input stops must be strictly ascending at index %d", i)
		}
	}
	return Range{In: append([]float64(nil), in...), Out: append([]float64(nil), out...)}, nil
}

func mustRange(in, out []float64) Range {
	r, err := NewRange(in, out)
	if err != nil {
		panic(err)
	}
	return r
}

// Map evaluates the range at x.
func (r Range) Map(x float64) float64 {
	n := len(r.In)
	if n == 0 {
		return 0
	}
	if math.IsNaN(x) || x <= r.In[0] {
		return r.Out[0]
	}
	if x >= r.In[n-1] {
		return r.Out[n-1]
	}
	// First stop at or above x.
	i := sort.SearchFloat64s(r.In, x)
	if r.In[i] == x {
		return r.Out[i]
	}
	lo, hi := r.In[i-1], r.In[i]
	t := (x - lo) / (hi - lo)
	return r.Out[i-1] + t*(r.Out[i]-r.Out[i-1])
}

// Property is the CSS property a transform drives.
type Property string

const (
	TranslateY Property = "translateY"
	Rotate     Property = "rotate"
	Opacity    Property = "opacity"
)

type Transform struct {
	Property Property `json:"property"`
	Unit     string   `json:"unit"`
	Range    Range    `json:"range"`
}

type Section struct {
	ID         string      `json:"id"`
	Offset     Offset      `json:"offset"`
	Transforms []Transform `json:"transforms"`
}

// Geometry is a snapshot of the page at one scroll position, in px.
type Geometry struct {
	ScrollY        float64
	ViewportHeight float64
	ElementTop     float64
	ElementHeight  float64
}

// Progress returns the section's scroll fraction in [0, 1].
func Progress(offset Offset, g Geometry) float64 {
	var start, end float64
	switch offset {
	case StartStart:
		start, end = g.ElementTop, g.ElementTop+g.ElementHeight
	default:
		start, end = g.ElementTop-g.ViewportHeight, g.ElementTop+g.ElementHeight
	}
	if end <= start {
		if g.ScrollY < start {
			return 0
		}
		return 1
	}
	return clamp01((g.ScrollY - start) / (end - start))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// NavScrolled reports whether the nav bar should use its scrolled style.
func NavScrolled(scrollY float64) bool {
	return scrollY > NavScrolledThreshold
}

// Style is an evaluated set of transforms.
type Style struct {
	Values map[Property]string `json:"values"`
}

// CSS renders the style as an inline style attribute value.
func (s Style) CSS() string {
	var transforms []string
	for _, p := range []Property{TranslateY, Rotate} {
		if v, ok := s.Values[p]; ok {
			transforms = append(transforms, fmt.Sprintf("%s(%s)", p, v))
		}
	}
	var parts []string
	if len(transforms) > 0 {
		parts = append(parts, "transform: "+strings.Join(transforms, " "))
	}
	if v, ok := s.Values[Opacity]; ok {
		parts = append(parts, "opacity: "+v)
	}
	return strings.Join(parts, "; ")
}

// Apply evaluates every transform of the section at progress, which is
// clamped to [0, 1].
func (s Section) Apply(progress float64) Style {
	progress = clamp01(progress)
	style := Style{Values: make(map[Property]string, len(s.Transforms))}
	for _, tr := range s.Transforms {
		style.Values[tr.Property] = formatValue(tr.Range.Map(progress), tr.Unit)
	}
	return style
}

func formatValue(v float64, unit string) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}
