package parallax

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRange(t *testing.T) {
	_, err := NewRange([]float64{0, 1}, []float64{0})
	assert.Error(t, err)

	_, err = NewRange([]float64{0}, []float64{0})
	assert.Error(t, err)

	_, err = NewRange([]float64{0, 0.5, 0.5}, []float64{0, 1, 2})
	assert.Error(t, err)

	r, err := NewRange([]float64{0, 1}, []float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, r.In)
}

func TestRangeMap(t *testing.T) {
	r := mustRange([]float64{0, 0.2, 0.8, 1}, []float64{0, 1, 1, 0})

	tests := []struct {
		x, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.1, 0.5},
		{0.2, 1},
		{0.5, 1},
		{0.9, 0.5},
		{1, 0},
		{2, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, r.Map(tt.x), 1e-9, "x=%v", tt.x)
	}
}

func TestProgress(t *testing.T) {
	g := Geometry{ViewportHeight: 800, ElementTop: 1000, ElementHeight: 600}

	g.ScrollY = 200 // top just entering at the bottom of the viewport
	assert.Equal(t, 0.0, Progress(StartEnd, g))
	g.ScrollY = 900
	assert.InDelta(t, 0.5, Progress(StartEnd, g), 1e-9)
	g.ScrollY = 1600
	assert.Equal(t, 1.0, Progress(StartEnd, g))
	g.ScrollY = 5000
	assert.Equal(t, 1.0, Progress(StartEnd, g))

	hero := Geometry{ViewportHeight: 800, ElementTop: 0, ElementHeight: 800, ScrollY: 400}
	assert.InDelta(t, 0.5, Progress(StartStart, hero), 1e-9)
	hero.ScrollY = -20
	assert.Equal(t, 0.0, Progress(StartStart, hero))

	flat := Geometry{ElementTop: 100}
	flat.ScrollY = 50
	assert.Equal(t, 0.0, Progress(StartStart, flat))
	flat.ScrollY = 100
	assert.Equal(t, 1.0, Progress(StartStart, flat))
}

func TestSectionApply(t *testing.T) {
	hero, err := Lookup("hero")
	require.NoError(t, err)

	style := hero.Apply(0.5)
	assert.Equal(t, "25%", style.Values[TranslateY])
	assert.Equal(t, "0.8", style.Values[Opacity])
	assert.Equal(t, "transform: translateY(25%); opacity: 0.8", style.CSS())

	about, err := Lookup("about")
	require.NoError(t, err)
	assert.Equal(t, "100px", about.Apply(0).Values[TranslateY])
	assert.Equal(t, "0", about.Apply(0).Values[Opacity])
	assert.Equal(t, "0px", about.Apply(0.5).Values[TranslateY])
	assert.Equal(t, "-100px", about.Apply(7).Values[TranslateY])

	projects, err := Lookup("projects")
	require.NoError(t, err)
	assert.Equal(t, "transform: rotate(45deg)", projects.Apply(0.25).CSS())

	_, err = Lookup("footer")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestSectionApplyIsPure(t *testing.T) {
	contact, err := Lookup("contact")
	require.NoError(t, err)

	first := contact.Apply(0.3)
	contact.Apply(0.9)
	assert.Equal(t, first, contact.Apply(0.3))
}

func TestSectionsReturnsCopy(t *testing.T) {
	got := Sections()
	require.Len(t, got, 5)
	got[0].ID = "changed"
	got[0].Transforms[0].Range.Out[1] = 999
	got[0].Transforms[1].Property = Rotate
	got[3].Transforms = append(got[3].Transforms[:0], Transform{Property: Opacity})

	fresh := Sections()
	assert.Equal(t, "hero", fresh[0].ID)
	assert.Equal(t, []float64{0, 50}, fresh[0].Transforms[0].Range.Out)
	assert.Equal(t, Opacity, fresh[0].Transforms[1].Property)
	assert.Equal(t, TranslateY, fresh[3].Transforms[0].Property)

	hero, err := Lookup("hero")
	require.NoError(t, err)
	hero.Transforms[0].Range.In[1] = 0.5
	assert.Equal(t, "transform: translateY(50%); opacity: 0.3", mustLookup(t, "hero").Apply(1).CSS())
	assert.Equal(t, []float64{0, 1}, mustLookup(t, "hero").Transforms[0].Range.In)
}

func mustLookup(t *testing.T, id string) Section {
	t.Helper()
	s, err := Lookup(id)
	require.NoError(t, err)
	return s
}

func TestNavScrolled(t *testing.T) {
	assert.False(t, NavScrolled(0))
	assert.False(t, NavScrolled(50))
	assert.True(t, NavScrolled(50.5))
}

func TestSectionStylesMidScroll(t *testing.T) {
	tests := []struct {
		id       string
		progress float64
		want     Style
	}{
		{"hero", 0.5, Style{Values: map[Property]string{TranslateY: "25%", Opacity: "0.8"}}},
		{"hero-backdrop", 0.5, Style{Values: map[Property]string{TranslateY: "15%"}}},
		{"projects", 0.25, Style{Values: map[Property]string{Rotate: "45deg"}}},
		{"about", 0.1, Style{Values: map[Property]string{TranslateY: "80px", Opacity: "0.5"}}},
		{"contact", 0.9, Style{Values: map[Property]string{TranslateY: "-40px", Opacity: "0.5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			sec, err := Lookup(tt.id)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, sec.Apply(tt.progress)); diff != "" {
				t.Errorf("Apply(%v) mismatch (-want +got):\n%s", tt.progress, diff)
			}
		})
	}
}
