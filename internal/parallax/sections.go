package parallax

var (
	fadeInOut = mustRange([]float64{0, 0.2, 0.8, 1}, []float64{0, 1, 1, 0})

	sections = []Section{
		{
			ID:     "hero",
			Offset: StartStart,
			Transforms: []Transform{
				{Property: TranslateY, Unit: "%", Range: mustRange([]float64{0, 1}, []float64{0, 50})},
				{Property: Opacity, Range: mustRange([]float64{0, 0.5, 1}, []float64{1, 0.8, 0.3})},
			},
		},
		{
			ID:     "hero-backdrop",
			Offset: StartStart,
			Transforms: []Transform{
				{Property: TranslateY, Unit: "%", Range: mustRange([]float64{0, 1}, []float64{0, 30})},
			},
		},
		{
			ID:     "projects",
			Offset: StartEnd,
			Transforms: []Transform{
				{Property: Rotate, Unit: "deg", Range: mustRange([]float64{0, 1}, []float64{0, 180})},
			},
		},
		{
			ID:     "about",
			Offset: StartEnd,
			Transforms: []Transform{
				{Property: TranslateY, Unit: "px", Range: mustRange([]float64{0, 1}, []float64{100, -100})},
				{Property: Opacity, Range: fadeInOut},
			},
		},
		{
			ID:     "contact",
			Offset: StartEnd,
			Transforms: []Transform{
				{Property: TranslateY, Unit: "px", Range: mustRange([]float64{0, 1}, []float64{50, -50})},
				{Property: Opacity, Range: fadeInOut},
			},
		},
	}
)

// Sections returns the built-in section table in page order.
func Sections() []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s.clone()
	}
	return out
}

// Lookup finds a section by id.
func Lookup(id string) (Section, error) {
	for _, s := range sections {
		if s.ID == id {
			return s.clone(), nil
		}
	}
	return Section{}, ErrUnknownSection
}

func (s Section) clone() Section {
	trs := make([]Transform, len(s.Transforms))
	for i, tr := range s.Transforms {
		tr.Range = Range{
			In:  append([]float64(nil), tr.Range.In...),
			Out: append([]float64(nil), tr.Range.Out...),
		}
		trs[i] = tr
	}
	s.Transforms = trs
	return s
}
