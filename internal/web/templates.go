package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Zachkp/cutroom/internal/parallax"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	// css marks a generated parallax style as safe for a style attribute.
	"css": func(s parallax.Style) template.CSS {
		return template.CSS(s.CSS())
	},
	"upper": strings.ToUpper,
	"add":   func(a, b int) int { return a + b },
	"delay": func(i int, step float64) string {
		return fmt.Sprintf("%.2fs", float64(i)*step)
	},
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// initialStyles evaluates every parallax section at the top of its scroll
// range, so the first paint matches what the script will animate from.
func initialStyles() map[string]parallax.Style {
	sections := parallax.Sections()
	out := make(map[string]parallax.Style, len(sections))
	for _, sec := range sections {
		out[sec.ID] = sec.Apply(0)
	}
	return out
}
