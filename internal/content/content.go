// Package content holds the copy and catalog shown on the site: projects,
// career timeline, skills and the preloader captions. It is loaded from
// TOML, with a built-in default compiled into the binary.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed site.toml
var defaultSite []byte

var ErrUnknownFilter = errors.New("content: unknown project filter")

// AllFilter is the filter id that matches every project.
const AllFilter = "all"

type Site struct {
	Owner     Owner       `toml:"owner"`
	Hero      Hero        `toml:"hero"`
	About     About       `toml:"about"`
	Nav       []NavItem   `toml:"nav"`
	Filters   []Filter    `toml:"filters"`
	Projects  []Project   `toml:"projects"`
	Timeline  []Milestone `toml:"timeline"`
	Skills    []Skill     `toml:"skills"`
	Terms     []Term      `toml:"terms"`
	Contact   Contact     `toml:"contact"`
	Preloader Preloader   `toml:"preloader"`
}

type Owner struct {
	Name     string `toml:"name"`
	NameJP   string `toml:"name_jp"`
	Initials string `toml:"initials"`
	Role     string `toml:"role"`
	RoleJP   string `toml:"role_jp"`
	Title    string `toml:"title"`
	Summary  string `toml:"summary"`
	Keywords string `toml:"keywords"`
}

type Hero struct {
	Tagline   string `toml:"tagline"`
	TaglineJP string `toml:"tagline_jp"`
	CTA       string `toml:"cta"`
	CTAJP     string `toml:"cta_jp"`
}

type About struct {
	Heading   string        `toml:"heading"`
	HeadingJP string        `toml:"heading_jp"`
	Body      string        `toml:"body"`
	BodyHTML  template.HTML `toml:"-"`
	Stats     []Stat        `toml:"stats"`
}

type Stat struct {
	Value string `toml:"value"`
	Label string `toml:"label"`
	JP    string `toml:"jp"`
}

type NavItem struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	JP    string `toml:"jp"`
}

type Filter struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	JP    string `toml:"jp"`
}

type Project struct {
	ID              int           `toml:"id"`
	Title           string        `toml:"title"`
	TitleJP         string        `toml:"title_jp"`
	Category        string        `toml:"category"`
	CategoryJP      string        `toml:"category_jp"`
	Year            string        `toml:"year"`
	Description     string        `toml:"description"`
	DescriptionHTML template.HTML `toml:"-"`
	Thumbnail       string        `toml:"thumbnail"`
	Accent          string        `toml:"accent"`
	Tags            []string      `toml:"tags"`
}

// HasTag reports whether the project is listed under a filter id.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Milestone struct {
	Year  string `toml:"year"`
	Event string `toml:"event"`
}

type Skill struct {
	Name  string `toml:"name"`
	JP    string `toml:"jp"`
	Level int    `toml:"level"`
}

type Term struct {
	Term        string `toml:"term"`
	EN          string `toml:"en"`
	Description string `toml:"description"`
}

type Contact struct {
	Heading string   `toml:"heading"`
	Intro   string   `toml:"intro"`
	Details []Detail `toml:"details"`
}

type Detail struct {
	Label string `toml:"label"`
	JP    string `toml:"jp"`
	Value string `toml:"value"`
	Href  string `toml:"href"`
}

type Preloader struct {
	Glyphs  []Glyph  `toml:"glyphs"`
	Steps   []string `toml:"steps"`
	Title   string   `toml:"title"`
	TitleEN string   `toml:"title_en"`
	Done    string   `toml:"done"`
	DoneEN  string   `toml:"done_en"`
}

type Glyph struct {
	Kanji   string `toml:"kanji" json:"kanji"`
	Romaji  string `toml:"romaji" json:"romaji"`
	Meaning string `toml:"meaning" json:"meaning"`
}

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))
	})
	return markdown
}

// RenderMarkdown converts trusted site copy to HTML. Raw HTML in the
// source is dropped by goldmark's default renderer.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownRenderer().Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Default returns the built-in site content.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// LoadFile reads site content from a TOML file on disk.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return site, nil
}

// LoadFS reads site content from name within fsys.
func LoadFS(fsys fs.FS, name string) (*Site, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", name, err)
	}
	return Parse(data)
}

// Parse decodes, validates and pre-renders site content.
func Parse(data []byte) (*Site, error) {
	var site Site
	meta, err := toml.Decode(string(data), &site)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode content: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if err := site.render(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) render() error {
	var err error
	if s.About.BodyHTML, err = RenderMarkdown(s.About.Body); err != nil {
		return fmt.Errorf("render about: %w", err)
	}
	for i := range s.Projects {
		p := &s.Projects[i]
		if p.DescriptionHTML, err = RenderMarkdown(p.Description); err != nil {
			return fmt.Errorf("render project %d: %w", p.ID, err)
		}
	}
	return nil
}

// Validate checks cross references and ranges.
func (s *Site) Validate() error {
	var errs []error
	if s.Owner.Name == "" {
		errs = append(errs, errors.New("owner.name is required"))
	}

	filters := map[string]bool{}
	for _, f := range s.Filters {
		if f.ID == "" {
			errs = append(errs, errors.New("filter with empty id"))
			continue
		}
		if filters[f.ID] {
			errs = append(errs, fmt.Errorf("duplicate filter %q", f.ID))
		}
		filters[f.ID] = true
	}
	if !filters[AllFilter] {
		errs = append(errs, fmt.Errorf("filters must include %q", AllFilter))
	}

	ids := map[int]bool{}
	for _, p := range s.Projects {
		if ids[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate project id %d", p.ID))
		}
		ids[p.ID] = true
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("project %d has no title", p.ID))
		}
		for _, tag := range p.Tags {
			if !filters[tag] || tag == AllFilter {
				errs = append(errs, fmt.Errorf("project %d: tag %q is not a filter", p.ID, tag))
			}
		}
	}

	navIDs := map[string]bool{}
	for _, n := range s.Nav {
		if navIDs[n.ID] {
			errs = append(errs, fmt.Errorf("duplicate nav item %q", n.ID))
		}
		navIDs[n.ID] = true
	}

	for _, sk := range s.Skills {
		if sk.Level < 0 || sk.Level > 100 {
			errs = append(errs, fmt.Errorf("skill %q level %d out of range 0-100", sk.Name, sk.Level))
		}
	}

	if len(s.Preloader.Glyphs) == 0 {
		errs = append(errs, errors.New("preloader needs at least one glyph"))
	}
	if len(s.Preloader.Steps) == 0 {
		errs = append(errs, errors.New("preloader needs at least one step"))
	}
	return errors.Join(errs...)
}

// FilterProjects returns the projects listed under a filter id, in
// catalog order. The "all" filter (or an empty id) returns every project.
func (s *Site) FilterProjects(id string) ([]Project, error) {
	if id == "" || id == AllFilter {
		return s.Projects, nil
	}
	if !s.HasFilter(id) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	var out []Project
	for _, p := range s.Projects {
		if p.HasTag(id) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Site) HasFilter(id string) bool {
	for _, f := range s.Filters {
		if f.ID == id {
			return true
		}
	}
	return false
}

// NavItem returns the nav entry with the given id.
func (s *Site) NavItem(id string) (NavItem, bool) {
	for _, n := range s.Nav {
		if n.ID == id {
			return n, true
		}
	}
	return NavItem{}, false
}
