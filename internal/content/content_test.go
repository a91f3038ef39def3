package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefault(t *testing.T) {
	site, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Srujan Racherla", site.Owner.Name)
	assert.Len(t, site.Projects, 9)
	assert.Len(t, site.Preloader.Glyphs, 3)
	assert.Len(t, site.Preloader.Steps, 4)
	assert.Equal(t, []string{"home", "projects", "about", "contact"}, navIDs(site))

	assert.Contains(t, string(site.About.BodyHTML), "<strong>rhythm first</strong>")
	assert.True(t, strings.HasPrefix(string(site.Projects[0].DescriptionHTML), "<p>"))
}

func navIDs(site *Site) []string {
	ids := make([]string, len(site.Nav))
	for i, n := range site.Nav {
		ids[i] = n.ID
	}
	return ids
}

func projectIDs(ps []Project) []int {
	ids := make([]int, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestFilterProjects(t *testing.T) {
	site, err := Default()
	require.NoError(t, err)

	tests := []struct {
		filter string
		want   []int
	}{
		{"", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"all", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"film", []int{1, 6, 7, 8}},
		{"commercial", []int{4}},
		{"documentary", []int{3, 5, 9}},
		{"music", []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := site.FilterProjects(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, projectIDs(got))
		})
	}

	_, err = site.FilterProjects("wedding")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestParseRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "[owner]\nname = \"x\"\nnickname = \"y\"\n", "unknown keys owner.nickname"},
		{"missing all filter", "[owner]\nname = \"x\"\n", `filters must include "all"`},
		{"bad tag", `
[owner]
name = "x"
[[filters]]
id = "all"
[[projects]]
id = 1
title = "t"
tags = ["nope"]
`, `tag "nope" is not a filter`},
		{"skill range", `
[owner]
name = "x"
[[filters]]
id = "all"
[[skills]]
name = "Editing"
level = 120
`, "out of range"},
		{"syntax", "[owner\n", "decode content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"site.toml": &fstest.MapFile{Data: defaultSite}}
	site, err := LoadFS(fsys, "site.toml")
	require.NoError(t, err)
	assert.Len(t, site.Projects, 9)

	_, err = LoadFS(fsys, "missing.toml")
	assert.Error(t, err)
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	out, err := RenderMarkdown("hi <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestStoreOpen(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, "SR", s.Load().Owner.Initials)

	_, err = Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.toml")
	require.NoError(t, os.WriteFile(path, defaultSite, 0o644))

	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, store, zap.NewNop()) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	broken := []byte("[owner\n")
	require.NoError(t, os.WriteFile(path, broken, 0o644))
	time.Sleep(3 * watchDebounce)
	assert.Equal(t, "Srujan Racherla", store.Load().Owner.Name, "bad file keeps previous content")

	updated := strings.Replace(string(defaultSite), `name = "Srujan Racherla"`, `name = "Srujan R."`, 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		return store.Load().Owner.Name == "Srujan R."
	}, 2*time.Second, 20*time.Millisecond)
}
