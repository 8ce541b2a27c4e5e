// Package testutil builds category directory trees for tests.
package testutil

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/herobanner/pkg/banner"
)

// Fixture describes one solid-color image to create
type Fixture struct {
	Name   string
	Width  int
	Height int
	Color  color.NRGBA
}

// WriteImage saves a solid image at dir/name, encoded by extension
func WriteImage(t *testing.T, dir string, f Fixture) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, f.Name)
	require.NoError(t, imaging.Save(imaging.New(f.Width, f.Height, f.Color), path))
	return path
}

// CategoryTree creates the default category layout under a temp root.
// fixtures maps a category name to the images placed in its directory;
// categories absent from the map get no directory at all.
func CategoryTree(t *testing.T, fixtures map[string][]Fixture) (string, [banner.CategoryCount]banner.Category) {
	t.Helper()
	root := t.TempDir()
	cats := banner.DefaultCategories(root)
	for _, cat := range cats {
		files, ok := fixtures[cat.Name]
		if !ok {
			continue
		}
		require.NoError(t, os.MkdirAll(cat.Dir, 0o755))
		for _, f := range files {
			WriteImage(t, cat.Dir, f)
		}
	}
	return root, cats
}

// Example is the three-category layout used across package tests:
// a.png 200x100, b.jpg 150x100 and c.png 300x150.
func Example() map[string][]Fixture {
	return map[string][]Fixture{
		banner.IsItCake:      {{Name: "a.png", Width: 200, Height: 100, Color: color.NRGBA{R: 255, A: 255}}},
		banner.Sophisticaked: {{Name: "b.jpg", Width: 150, Height: 100, Color: color.NRGBA{G: 255, A: 255}}},
		banner.Themed:        {{Name: "c.png", Width: 300, Height: 150, Color: color.NRGBA{B: 255, A: 255}}},
	}
}
