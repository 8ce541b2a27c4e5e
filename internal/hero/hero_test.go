package hero

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/herobanner/internal/composer"
	"github.com/kiesman99/herobanner/internal/testutil"
	"github.com/kiesman99/herobanner/pkg/banner"
)

func runOptions(root string, cats [banner.CategoryCount]banner.Category, mode banner.Mode) *Options {
	return &Options{
		Compose: composer.Options{
			Categories:   cats,
			Mode:         mode,
			TargetHeight: 100,
		},
		Output:  filepath.Join(root, banner.DefaultOutput),
		Quality: banner.DefaultQuality,
	}
}

func TestRunWritesOutput(t *testing.T) {
	root, cats := testutil.CategoryTree(t, testutil.Example())
	var out bytes.Buffer

	opts := runOptions(root, cats, banner.ModeSideBySide)
	require.NoError(t, NewRunner(&out).Run(context.Background(), opts))

	img, err := imaging.Open(opts.Output)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 550, 100), img.Bounds())

	log := out.String()
	require.Contains(t, log, "Picked for is_it_cake: "+filepath.Join(cats[0].Dir, "a.png"))
	require.Contains(t, log, "Picked for sophisticaked: "+filepath.Join(cats[1].Dir, "b.jpg"))
	require.Contains(t, log, "Picked for themed: "+filepath.Join(cats[2].Dir, "c.png"))
	require.Contains(t, log, "Saved combined image: "+opts.Output+" (550x100)")
}

func TestRunBlend(t *testing.T) {
	root, cats := testutil.CategoryTree(t, testutil.Example())
	var out bytes.Buffer

	opts := runOptions(root, cats, banner.ModeBlend)
	require.NoError(t, NewRunner(&out).Run(context.Background(), opts))
	require.Contains(t, out.String(), "(150x100)")
}

func TestRunAbortsOnMissingCategory(t *testing.T) {
	fixtures := testutil.Example()
	fixtures[banner.Themed] = nil
	root, cats := testutil.CategoryTree(t, fixtures)
	var out bytes.Buffer

	opts := runOptions(root, cats, banner.ModeSideBySide)
	err := NewRunner(&out).Run(context.Background(), opts)
	require.True(t, errors.Is(err, ErrAborted))

	log := out.String()
	require.Contains(t, log, "No images found in "+cats[2].Dir+" — skipping.")
	require.True(t, strings.HasSuffix(log, "Need one image from each folder. Aborting.\n"))

	_, statErr := os.Stat(opts.Output)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunDoesNotWriteOnDecodeFailure(t *testing.T) {
	root, cats := testutil.CategoryTree(t, testutil.Example())
	require.NoError(t, os.WriteFile(filepath.Join(cats[2].Dir, "c.png"), []byte("nope"), 0o644))
	var out bytes.Buffer

	opts := runOptions(root, cats, banner.ModeSideBySide)
	err := NewRunner(&out).Run(context.Background(), opts)
	var decodeErr *banner.DecodeError
	require.True(t, errors.As(err, &decodeErr))

	// selections are reported before anything is decoded
	log := out.String()
	require.Contains(t, log, "Picked for is_it_cake: "+filepath.Join(cats[0].Dir, "a.png"))
	require.Contains(t, log, "Picked for sophisticaked: "+filepath.Join(cats[1].Dir, "b.jpg"))
	require.Contains(t, log, "Picked for themed: "+filepath.Join(cats[2].Dir, "c.png"))
	require.NotContains(t, log, "Saved combined image")

	_, statErr := os.Stat(opts.Output)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunReportsSelectionsBeforeIndexError(t *testing.T) {
	fixtures := testutil.Example()
	delete(fixtures, banner.IsItCake)
	root, cats := testutil.CategoryTree(t, fixtures)
	var out bytes.Buffer

	opts := runOptions(root, cats, banner.ModeSideBySide)
	opts.Compose.Indexes = [banner.CategoryCount]int{0, 5, 0}
	err := NewRunner(&out).Run(context.Background(), opts)

	var indexErr *banner.IndexError
	require.True(t, errors.As(err, &indexErr))
	require.Equal(t, "No images found in "+cats[0].Dir+" — skipping.\n", out.String())

	_, statErr := os.Stat(opts.Output)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunRejectsBadQuality(t *testing.T) {
	root, cats := testutil.CategoryTree(t, testutil.Example())
	opts := runOptions(root, cats, banner.ModeSideBySide)
	opts.Quality = 0
	require.Error(t, NewRunner(&bytes.Buffer{}).Run(context.Background(), opts))
}

func TestList(t *testing.T) {
	fixtures := testutil.Example()
	delete(fixtures, banner.Themed)
	_, cats := testutil.CategoryTree(t, fixtures)
	var out bytes.Buffer

	require.NoError(t, NewRunner(&out).List(cats))

	log := out.String()
	require.Contains(t, log, "is_it_cake ("+cats[0].Dir+"):")
	require.Contains(t, log, "  [0] "+filepath.Join(cats[0].Dir, "a.png"))
	require.Contains(t, log, "themed ("+cats[2].Dir+"):\n  (no images)")
}
