package banner

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// writeImage saves a solid w x h image at dir/name in the format its extension names
func writeImage(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
	return path
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}
