package cmd

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/herobanner/internal/testutil"
)

// execute runs a fresh command tree so flag state never leaks between calls
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "herobanner.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))
	return cfg
}

func heroPath(root string) string {
	return filepath.Join(root, "images", "hero-background.jpg")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "mode: blend\nheight: 100\n")

	out, err := execute(t, "--config", cfg, "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "Saved combined image: "+heroPath(root)+" (150x100)")

	img, err := imaging.Open(heroPath(root))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 150, 100), img.Bounds())
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "mode: blend\nheight: 100\nindexes: [0, 1, 0]\n")

	out, err := execute(t, "--config", cfg, "--root", root, "--mode", "side-by-side", "--indexes", "0,0,0")
	require.NoError(t, err)
	require.Contains(t, out, "(550x100)")
}

func TestRootCommand_RepeatedRunsDoNotAccumulateIndexes(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "height: 100\n")

	for i := 0; i < 3; i++ {
		_, err := execute(t, "--config", cfg, "--root", root, "--indexes", "0,0,0")
		require.NoError(t, err, "run %d", i)
	}
}

func TestRootCommand_IndexesFromEnvironment(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "height: 100\n")

	for _, value := range []string{"0,0,0", "0 0 0", " 0, 0, 0 "} {
		t.Setenv("HEROBANNER_INDEXES", value)
		out, err := execute(t, "--config", cfg, "--root", root)
		require.NoError(t, err, "HEROBANNER_INDEXES=%q", value)
		require.Contains(t, out, "(550x100)")
	}

	t.Setenv("HEROBANNER_INDEXES", "0,0,5")
	_, err := execute(t, "--config", cfg, "--root", root)
	require.ErrorContains(t, err, "index 5 out of range")

	t.Setenv("HEROBANNER_INDEXES", "0,zero,0")
	_, err = execute(t, "--config", cfg, "--root", root)
	require.ErrorContains(t, err, `invalid index "zero"`)
}

func TestRootCommand_IndexesFromConfig(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "height: 100\nindexes: [0, 0, 1]\n")

	_, err := execute(t, "--config", cfg, "--root", root)
	require.ErrorContains(t, err, "index 1 out of range")
}

func TestRootCommand_List(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "")

	out, err := execute(t, "list", "--config", cfg, "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "[0] "+filepath.Join(root, "images", "cakes", "themed", "c.png"))
}

func TestRootCommand_WrongNumberOfIndexes(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "")

	_, err := execute(t, "--config", cfg, "--root", root, "--indexes", "1,2")
	require.ErrorContains(t, err, "exactly 3 values, got 2")
}

func TestRootCommand_UnknownMode(t *testing.T) {
	root, _ := testutil.CategoryTree(t, testutil.Example())
	cfg := writeConfig(t, "")

	_, err := execute(t, "--config", cfg, "--root", root, "--mode", "grid")
	require.ErrorContains(t, err, "unknown mode")
}

func TestRootCommand_MissingCategoryAborts(t *testing.T) {
	empty := t.TempDir()
	cfg := writeConfig(t, "")

	out, err := execute(t, "--config", cfg, "--root", empty)
	require.Error(t, err)
	require.Contains(t, out, "No images found in "+filepath.Join(empty, "images", "cakes", "is_it_cake")+" — skipping.")
	require.Contains(t, out, "Need one image from each folder. Aborting.")

	_, statErr := os.Stat(heroPath(empty))
	require.True(t, os.IsNotExist(statErr))
}

func TestParseIndexes(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want []int
	}{
		{[]int{1, 0, 2}, []int{1, 0, 2}},
		{[]interface{}{1, 0, 2}, []int{1, 0, 2}},
		{"1,0,2", []int{1, 0, 2}},
		{"1 0 2", []int{1, 0, 2}},
		{"", []int{}},
	}
	for _, tt := range tests {
		got, err := parseIndexes(tt.raw)
		require.NoError(t, err, "%#v", tt.raw)
		require.Equal(t, tt.want, got, "%#v", tt.raw)
	}

	_, err := parseIndexes("1,x,2")
	require.Error(t, err)
}
