package hero

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kiesman99/herobanner/internal/composer"
	"github.com/kiesman99/herobanner/pkg/banner"
)

// ErrAborted is returned when a category has no image and nothing was written
var ErrAborted = errors.New("need one image from each folder")

// Options contains everything one CLI run needs
type Options struct {
	Compose composer.Options
	Output  string
	Quality int
}

// Runner handles the command-line composition flow
type Runner struct {
	composer *composer.Composer
	out      io.Writer
}

// NewRunner creates a runner printing its progress to out
func NewRunner(out io.Writer) *Runner {
	return &Runner{
		composer: composer.New(),
		out:      out,
	}
}

// Run picks one image per category, composites them and writes the output file
func (r *Runner) Run(ctx context.Context, opts *Options) error {
	if opts.Output == "" {
		return fmt.Errorf("no output path configured")
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", opts.Quality)
	}

	selections, err := r.composer.Select(&opts.Compose)
	r.report(selections)
	if err != nil {
		return err
	}

	if err := composer.CheckMissing(selections); err != nil {
		fmt.Fprintln(r.out, "Need one image from each folder. Aborting.")
		return ErrAborted
	}

	result, err := r.composer.Render(ctx, &opts.Compose, selections)
	if err != nil {
		return err
	}

	if err := banner.WriteJPEG(opts.Output, result.Image, opts.Quality); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Saved combined image: %s (%dx%d)\n", opts.Output, result.Width, result.Height)
	return nil
}

func (r *Runner) report(selections []composer.Selection) {
	for _, sel := range selections {
		if sel.Found() {
			fmt.Fprintf(r.out, "Picked for %s: %s\n", sel.Category.Name, sel.Path)
		} else {
			fmt.Fprintf(r.out, "No images found in %s — skipping.\n", sel.Category.Dir)
		}
	}
}

// List prints every category's candidates with the index that selects them
func (r *Runner) List(categories [banner.CategoryCount]banner.Category) error {
	for _, cat := range categories {
		paths, err := banner.Candidates(cat.Dir)
		if err != nil {
			return fmt.Errorf("list %s: %w", cat.Name, err)
		}
		fmt.Fprintf(r.out, "%s (%s):\n", cat.Name, cat.Dir)
		if len(paths) == 0 {
			fmt.Fprintln(r.out, "  (no images)")
			continue
		}
		for i, p := range paths {
			fmt.Fprintf(r.out, "  [%d] %s\n", i, p)
		}
	}
	return nil
}
