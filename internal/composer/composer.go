package composer

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/kiesman99/herobanner/pkg/banner"
)

// Options contains all composition parameters
type Options struct {
	Categories   [banner.CategoryCount]banner.Category
	Indexes      [banner.CategoryCount]int
	Mode         banner.Mode
	TargetHeight int
}

// Selection records the outcome of picking one category's image
type Selection struct {
	Category banner.Category
	Index    int
	Path     string // empty when the category has no images
}

// Found reports whether an image was selected for the category
func (s Selection) Found() bool {
	return s.Path != ""
}

// Result contains the composition result
type Result struct {
	Image      *image.NRGBA
	Selections []Selection
	Width      int
	Height     int
}

// MissingError is returned when one or more categories yield no image
type MissingError struct {
	Missing    []banner.Category
	Selections []Selection
}

func (e *MissingError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.Name
	}
	return fmt.Sprintf("need one image from each folder, none found for: %s", strings.Join(names, ", "))
}

// Composer runs the select, load and composite pipeline
type Composer struct{}

// New creates a new composer instance
func New() *Composer {
	return &Composer{}
}

// Select resolves one image path per category. Categories without images are
// recorded with an empty path; index errors and read errors abort immediately
// and return the selections resolved before the failing category.
func (c *Composer) Select(opts *Options) ([]Selection, error) {
	selections := make([]Selection, 0, banner.CategoryCount)
	for i, cat := range opts.Categories {
		path, ok, err := banner.Pick(cat.Dir, opts.Indexes[i])
		if err != nil {
			return selections, fmt.Errorf("select %s: %w", cat.Name, err)
		}
		sel := Selection{Category: cat, Index: opts.Indexes[i]}
		if ok {
			sel.Path = path
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

// Compose selects, loads and combines the three category images
func (c *Composer) Compose(ctx context.Context, opts *Options) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	selections, err := c.Select(opts)
	if err != nil {
		return nil, err
	}
	if err := CheckMissing(selections); err != nil {
		return nil, err
	}

	return c.Render(ctx, opts, selections)
}

// CheckMissing returns a *MissingError when any selection found no image
func CheckMissing(selections []Selection) error {
	var missing []banner.Category
	for _, sel := range selections {
		if !sel.Found() {
			missing = append(missing, sel.Category)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Missing: missing, Selections: selections}
	}
	return nil
}

// Render loads the selected images, scales them to the target height and
// combines them. Every selection must have been found.
func (c *Composer) Render(ctx context.Context, opts *Options, selections []Selection) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if err := CheckMissing(selections); err != nil {
		return nil, err
	}

	imgs := make([]*image.NRGBA, 0, len(selections))
	for _, sel := range selections {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := banner.LoadResized(sel.Path, opts.TargetHeight)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}

	combined, err := banner.Composite(opts.Mode, imgs, opts.TargetHeight)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	return &Result{
		Image:      combined,
		Selections: selections,
		Width:      combined.Bounds().Dx(),
		Height:     combined.Bounds().Dy(),
	}, nil
}

func validate(opts *Options) error {
	if opts.TargetHeight <= 0 {
		return fmt.Errorf("target height must be positive, got %d", opts.TargetHeight)
	}
	_, err := banner.ParseMode(string(opts.Mode))
	return err
}
