package banner

import (
	"fmt"
	"path/filepath"
)

// Defaults used when no configuration overrides them
const (
	DefaultTargetHeight = 400
	DefaultQuality      = 95
	DefaultOutput       = "images/hero-background.jpg"
)

// Uniform overlay opacities applied in blend mode, second then third image
const (
	SecondOverlayOpacity = 0.5
	ThirdOverlayOpacity  = 0.4
)

// Mode selects how the three category images are combined
type Mode string

const (
	ModeSideBySide Mode = "side-by-side"
	ModeBlend      Mode = "blend"
)

// ParseMode validates a mode name from flags, config or query parameters
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSideBySide, ModeBlend:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeSideBySide, ModeBlend)
	}
}

// Category binds one of the fixed category names to its source directory
type Category struct {
	Name string
	Dir  string
}

// Category names, in composition order
const (
	IsItCake      = "is_it_cake"
	Sophisticaked = "sophisticaked"
	Themed        = "themed"
)

// CategoryCount is the number of images every composite needs
const CategoryCount = 3

// DefaultCategories returns the three fixed categories rooted at root.
// The returned array is a value; callers cannot mutate a shared mapping.
func DefaultCategories(root string) [CategoryCount]Category {
	base := filepath.Join(root, "images", "cakes")
	return [CategoryCount]Category{
		{Name: IsItCake, Dir: filepath.Join(base, IsItCake)},
		{Name: Sophisticaked, Dir: filepath.Join(base, Sophisticaked)},
		{Name: Themed, Dir: filepath.Join(base, Themed)},
	}
}
