package banner

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path into an opaque NRGBA buffer.
// Alpha is discarded, stored color values are kept as they are.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return Opaque(img), nil
}

// Opaque copies img into an NRGBA buffer with every pixel made opaque.
// Sources that store straight (non-premultiplied) color keep their RGB
// values even where alpha is zero.
func Opaque(img image.Image) *image.NRGBA {
	switch img.(type) {
	case *image.Paletted, *image.NRGBA64:
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, straight(img.At(x, y)))
			}
		}
		return flatten(dst)
	default:
		return flatten(imaging.Clone(img))
	}
}

// straight returns c without premultiplication where c already stores it that way
func straight(c color.Color) color.NRGBA {
	switch c := c.(type) {
	case color.NRGBA:
		return c
	case color.NRGBA64:
		return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8)}
	default:
		return color.NRGBAModel.Convert(c).(color.NRGBA)
	}
}

// ScaledWidth returns round(width * target / height), never less than one pixel
func ScaledWidth(width, height, target int) int {
	w := int(math.Round(float64(width) * float64(target) / float64(height)))
	if w < 1 {
		w = 1
	}
	return w
}

// ResizeToHeight scales img to the target height preserving its aspect ratio
func ResizeToHeight(img image.Image, target int) *image.NRGBA {
	b := img.Bounds()
	w := ScaledWidth(b.Dx(), b.Dy(), target)
	return imaging.Resize(img, w, target, imaging.Lanczos)
}

// LoadResized is Load followed by ResizeToHeight
func LoadResized(path string, target int) (*image.NRGBA, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ResizeToHeight(img, target), nil
}

// Composite combines exactly three equal-height images using mode
func Composite(mode Mode, imgs []*image.NRGBA, height int) (*image.NRGBA, error) {
	if len(imgs) != CategoryCount {
		return nil, ErrImageCount
	}
	for _, img := range imgs {
		if img.Bounds().Dy() != height {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrHeightMismatch, img.Bounds().Dy(), height)
		}
	}

	switch mode {
	case ModeSideBySide:
		return SideBySide(imgs, height), nil
	case ModeBlend:
		return Blend(imgs, height), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// SideBySide concatenates images left to right with no gaps
func SideBySide(imgs []*image.NRGBA, height int) *image.NRGBA {
	total := 0
	for _, img := range imgs {
		total += img.Bounds().Dx()
	}

	canvas := imaging.New(total, height, color.NRGBA{A: 0xff})
	x := 0
	for _, img := range imgs {
		canvas = imaging.Paste(canvas, img, image.Pt(x, 0))
		x += img.Bounds().Dx()
	}
	return canvas
}

// Blend center-crops every image to the narrowest width, then overlays the
// second image at SecondOverlayOpacity and the third at ThirdOverlayOpacity
// on top of the first.
func Blend(imgs []*image.NRGBA, height int) *image.NRGBA {
	common := imgs[0].Bounds().Dx()
	for _, img := range imgs[1:] {
		if w := img.Bounds().Dx(); w < common {
			common = w
		}
	}

	cropped := make([]*image.NRGBA, len(imgs))
	for i, img := range imgs {
		cropped[i] = CenterCrop(img, common, height)
	}

	base := imaging.Clone(cropped[0])
	base = imaging.Overlay(base, cropped[1], image.Pt(0, 0), SecondOverlayOpacity)
	base = imaging.Overlay(base, cropped[2], image.Pt(0, 0), ThirdOverlayOpacity)
	return flatten(base)
}

// CenterCrop returns a full-height window of width w centered horizontally
// in img. Images already w wide are returned unchanged.
func CenterCrop(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w {
		return img
	}
	left := b.Min.X + (b.Dx()-w)/2
	return imaging.Crop(img, image.Rect(left, b.Min.Y, left+w, b.Min.Y+h))
}

// flatten forces every pixel opaque
func flatten(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// EncodeJPEG writes img to w as JPEG at quality (1-100)
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// WriteJPEG encodes img and writes it to path, creating parent directories.
// Nothing is written when encoding fails. An existing file is replaced.
func WriteJPEG(path string, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, quality); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
