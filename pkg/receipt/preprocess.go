package receipt

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

const minHeight = 900

// prepare converts a photo into a high-contrast grayscale image sized for OCR.
func prepare(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < minHeight {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	return binarize(gray, 210)
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// preprocessToTemp writes the prepared image to a temporary PNG and returns its path.
func preprocessToTemp(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", err
	}
	name := f.Name()
	_ = f.Close()
	if err := imaging.Save(prepare(img), name); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
