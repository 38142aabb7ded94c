package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	// Scanners commonly emit TIFF, BMP and WebP page images
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterSize returns the pixel dimensions of an encoded page image without
// decoding the pixel data.
func RasterSize(data []byte) (image.Point, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Point{}, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Point{}, fmt.Errorf("%s image has no pixels", format)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// PrepareRaster decodes a page image in any registered format (PNG, JPEG,
// GIF, TIFF, BMP, WebP), resamples it by factor and re-encodes it as PNG,
// which Tesseract reads reliably. Upscaling low resolution scans before
// recognition improves accuracy; boxes returned by Recognize on the result
// must be divided by factor to map back to the original raster.
//
// The returned point is the size of the prepared image.
func PrepareRaster(data []byte, factor float64) ([]byte, image.Point, error) {
	if factor <= 0 {
		return nil, image.Point{}, fmt.Errorf("invalid scale factor %v", factor)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decoding image: %w", err)
	}

	var out image.Image = src
	if factor != 1 {
		b := src.Bounds()
		w := int(float64(b.Dx())*factor + 0.5)
		h := int(float64(b.Dy())*factor + 0.5)
		if w < 1 || h < 1 {
			return nil, image.Point{}, fmt.Errorf("scaled image would be empty (%dx%d)", w, h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, image.Point{}, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), out.Bounds().Size(), nil
}
