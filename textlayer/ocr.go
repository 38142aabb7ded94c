package textlayer

import (
	"context"
	"fmt"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/ocr"
)

// Recognizer recognizes positioned text in an encoded raster.
// *ocr.Client implements it.
type Recognizer interface {
	Recognize(imageData []byte, level ocr.Level) ([]ocr.Word, error)
}

// OCROptions configures building a text layer from page rasters.
type OCROptions struct {
	Level Level

	// Upscale resamples each raster before recognition. Boxes are mapped
	// back, so it only affects recognition quality.
	Upscale float64

	// Resolution is the number of raster pixels per text-layer pixel at
	// zoom 1.0, e.g. 300.0/72 for a 300 DPI render of a 72 DPI page.
	Resolution float64

	// MinConfidence drops words whose confidence is below it (0-100).
	MinConfidence float64
}

// DefaultOCROptions returns line-level recognition with no resampling.
func DefaultOCROptions() OCROptions {
	return OCROptions{Level: LevelLine, Upscale: 1, Resolution: 1}
}

// FromImages recognizes one raster per page and returns the resulting
// Document, measured at zoom 1.0.
func FromImages(ctx context.Context, rec Recognizer, images [][]byte, opts OCROptions) (*Document, error) {
	upscale := opts.Upscale
	if upscale <= 0 {
		upscale = 1
	}
	resolution := opts.Resolution
	if resolution <= 0 {
		resolution = 1
	}
	level := ocr.LevelLine
	if opts.Level == LevelWord {
		level = ocr.LevelWord
	}
	factor := 1 / (upscale * resolution)

	doc := NewDocument()
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, size, err := ocr.PrepareRaster(img, upscale)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		words, err := rec.Recognize(data, level)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		page := Page{
			Width:  float64(size.X) * factor,
			Height: float64(size.Y) * factor,
		}
		for _, w := range words {
			if opts.MinConfidence > 0 && w.Confidence < opts.MinConfidence {
				continue
			}
			box := model.NewBoxFromCorners(
				float64(w.Box.Min.X), float64(w.Box.Min.Y),
				float64(w.Box.Max.X), float64(w.Box.Max.Y),
			)
			page.Fragments = append(page.Fragments, Fragment{
				Content: w.Text,
				Box:     box.Scale(factor),
			})
		}
		doc.AddPage(page)
	}
	return doc, nil
}
