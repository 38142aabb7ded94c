// Package format provides input format detection for marginalia.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates a rendered text layer in HTML markup.
	HTML
	// HOCR indicates OCR output in hOCR markup.
	HOCR
	// JSON indicates an analyzer report.
	JSON
	// PNG indicates a PNG page raster.
	PNG
	// JPEG indicates a JPEG page raster.
	JPEG
	// GIF indicates a GIF page raster.
	GIF
	// TIFF indicates a TIFF page raster.
	TIFF
	// BMP indicates a BMP page raster.
	BMP
	// WebP indicates a WebP page raster.
	WebP
	// PDF indicates a raw PDF. It is recognized only so callers can reject
	// it; the text layer must be rendered first.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case HOCR:
		return "hOCR"
	case JSON:
		return "JSON"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WebP:
		return "WebP"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case HOCR:
		return ".hocr"
	case JSON:
		return ".json"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	case WebP:
		return ".webp"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// IsImage reports whether the format is a page raster that needs OCR.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, GIF, TIFF, BMP, WebP:
		return true
	default:
		return false
	}
}

// IsTextLayer reports whether the format carries positioned text directly.
func (f Format) IsTextLayer() bool {
	return f == HTML || f == HOCR
}

// Parse maps a user-supplied format name such as "html" or "hocr" to a
// Format. Matching is case-insensitive; a leading dot is allowed.
func Parse(name string) Format {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Unknown
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return Detect("x" + name)
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".hocr":
		return HOCR
	case ".json":
		return JSON
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".gif":
		return GIF
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".webp":
		return WebP
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from the data.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return GIF
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return TIFF
	case bytes.HasPrefix(data, []byte("BM")) && len(data) >= 14:
		return BMP
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WebP
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return Unknown
	}
	if trimmed[0] == '{' {
		return JSON
	}
	if detectHTMLMagic(trimmed) {
		if detectHOCR(trimmed) {
			return HOCR
		}
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}
	// Bare text layer fragments
	if strings.HasPrefix(upper, "<DIV") || strings.HasPrefix(upper, "<SPAN") {
		return true
	}
	return false
}

// detectHOCR looks for the markers every hOCR producer writes.
func detectHOCR(data []byte) bool {
	return bytes.Contains(data, []byte("ocr-system")) ||
		bytes.Contains(data, []byte("ocr_page")) ||
		bytes.Contains(data, []byte("ocrx_word"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// sniffLen is how much of a file DetectFromReader inspects.
const sniffLen = 4096

// DetectFromReader inspects the content to determine format.
// hOCR is told apart from plain HTML by its class and meta markers, which
// producers write near the top of the file.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, sniffLen)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}
