package format

import (
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{HTML, "HTML"},
		{HOCR, "hOCR"},
		{JSON, "JSON"},
		{PNG, "PNG"},
		{TIFF, "TIFF"},
		{WebP, "WebP"},
		{PDF, "PDF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{HTML, ".html"},
		{HOCR, ".hocr"},
		{JSON, ".json"},
		{JPEG, ".jpg"},
		{BMP, ".bmp"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Kinds(t *testing.T) {
	for _, f := range []Format{PNG, JPEG, GIF, TIFF, BMP, WebP} {
		if !f.IsImage() || f.IsTextLayer() {
			t.Errorf("%s should be an image format", f)
		}
	}
	for _, f := range []Format{HTML, HOCR} {
		if f.IsImage() || !f.IsTextLayer() {
			t.Errorf("%s should be a text layer format", f)
		}
	}
	for _, f := range []Format{JSON, PDF, Unknown} {
		if f.IsImage() || f.IsTextLayer() {
			t.Errorf("%s should be neither image nor text layer", f)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"layer.html", HTML},
		{"layer.HTML", HTML},
		{"layer.htm", HTML},
		{"layer.xhtml", HTML},
		{"page.hocr", HOCR},
		{"page.HOCR", HOCR},
		{"report.json", JSON},
		{"page.png", PNG},
		{"page.jpg", JPEG},
		{"page.JPEG", JPEG},
		{"page.gif", GIF},
		{"page.tif", TIFF},
		{"page.tiff", TIFF},
		{"page.bmp", BMP},
		{"page.webp", WebP},
		{"protocol.pdf", PDF},
		{"notes.txt", Unknown},
		{"layer", Unknown},
		{"", Unknown},
		{"/path/to/page.hocr", HOCR},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"html", HTML},
		{"HOCR", HOCR},
		{".png", PNG},
		{" image ", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.name); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "PDF magic bytes",
			data: []byte("%PDF-1.4"),
			want: PDF,
		},
		{
			name: "PNG signature",
			data: []byte("\x89PNG\r\n\x1a\n\x00\x00"),
			want: PNG,
		},
		{
			name: "JPEG signature",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0},
			want: JPEG,
		},
		{
			name: "GIF signature",
			data: []byte("GIF89a"),
			want: GIF,
		},
		{
			name: "TIFF little endian",
			data: []byte("II*\x00\x08\x00"),
			want: TIFF,
		},
		{
			name: "WebP container",
			data: []byte("RIFF\x24\x00\x00\x00WEBPVP8 "),
			want: WebP,
		},
		{
			name: "report JSON",
			data: []byte("\n  {\"critical_issues\": []}"),
			want: JSON,
		},
		{
			name: "HTML with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HTML,
		},
		{
			name: "HTML with whitespace before DOCTYPE",
			data: []byte("  \n  <!DOCTYPE HTML PUBLIC"),
			want: HTML,
		},
		{
			name: "bare text layer",
			data: []byte(`<div class="textLayer"><span>Step 1</span></div>`),
			want: HTML,
		},
		{
			name: "hOCR",
			data: []byte(`<html><head><meta name="ocr-system" content="tesseract"/></head><body><div class="ocr_page">`),
			want: HOCR,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "random data",
			data: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			want: Unknown,
		},
		{
			name: "text file",
			data: []byte("Hello, World!"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_HOCR(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><body>
<div class='ocr_page' title='bbox 0 0 2480 3508'></div></body></html>`)

	format, err := DetectFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != HOCR {
		t.Errorf("DetectFromReader() = %v, want hOCR", format)
	}
}

func TestDetectFromReader_HTML(t *testing.T) {
	data := []byte("<!DOCTYPE html>\n<html><head><title>Test</title></head><body></body></html>")

	format, err := DetectFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != HTML {
		t.Errorf("DetectFromReader() = %v, want HTML", format)
	}
}

func TestDetectFromReader_Unknown(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")

	format, err := DetectFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", format)
	}
}
