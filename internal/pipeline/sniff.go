package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
)

// FileKind is the coarse routing decision for an uploaded file.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindImage
	KindSpreadsheet
)

// Sniff inspects the leading magic bytes of content and returns the
// file kind plus, for images, the MIME type. The filename extension is
// a hint only: it breaks the tie for CSV, which has no signature.
func Sniff(content []byte, filename string) (FileKind, string) {
	switch {
	case bytes.HasPrefix(content, []byte{0xff, 0xd8, 0xff}):
		return KindImage, "image/jpeg"
	case bytes.HasPrefix(content, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}):
		return KindImage, "image/png"
	case bytes.HasPrefix(content, []byte("GIF87a")) || bytes.HasPrefix(content, []byte("GIF89a")):
		return KindImage, "image/gif"
	case len(content) >= 12 && bytes.HasPrefix(content, []byte("RIFF")) && bytes.Equal(content[8:12], []byte("WEBP")):
		return KindImage, "image/webp"
	case bytes.HasPrefix(content, []byte("PK")):
		return KindSpreadsheet, ""
	case bytes.HasPrefix(content, []byte{0xd0, 0xcf, 0x11, 0xe0}):
		return KindSpreadsheet, ""
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".csv" || ext == ".txt" {
		return KindSpreadsheet, ""
	}
	return KindUnknown, ""
}
