package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"akazakov/snapstat/internal/pipeline"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		filename string
		wantKind pipeline.FileKind
		wantMIME string
	}{
		{name: "jpeg", content: []byte{0xff, 0xd8, 0xff, 0xe0}, filename: "shot.jpg", wantKind: pipeline.KindImage, wantMIME: "image/jpeg"},
		{name: "png", content: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, filename: "shot.png", wantKind: pipeline.KindImage, wantMIME: "image/png"},
		{name: "gif89a", content: []byte("GIF89a...."), filename: "shot.gif", wantKind: pipeline.KindImage, wantMIME: "image/gif"},
		{name: "webp", content: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), filename: "shot.webp", wantKind: pipeline.KindImage, wantMIME: "image/webp"},
		{name: "riff but not webp", content: []byte("RIFF\x00\x00\x00\x00WAVEdata"), filename: "sound.wav", wantKind: pipeline.KindUnknown},
		{name: "xlsx", content: []byte("PK\x03\x04rest-of-zip"), filename: "statement.xlsx", wantKind: pipeline.KindSpreadsheet},
		{name: "legacy xls", content: []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1}, filename: "statement.xls", wantKind: pipeline.KindSpreadsheet},
		{name: "csv by extension", content: []byte("Date,Amount\n"), filename: "statement.csv", wantKind: pipeline.KindSpreadsheet},
		{name: "csv extension beats image claim", content: []byte("Date,Amount\n"), filename: "statement.CSV", wantKind: pipeline.KindSpreadsheet},
		{name: "unknown", content: []byte("%PDF-1.4"), filename: "doc.pdf", wantKind: pipeline.KindUnknown},
		{name: "empty", content: nil, filename: "nothing.bin", wantKind: pipeline.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, mime := pipeline.Sniff(tt.content, tt.filename)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}
