// Package aiclient defines the abstract AI capabilities the pipelines
// consume (a vision model for screenshots and a text model for
// categorization) and a Gemini-backed implementation of both.
package aiclient

import "context"

// VisionModel describes an image, returning the model's raw text answer.
type VisionModel interface {
	// VisionComplete sends image bytes with instructions and returns the
	// raw response text. Implementations surface transport and HTTP
	// failures as *parsererror.APIError so the retry layer can classify.
	VisionComplete(ctx context.Context, image []byte, mimeType, instructions string) (string, error)
}

// TextModel answers a plain text prompt.
type TextModel interface {
	TextComplete(ctx context.Context, prompt string) (string, error)
}
