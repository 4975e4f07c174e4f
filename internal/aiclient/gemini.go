package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/parsererror"
)

// GeminiClient implements VisionModel and TextModel on top of the Google
// Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a client for the given model name. The API key
// comes from configuration, never from ambient globals.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// VisionComplete sends an image plus instructions and returns raw text.
func (c *GeminiClient) VisionComplete(ctx context.Context, image []byte, mimeType, instructions string) (string, error) {
	format := strings.TrimPrefix(mimeType, "image/")
	c.logger.WithField("mime_type", mimeType).Debug("Calling Gemini vision")

	resp, err := c.model.GenerateContent(ctx,
		genai.Text(instructions),
		genai.ImageData(format, image),
	)
	if err != nil {
		return "", wrapAPIError(err)
	}
	return responseText(resp)
}

// TextComplete answers a plain text prompt.
func (c *GeminiClient) TextComplete(ctx context.Context, prompt string) (string, error) {
	c.logger.WithField("prompt_len", len(prompt)).Debug("Calling Gemini text completion")

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapAPIError(err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &parsererror.APIError{Err: parsererror.ErrEmptyResponse}
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", &parsererror.APIError{Err: parsererror.ErrEmptyResponse}
	}
	return sb.String(), nil
}

// wrapAPIError maps SDK errors onto the retry taxonomy, preserving the
// HTTP status when one is known.
func wrapAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &parsererror.APIError{StatusCode: gerr.Code, Err: err}
	}
	return &parsererror.APIError{Err: err}
}
