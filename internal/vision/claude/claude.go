// Package claude implements vision.ReceiptScanner against the Anthropic
// Messages API.
package claude

import (
	"context"
	"fmt"
	"io"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"cheq/internal/vision"
)

type Scanner struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewScanner(apiKey, model string) *Scanner {
	return &Scanner{
		client: anthropic.NewClient(apiKey),
		model:  anthropic.Model(model),
	}
}

func (s *Scanner) Scan(ctx context.Context, r io.Reader, mimeType string) (*vision.ScanResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: s.model,
		// A long restaurant receipt is ~40 items at ~15 tokens each, so
		// 1024 leaves room for verbose models.
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						imageData,
					)),
					anthropic.NewTextMessageContent(vision.ScanPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	text := resp.GetFirstContentText()
	items, err := vision.ParseItems(text)
	if err != nil {
		return nil, fmt.Errorf("unusable scan response: %w", err)
	}

	return &vision.ScanResult{Items: items, RawResponse: text}, nil
}

// normaliseMIME maps browser MIME types to the values the Messages API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
