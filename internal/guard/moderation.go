package guard

import (
	"context"
	"strings"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

const moderationTimeout = 30 * time.Second

// OpenAIModerator checks input against the hosted OpenAI moderation
// endpoint.
type OpenAIModerator struct {
	client *openai.Client
}

// NewOpenAIModerator builds a moderator from the variant's API key.
func NewOpenAIModerator(apiKey string) *OpenAIModerator {
	return &OpenAIModerator{client: openai.NewClient(apiKey)}
}

// Flagged reports whether the moderation endpoint flagged the input. Blank
// input is blocked outright; callers treat any error as flagged.
func (m *OpenAIModerator) Flagged(ctx context.Context, input string) (bool, error) {
	if strings.TrimSpace(input) == "" {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, moderationTimeout)
	defer cancel()

	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{Input: input})
	if err != nil {
		return true, err
	}
	for _, result := range resp.Results {
		if result.Flagged {
			return true, nil
		}
	}
	return false, nil
}
