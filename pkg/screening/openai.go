package screening

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModerationModel = "omni-moderation-latest"

// openAIScreener uses the OpenAI moderation endpoint, which is free for API
// key holders.
type openAIScreener struct {
	client *openai.Client
	model  string
}

func newOpenAIScreener(apiKey, model string) *openAIScreener {
	if model == "" {
		model = defaultOpenAIModerationModel
	}
	return &openAIScreener{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (s *openAIScreener) Screen(ctx context.Context, text string) (*Result, error) {
	resp, err := s.client.Moderations(ctx, openai.ModerationRequest{
		Model: s.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("openai moderation: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("openai moderation: empty result set")
	}

	r := resp.Results[0]
	return &Result{
		Flagged:    r.Flagged,
		Categories: flaggedCategories(r.Categories),
	}, nil
}

// flaggedCategories maps the moderation category struct to the names of the
// categories that fired.
func flaggedCategories(c openai.ResultCategories) []string {
	var out []string
	for name, hit := range map[string]bool{
		"harassment":             c.Harassment,
		"harassment/threatening": c.HarassmentThreatening,
		"hate":                   c.Hate,
		"hate/threatening":       c.HateThreatening,
		"self-harm":              c.SelfHarm,
		"self-harm/instructions": c.SelfHarmInstructions,
		"self-harm/intent":       c.SelfHarmIntent,
		"sexual":                 c.Sexual,
		"sexual/minors":          c.SexualMinors,
		"violence":               c.Violence,
		"violence/graphic":       c.ViolenceGraphic,
	} {
		if hit {
			out = append(out, name)
		}
	}
	return out
}

var _ Screener = (*openAIScreener)(nil)
