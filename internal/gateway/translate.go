package gateway

import (
	"fmt"

	"github.com/antigravity/answer-gateway/internal/models"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// transformRequest builds the upstream chat completion params. Messages keep
// their order and role; nothing beyond role and content is attached.
func transformRequest(req *models.AnswerRequest) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for i, msg := range req.Messages {
		m, err := transformMessage(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("messages[%d]: %w", i, err)
		}
		messages = append(messages, m)
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	// max_tokens=0 is rejected upstream; leave it to the provider default instead
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return params, nil
}

func transformMessage(msg models.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case models.RoleSystem:
		return openai.SystemMessage(msg.Content), nil
	case models.RoleUser:
		return openai.UserMessage(msg.Content), nil
	case models.RoleAssistant:
		return openai.AssistantMessage(msg.Content), nil
	case models.RoleFunction:
		// name is required by the upstream schema but is not part of the inbound shape
		return openai.ChatCompletionMessageParamOfFunction(msg.Content, ""), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role %q", msg.Role)
	}
}
