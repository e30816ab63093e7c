package repository

import (
	"fmt"

	"github.com/DoctorRyner/mistral-go"
	"go.uber.org/zap"

	"gomoku_agent/internal/adapters"
)

type LlmRepo struct {
	adapter *adapters.LlmAdapter
	log     *zap.SugaredLogger
}

func NewLlmRepository(adapter *adapters.LlmAdapter, log *zap.SugaredLogger) *LlmRepo {
	return &LlmRepo{adapter: adapter, log: log}
}

// SendRequestToLlm sends one consultation request and returns the raw
// completion text. Temperature is pinned to zero: move suggestions must be
// as reproducible as the model allows.
func (l *LlmRepo) SendRequestToLlm(request string) (response string, err error) {
	params := mistral.DefaultChatRequestParams
	params.Temperature = 0
	params.MaxTokens = 200

	res, err := l.adapter.Client.Chat(
		l.adapter.Model,
		[]mistral.ChatMessage{{Content: request, Role: mistral.RoleUser}},
		&params,
	)
	if err != nil {
		l.log.Errorf("llm request failed: %v", err)
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return fmt.Sprintf("%v", res.Choices[0].Message.Content), nil
}
