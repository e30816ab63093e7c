package adapters

import (
	"github.com/DoctorRyner/mistral-go"
)

type LlmAdapter struct {
	Client *mistral.MistralClient
	Model  string
	apiKey string
}

func NewLlmAdapter(apiKey string, model string) *LlmAdapter {
	adapter := &LlmAdapter{apiKey: apiKey, Model: model}
	adapter.Client = mistral.NewMistralClientDefault(apiKey)
	return adapter
}
