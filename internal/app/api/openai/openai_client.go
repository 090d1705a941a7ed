package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient builds a go-openai client. baseURL overrides the public endpoint
// for compatible servers and tests.
func NewClient(apiKey, baseURL string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}
