// Package openaiclient builds the single OpenAI/Azure OpenAI client shared by
// the transcription and completion adapters. It is created once at process
// start and is safe for concurrent use.
package openaiclient

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"call-analysis-go/internal/config"
)

// New returns a client for cfg.Provider.
func New(cfg config.OpenAIConfig) *openai.Client {
	return openai.NewClientWithConfig(ClientConfig(cfg))
}

// ClientConfig maps cfg onto go-openai settings. With azure, model
// identifiers are passed through unchanged as deployment names, so each
// model is served from /openai/deployments/<model>/...
func ClientConfig(cfg config.OpenAIConfig) openai.ClientConfig {
	var oc openai.ClientConfig
	switch cfg.Provider {
	case "azure":
		oc = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		oc.APIVersion = cfg.APIVersion
		oc.AzureModelMapperFunc = func(model string) string { return model }
	default:
		oc = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			oc.BaseURL = cfg.Endpoint
		}
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return oc
}
