package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"supportchat-backend/internal/models"
)

// Generation parameters are fixed for this system, not per-call configuration.
const (
	completionTemperature      = 0.7
	completionMaxTokens        = 512
	completionPresencePenalty  = 0.6
	completionFrequencyPenalty = 0.5
)

// chatCompleter is the slice of the provider client the gateway needs.
// *openai.Client satisfies it; tests supply scripted fakes.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CompletionService turns a role-tagged turn sequence into reply text by
// trying an ordered list of candidate models until one succeeds.
type CompletionService struct {
	client chatCompleter
	models []string
}

// NewCompletionService builds the gateway against an OpenAI-compatible
// endpoint. The candidate list is tried in the order given; it must not be
// empty.
func NewCompletionService(apiKey, baseURL string, candidateModels []string) (*CompletionService, error) {
	if len(candidateModels) == 0 {
		return nil, fmt.Errorf("at least one candidate model is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	return &CompletionService{client: client, models: candidateModels}, nil
}

// Complete iterates the candidate models in order, one attempt each, and
// returns on the first success. No same-model retries, no backoff: the
// candidate set is small and fixed, so first-success-wins keeps the failure
// path short and predictable.
func (s *CompletionService) Complete(ctx context.Context, turns []models.ChatTurn) (*models.CompletionResult, error) {
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{Role: t.Role, Content: t.Content}
	}

	var lastErr error
	for _, model := range s.models {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:            model,
			Messages:         messages,
			Temperature:      completionTemperature,
			MaxTokens:        completionMaxTokens,
			PresencePenalty:  completionPresencePenalty,
			FrequencyPenalty: completionFrequencyPenalty,
		})
		if err != nil {
			log.Printf("Completion model %s failed: %v", model, err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			log.Printf("Completion model %s returned no choices", model)
			lastErr = fmt.Errorf("model %s returned empty response", model)
			continue
		}

		return &models.CompletionResult{
			Reply: resp.Choices[0].Message.Content,
			Model: model,
		}, nil
	}

	return nil, classifyProviderError(len(s.models), lastErr)
}

// classifyProviderError maps the last failure after exhaustion onto the
// error taxonomy. Credential and throttling failures apply to every
// candidate equally, so the last error is representative.
func classifyProviderError(attempts int, lastErr error) error {
	var apiErr *openai.APIError
	if errors.As(lastErr, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &GatewayAuthError{Err: lastErr}
		case http.StatusTooManyRequests:
			return &GatewayRateLimitError{Err: lastErr}
		}
	}
	return &ModelsExhaustedError{Attempts: attempts, LastErr: lastErr}
}
