package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog-chat-be/pkg/llm"
)

// GeminiProvider talks to the Google Generative Language generateContent
// API. It is interchangeable with the OpenAI provider so the agent can
// fail over between the two without branching on backend identity.
type GeminiProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string, timeout time.Duration) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

// --- Request/Response structs (Internal to this package) ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenCfg   `json:"generationConfig,omitempty"`
}

type geminiGenCfg struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// mapRole converts the canonical role set into the Gemini vocabulary,
// where the assistant is called "model". System turns are not mapped here;
// they are lifted into systemInstruction before this is called. An
// unrecognized role falls back to "user".
func mapRole(role llm.Role) string {
	switch role {
	case llm.RoleAssistant:
		return "model"
	case llm.RoleUser, llm.RoleSystem:
		return "user"
	default:
		return "user"
	}
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	options.Apply(opts...)

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	// Gemini carries system prompts out-of-band. Collect them into one
	// systemInstruction and keep only user/model turns in contents.
	var systemText string
	contents := make([]geminiContent, 0, len(history))
	for _, msg := range history {
		if msg.Role == llm.RoleSystem {
			if systemText != "" {
				systemText += "\n\n"
			}
			systemText += msg.Content
			continue
		}
		contents = append(contents, geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  mapRole(msg.Role),
		})
	}

	payload := geminiRequest{
		Contents: contents,
	}
	if systemText != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: systemText}},
		}
	}
	if options.Temperature > 0 || options.MaxTokens > 0 {
		payload.GenerationConfig = &geminiGenCfg{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("x-goog-api-key", g.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("read response: %w", err)}
	}

	if res.StatusCode != http.StatusOK {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("status %d, body: %s", res.StatusCode, string(resBody))}
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	if len(geminiRes.Candidates) == 0 || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", &llm.ProviderError{Provider: g.Name(), Err: fmt.Errorf("empty candidates in response")}
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
