package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/pipeline/recovery"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Client    *http.Client
}

var _ llm.VisionProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		APIKey:    apiKey,
		ModelName: modelName,
		BaseURL:   defaultBaseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}

	contents := make([]geminiContent, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		// Gemini uses "model" where others use "assistant"
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  role,
		})
	}

	return g.invoke(ctx, contents, options)
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (g *GeminiProvider) GenerateWithMedia(ctx context.Context, prompt string, media []llm.Media, opts ...llm.Option) (string, error) {
	options := &llm.Options{Temperature: 0.4}
	for _, opt := range opts {
		opt(options)
	}

	parts := make([]geminiPart, 0, len(media)+1)
	parts = append(parts, geminiPart{Text: prompt})
	for _, m := range media {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: m.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(m.Data),
			},
		})
	}

	contents := []geminiContent{{Parts: parts, Role: "user"}}
	return g.invoke(ctx, contents, options)
}

func (g *GeminiProvider) invoke(ctx context.Context, contents []geminiContent, options *llm.Options) (string, error) {
	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	payload := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", recovery.Tag(recovery.KindTransient, "gemini", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", recovery.Tag(recovery.KindTransient, "gemini", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", classifyStatus(res.StatusCode, resBody)
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", recovery.Tag(recovery.KindMalformed, "gemini", err)
	}

	if geminiRes.PromptFeedback != nil && geminiRes.PromptFeedback.BlockReason != "" {
		return "", recovery.Tag(recovery.KindSafety, "gemini",
			fmt.Errorf("prompt blocked: %s", geminiRes.PromptFeedback.BlockReason))
	}
	if len(geminiRes.Candidates) == 0 {
		return "", recovery.Tag(recovery.KindMalformed, "gemini", fmt.Errorf("no candidates in response"))
	}

	candidate := geminiRes.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", recovery.Tag(recovery.KindSafety, "gemini", fmt.Errorf("response blocked by safety filter"))
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", recovery.Tag(recovery.KindMalformed, "gemini", fmt.Errorf("empty candidate content"))
	}

	return candidate.Content.Parts[0].Text, nil
}

// classifyStatus tags HTTP errors with the failure kind at the throw site,
// so the classifier never has to guess from message substrings.
func classifyStatus(status int, body []byte) error {
	base := fmt.Errorf("gemini error: status %d, body: %s", status, string(body))
	switch {
	case status == http.StatusTooManyRequests:
		return recovery.Tag(recovery.KindQuota, "gemini", base)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return recovery.Tag(recovery.KindAuth, "gemini", base)
	case status >= 500:
		return recovery.Tag(recovery.KindTransient, "gemini", base)
	default:
		return recovery.Tag(recovery.KindUnknown, "gemini", base)
	}
}
