package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/jurispanel/internal/cases"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 8192

	// The messages API rejects temperatures above 1.
	anthropicMaxTemperature = 1.0
)

type anthropic struct {
	opts Options
}

// NewAnthropic creates the messages API provider. Structured output is
// obtained by forcing a single tool whose input schema is the target shape.
func NewAnthropic(ctx context.Context, opts Options) (Provider, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("%w: anthropic", ErrMissingKey)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultAnthropicBaseURL
	}
	return &anthropic{opts: opts}, nil
}

func (a *anthropic) Name() string { return "anthropic" }

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
	Tools       []anthropicTool  `json:"tools"`
	ToolChoice  map[string]any   `json:"tool_choice"`
	Messages    []map[string]any `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Text  string          `json:"text"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
}

func anthropicContent(prompt string, doc Document, metadata bool) ([]map[string]any, error) {
	var blocks []map[string]any

	switch doc.Kind {
	case KindPDF:
		blocks = append(blocks, map[string]any{
			"type": "document",
			"source": map[string]any{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       base64.StdEncoding.EncodeToString(doc.Data),
			},
		})
	case KindText:
		text := doc.Text
		if metadata {
			text = doc.MetadataText()
		}
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedInput, doc.Kind)
	}

	return append(blocks, map[string]any{"type": "text", "text": prompt}), nil
}

func (a *anthropic) invoke(ctx context.Context, content []map[string]any, temperature float64, tool anthropicTool) (json.RawMessage, error) {
	body := anthropicRequest{
		Model:       a.opts.Model,
		MaxTokens:   anthropicMaxTokens,
		Temperature: min(temperature, anthropicMaxTemperature),
		Tools:       []anthropicTool{tool},
		ToolChoice:  map[string]any{"type": "tool", "name": tool.Name},
		Messages:    []map[string]any{{"role": "user", "content": content}},
	}

	headers := map[string]string{
		"x-api-key":         a.opts.Key,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	url := strings.TrimRight(a.opts.BaseURL, "/") + "/messages"
	if err := postJSON(ctx, a.opts.httpClient(), url, headers, body, &resp); err != nil {
		return nil, err
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == tool.Name {
			return block.Input, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s tool call returned", ErrInvalidResponse, tool.Name)
}

func (a *anthropic) Extract(ctx context.Context, doc Document) ([]RawCase, error) {
	content, err := anthropicContent(extractionPrompt(), doc, false)
	if err != nil {
		return nil, err
	}

	input, err := a.invoke(ctx, content, a.opts.Temperature, anthropicTool{
		Name:        "registrar_processos",
		Description: "Registra os processos extraídos da pauta.",
		InputSchema: envelopeSchema(),
	})
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(input)
}

func (a *anthropic) ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error) {
	content, err := anthropicContent(metadataInstructions, doc, true)
	if err != nil {
		return cases.Metadata{}, err
	}

	input, err := a.invoke(ctx, content, 0, anthropicTool{
		Name:        "registrar_metadados",
		Description: "Registra os metadados da sessão.",
		InputSchema: MetadataSchema(),
	})
	if err != nil {
		return cases.Metadata{}, err
	}
	return decodeMetadata(string(input))
}
