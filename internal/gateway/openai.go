package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/JaimeStill/jurispanel/internal/cases"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAI struct {
	opts Options
}

// NewOpenAI creates the chat completions provider.
func NewOpenAI(ctx context.Context, opts Options) (Provider, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("%w: openai", ErrMissingKey)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOpenAIBaseURL
	}
	return &openAI{opts: opts}, nil
}

func (o *openAI) Name() string { return "openai" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func openAIContent(prompt string, doc Document, metadata bool) ([]map[string]any, error) {
	parts := []map[string]any{{"type": "text", "text": prompt}}

	switch doc.Kind {
	case KindPDF:
		filename := doc.Filename
		if filename == "" {
			filename = "document.pdf"
		}
		parts = append(parts, map[string]any{
			"type": "file",
			"file": map[string]any{
				"filename":  filename,
				"file_data": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(doc.Data),
			},
		})
	case KindText:
		text := doc.Text
		if metadata {
			text = doc.MetadataText()
		}
		parts = append(parts, map[string]any{"type": "text", "text": text})
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedInput, doc.Kind)
	}

	return parts, nil
}

func (o *openAI) complete(ctx context.Context, content []map[string]any, temperature float64, name string, schema map[string]any) (string, error) {
	body := openAIRequest{
		Model:       o.opts.Model,
		Messages:    []openAIMessage{{Role: "user", Content: content}},
		Temperature: temperature,
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   name,
				"schema": schema,
				"strict": false,
			},
		},
	}

	headers := map[string]string{"Authorization": "Bearer " + o.opts.Key}

	var resp openAIResponse
	url := strings.TrimRight(o.opts.BaseURL, "/") + "/chat/completions"
	if err := postJSON(ctx, o.opts.httpClient(), url, headers, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *openAI) Extract(ctx context.Context, doc Document) ([]RawCase, error) {
	content, err := openAIContent(extractionPrompt(), doc, false)
	if err != nil {
		return nil, err
	}

	text, err := o.complete(ctx, content, o.opts.Temperature, "processos", envelopeSchema())
	if err != nil {
		return nil, err
	}
	return decodeEnvelope([]byte(text))
}

func (o *openAI) ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error) {
	content, err := openAIContent(metadataInstructions, doc, true)
	if err != nil {
		return cases.Metadata{}, err
	}

	text, err := o.complete(ctx, content, 0, "metadados", MetadataSchema())
	if err != nil {
		return cases.Metadata{}, err
	}
	return decodeMetadata(text)
}
