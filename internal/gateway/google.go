package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/JaimeStill/jurispanel/internal/cases"
)

type google struct {
	opts Options
}

// NewGoogle creates the Gemini provider. Without a key the client falls back
// to application default credentials.
func NewGoogle(ctx context.Context, opts Options) (Provider, error) {
	return &google{opts: opts}, nil
}

func (g *google) Name() string { return "google" }

func (g *google) client(ctx context.Context) (*genai.Client, error) {
	var clientOpts []option.ClientOption
	if g.opts.Key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(g.opts.Key))
	}
	if g.opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(g.opts.BaseURL))
	}
	if g.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(g.opts.HTTPClient))
	}

	c, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", ErrProviderCall, err)
	}
	return c, nil
}

func (g *google) generate(ctx context.Context, schema *genai.Schema, temperature float32, parts ...genai.Part) (string, error) {
	c, err := g.client(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	model := c.GenerativeModel(g.opts.Model)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderCall, err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	return sb.String(), nil
}

func documentPart(doc Document, metadata bool) (genai.Part, error) {
	switch doc.Kind {
	case KindPDF:
		return genai.Blob{MIMEType: "application/pdf", Data: doc.Data}, nil
	case KindText:
		if metadata {
			return genai.Text(doc.MetadataText()), nil
		}
		return genai.Text(doc.Text), nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedInput, doc.Kind)
}

func (g *google) Extract(ctx context.Context, doc Document) ([]RawCase, error) {
	part, err := documentPart(doc, false)
	if err != nil {
		return nil, err
	}

	text, err := g.generate(ctx, genaiCaseSchema(), float32(g.opts.Temperature), genai.Text(extractionPrompt()), part)
	if err != nil {
		return nil, err
	}
	return decodeCases(text)
}

func (g *google) ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error) {
	part, err := documentPart(doc, true)
	if err != nil {
		return cases.Metadata{}, err
	}

	text, err := g.generate(ctx, genaiMetadataSchema(), 0, genai.Text(metadataInstructions), part)
	if err != nil {
		return cases.Metadata{}, err
	}
	return decodeMetadata(text)
}
