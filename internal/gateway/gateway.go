// Package gateway sends session documents to a configured language model
// provider and returns the raw case records and session metadata it extracts.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/jurispanel/internal/cases"
)

// MetadataTextLimit bounds the text sent with metadata calls, in characters.
const MetadataTextLimit = 30000

// Kind distinguishes inline binary documents from raw text.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
)

// Document is the content submitted for extraction.
type Document struct {
	Kind     Kind
	Text     string
	Data     []byte
	Filename string
}

// HashInput returns the text representation used as the cache key source:
// the raw text, or the base64 encoding of binary content.
func (d Document) HashInput() string {
	if d.Kind == KindPDF {
		return base64.StdEncoding.EncodeToString(d.Data)
	}
	return d.Text
}

// MetadataText returns the text truncated to MetadataTextLimit characters.
func (d Document) MetadataText() string {
	r := []rune(d.Text)
	if len(r) <= MetadataTextLimit {
		return d.Text
	}
	return string(r[:MetadataTextLimit])
}

// RawCase is one element of the model's case array, undecoded.
type RawCase json.RawMessage

// MarshalJSON returns the raw element.
func (r RawCase) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON stores a copy of the element.
func (r *RawCase) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// Provider is one language model backend.
type Provider interface {
	Name() string
	Extract(ctx context.Context, doc Document) ([]RawCase, error)
	ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error)
}

// Options configure a provider instance.
type Options struct {
	Key         string
	Model       string
	BaseURL     string
	Temperature float64
	HTTPClient  *http.Client
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}
