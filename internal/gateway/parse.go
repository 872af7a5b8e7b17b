package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/pkg/formatting"
)

func decodeCases(text string) ([]RawCase, error) {
	raw, err := formatting.Parse[json.RawMessage](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var list []RawCase
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidResponse)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidResponse)
	}
	return list, nil
}

// caseEnvelope wraps the array for providers whose structured output must be an object.
type caseEnvelope struct {
	Processos json.RawMessage `json:"processos"`
}

func decodeEnvelope(raw []byte) ([]RawCase, error) {
	var env caseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Processos) == 0 {
		return decodeCases(string(raw))
	}
	return decodeCases(string(env.Processos))
}

func envelopeSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"processos": CaseSchema()},
		"required":   []string{"processos"},
	}
}

func decodeMetadata(text string) (cases.Metadata, error) {
	md, err := formatting.Parse[cases.Metadata](text)
	if err != nil {
		return cases.Metadata{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	md.Orgao = strings.TrimSpace(md.Orgao)
	md.Relator = strings.TrimSpace(md.Relator)
	md.Data = strings.TrimSpace(md.Data)
	md.Hora = strings.TrimSpace(md.Hora)
	md.Tipo = strings.TrimSpace(md.Tipo)
	return md, nil
}
