package extraction

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/gateway"
)

var errNotObject = errors.New("record is not a JSON object")

// normalize decodes one raw record field by field so that a malformed field
// falls back to its default instead of discarding the record. index is the
// zero-based position in the response.
func normalize(raw gateway.RawCase, index int) (cases.Case, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return cases.Case{}, errNotObject
	}

	c := cases.Case{
		Chamada:           chamada(fields["chamada"]),
		NumeroProcesso:    text(fields["numero_processo"]),
		Classe:            text(fields["classe"]),
		JuizSentenciante:  text(fields["juiz_sentenciante"]),
		Ementa:            text(fields["ementa"]),
		ResumoEstruturado: text(fields["resumo_estruturado"]),
		Partes:            partes(fields["partes"]),
		Tags:              tags(fields["tags"]),
	}

	if c.Chamada <= 0 {
		c.Chamada = index + 1
	}

	if obs, ok := fields["observacao"]; ok {
		var s string
		if json.Unmarshal(obs, &s) == nil {
			c.Observacao = cases.CleanObservation(&s)
		}
	}

	return c, nil
}

func text(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// chamada accepts integers, integral floats, and numeric strings.
func chamada(raw json.RawMessage) int {
	if raw == nil {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f == math.Trunc(f) && f > 0 && f < math.MaxInt32 {
			return int(f)
		}
		return 0
	}

	if n, err := strconv.Atoi(strings.TrimSpace(text(raw))); err == nil {
		return n
	}
	return 0
}

func partes(raw json.RawMessage) []cases.Party {
	out := []cases.Party{}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}

	for _, item := range items {
		var p cases.Party
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func tags(raw json.RawMessage) []string {
	out := []string{}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}

	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
