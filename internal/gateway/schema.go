package gateway

import "github.com/google/generative-ai-go/genai"

type field struct {
	name        string
	kind        string
	description string
	nullable    bool
}

var caseFields = []field{
	{name: "chamada", kind: "integer", description: "Número de ordem sequencial."},
	{name: "observacao", kind: "string", description: "Apenas se houver (Vista, Destaque, etc). Se vazio, retorne null.", nullable: true},
	{name: "numero_processo", kind: "string"},
	{name: "classe", kind: "string"},
	{name: "partes", kind: "array"},
	{name: "ementa", kind: "string", description: "O texto original integral da Ementa."},
	{name: "resumo_estruturado", kind: "string", description: "Texto completo formatado com capítulos."},
	{name: "tags", kind: "array", description: "Lista de 5 a 8 tags (expressões nominais curtas) com institutos jurídicos, temas decisórios ou categorias normativas relevantes."},
}

var partyFields = []field{
	{name: "role", kind: "string", description: "Ex: Apelante, Agravado."},
	{name: "name", kind: "string", description: "Nome da parte."},
	{name: "advogado", kind: "string", description: "Nome do advogado desta parte específica (se houver)."},
}

var metadataFields = []string{"orgao", "relator", "data", "hora", "tipo"}

var requiredCaseFields = []string{"chamada", "numero_processo", "classe", "partes", "ementa", "resumo_estruturado", "tags"}

func jsonProperty(f field) map[string]any {
	p := map[string]any{"type": f.kind}
	if f.nullable {
		p["type"] = []string{f.kind, "null"}
	}
	if f.description != "" {
		p["description"] = f.description
	}
	switch f.name {
	case "partes":
		p["items"] = jsonObject(partyFields, []string{"role", "name"})
	case "tags":
		p["items"] = map[string]any{"type": "string"}
	}
	return p
}

func jsonObject(fields []field, required []string) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.name] = jsonProperty(f)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// CaseSchema returns the case list as a JSON Schema document.
func CaseSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": jsonObject(caseFields, requiredCaseFields),
	}
}

// MetadataSchema returns the session metadata object as a JSON Schema document.
func MetadataSchema() map[string]any {
	props := make(map[string]any, len(metadataFields))
	for _, name := range metadataFields {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{"type": "object", "properties": props}
}

var genaiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func genaiProperty(f field) *genai.Schema {
	s := &genai.Schema{
		Type:        genaiTypes[f.kind],
		Description: f.description,
		Nullable:    f.nullable,
	}
	switch f.name {
	case "partes":
		s.Items = genaiObject(partyFields, nil)
	case "tags":
		s.Items = &genai.Schema{Type: genai.TypeString}
	}
	return s
}

func genaiObject(fields []field, required []string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f.name] = genaiProperty(f)
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func genaiCaseSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: genaiObject(caseFields, requiredCaseFields),
	}
}

func genaiMetadataSchema() *genai.Schema {
	props := make(map[string]*genai.Schema)
	for _, name := range metadataFields {
		props[name] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}
