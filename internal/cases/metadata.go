package cases

import "strconv"

// Metadata describes the judgment session a case list belongs to.
type Metadata struct {
	Orgao          string `json:"orgao"`
	Relator        string `json:"relator"`
	Data           string `json:"data"`
	Tipo           string `json:"tipo"`
	Hora           string `json:"hora"`
	TotalProcessos string `json:"total_processos"`
}

// IsZero reports whether no descriptor has been filled.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Overlay replaces fields of m with the non-empty fields of src.
func (m Metadata) Overlay(src Metadata) Metadata {
	fill := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	fill(&m.Orgao, src.Orgao)
	fill(&m.Relator, src.Relator)
	fill(&m.Data, src.Data)
	fill(&m.Tipo, src.Tipo)
	fill(&m.Hora, src.Hora)
	fill(&m.TotalProcessos, src.TotalProcessos)
	return m
}

// WithTotal sets TotalProcessos from count when it is empty.
func (m Metadata) WithTotal(count int) Metadata {
	if m.TotalProcessos == "" {
		m.TotalProcessos = strconv.Itoa(count)
	}
	return m
}
