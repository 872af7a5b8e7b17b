// Package cases defines the case record and session metadata shared by
// extraction, review, and persistence.
package cases

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Status is derived from vote presence and never stored independently.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
)

// Party is one litigant in document order.
type Party struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Advogado string `json:"advogado,omitempty"`
}

// Note is the single reviewer annotation attached to a case.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote is the reviewer's current position on a case.
type Vote struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Case is one judged matter within a session. ID is assigned once and is the
// only key used to merge updates back into a case list.
type Case struct {
	ID                string   `json:"id"`
	ContentHash       string   `json:"content_hash,omitempty"`
	Chamada           int      `json:"chamada"`
	NumeroProcesso    string   `json:"numero_processo"`
	Classe            string   `json:"classe"`
	Partes            []Party  `json:"partes"`
	JuizSentenciante  string   `json:"juiz_sentenciante,omitempty"`
	Ementa            string   `json:"ementa"`
	ResumoEstruturado string   `json:"resumo_estruturado"`
	Tags              []string `json:"tags"`
	Observacao        *string  `json:"observacao,omitempty"`
	Note              *Note    `json:"note,omitempty"`
	Vote              *Vote    `json:"voto,omitempty"`
}

// Status reports reviewed when a vote is present.
func (c Case) Status() Status {
	if c.Vote != nil {
		return StatusReviewed
	}
	return StatusPending
}

type caseJSON Case

// MarshalJSON includes the derived status.
func (c Case) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		caseJSON
		Status Status `json:"status"`
	}{caseJSON(c), c.Status()})
}

// UnmarshalJSON ignores any status field; status is always derived.
func (c *Case) UnmarshalJSON(data []byte) error {
	var v caseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Case(v)
	return nil
}

// Clone returns a deep copy.
func (c Case) Clone() Case {
	out := c
	out.Partes = slices.Clone(c.Partes)
	out.Tags = slices.Clone(c.Tags)
	if c.Observacao != nil {
		o := *c.Observacao
		out.Observacao = &o
	}
	if c.Note != nil {
		n := *c.Note
		out.Note = &n
	}
	if c.Vote != nil {
		v := *c.Vote
		out.Vote = &v
	}
	return out
}

// CloneAll deep copies a case list.
func CloneAll(list []Case) []Case {
	out := make([]Case, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}

// IndexOf returns the position of the case with id, or -1.
func IndexOf(list []Case, id string) int {
	return slices.IndexFunc(list, func(c Case) bool { return c.ID == id })
}

var nullLike = map[string]struct{}{
	"null":      {},
	"nulo":      {},
	"none":      {},
	"":          {},
	"undefined": {},
}

// CleanObservation maps model placeholders for "no value" to nil.
func CleanObservation(s *string) *string {
	if s == nil {
		return nil
	}
	if _, ok := nullLike[strings.ToLower(strings.TrimSpace(*s))]; ok {
		return nil
	}
	v := *s
	return &v
}
