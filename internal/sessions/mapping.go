package sessions

import (
	"database/sql"
	"encoding/json"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/pkg/query"
	"github.com/JaimeStill/jurispanel/pkg/repository"
)

var projection = query.
	From("sessions", "s").
	Field("ID", "session_code").
	Field("Orgao", "orgao").
	Field("Relator", "relator").
	Field("Data", "data").
	Field("Tipo", "tipo").
	Field("Hora", "hora").
	Field("TotalProcessos", "total_processos").
	Field("CaseCount", "case_count").
	Field("CreatedAt", "created_at").
	Field("SavedAt", "saved_at").
	Field("TrashedAt", "trashed_at")

var defaultSort = []query.SortField{
	{Field: "SavedAt", Descending: true},
	{Field: "ID", Descending: true},
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	var trashed sql.NullTime
	err := s.Scan(
		&sum.ID,
		&sum.Metadata.Orgao,
		&sum.Metadata.Relator,
		&sum.Metadata.Data,
		&sum.Metadata.Tipo,
		&sum.Metadata.Hora,
		&sum.Metadata.TotalProcessos,
		&sum.CaseCount,
		&sum.CreatedAt,
		&sum.SavedAt,
		&trashed,
	)
	sum.State = StateActive
	if trashed.Valid {
		t := trashed.Time
		sum.TrashedAt = &t
		sum.State = StateTrashed
	}
	return sum, err
}

type sessionRow struct {
	pk      string
	summary Summary
}

func scanSessionRow(s repository.Scanner) (sessionRow, error) {
	var row sessionRow
	var trashed sql.NullTime
	err := s.Scan(
		&row.pk,
		&row.summary.ID,
		&row.summary.Metadata.Orgao,
		&row.summary.Metadata.Relator,
		&row.summary.Metadata.Data,
		&row.summary.Metadata.Tipo,
		&row.summary.Metadata.Hora,
		&row.summary.Metadata.TotalProcessos,
		&row.summary.CaseCount,
		&row.summary.CreatedAt,
		&row.summary.SavedAt,
		&trashed,
	)
	row.summary.State = StateActive
	if trashed.Valid {
		t := trashed.Time
		row.summary.TrashedAt = &t
		row.summary.State = StateTrashed
	}
	return row, err
}

const caseColumns = `
	c.case_code, c.content_hash, c.chamada, c.numero_processo, c.classe, c.partes,
	c.juiz_sentenciante, c.ementa, c.resumo_estruturado, c.tags, c.observacao,
	n.note_code, n.text, n.created_at,
	v.vote_code, v.vote_type, v.voted_at`

func scanCase(s repository.Scanner) (cases.Case, error) {
	var c cases.Case
	var partes, tags []byte
	var observacao sql.NullString
	var noteID, noteText, voteID, voteType sql.NullString
	var noteAt, votedAt sql.NullTime

	if err := s.Scan(
		&c.ID, &c.ContentHash, &c.Chamada, &c.NumeroProcesso, &c.Classe, &partes,
		&c.JuizSentenciante, &c.Ementa, &c.ResumoEstruturado, &tags, &observacao,
		&noteID, &noteText, &noteAt,
		&voteID, &voteType, &votedAt,
	); err != nil {
		return c, err
	}

	if err := json.Unmarshal(partes, &c.Partes); err != nil {
		return c, err
	}
	if err := json.Unmarshal(tags, &c.Tags); err != nil {
		return c, err
	}
	if observacao.Valid {
		c.Observacao = &observacao.String
	}
	if noteID.Valid {
		c.Note = &cases.Note{ID: noteID.String, Text: noteText.String, CreatedAt: noteAt.Time.UTC()}
	}
	if voteID.Valid {
		c.Vote = &cases.Vote{ID: voteID.String, Type: voteType.String, Timestamp: votedAt.Time.UTC()}
	}
	return c, nil
}

func scanSource(s repository.Scanner) (documents.Source, error) {
	var src documents.Source
	var pages sql.NullInt32
	err := s.Scan(&src.Filename, &src.MimeType, &src.Size, &pages, &src.StorageKey, &src.ContentHash, &src.UploadedAt)
	if pages.Valid {
		n := int(pages.Int32)
		src.PageCount = &n
	}
	return src, err
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt32 {
	if p == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*p), Valid: true}
}
