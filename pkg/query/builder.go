package query

import (
	"strconv"
	"strings"
)

// SortField is one ORDER BY term over a projection field name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// ParseSortFields reads "field,-other" into sort fields; a leading "-"
// sorts descending.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates WHERE terms over a Projection. Placeholders are
// numbered as terms are added.
type Builder struct {
	projection *Projection
	where      []string
	args       []any
	order      []SortField
	fallback   []SortField
}

// NewBuilder starts a query over p, ordered by defaultSort unless
// OrderBy supplies usable fields.
func NewBuilder(p *Projection, defaultSort ...SortField) *Builder {
	return &Builder{projection: p, fallback: defaultSort}
}

func (b *Builder) column(field string) string {
	if col, ok := b.projection.Column(field); ok {
		return col
	}
	return field
}

func (b *Builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// WhereEquals filters field = value. A nil value adds nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if value == nil {
		return b
	}
	b.where = append(b.where, b.column(field)+" = "+b.bind(value))
	return b
}

// WhereNull filters field IS NULL, or IS NOT NULL when null is false.
func (b *Builder) WhereNull(field string, null bool) *Builder {
	op := " IS NULL"
	if !null {
		op = " IS NOT NULL"
	}
	b.where = append(b.where, b.column(field)+op)
	return b
}

// WhereSearch matches search case-insensitively against any of fields.
// A nil or blank search adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || strings.TrimSpace(*search) == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + strings.TrimSpace(*search) + "%"
	terms := make([]string, len(fields))
	for i, f := range fields {
		terms[i] = b.column(f) + " ILIKE " + b.bind(pattern)
	}
	b.where = append(b.where, "("+strings.Join(terms, " OR ")+")")
	return b
}

// OrderBy replaces the default order. Fields the projection does not
// expose are dropped; if none remain the default order applies.
func (b *Builder) OrderBy(fields []SortField) *Builder {
	b.order = b.order[:0]
	for _, f := range fields {
		if _, ok := b.projection.Column(f.Field); ok {
			b.order = append(b.order, f)
		}
	}
	return b
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.order
	if len(fields) == 0 {
		fields = b.fallback
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms[i] = b.column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Select() + " FROM " + b.projection.Source()
}

// Select returns the ordered, unpaginated query.
func (b *Builder) Select() (string, []any) {
	return b.selectFrom() + b.whereClause() + b.orderClause(), b.args
}

// Count returns the row count query for the current filters.
func (b *Builder) Count() (string, []any) {
	return "SELECT COUNT(*) FROM " + b.projection.Source() + b.whereClause(), b.args
}

// Page returns the query for one 1-based page of size rows.
func (b *Builder) Page(page, size int) (string, []any) {
	offset := (page - 1) * size
	return b.selectFrom() + b.whereClause() + b.orderClause() +
		" LIMIT " + strconv.Itoa(size) + " OFFSET " + strconv.Itoa(offset), b.args
}
