// Package query builds the parameterized SELECT statements behind paginated
// listings.
package query

import "strings"

// Projection maps logical field names to qualified columns of one table
// and its joins. Field order is the SELECT order.
type Projection struct {
	source  string
	alias   string
	columns []string
	fields  map[string]string
}

// From starts a projection over table with alias.
func From(table, alias string) *Projection {
	return &Projection{
		source: table + " " + alias,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Field exposes column of the base table as name.
func (p *Projection) Field(name, column string) *Projection {
	return p.FieldOf(p.alias, name, column)
}

// FieldOf exposes column of a joined alias as name.
func (p *Projection) FieldOf(alias, name, column string) *Projection {
	qualified := alias + "." + column
	p.fields[name] = qualified
	p.columns = append(p.columns, qualified)
	return p
}

// LeftJoin adds a LEFT JOIN of table under alias.
func (p *Projection) LeftJoin(table, alias, on string) *Projection {
	p.source += " LEFT JOIN " + table + " " + alias + " ON " + on
	return p
}

// Source returns the FROM clause body.
func (p *Projection) Source() string {
	return p.source
}

// Select returns the column list.
func (p *Projection) Select() string {
	return strings.Join(p.columns, ", ")
}

// Column resolves a field name. Unknown names report false.
func (p *Projection) Column(name string) (string, bool) {
	col, ok := p.fields[name]
	return col, ok
}
