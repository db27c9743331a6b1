package listing

import (
	"net/url"
	"strings"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// Field names a filterable column.
type Field string

const (
	FieldOrganization Field = "organization"
	FieldUsername     Field = "username"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldDateJoined   Field = "dateJoined"
	FieldStatus       Field = "status"
)

// Fields lists the table columns in display order.
var Fields = []Field{
	FieldOrganization,
	FieldUsername,
	FieldEmail,
	FieldPhone,
	FieldDateJoined,
	FieldStatus,
}

// ParseField resolves a query value to a known column.
func ParseField(raw string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

// Header is the column heading: camel case split into upper-case words.
func (f Field) Header() string {
	var b strings.Builder
	for i, r := range string(f) {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Criteria holds one filter value per column. An empty value means unset.
type Criteria map[Field]string

// NewCriteria returns criteria with every column unset.
func NewCriteria() Criteria {
	c := make(Criteria, len(Fields))
	c.Reset()
	return c
}

// CriteriaFromQuery reads the filter form fields from a query string.
func CriteriaFromQuery(values url.Values) Criteria {
	c := NewCriteria()
	for _, f := range Fields {
		c.Set(f, values.Get(string(f)))
	}
	return c
}

// Set records the value for a column. Unknown columns are ignored.
func (c Criteria) Set(field Field, value string) {
	if _, ok := ParseField(string(field)); !ok {
		return
	}
	c[field] = value
}

// Get returns the value for a column.
func (c Criteria) Get(field Field) string {
	return c[field]
}

// Reset clears every column.
func (c Criteria) Reset() {
	for _, f := range Fields {
		c[f] = ""
	}
}

// Empty reports whether no column has a value.
func (c Criteria) Empty() bool {
	for _, f := range Fields {
		if c[f] != "" {
			return false
		}
	}
	return true
}

// Encode writes the non-empty values into q.
func (c Criteria) Encode(q url.Values) {
	for _, f := range Fields {
		if v := c[f]; v != "" {
			q.Set(string(f), v)
		}
	}
}

// Apply returns the rows to render for the given criteria.
//
// The criteria are collected and echoed back to the filter form, but the
// rendered rows are the unfiltered list: applying filters never narrows the
// table. Callers log the criteria.
func Apply(users []models.User, _ Criteria) []models.User {
	return users
}

// Popover tracks which column's filter popover is open.
type Popover struct {
	open Field
}

// NewPopover returns a popover state with raw as the open column, if valid.
func NewPopover(raw string) Popover {
	f, _ := ParseField(raw)
	return Popover{open: f}
}

// Click toggles the popover for a column header.
func (p *Popover) Click(field Field) {
	if p.open == field {
		p.open = ""
		return
	}
	p.open = field
}

// Close hides the popover.
func (p *Popover) Close() {
	p.open = ""
}

// Open returns the column whose popover is showing, or "".
func (p Popover) Open() Field {
	return p.open
}

// IsOpen reports whether field's popover is showing.
func (p Popover) IsOpen(field Field) bool {
	return p.open != "" && p.open == field
}
