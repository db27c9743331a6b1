package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is rendered in place of any field the upstream record omits.
const NotAvailable = "N/A"

// User is one record of the upstream user list. The upstream document has no
// schema: every field is optional, text fields may arrive as numbers or
// booleans and the identifier may be a JSON number or a string.
type User struct {
	ID           ID     `json:"id"`
	Organization string `json:"organization,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	DateJoined   string `json:"dateJoined,omitempty"`
	Status       string `json:"status,omitempty"`
	Loans        Amount `json:"loans,omitempty"`
	Savings      Amount `json:"savings,omitempty"`
}

// userWire mirrors User with every text field decoded leniently.
type userWire struct {
	ID           ID     `json:"id"`
	Organization Text   `json:"organization"`
	Username     Text   `json:"username"`
	Email        Text   `json:"email"`
	Phone        Text   `json:"phone"`
	DateJoined   Text   `json:"dateJoined"`
	Status       Text   `json:"status"`
	Loans        Amount `json:"loans"`
	Savings      Amount `json:"savings"`
}

// UnmarshalJSON decodes a record without rejecting mistyped fields.
func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = User{
		ID:           w.ID,
		Organization: string(w.Organization),
		Username:     string(w.Username),
		Email:        string(w.Email),
		Phone:        string(w.Phone),
		DateJoined:   string(w.DateJoined),
		Status:       string(w.Status),
		Loans:        w.Loans,
		Savings:      w.Savings,
	}
	return nil
}

// HasLoans reports whether the record carries a positive loan indicator.
func (u User) HasLoans() bool {
	return u.Loans > 0
}

// HasSavings reports whether the record carries a positive savings indicator.
func (u User) HasSavings() bool {
	return u.Savings > 0
}

// JoinedOn renders DateJoined as a short month/day/year date. Values that do
// not parse are returned unchanged.
func (u User) JoinedOn() string {
	raw := strings.TrimSpace(u.DateJoined)
	if raw == "" {
		return NotAvailable
	}
	for _, layout := range joinedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

var joinedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ID is a record identifier normalised to its textual form.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = ID(n.String())
		return nil
	}
}

// Text is a display value that may arrive as any JSON scalar. Numbers keep
// their literal form and booleans read as "true" or "false".
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null. Objects and
// arrays keep their compact JSON text.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		*t = Text(data)
	}
	return nil
}

// Amount is a loosely typed numeric indicator. Numeric strings are accepted,
// true counts as 1 and anything unparsable counts as zero.
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings, booleans and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("true")) {
		*a = 1
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}
