package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day. It decodes "2006-01-02" or RFC 3339 and encodes as "2006-01-02".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Present reports whether d holds a real day. Nil and zero dates are absent.
func (d *Date) Present() bool {
	return d != nil && !d.IsZero()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StatusRecord is the filing status of one GSTIN as reported by a provider.
type StatusRecord struct {
	GSTIN            string `json:"gstNumber"`
	BusinessName     string `json:"businessName"`
	LegalName        string `json:"legalName,omitempty"`
	StateCode        string `json:"stateCode,omitempty"`
	RegistrationDate *Date  `json:"registrationDate,omitempty"`
	BusinessType     string `json:"businessType,omitempty"`
	Status           string `json:"status"`
	IsFiled          bool   `json:"isFiled"`
	LastFiled        *Date  `json:"lastFiled,omitempty"`
	DueDate          *Date  `json:"dueDate,omitempty"`
	Address          string `json:"address,omitempty"`
	Contact          string `json:"contact,omitempty"`
	Turnover         string `json:"turnover,omitempty"`
	ComplianceScore  *int   `json:"complianceScore,omitempty"`
}

// UnmarshalJSON decodes a record and drops dates that were sent empty.
func (r *StatusRecord) UnmarshalJSON(b []byte) error {
	type plain StatusRecord
	if err := json.Unmarshal(b, (*plain)(r)); err != nil {
		return err
	}
	r.RegistrationDate = presentOrNil(r.RegistrationDate)
	r.LastFiled = presentOrNil(r.LastFiled)
	r.DueDate = presentOrNil(r.DueDate)
	return nil
}

func presentOrNil(d *Date) *Date {
	if !d.Present() {
		return nil
	}
	return d
}
