package domain

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day encoded as YYYY-MM-DD on the wire
type Date struct {
	time.Time
}

// UnmarshalJSON accepts both plain dates and full RFC 3339 timestamps
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date as YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// String returns date in YYYY-MM-DD format
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
