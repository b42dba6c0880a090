package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Date is a wrapper around gorm.io/datatypes.Date that stores and renders
// calendar dates as plain YYYY-MM-DD strings, without a time-of-day part.
type Date struct {
	datatypes.Date
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

// Today returns the current calendar date.
func Today() Date {
	return NewDate(time.Now())
}

// Time returns the underlying time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return time.Time(d.Date).IsZero()
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d.Date).Format("2006-01-02")
}

// Value stores the date as its YYYY-MM-DD form so that every supported
// dialect keeps a comparable literal.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts time, string, and byte representations from the drivers.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) parse(s string) error {
	if len(s) >= 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = NewDate(t)
	return nil
}

// GormDataType keeps the column a native DATE.
func (Date) GormDataType() string {
	return "date"
}

// GormDBDataType ensures the correct column type is used for each dialect.
func (Date) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlserver", "mssql":
		return "DATE"
	}
	return "date"
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and full timestamps; null and the
// empty string leave the date unset.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	return d.parse(s[1 : len(s)-1])
}
