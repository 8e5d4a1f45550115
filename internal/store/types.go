package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width RFC 3339 so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// dbTime stores a UTC timestamp as RFC 3339 text so the same column type
// works on SQLite and PostgreSQL.
type dbTime time.Time

func (t dbTime) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(timeLayout), nil
}

func (t *dbTime) Scan(src any) error {
	parsed, err := parseTime(src)
	if err != nil {
		return err
	}
	*t = dbTime(parsed)
	return nil
}

// Time returns the value as time.Time.
func (t dbTime) Time() time.Time {
	return time.Time(t)
}

// dbNullTime is a nullable dbTime.
type dbNullTime struct {
	Time  time.Time
	Valid bool
}

func (t dbNullTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time.UTC().Format(timeLayout), nil
}

func (t *dbNullTime) Scan(src any) error {
	if src == nil {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}
	parsed, err := parseTime(src)
	if err != nil {
		return err
	}
	t.Time, t.Valid = parsed, true
	return nil
}

func nullTimeFrom(t *time.Time) dbNullTime {
	if t == nil {
		return dbNullTime{}
	}
	return dbNullTime{Time: *t, Valid: true}
}

func (t dbNullTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func parseTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported time value %T", src)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// now returns the current time truncated to what survives a text round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newID generates a UUID v7 entity ID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
