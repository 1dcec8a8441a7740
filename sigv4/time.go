package sigv4

import (
	"time"
)

// SigningTime wraps the signing timestamp and caches the two formatted
// representations needed during one signing pass.
type SigningTime struct {
	time.Time
	timeFormat      string
	shortTimeFormat string
}

// NewSigningTime creates a SigningTime from t, normalized to UTC and
// truncated to second precision.
func NewSigningTime(t time.Time) SigningTime {
	return SigningTime{
		Time: t.UTC().Truncate(time.Second),
	}
}

// TimeFormat provides the time formatted as 20060102T150405Z.
func (m *SigningTime) TimeFormat() string {
	return m.format(&m.timeFormat, TimeFormat)
}

// ShortTimeFormat provides the time formatted as 20060102.
func (m *SigningTime) ShortTimeFormat() string {
	return m.format(&m.shortTimeFormat, ShortTimeFormat)
}

func (m *SigningTime) format(target *string, format string) string {
	if len(*target) > 0 {
		return *target
	}
	v := m.Time.Format(format)
	*target = v
	return v
}
