// Package expiry turns the "days available" slider into the expire_at sent
// with a share request.
package expiry

import "time"

type Variant int

const (
	// Generated is used when the backend generates the password:
	// now + days*24h.
	Generated Variant = iota
	// Custom is used when the user supplies the password:
	// now + (days*24 + 1)h. The extra hour differs from Generated and is kept
	// until product decides whether the two paths should agree.
	Custom
)

func (v Variant) String() string {
	switch v {
	case Generated:
		return "generated"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

func (v Variant) hours(days int) int {
	if v == Custom {
		return days*24 + 1
	}
	return days * 24
}

// ComputeExpireAt returns nil when daysAvailable <= 1, leaving the backend
// default in place.
func ComputeExpireAt(now time.Time, daysAvailable int, v Variant) *time.Time {
	if daysAvailable <= 1 {
		return nil
	}
	at := now.Add(time.Duration(v.hours(daysAvailable)) * time.Hour).UTC()
	return &at
}
