package issuer

const (
	MinSize  = 4
	MaxSize  = 128
	MinViews = 1
	MaxViews = 5
	MinDays  = 1
	MaxDays  = 7

	MinPasswordLength = 4
	MaxPasswordLength = 128
)

// ShareOptions are the generator and availability controls of the issue form.
type ShareOptions struct {
	Size           int  `json:"size"`
	IncludeNumbers bool `json:"include_numbers"`
	IncludeSymbols bool `json:"include_symbols"`
	ViewsLeft      int  `json:"views_left"`
	DaysAvailable  int  `json:"days_available"`
}

func DefaultShareOptions() ShareOptions {
	return ShareOptions{
		Size:           16,
		IncludeNumbers: true,
		IncludeSymbols: true,
		ViewsLeft:      1,
		DaysAvailable:  1,
	}
}

// Clamped pulls every numeric field into its allowed range.
func (o ShareOptions) Clamped() ShareOptions {
	o.Size = clamp(o.Size, MinSize, MaxSize)
	o.ViewsLeft = clamp(o.ViewsLeft, MinViews, MaxViews)
	o.DaysAvailable = clamp(o.DaysAvailable, MinDays, MaxDays)
	return o
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
