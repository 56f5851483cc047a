package model

// Username is a claimed display name for a user hash.
type Username struct {
	UserID string
	Name   string
	Locked bool
}

// WarningSource identifies which moderation tool issued a warning.
type WarningSource int8

const (
	SourceSponsorBlock WarningSource = iota
	SourceDeArrow
)

// Warning is a moderator warning issued against a user.
type Warning struct {
	WarnedUserID string
	IssuerUserID string
	TimeIssued   int64
	Source       WarningSource
	Message      string
	Active       bool
}

// UncutSegment is a stretch of a video not covered by any marked
// segment, expressed as fractions of the video duration.
type UncutSegment struct {
	Offset float64
	Length float64
}

// VideoInfo is duration and segment coverage for one video, extracted
// from the optional segment reference table.
type VideoInfo struct {
	VideoID       string
	Duration      float64
	UncutSegments []UncutSegment
	HasOutro      bool
}

// FractionUnmarked is the total fraction of the video not covered by
// marked segments.
func (v *VideoInfo) FractionUnmarked() float64 {
	var sum float64
	for _, s := range v.UncutSegments {
		sum += s.Length
	}
	return sum
}
