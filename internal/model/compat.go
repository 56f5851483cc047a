package model

// Wire types for the compatibility API. Field names and casing follow
// the third-party protocol exactly; only the documented subset is
// populated, everything else is omitted or a constant placeholder.

// CompatTitle is a title entry in a branding response.
type CompatTitle struct {
	Title    string  `json:"title"`
	Original bool    `json:"original"`
	Votes    int32   `json:"votes"`
	Locked   bool    `json:"locked"`
	UUID     string  `json:"UUID"`
	UserID   *string `json:"userID,omitempty"`
}

// CompatThumbnail is a thumbnail entry in a branding response.
type CompatThumbnail struct {
	Timestamp *float64 `json:"timestamp"`
	Original  bool     `json:"original"`
	Votes     int32    `json:"votes"`
	Locked    bool     `json:"locked"`
	UUID      string   `json:"UUID"`
	UserID    *string  `json:"userID,omitempty"`
}

// CompatVideo is the per-video branding payload.
type CompatVideo struct {
	Titles        []CompatTitle     `json:"titles"`
	Thumbnails    []CompatThumbnail `json:"thumbnails"`
	RandomTime    float64           `json:"randomTime"`
	VideoDuration *float64          `json:"videoDuration"`
}

// CompatUserInfo is the userInfo payload. Unknown users echo their ID
// back with zero counts rather than erroring, matching the upstream
// protocol.
type CompatUserInfo struct {
	UserID                   string  `json:"userID"`
	UserName                 string  `json:"userName"`
	TitleSubmissionCount     int     `json:"titleSubmissionCount"`
	ThumbnailSubmissionCount int     `json:"thumbnailSubmissionCount"`
	VIP                      bool    `json:"vip"`
	Warnings                 int     `json:"warnings"`
	WarningReason            *string `json:"warningReason"`
	DeArrowWarningReason     *string `json:"deArrowWarningReason"`
}
