package model

// TitleResponse is the API view of a Title, enriched with submitter
// details resolved against the same snapshot.
type TitleResponse struct {
	UUID          string  `json:"uuid"`
	VideoID       string  `json:"videoId"`
	Title         string  `json:"title"`
	UserID        string  `json:"userId"`
	TimeSubmitted int64   `json:"timeSubmitted"`
	Votes         int32   `json:"votes"`
	Downvotes     int32   `json:"downvotes"`
	Original      bool    `json:"original"`
	Locked        bool    `json:"locked"`
	ShadowHidden  bool    `json:"shadowHidden"`
	Unverified    bool    `json:"unverified"`
	Removed       bool    `json:"removed"`
	VotesMissing  bool    `json:"votesMissing"`
	Score         int32   `json:"score"`
	Username      *string `json:"username,omitempty"`
	VIP           bool    `json:"vip"`
}

// ThumbnailResponse is the API view of a Thumbnail.
type ThumbnailResponse struct {
	UUID             string   `json:"uuid"`
	VideoID          string   `json:"videoId"`
	UserID           string   `json:"userId"`
	TimeSubmitted    int64    `json:"timeSubmitted"`
	Timestamp        *float64 `json:"timestamp,omitempty"`
	Votes            int32    `json:"votes"`
	Downvotes        int32    `json:"downvotes"`
	Original         bool     `json:"original"`
	Locked           bool     `json:"locked"`
	ShadowHidden     bool     `json:"shadowHidden"`
	Removed          bool     `json:"removed"`
	VotesMissing     bool     `json:"votesMissing"`
	TimestampMissing bool     `json:"timestampMissing"`
	Score            int32    `json:"score"`
	Username         *string  `json:"username,omitempty"`
	VIP              bool     `json:"vip"`
}

// UserResponse is the API view of a derived user aggregate.
type UserResponse struct {
	UserID                string  `json:"userId"`
	Username              *string `json:"username,omitempty"`
	UsernameLocked        bool    `json:"usernameLocked"`
	VIP                   bool    `json:"vip"`
	TitleCount            int     `json:"titleCount"`
	VisibleTitleCount     int     `json:"visibleTitleCount"`
	ThumbnailCount        int     `json:"thumbnailCount"`
	VisibleThumbnailCount int     `json:"visibleThumbnailCount"`
	WarningCount          int     `json:"warningCount"`
	WarningReason         *string `json:"warningReason,omitempty"`
}

// VideoResponse is the API view of a video with its submissions.
type VideoResponse struct {
	VideoID          string              `json:"videoId"`
	Titles           []TitleResponse     `json:"titles"`
	Thumbnails       []ThumbnailResponse `json:"thumbnails"`
	RandomThumbnail  float64             `json:"randomThumbnail"`
	Duration         *float64            `json:"duration,omitempty"`
	FractionUnmarked float64             `json:"fractionUnmarked"`
	HasOutro         bool                `json:"hasOutro"`
}

// StatusResponse is the API view of the current snapshot's vitals.
type StatusResponse struct {
	LastUpdated   int64  `json:"lastUpdated"`
	LastModified  int64  `json:"lastModified"`
	UpdatingNow   bool   `json:"updatingNow"`
	Titles        int    `json:"titles"`
	Thumbnails    int    `json:"thumbnails"`
	Usernames     int    `json:"usernames"`
	VIPUsers      int    `json:"vipUsers"`
	Warnings      int    `json:"warnings"`
	VideoInfos    int    `json:"videoInfos"`
	UncutSegments int    `json:"uncutSegments"`
	Errors        int    `json:"errors"`
	StartupTime   int64  `json:"startupTimestamp"`
	ServerVersion string `json:"serverVersion"`
}

// RandomSampleResponse is one uniformly-picked visible submission for
// a video plus the deterministic random playback fraction. Kind is
// empty when the video has no visible submissions.
type RandomSampleResponse struct {
	VideoID    string             `json:"videoId"`
	RandomTime float64            `json:"randomTime"`
	Kind       string             `json:"kind,omitempty"`
	Title      *TitleResponse     `json:"title,omitempty"`
	Thumbnail  *ThumbnailResponse `json:"thumbnail,omitempty"`
}

// Page wraps a paginated listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}
