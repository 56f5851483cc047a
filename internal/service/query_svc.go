package service

import (
	"sort"
	"time"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/model"
	"github.com/m-curtis/altmeta/pkg/hash"
)

// Sort selects the ordering of filtered listings.
type Sort uint8

const (
	// SortNewest orders by submission time descending.
	SortNewest Sort = iota
	// SortScore orders by score descending, oldest first on ties.
	// Locked entries pin to the maximum score and lead the listing.
	SortScore
)

// Filter narrows title and thumbnail listings. Nil pointer fields
// leave that dimension unconstrained.
type Filter struct {
	VideoID     string
	UserID      string
	MinScore    *int32
	Original    *bool
	Locked      *bool
	VisibleOnly bool
	Sort        Sort
}

// QueryService answers native API queries against the current
// snapshot. Every method reads the snapshot pointer exactly once, so
// a reload midway through a request cannot produce a torn view.
type QueryService struct {
	store       *dataset.Store
	rand        RandomSource
	maxPageSize int
	startedAt   time.Time
	version     string
}

func NewQueryService(store *dataset.Store, rand RandomSource, maxPageSize int, version string) *QueryService {
	return &QueryService{
		store:       store,
		rand:        rand,
		maxPageSize: maxPageSize,
		startedAt:   time.Now(),
		version:     version,
	}
}

func (s *QueryService) snapshot() (*dataset.Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, dataset.ErrNoSnapshot
	}
	return snap, nil
}

// Status reports the vitals of the current snapshot. Unlike the other
// queries it succeeds before the first reload, reporting zeroes, so
// health tooling has something to scrape during startup.
func (s *QueryService) Status() *model.StatusResponse {
	resp := &model.StatusResponse{
		UpdatingNow:   s.store.Updating(),
		StartupTime:   s.startedAt.UnixMilli(),
		ServerVersion: s.version,
	}
	snap := s.store.Current()
	if snap == nil {
		return resp
	}
	resp.LastUpdated = snap.LastUpdated.UnixMilli()
	resp.LastModified = snap.LastModified.UnixMilli()
	resp.Titles = len(snap.Data.Titles)
	resp.Thumbnails = len(snap.Data.Thumbnails)
	resp.Usernames = len(snap.Data.Usernames)
	resp.VIPUsers = len(snap.Data.VIPs)
	resp.Warnings = len(snap.Data.Warnings)
	resp.VideoInfos = len(snap.Data.VideoInfos)
	resp.UncutSegments = snap.Data.UncutSegmentCount()
	resp.Errors = snap.Stats.DiagnosticCount()
	return resp
}

// TitleByUUID resolves one title by its uuid, removed or not.
func (s *QueryService) TitleByUUID(uuid string) (*model.TitleResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	h, ok := snap.Index.ByUUID[uuid]
	if !ok || h.Kind != dataset.KindTitle {
		return nil, dataset.ErrNotFound
	}
	resp := titleResponse(snap, &snap.Data.Titles[h.Index])
	return &resp, nil
}

// ThumbnailByUUID resolves one thumbnail by its uuid.
func (s *QueryService) ThumbnailByUUID(uuid string) (*model.ThumbnailResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	h, ok := snap.Index.ByUUID[uuid]
	if !ok || h.Kind != dataset.KindThumbnail {
		return nil, dataset.ErrNotFound
	}
	resp := thumbnailResponse(snap, &snap.Data.Thumbnails[h.Index])
	return &resp, nil
}

// TitlesByVideo lists every title for a video, newest first, removed
// and shadow-hidden included. This is the audit view.
func (s *QueryService) TitlesByVideo(videoID string) ([]model.TitleResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	idx := snap.Index.TitlesByVideo[videoID]
	out := make([]model.TitleResponse, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		out = append(out, titleResponse(snap, &snap.Data.Titles[idx[i]]))
	}
	return out, nil
}

// ThumbnailsByVideo lists every thumbnail for a video, newest first.
func (s *QueryService) ThumbnailsByVideo(videoID string) ([]model.ThumbnailResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	idx := snap.Index.ThumbnailsByVideo[videoID]
	out := make([]model.ThumbnailResponse, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		out = append(out, thumbnailResponse(snap, &snap.Data.Thumbnails[idx[i]]))
	}
	return out, nil
}

// Video assembles the full detail view for one video: all submissions
// plus playback info and a deterministic random thumbnail time.
// Unknown videos return ErrNotFound.
func (s *QueryService) Video(videoID string) (*model.VideoResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	titles := snap.Index.TitlesByVideo[videoID]
	thumbs := snap.Index.ThumbnailsByVideo[videoID]
	info := snap.Data.VideoInfos[videoID]
	if len(titles) == 0 && len(thumbs) == 0 && info == nil {
		return nil, dataset.ErrNotFound
	}

	resp := &model.VideoResponse{
		VideoID:          videoID,
		Titles:           make([]model.TitleResponse, 0, len(titles)),
		Thumbnails:       make([]model.ThumbnailResponse, 0, len(thumbs)),
		RandomThumbnail:  RandomTimeForVideo(s.rand, videoID, info),
		FractionUnmarked: 1,
	}
	for i := len(titles) - 1; i >= 0; i-- {
		resp.Titles = append(resp.Titles, titleResponse(snap, &snap.Data.Titles[titles[i]]))
	}
	for i := len(thumbs) - 1; i >= 0; i-- {
		resp.Thumbnails = append(resp.Thumbnails, thumbnailResponse(snap, &snap.Data.Thumbnails[thumbs[i]]))
	}
	if info != nil {
		d := info.Duration
		resp.Duration = &d
		resp.FractionUnmarked = info.FractionUnmarked()
		resp.HasOutro = info.HasOutro
	}
	return resp, nil
}

// RandomSampleForVideo returns the deterministic random playback
// fraction for a video, plus one visible submission picked uniformly
// among the video's visible titles and thumbnails. Both draws come
// from the injected random source, so replicas serving the same
// snapshot agree on the result.
func (s *QueryService) RandomSampleForVideo(videoID string) (*model.RandomSampleResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	titles := snap.Index.TitlesByVideo[videoID]
	thumbs := snap.Index.ThumbnailsByVideo[videoID]
	info := snap.Data.VideoInfos[videoID]
	if len(titles) == 0 && len(thumbs) == 0 && info == nil {
		return nil, dataset.ErrNotFound
	}

	resp := &model.RandomSampleResponse{
		VideoID:    videoID,
		RandomTime: RandomTimeForVideo(s.rand, videoID, info),
	}

	var visTitles, visThumbs []int
	for _, i := range titles {
		if snap.Data.Titles[i].Visible() {
			visTitles = append(visTitles, i)
		}
	}
	for _, i := range thumbs {
		if snap.Data.Thumbnails[i].Visible() {
			visThumbs = append(visThumbs, i)
		}
	}
	n := len(visTitles) + len(visThumbs)
	if n == 0 {
		return resp, nil
	}

	pick := int(s.rand.Fraction("sample:"+videoID) * float64(n))
	if pick >= n {
		pick = n - 1
	}
	if pick < len(visTitles) {
		t := titleResponse(snap, &snap.Data.Titles[visTitles[pick]])
		resp.Kind = "title"
		resp.Title = &t
	} else {
		t := thumbnailResponse(snap, &snap.Data.Thumbnails[visThumbs[pick-len(visTitles)]])
		resp.Kind = "thumbnail"
		resp.Thumbnail = &t
	}
	return resp, nil
}

// User assembles the profile view for a user hash. Unknown users echo
// the id back with zero counts; the dataset cannot distinguish "never
// submitted" from "does not exist".
func (s *QueryService) User(userID string) (*model.UserResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	resp := &model.UserResponse{UserID: userID, VIP: snap.Data.IsVIP(userID)}
	if name, ok := snap.Data.Usernames[userID]; ok {
		n := name.Name
		resp.Username = &n
		resp.UsernameLocked = name.Locked
	}
	agg := snap.Index.Users[userID]
	if agg == nil {
		return resp, nil
	}
	resp.TitleCount = len(agg.Titles)
	resp.VisibleTitleCount = agg.VisibleTitles
	resp.ThumbnailCount = len(agg.Thumbnails)
	resp.VisibleThumbnailCount = agg.VisibleThumbnails
	var latest *model.Warning
	for _, wi := range agg.Warnings {
		w := &snap.Data.Warnings[wi]
		if !w.Active {
			continue
		}
		resp.WarningCount++
		if latest == nil || w.TimeIssued > latest.TimeIssued {
			latest = w
		}
	}
	if latest != nil {
		m := latest.Message
		resp.WarningReason = &m
	}
	return resp, nil
}

// TitlesByUser lists a user's titles, newest first, paginated.
func (s *QueryService) TitlesByUser(userID string, page, pageSize int) (*model.Page[model.TitleResponse], error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(page, pageSize); err != nil {
		return nil, err
	}
	var idx []int
	if agg := snap.Index.Users[userID]; agg != nil {
		idx = agg.Titles
	}
	out := &model.Page[model.TitleResponse]{
		Items:    []model.TitleResponse{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(idx),
	}
	lo, hi := pageBounds(len(idx), page, pageSize)
	for i := lo; i < hi; i++ {
		// idx is oldest-first; walk from the back for newest-first.
		out.Items = append(out.Items, titleResponse(snap, &snap.Data.Titles[idx[len(idx)-1-i]]))
	}
	return out, nil
}

// ThumbnailsByUser lists a user's thumbnails, newest first, paginated.
func (s *QueryService) ThumbnailsByUser(userID string, page, pageSize int) (*model.Page[model.ThumbnailResponse], error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(page, pageSize); err != nil {
		return nil, err
	}
	var idx []int
	if agg := snap.Index.Users[userID]; agg != nil {
		idx = agg.Thumbnails
	}
	out := &model.Page[model.ThumbnailResponse]{
		Items:    []model.ThumbnailResponse{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(idx),
	}
	lo, hi := pageBounds(len(idx), page, pageSize)
	for i := lo; i < hi; i++ {
		out.Items = append(out.Items, thumbnailResponse(snap, &snap.Data.Thumbnails[idx[len(idx)-1-i]]))
	}
	return out, nil
}

// SearchByHashPrefix resolves a hex prefix of the sha256 video hash
// to the matching video ids. Any prefix length from one character up
// to a full digest is accepted; no match is an empty result.
func (s *QueryService) SearchByHashPrefix(prefix string) ([]string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !hash.IsHexPrefix(prefix) {
		return nil, dataset.ErrInvalidParameter
	}
	out := snap.Index.VideosByHashPrefix(prefix)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// ListTitles returns a filtered, ordered, paginated title listing.
func (s *QueryService) ListTitles(f Filter, page, pageSize int) (*model.Page[model.TitleResponse], error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(page, pageSize); err != nil {
		return nil, err
	}

	var matched []int
	for i := range snap.Data.Titles {
		t := &snap.Data.Titles[i]
		if f.VideoID != "" && t.VideoID != f.VideoID {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.VisibleOnly && !t.Visible() {
			continue
		}
		if f.MinScore != nil && t.Score() < *f.MinScore {
			continue
		}
		if f.Original != nil && t.Flags.Has(model.TitleOriginal) != *f.Original {
			continue
		}
		if f.Locked != nil && t.Flags.Has(model.TitleLocked) != *f.Locked {
			continue
		}
		matched = append(matched, i)
	}

	switch f.Sort {
	case SortScore:
		sort.SliceStable(matched, func(a, b int) bool {
			ta, tb := &snap.Data.Titles[matched[a]], &snap.Data.Titles[matched[b]]
			if sa, sb := ta.Score(), tb.Score(); sa != sb {
				return sa > sb
			}
			return ta.TimeSubmitted < tb.TimeSubmitted
		})
	default:
		// Dataset order is oldest-first; reverse for newest-first.
		reverse(matched)
	}

	out := &model.Page[model.TitleResponse]{
		Items:    []model.TitleResponse{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(matched),
	}
	lo, hi := pageBounds(len(matched), page, pageSize)
	for _, i := range matched[lo:hi] {
		out.Items = append(out.Items, titleResponse(snap, &snap.Data.Titles[i]))
	}
	return out, nil
}

// ListThumbnails returns a filtered, ordered, paginated thumbnail
// listing.
func (s *QueryService) ListThumbnails(f Filter, page, pageSize int) (*model.Page[model.ThumbnailResponse], error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := s.checkPage(page, pageSize); err != nil {
		return nil, err
	}

	var matched []int
	for i := range snap.Data.Thumbnails {
		t := &snap.Data.Thumbnails[i]
		if f.VideoID != "" && t.VideoID != f.VideoID {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.VisibleOnly && !t.Visible() {
			continue
		}
		if f.MinScore != nil && t.Score() < *f.MinScore {
			continue
		}
		if f.Original != nil && t.Flags.Has(model.ThumbnailOriginal) != *f.Original {
			continue
		}
		if f.Locked != nil && t.Flags.Has(model.ThumbnailLocked) != *f.Locked {
			continue
		}
		matched = append(matched, i)
	}

	switch f.Sort {
	case SortScore:
		sort.SliceStable(matched, func(a, b int) bool {
			ta, tb := &snap.Data.Thumbnails[matched[a]], &snap.Data.Thumbnails[matched[b]]
			if sa, sb := ta.Score(), tb.Score(); sa != sb {
				return sa > sb
			}
			return ta.TimeSubmitted < tb.TimeSubmitted
		})
	default:
		reverse(matched)
	}

	out := &model.Page[model.ThumbnailResponse]{
		Items:    []model.ThumbnailResponse{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(matched),
	}
	lo, hi := pageBounds(len(matched), page, pageSize)
	for _, i := range matched[lo:hi] {
		out.Items = append(out.Items, thumbnailResponse(snap, &snap.Data.Thumbnails[i]))
	}
	return out, nil
}

func (s *QueryService) checkPage(page, pageSize int) error {
	if page < 1 || pageSize < 1 || pageSize > s.maxPageSize {
		return dataset.ErrInvalidParameter
	}
	return nil
}

func pageBounds(total, page, pageSize int) (int, int) {
	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return lo, hi
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func titleResponse(snap *dataset.Snapshot, t *model.Title) model.TitleResponse {
	resp := model.TitleResponse{
		UUID:          t.UUID,
		VideoID:       t.VideoID,
		Title:         t.Title,
		UserID:        t.UserID,
		TimeSubmitted: t.TimeSubmitted,
		Votes:         t.Votes,
		Downvotes:     t.Downvotes,
		Original:      t.Flags.Has(model.TitleOriginal),
		Locked:        t.Flags.Has(model.TitleLocked),
		ShadowHidden:  t.Flags.Has(model.TitleShadowHidden),
		Unverified:    t.Flags.Has(model.TitleUnverified),
		Removed:       t.Flags.Has(model.TitleRemoved),
		VotesMissing:  t.Flags.Has(model.TitleMissingVotes),
		Score:         t.Score(),
		VIP:           snap.Data.IsVIP(t.UserID),
	}
	if name, ok := snap.Data.Usernames[t.UserID]; ok {
		n := name.Name
		resp.Username = &n
	}
	return resp
}

func thumbnailResponse(snap *dataset.Snapshot, t *model.Thumbnail) model.ThumbnailResponse {
	resp := model.ThumbnailResponse{
		UUID:             t.UUID,
		VideoID:          t.VideoID,
		UserID:           t.UserID,
		TimeSubmitted:    t.TimeSubmitted,
		Timestamp:        t.Timestamp,
		Votes:            t.Votes,
		Downvotes:        t.Downvotes,
		Original:         t.Flags.Has(model.ThumbnailOriginal),
		Locked:           t.Flags.Has(model.ThumbnailLocked),
		ShadowHidden:     t.Flags.Has(model.ThumbnailShadowHidden),
		Removed:          t.Flags.Has(model.ThumbnailRemoved),
		VotesMissing:     t.Flags.Has(model.ThumbnailMissingVotes),
		TimestampMissing: t.Flags.Has(model.ThumbnailMissingTimestamp),
		Score:            t.Score(),
		VIP:              snap.Data.IsVIP(t.UserID),
	}
	if name, ok := snap.Data.Usernames[t.UserID]; ok {
		n := name.Name
		resp.Username = &n
	}
	return resp
}
