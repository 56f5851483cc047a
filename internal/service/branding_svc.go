package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/model"
	"github.com/m-curtis/altmeta/pkg/hash"
)

// BrandingService answers queries in the third-party branding wire
// format. It applies that protocol's stricter visibility thresholds
// instead of the native audit-view semantics.
type BrandingService struct {
	store *dataset.Store
	rand  RandomSource
}

func NewBrandingService(store *dataset.Store, rand RandomSource) *BrandingService {
	return &BrandingService{store: store, rand: rand}
}

// VideoBranding builds the branding payload for one video. fetchAll
// relaxes the score threshold so clients can offer downvoted
// suggestions; returnUserID attaches submitter hashes. The found
// return is false for videos the mirror knows nothing about and for
// any service other than YouTube; clients read a 404 status off that
// to mean "no branding", so the payload is still built either way.
func (s *BrandingService) VideoBranding(videoID string, fetchAll, returnUserID bool, serviceName string) (*model.CompatVideo, bool, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, false, dataset.ErrNoSnapshot
	}

	resp := &model.CompatVideo{
		Titles:     []model.CompatTitle{},
		Thumbnails: []model.CompatThumbnail{},
	}
	info := snap.Data.VideoInfos[videoID]
	resp.RandomTime = RandomTimeForVideo(s.rand, videoID, info)
	if info != nil {
		d := info.Duration
		resp.VideoDuration = &d
	}
	if serviceName != "" && serviceName != "YouTube" {
		return resp, false, nil
	}

	titles := snap.Index.TitlesByVideo[videoID]
	thumbs := snap.Index.ThumbnailsByVideo[videoID]
	if len(titles) == 0 && len(thumbs) == 0 && info == nil {
		return resp, false, nil
	}

	for _, i := range titles {
		t := &snap.Data.Titles[i]
		if ct, ok := compatTitle(t, fetchAll, returnUserID); ok {
			resp.Titles = append(resp.Titles, ct)
		}
	}
	for _, i := range thumbs {
		t := &snap.Data.Thumbnails[i]
		if ct, ok := compatThumbnail(t, fetchAll, returnUserID); ok {
			resp.Thumbnails = append(resp.Thumbnails, ct)
		}
	}
	sortCompatTitles(resp.Titles)
	sortCompatThumbnails(resp.Thumbnails)
	return resp, true, nil
}

// ChunkBranding builds branding payloads for every video whose hash
// starts with the given 4-character prefix, keyed by video id. The
// prefix length is fixed by the protocol. Like VideoBranding, a
// service other than YouTube reports not found.
func (s *BrandingService) ChunkBranding(prefix string, fetchAll, returnUserID bool, serviceName string) (map[string]*model.CompatVideo, bool, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, false, dataset.ErrNoSnapshot
	}
	p16, err := hash.ParsePrefix16(prefix)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", dataset.ErrInvalidParameter, err)
	}
	if serviceName != "" && serviceName != "YouTube" {
		return map[string]*model.CompatVideo{}, false, nil
	}

	// Collect candidate videos from submissions carrying the prefix
	// plus any known video whose full hash matches.
	videos := make(map[string]struct{})
	for i := range snap.Data.Titles {
		if snap.Data.Titles[i].HashPrefix == p16 {
			videos[snap.Data.Titles[i].VideoID] = struct{}{}
		}
	}
	for i := range snap.Data.Thumbnails {
		if snap.Data.Thumbnails[i].HashPrefix == p16 {
			videos[snap.Data.Thumbnails[i].VideoID] = struct{}{}
		}
	}
	for _, v := range snap.Index.VideosByHashPrefix(strings.ToLower(prefix)) {
		videos[v] = struct{}{}
	}

	out := make(map[string]*model.CompatVideo, len(videos))
	for videoID := range videos {
		cv, _, err := s.VideoBranding(videoID, fetchAll, returnUserID, "")
		if err != nil {
			return nil, false, err
		}
		if len(cv.Titles) == 0 && len(cv.Thumbnails) == 0 && cv.VideoDuration == nil {
			continue
		}
		out[videoID] = cv
	}
	return out, true, nil
}

// UserInfo builds the userInfo payload. Unknown users echo their id
// back with zero counts; userName falls back to the id when no name
// is claimed.
func (s *BrandingService) UserInfo(userID string) (*model.CompatUserInfo, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, dataset.ErrNoSnapshot
	}

	resp := &model.CompatUserInfo{
		UserID:   userID,
		UserName: userID,
		VIP:      snap.Data.IsVIP(userID),
	}
	if name, ok := snap.Data.Usernames[userID]; ok {
		resp.UserName = name.Name
	}
	agg := snap.Index.Users[userID]
	if agg == nil {
		return resp, nil
	}

	for _, i := range agg.Titles {
		if snap.Data.Titles[i].Votes >= 0 {
			resp.TitleSubmissionCount++
		}
	}
	for _, i := range agg.Thumbnails {
		if snap.Data.Thumbnails[i].Votes >= 0 {
			resp.ThumbnailSubmissionCount++
		}
	}

	var latestSB, latestDA *model.Warning
	for _, wi := range agg.Warnings {
		w := &snap.Data.Warnings[wi]
		if !w.Active {
			continue
		}
		switch w.Source {
		case model.SourceSponsorBlock:
			resp.Warnings++
			if latestSB == nil || w.TimeIssued > latestSB.TimeIssued {
				latestSB = w
			}
		case model.SourceDeArrow:
			if latestDA == nil || w.TimeIssued > latestDA.TimeIssued {
				latestDA = w
			}
		}
	}
	if latestSB != nil {
		m := latestSB.Message
		resp.WarningReason = &m
	}
	if latestDA != nil {
		m := latestDA.Message
		resp.DeArrowWarningReason = &m
	}
	return resp, nil
}

// compatTitle converts a title for the wire, or rejects it under the
// protocol's visibility rules.
func compatTitle(t *model.Title, fetchAll, returnUserID bool) (model.CompatTitle, bool) {
	score := t.Votes - t.Downvotes
	unverified := t.Flags.Has(model.TitleUnverified)
	if t.Votes <= -1 || score <= -2 {
		return model.CompatTitle{}, false
	}
	if t.Flags.Has(model.TitleRemoved | model.TitleShadowHidden | model.TitleMissingVotes) {
		return model.CompatTitle{}, false
	}
	threshold := int32(0)
	if unverified {
		threshold = 1
	}
	if !fetchAll && !t.Flags.Has(model.TitleLocked) && score < threshold {
		return model.CompatTitle{}, false
	}

	wireVotes := score
	if unverified {
		wireVotes--
	}
	ct := model.CompatTitle{
		// Guard the replacement marker against raw angle brackets.
		Title:    strings.ReplaceAll(t.Title, "<", "‹"),
		Original: t.Flags.Has(model.TitleOriginal),
		Votes:    wireVotes,
		Locked:   t.Flags.Has(model.TitleLocked),
		UUID:     t.UUID,
	}
	if returnUserID {
		id := t.UserID
		ct.UserID = &id
	}
	return ct, true
}

// compatThumbnail converts a thumbnail for the wire, or rejects it.
func compatThumbnail(t *model.Thumbnail, fetchAll, returnUserID bool) (model.CompatThumbnail, bool) {
	score := t.Votes - t.Downvotes
	original := t.Flags.Has(model.ThumbnailOriginal)
	if score <= -2 {
		return model.CompatThumbnail{}, false
	}
	if t.Flags.Has(model.ThumbnailRemoved | model.ThumbnailShadowHidden |
		model.ThumbnailMissingVotes | model.ThumbnailMissingTimestamp) {
		return model.CompatThumbnail{}, false
	}
	threshold := int32(0)
	if original {
		// Original-thumbnail elections need an explicit upvote.
		threshold = 1
	}
	switch {
	case t.Flags.Has(model.ThumbnailLocked):
	case fetchAll && !original:
	case score >= threshold:
	default:
		return model.CompatThumbnail{}, false
	}

	ct := model.CompatThumbnail{
		Timestamp: t.Timestamp,
		Original:  original,
		Votes:     score,
		Locked:    t.Flags.Has(model.ThumbnailLocked),
		UUID:      t.UUID,
	}
	if returnUserID {
		id := t.UserID
		ct.UserID = &id
	}
	return ct, true
}

func sortCompatTitles(titles []model.CompatTitle) {
	sort.SliceStable(titles, func(a, b int) bool {
		if titles[a].Locked != titles[b].Locked {
			return titles[a].Locked
		}
		return titles[a].Votes > titles[b].Votes
	})
}

func sortCompatThumbnails(thumbs []model.CompatThumbnail) {
	sort.SliceStable(thumbs, func(a, b int) bool {
		if thumbs[a].Locked != thumbs[b].Locked {
			return thumbs[a].Locked
		}
		if thumbs[a].Votes != thumbs[b].Votes {
			return thumbs[a].Votes > thumbs[b].Votes
		}
		return !thumbs[a].Original && thumbs[b].Original
	})
}
