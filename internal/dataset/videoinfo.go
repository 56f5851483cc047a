package dataset

import (
	"fmt"
	"sort"

	"github.com/m-curtis/altmeta/internal/model"
)

// segmentRow is one usable skip segment from the segments table,
// staged per video until the effective duration is known.
type segmentRow struct {
	start, end    float64
	duration      float64
	timeSubmitted int64
}

type videoInfoBuilder struct {
	videoID       string
	duration      float64
	timeSubmitted int64
	hasOutro      bool
	segments      []segmentRow
}

// loadVideoInfos folds the segments table into per-video playback
// info: the best-known duration, whether an outro is marked, and the
// regions no segment covers. Only live skip segments count; downvoted
// or hidden rows carry stale durations.
func loadVideoInfos(path string, d *Dataset, stats *ReloadStats) error {
	builders := make(map[string]*videoInfoBuilder)

	err := parseTable(path, false, stats, fileSegments, func(r row) error {
		videoID := r.str("videoID")
		if videoID == "" {
			return fmt.Errorf("segment row missing videoID")
		}
		votes, err := r.int32("votes")
		if err != nil {
			return err
		}
		shadowHidden, err := r.bool01("shadowHidden")
		if err != nil {
			return err
		}
		hidden, err := r.bool01("hidden")
		if err != nil {
			return err
		}
		if votes <= -2 || shadowHidden || hidden || r.str("actionType") != "skip" {
			return nil
		}
		start, err := r.float64("startTime")
		if err != nil {
			return err
		}
		end, err := r.float64("endTime")
		if err != nil {
			return err
		}
		duration, err := r.float64("videoDuration")
		if err != nil {
			return err
		}
		submitted, err := r.int64("timeSubmitted")
		if err != nil {
			return err
		}

		b := builders[videoID]
		if b == nil {
			b = &videoInfoBuilder{videoID: videoID}
			builders[videoID] = b
		}
		// Prefer the duration from the newest submission, but never
		// let a zero duration displace a known one.
		if duration != 0 && (b.duration == 0 || submitted > b.timeSubmitted) {
			b.duration = duration
			b.timeSubmitted = submitted
		}
		if r.str("category") == "outro" {
			b.hasOutro = true
		}
		b.segments = append(b.segments, segmentRow{
			start:         start,
			end:           end,
			duration:      duration,
			timeSubmitted: submitted,
		})
		return nil
	})
	if err != nil {
		return err
	}

	for videoID, b := range builders {
		info := b.build()
		if info == nil {
			stats.Diagnostics = append(stats.Diagnostics,
				fmt.Sprintf("%s: video %s has segments but no usable duration", fileSegments, videoID))
			continue
		}
		d.VideoInfos[videoID] = info
	}
	return nil
}

// build computes the uncut segments: the stretches of the video not
// covered by any skip segment, clamped to the effective duration.
// Returns nil when no duration can be established at all.
func (b *videoInfoBuilder) build() *model.VideoInfo {
	duration := b.duration
	if duration == 0 {
		for _, s := range b.segments {
			if s.end > duration {
				duration = s.end
			}
		}
	}
	if duration == 0 {
		return nil
	}

	sort.SliceStable(b.segments, func(i, j int) bool {
		return b.segments[i].start < b.segments[j].start
	})

	var uncut []model.UncutSegment
	cursor := 0.0
	for _, s := range b.segments {
		if s.start >= duration {
			break
		}
		end := s.end
		if end > duration {
			end = duration
		}
		if s.start > cursor {
			uncut = append(uncut, model.UncutSegment{
				Offset: cursor / duration,
				Length: (s.start - cursor) / duration,
			})
		}
		if end > cursor {
			cursor = end
		}
	}
	if cursor < duration {
		uncut = append(uncut, model.UncutSegment{
			Offset: cursor / duration,
			Length: (duration - cursor) / duration,
		})
	}

	return &model.VideoInfo{
		VideoID:       b.videoID,
		Duration:      duration,
		UncutSegments: uncut,
		HasOutro:      b.hasOutro,
	}
}
