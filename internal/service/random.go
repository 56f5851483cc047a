package service

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"

	"github.com/m-curtis/altmeta/internal/model"
)

// RandomSource yields a deterministic fraction in [0, 1) for a key.
// Deterministic-per-key keeps random thumbnail times stable across
// requests and across replicas serving the same dataset.
type RandomSource interface {
	Fraction(key string) float64
}

// HashedRandom seeds a PCG generator from the sha256 of the key.
type HashedRandom struct{}

func NewHashedRandom() HashedRandom { return HashedRandom{} }

func (HashedRandom) Fraction(key string) float64 {
	sum := sha256.Sum256([]byte(key))
	hi := binary.BigEndian.Uint64(sum[0:8])
	lo := binary.BigEndian.Uint64(sum[8:16])
	return rand.New(rand.NewPCG(hi, lo)).Float64()
}

// RandomTimeForVideo picks a playback fraction for the video's
// generated thumbnail. With playback info available the raw fraction
// is steered away from the last tenth unless an outro is marked, then
// mapped through the uncut segments so it never lands inside a
// sponsor cut. Without info only the end-of-video avoidance applies.
func RandomTimeForVideo(src RandomSource, videoID string, info *model.VideoInfo) float64 {
	r := src.Fraction(videoID)
	if info == nil {
		if r > 0.9 {
			r -= 0.9
		}
		return r
	}

	if !info.HasOutro && r > 0.9 {
		r -= 0.9
	}
	r *= info.FractionUnmarked()
	for _, seg := range info.UncutSegments {
		if r <= seg.Length {
			return seg.Offset + r
		}
		r -= seg.Length
	}
	return r
}
