// Package timecode converts Premiere's native tick values into seconds and
// HH:MM:SS timecode strings.
//
// Premiere stores TrackItem Start/End as integer ticks, and the sequence's
// FrameRate element holds the number of ticks per frame (not ticks per
// second): frames = ticks / ticksPerFrame, seconds = frames / fps.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultFPS is the fallback frame rate used when a sequence declares no
// usable rate. Extraction proceeds with it and records a warning.
const DefaultFPS = 23.976

// MinClipDuration is the shortest duration, in seconds, that extraction
// stretches a clip to. Sub-second clips are real but unreadable in the
// grouped overview.
const MinClipDuration = 1.0

// maxClampStart bounds minimum-duration stretching: instances that start this
// late carry bogus timecodes and are left alone.
const maxClampStart = 3600.0

// familiarRates maps raw FrameRate (ticks-per-frame) values to the standard
// frame rates Premiere uses them for.
var familiarRates = map[int64]float64{
	10594584: 23.976,
	10160640: 25,
	8475667:  29.97,
	8408400:  30,
	5080320:  50,
	4237833:  59.94,
	4204200:  60,
}

// FPSFromRate maps a raw FrameRate value to a familiar FPS. Some project
// versions scale the value by powers of ten, so unknown values are scaled
// down until a familiar one appears. The second return value reports whether
// the rate was recognized; unrecognized rates yield DefaultFPS.
func FPSFromRate(rate int64) (float64, bool) {
	if fps, ok := familiarRates[rate]; ok {
		return fps, true
	}

	for v := rate; v > 1000000; v /= 10 {
		if fps, ok := familiarRates[v]; ok {
			return fps, true
		}
	}

	return DefaultFPS, false
}

// SecondsFromTicks converts a raw tick value to seconds. Tick counts should
// land on frame boundaries; they are aligned to the nearest frame before
// dividing by the frame rate. Returns 0 for non-positive ticksPerFrame or
// fps.
func SecondsFromTicks(ticks, ticksPerFrame int64, fps float64) float64 {
	if ticksPerFrame <= 0 || fps <= 0 {
		return 0
	}
	frames := math.Round(float64(ticks) / float64(ticksPerFrame))
	return frames / fps
}

// FromSeconds renders seconds as an HH:MM:SS string rounded to the nearest
// whole second. Negative inputs keep their sign.
func FromSeconds(s float64) string {
	rounded := int64(math.Round(s))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	hh := rounded / 3600
	mm := (rounded % 3600) / 60
	ss := rounded % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hh, mm, ss)
}

// ToSeconds parses an HH:MM:SS string back into seconds. Malformed input
// yields 0.
func ToSeconds(tc string) float64 {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 3 {
		return 0
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		vals[i] = v
	}
	return float64(vals[0]*3600 + vals[1]*60 + vals[2])
}

// ClampMinimumDuration stretches a clip's end so the clip lasts at least
// MinClipDuration. Instances starting beyond maxClampStart are returned
// unchanged.
func ClampMinimumDuration(start, end float64) (float64, float64) {
	if end-start < MinClipDuration && start < maxClampStart {
		end = start + MinClipDuration
	}
	return start, end
}
