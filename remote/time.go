// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import "math"

// TimeFromSeconds converts mpv seconds to MPRIS microseconds. Negative and
// NaN inputs give 0; values past the int64 range give math.MaxInt64.
func TimeFromSeconds(secs float64) int64 {
	if math.IsNaN(secs) || secs <= 0 {
		return 0
	}
	us := math.Round(secs * 1e6)
	if us >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(us)
}

// TimeToSeconds converts an absolute MPRIS position to mpv seconds. Negative
// positions clamp to 0.
func TimeToSeconds(us int64) float64 {
	if us < 0 {
		return 0
	}
	return float64(us) / 1e6
}

// OffsetToSeconds converts a relative MPRIS offset, which keeps its sign.
func OffsetToSeconds(us int64) float64 {
	return float64(us) / 1e6
}
