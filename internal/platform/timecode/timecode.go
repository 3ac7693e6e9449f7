// Package timecode converts between "mm:ss" stamps and seconds and formats
// values for display.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ToSeconds parses "mm:ss" (or "hh:mm:ss"). Malformed parts count as zero.
func ToSeconds(stamp string) int {
	parts := strings.Split(strings.TrimSpace(stamp), ":")
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			n = 0
		}
		total = total*60 + n
	}
	return total
}

// FromSeconds renders seconds as zero-padded "mm:ss".
func FromSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// FormatFileSize renders bytes the way upload widgets do: "N bytes", "x.xx KB"
// or "x.xx MB".
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
	}
}

type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ScoreBand buckets a relevance score: >= 0.7 high, >= 0.4 medium.
func ScoreBand(score float64) Band {
	switch {
	case score >= 0.7:
		return BandHigh
	case score >= 0.4:
		return BandMedium
	default:
		return BandLow
	}
}

// Percent renders a 0..1 score as "NN.N%".
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
