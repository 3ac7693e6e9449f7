package domain

import (
	"sort"

	"github.com/samber/lo"

	"vgdesk/internal/platform/timecode"
)

const (
	MsgMissingInput     = "Please upload a video and enter a query"
	MsgProcessingFailed = "Failed to process the video. Please try again."
)

// VideoFile is a local video selected for analysis.
type VideoFile struct {
	Name string
	Path string
	Size int64
}

// Moment is a scored interval; StartTime and EndTime are "mm:ss".
type Moment struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Score     float64 `json:"score"`
}

func (m Moment) StartSeconds() int { return timecode.ToSeconds(m.StartTime) }
func (m Moment) EndSeconds() int   { return timecode.ToSeconds(m.EndTime) }

// HighlightPoint samples the relevance curve: X in seconds, Y a score.
type HighlightPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Results is the parsed inference response for one video. Moments arrive in
// no particular order.
type Results struct {
	MomentRetrieval    []Moment         `json:"moment_retrieval"`
	HighlightDetection []HighlightPoint `json:"highlight_detection"`
}

// BestMoment returns the highest scoring moment; on ties the earliest in
// response order wins.
func (r Results) BestMoment() (Moment, bool) {
	if len(r.MomentRetrieval) == 0 {
		return Moment{}, false
	}
	return lo.MaxBy(r.MomentRetrieval, func(a, b Moment) bool { return a.Score > b.Score }), true
}

// Ranked returns the moments by descending score, keeping response order
// among equal scores.
func (r Results) Ranked() []Moment {
	out := append([]Moment(nil), r.MomentRetrieval...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Clone deep-copies r so callers can't alias store state.
func (r Results) Clone() Results {
	return Results{
		MomentRetrieval:    append([]Moment(nil), r.MomentRetrieval...),
		HighlightDetection: append([]HighlightPoint(nil), r.HighlightDetection...),
	}
}
