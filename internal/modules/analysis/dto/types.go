package dto

import "vgdesk/internal/modules/analysis/domain"

type FileInput struct {
	Name string
	Path string
	Size int64
}

type ResultsOutput struct {
	Moments []domain.Moment
	// Ranked holds Moments by descending score.
	Ranked     []domain.Moment
	Highlights []domain.HighlightPoint
	Best       domain.Moment
	HasBest    bool
}

// StateOutput is a point-in-time copy of the store.
type StateOutput struct {
	FileName string
	FilePath string
	FileSize int64
	VideoURL string
	Query    string
	Results  *ResultsOutput
	Loading  bool
	Error    string
}

type PlayInput struct {
	// Rank seeks playback to the Nth best moment (1-based). Zero plays the
	// whole video.
	Rank int
}

type PlayOutput struct {
	Target   string
	Launched bool
}

type ExportInput struct {
	Path string
}
