package dto

import (
	"time"

	"vgdesk/internal/modules/batch/domain"
)

type FileInput struct {
	Name string
	Path string
	Size int64
}

type ProgressOutput struct {
	Current         int
	Total           int
	CurrentFileName string
	// Active is false once the batch has finished.
	Active bool
}

type ResultsOutput struct {
	Videos         []domain.VideoResult
	Best           domain.VideoResult
	HasBest        bool
	TotalProcessed int
}

type StateOutput struct {
	Files    []string
	Query    string
	Results  *ResultsOutput
	Loading  bool
	Error    string
	Progress *ProgressOutput
}

type CheckpointOutput struct {
	Videos  []domain.VideoResult
	Query   string
	SavedAt time.Time
}

type PlayInput struct {
	// Video is the 1-based position in the result list; zero picks the best
	// video.
	Video int
	// Rank seeks to the Nth best moment of that video; zero plays it whole.
	Rank int
}

type PlayOutput struct {
	FileName string
	Target   string
	Launched bool
}
