package domain

import "time"

// State is everything the single-video store holds.
type State struct {
	File     *VideoFile
	VideoURL string
	Query    string
	Results  *Results
	Loading  bool
	Error    string
}

// Report is the exported summary of one analysis.
type Report struct {
	Query       string
	File        VideoFile
	VideoURL    string
	Results     Results
	GeneratedAt time.Time
}
