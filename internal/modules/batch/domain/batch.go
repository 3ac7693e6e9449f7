package domain

import analysisdomain "vgdesk/internal/modules/analysis/domain"

const (
	MsgMissingInput     = "Please upload videos and enter a query"
	MsgProcessingFailed = "Failed to process videos. Please try again."
)

// VideoResult is one successfully analysed video of a batch.
type VideoResult struct {
	FileName     string                 `json:"fileName"`
	FileSize     int64                  `json:"fileSize"`
	Results      analysisdomain.Results `json:"results"`
	VideoURL     string                 `json:"videoUrl"`
	HighestScore float64                `json:"highestScore"`
	BestMoment   *analysisdomain.Moment `json:"bestMoment"`
}

// NewVideoResult derives the per-video maximum. A video with no moments
// scores zero and has no best moment.
func NewVideoResult(file analysisdomain.VideoFile, results analysisdomain.Results, url string) VideoResult {
	v := VideoResult{
		FileName: file.Name,
		FileSize: file.Size,
		Results:  results,
		VideoURL: url,
	}
	if best, ok := results.BestMoment(); ok {
		v.HighestScore = best.Score
		v.BestMoment = &best
	}
	return v
}

func (v VideoResult) Clone() VideoResult {
	out := v
	out.Results = v.Results.Clone()
	if v.BestMoment != nil {
		m := *v.BestMoment
		out.BestMoment = &m
	}
	return out
}

type BatchResults struct {
	Videos []VideoResult `json:"videos"`
	// BestVideo indexes Videos; -1 when no video scored above zero.
	BestVideo      int `json:"bestVideo"`
	TotalProcessed int `json:"totalProcessed"`
}

func (b BatchResults) Best() (VideoResult, bool) {
	if b.BestVideo < 0 || b.BestVideo >= len(b.Videos) {
		return VideoResult{}, false
	}
	return b.Videos[b.BestVideo], true
}

func (b BatchResults) Clone() BatchResults {
	out := BatchResults{BestVideo: b.BestVideo, TotalProcessed: b.TotalProcessed}
	out.Videos = make([]VideoResult, 0, len(b.Videos))
	for _, v := range b.Videos {
		out.Videos = append(out.Videos, v.Clone())
	}
	return out
}

// Aggregator accumulates successes in input order. A video replaces the
// running best only when it scores strictly higher, so the first maximum
// wins and an all-zero batch has no best video.
type Aggregator struct {
	videos    []VideoResult
	best      int
	bestScore float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{videos: []VideoResult{}, best: -1}
}

func (a *Aggregator) Add(v VideoResult) {
	a.videos = append(a.videos, v)
	if v.HighestScore > a.bestScore {
		a.bestScore = v.HighestScore
		a.best = len(a.videos) - 1
	}
}

func (a *Aggregator) Videos() []VideoResult {
	return append([]VideoResult(nil), a.videos...)
}

func (a *Aggregator) Results() BatchResults {
	return BatchResults{
		Videos:         a.Videos(),
		BestVideo:      a.best,
		TotalProcessed: len(a.videos),
	}
}

// Progress reports the file being processed; Current is 1-based and zero
// before the first file starts.
type Progress struct {
	Current         int
	Total           int
	CurrentFileName string
}

// Checkpoint is the incremental record written after every file.
type Checkpoint struct {
	Videos    []VideoResult `json:"videos"`
	Query     string        `json:"query"`
	Timestamp int64         `json:"timestamp"`
}

type State struct {
	Files    []analysisdomain.VideoFile
	Query    string
	Results  *BatchResults
	Loading  bool
	Error    string
	Progress *Progress
}
