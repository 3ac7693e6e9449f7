package domain_test

import (
	"testing"

	analysisdomain "vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/modules/batch/domain"
)

func scored(name string, scores ...float64) domain.VideoResult {
	moments := make([]analysisdomain.Moment, 0, len(scores))
	for _, s := range scores {
		moments = append(moments, analysisdomain.Moment{StartTime: "00:00", EndTime: "00:01", Score: s})
	}
	return domain.NewVideoResult(analysisdomain.VideoFile{Name: name}, analysisdomain.Results{MomentRetrieval: moments}, "blob:"+name)
}

func TestAggregatorPicksStrictMaximum(t *testing.T) {
	t.Parallel()
	agg := domain.NewAggregator()
	agg.Add(scored("a", 0.3))
	agg.Add(scored("b", 0.2, 0.9))
	agg.Add(scored("c", 0.5))
	agg.Add(scored("d", 0.9))

	results := agg.Results()
	best, ok := results.Best()
	if !ok || best.FileName != "b" {
		t.Fatalf("expected first maximum b, got %+v ok=%t", best, ok)
	}
	if results.TotalProcessed != 4 || best.HighestScore != 0.9 {
		t.Fatalf("unexpected results %+v", results)
	}
	if best.BestMoment == nil || best.BestMoment.Score != 0.9 {
		t.Fatalf("unexpected best moment %+v", best.BestMoment)
	}
}

func TestAggregatorZeroScoresHaveNoBest(t *testing.T) {
	t.Parallel()
	agg := domain.NewAggregator()
	agg.Add(scored("empty"))
	agg.Add(scored("zero", 0))
	results := agg.Results()
	if _, ok := results.Best(); ok {
		t.Fatalf("expected no best video")
	}
	if results.Videos[0].BestMoment != nil || results.Videos[0].HighestScore != 0 {
		t.Fatalf("video without moments must not have a best moment: %+v", results.Videos[0])
	}
}

func TestBatchResultsCloneIsDeep(t *testing.T) {
	t.Parallel()
	agg := domain.NewAggregator()
	agg.Add(scored("a", 0.4))
	original := agg.Results()
	clone := original.Clone()
	clone.Videos[0].BestMoment.Score = 1
	clone.Videos[0].Results.MomentRetrieval[0].Score = 1
	if original.Videos[0].BestMoment.Score != 0.4 || original.Videos[0].Results.MomentRetrieval[0].Score != 0.4 {
		t.Fatalf("clone aliases the original")
	}
}
