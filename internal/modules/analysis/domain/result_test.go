package domain_test

import (
	"testing"

	"vgdesk/internal/modules/analysis/domain"
)

func TestBestMomentIsArgmax(t *testing.T) {
	t.Parallel()
	r := domain.Results{MomentRetrieval: []domain.Moment{
		{StartTime: "00:01", EndTime: "00:03", Score: 0.2},
		{StartTime: "00:10", EndTime: "00:12", Score: 0.9},
	}}
	best, ok := r.BestMoment()
	if !ok {
		t.Fatalf("expected a best moment")
	}
	if best != (domain.Moment{StartTime: "00:10", EndTime: "00:12", Score: 0.9}) {
		t.Fatalf("unexpected best moment %+v", best)
	}
}

func TestBestMomentTieKeepsFirst(t *testing.T) {
	t.Parallel()
	r := domain.Results{MomentRetrieval: []domain.Moment{
		{StartTime: "00:05", EndTime: "00:06", Score: 0.5},
		{StartTime: "00:01", EndTime: "00:02", Score: 0.7},
		{StartTime: "00:09", EndTime: "00:10", Score: 0.7},
	}}
	best, _ := r.BestMoment()
	if best.StartTime != "00:01" {
		t.Fatalf("expected first maximum, got %+v", best)
	}
	if _, ok := (domain.Results{}).BestMoment(); ok {
		t.Fatalf("empty results have no best moment")
	}
}

func TestRankedAndClone(t *testing.T) {
	t.Parallel()
	r := domain.Results{MomentRetrieval: []domain.Moment{
		{StartTime: "00:01", Score: 0.1},
		{StartTime: "00:02", Score: 0.8},
		{StartTime: "00:03", Score: 0.8},
	}}
	ranked := r.Ranked()
	if ranked[0].StartTime != "00:02" || ranked[1].StartTime != "00:03" || ranked[2].StartTime != "00:01" {
		t.Fatalf("unexpected ranking %+v", ranked)
	}
	if r.MomentRetrieval[0].StartTime != "00:01" {
		t.Fatalf("ranking must not reorder the source")
	}
	clone := r.Clone()
	clone.MomentRetrieval[0].Score = 1
	if r.MomentRetrieval[0].Score != 0.1 {
		t.Fatalf("clone aliases the original")
	}
	if (domain.Moment{StartTime: "01:05", EndTime: "01:10"}).EndSeconds() != 70 {
		t.Fatalf("unexpected seconds conversion")
	}
}
