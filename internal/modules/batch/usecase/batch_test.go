package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	analysisdomain "vgdesk/internal/modules/analysis/domain"
	batchout "vgdesk/internal/modules/batch/adapter/out"
	"vgdesk/internal/modules/batch/domain"
	"vgdesk/internal/modules/batch/dto"
	batchin "vgdesk/internal/modules/batch/port/in"
	"vgdesk/internal/modules/batch/usecase"
	"vgdesk/internal/platform/clock"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/platform/kv"
)

// scriptedInference answers per file name; names missing from scores fail.
type scriptedInference struct {
	mu     sync.Mutex
	scores map[string][]float64
	calls  []string
	onCall func(name string)
}

func (s *scriptedInference) Predict(_ context.Context, video analysisdomain.VideoFile, _ string) (analysisdomain.Results, error) {
	s.mu.Lock()
	s.calls = append(s.calls, video.Name)
	scores, ok := s.scores[video.Name]
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook(video.Name)
	}
	if !ok {
		return analysisdomain.Results{}, fmt.Errorf("upstream rejected %s", video.Name)
	}
	results := analysisdomain.Results{}
	for i, score := range scores {
		results.MomentRetrieval = append(results.MomentRetrieval, analysisdomain.Moment{
			StartTime: fmt.Sprintf("00:%02d", i*10),
			EndTime:   fmt.Sprintf("00:%02d", i*10+5),
			Score:     score,
		})
	}
	return results, nil
}

type fakeURLs struct {
	mu   sync.Mutex
	n    int
	live map[string]bool
}

func (f *fakeURLs) Create(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	url := fmt.Sprintf("blob:test/%d", f.n)
	f.live[url] = true
	return url, nil
}

func (f *fakeURLs) Revoke(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok := f.live[url]
	delete(f.live, url)
	return ok
}

func (f *fakeURLs) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

type fixture struct {
	uc    batchin.Usecase
	model *scriptedInference
	urls  *fakeURLs
	store *kv.MemoryStore
}

func newFixture(scores map[string][]float64) fixture {
	f := fixture{
		model: &scriptedInference{scores: scores},
		urls:  &fakeURLs{live: map[string]bool{}},
		store: kv.NewMemoryStore(),
	}
	f.uc = usecase.NewInteractor(usecase.Deps{
		Inference:   f.model,
		URLs:        f.urls,
		Checkpoints: batchout.NewKVCheckpointStore(f.store),
		Clock:       clock.Fixed(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
		Logger:      hclog.NewNullLogger(),
	})
	return f
}

func files(names ...string) []dto.FileInput {
	out := make([]dto.FileInput, 0, len(names))
	for _, n := range names {
		out = append(out, dto.FileInput{Name: n, Path: "/videos/" + n, Size: 10})
	}
	return out
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)
	state, err := f.uc.Submit(context.Background())
	if !errors.Is(err, apperrors.ErrValidation) || state.Error != domain.MsgMissingInput {
		t.Fatalf("expected validation failure, got %v %q", err, state.Error)
	}
	_ = f.uc.SetFiles(context.Background(), files("a.mp4"))
	f.uc.SetQuery(" ")
	if _, err := f.uc.Submit(context.Background()); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("blank query must fail, got %v", err)
	}
	if len(f.model.calls) != 0 {
		t.Fatalf("expected no network calls, got %v", f.model.calls)
	}
}

func TestSubmitPicksBestVideo(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{
		"a.mp4": {0.3},
		"b.mp4": {0.1, 0.9},
		"c.mp4": {0.5},
	})
	_ = f.uc.SetFiles(context.Background(), files("a.mp4", "b.mp4", "c.mp4"))
	f.uc.SetQuery("running")

	state, err := f.uc.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if strings.Join(f.model.calls, ",") != "a.mp4,b.mp4,c.mp4" {
		t.Fatalf("expected sequential calls in order, got %v", f.model.calls)
	}
	r := state.Results
	if r == nil || r.TotalProcessed != 3 || !r.HasBest || r.Best.FileName != "b.mp4" || r.Best.HighestScore != 0.9 {
		t.Fatalf("unexpected results %+v", r)
	}
	if r.Best.BestMoment == nil || r.Best.BestMoment.StartTime != "00:10" {
		t.Fatalf("unexpected best moment %+v", r.Best.BestMoment)
	}
	if state.Loading || state.Progress != nil {
		t.Fatalf("loading and progress must be cleared: %+v", state)
	}
	if f.store.Has(kv.KeyBatchProgress) {
		t.Fatalf("checkpoint must be removed after the batch")
	}
}

func TestSubmitToleratesPerFileFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{"a.mp4": {0.4}, "c.mp4": {0.6}})
	_ = f.uc.SetFiles(context.Background(), files("a.mp4", "broken.mp4", "c.mp4"))
	f.uc.SetQuery("fire")

	state, err := f.uc.Submit(context.Background())
	if err != nil {
		t.Fatalf("a single failure must not fail the batch: %v", err)
	}
	if len(f.model.calls) != 3 {
		t.Fatalf("expected every file attempted, got %v", f.model.calls)
	}
	if state.Results.TotalProcessed != 2 || len(state.Results.Videos) != 2 || state.Error != "" {
		t.Fatalf("unexpected results %+v", state)
	}
	if state.Results.Videos[1].FileName != "c.mp4" {
		t.Fatalf("failed file must be omitted, got %+v", state.Results.Videos)
	}
}

func TestProgressAndCheckpointsPerFile(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{"a.mp4": {0.4}, "c.mp4": {0.6}})
	var seen []dto.ProgressOutput
	stop := f.uc.OnProgress(func(p dto.ProgressOutput) { seen = append(seen, p) })
	defer stop()

	checkpoints := []int{}
	f.model.onCall = func(string) {
		cp, ok, _ := f.uc.Recover(context.Background())
		if !ok {
			checkpoints = append(checkpoints, -1)
			return
		}
		checkpoints = append(checkpoints, len(cp.Videos))
	}
	_ = f.uc.SetFiles(context.Background(), files("a.mp4", "b.mp4", "c.mp4"))
	f.uc.SetQuery("fire")
	if _, err := f.uc.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := []dto.ProgressOutput{
		{Current: 0, Total: 3, Active: true},
		{Current: 1, Total: 3, CurrentFileName: "a.mp4", Active: true},
		{Current: 2, Total: 3, CurrentFileName: "b.mp4", Active: true},
		{Current: 3, Total: 3, CurrentFileName: "c.mp4", Active: true},
		{Total: 3},
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d updates, got %+v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("update %d: expected %+v, got %+v", i, want[i], seen[i])
		}
	}
	if fmt.Sprint(checkpoints) != "[-1 1 1]" {
		t.Fatalf("expected a checkpoint after each file, got %v", checkpoints)
	}
}

func TestCancelledBatchKeepsCheckpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{"a.mp4": {0.4}, "b.mp4": {0.5}})
	ctx, cancel := context.WithCancel(context.Background())
	f.model.onCall = func(name string) {
		if name == "a.mp4" {
			cancel()
		}
	}
	_ = f.uc.SetFiles(context.Background(), files("a.mp4", "b.mp4"))
	f.uc.SetQuery("fire")

	state, err := f.uc.Submit(ctx)
	if !errors.Is(err, apperrors.ErrProcessingFailed) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if len(f.model.calls) != 1 || state.Results.TotalProcessed != 1 || state.Error != domain.MsgProcessingFailed {
		t.Fatalf("unexpected state after cancel %+v calls=%v", state, f.model.calls)
	}
	cp, ok, err := f.uc.Recover(context.Background())
	if err != nil || !ok || cp.Query != "fire" || len(cp.Videos) != 1 {
		t.Fatalf("expected recoverable checkpoint, got %+v ok=%t err=%v", cp, ok, err)
	}
	if !cp.SavedAt.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected checkpoint time %s", cp.SavedAt)
	}
}

func TestURLsReleasedOnNewFilesAndClear(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{"a.mp4": {0.4}, "b.mp4": {0.5}})
	ctx := context.Background()
	_ = f.uc.SetFiles(ctx, files("a.mp4", "b.mp4"))
	f.uc.SetQuery("fire")
	if _, err := f.uc.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.urls.Live() != 2 {
		t.Fatalf("expected two live urls, got %d", f.urls.Live())
	}
	_ = f.uc.SetFiles(ctx, files("a.mp4"))
	if f.urls.Live() != 0 || f.uc.State().Results != nil {
		t.Fatalf("new file list must release previous results")
	}
	if _, err := f.uc.Submit(ctx); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if _, err := f.uc.Submit(ctx); err != nil {
		t.Fatalf("resubmit again: %v", err)
	}
	if f.urls.Live() != 1 {
		t.Fatalf("resubmitting must release the previous batch, got %d live", f.urls.Live())
	}
	_ = kv.SetJSON(ctx, f.store, kv.KeyBatchProgress, domain.Checkpoint{Query: "stale"})
	if err := f.uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if f.urls.Live() != 0 || f.store.Has(kv.KeyBatchProgress) {
		t.Fatalf("clear must release urls and checkpoint")
	}
	if state := f.uc.State(); len(state.Files) != 0 || state.Query != "" {
		t.Fatalf("expected reset state, got %+v", state)
	}
}

func TestPlayBestVideo(t *testing.T) {
	t.Parallel()
	f := newFixture(map[string][]float64{"a.mp4": {0.2}, "b.mp4": {0.1, 0.7}})
	ctx := context.Background()
	if _, err := f.uc.Play(ctx, dto.PlayInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input before results, got %v", err)
	}
	_ = f.uc.SetFiles(ctx, files("a.mp4", "b.mp4"))
	f.uc.SetQuery("fire")
	_, _ = f.uc.Submit(ctx)

	out, err := f.uc.Play(ctx, dto.PlayInput{Rank: 1})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if out.FileName != "b.mp4" || out.Target != "blob:test/2#t=10,15" || out.Launched {
		t.Fatalf("unexpected play output %+v", out)
	}
	if _, err := f.uc.Play(ctx, dto.PlayInput{Video: 3}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected out of range video, got %v", err)
	}
}
