package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/samber/lo"

	analysisdomain "vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/modules/batch/domain"
	"vgdesk/internal/modules/batch/dto"
	batchin "vgdesk/internal/modules/batch/port/in"
	batchout "vgdesk/internal/modules/batch/port/out"
	"vgdesk/internal/platform/clock"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/platform/logging"
	"vgdesk/internal/platform/playback"
)

type Deps struct {
	Inference   batchout.Inference
	URLs        batchout.ObjectURLs
	Checkpoints batchout.CheckpointStore
	Launcher    batchout.Launcher
	Clock       clock.Clock
	Logger      hclog.Logger
}

// Interactor is the batch result store. Files are analysed one at a time in
// input order and a failed file never aborts the batch.
type Interactor struct {
	deps   Deps
	logger hclog.Logger

	mu    sync.RWMutex
	state domain.State

	listenersMu sync.Mutex
	listeners   map[int]func(dto.ProgressOutput)
	nextID      int
}

func NewInteractor(deps Deps) batchin.Usecase {
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	return &Interactor{
		deps:      deps,
		logger:    logging.OrNull(deps.Logger).Named("batch"),
		listeners: map[int]func(dto.ProgressOutput){},
	}
}

func (i *Interactor) SetFiles(_ context.Context, files []dto.FileInput) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Loading {
		return apperrors.ErrSubmissionInFlight
	}
	i.releaseResults()
	i.state.Files = lo.Map(files, func(f dto.FileInput, _ int) analysisdomain.VideoFile {
		return analysisdomain.VideoFile{Name: f.Name, Path: f.Path, Size: f.Size}
	})
	return nil
}

func (i *Interactor) SetQuery(query string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state.Query = query
}

func (i *Interactor) Submit(ctx context.Context) (dto.StateOutput, error) {
	i.mu.Lock()
	if i.state.Loading {
		i.mu.Unlock()
		return i.State(), apperrors.ErrSubmissionInFlight
	}
	if len(i.state.Files) == 0 || strings.TrimSpace(i.state.Query) == "" {
		i.state.Error = domain.MsgMissingInput
		i.mu.Unlock()
		return i.State(), apperrors.ErrValidation
	}
	files := append([]analysisdomain.VideoFile(nil), i.state.Files...)
	query := i.state.Query
	i.releaseResults()
	i.state.Loading = true
	i.state.Error = ""
	i.mu.Unlock()

	total := len(files)
	i.setProgress(&domain.Progress{Total: total})
	agg := domain.NewAggregator()
	var cancelErr error
	for idx, file := range files {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		i.setProgress(&domain.Progress{Current: idx + 1, Total: total, CurrentFileName: file.Name})
		if video, err := i.process(ctx, file, query); err != nil {
			i.logger.Warn("skip video", "file", file.Name, "error", err)
		} else {
			agg.Add(video)
		}
		i.saveCheckpoint(ctx, agg, query)
	}

	final := agg.Results()
	i.mu.Lock()
	i.state.Results = &final
	i.state.Loading = false
	i.state.Progress = nil
	if cancelErr != nil {
		i.state.Error = domain.MsgProcessingFailed
	}
	i.mu.Unlock()
	i.notify(dto.ProgressOutput{Total: total})

	if cancelErr != nil {
		// The checkpoint stays so Recover can show the finished part.
		i.logger.Warn("batch interrupted", "processed", final.TotalProcessed, "total", total)
		return i.State(), fmt.Errorf("%w: %w", apperrors.ErrProcessingFailed, cancelErr)
	}
	if err := i.deps.Checkpoints.Clear(ctx); err != nil {
		i.logger.Warn("clear checkpoint", "error", err)
	}
	i.logger.Info("batch completed", "processed", final.TotalProcessed, "total", total)
	return i.State(), nil
}

func (i *Interactor) process(ctx context.Context, file analysisdomain.VideoFile, query string) (domain.VideoResult, error) {
	results, err := i.deps.Inference.Predict(ctx, file, query)
	if err != nil {
		return domain.VideoResult{}, err
	}
	url, err := i.deps.URLs.Create(file.Path)
	if err != nil {
		return domain.VideoResult{}, fmt.Errorf("create playback url: %w", err)
	}
	return domain.NewVideoResult(file, results, url), nil
}

func (i *Interactor) saveCheckpoint(ctx context.Context, agg *domain.Aggregator, query string) {
	checkpoint := domain.Checkpoint{
		Videos:    agg.Videos(),
		Query:     query,
		Timestamp: i.deps.Clock.Now().UnixMilli(),
	}
	if err := i.deps.Checkpoints.Save(context.WithoutCancel(ctx), checkpoint); err != nil {
		i.logger.Warn("save checkpoint", "error", err)
	}
}

func (i *Interactor) Clear(ctx context.Context) error {
	i.mu.Lock()
	if i.state.Loading {
		i.mu.Unlock()
		return apperrors.ErrSubmissionInFlight
	}
	i.releaseResults()
	i.state = domain.State{}
	i.mu.Unlock()
	return i.deps.Checkpoints.Clear(ctx)
}

func (i *Interactor) State() dto.StateOutput {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := dto.StateOutput{
		Files:   lo.Map(i.state.Files, func(f analysisdomain.VideoFile, _ int) string { return f.Name }),
		Query:   i.state.Query,
		Loading: i.state.Loading,
		Error:   i.state.Error,
	}
	if p := i.state.Progress; p != nil {
		out.Progress = &dto.ProgressOutput{Current: p.Current, Total: p.Total, CurrentFileName: p.CurrentFileName, Active: true}
	}
	if r := i.state.Results; r != nil {
		clone := r.Clone()
		best, ok := clone.Best()
		out.Results = &dto.ResultsOutput{
			Videos:         clone.Videos,
			Best:           best,
			HasBest:        ok,
			TotalProcessed: clone.TotalProcessed,
		}
	}
	return out
}

func (i *Interactor) Recover(ctx context.Context) (dto.CheckpointOutput, bool, error) {
	checkpoint, ok, err := i.deps.Checkpoints.Load(ctx)
	if err != nil || !ok {
		return dto.CheckpointOutput{}, false, err
	}
	return dto.CheckpointOutput{
		Videos:  checkpoint.Videos,
		Query:   checkpoint.Query,
		SavedAt: time.UnixMilli(checkpoint.Timestamp).UTC(),
	}, true, nil
}

func (i *Interactor) OnProgress(listener func(dto.ProgressOutput)) func() {
	i.listenersMu.Lock()
	defer i.listenersMu.Unlock()
	id := i.nextID
	i.nextID++
	i.listeners[id] = listener
	return func() {
		i.listenersMu.Lock()
		defer i.listenersMu.Unlock()
		delete(i.listeners, id)
	}
}

func (i *Interactor) Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error) {
	i.mu.RLock()
	var video domain.VideoResult
	found := false
	if r := i.state.Results; r != nil {
		switch {
		case input.Video == 0:
			video, found = r.Best()
		case input.Video > 0 && input.Video <= len(r.Videos):
			video, found = r.Videos[input.Video-1], true
		}
	}
	i.mu.RUnlock()
	if !found {
		return dto.PlayOutput{}, fmt.Errorf("%w: no video %d in results", apperrors.ErrInvalidInput, input.Video)
	}

	target := video.VideoURL
	ranked := video.Results.Ranked()
	if input.Rank < 0 || input.Rank > len(ranked) {
		return dto.PlayOutput{}, fmt.Errorf("%w: moment %d out of range", apperrors.ErrInvalidInput, input.Rank)
	}
	if input.Rank > 0 {
		m := ranked[input.Rank-1]
		target = playback.SeekURL(target, m.StartSeconds(), m.EndSeconds())
	}
	out := dto.PlayOutput{FileName: video.FileName, Target: target}
	if i.deps.Launcher == nil {
		return out, nil
	}
	if err := i.deps.Launcher.Open(ctx, target); err != nil {
		return out, err
	}
	out.Launched = true
	return out, nil
}

func (i *Interactor) setProgress(p *domain.Progress) {
	i.mu.Lock()
	i.state.Progress = p
	i.mu.Unlock()
	i.notify(dto.ProgressOutput{Current: p.Current, Total: p.Total, CurrentFileName: p.CurrentFileName, Active: true})
}

func (i *Interactor) notify(update dto.ProgressOutput) {
	i.listenersMu.Lock()
	listeners := lo.Values(i.listeners)
	i.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(update)
	}
}

// releaseResults must be called with mu held.
func (i *Interactor) releaseResults() {
	if i.state.Results == nil {
		return
	}
	for _, v := range i.state.Results.Videos {
		if v.VideoURL != "" {
			i.deps.URLs.Revoke(v.VideoURL)
		}
	}
	i.state.Results = nil
}
