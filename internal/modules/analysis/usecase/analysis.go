package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/modules/analysis/dto"
	analysisin "vgdesk/internal/modules/analysis/port/in"
	analysisout "vgdesk/internal/modules/analysis/port/out"
	"vgdesk/internal/platform/clock"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/platform/logging"
	"vgdesk/internal/platform/playback"
)

// Deps wires the single-video store. History, Viewer, Launcher and Reports are
// optional.
type Deps struct {
	Inference analysisout.Inference
	URLs      analysisout.ObjectURLs
	History   analysisout.HistoryRecorder
	Viewer    analysisout.Viewer
	Launcher  analysisout.Launcher
	Reports   analysisout.ReportWriter
	Clock     clock.Clock
	Logger    hclog.Logger
}

// Interactor is the single-video result store. It owns at most one live
// playback URL at a time.
type Interactor struct {
	deps   Deps
	logger hclog.Logger

	mu    sync.RWMutex
	state domain.State
}

func NewInteractor(deps Deps) analysisin.Usecase {
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	return &Interactor{deps: deps, logger: logging.OrNull(deps.Logger).Named("analysis")}
}

func (i *Interactor) SetFile(_ context.Context, input *dto.FileInput) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.releaseURL()
	i.state.File = nil
	if input == nil {
		return nil
	}
	url, err := i.deps.URLs.Create(input.Path)
	if err != nil {
		return fmt.Errorf("create playback url: %w", err)
	}
	i.state.File = &domain.VideoFile{Name: input.Name, Path: input.Path, Size: input.Size}
	i.state.VideoURL = url
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
	if i.state.File == nil || strings.TrimSpace(i.state.Query) == "" {
		i.state.Error = domain.MsgMissingInput
		i.mu.Unlock()
		return i.State(), apperrors.ErrValidation
	}
	file := *i.state.File
	query := i.state.Query
	i.state.Loading = true
	i.state.Error = ""
	i.state.Results = nil
	i.mu.Unlock()

	results, err := i.deps.Inference.Predict(ctx, file, query)

	i.mu.Lock()
	i.state.Loading = false
	if err != nil {
		i.state.Error = domain.MsgProcessingFailed
		i.mu.Unlock()
		i.logger.Error("submit video", "file", file.Name, "error", err)
		return i.State(), fmt.Errorf("%w: %w", apperrors.ErrProcessingFailed, err)
	}
	i.state.Results = &results
	i.mu.Unlock()

	i.logger.Info("analysis completed", "file", file.Name, "moments", len(results.MomentRetrieval))
	if i.deps.History != nil {
		if err := i.deps.History.Record(ctx, i.currentUserID(), file.Name, query); err != nil {
			i.logger.Warn("record history", "error", err)
		}
	}
	return i.State(), nil
}

func (i *Interactor) Clear(_ context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.releaseURL()
	i.state = domain.State{}
}

func (i *Interactor) State() dto.StateOutput {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := dto.StateOutput{
		VideoURL: i.state.VideoURL,
		Query:    i.state.Query,
		Loading:  i.state.Loading,
		Error:    i.state.Error,
	}
	if f := i.state.File; f != nil {
		out.FileName, out.FilePath, out.FileSize = f.Name, f.Path, f.Size
	}
	if r := i.state.Results; r != nil {
		clone := r.Clone()
		best, ok := clone.BestMoment()
		out.Results = &dto.ResultsOutput{
			Moments:    clone.MomentRetrieval,
			Ranked:     clone.Ranked(),
			Highlights: clone.HighlightDetection,
			Best:       best,
			HasBest:    ok,
		}
	}
	return out
}

func (i *Interactor) SeekTarget(moment domain.Moment) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.state.VideoURL == "" {
		return "", false
	}
	return playback.SeekURL(i.state.VideoURL, moment.StartSeconds(), moment.EndSeconds()), true
}

func (i *Interactor) Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error) {
	i.mu.RLock()
	target := i.state.VideoURL
	var ranked []domain.Moment
	if i.state.Results != nil {
		ranked = i.state.Results.Ranked()
	}
	i.mu.RUnlock()
	if target == "" {
		return dto.PlayOutput{}, fmt.Errorf("%w: no video selected", apperrors.ErrInvalidInput)
	}
	if input.Rank < 0 || input.Rank > len(ranked) {
		return dto.PlayOutput{}, fmt.Errorf("%w: moment %d out of range", apperrors.ErrInvalidInput, input.Rank)
	}
	if input.Rank > 0 {
		m := ranked[input.Rank-1]
		target = playback.SeekURL(target, m.StartSeconds(), m.EndSeconds())
	}
	if i.deps.Launcher == nil {
		return dto.PlayOutput{Target: target}, nil
	}
	if err := i.deps.Launcher.Open(ctx, target); err != nil {
		return dto.PlayOutput{Target: target}, err
	}
	return dto.PlayOutput{Target: target, Launched: true}, nil
}

func (i *Interactor) ExportReport(ctx context.Context, input dto.ExportInput) (string, error) {
	if i.deps.Reports == nil {
		return "", fmt.Errorf("report writer is not configured")
	}
	i.mu.RLock()
	if i.state.Results == nil || i.state.File == nil {
		i.mu.RUnlock()
		return "", fmt.Errorf("%w: no results to export", apperrors.ErrInvalidInput)
	}
	report := domain.Report{
		Query:       i.state.Query,
		File:        *i.state.File,
		VideoURL:    i.state.VideoURL,
		Results:     i.state.Results.Clone(),
		GeneratedAt: i.deps.Clock.Now(),
	}
	i.mu.RUnlock()
	return i.deps.Reports.Write(ctx, input.Path, report)
}

// releaseURL must be called with mu held.
func (i *Interactor) releaseURL() {
	if i.state.VideoURL == "" {
		return
	}
	i.deps.URLs.Revoke(i.state.VideoURL)
	i.state.VideoURL = ""
}

func (i *Interactor) currentUserID() string {
	if i.deps.Viewer == nil {
		return ""
	}
	return i.deps.Viewer.CurrentUserID()
}
