package in

import (
	"context"

	"vgdesk/internal/modules/analysis/dto"
	analysisin "vgdesk/internal/modules/analysis/port/in"
)

type CLIHandler struct {
	usecase analysisin.Usecase
}

func NewCLIHandler(usecase analysisin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Analyze selects path, sets query and submits in one step.
func (h CLIHandler) Analyze(ctx context.Context, path, query string) (dto.StateOutput, error) {
	file, err := FileFromPath(path)
	if err != nil {
		return dto.StateOutput{}, err
	}
	if err := h.usecase.SetFile(ctx, file); err != nil {
		return dto.StateOutput{}, err
	}
	h.usecase.SetQuery(query)
	return h.usecase.Submit(ctx)
}

func (h CLIHandler) Play(ctx context.Context, rank int) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{Rank: rank})
}

func (h CLIHandler) ExportReport(ctx context.Context, path string) (string, error) {
	return h.usecase.ExportReport(ctx, dto.ExportInput{Path: path})
}

func (h CLIHandler) Clear(ctx context.Context) {
	h.usecase.Clear(ctx)
}
