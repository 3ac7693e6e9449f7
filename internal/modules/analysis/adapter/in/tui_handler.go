package in

import (
	"context"

	"vgdesk/internal/modules/analysis/dto"
	analysisin "vgdesk/internal/modules/analysis/port/in"
)

type TUIHandler struct {
	usecase analysisin.Usecase
}

func NewTUIHandler(usecase analysisin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

// SelectFile replaces the current video. An empty path clears it.
func (h TUIHandler) SelectFile(ctx context.Context, path string) error {
	if path == "" {
		return h.usecase.SetFile(ctx, nil)
	}
	file, err := FileFromPath(path)
	if err != nil {
		return err
	}
	return h.usecase.SetFile(ctx, file)
}

func (h TUIHandler) SetQuery(query string) {
	h.usecase.SetQuery(query)
}

func (h TUIHandler) Submit(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Submit(ctx)
}

func (h TUIHandler) State() dto.StateOutput {
	return h.usecase.State()
}

func (h TUIHandler) Play(ctx context.Context, rank int) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{Rank: rank})
}

func (h TUIHandler) Clear(ctx context.Context) {
	h.usecase.Clear(ctx)
}
