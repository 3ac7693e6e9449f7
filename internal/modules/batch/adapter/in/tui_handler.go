package in

import (
	"context"

	"vgdesk/internal/modules/batch/dto"
	batchin "vgdesk/internal/modules/batch/port/in"
)

type TUIHandler struct {
	usecase batchin.Usecase
	exts    []string
}

func NewTUIHandler(usecase batchin.Usecase, exts []string) TUIHandler {
	return TUIHandler{usecase: usecase, exts: exts}
}

func (h TUIHandler) SelectPaths(ctx context.Context, paths []string) (int, error) {
	files, err := CollectFiles(paths, h.exts)
	if err != nil {
		return 0, err
	}
	return len(files), h.usecase.SetFiles(ctx, files)
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

func (h TUIHandler) OnProgress(listener func(dto.ProgressOutput)) func() {
	return h.usecase.OnProgress(listener)
}

func (h TUIHandler) Play(ctx context.Context, video, rank int) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{Video: video, Rank: rank})
}

func (h TUIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}
