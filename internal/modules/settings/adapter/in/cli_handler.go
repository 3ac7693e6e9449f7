package in

import (
	"context"

	"vgdesk/internal/modules/settings/dto"
	settingsin "vgdesk/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Set(ctx context.Context, path, value string) (dto.SettingsOutput, error) {
	return h.usecase.Set(ctx, path, value)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Reset(ctx)
}
