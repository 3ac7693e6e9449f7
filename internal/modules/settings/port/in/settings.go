package in

import (
	"context"

	"vgdesk/internal/modules/settings/domain"
	"vgdesk/internal/modules/settings/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.SettingsOutput, error)
	Save(ctx context.Context, settings domain.Settings) (dto.SettingsOutput, error)
	Set(ctx context.Context, path, value string) (dto.SettingsOutput, error)
	Reset(ctx context.Context) (dto.SettingsOutput, error)
}
