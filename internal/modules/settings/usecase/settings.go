package usecase

import (
	"context"

	"vgdesk/internal/modules/settings/domain"
	"vgdesk/internal/modules/settings/dto"
	settingsin "vgdesk/internal/modules/settings/port/in"
	settingsout "vgdesk/internal/modules/settings/port/out"
)

const guestScope = "guest"

type Interactor struct {
	store  settingsout.Store
	viewer settingsout.Viewer
}

func NewInteractor(store settingsout.Store, viewer settingsout.Viewer) settingsin.Usecase {
	return &Interactor{store: store, viewer: viewer}
}

func (i *Interactor) Load(ctx context.Context) (dto.SettingsOutput, error) {
	userID := i.userID()
	settings, found, err := i.store.Load(ctx, userID)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	if !found {
		settings = domain.Defaults()
	}
	return output(userID, settings), nil
}

func (i *Interactor) Save(ctx context.Context, settings domain.Settings) (dto.SettingsOutput, error) {
	userID := i.userID()
	if err := i.store.Save(ctx, userID, settings); err != nil {
		return dto.SettingsOutput{}, err
	}
	return output(userID, settings), nil
}

func (i *Interactor) Set(ctx context.Context, path, value string) (dto.SettingsOutput, error) {
	current, err := i.Load(ctx)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	updated, err := current.Settings.Set(path, value)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return i.Save(ctx, updated)
}

func (i *Interactor) Reset(ctx context.Context) (dto.SettingsOutput, error) {
	return i.Save(ctx, domain.Defaults())
}

func (i *Interactor) userID() string {
	if i.viewer == nil {
		return ""
	}
	return i.viewer.CurrentUserID()
}

func output(userID string, settings domain.Settings) dto.SettingsOutput {
	scope := userID
	if scope == "" {
		scope = guestScope
	}
	return dto.SettingsOutput{Scope: scope, Settings: settings}
}
