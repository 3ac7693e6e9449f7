package dto

import "vgdesk/internal/modules/settings/domain"

type SettingsOutput struct {
	// Scope is the signed-in user id, or "guest".
	Scope    string
	Settings domain.Settings
}
