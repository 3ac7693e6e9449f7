package out

import (
	identityin "vgdesk/internal/modules/identity/port/in"
	settingsout "vgdesk/internal/modules/settings/port/out"
)

type IdentityViewer struct {
	identity identityin.Usecase
}

func NewIdentityViewer(identity identityin.Usecase) settingsout.Viewer {
	return &IdentityViewer{identity: identity}
}

func (v *IdentityViewer) CurrentUserID() string {
	if v.identity == nil {
		return ""
	}
	account, ok := v.identity.Current()
	if !ok {
		return ""
	}
	return account.ID
}
