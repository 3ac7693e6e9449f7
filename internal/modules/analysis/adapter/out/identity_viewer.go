package out

import (
	analysisout "vgdesk/internal/modules/analysis/port/out"
	identityin "vgdesk/internal/modules/identity/port/in"
)

type IdentityViewer struct {
	identity identityin.Usecase
}

func NewIdentityViewer(identity identityin.Usecase) analysisout.Viewer {
	return &IdentityViewer{identity: identity}
}

// CurrentUserID is empty for guests.
func (v *IdentityViewer) CurrentUserID() string {
	if v.identity == nil {
		return ""
	}
	if account, ok := v.identity.Current(); ok {
		return account.ID
	}
	return ""
}
