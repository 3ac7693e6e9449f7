package in

import (
	"context"

	"vgdesk/internal/modules/history/dto"
	historyin "vgdesk/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, limit int, userID string) ([]dto.ItemOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Limit: limit, UserID: userID})
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}
