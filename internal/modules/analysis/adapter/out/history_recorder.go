package out

import (
	"context"

	analysisout "vgdesk/internal/modules/analysis/port/out"
	historydto "vgdesk/internal/modules/history/dto"
	historyin "vgdesk/internal/modules/history/port/in"
)

// HistoryRecorder appends a completed analysis to the history list.
type HistoryRecorder struct {
	history historyin.Usecase
}

func NewHistoryRecorder(history historyin.Usecase) analysisout.HistoryRecorder {
	return &HistoryRecorder{history: history}
}

func (r *HistoryRecorder) Record(ctx context.Context, userID, fileName, query string) error {
	_, err := r.history.Record(ctx, historydto.RecordInput{
		UserID:   userID,
		FileName: fileName,
		Query:    query,
	})
	return err
}
