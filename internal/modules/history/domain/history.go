package domain

import (
	"strings"
	"time"
)

const MaxItems = 200

type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusFailed     Status = "failed"
)

// Item is one analysis log entry. UserID is nil for guest runs.
type Item struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"userId"`
	FileName    string    `json:"fileName"`
	Query       string    `json:"query"`
	AnomalyType string    `json:"anomalyType,omitempty"`
	Time        time.Time `json:"time"`
	Status      Status    `json:"status"`
}

// Prepend puts item first and drops the oldest entries beyond MaxItems.
func Prepend(items []Item, item Item) []Item {
	out := make([]Item, 0, min(len(items)+1, MaxItems))
	out = append(out, item)
	for _, it := range items {
		if len(out) == MaxItems {
			break
		}
		out = append(out, it)
	}
	return out
}

// AnomalyType guesses the anomaly label from the query's first word.
func AnomalyType(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
