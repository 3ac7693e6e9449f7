package dto

import "time"

type RecordInput struct {
	UserID   string
	FileName string
	Query    string
	Status   string
}

type ListInput struct {
	Limit int
	// UserID restricts the list to one user's entries when set.
	UserID string
}

type ItemOutput struct {
	ID          string
	UserID      string
	FileName    string
	Query       string
	AnomalyType string
	Time        time.Time
	Status      string
}
