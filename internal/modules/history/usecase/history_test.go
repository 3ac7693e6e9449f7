package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	historyout "vgdesk/internal/modules/history/adapter/out"
	"vgdesk/internal/modules/history/domain"
	"vgdesk/internal/modules/history/dto"
	"vgdesk/internal/modules/history/usecase"
	"vgdesk/internal/platform/clock"
	"vgdesk/internal/platform/kv"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("h-%d", s.n)
}

var at = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

func TestRecordPrependsWithHeuristicAndGuestUser(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore()
	uc := usecase.NewInteractor(clock.Fixed(at), &seqID{}, historyout.NewKVHistoryStore(store))

	first, err := uc.Record(context.Background(), dto.RecordInput{FileName: "a.mp4", Query: "Fighting near door"})
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	if first.AnomalyType != "fighting" || first.Status != "completed" || first.UserID != "" {
		t.Fatalf("unexpected first item %+v", first)
	}
	if _, err := uc.Record(context.Background(), dto.RecordInput{UserID: "u-1", FileName: "b.mp4", Query: "arson"}); err != nil {
		t.Fatalf("record second: %v", err)
	}

	items, err := uc.List(context.Background(), dto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].FileName != "b.mp4" || items[1].FileName != "a.mp4" {
		t.Fatalf("expected newest first, got %+v", items)
	}

	var stored []domain.Item
	if found, _ := kv.GetJSON(context.Background(), store, kv.KeyHistory, &stored); !found {
		t.Fatalf("expected persisted history")
	}
	if stored[1].UserID != nil {
		t.Fatalf("guest entry must persist a null user id")
	}
	if !stored[0].Time.Equal(at) {
		t.Fatalf("unexpected time %s", stored[0].Time)
	}
}

func TestRecordCapsHistory(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore()
	uc := usecase.NewInteractor(clock.Fixed(at), &seqID{}, historyout.NewKVHistoryStore(store))
	for i := 0; i < domain.MaxItems+3; i++ {
		if _, err := uc.Record(context.Background(), dto.RecordInput{FileName: "v.mp4", Query: "q"}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	items, err := uc.List(context.Background(), dto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != domain.MaxItems {
		t.Fatalf("expected %d items, got %d", domain.MaxItems, len(items))
	}
	if items[0].ID != fmt.Sprintf("h-%d", domain.MaxItems+3) {
		t.Fatalf("expected newest item first, got %s", items[0].ID)
	}
}

func TestListFiltersAndLimits(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(clock.Fixed(at), &seqID{}, historyout.NewKVHistoryStore(kv.NewMemoryStore()))
	for _, user := range []string{"u-1", "", "u-1", "u-2"} {
		if _, err := uc.Record(context.Background(), dto.RecordInput{UserID: user, FileName: "v.mp4", Query: "q"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	mine, err := uc.List(context.Background(), dto.ListInput{UserID: "u-1"})
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected two entries for u-1, got %d", len(mine))
	}
	limited, _ := uc.List(context.Background(), dto.ListInput{Limit: 3})
	if len(limited) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(limited))
	}
	if err := uc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if all, _ := uc.List(context.Background(), dto.ListInput{}); len(all) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(all))
	}
}
