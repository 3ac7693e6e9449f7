package domain_test

import (
	"testing"

	"vgdesk/internal/modules/settings/domain"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	d := domain.Defaults()
	if !d.Notifications.EmailNotifications || d.Notifications.PushNotifications {
		t.Fatalf("unexpected notification defaults %+v", d.Notifications)
	}
	if d.Privacy.DataRetention != "30" || d.Processing.MaxConcurrentAnalyses != "3" || d.Display.DateFormat != "MM/DD/YYYY" {
		t.Fatalf("unexpected defaults %+v", d)
	}
}

func TestSetByPath(t *testing.T) {
	t.Parallel()
	d := domain.Defaults()
	updated, err := d.Set("display.theme", "dark")
	if err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if updated.Display.Theme != "dark" || d.Display.Theme != "auto" {
		t.Fatalf("expected copy with new theme, got %s / original %s", updated.Display.Theme, d.Display.Theme)
	}
	updated, err = updated.Set("notifications.pushNotifications", "true")
	if err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if !updated.Notifications.PushNotifications || updated.Display.Theme != "dark" {
		t.Fatalf("unexpected result %+v", updated)
	}
	if _, err := d.Set("notifications.pushNotifications", "maybe"); err == nil {
		t.Fatalf("expected bool parse error")
	}
	if _, err := d.Set("display", "dark"); err == nil {
		t.Fatalf("expected path format error")
	}
	if _, err := d.Set("display.colour", "dark"); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := d.Set("privacy.retentionDays", "7"); err == nil {
		t.Fatalf("expected unknown field inside a known section to fail")
	}
	if _, err := d.Set("display.*", "dark"); err == nil {
		t.Fatalf("expected wildcard path to be rejected")
	}
	if _, err := d.Set("audio.volume", "3"); err == nil {
		t.Fatalf("expected unknown section error")
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()
	flat := domain.Defaults().Flatten()
	if len(flat) != 17 {
		t.Fatalf("expected 17 settings, got %d", len(flat))
	}
	if flat[0][0] != "display.dateFormat" || flat[0][1] != "MM/DD/YYYY" {
		t.Fatalf("expected sorted paths, first is %v", flat[0])
	}
	values := map[string]string{}
	for _, kv := range flat {
		values[kv[0]] = kv[1]
	}
	if values["notifications.pushNotifications"] != "false" || values["privacy.dataRetention"] != "30" {
		t.Fatalf("unexpected rendered values %v", values)
	}
}
