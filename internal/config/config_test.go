package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venue.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
venue_id: parlaylp
timezone: America/Chicago
rollover_hour: 4
capacity: 250
history_days: 14
`)
	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.VenueID != "parlaylp" || v.Timezone != "America/Chicago" || v.RolloverHour != 4 {
		t.Errorf("unexpected config: %+v", v)
	}
	if v.Capacity != 250 || v.HistoryDays != 14 {
		t.Errorf("unexpected config: %+v", v)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, "venue_id: jimmyneutron\n")
	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()
	if v.Timezone != def.Timezone || v.RolloverHour != def.RolloverHour || v.HistoryDays != def.HistoryDays {
		t.Errorf("missing fields should default: %+v", v)
	}
}

func TestLoadRejectsBadRollover(t *testing.T) {
	path := writeConfig(t, "rollover_hour: 27\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for rollover_hour out of range")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, "timezone: Mars/Olympus_Mons\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
	if _, err := Default().Location(); err != nil {
		t.Errorf("default location must resolve: %v", err)
	}
}
