package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.MatchDistance != 100 {
		t.Errorf("MatchDistance = %f, want 100", cfg.MatchDistance)
	}
	if cfg.MaxMissingFrames != 30 {
		t.Errorf("MaxMissingFrames = %d, want 30", cfg.MaxMissingFrames)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should never be empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DARPAN_HTTP_ADDR", ":9090")
	t.Setenv("DARPAN_CAMERA_ID", "2")
	t.Setenv("DARPAN_MATCH_DISTANCE", "150.5")
	t.Setenv("DARPAN_MAX_MISSING_FRAMES", "not-a-number")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	if cfg.MatchDistance != 150.5 {
		t.Errorf("MatchDistance = %f, want 150.5", cfg.MatchDistance)
	}
	if cfg.MaxMissingFrames != 30 {
		t.Errorf("MaxMissingFrames = %d, want default 30 on bad input", cfg.MaxMissingFrames)
	}
}
